package audit

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestEvent_DetailJSON(t *testing.T) {
	e := NewEvent(ActionRepayment, "loan", Actor{ID: "u1", Email: "owner@books.pk"}, RepaymentDetail{
		LoanID:           "l1",
		RepaymentID:      "r1",
		PartnerName:      "Partner A",
		AmountLocal:      decimal.NewFromInt(1400),
		AmountUSD:        decimal.NewFromInt(5),
		OutstandingLocal: decimal.NewFromInt(1400),
	})

	raw, err := e.detailJSON()
	if err != nil {
		t.Fatalf("detailJSON error = %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("detail is not valid JSON: %v", err)
	}
	if parsed["loan_id"] != "l1" || parsed["partner_name"] != "Partner A" {
		t.Errorf("unexpected detail payload: %v", parsed)
	}
}

func TestEvent_NilDetail(t *testing.T) {
	e := NewEvent(ActionExport, "expenses", Actor{ID: "u1", Email: "owner@books.pk"}, nil)
	raw, err := e.detailJSON()
	if err != nil {
		t.Fatalf("detailJSON error = %v", err)
	}
	if raw != nil {
		t.Errorf("nil detail should produce no payload, got %s", raw)
	}
}
