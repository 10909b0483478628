package audit

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Action string

const (
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionRepayment Action = "repayment"
	ActionExport    Action = "export"
)

type Actor struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Detail is a closed union: only the types below implement it, so every
// audit payload has a fixed, machine-parseable schema.
type Detail interface {
	isDetail()
}

// RecordDetail covers create/update/delete of a single record.
type RecordDetail struct {
	EntityID    string          `json:"entity_id"`
	Name        string          `json:"name"`
	AmountLocal decimal.Decimal `json:"amount_local"`
	AmountUSD   decimal.Decimal `json:"amount_usd"`
}

// RepaymentDetail covers a repayment applied to a loan.
type RepaymentDetail struct {
	LoanID           string          `json:"loan_id"`
	RepaymentID      string          `json:"repayment_id"`
	PartnerName      string          `json:"partner_name"`
	AmountLocal      decimal.Decimal `json:"amount_local"`
	AmountUSD        decimal.Decimal `json:"amount_usd"`
	OutstandingLocal decimal.Decimal `json:"outstanding_local"`
}

// ExportDetail covers a list export.
type ExportDetail struct {
	Collection string `json:"collection"`
	Rows       int    `json:"rows"`
	Format     string `json:"format"`
}

func (RecordDetail) isDetail()    {}
func (RepaymentDetail) isDetail() {}
func (ExportDetail) isDetail()    {}

type Event struct {
	Action     Action    `json:"action"`
	Entity     string    `json:"entity"`
	Actor      Actor     `json:"actor"`
	OccurredAt time.Time `json:"occurred_at"`
	Detail     Detail    `json:"detail"`
}

// NewEvent stamps the event time; the zero Detail is allowed but unusual.
func NewEvent(action Action, entity string, actor Actor, detail Detail) Event {
	return Event{
		Action:     action,
		Entity:     entity,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
		Detail:     detail,
	}
}

func (e Event) detailJSON() ([]byte, error) {
	if e.Detail == nil {
		return nil, nil
	}
	return json.Marshal(e.Detail)
}
