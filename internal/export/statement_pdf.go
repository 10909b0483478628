package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/mushxhid/Accounting-sub000/internal/ledger"
	"github.com/mushxhid/Accounting-sub000/internal/money"
)

// BuildStatementPDF renders the full ledger walk, one row per transaction
// with the running USD balance, ending with the final total.
func BuildStatementPDF(txs []ledger.Transaction) ([]byte, error) {
	sorted := ledger.Sorted(txs)
	balances := ledger.ComputeBalances(txs)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Account Statement", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Account Statement")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(25, 7, "Date")
	pdf.Cell(28, 7, "Type")
	pdf.Cell(45, 7, "Amount (PKR)")
	pdf.Cell(40, 7, "Amount (USD)")
	pdf.Cell(40, 7, "Balance (USD)")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 10)
	for _, tx := range sorted {
		pdf.Cell(25, 6, tx.Date.Format("2006-01-02"))
		pdf.Cell(28, 6, string(tx.Kind))
		pdf.Cell(45, 6, money.FormatLocal(tx.DeltaLocal))
		pdf.Cell(40, 6, money.FormatUSD(tx.DeltaUSD))
		pdf.Cell(40, 6, money.FormatUSD(balances[tx.ID].USD))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Current Balance: $%s", money.FormatUSD(ledger.FinalTotalUSD(txs))))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
