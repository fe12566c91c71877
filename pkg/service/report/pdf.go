package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/feinledger/fein/pkg/access"
	"github.com/feinledger/fein/pkg/domain"
	"github.com/feinledger/fein/pkg/dto"
	"github.com/phpdave11/gofpdf"
)

// maxPDFRows caps the exceeding transactions table.
const maxPDFRows = 200

// SummaryPDF renders the spending summary and the exceeding transactions
// of the caller as an A4 PDF document.
func (s *Service) SummaryPDF(
	ctx context.Context,
	who access.Identity,
	start, end string,
) ([]byte, error) {
	summary, err := s.Summary(ctx, who, start, end)
	if err != nil {
		return nil, err
	}
	exceeding, err := s.ExceedingTransactions(ctx, who, "")
	if err != nil {
		return nil, err
	}
	doc, err := RenderPDF(who.Email, summary, exceeding, time.Now().UTC())
	if err != nil {
		s.logger.Error("pdf rendering failed", "userID", who.UserID, "error", err)
		return nil, fmt.Errorf("%w: render pdf", domain.ErrReportFailure)
	}
	return doc, nil
}

// RenderPDF lays out a spending summary as a PDF document.
func RenderPDF(
	owner string,
	summary *dto.SpendingSummary,
	exceeding []dto.ExceedingTransaction,
	generatedAt time.Time,
) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Fein spending summary")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	if owner != "" {
		pdf.Cell(0, 6, "User: "+owner)
		pdf.Ln(5)
	}
	if r := summary.SpendingByRange; r != nil {
		pdf.Cell(0, 6, "Period: "+r.StartDate+" to "+r.EndDate)
		pdf.Ln(5)
	}
	pdf.Ln(5)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(93, 10, "Total spending", "1", 0, "C", true, 0, "")
	pdf.CellFormat(93, 10, "Spending in period", "1", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	inPeriod := "-"
	if r := summary.SpendingByRange; r != nil {
		inPeriod = r.Total.StringFixed(2)
	}
	pdf.CellFormat(93, 10, summary.TotalSpending.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(93, 10, inPeriod, "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	section(pdf, "Spending by category")
	header(pdf, []float64{136, 50}, []string{"CATEGORY", "TOTAL"})
	pdf.SetFont("Helvetica", "", 9)
	if len(summary.SpendingByCategory) == 0 {
		pdf.CellFormat(186, 8, "no tagged spending", "1", 1, "C", false, 0, "")
	}
	for _, c := range summary.SpendingByCategory {
		pdf.CellFormat(136, 8, trimTo(c.Category, 80), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, c.Total.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	section(pdf, "Transactions exceeding the running balance")
	cols := []float64{24, 40, 62, 30, 30}
	titles := []string{"DATE", "ACCOUNT", "TRANSACTION", "SPENT", "BALANCE"}
	header(pdf, cols, titles)
	pdf.SetFont("Helvetica", "", 9)
	if len(exceeding) == 0 {
		pdf.CellFormat(186, 8, "none", "1", 1, "C", false, 0, "")
	}
	for i, row := range exceeding {
		if i >= maxPDFRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, "truncated", "1", 1, "C", false, 0, "")
			break
		}
		if pdf.GetY() > 270 {
			pdf.AddPage()
			header(pdf, cols, titles)
			pdf.SetFont("Helvetica", "", 9)
		}
		pdf.CellFormat(cols[0], 8, row.Date.Format("2006-01-02"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(cols[1], 8, trimTo(row.AccountName, 22), "1", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2], 8, trimTo(row.TransactionName, 36), "1", 0, "L", false, 0, "")
		pdf.CellFormat(cols[3], 8, row.SpentAmount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(cols[4], 8, row.RunningBalance.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated "+generatedAt.Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func section(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(20, 20, 20)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)
}

func header(pdf *gofpdf.Fpdf, widths []float64, titles []string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	for i, t := range titles {
		ln := 0
		if i == len(titles)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 8, t, "1", ln, "C", true, 0, "")
	}
}

func trimTo(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
