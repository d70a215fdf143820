package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/izzico/izzico-backend/errors"
	"github.com/izzico/izzico-backend/logger"
	"github.com/izzico/izzico-backend/types"
	"github.com/jung-kurt/gofpdf"
)

// exportFetchLimit bounds how much history a single statement covers.
const exportFetchLimit = 1000

// ExportServiceInterface is the expense export contract the handlers use.
type ExportServiceInterface interface {
	ExportExpensesToPDF(ctx context.Context, propertyID, userID string) ([]byte, error)
}

// ExportService renders a property's expense history as a PDF statement.
type ExportService struct {
	expenses ExpenseServiceInterface
	property func(ctx context.Context, id string) (*types.Property, error)
}

func NewExportService(expenses ExpenseServiceInterface, propertyLookup func(ctx context.Context, id string) (*types.Property, error)) *ExportService {
	return &ExportService{expenses: expenses, property: propertyLookup}
}

// ExportExpensesToPDF renders the property's expenses, newest first, into a
// single-table PDF. Authorization is delegated to the expense service, which
// rejects non-residents.
func (s *ExportService) ExportExpensesToPDF(ctx context.Context, propertyID, userID string) ([]byte, error) {
	expenses, err := s.expenses.ListPropertyExpenses(ctx, propertyID, userID, exportFetchLimit)
	if err != nil {
		return nil, err
	}

	propertyName := propertyID
	if s.property != nil {
		if property, perr := s.property(ctx, propertyID); perr == nil {
			propertyName = property.Name
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Expense statement", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Expenses - %s", propertyName))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", time.Now().UTC().Format("2006-01-02 15:04 UTC")))
	pdf.Ln(10)

	// Table header.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	headers := []struct {
		label string
		width float64
	}{
		{"Date", 24},
		{"Title", 60},
		{"Category", 28},
		{"Paid by", 40},
		{"Amount", 24},
		{"Status", 14},
	}
	for _, h := range headers {
		pdf.CellFormat(h.width, 8, h.label, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, e := range expenses {
		pdf.CellFormat(24, 7, e.Date.Format("2006-01-02"), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, truncate(e.Title, 40), "1", 0, "L", false, 0, "")
		pdf.CellFormat(28, 7, string(e.Category), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, truncate(e.PaidByName, 26), "1", 0, "L", false, 0, "")
		pdf.CellFormat(24, 7, fmt.Sprintf("%s %s", e.Amount.StringFixed(2), e.Currency), "1", 0, "R", false, 0, "")
		pdf.CellFormat(14, 7, settlementLabel(e), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		logger.GetLogger().Errorw("Failed to render expense PDF", "error", err)
		return nil, errors.InternalServerError("failed to render PDF")
	}
	return buf.Bytes(), nil
}

// truncate shortens on rune boundaries so multibyte titles are never cut
// mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// settlementLabel marks an expense settled only once every split is paid.
func settlementLabel(e types.ExpenseWithDetails) string {
	if len(e.Splits) == 0 {
		return ""
	}
	for _, split := range e.Splits {
		if !split.Paid {
			return "open"
		}
	}
	return "paid"
}
