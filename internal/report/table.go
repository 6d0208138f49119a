// Package report builds the summary tables and renders them as PDF, CSV
// and XLSX documents.
package report

import (
	"time"

	"github.com/wedding-ledger/backend/internal/ledger"
	"github.com/wedding-ledger/backend/internal/models"
	"github.com/wedding-ledger/backend/internal/types"
)

// Placeholder is shown instead of an absent vendor.
const Placeholder = "—"

// Table is a titled table of text cells.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// VendorTable is the vendor-wise report, highest total first.
func VendorTable(totals []ledger.Total, currency string) Table {
	return Table{
		Title:   "Vendor-wise Summary",
		Headers: []string{"Vendor", "Total (" + currency + ")"},
		Rows:    rows(totals, vendorLabel, currency),
	}
}

// MonthlyTable is the month-wise report, oldest month first.
func MonthlyTable(totals []ledger.Total, currency string) Table {
	return Table{
		Title:   "Monthly Summary",
		Headers: []string{"Month", "Total (" + currency + ")"},
		Rows:    rows(totals, monthLabel, currency),
	}
}

// VendorSummary is the vendor-wise report with plain amounts, as used for
// spreadsheet exports.
func VendorSummary(totals []ledger.Total, currency string) Table {
	return Table{
		Title:   "Vendor Summary",
		Headers: []string{"Vendor", "Total Amount (" + currency + ")"},
		Rows:    rows(totals, vendorLabel, ""),
	}
}

// MonthlySummary is the month-wise report with plain amounts, as used for
// spreadsheet exports.
func MonthlySummary(totals []ledger.Total, currency string) Table {
	return Table{
		Title:   "Monthly Summary",
		Headers: []string{"Month (YYYY-MM)", "Total Amount (" + currency + ")"},
		Rows:    rows(totals, monthLabel, ""),
	}
}

// ExpenseTable lists expenses with the same columns as the CSV export.
func ExpenseTable(expenses []models.Expense, zone *time.Location) Table {
	t := Table{
		Title:   "Expenses",
		Headers: []string{"date", "time", "category", "subcategory", "vendor", "description", "amount", "payment_mode", "payment_type", "notes", "attachment"},
		Rows:    make([][]string, 0, len(expenses)),
	}

	for _, e := range expenses {
		local := e.Date.In(zone)
		t.Rows = append(t.Rows, []string{
			local.Format(types.DateLayout),
			local.Format(types.ClockLayout),
			e.Category,
			models.Value(e.Subcategory),
			models.Value(e.Vendor),
			models.Value(e.Description),
			e.Amount.StringFixed(2),
			models.Value(e.PaymentMode),
			models.Value(e.PaymentType),
			models.Value(e.Notes),
			models.Value(e.Attachment),
		})
	}

	return t
}

func vendorLabel(label string) string {
	if label == "" {
		return Placeholder
	}
	return label
}

func monthLabel(label string) string {
	return label
}

func rows(totals []ledger.Total, label func(string) string, currency string) [][]string {
	out := make([][]string, 0, len(totals))
	for _, t := range totals {
		out = append(out, []string{label(t.Label), currency + t.Total.StringFixed(2)})
	}
	return out
}
