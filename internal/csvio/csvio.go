// Package csvio reads and writes the expense table as CSV.
package csvio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
	"github.com/wedding-ledger/backend/internal/models"
	"github.com/wedding-ledger/backend/internal/types"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gorm.io/gorm"
)

// Filename is the name exports are served as.
const Filename = "expenses_all.csv"

// row is one line of the CSV file. The field order is the column order of
// exports, imports match columns by header name.
type row struct {
	Date        string `csv:"date"`
	Time        string `csv:"time"`
	Category    string `csv:"category"`
	Subcategory string `csv:"subcategory"`
	Vendor      string `csv:"vendor"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	PaymentMode string `csv:"payment_mode"`
	PaymentType string `csv:"payment_type"`
	Notes       string `csv:"notes"`
	Attachment  string `csv:"attachment"`
}

// Attachments reports if a stored attachment exists.
type Attachments interface {
	Exists(name string) bool
}

// Options configure the import.
type Options struct {
	// Zone the date and time columns are interpreted in.
	Zone *time.Location

	// DefaultCategory is used for rows without category.
	DefaultCategory string

	// Attachments is used to drop references to files that do not exist.
	// If nil, attachment references are dropped.
	Attachments Attachments
}

// ErrNoHeader is returned when the input does not even contain a header row.
var ErrNoHeader = &types.InputError{Field: "CSV header row"}

// Export writes all expenses, oldest first.
func Export(ctx context.Context, db *gorm.DB, zone *time.Location, w io.Writer) error {
	var expenses []models.Expense
	err := db.WithContext(ctx).Order("dt ASC").Order("id ASC").Find(&expenses).Error
	if err != nil {
		return err
	}

	rows := make([]row, 0, len(expenses))
	for _, e := range expenses {
		local := e.Date.In(zone)

		rows = append(rows, row{
			Date:        local.Format(types.DateLayout),
			Time:        local.Format(types.ClockLayout),
			Category:    e.Category,
			Subcategory: models.Value(e.Subcategory),
			Vendor:      models.Value(e.Vendor),
			Description: models.Value(e.Description),
			Amount:      e.Amount.StringFixed(2),
			PaymentMode: models.Value(e.PaymentMode),
			PaymentType: models.Value(e.PaymentType),
			Notes:       models.Value(e.Notes),
			Attachment:  models.Value(e.Attachment),
		})
	}

	return gocsv.Marshal(rows, w)
}

// Parse reads expenses from CSV. It stops at the first row that cannot be
// parsed.
func Parse(r io.Reader, opts Options) ([]models.Expense, error) {
	if opts.Zone == nil {
		opts.Zone = time.UTC
	}

	// Spreadsheet applications like to prepend a byte order mark
	r = transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	var rows []row
	err := gocsv.Unmarshal(r, &rows)
	if errors.Is(err, gocsv.ErrEmptyCSVFile) {
		return nil, ErrNoHeader
	} else if err != nil {
		return nil, &types.FormatError{Field: "CSV file", Value: "", Err: err}
	}

	expenses := make([]models.Expense, 0, len(rows))
	for i, record := range rows {
		e, err := record.expense(opts)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line(i), err)
		}
		expenses = append(expenses, e)
	}

	return expenses, nil
}

// line is the line in the file of the i-th data row. The header is line 1.
func line(i int) int {
	return i + 2
}

func (r row) expense(opts Options) (models.Expense, error) {
	dt, err := types.ParseDateTime(r.Date, r.Time, opts.Zone)
	if err != nil {
		return models.Expense{}, err
	}

	amount, err := types.ParseAmount(r.Amount)
	if err != nil {
		return models.Expense{}, err
	}

	category := models.Text(r.Category)
	if category == nil {
		category = &opts.DefaultCategory
	}

	attachment := models.Text(r.Attachment)
	if attachment != nil && (opts.Attachments == nil || !opts.Attachments.Exists(*attachment)) {
		log.Warn().Str("attachment", *attachment).Msg("dropping reference to missing attachment")
		attachment = nil
	}

	return models.Expense{
		Date:        dt,
		Category:    *category,
		Subcategory: models.Text(r.Subcategory),
		Vendor:      models.Text(r.Vendor),
		Description: models.Text(r.Description),
		Amount:      amount,
		PaymentMode: models.Text(r.PaymentMode),
		PaymentType: models.Text(r.PaymentType),
		Notes:       models.Text(r.Notes),
		Attachment:  attachment,
	}, nil
}

// Import parses all rows and stores them in a single transaction. Either
// all rows are stored or none. It returns the number of stored rows.
func Import(ctx context.Context, db *gorm.DB, r io.Reader, opts Options) (int, error) {
	expenses, err := Parse(r, opts)
	if err != nil {
		return 0, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range expenses {
			if err := tx.Create(&expenses[i]).Error; err != nil {
				return fmt.Errorf("line %d: %w", line(i), err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(expenses), nil
}
