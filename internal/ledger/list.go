package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wedding-ledger/backend/internal/models"
	"gorm.io/gorm"
)

// Filter restricts the expense listing. Zero fields impose no constraint.
type Filter struct {
	// From and To are calendar days in the fixed zone. Both are inclusive.
	From time.Time
	To   time.Time

	Category    string
	PaymentType string

	// Search is matched case-insensitively as a substring of vendor,
	// description and notes.
	Search string
}

// Listing is the result of a filtered listing.
type Listing struct {
	Expenses []models.Expense
	Subtotal decimal.Decimal
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// apply adds the filter conditions to the query.
func (f Filter) apply(query *gorm.DB, zone *time.Location) *gorm.DB {
	if !f.From.IsZero() {
		query = query.Where("dt >= ?", startOf(f.From, zone))
	}

	if !f.To.IsZero() {
		query = query.Where("dt < ?", startOf(f.To, zone).AddDate(0, 0, 1))
	}

	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}

	if f.PaymentType != "" {
		query = query.Where("payment_type = ?", f.PaymentType)
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(search)) + "%"
		query = query.Where(
			`(LOWER(vendor) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\' OR LOWER(notes) LIKE ? ESCAPE '\')`,
			like, like, like,
		)
	}

	return query
}

// startOf returns the start of the calendar day of t in zone, in UTC.
func startOf(t time.Time, zone *time.Location) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, zone).In(time.UTC)
}

// List returns the expenses matching the filter, newest first, and their
// subtotal. The subtotal is always the sum of exactly the returned rows.
func (l Ledger) List(ctx context.Context, f Filter) (Listing, error) {
	var expenses []models.Expense

	err := f.apply(l.db.WithContext(ctx), l.settings.Zone).
		Order("dt DESC").
		Order("id DESC").
		Find(&expenses).Error
	if err != nil {
		return Listing{}, err
	}

	subtotal := decimal.Zero
	for _, e := range expenses {
		subtotal = subtotal.Add(e.Amount)
	}

	return Listing{Expenses: expenses, Subtotal: subtotal}, nil
}

// Latest returns the n most recent expenses.
func (l Ledger) Latest(ctx context.Context, n int) ([]models.Expense, error) {
	var expenses []models.Expense

	err := l.db.WithContext(ctx).Order("dt DESC").Order("id DESC").Limit(n).Find(&expenses).Error
	if err != nil {
		return nil, err
	}

	return expenses, nil
}

// Categories returns the distinct categories of stored expenses.
func (l Ledger) Categories(ctx context.Context) ([]string, error) {
	var categories []string

	err := l.db.WithContext(ctx).Model(&models.Expense{}).Distinct("category").Order("category ASC").Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}

	return categories, nil
}

// Get returns the expense with the given id.
func (l Ledger) Get(ctx context.Context, id uint) (models.Expense, error) {
	var expense models.Expense

	err := l.db.WithContext(ctx).First(&expense, id).Error
	if err != nil {
		return models.Expense{}, err
	}

	return expense, nil
}

// All returns every expense, oldest first.
func (l Ledger) All(ctx context.Context) ([]models.Expense, error) {
	var expenses []models.Expense

	err := l.db.WithContext(ctx).Order("dt ASC").Order("id ASC").Find(&expenses).Error
	if err != nil {
		return nil, err
	}

	return expenses, nil
}
