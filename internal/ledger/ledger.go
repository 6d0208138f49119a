// Package ledger computes the aggregates and listings shown by the
// dashboard, the expense list and the reports.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wedding-ledger/backend/internal/models"
	"gorm.io/gorm"
)

// Settings are the business parameters the aggregates depend on.
type Settings struct {
	// Zone is the fixed zone all day and month boundaries are computed in.
	Zone *time.Location

	// Budget is the overall spending ceiling.
	Budget decimal.Decimal

	// PaymentTypes is the settlement partition, in display order.
	PaymentTypes []string
}

// Ledger answers queries against the expense table.
type Ledger struct {
	db       *gorm.DB
	settings Settings

	// now is replaced in tests
	now func() time.Time
}

// New returns a Ledger reading from db.
func New(db *gorm.DB, settings Settings) Ledger {
	if settings.Zone == nil {
		settings.Zone = time.UTC
	}

	return Ledger{
		db:       db,
		settings: settings,
		now:      time.Now,
	}
}

// WithClock returns a copy of the Ledger that uses now as the current time.
func (l Ledger) WithClock(now func() time.Time) Ledger {
	l.now = now
	return l
}

// Settings returns the settings of the Ledger.
func (l Ledger) Settings() Settings {
	return l.settings
}

// Total is the sum of amounts for one grouping key.
type Total struct {
	Label string
	Total decimal.Decimal
}

// Dashboard holds everything the dashboard page shows.
type Dashboard struct {
	Total         decimal.Decimal
	Today         decimal.Decimal
	BudgetPercent decimal.Decimal
	PerCategory   []Total
	Latest        []models.Expense
	Last30Days    []Total
}

// Dashboard computes the dashboard aggregates.
func (l Ledger) Dashboard(ctx context.Context) (Dashboard, error) {
	var (
		d   Dashboard
		err error
	)

	d.Total, err = l.GrandTotal(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	d.BudgetPercent = l.BudgetPercent(d.Total)

	d.Today, err = l.TodayTotal(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	d.PerCategory, err = l.ByCategory(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	d.Latest, err = l.Latest(ctx, 10)
	if err != nil {
		return Dashboard{}, err
	}

	d.Last30Days, err = l.LastDays(ctx, 30)
	if err != nil {
		return Dashboard{}, err
	}

	return d, nil
}
