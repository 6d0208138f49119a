package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wedding-ledger/backend/internal/models"
	"github.com/wedding-ledger/backend/internal/types"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

// sum returns the sum of all amounts matched by the query, rounded to cents.
func sum(query *gorm.DB) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := query.Model(&models.Expense{}).Select("SUM(amount)").Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}

	if !total.Valid {
		return decimal.Zero, nil
	}

	return total.Decimal.Round(2), nil
}

// GrandTotal returns the sum of all expenses.
func (l Ledger) GrandTotal(ctx context.Context) (decimal.Decimal, error) {
	return sum(l.db.WithContext(ctx))
}

// TotalBetween returns the sum of all expenses in [from, to).
func (l Ledger) TotalBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return sum(l.db.WithContext(ctx).Where("dt >= ? AND dt < ?", from.In(time.UTC), to.In(time.UTC)))
}

// TodayTotal returns the sum of all expenses on the current day in the
// fixed zone.
func (l Ledger) TodayTotal(ctx context.Context) (decimal.Decimal, error) {
	start := types.StartOfDay(l.now(), l.settings.Zone)
	return l.TotalBetween(ctx, start, start.AddDate(0, 0, 1))
}

// BudgetPercent returns total as percentage of the budget. A zero budget
// yields zero.
func (l Ledger) BudgetPercent(total decimal.Decimal) decimal.Decimal {
	if l.settings.Budget.IsZero() {
		return decimal.Zero
	}

	return total.Mul(hundred).Div(l.settings.Budget)
}

// groupBy returns the totals per value of column, highest total first.
// NULL values are grouped under the empty label.
func (l Ledger) groupBy(ctx context.Context, column string) ([]Total, error) {
	var totals []Total

	err := l.db.WithContext(ctx).
		Model(&models.Expense{}).
		Select("COALESCE(" + column + ", '') AS label, SUM(amount) AS total").
		Group(column).
		Order("total DESC").
		Order("label ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	for i := range totals {
		totals[i].Total = totals[i].Total.Round(2)
	}

	return totals, nil
}

// ByCategory returns the totals per category, highest total first.
func (l Ledger) ByCategory(ctx context.Context) ([]Total, error) {
	return l.groupBy(ctx, "category")
}

// ByVendor returns the totals per vendor, highest total first. Expenses
// without vendor are grouped under the empty label.
func (l Ledger) ByVendor(ctx context.Context) ([]Total, error) {
	return l.groupBy(ctx, "vendor")
}

// ByPaymentType returns one total for each configured payment type, in
// configuration order. Types without expenses have a zero total.
func (l Ledger) ByPaymentType(ctx context.Context) ([]Total, error) {
	totals := make([]Total, 0, len(l.settings.PaymentTypes))
	if len(l.settings.PaymentTypes) == 0 {
		return totals, nil
	}

	var found []Total
	err := l.db.WithContext(ctx).
		Model(&models.Expense{}).
		Select("payment_type AS label, SUM(amount) AS total").
		Where("payment_type IN ?", l.settings.PaymentTypes).
		Group("payment_type").
		Scan(&found).Error
	if err != nil {
		return nil, err
	}

	byLabel := make(map[string]decimal.Decimal, len(found))
	for _, t := range found {
		byLabel[t.Label] = t.Total.Round(2)
	}

	for _, paymentType := range l.settings.PaymentTypes {
		totals = append(totals, Total{Label: paymentType, Total: byLabel[paymentType]})
	}

	return totals, nil
}

// ByMonth returns the totals per calendar month in the fixed zone, oldest
// month first.
func (l Ledger) ByMonth(ctx context.Context) ([]Total, error) {
	return l.bucket(l.db.WithContext(ctx), func(t time.Time) string {
		return types.MonthOf(t, l.settings.Zone).String()
	})
}

// LastDays returns the totals per calendar day in the fixed zone for all
// expenses in the trailing window of n days, oldest day first.
func (l Ledger) LastDays(ctx context.Context, n int) ([]Total, error) {
	since := l.now().AddDate(0, 0, -n).In(time.UTC)

	return l.bucket(l.db.WithContext(ctx).Where("dt >= ?", since), func(t time.Time) string {
		return types.DayOf(t, l.settings.Zone).String()
	})
}

// bucket sums the expenses matched by query by the key computed from
// their timestamp. Keys must sort chronologically.
//
// Bucketing happens here instead of in SQL so that day and month
// boundaries follow the fixed zone on every database driver.
func (l Ledger) bucket(query *gorm.DB, key func(time.Time) string) ([]Total, error) {
	var expenses []models.Expense
	err := query.Select("dt", "amount").Order("dt ASC").Find(&expenses).Error
	if err != nil {
		return nil, err
	}

	totals := []Total{}
	for _, e := range expenses {
		label := key(e.Date)

		// Rows are ordered by time, so a new key always starts a new bucket
		if len(totals) == 0 || totals[len(totals)-1].Label != label {
			totals = append(totals, Total{Label: label})
		}
		totals[len(totals)-1].Total = totals[len(totals)-1].Total.Add(e.Amount)
	}

	return totals, nil
}
