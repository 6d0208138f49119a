package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wedding-ledger/backend/internal/types"
	"gorm.io/gorm"
)

// Expense is one recorded spend event.
type Expense struct {
	ID          uint            `gorm:"primaryKey"`
	Date        time.Time       `gorm:"column:dt;not null;index"`
	Category    string          `gorm:"size:80;not null;index"`
	Subcategory *string         `gorm:"size:80"`
	Vendor      *string         `gorm:"size:120;index"`
	Description *string         `gorm:"size:240"`
	Amount      decimal.Decimal `gorm:"type:DECIMAL(20,2);not null"`
	PaymentMode *string         `gorm:"size:40"`
	PaymentType *string         `gorm:"size:20;index"`
	Notes       *string
	Attachment  *string   `gorm:"size:200"`
	CreatedAt   time.Time `gorm:"not null;<-:create"`
}

// AfterFind updates the timestamps to use UTC as
// timezone, not +0000.
func (e *Expense) AfterFind(_ *gorm.DB) (err error) {
	e.Date = e.Date.In(time.UTC)
	e.CreatedAt = e.CreatedAt.In(time.UTC)
	return nil
}

// BeforeSave normalizes the expense before it is written.
//
// Timestamps are stored in UTC, text is trimmed, blank optional text is
// stored as NULL and the amount is rounded to cents.
func (e *Expense) BeforeSave(_ *gorm.DB) (err error) {
	if e.Date.IsZero() {
		return &types.InputError{Field: "date"}
	}
	e.Date = e.Date.In(time.UTC)

	e.Category = strings.TrimSpace(e.Category)
	if e.Category == "" {
		return &types.InputError{Field: "category"}
	}

	if e.Amount.IsNegative() {
		return &types.FormatError{Field: "amount", Value: e.Amount.String()}
	}
	e.Amount = e.Amount.Round(2)

	for _, field := range []**string{&e.Subcategory, &e.Vendor, &e.Description, &e.PaymentMode, &e.PaymentType, &e.Notes, &e.Attachment} {
		*field = Text(Value(*field))
	}

	return nil
}

// Text returns a pointer to the trimmed string, or nil if it is blank.
func Text(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Value dereferences an optional string, returning "" for nil.
func Value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
