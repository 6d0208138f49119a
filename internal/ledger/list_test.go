package ledger_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wedding-ledger/backend/internal/ledger"
	"github.com/wedding-ledger/backend/internal/models"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, kolkata)
}

func (suite *TestSuiteStandard) TestListFilters() {
	suite.seed()

	tests := []struct {
		name   string
		filter ledger.Filter
		count  int
	}{
		{"No filter", ledger.Filter{}, 6},
		{"From is inclusive", ledger.Filter{From: day(2024, 2, 1)}, 5},
		{"To includes the whole day", ledger.Filter{To: day(2024, 1, 31)}, 1},
		{"Single day", ledger.Filter{From: day(2024, 3, 15), To: day(2024, 3, 15)}, 2},
		{"Category", ledger.Filter{Category: "Venue"}, 2},
		{"Category is exact", ledger.Filter{Category: "venue"}, 0},
		{"Payment type", ledger.Filter{PaymentType: "Advance"}, 2},
		{"Search vendor ignores case", ledger.Filter{Search: "GRAND"}, 3},
		{"Search notes", ledger.Filter{Search: "veg menu"}, 1},
		{"Search description", ledger.Filter{Search: "shoot"}, 1},
		{"Search percent is literal", ledger.Filter{Search: "100%"}, 1},
		{"Search underscore is literal", ledger.Filter{Search: "_"}, 0},
		{"Filters compose", ledger.Filter{Search: "grand", PaymentType: "Advance"}, 1},
		{"Nothing matches", ledger.Filter{Category: "Venue", From: day(2024, 3, 1)}, 0},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			listing, err := suite.ledger.List(context.Background(), tt.filter)
			suite.Require().Nil(err)
			suite.Assert().Len(listing.Expenses, tt.count)

			sum := decimal.Zero
			for _, e := range listing.Expenses {
				sum = sum.Add(e.Amount)
			}
			suite.Assert().True(sum.Equal(listing.Subtotal), "subtotal %s must equal the sum %s of the returned rows", listing.Subtotal, sum)
		})
	}
}

func (suite *TestSuiteStandard) TestListOrder() {
	suite.seed()

	listing, err := suite.ledger.List(context.Background(), ledger.Filter{})
	suite.Require().Nil(err)

	for i := 1; i < len(listing.Expenses); i++ {
		suite.Assert().False(listing.Expenses[i].Date.After(listing.Expenses[i-1].Date), "expenses must be sorted newest first")
	}
	suite.Assert().True(decimal.RequireFromString("58750.79").Equal(listing.Subtotal))
}

func (suite *TestSuiteStandard) TestCategories() {
	suite.seed()

	categories, err := suite.ledger.Categories(context.Background())
	suite.Require().Nil(err)
	suite.Assert().Equal([]string{"Catering", "Misc", "Photography", "Venue"}, categories)
}

func (suite *TestSuiteStandard) TestGet() {
	created := suite.createTestExpense(expense("2024-02-01 10:00", "10", "Venue"))

	e, err := suite.ledger.Get(context.Background(), created.ID)
	suite.Require().Nil(err)
	suite.Assert().Equal("Venue", e.Category)

	_, err = suite.ledger.Get(context.Background(), created.ID+1)
	suite.Assert().ErrorIs(err, models.ErrNotFound)
}

func (suite *TestSuiteStandard) TestAll() {
	suite.seed()

	expenses, err := suite.ledger.All(context.Background())
	suite.Require().Nil(err)
	suite.Require().Len(expenses, 6)

	for i := 1; i < len(expenses); i++ {
		suite.Assert().False(expenses[i].Date.Before(expenses[i-1].Date), "expenses must be sorted oldest first")
	}
}
