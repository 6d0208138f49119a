package models_test

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wedding-ledger/backend/internal/models"
	"github.com/wedding-ledger/backend/internal/types"
)

var kolkata = time.FixedZone("IST", 5*60*60+30*60)

func (suite *TestSuiteStandard) TestExpenseNormalization() {
	expense := suite.createTestExpense(models.Expense{
		Date:        time.Date(2024, 12, 5, 12, 0, 0, 0, kolkata),
		Category:    "  Catering ",
		Vendor:      models.Text("Sharma Caterers"),
		Description: models.Text("   "),
		Notes:       new(string),
		Amount:      decimal.RequireFromString("1500.555"),
	})

	var stored models.Expense
	suite.Require().Nil(suite.db.First(&stored, expense.ID).Error)

	suite.Assert().Equal("Catering", stored.Category)
	suite.Assert().Equal("Sharma Caterers", models.Value(stored.Vendor))
	suite.Assert().Nil(stored.Description, "blank text must be stored as NULL")
	suite.Assert().Nil(stored.Notes, "empty text must be stored as NULL")
	suite.Assert().True(decimal.RequireFromString("1500.56").Equal(stored.Amount), "amount is %s", stored.Amount)
	suite.Assert().Equal(time.UTC, stored.Date.Location())
	suite.Assert().True(time.Date(2024, 12, 5, 6, 30, 0, 0, time.UTC).Equal(stored.Date))
	suite.Assert().False(stored.CreatedAt.IsZero())
}

func (suite *TestSuiteStandard) TestExpenseRequiredFields() {
	err := suite.db.Create(&models.Expense{Category: "Venue", Amount: decimal.NewFromInt(1)}).Error
	var inputErr *types.InputError
	suite.Assert().ErrorAs(err, &inputErr)
	suite.Assert().Equal("date", inputErr.Field)

	err = suite.db.Create(&models.Expense{Date: time.Now(), Category: " ", Amount: decimal.NewFromInt(1)}).Error
	suite.Assert().ErrorAs(err, &inputErr)
	suite.Assert().Equal("category", inputErr.Field)

	err = suite.db.Create(&models.Expense{Date: time.Now(), Category: "Venue", Amount: decimal.NewFromInt(-1)}).Error
	var formatErr *types.FormatError
	suite.Assert().ErrorAs(err, &formatErr)
}

func (suite *TestSuiteStandard) TestExpenseSaveKeepsCreatedAt() {
	expense := suite.createTestExpense(models.Expense{
		Date:     time.Date(2024, 1, 10, 9, 0, 0, 0, kolkata),
		Category: "Venue",
		Amount:   decimal.NewFromInt(100),
	})
	createdAt := expense.CreatedAt

	expense.Category = "Decor"
	expense.CreatedAt = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	suite.Require().Nil(suite.db.Save(&expense).Error)

	var stored models.Expense
	suite.Require().Nil(suite.db.First(&stored, expense.ID).Error)
	suite.Assert().Equal("Decor", stored.Category)
	suite.Assert().WithinDuration(createdAt, stored.CreatedAt, time.Second)
}

func (suite *TestSuiteStandard) TestTextHelpers() {
	suite.Assert().Nil(models.Text(""))
	suite.Assert().Nil(models.Text(" \t"))
	suite.Assert().Equal("x", *models.Text(" x "))
	suite.Assert().Equal("", models.Value(nil))
}
