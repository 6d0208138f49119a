package controllers_test

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wedding-ledger/backend/internal/models"
	"github.com/wedding-ledger/backend/test"
)

var validForm = map[string]string{
	"date":         "2024-02-14",
	"time":         "18:30",
	"amount":       "1500.5",
	"category":     " Catering ",
	"subcategory":  "Food",
	"vendor":       "Sharma Caterers",
	"description":  "",
	"payment_mode": "UPI",
	"payment_type": "Advance",
	"notes":        "Veg menu",
}

func formWith(changes map[string]string) map[string]string {
	form := map[string]string{}
	for k, v := range validForm {
		form[k] = v
	}
	for k, v := range changes {
		form[k] = v
	}
	return form
}

func (suite *TestSuiteStandard) TestGetExpenseForm() {
	recorder := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/expenses/new", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	suite.Assert().Contains(recorder.Body.String(), "New expense")
	suite.Assert().Contains(recorder.Body.String(), `action="/expenses/new"`)
	suite.Assert().Contains(recorder.Body.String(), `<option value="Venue">`, "default categories must be offered")
}

func (suite *TestSuiteStandard) TestCreateExpense() {
	body, headers := test.Form(validForm)
	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "http://example.com/expenses/new", body, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusSeeOther)
	suite.Assert().Equal("/expenses", recorder.Header().Get("Location"))

	expenses := suite.expenses()
	suite.Require().Len(expenses, 1)

	e := expenses[0]
	suite.Assert().Equal(time.Date(2024, 2, 14, 13, 0, 0, 0, time.UTC), e.Date)
	suite.Assert().True(decimal.RequireFromString("1500.50").Equal(e.Amount))
	suite.Assert().Equal("Catering", e.Category)
	suite.Assert().Equal("Sharma Caterers", models.Value(e.Vendor))
	suite.Assert().Nil(e.Description, "empty optional fields must be stored as absent")
	suite.Assert().Nil(e.Attachment)

	// The flash message is shown on the next page
	recorder = test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/expenses", nil, test.Cookies(&recorder))
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	suite.Assert().Contains(recorder.Body.String(), "Saved successfully")
	suite.Assert().Contains(recorder.Body.String(), "Sharma Caterers")
	suite.Assert().Contains(recorder.Body.String(), "14 Feb 2024, 06:30 PM")
}

func (suite *TestSuiteStandard) TestCreateExpenseDefaultTime() {
	body, headers := test.Form(formWith(map[string]string{"time": ""}))
	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "http://example.com/expenses/new", body, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusSeeOther)

	expenses := suite.expenses()
	suite.Require().Len(expenses, 1)
	suite.Assert().Equal("12:00", expenses[0].Date.In(test.Kolkata).Format("15:04"))
}

func (suite *TestSuiteStandard) TestCreateExpenseErrors() {
	tests := []struct {
		name    string
		changes map[string]string
		message string
	}{
		{"Missing date", map[string]string{"date": ""}, "date is required"},
		{"Missing amount", map[string]string{"amount": ""}, "amount is required"},
		{"Missing category", map[string]string{"category": ""}, "category is required"},
		{"Malformed date", map[string]string{"date": "14.02.2024"}, "is not valid"},
		{"Malformed time", map[string]string{"time": "6pm"}, "is not valid"},
		{"Malformed amount", map[string]string{"amount": "lots"}, "is not valid"},
		{"Negative amount", map[string]string{"amount": "-5"}, "must not be negative"},
		{"Payment type too long", map[string]string{"payment_type": "Advance for the second half"}, "payment_type cannot be longer than 20 characters"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			body, headers := test.Form(formWith(tt.changes))
			recorder := test.Request(suite.T(), suite.router, http.MethodPost, "http://example.com/expenses/new", body, headers)
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

			suite.Assert().Contains(recorder.Body.String(), tt.message)
			suite.Assert().Contains(recorder.Body.String(), `value="Sharma Caterers"`, "submitted values must be kept")
			suite.Assert().Empty(suite.expenses(), "nothing must be stored")
		})
	}
}

func (suite *TestSuiteStandard) TestCreateExpenseWithAttachment() {
	body, headers := test.Multipart(suite.T(), validForm, "receipt.PNG", []byte("png data"))
	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "http://example.com/expenses/new", body, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusSeeOther)

	expenses := suite.expenses()
	suite.Require().Len(expenses, 1)
	suite.Assert().Equal("receipt.png", models.Value(expenses[0].Attachment))

	recorder = test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/uploads/receipt.png", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	suite.Assert().Equal("png data", recorder.Body.String())

	// Same file name again
	body, headers = test.Multipart(suite.T(), validForm, "receipt.png", []byte("second"))
	recorder = test.Request(suite.T(), suite.router, http.MethodPost, "http://example.com/expenses/new", body, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusSeeOther)

	expenses = suite.expenses()
	suite.Require().Len(expenses, 2)
	suite.Assert().Equal("receipt_1.png", models.Value(expenses[1].Attachment))
}

func (suite *TestSuiteStandard) TestCreateExpenseDisallowedAttachment() {
	body, headers := test.Multipart(suite.T(), validForm, "receipt.exe", []byte("MZ"))
	recorder := test.Request(suite.T(), suite.router, http.MethodPost, "http://example.com/expenses/new", body, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	suite.Assert().Contains(recorder.Body.String(), "is not allowed")
	suite.Assert().Empty(suite.expenses())

	entries, err := os.ReadDir(suite.controller.Store.Dir)
	suite.Require().Nil(err)
	suite.Assert().Empty(entries)
}

func (suite *TestSuiteStandard) TestEditExpense() {
	created := suite.createTestExpense("2024-01-10 10:00", "100", "Venue", vendor("Grand Palace"), attachment("hall.pdf"))
	url := fmt.Sprintf("http://example.com/expenses/%d/edit", created.ID)

	recorder := test.Request(suite.T(), suite.router, http.MethodGet, url, nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	suite.Assert().Contains(recorder.Body.String(), "Edit expense")
	suite.Assert().Contains(recorder.Body.String(), `value="Grand Palace"`)
	suite.Assert().Contains(recorder.Body.String(), `value="2024-01-10"`)
	suite.Assert().Contains(recorder.Body.String(), `value="10:00"`)
	suite.Assert().Contains(recorder.Body.String(), `value="100.00"`)

	body, headers := test.Form(formWith(map[string]string{"vendor": ""}))
	recorder = test.Request(suite.T(), suite.router, http.MethodPost, url, body, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusSeeOther)

	expenses := suite.expenses()
	suite.Require().Len(expenses, 1)

	e := expenses[0]
	suite.Assert().Equal(created.ID, e.ID)
	suite.Assert().Equal("Catering", e.Category)
	suite.Assert().Nil(e.Vendor, "all fields must be replaced")
	suite.Assert().Equal("hall.pdf", models.Value(e.Attachment), "the attachment must be kept without a new upload")
	suite.Assert().True(created.CreatedAt.Equal(e.CreatedAt), "created_at must not change")
}

func (suite *TestSuiteStandard) TestEditExpenseNewAttachment() {
	created := suite.createTestExpense("2024-01-10 10:00", "100", "Venue", attachment("hall.pdf"))

	body, headers := test.Multipart(suite.T(), validForm, "contract.pdf", []byte("%PDF-1.4"))
	recorder := test.Request(suite.T(), suite.router, http.MethodPost, fmt.Sprintf("http://example.com/expenses/%d/edit", created.ID), body, headers)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusSeeOther)

	suite.Assert().Equal("contract.pdf", models.Value(suite.expenses()[0].Attachment))
}

func (suite *TestSuiteStandard) TestEditExpenseNotFound() {
	for _, id := range []string{"42", "abc", "-1"} {
		for _, method := range []string{http.MethodGet, http.MethodPost} {
			body, headers := test.Form(validForm)
			recorder := test.Request(suite.T(), suite.router, method, "http://example.com/expenses/"+id+"/edit", body, headers)
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
			suite.Assert().Contains(recorder.Body.String(), "Not found")
		}
	}

	suite.Assert().Empty(suite.expenses(), "editing an unknown expense must not create one")
}

func (suite *TestSuiteStandard) TestDeleteExpense() {
	created := suite.createTestExpense("2024-01-10 10:00", "100", "Venue")
	kept := suite.createTestExpense("2024-01-11 10:00", "200", "Venue")

	recorder := test.Request(suite.T(), suite.router, http.MethodPost, fmt.Sprintf("http://example.com/expenses/%d/delete", created.ID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusSeeOther)
	suite.Assert().Equal("/expenses", recorder.Header().Get("Location"))

	expenses := suite.expenses()
	suite.Require().Len(expenses, 1)
	suite.Assert().Equal(kept.ID, expenses[0].ID)

	recorder = test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/expenses", nil, test.Cookies(&recorder))
	suite.Assert().Contains(recorder.Body.String(), "Deleted")

	recorder = test.Request(suite.T(), suite.router, http.MethodPost, fmt.Sprintf("http://example.com/expenses/%d/delete", created.ID), nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestGetExpensesFilter() {
	suite.createTestExpense("2024-01-31 23:59", "100", "Venue", vendor("Grand Palace"), paymentType("Advance"))
	suite.createTestExpense("2024-02-01 00:01", "200", "Catering", vendor("Sharma Caterers"), paymentType("Final"))

	tests := []struct {
		name     string
		query    string
		contains string
		excludes string
	}{
		{"Category", "?category=Venue", "Grand Palace", "Sharma Caterers"},
		{"Payment type", "?payment_type=Final", "Sharma Caterers", "Grand Palace"},
		{"Search", "?search=sharma", "Sharma Caterers", "Grand Palace"},
		{"End is inclusive", "?end=2024-01-31", "Grand Palace", "Sharma Caterers"},
		{"Start", "?start=2024-02-01", "Sharma Caterers", "Grand Palace"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			recorder := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/expenses"+tt.query, nil)
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

			suite.Assert().Contains(recorder.Body.String(), tt.contains)
			suite.Assert().NotContains(recorder.Body.String(), tt.excludes)
		})
	}
}

func (suite *TestSuiteStandard) TestGetExpensesSubtotal() {
	suite.createTestExpense("2024-01-31 23:59", "100.25", "Venue")
	suite.createTestExpense("2024-02-01 00:01", "200.50", "Venue")
	suite.createTestExpense("2024-02-01 00:01", "999", "Catering")

	recorder := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/expenses?category=Venue", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)
	suite.Assert().Contains(recorder.Body.String(), "₹300.75")
}

func (suite *TestSuiteStandard) TestGetExpensesInvalidFilter() {
	recorder := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/expenses?start=2024-13-01", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	suite.Assert().Contains(recorder.Body.String(), "start")
}
