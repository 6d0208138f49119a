package controllers_test

import (
	"bytes"
	"net/http"

	"github.com/wedding-ledger/backend/test"
)

func (suite *TestSuiteStandard) seed() {
	suite.createTestExpense("2024-01-31 23:59", "0.10", "Venue", vendor("Grand Palace"), paymentType("Advance"))
	suite.createTestExpense("2024-02-01 00:01", "0.20", "Venue", vendor("Grand Palace"), paymentType("Final"))
	suite.createTestExpense("2024-02-14 12:00", "45000", "Catering", vendor("Sharma Caterers"), paymentType("Advance"))
	suite.createTestExpense("2024-03-15 08:00", "999.99", "Misc", paymentType("Other"))
}

func (suite *TestSuiteStandard) TestVendorReport() {
	suite.seed()

	recorder := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/report/vendor", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	body := recorder.Body.String()
	for _, s := range []string{"Advance", "Final", "Other", "Sharma Caterers", "Grand Palace", "—", "₹0.30", "₹999.99"} {
		suite.Assert().Contains(body, s)
	}
}

func (suite *TestSuiteStandard) TestMonthlyReport() {
	suite.seed()

	recorder := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/report/monthly", nil)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	body := recorder.Body.String()
	for _, s := range []string{"2024-01", "2024-02", "2024-03", "₹0.10"} {
		suite.Assert().Contains(body, s)
	}
}

func (suite *TestSuiteStandard) TestSummaryCSV() {
	suite.seed()

	tests := []struct {
		url      string
		filename string
		body     string
	}{
		{
			"http://example.com/export/vendor.csv",
			"vendor_summary.csv",
			"Vendor,Total Amount (₹)\nSharma Caterers,45000.00\n—,999.99\nGrand Palace,0.30\n",
		},
		{
			"http://example.com/export/monthly.csv",
			"monthly_summary.csv",
			"Month (YYYY-MM),Total Amount (₹)\n2024-01,0.10\n2024-02,45000.20\n2024-03,999.99\n",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.filename, func() {
			recorder := test.Request(suite.T(), suite.router, http.MethodGet, tt.url, nil)
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

			suite.Assert().Equal(`attachment; filename="`+tt.filename+`"`, recorder.Header().Get("Content-Disposition"))
			suite.Assert().Equal(tt.body, recorder.Body.String())
		})
	}
}

func (suite *TestSuiteStandard) TestSummaryPDF() {
	suite.seed()

	for _, name := range []string{"vendor", "monthly"} {
		suite.Run(name, func() {
			recorder := test.Request(suite.T(), suite.router, http.MethodGet, "http://example.com/export/"+name+".pdf", nil)
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

			suite.Assert().Equal("application/pdf", recorder.Header().Get("Content-Type"))
			suite.Assert().Equal(`attachment; filename="`+name+`_summary.pdf"`, recorder.Header().Get("Content-Disposition"))
			suite.Assert().True(bytes.HasPrefix(recorder.Body.Bytes(), []byte("%PDF-")))
		})
	}
}
