package controllers

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wedding-ledger/backend/internal/ledger"
	"github.com/wedding-ledger/backend/internal/report"
)

// RegisterReportRoutes registers the report pages and summary exports.
func (co Controller) RegisterReportRoutes(r *gin.RouterGroup) {
	r.GET("/report/vendor", co.GetVendorReport)
	r.GET("/report/monthly", co.GetMonthlyReport)

	r.GET("/export/vendor.csv", co.summary(co.Ledger.ByVendor, report.VendorSummary, "vendor_summary.csv", writeCSV))
	r.GET("/export/monthly.csv", co.summary(co.Ledger.ByMonth, report.MonthlySummary, "monthly_summary.csv", writeCSV))
	r.GET("/export/vendor.pdf", co.summary(co.Ledger.ByVendor, report.VendorTable, "vendor_summary.pdf", writePDF))
	r.GET("/export/monthly.pdf", co.summary(co.Ledger.ByMonth, report.MonthlyTable, "monthly_summary.pdf", writePDF))
}

// GetVendorReport renders the vendor totals and the totals per
// payment type.
func (co Controller) GetVendorReport(c *gin.Context) {
	vendors, err := co.Ledger.ByVendor(c.Request.Context())
	if err != nil {
		co.renderError(c, err)
		return
	}

	paymentTypes, err := co.Ledger.ByPaymentType(c.Request.Context())
	if err != nil {
		co.renderError(c, err)
		return
	}

	co.render(c, http.StatusOK, "report_vendor", gin.H{
		"Rows":         vendors,
		"PaymentTypes": paymentTypes,
	})
}

// GetMonthlyReport renders the totals per month.
func (co Controller) GetMonthlyReport(c *gin.Context) {
	months, err := co.Ledger.ByMonth(c.Request.Context())
	if err != nil {
		co.renderError(c, err)
		return
	}

	co.render(c, http.StatusOK, "report_monthly", gin.H{
		"Rows": months,
	})
}

type writer struct {
	contentType string
	write       func(io.Writer, report.Table) error
}

var (
	writeCSV = writer{contentType: "text/csv; charset=utf-8", write: report.WriteCSV}
	writePDF = writer{contentType: "application/pdf", write: report.WritePDF}
)

// summary returns a handler that sends a summary table as file.
func (co Controller) summary(
	totals func(context.Context) ([]ledger.Total, error),
	table func([]ledger.Total, string) report.Table,
	filename string,
	w writer,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := totals(c.Request.Context())
		if err != nil {
			co.renderError(c, err)
			return
		}

		var out bytes.Buffer
		if err := w.write(&out, table(rows, co.Config.CurrencySymbol)); err != nil {
			co.renderError(c, err)
			return
		}

		download(c, filename, w.contentType, &out)
	}
}
