package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/wedding-ledger/backend/internal/csvio"
	"github.com/wedding-ledger/backend/internal/report"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RegisterTransferRoutes registers the import and export routes with
// the RouterGroup that is passed.
func (co Controller) RegisterTransferRoutes(r *gin.RouterGroup) {
	r.GET("/import-export", co.GetImportExport)
	r.GET("/export.csv", co.ExportCSV)
	r.GET("/export.xlsx", co.ExportXLSX)
	r.POST("/import.csv", co.ImportCSV)
}

// GetImportExport renders the import and export page.
func (co Controller) GetImportExport(c *gin.Context) {
	co.render(c, http.StatusOK, "import_export", gin.H{
		"Columns": report.ExpenseTable(nil, co.Config.Zone).Headers,
	})
}

// ExportCSV sends all expenses as CSV file.
func (co Controller) ExportCSV(c *gin.Context) {
	var out bytes.Buffer

	err := csvio.Export(c.Request.Context(), co.DB, co.Config.Zone, &out)
	if err != nil {
		co.renderError(c, err)
		return
	}

	download(c, csvio.Filename, "text/csv; charset=utf-8", &out)
}

// ExportXLSX sends a workbook with all expenses and both summaries.
func (co Controller) ExportXLSX(c *gin.Context) {
	ctx := c.Request.Context()

	expenses, err := co.Ledger.All(ctx)
	if err != nil {
		co.renderError(c, err)
		return
	}

	vendors, err := co.Ledger.ByVendor(ctx)
	if err != nil {
		co.renderError(c, err)
		return
	}

	months, err := co.Ledger.ByMonth(ctx)
	if err != nil {
		co.renderError(c, err)
		return
	}

	var out bytes.Buffer
	err = report.WriteXLSX(&out,
		report.ExpenseTable(expenses, co.Config.Zone),
		report.VendorSummary(vendors, co.Config.CurrencySymbol),
		report.MonthlySummary(months, co.Config.CurrencySymbol),
	)
	if err != nil {
		co.renderError(c, err)
		return
	}

	download(c, "expenses_all.xlsx", contentTypeXLSX, &out)
}

// ImportCSV imports all rows of the uploaded CSV file. Either all rows are
// imported or none.
func (co Controller) ImportCSV(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		flash(c, flashError, "Import failed: "+errNoFile.Error())
		redirect(c, "/import-export")
		return
	}

	f, err := file.Open()
	if err != nil {
		flash(c, flashError, "Import failed: "+err.Error())
		redirect(c, "/import-export")
		return
	}
	defer f.Close()

	count, err := csvio.Import(c.Request.Context(), co.DB, f, csvio.Options{
		Zone:            co.Config.Zone,
		DefaultCategory: co.Config.DefaultCategory,
		Attachments:     co.Store,
	})
	if err != nil {
		log.Info().Str("request-id", requestid.Get(c)).Str("file", file.Filename).Err(err).Msg("import failed")
		flash(c, flashError, "Import failed: "+errorMessage(err))
		redirect(c, "/expenses")
		return
	}

	log.Info().Str("request-id", requestid.Get(c)).Str("file", file.Filename).Int("rows", count).Msg("import")
	flash(c, flashSuccess, fmt.Sprintf("Imported %d rows", count))
	redirect(c, "/expenses")
}
