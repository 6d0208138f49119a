package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Page geometry in millimeters.
const (
	margin         = 20.0
	titleGap       = 10.0
	headerGap      = 8.0
	rowPitch       = 6.0
	minColumnWidth = 60.0
)

// The core fonts are cp1252 encoded and have no rupee glyph.
var pdfReplacer = strings.NewReplacer("₹", "Rs. ")

// WritePDF renders the table as a landscape A4 document.
func WritePDF(w io.Writer, t Table) error {
	pdf := layout(t)
	if pdf.Err() {
		return fmt.Errorf("could not render %s: %w", t.Title, pdf.Error())
	}

	return pdf.Output(w)
}

// layout draws the table. The title is drawn on the first page only, the
// header row on every page.
func layout(t Table) *fpdf.Fpdf {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(t.Title, true)
	pdf.SetAutoPageBreak(false, 0)

	translate := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(x, y float64, s string) {
		pdf.Text(x, y, translate(pdfReplacer.Replace(s)))
	}

	width, height := pdf.GetPageSize()
	columnWidth := minColumnWidth
	if len(t.Headers) > 0 {
		columnWidth = math.Max(minColumnWidth, (width-2*margin)/float64(len(t.Headers)))
	}

	header := func(y float64) float64 {
		pdf.SetFont("Helvetica", "B", 11)
		for i, h := range t.Headers {
			text(margin+float64(i)*columnWidth, y, h)
		}
		pdf.SetFont("Helvetica", "", 10)
		return y + headerGap
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	text(margin, margin, t.Title)
	y := header(margin + titleGap)

	for _, row := range t.Rows {
		if y > height-margin {
			pdf.AddPage()
			y = header(margin)
		}

		for i, cell := range row {
			text(margin+float64(i)*columnWidth, y, cell)
		}
		y += rowPitch
	}

	return pdf
}
