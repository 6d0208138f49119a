package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// sheetNameReplacer removes characters excel does not allow in sheet names.
var sheetNameReplacer = strings.NewReplacer(":", "", `\`, "", "/", "", "?", "", "*", "", "[", "", "]", "")

// WriteXLSX writes a workbook with one sheet per table, named after the
// table title. Cells that are plain numbers are stored as numbers.
func WriteXLSX(w io.Writer, tables ...Table) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Error().Err(err).Msg("closing workbook")
		}
	}()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, t := range tables {
		sheet := sheetName(t.Title, i)

		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), sheet)
		} else {
			_, err = f.NewSheet(sheet)
		}
		if err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}

		if err := writeSheet(f, sheet, t, bold); err != nil {
			return fmt.Errorf("sheet %s: %w", sheet, err)
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, t Table, headerStyle int) error {
	for col, h := range t.Headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}

		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}

		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}

		if err := f.SetColWidth(sheet, name, name, 18); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for col, v := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return err
			}

			if err := f.SetCellValue(sheet, cell, cellValue(v)); err != nil {
				return err
			}
		}
	}

	return nil
}

// cellValue returns a float for plain decimal numbers so that spreadsheet
// formulas work on amounts.
func cellValue(s string) any {
	if s == "" || strings.Trim(s, "0123456789.-") != "" {
		return s
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	return s
}

func sheetName(title string, i int) string {
	name := strings.TrimSpace(sheetNameReplacer.Replace(title))
	if name == "" {
		name = fmt.Sprintf("Sheet%d", i+1)
	}

	// Excel limits sheet names to 31 characters
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}

	return name
}
