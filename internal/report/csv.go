package report

import (
	"encoding/csv"
	"io"
)

// WriteCSV writes the table headers and rows. The title is not written.
func WriteCSV(w io.Writer, t Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.Headers); err != nil {
		return err
	}

	if err := writer.WriteAll(t.Rows); err != nil {
		return err
	}

	return writer.Error()
}
