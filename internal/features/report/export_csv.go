package report

import (
	"context"
	"encoding/csv"
	"io"
)

// CSVRenderer streams rows as delimited text. The header row carries the raw
// column keys, not display labels: CSV consumers parse programmatically and
// key stability matters more than presentation. Quoting follows standard CSV
// rules (wrap when a value contains a comma or quote, double inner quotes).
type CSVRenderer struct{}

func NewCSVRenderer() *CSVRenderer { return &CSVRenderer{} }

func (r *CSVRenderer) Render(ctx context.Context, w io.Writer, rows []Row, columns []string) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(columns); err != nil {
		return &RenderError{Format: ExportFormatCSV, Err: err}
	}

	record := make([]string, len(columns))
	for i, row := range rows {
		if err := checkCancelled(ctx, i); err != nil {
			return err
		}
		for j, col := range columns {
			record[j] = cellString(row.Value(col))
		}
		if err := writer.Write(record); err != nil {
			return &RenderError{Format: ExportFormatCSV, Err: err}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return &RenderError{Format: ExportFormatCSV, Err: err}
	}
	return nil
}
