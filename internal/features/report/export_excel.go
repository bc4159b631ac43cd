package report

import (
	"context"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExcelRenderer writes one styled sheet per export. Unlike the CSV and PDF
// renderers it cannot stream: xlsx is a zip container, so the whole workbook
// is materialized in memory before a byte reaches the sink. Large exports
// pay for that here and nowhere else.
type ExcelRenderer struct{}

func NewExcelRenderer() *ExcelRenderer { return &ExcelRenderer{} }

func (r *ExcelRenderer) Render(ctx context.Context, w io.Writer, rows []Row, columns []string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Report"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return &RenderError{Format: ExportFormatExcel, Err: err}
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, columnLabel(col))
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range rows {
		if err := checkCancelled(ctx, rowIdx); err != nil {
			return err
		}
		for colIdx, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			switch v := row.Value(col).(type) {
			case time.Time:
				f.SetCellValue(sheetName, cell, v.Format("2006-01-02 15:04:05"))
			case *time.Time:
				if v != nil {
					f.SetCellValue(sheetName, cell, v.Format("2006-01-02 15:04:05"))
				}
			case *int:
				if v != nil {
					f.SetCellValue(sheetName, cell, *v)
				}
			case nil:
			default:
				f.SetCellValue(sheetName, cell, v)
			}
		}
	}

	for i := range columns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 15)
	}

	if err := f.Write(w); err != nil {
		return &RenderError{Format: ExportFormatExcel, Err: err}
	}
	return nil
}
