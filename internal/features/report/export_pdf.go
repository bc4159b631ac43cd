package report

import (
	"context"
	"io"

	gofpdf "github.com/go-pdf/fpdf"
)

// Page geometry in millimeters (A4 portrait). Auto page breaks are disabled
// so the renderer owns the cursor: when a row would cross the bottom limit
// it opens a fresh page and resets to the top. The header band is printed
// once on the first page only.
const (
	pdfMarginLeft   = 10.0
	pdfMarginTop    = 12.0
	pdfContentWidth = 190.0
	pdfBottomLimit  = 282.0
	pdfHeaderHeight = 8.0
	pdfRowHeight    = 6.0

	// Cell text beyond this many characters is cut, no ellipsis. Twenty
	// characters is what fits one column of a wide findings export.
	pdfCellMaxChars = 20
)

// PDFRenderer produces the paged tabular document export.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer { return &PDFRenderer{} }

func (r *PDFRenderer) Render(ctx context.Context, w io.Writer, rows []Row, columns []string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginLeft)
	pdf.AddPage()

	colWidth := pdfContentWidth / float64(len(columns))

	// Header band: transformed labels, evenly divided, ruled off below.
	pdf.SetFont("Helvetica", "B", 8)
	for _, col := range columns {
		pdf.CellFormat(colWidth, pdfHeaderHeight, columnLabel(col), "", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	y := pdf.GetY()
	pdf.Line(pdfMarginLeft, y, pdfMarginLeft+pdfContentWidth, y)
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "", 8)
	for i, row := range rows {
		if err := checkCancelled(ctx, i); err != nil {
			return err
		}
		if pdf.GetY()+pdfRowHeight > pdfBottomLimit {
			pdf.AddPage()
			pdf.SetY(pdfMarginTop)
		}
		for _, col := range columns {
			pdf.CellFormat(colWidth, pdfRowHeight, pdfCellText(row.Value(col)), "", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return &RenderError{Format: ExportFormatPDF, Err: err}
	}
	return nil
}

// pdfCellText truncates string values to the cell budget; everything else
// goes through the default string coercion untrimmed.
func pdfCellText(v any) string {
	if s, ok := v.(string); ok {
		if len(s) > pdfCellMaxChars {
			return s[:pdfCellMaxChars]
		}
		return s
	}
	return cellString(v)
}
