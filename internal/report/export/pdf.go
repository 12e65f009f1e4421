package export

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"

	"github.com/roksva123/go-gitlab-dashboard/internal/model"
	"github.com/roksva123/go-gitlab-dashboard/internal/report"
)

const (
	pdfFont       = "DejaVu"
	pdfLineHeight = 6.0
	pdfRowLine    = 4.5
)

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	fontRegular []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	fontBold []byte
	//go:embed fonts/DejaVuSansCondensed-Oblique.ttf
	fontOblique []byte
)

// WritePDF writes the report summary followed by one table per section.
func WritePDF(w io.Writer, r model.ProjectReport) error {
	pdf := renderPDF(r)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func renderPDF(r model.ProjectReport) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(pdfFont, "", fontRegular)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", fontBold)
	pdf.AddUTF8FontFromBytes(pdfFont, "I", fontOblique)
	pdf.SetCreationDate(r.GeneratedAt)
	pdf.SetModificationDate(r.GeneratedAt)
	pdf.SetTitle("Project report: "+r.Project.Name, true)
	pdf.AddPage()

	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 10, "Project report", "", 1, "L", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
	for _, line := range report.SummaryLines(r) {
		pdf.MultiCell(0, pdfLineHeight, pdfText(line), "", "L", false)
	}

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageW - left - right

	for _, section := range report.Sections(r) {
		pdf.Ln(4)
		pdf.SetFont(pdfFont, "B", 12)
		pdf.CellFormat(0, 8, pdfText(section.Title), "", 1, "L", false, 0, "")

		if len(section.Rows) == 0 {
			pdf.SetFont(pdfFont, "I", 10)
			pdf.CellFormat(0, pdfLineHeight, pdfText(section.Empty), "", 1, "L", false, 0, "")
			continue
		}

		colW := usable / float64(len(section.Header))
		header := func() {
			pdf.SetFont(pdfFont, "B", 9)
			pdf.SetFillColor(0xD9, 0xE2, 0xF3)
			if !rowFits(pdf, section.Header, colW) {
				pdf.AddPage()
			}
			drawRow(pdf, section.Header, colW, true)
			pdf.SetFont(pdfFont, "", 9)
		}
		header()
		for _, row := range section.Rows {
			if !rowFits(pdf, row, colW) {
				pdf.AddPage()
				header()
			}
			drawRow(pdf, row, colW, false)
		}
	}
	return pdf
}

// rowHeight is the height of the tallest wrapped cell in cells.
func rowHeight(pdf *fpdf.Fpdf, cells []string, colW float64) float64 {
	most := 1
	for _, v := range cells {
		if n := len(wrapCell(pdf, pdfText(v), colW)); n > most {
			most = n
		}
	}
	return float64(most)*pdfRowLine + 1
}

func rowFits(pdf *fpdf.Fpdf, cells []string, colW float64) bool {
	_, pageH := pdf.GetPageSize()
	_, bottom := pdf.GetAutoPageBreak()
	return pdf.GetY()+rowHeight(pdf, cells, colW) <= pageH-bottom
}

// drawRow draws one table row, wrapping every cell onto as many lines as it
// needs. All cells in the row share the height of the tallest one.
func drawRow(pdf *fpdf.Fpdf, cells []string, colW float64, fill bool) {
	h := rowHeight(pdf, cells, colW)
	x0, y := pdf.GetXY()
	style := "D"
	if fill {
		style = "FD"
	}
	for i, v := range cells {
		x := x0 + float64(i)*colW
		pdf.Rect(x, y, colW, h, style)
		for j, line := range wrapCell(pdf, pdfText(v), colW) {
			pdf.SetXY(x, y+0.5+float64(j)*pdfRowLine)
			pdf.CellFormat(colW, pdfRowLine, line, "", 0, "L", false, 0, "")
		}
	}
	pdf.SetXY(x0, y+h)
}

// wrapCell breaks s into lines that fit a cell of width w, splitting at
// spaces and falling back to rune boundaries for words wider than the cell.
// fpdf's SplitText drops the CJK character it breaks on, so it is not used.
func wrapCell(pdf *fpdf.Fpdf, s string, w float64) []string {
	limit := w - 2*pdf.GetCellMargin()
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			candidate := word
			if line != "" {
				candidate = line + " " + word
			}
			if pdf.GetStringWidth(candidate) <= limit {
				line = candidate
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			line = ""
			for _, r := range word {
				if line != "" && pdf.GetStringWidth(line+string(r)) > limit {
					lines = append(lines, line)
					line = ""
				}
				line += string(r)
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// pdfText replaces runes the embedded font encoding cannot carry. fpdf writes
// text as UTF-16 without surrogate pairs, so anything outside the basic
// multilingual plane becomes U+FFFD.
func pdfText(s string) string {
	if utf8.ValidString(s) && !hasAstral(s) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r > 0xFFFF {
			r = utf8.RuneError
		}
		b.WriteRune(r)
	}
	return b.String()
}

func hasAstral(s string) bool {
	for _, r := range s {
		if r > 0xFFFF {
			return true
		}
	}
	return false
}
