package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidth    = 297.0
	pageMargin   = 10.0
	labelWidth   = 22.0
	headerHeight = 9.0
	rowHeight    = 17.0
	lineHeight   = 4.5
	fontFamily   = "timetable"
)

// GridBlock is a coloured block spanning Span rows starting at Row (0-based)
// in column Col (0-based).
type GridBlock struct {
	Col   int
	Row   int
	Span  int
	Lines []string
	Fill  string
}

// Grid is a weekly layout: labelled columns across, labelled rows down.
type Grid struct {
	Title     string
	Columns   []string
	RowLabels []string
	Blocks    []GridBlock
}

// PDFExporter draws timetable grids. Hangul needs a UTF-8 TrueType font;
// without one the core Helvetica font is used.
type PDFExporter struct {
	fontPath string
}

// NewPDFExporter constructs a PDF exporter using the optional TrueType font.
func NewPDFExporter(fontPath string) *PDFExporter {
	return &PDFExporter{fontPath: fontPath}
}

// RenderGrid draws the grid on one landscape A4 page.
func (e *PDFExporter) RenderGrid(g Grid) ([]byte, error) {
	if len(g.Columns) == 0 || len(g.RowLabels) == 0 {
		return nil, fmt.Errorf("pdf grid requires columns and rows")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)

	family := "Helvetica"
	if e.fontPath != "" {
		pdf.AddUTF8Font(fontFamily, "", e.fontPath)
		family = fontFamily
	}
	pdf.AddPage()

	top := pageMargin
	if g.Title != "" {
		pdf.SetFont(family, "", 14)
		pdf.CellFormat(0, 10, g.Title, "", 1, "C", false, 0, "")
		top += 12
	}

	colWidth := (pageWidth - 2*pageMargin - labelWidth) / float64(len(g.Columns))
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetFont(family, "", 10)

	for i, label := range g.Columns {
		pdf.SetXY(pageMargin+labelWidth+float64(i)*colWidth, top)
		pdf.CellFormat(colWidth, headerHeight, label, "1", 0, "C", false, 0, "")
	}
	for i, label := range g.RowLabels {
		pdf.SetXY(pageMargin, top+headerHeight+float64(i)*rowHeight)
		pdf.CellFormat(labelWidth, rowHeight, label, "1", 0, "C", false, 0, "")
		for c := range g.Columns {
			pdf.Rect(pageMargin+labelWidth+float64(c)*colWidth, top+headerHeight+float64(i)*rowHeight, colWidth, rowHeight, "D")
		}
	}

	pdf.SetFont(family, "", 8)
	for _, b := range g.Blocks {
		if b.Col < 0 || b.Col >= len(g.Columns) || b.Row < 0 || b.Span <= 0 || b.Row+b.Span > len(g.RowLabels) {
			return nil, fmt.Errorf("pdf block at column %d row %d span %d is outside the grid", b.Col, b.Row, b.Span)
		}
		r, gr, bl, err := parseHexColor(b.Fill)
		if err != nil {
			return nil, err
		}
		x := pageMargin + labelWidth + float64(b.Col)*colWidth
		y := top + headerHeight + float64(b.Row)*rowHeight
		h := float64(b.Span) * rowHeight

		pdf.SetFillColor(r, gr, bl)
		pdf.Rect(x, y, colWidth, h, "FD")

		textTop := y + (h-float64(len(b.Lines))*lineHeight)/2
		for i, line := range b.Lines {
			pdf.SetXY(x, textTop+float64(i)*lineHeight)
			pdf.CellFormat(colWidth, lineHeight, line, "", 0, "C", false, 0, "")
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// parseHexColor reads "#RRGGBB"; an empty string is white.
func parseHexColor(hex string) (int, int, int, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if hex == "" {
		return 255, 255, 255, nil
	}
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid colour %q", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), nil
}
