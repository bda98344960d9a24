package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SheetCell is one positioned value on a worksheet. Row and Col are 1-based.
type SheetCell struct {
	Row   int
	Col   int
	Value interface{}
	Bold  bool
}

// Sheet is a freely laid out worksheet.
type Sheet struct {
	Name         string
	Cells        []SheetCell
	ColumnWidths map[int]float64
}

// XLSXExporter renders sheets into an Excel workbook.
type XLSXExporter struct{}

// NewXLSXExporter builds an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render writes the sheets in order. The default empty sheet is removed.
func (e *XLSXExporter) Render(sheets ...Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx requires at least one sheet")
	}
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create bold style: %w", err)
	}

	defaultSheet := f.GetSheetName(0)
	for i, sheet := range sheets {
		index, err := f.NewSheet(sheet.Name)
		if err != nil {
			return nil, fmt.Errorf("create sheet %s: %w", sheet.Name, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}
		for _, cell := range sheet.Cells {
			name, err := excelize.CoordinatesToCellName(cell.Col, cell.Row)
			if err != nil {
				return nil, fmt.Errorf("sheet %s: %w", sheet.Name, err)
			}
			if err := f.SetCellValue(sheet.Name, name, cell.Value); err != nil {
				return nil, fmt.Errorf("sheet %s cell %s: %w", sheet.Name, name, err)
			}
			if cell.Bold {
				if err := f.SetCellStyle(sheet.Name, name, name, bold); err != nil {
					return nil, fmt.Errorf("sheet %s style %s: %w", sheet.Name, name, err)
				}
			}
		}
		for col, width := range sheet.ColumnWidths {
			letter, err := excelize.ColumnNumberToName(col)
			if err != nil {
				return nil, fmt.Errorf("sheet %s column %d: %w", sheet.Name, col, err)
			}
			if err := f.SetColWidth(sheet.Name, letter, letter, width); err != nil {
				return nil, fmt.Errorf("sheet %s width %s: %w", sheet.Name, letter, err)
			}
		}
	}
	if !containsSheet(sheets, defaultSheet) {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return nil, fmt.Errorf("drop default sheet: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// TableSheet lays a Dataset out as a bold header row followed by its records.
func TableSheet(data Dataset) Sheet {
	sheet := Sheet{Name: data.Name}
	for c, header := range data.Headers {
		sheet.Cells = append(sheet.Cells, SheetCell{Row: 1, Col: c + 1, Value: header, Bold: true})
	}
	for r, row := range data.Rows {
		for c, value := range row {
			sheet.Cells = append(sheet.Cells, SheetCell{Row: r + 2, Col: c + 1, Value: value})
		}
	}
	return sheet
}

func containsSheet(sheets []Sheet, name string) bool {
	for _, s := range sheets {
		if s.Name == name {
			return true
		}
	}
	return false
}
