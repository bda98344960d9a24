package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCSVExporterPadsShortRows(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"Subject", "Start Date", "Description"},
		Rows:    [][]string{{"물리학", "08/14/2023", "1분반"}, {"체육"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Subject,Start Date,Description\n물리학,08/14/2023,1분반\n체육,,\n", string(out))

	_, err = NewCSVExporter().Render(Dataset{Headers: []string{"a"}, Rows: [][]string{{"1", "2"}}})
	assert.Error(t, err)
	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestXLSXExporterWritesSheets(t *testing.T) {
	out, err := NewXLSXExporter().Render(
		Sheet{Name: "분반", Cells: []SheetCell{{Row: 1, Col: 1, Value: "물리학", Bold: true}, {Row: 2, Col: 2, Value: "2반"}}},
		TableSheet(Dataset{Name: "중복", Headers: []string{"시수", "학생"}, Rows: [][]string{{"30시수", "가 & 나"}}}),
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	assert.Equal(t, []string{"분반", "중복"}, f.GetSheetList())
	v, err := f.GetCellValue("분반", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2반", v)
	rows, err := f.GetRows("중복")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"시수", "학생"}, {"30시수", "가 & 나"}}, rows)
}

func TestPDFExporterRendersGrid(t *testing.T) {
	out, err := NewPDFExporter("").RenderGrid(Grid{
		Title:     "20105",
		Columns:   []string{"MON", "TUE", "WED", "THU", "FRI"},
		RowLabels: []string{"1", "2", "3"},
		Blocks:    []GridBlock{{Col: 0, Row: 0, Span: 2, Lines: []string{"Physics"}, Fill: "#D0CBF1"}},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter("").RenderGrid(Grid{
		Columns:   []string{"MON"},
		RowLabels: []string{"1"},
		Blocks:    []GridBlock{{Col: 0, Row: 0, Span: 2}},
	})
	assert.Error(t, err)
}

func TestParseHexColor(t *testing.T) {
	r, g, b, err := parseHexColor("#BBB3EB")
	require.NoError(t, err)
	assert.Equal(t, []int{0xBB, 0xB3, 0xEB}, []int{r, g, b})

	_, _, _, err = parseHexColor("#12")
	assert.Error(t, err)
}
