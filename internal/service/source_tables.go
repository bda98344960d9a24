package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// SourceTable is one worksheet read as ragged rows of cell text.
type SourceTable struct {
	Name string
	Rows [][]string
}

// Cell returns the trimmed value at (row, col), or "" when the row is short.
func (t SourceTable) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.Rows[row][col])
}

// SourceTables are the three sheets a roster is resolved from.
type SourceTables struct {
	Grid         SourceTable
	Classrooms   SourceTable
	MultiTeacher SourceTable
}

// Digest fingerprints the sheet contents so persisted snapshots can be
// matched back to the workbooks that produced them.
func (s SourceTables) Digest() string {
	h := sha256.New()
	for _, table := range []SourceTable{s.Grid, s.Classrooms, s.MultiTeacher} {
		h.Write([]byte(table.Name))
		h.Write([]byte{0})
		for _, row := range table.Rows {
			for _, cell := range row {
				h.Write([]byte(cell))
				h.Write([]byte{0x1f})
			}
			h.Write([]byte{0x1e})
		}
		h.Write([]byte{0x1d})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// normalizeSubjectName removes whitespace and folds compatibility characters,
// so "미적분 Ⅱ" and "미적분II" index the same classroom row.
func normalizeSubjectName(name string) string {
	folded := norm.NFKC.String(name)
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, folded)
}

// isEmptyMarker reports a grid cell that holds no class.
func isEmptyMarker(value string) bool {
	switch strings.TrimSpace(value) {
	case "", "공강", "nan", "NaN":
		return true
	}
	return false
}

// headerIndex maps trimmed header labels of the first row to column indexes.
func headerIndex(t SourceTable) map[string]int {
	index := make(map[string]int)
	if len(t.Rows) == 0 {
		return index
	}
	for col, label := range t.Rows[0] {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if _, exists := index[label]; !exists {
			index[label] = col
		}
	}
	return index
}

// leadingInt parses the digits at the start of s ("2학년" → 2).
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	n, digits := 0, 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
		digits++
	}
	return n, digits > 0
}
