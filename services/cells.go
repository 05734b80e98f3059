package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// sheetReader provides 1-indexed, letter-column access to a single sheet of
// an open workbook. Reads outside the sheet, or on a sheet that does not
// exist, return the empty string rather than an error.
type sheetReader struct {
	f     *excelize.File
	name  string
	found bool
	warns *[]string
}

func newSheetReader(f *excelize.File, name string, warns *[]string) *sheetReader {
	idx, _ := f.GetSheetIndex(name)
	return &sheetReader{f: f, name: name, found: idx >= 0, warns: warns}
}

// Cell returns the trimmed display value at the given column letter and row,
// or "" when the cell is blank, out of range, or the sheet is missing.
func (s *sheetReader) Cell(col string, row int) string {
	if !s.found || col == "" || row < 1 {
		return ""
	}
	v, err := s.f.GetCellValue(s.name, col+strconv.Itoa(row))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// CellAt reads a cell by A1-style address ("B2").
func (s *sheetReader) CellAt(addr string) string {
	if !s.found || addr == "" {
		return ""
	}
	v, err := s.f.GetCellValue(s.name, addr)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// NumAt reads a cell by A1-style address and coerces it to a number,
// recording a warning for non-blank values that fail to parse.
func (s *sheetReader) NumAt(addr string) float64 {
	raw := s.CellAt(addr)
	n, ok := toNumber(raw)
	if !ok && s.warns != nil {
		*s.warns = append(*s.warns,
			fmt.Sprintf("coercion fallback at %s!%s: %q", s.name, addr, raw))
	}
	return n
}

// Num reads a cell and coerces it to a number. A non-blank value that fails
// to parse contributes 0 and is recorded as a coercion warning, so silent
// data loss stays observable without failing the import.
func (s *sheetReader) Num(col string, row int) float64 {
	raw := s.Cell(col, row)
	n, ok := toNumber(raw)
	if !ok && s.warns != nil {
		*s.warns = append(*s.warns,
			fmt.Sprintf("coercion fallback at %s!%s%d: %q", s.name, col, row, raw))
	}
	return n
}

// ToNumber converts a raw cell value into a definite number. Blank values,
// "No", and anything unparseable become 0; "Yes" becomes 1. It never errors,
// which is why a malformed cell can never abort an import.
func ToNumber(raw string) float64 {
	n, _ := toNumber(raw)
	return n
}

// toNumber reports ok=false only for non-blank values that failed to parse;
// genuinely blank cells are a silent 0.
func toNumber(raw string) (float64, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, true
	}
	switch strings.ToLower(v) {
	case "yes":
		return 1, true
	case "no":
		return 0, true
	}
	// Tolerate display formatting: currency prefix, thousands separators,
	// accounting-style parentheses for negatives.
	neg := false
	if strings.HasPrefix(v, "(") && strings.HasSuffix(v, ")") {
		neg = true
		v = v[1 : len(v)-1]
	}
	v = strings.TrimPrefix(v, "$")
	v = strings.ReplaceAll(v, ",", "")
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}
