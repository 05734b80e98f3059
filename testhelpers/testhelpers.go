// Package testhelpers provides in-memory workbook builders for tests.
package testhelpers

import (
	"bytes"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"
)

// WorkbookBuilder constructs bid-form fixture workbooks cell by cell.
type WorkbookBuilder struct {
	t *testing.T
	f *excelize.File
}

// NewWorkbook creates a builder containing the named sheets and no others.
// The excelize default sheet is removed unless it was requested.
func NewWorkbook(t *testing.T, sheets ...string) *WorkbookBuilder {
	t.Helper()

	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)
	keepDefault := false
	for _, name := range sheets {
		if name == defaultSheet {
			keepDefault = true
			continue
		}
		if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("failed to create sheet %q: %v", name, err)
		}
	}
	if !keepDefault && len(sheets) > 0 {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			t.Fatalf("failed to delete default sheet: %v", err)
		}
	}
	return &WorkbookBuilder{t: t, f: f}
}

// Set writes one cell by A1-style address and returns the builder.
func (b *WorkbookBuilder) Set(sheet, addr string, value any) *WorkbookBuilder {
	b.t.Helper()

	if err := b.f.SetCellValue(sheet, addr, value); err != nil {
		b.t.Fatalf("failed to set %s!%s: %v", sheet, addr, err)
	}
	return b
}

// SetRow writes several cells of one row, keyed by column letter.
func (b *WorkbookBuilder) SetRow(sheet string, row int, cells map[string]any) *WorkbookBuilder {
	b.t.Helper()

	for col, value := range cells {
		b.Set(sheet, col+strconv.Itoa(row), value)
	}
	return b
}

// Bytes serializes the workbook and returns its raw contents.
func (b *WorkbookBuilder) Bytes() []byte {
	b.t.Helper()

	var buf bytes.Buffer
	if err := b.f.Write(&buf); err != nil {
		b.t.Fatalf("failed to write workbook: %v", err)
	}
	if err := b.f.Close(); err != nil {
		b.t.Fatalf("failed to close workbook: %v", err)
	}
	return buf.Bytes()
}
