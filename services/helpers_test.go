package services

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"
)

// openSheet opens fixture workbook bytes and returns a reader over one sheet.
// Warnings accumulate into warns when it is non-nil.
func openSheet(t *testing.T, data []byte, sheet string, warns *[]string) *sheetReader {
	t.Helper()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to open fixture workbook: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return newSheetReader(f, sheet, warns)
}
