package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ProjectInfo carries the bid form's header fields.
type ProjectInfo struct {
	Name      string `json:"name,omitempty"`
	Number    string `json:"number,omitempty"`
	Estimator string `json:"estimator,omitempty"`
	BidDate   string `json:"bid_date,omitempty"`
}

// MarkupPercentages are the markups embedded in the spreadsheet itself.
// They are already baked into the sheet's sell figures and must never be
// re-applied downstream.
type MarkupPercentages struct {
	Overhead    float64 `json:"overhead"`
	Profit      float64 `json:"profit"`
	Contingency float64 `json:"contingency"`
	Bond        float64 `json:"bond"`
}

// ParsedWorkbook is the aggregate result of one import. Errors collects
// soft warnings — a missing sheet, a coercion fallback, a caught parse
// panic — none of which abort extraction of whatever else is present.
type ParsedWorkbook struct {
	ProjectInfo ProjectInfo             `json:"project_info"`
	Rates       RateTable               `json:"rates"`
	Markups     MarkupPercentages       `json:"markups"`
	Sections    []Section               `json:"sections"`
	Summary     Summary                 `json:"summary"`
	Quotes      map[string][]QuotedItem `json:"quotes"`
	Errors      []string                `json:"errors,omitempty"`
}

// Parse converts a bid-form workbook buffer into a ParsedWorkbook. It never
// returns a Go error: a workbook that cannot be opened, or a panic partway
// through extraction, surfaces as a "Parse error" entry alongside whatever
// was extracted before the failure. A nil layout means DefaultLayout.
func Parse(data []byte, layout *Layout) *ParsedWorkbook {
	if layout == nil {
		layout = DefaultLayout()
	}
	pw := &ParsedWorkbook{
		Rates:    RateTable{},
		Sections: []Section{},
		Quotes:   map[string][]QuotedItem{},
	}
	defer func() {
		if r := recover(); r != nil {
			pw.Errors = append(pw.Errors, fmt.Sprintf("Parse error: %v", r))
		}
	}()

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		pw.Errors = append(pw.Errors, fmt.Sprintf("Parse error: %v", err))
		return pw
	}
	defer f.Close()

	rates := newSheetReader(f, layout.RatesSheet, &pw.Errors)
	if rates.found {
		pw.Rates = extractRates(rates, layout)
	} else {
		pw.Errors = append(pw.Errors, fmt.Sprintf("%s sheet not found", layout.RatesSheet))
	}

	base := newSheetReader(f, layout.BaseBidSheet, &pw.Errors)
	if base.found {
		pw.ProjectInfo = extractProjectInfo(base, layout.ProjectInfo)
		pw.Markups = extractMarkups(base, layout.Markups)
		for _, def := range layout.Sections {
			pw.Sections = append(pw.Sections, extractSection(base, def))
		}
		pw.Summary = reconcileSummary(pw.Sections, base, layout.TotalsRow)
	} else {
		pw.Errors = append(pw.Errors, fmt.Sprintf("%s sheet not found", layout.BaseBidSheet))
	}

	// The quotes sheet is optional; its absence is not an error.
	quotes := newSheetReader(f, layout.QuotesSheet, &pw.Errors)
	if quotes.found {
		pw.Quotes = extractQuotes(quotes, layout)
	}

	return pw
}

func extractProjectInfo(s *sheetReader, cells ProjectInfoCells) ProjectInfo {
	return ProjectInfo{
		Name:      s.CellAt(cells.Name),
		Number:    s.CellAt(cells.Number),
		Estimator: s.CellAt(cells.Estimator),
		BidDate:   s.CellAt(cells.BidDate),
	}
}

func extractMarkups(s *sheetReader, cells MarkupCells) MarkupPercentages {
	return MarkupPercentages{
		Overhead:    s.NumAt(cells.Overhead),
		Profit:      s.NumAt(cells.Profit),
		Contingency: s.NumAt(cells.Contingency),
		Bond:        s.NumAt(cells.Bond),
	}
}
