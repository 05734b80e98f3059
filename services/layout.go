package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SectionKind selects the field-extraction strategy for a section's rows.
type SectionKind string

const (
	KindLabor       SectionKind = "labor"
	KindTrade       SectionKind = "trade"
	KindRental      SectionKind = "rental"
	KindConditions  SectionKind = "conditions"
	KindSubcontract SectionKind = "subcontract"
)

// Role names a semantic column within a section. The same physical column
// can carry different roles in different sections, which is why each section
// declares its own role map instead of sharing one schema.
type Role string

const (
	RoleDescription      Role = "description"
	RoleDescriptionAlt   Role = "description_alt"
	RolePhaseCode        Role = "phase_code"
	RoleQuantity         Role = "quantity"
	RoleFieldRate        Role = "field_rate"
	RoleShopRate         Role = "shop_rate"
	RoleFieldHours       Role = "field_hours"
	RoleShopHours        Role = "shop_hours"
	RoleTotalHours       Role = "total_hours"
	RoleLaborCost        Role = "labor_cost"
	RoleLaborMarkup      Role = "labor_markup"
	RoleLaborSell        Role = "labor_sell"
	RoleMaterialBase     Role = "material_base"
	RoleMaterialExtended Role = "material_extended"
	RoleMaterialMarkup   Role = "material_markup"
	RoleMaterialSell     Role = "material_sell"
	RoleLumpSum          Role = "lump_sum"
)

// SectionDef describes one contiguous row band of the base-bid sheet.
type SectionDef struct {
	Name      string          `yaml:"name"`
	Kind      SectionKind     `yaml:"kind"`
	HeaderRow int             `yaml:"header_row"`
	FirstRow  int             `yaml:"first_row"`
	LastRow   int             `yaml:"last_row"`
	Columns   map[Role]string `yaml:"columns"`
}

// TotalsRowDef locates the base-bid sheet's own grand-total row. Cells here
// are authoritative over accumulated line-item sums when present.
type TotalsRowDef struct {
	Row          int    `yaml:"row"`
	Hours        string `yaml:"hours"`
	LaborCost    string `yaml:"labor_cost"`
	MaterialCost string `yaml:"material_cost"`
	LaborSell    string `yaml:"labor_sell"`
	MaterialSell string `yaml:"material_sell"`
	LumpSum      string `yaml:"lump_sum"`
	Contingency  string `yaml:"contingency"`
	GrossMargin  string `yaml:"gross_margin"`
	TotalPrice   string `yaml:"total_price"`
}

// ShiftCol pairs a shift type with its rate column on the rates sheet.
type ShiftCol struct {
	Shift string `yaml:"shift"`
	Col   string `yaml:"col"`
}

// RateBlock describes one trade's block on the rates sheet: a band of
// classification rows plus a single composite (blended) rate row.
type RateBlock struct {
	Trade        string     `yaml:"trade"`
	CodeCol      string     `yaml:"code_col"`
	FirstRow     int        `yaml:"first_row"`
	LastRow      int        `yaml:"last_row"`
	CompositeRow int        `yaml:"composite_row"`
	Shifts       []ShiftCol `yaml:"shifts"`
}

// QuoteGroup describes one trade category's grid on the vendor-quotes sheet.
type QuoteGroup struct {
	Category  string `yaml:"category"`
	HeaderRow int    `yaml:"header_row"`
	FirstRow  int    `yaml:"first_row"`
	LastRow   int    `yaml:"last_row"`
}

// QuoteCols fixes the shared columns of the vendor-quotes sheet. Vendor
// quote columns start at QuoteBase and advance one column per vendor slot.
type QuoteCols struct {
	ItemNumber  string `yaml:"item_number"`
	Description string `yaml:"description"`
	Quantity    string `yaml:"quantity"`
	Unit        string `yaml:"unit"`
	QuoteBase   string `yaml:"quote_base"`
	VendorSlots int    `yaml:"vendor_slots"`
}

// ProjectInfoCells locates the project header fields on the base-bid sheet.
type ProjectInfoCells struct {
	Name      string `yaml:"name"`
	Number    string `yaml:"number"`
	Estimator string `yaml:"estimator"`
	BidDate   string `yaml:"bid_date"`
}

// MarkupCells locates the spreadsheet's own markup percentage cells.
type MarkupCells struct {
	Overhead    string `yaml:"overhead"`
	Profit      string `yaml:"profit"`
	Contingency string `yaml:"contingency"`
	Bond        string `yaml:"bond"`
}

// Layout is the full versioned contract between the engine and the bid-form
// template: sheet names, section bands, role maps, and designated cells. It
// is data, not code — a template revision is a layout change.
type Layout struct {
	RatesSheet   string           `yaml:"rates_sheet"`
	BaseBidSheet string           `yaml:"base_bid_sheet"`
	QuotesSheet  string           `yaml:"quotes_sheet"`
	ProjectInfo  ProjectInfoCells `yaml:"project_info"`
	Markups      MarkupCells      `yaml:"markups"`
	Sections     []SectionDef     `yaml:"sections"`
	TotalsRow    TotalsRowDef     `yaml:"totals_row"`
	RateBlocks   []RateBlock      `yaml:"rate_blocks"`
	RateCodes    []string         `yaml:"rate_codes"`
	QuoteGroups  []QuoteGroup     `yaml:"quote_groups"`
	QuoteCols    QuoteCols        `yaml:"quote_columns"`
}

// tradeColumns is the role map shared by the three trade sections.
func tradeColumns() map[Role]string {
	return map[Role]string{
		RolePhaseCode:        "A",
		RoleDescription:      "C",
		RoleDescriptionAlt:   "B",
		RoleQuantity:         "D",
		RoleFieldRate:        "E",
		RoleShopRate:         "F",
		RoleMaterialBase:     "G",
		RoleMaterialExtended: "H",
		RoleMaterialMarkup:   "I",
		RoleMaterialSell:     "J",
		RoleLumpSum:          "K",
		RoleFieldHours:       "M",
		RoleShopHours:        "N",
		RoleTotalHours:       "O",
		RoleLaborCost:        "P",
		RoleLaborMarkup:      "Q",
		RoleLaborSell:        "R",
	}
}

// costColumns is the role map for rental and general-conditions sections,
// which reuse the material columns as a generic cost/markup/sell triple.
func costColumns() map[Role]string {
	return map[Role]string{
		RolePhaseCode:        "A",
		RoleDescription:      "C",
		RoleDescriptionAlt:   "B",
		RoleQuantity:         "D",
		RoleMaterialExtended: "H",
		RoleMaterialMarkup:   "I",
		RoleMaterialSell:     "J",
	}
}

// DefaultLayout returns the 2024 mechanical bid-form template contract.
func DefaultLayout() *Layout {
	shifts := []ShiftCol{
		{Shift: "straight", Col: "C"},
		{Shift: "overtime", Col: "D"},
		{Shift: "double", Col: "E"},
		{Shift: "night", Col: "F"},
	}
	return &Layout{
		RatesSheet:   "Rates",
		BaseBidSheet: "Base Bid",
		QuotesSheet:  "Quotes",
		ProjectInfo: ProjectInfoCells{
			Name:      "B2",
			Number:    "B3",
			Estimator: "B4",
			BidDate:   "B5",
		},
		Markups: MarkupCells{
			Overhead:    "U2",
			Profit:      "U3",
			Contingency: "U4",
			Bond:        "U5",
		},
		Sections: []SectionDef{
			{
				Name: "General Labor", Kind: KindLabor,
				HeaderRow: 7, FirstRow: 8, LastRow: 17,
				Columns: map[Role]string{
					RolePhaseCode:      "A",
					RoleDescription:    "C",
					RoleDescriptionAlt: "B",
					RoleQuantity:       "D",
					RoleTotalHours:     "O",
					RoleLaborCost:      "P",
					RoleLaborMarkup:    "Q",
					RoleLaborSell:      "R",
				},
			},
			{Name: "Sheet Metal", Kind: KindTrade, HeaderRow: 19, FirstRow: 20, LastRow: 34, Columns: tradeColumns()},
			{Name: "Piping", Kind: KindTrade, HeaderRow: 36, FirstRow: 37, LastRow: 51, Columns: tradeColumns()},
			{Name: "Plumbing", Kind: KindTrade, HeaderRow: 53, FirstRow: 54, LastRow: 68, Columns: tradeColumns()},
			{Name: "Rentals", Kind: KindRental, HeaderRow: 70, FirstRow: 71, LastRow: 80, Columns: costColumns()},
			{Name: "General Conditions", Kind: KindConditions, HeaderRow: 82, FirstRow: 83, LastRow: 97, Columns: costColumns()},
			{
				Name: "Subcontracts", Kind: KindSubcontract,
				HeaderRow: 99, FirstRow: 100, LastRow: 109,
				Columns: map[Role]string{
					RolePhaseCode:        "A",
					RoleDescription:      "C",
					RoleDescriptionAlt:   "B",
					RoleQuantity:         "D",
					RoleMaterialExtended: "H",
					RoleMaterialSell:     "J",
					RoleLumpSum:          "K",
				},
			},
		},
		TotalsRow: TotalsRowDef{
			Row:          112,
			Hours:        "O",
			LaborCost:    "P",
			MaterialCost: "H",
			LaborSell:    "R",
			MaterialSell: "J",
			LumpSum:      "K",
			Contingency:  "S",
			GrossMargin:  "T",
			TotalPrice:   "U",
		},
		RateBlocks: []RateBlock{
			{Trade: "Sheet Metal", CodeCol: "A", FirstRow: 4, LastRow: 9, CompositeRow: 11, Shifts: shifts},
			{Trade: "Piping", CodeCol: "A", FirstRow: 14, LastRow: 19, CompositeRow: 21, Shifts: shifts},
			{Trade: "Plumbing", CodeCol: "A", FirstRow: 24, LastRow: 29, CompositeRow: 31, Shifts: shifts},
		},
		RateCodes: []string{"GF", "FM", "JW", "AP", "HLP"},
		QuoteGroups: []QuoteGroup{
			{Category: "Piping", HeaderRow: 4, FirstRow: 5, LastRow: 24},
			{Category: "Sheet Metal", HeaderRow: 27, FirstRow: 28, LastRow: 47},
			{Category: "Plumbing", HeaderRow: 50, FirstRow: 51, LastRow: 70},
			{Category: "Insulation", HeaderRow: 73, FirstRow: 74, LastRow: 93},
			{Category: "Controls", HeaderRow: 96, FirstRow: 97, LastRow: 116},
			{Category: "Test & Balance", HeaderRow: 119, FirstRow: 120, LastRow: 139},
		},
		QuoteCols: QuoteCols{
			ItemNumber:  "A",
			Description: "B",
			Quantity:    "C",
			Unit:        "D",
			QuoteBase:   "F",
			VendorSlots: 6,
		},
	}
}

// LoadLayout reads a complete layout from a YAML file. A layout file
// replaces the default wholesale; partial overrides are not merged.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout %s: %w", path, err)
	}
	return &l, nil
}

// Validate checks the structural constraints the extractors rely on:
// positive non-inverted row bands, no overlapping sections, and a
// description column for every section.
func (l *Layout) Validate() error {
	if l.BaseBidSheet == "" {
		return fmt.Errorf("base_bid_sheet is required")
	}
	if l.RatesSheet == "" {
		return fmt.Errorf("rates_sheet is required")
	}
	for i, s := range l.Sections {
		if s.Name == "" {
			return fmt.Errorf("section %d: name is required", i)
		}
		switch s.Kind {
		case KindLabor, KindTrade, KindRental, KindConditions, KindSubcontract:
		default:
			return fmt.Errorf("section %q: unknown kind %q", s.Name, s.Kind)
		}
		if s.FirstRow < 1 || s.LastRow < s.FirstRow {
			return fmt.Errorf("section %q: bad row band %d-%d", s.Name, s.FirstRow, s.LastRow)
		}
		if s.Columns[RoleDescription] == "" {
			return fmt.Errorf("section %q: description column is required", s.Name)
		}
		for j := 0; j < i; j++ {
			prev := l.Sections[j]
			if s.FirstRow <= prev.LastRow && prev.FirstRow <= s.LastRow {
				return fmt.Errorf("sections %q and %q overlap", prev.Name, s.Name)
			}
		}
	}
	for _, b := range l.RateBlocks {
		if b.FirstRow < 1 || b.LastRow < b.FirstRow {
			return fmt.Errorf("rate block %q: bad row band %d-%d", b.Trade, b.FirstRow, b.LastRow)
		}
	}
	for _, g := range l.QuoteGroups {
		if g.FirstRow < 1 || g.LastRow < g.FirstRow {
			return fmt.Errorf("quote group %q: bad row band %d-%d", g.Category, g.FirstRow, g.LastRow)
		}
	}
	return nil
}
