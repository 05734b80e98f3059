package services

// LineItem is one retained row of estimating detail within a section. The
// kind-specific source fields are kept alongside the combined cost/sell so
// downstream consumers never have to re-derive them from the sheet.
type LineItem struct {
	Row          int     `json:"row"`
	Description  string  `json:"description"`
	PhaseCode    string  `json:"phase_code,omitempty"`
	Quantity     float64 `json:"quantity,omitempty"`
	Rate         float64 `json:"rate,omitempty"`
	FieldRate    float64 `json:"field_rate,omitempty"`
	ShopRate     float64 `json:"shop_rate,omitempty"`
	FieldHours   float64 `json:"field_hours,omitempty"`
	ShopHours    float64 `json:"shop_hours,omitempty"`
	Hours        float64 `json:"hours,omitempty"`
	LaborCost    float64 `json:"labor_cost,omitempty"`
	LaborSell    float64 `json:"labor_sell,omitempty"`
	MaterialCost float64 `json:"material_cost,omitempty"`
	MaterialSell float64 `json:"material_sell,omitempty"`
	LumpSum      float64 `json:"lump_sum,omitempty"`
	Markup       float64 `json:"markup,omitempty"`
	Cost         float64 `json:"cost"`
	Sell         float64 `json:"sell"`
}

// SectionTotals carries a section's derived sums. Non-trade sections do not
// distinguish labor from material, so their combined cost lands in the
// LaborCost bucket. RentalCost is an extension point and stays zero under
// the base layout.
type SectionTotals struct {
	Hours           float64 `json:"hours"`
	LaborCost       float64 `json:"labor_cost"`
	MaterialCost    float64 `json:"material_cost"`
	SubcontractCost float64 `json:"subcontract_cost"`
	RentalCost      float64 `json:"rental_cost"`
	Markup          float64 `json:"markup"`
	Sell            float64 `json:"sell"`
}

// Section is one extracted cost category: its definition's identity, the
// retained line items, and totals accumulated as items were kept.
type Section struct {
	Name   string        `json:"name"`
	Kind   SectionKind   `json:"kind"`
	Items  []LineItem    `json:"items"`
	Totals SectionTotals `json:"totals"`
}

// extractSection walks one section's row band and returns the section with
// its retained line items and running totals.
func extractSection(s *sheetReader, def SectionDef) Section {
	sec := Section{Name: def.Name, Kind: def.Kind}
	for row := def.FirstRow; row <= def.LastRow; row++ {
		item, ok := buildLineItem(s, def, row)
		if !ok {
			continue
		}
		sec.Items = append(sec.Items, item)
		sec.Totals.add(def.Kind, item)
	}
	return sec
}

// buildLineItem reads one row through the section's role map and applies the
// kind-specific field strategy. It reports ok=false for rows dropped by
// either filter: blank template rows (no description and no labor cost,
// material cost, or lump sum), and rows that carry a description but no
// financial value at all.
func buildLineItem(s *sheetReader, def SectionDef, row int) (LineItem, bool) {
	read := func(role Role) string {
		col := def.Columns[role]
		if col == "" {
			return ""
		}
		return s.Cell(col, row)
	}
	num := func(role Role) float64 {
		col := def.Columns[role]
		if col == "" {
			return 0
		}
		return s.Num(col, row)
	}

	desc := read(RoleDescription)
	if desc == "" {
		desc = read(RoleDescriptionAlt)
	}
	laborCost := num(RoleLaborCost)
	materialCost := num(RoleMaterialExtended)
	lumpSum := num(RoleLumpSum)
	if desc == "" && laborCost == 0 && materialCost == 0 && lumpSum == 0 {
		return LineItem{}, false
	}

	item := LineItem{
		Row:         row,
		Description: desc,
		PhaseCode:   read(RolePhaseCode),
		Quantity:    num(RoleQuantity),
	}

	switch def.Kind {
	case KindLabor:
		// The quantity column holds the rate per unit for labor rows.
		item.Rate = item.Quantity
		item.Hours = num(RoleTotalHours)
		item.LaborCost = laborCost
		item.LaborSell = num(RoleLaborSell)
		item.Markup = num(RoleLaborMarkup)
		item.Cost = laborCost
		item.Sell = item.LaborSell
	case KindTrade:
		item.FieldRate = num(RoleFieldRate)
		item.ShopRate = num(RoleShopRate)
		item.FieldHours = num(RoleFieldHours)
		item.ShopHours = num(RoleShopHours)
		item.Hours = num(RoleTotalHours)
		item.LaborCost = laborCost
		item.LaborSell = num(RoleLaborSell)
		item.MaterialCost = materialCost
		item.MaterialSell = num(RoleMaterialSell)
		item.LumpSum = lumpSum
		item.Markup = num(RoleLaborMarkup) + num(RoleMaterialMarkup)
		// The lump sum is an embedded subcontract line inside an otherwise
		// labor/material section; it carries no separate markup.
		item.Cost = laborCost + materialCost + lumpSum
		item.Sell = item.LaborSell + item.MaterialSell + lumpSum
	case KindRental, KindConditions:
		// These sections reuse the material columns as a generic
		// cost/markup/sell triple.
		item.Cost = materialCost
		item.Sell = num(RoleMaterialSell)
		item.Markup = num(RoleMaterialMarkup)
	case KindSubcontract:
		item.LumpSum = lumpSum
		if lumpSum > 0 {
			item.Cost = lumpSum
		} else {
			item.Cost = materialCost
		}
		if sell := num(RoleMaterialSell); sell > 0 {
			item.Sell = sell
		} else {
			item.Sell = lumpSum
		}
		item.Markup = item.Sell - item.Cost
	}

	if item.Cost > 0 || item.Hours > 0 || item.Sell > 0 {
		return item, true
	}
	return LineItem{}, false
}

// add accumulates a retained line item into the section totals. Trade rows
// contribute their labor/material/lump-sum split; every other kind's
// combined cost is attributed to the labor bucket.
func (t *SectionTotals) add(kind SectionKind, item LineItem) {
	t.Hours += item.Hours
	t.Markup += item.Markup
	t.Sell += item.Sell
	if kind == KindTrade {
		t.LaborCost += item.LaborCost
		t.MaterialCost += item.MaterialCost
		t.SubcontractCost += item.LumpSum
		return
	}
	t.LaborCost += item.Cost
}
