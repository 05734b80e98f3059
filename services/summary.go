package services

// Summary holds the workbook-level totals. It is built in two phases: first
// by accumulating section totals, then by overriding designated fields with
// the base-bid sheet's own totals row where those cells are present.
// EquipmentCost is never populated by any extractor today and stays zero.
type Summary struct {
	LaborHours         float64 `json:"labor_hours"`
	LaborCost          float64 `json:"labor_cost"`
	MaterialCost       float64 `json:"material_cost"`
	EquipmentCost      float64 `json:"equipment_cost"`
	SubcontractCost    float64 `json:"subcontract_cost"`
	RentalCost         float64 `json:"rental_cost"`
	Subtotal           float64 `json:"subtotal"`
	Markup             float64 `json:"markup"`
	Sell               float64 `json:"sell"`
	Contingency        float64 `json:"contingency"`
	GrossMargin        float64 `json:"gross_margin"`
	GrossMarginPercent float64 `json:"gross_margin_percent"`
	TotalPrice         float64 `json:"total_price"`
}

// reconcileSummary merges the two sources of truth: sums computed by walking
// line items, and the spreadsheet's authoritative totals row. Precedence is
// per field — a present totals-row cell replaces the accumulated value for
// that field only, because the grand-total row may carry rounding or manual
// corrections the line-item walk cannot see.
func reconcileSummary(sections []Section, s *sheetReader, tr TotalsRowDef) Summary {
	var sum Summary

	// Phase 1: accumulate section totals.
	for _, sec := range sections {
		sum.LaborHours += sec.Totals.Hours
		sum.LaborCost += sec.Totals.LaborCost
		sum.MaterialCost += sec.Totals.MaterialCost
		sum.SubcontractCost += sec.Totals.SubcontractCost
		sum.RentalCost += sec.Totals.RentalCost
		sum.Markup += sec.Totals.Markup
		sum.Sell += sec.Totals.Sell
	}

	// Phase 2: authoritative overrides from the totals row.
	overrideCell(s, tr.Hours, tr.Row, &sum.LaborHours)
	overrideCell(s, tr.LaborCost, tr.Row, &sum.LaborCost)
	overrideCell(s, tr.MaterialCost, tr.Row, &sum.MaterialCost)

	// Total sell is recomputed from the totals row's own sell cells when any
	// of them is present, independent of the phase-1 sell accumulation.
	laborSell, haveLS := totalsCell(s, tr.LaborSell, tr.Row)
	materialSell, haveMS := totalsCell(s, tr.MaterialSell, tr.Row)
	lumpSum, haveLump := totalsCell(s, tr.LumpSum, tr.Row)
	contingency, haveCont := totalsCell(s, tr.Contingency, tr.Row)
	if haveLS || haveMS || haveLump || haveCont {
		sum.Contingency = contingency
		sum.Sell = laborSell + materialSell + lumpSum + contingency
	}

	// The lump-sum grand total may only raise the subcontract figure.
	if lumpSum > sum.SubcontractCost {
		sum.SubcontractCost = lumpSum
	}

	if gm, ok := totalsCell(s, tr.GrossMargin, tr.Row); ok {
		sum.GrossMargin = gm
	}
	if tp, ok := totalsCell(s, tr.TotalPrice, tr.Row); ok {
		sum.TotalPrice = tp
	}
	if sum.TotalPrice > 0 {
		sum.GrossMarginPercent = sum.GrossMargin / sum.TotalPrice * 100
	}

	sum.Subtotal = sum.LaborCost + sum.MaterialCost + sum.EquipmentCost +
		sum.SubcontractCost + sum.RentalCost
	return sum
}

// totalsCell reads one designated totals-row cell, reporting whether the
// cell was present (non-empty).
func totalsCell(s *sheetReader, col string, row int) (float64, bool) {
	if s == nil || col == "" || s.Cell(col, row) == "" {
		return 0, false
	}
	return s.Num(col, row), true
}

// overrideCell replaces dst with the totals-row value when present.
func overrideCell(s *sheetReader, col string, row int, dst *float64) {
	if v, ok := totalsCell(s, col, row); ok {
		*dst = v
	}
}
