package services

// EstimateRecord is the persistence-facing shape of a mapped import. The
// persisted overhead/profit/contingency/bond percentages reflect only the
// externally supplied overrides: the spreadsheet's own markups are already
// embedded in its sell figures, and persisting them would let a downstream
// recompute-from-percentage step apply markup twice.
type EstimateRecord struct {
	ProjectName        string  `json:"project_name"`
	ProjectNumber      string  `json:"project_number"`
	Estimator          string  `json:"estimator"`
	BidDate            string  `json:"bid_date"`
	LaborHours         float64 `json:"labor_hours"`
	LaborCost          float64 `json:"labor_cost"`
	MaterialCost       float64 `json:"material_cost"`
	EquipmentCost      float64 `json:"equipment_cost"`
	SubcontractCost    float64 `json:"subcontract_cost"`
	RentalCost         float64 `json:"rental_cost"`
	Subtotal           float64 `json:"subtotal"`
	OverheadPercent    float64 `json:"overhead_percent"`
	ProfitPercent      float64 `json:"profit_percent"`
	ContingencyPercent float64 `json:"contingency_percent"`
	BondPercent        float64 `json:"bond_percent"`
	OverheadAmount     float64 `json:"overhead_amount"`
	ProfitAmount       float64 `json:"profit_amount"`
	Contingency        float64 `json:"contingency"`
	GrossMargin        float64 `json:"gross_margin"`
	GrossMarginPercent float64 `json:"gross_margin_percent"`
	TotalSell          float64 `json:"total_sell"`
}

// EstimateSectionRecord mirrors one parsed section for persistence.
type EstimateSectionRecord struct {
	Name            string                   `json:"name"`
	ItemType        string                   `json:"item_type"`
	LaborHours      float64                  `json:"labor_hours"`
	LaborCost       float64                  `json:"labor_cost"`
	MaterialCost    float64                  `json:"material_cost"`
	SubcontractCost float64                  `json:"subcontract_cost"`
	Sell            float64                  `json:"sell"`
	LineItems       []EstimateLineItemRecord `json:"line_items"`
}

// EstimateLineItemRecord mirrors one parsed line item for persistence.
type EstimateLineItemRecord struct {
	Row         int     `json:"row"`
	Description string  `json:"description"`
	PhaseCode   string  `json:"phase_code,omitempty"`
	ItemType    string  `json:"item_type"`
	Quantity    float64 `json:"quantity"`
	Hours       float64 `json:"hours"`
	Cost        float64 `json:"cost"`
	Sell        float64 `json:"sell"`
}

// MappedEstimate is the shape handed to the persistence collaborator.
type MappedEstimate struct {
	Estimate EstimateRecord          `json:"estimate"`
	Sections []EstimateSectionRecord `json:"sections"`
}

// MapEstimate combines a parsed workbook with optional external overhead and
// profit percentages. The overrides are markups the estimator applies on top
// of the spreadsheet: overhead on the subtotal, profit on the subtotal plus
// overhead, both added to gross margin and the total sell.
func MapEstimate(pw *ParsedWorkbook, overheadPercent, profitPercent float64) MappedEstimate {
	sum := pw.Summary

	grossMargin := sum.GrossMargin
	totalSell := sum.TotalPrice
	grossMarginPercent := sum.GrossMarginPercent
	var overheadAmount, profitAmount float64
	if overheadPercent != 0 || profitPercent != 0 {
		overheadAmount = sum.Subtotal * overheadPercent / 100
		profitAmount = (sum.Subtotal + overheadAmount) * profitPercent / 100
		grossMargin += overheadAmount + profitAmount
		totalSell = sum.TotalPrice + overheadAmount + profitAmount
		grossMarginPercent = 0
		if totalSell > 0 {
			grossMarginPercent = grossMargin / totalSell * 100
		}
	}

	estimate := EstimateRecord{
		ProjectName:        pw.ProjectInfo.Name,
		ProjectNumber:      pw.ProjectInfo.Number,
		Estimator:          pw.ProjectInfo.Estimator,
		BidDate:            pw.ProjectInfo.BidDate,
		LaborHours:         sum.LaborHours,
		LaborCost:          sum.LaborCost,
		MaterialCost:       sum.MaterialCost,
		EquipmentCost:      sum.EquipmentCost,
		SubcontractCost:    sum.SubcontractCost,
		RentalCost:         sum.RentalCost,
		Subtotal:           sum.Subtotal,
		OverheadPercent:    overheadPercent,
		ProfitPercent:      profitPercent,
		OverheadAmount:     overheadAmount,
		ProfitAmount:       profitAmount,
		Contingency:        sum.Contingency,
		GrossMargin:        grossMargin,
		GrossMarginPercent: grossMarginPercent,
		TotalSell:          totalSell,
	}

	sections := make([]EstimateSectionRecord, 0, len(pw.Sections))
	for _, sec := range pw.Sections {
		itemType := itemTypeForKind(sec.Kind)
		rec := EstimateSectionRecord{
			Name:            sec.Name,
			ItemType:        itemType,
			LaborHours:      sec.Totals.Hours,
			LaborCost:       sec.Totals.LaborCost,
			MaterialCost:    sec.Totals.MaterialCost,
			SubcontractCost: sec.Totals.SubcontractCost,
			Sell:            sec.Totals.Sell,
			LineItems:       make([]EstimateLineItemRecord, 0, len(sec.Items)),
		}
		for _, item := range sec.Items {
			rec.LineItems = append(rec.LineItems, EstimateLineItemRecord{
				Row:         item.Row,
				Description: item.Description,
				PhaseCode:   item.PhaseCode,
				ItemType:    itemType,
				Quantity:    item.Quantity,
				Hours:       item.Hours,
				Cost:        item.Cost,
				Sell:        item.Sell,
			})
		}
		sections = append(sections, rec)
	}

	return MappedEstimate{Estimate: estimate, Sections: sections}
}

// itemTypeForKind maps a section kind to the persistence item-type tag.
func itemTypeForKind(kind SectionKind) string {
	switch kind {
	case KindLabor, KindTrade:
		return "labor"
	case KindRental:
		return "rental"
	case KindSubcontract:
		return "subcontractor"
	default:
		return "other"
	}
}
