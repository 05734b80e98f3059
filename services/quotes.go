package services

import "github.com/xuri/excelize/v2"

// QuotedItem is one row of the vendor-comparison grid: a scope item and the
// quote amounts received per named vendor. An item with a description but no
// quotes is still recorded, so scope stays visible before pricing arrives.
type QuotedItem struct {
	ItemNumber  string             `json:"item_number,omitempty"`
	Description string             `json:"description"`
	Quantity    float64            `json:"quantity,omitempty"`
	Unit        string             `json:"unit,omitempty"`
	Quotes      map[string]float64 `json:"quotes"`
}

// extractQuotes parses the vendor-quotes sheet into items grouped by trade
// category. Vendor names come from each category's header row; a blank slot
// means no vendor occupies that column. Quote amounts that coerce to zero
// are not recorded.
func extractQuotes(s *sheetReader, layout *Layout) map[string][]QuotedItem {
	cols := layout.QuoteCols
	baseCol, err := excelize.ColumnNameToNumber(cols.QuoteBase)
	if err != nil {
		return map[string][]QuotedItem{}
	}
	slotCol := func(slot int) string {
		name, _ := excelize.ColumnNumberToName(baseCol + slot)
		return name
	}

	out := map[string][]QuotedItem{}
	for _, group := range layout.QuoteGroups {
		vendors := make([]string, cols.VendorSlots)
		for slot := range vendors {
			vendors[slot] = s.Cell(slotCol(slot), group.HeaderRow)
		}

		var items []QuotedItem
		for row := group.FirstRow; row <= group.LastRow; row++ {
			desc := s.Cell(cols.Description, row)
			if desc == "" {
				continue
			}
			item := QuotedItem{
				ItemNumber:  s.Cell(cols.ItemNumber, row),
				Description: desc,
				Quantity:    s.Num(cols.Quantity, row),
				Unit:        s.Cell(cols.Unit, row),
				Quotes:      map[string]float64{},
			}
			for slot, vendor := range vendors {
				if vendor == "" {
					continue
				}
				if amount := s.Num(slotCol(slot), row); amount != 0 {
					item.Quotes[vendor] = amount
				}
			}
			items = append(items, item)
		}
		if len(items) > 0 {
			out[group.Category] = items
		}
	}
	return out
}
