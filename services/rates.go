package services

import "strings"

// CompositeCode keys the blended rate within a trade's shift bucket.
const CompositeCode = "composite"

// RateTable maps trade -> shift type -> classification code -> hourly rate.
// The composite (blended) rate is stored under CompositeCode.
type RateTable map[string]map[string]map[string]float64

// extractRates reads the rates sheet into a RateTable. Classification codes
// outside the recognized set are silently skipped, and only positive rates
// are recorded.
func extractRates(s *sheetReader, layout *Layout) RateTable {
	recognized := make(map[string]bool, len(layout.RateCodes))
	for _, c := range layout.RateCodes {
		recognized[strings.ToUpper(c)] = true
	}

	table := RateTable{}
	for _, block := range layout.RateBlocks {
		for row := block.FirstRow; row <= block.LastRow; row++ {
			code := strings.ToUpper(s.Cell(block.CodeCol, row))
			if !recognized[code] {
				continue
			}
			for _, sc := range block.Shifts {
				if rate := s.Num(sc.Col, row); rate > 0 {
					table.set(block.Trade, sc.Shift, code, rate)
				}
			}
		}
		for _, sc := range block.Shifts {
			if rate := s.Num(sc.Col, block.CompositeRow); rate > 0 {
				table.set(block.Trade, sc.Shift, CompositeCode, rate)
			}
		}
	}
	return table
}

func (t RateTable) set(trade, shift, code string, rate float64) {
	if t[trade] == nil {
		t[trade] = map[string]map[string]float64{}
	}
	if t[trade][shift] == nil {
		t[trade][shift] = map[string]float64{}
	}
	t[trade][shift][code] = rate
}

// Rate looks up an hourly rate, returning 0 when absent.
func (t RateTable) Rate(trade, shift, code string) float64 {
	return t[trade][shift][code]
}
