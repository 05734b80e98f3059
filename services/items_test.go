package services

import (
	"math"
	"testing"

	"bidimport/testhelpers"
)

// sectionByName pulls one section definition out of the default layout.
func sectionByName(t *testing.T, name string) SectionDef {
	t.Helper()

	for _, def := range DefaultLayout().Sections {
		if def.Name == name {
			return def
		}
	}
	t.Fatalf("no section named %q in default layout", name)
	return SectionDef{}
}

func TestExtractSectionLaborKind(t *testing.T) {
	def := sectionByName(t, "General Labor")
	data := testhelpers.NewWorkbook(t, "Base Bid").
		SetRow("Base Bid", 8, map[string]any{
			"A": "01-100", "C": "Project manager", "D": 85.0,
			"O": 40.0, "P": 3400.0, "Q": 340.0, "R": 3740.0,
		}).
		Bytes()

	sec := extractSection(openSheet(t, data, "Base Bid", nil), def)
	if len(sec.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(sec.Items))
	}

	item := sec.Items[0]
	if item.Row != 8 {
		t.Errorf("Row = %d, want 8", item.Row)
	}
	if item.Description != "Project manager" {
		t.Errorf("Description = %q", item.Description)
	}
	if item.PhaseCode != "01-100" {
		t.Errorf("PhaseCode = %q, want 01-100", item.PhaseCode)
	}
	// For labor rows the quantity column doubles as the rate per unit.
	if item.Rate != 85 {
		t.Errorf("Rate = %v, want 85", item.Rate)
	}
	if item.Hours != 40 || item.Cost != 3400 || item.Sell != 3740 {
		t.Errorf("hours/cost/sell = %v/%v/%v, want 40/3400/3740",
			item.Hours, item.Cost, item.Sell)
	}
}

func TestExtractSectionTradeKind(t *testing.T) {
	def := sectionByName(t, "Piping")

	t.Run("labor and material split", func(t *testing.T) {
		data := testhelpers.NewWorkbook(t, "Base Bid").
			SetRow("Base Bid", 37, map[string]any{
				"C": "CHW mains", "P": 200.0, "H": 300.0,
				"R": 240.0, "J": 360.0, "O": 16.0,
			}).
			Bytes()

		sec := extractSection(openSheet(t, data, "Base Bid", nil), def)
		if len(sec.Items) != 1 {
			t.Fatalf("got %d items, want 1", len(sec.Items))
		}
		item := sec.Items[0]
		if item.Cost != 500 {
			t.Errorf("Cost = %v, want 500", item.Cost)
		}
		if item.Sell != 600 {
			t.Errorf("Sell = %v, want 600", item.Sell)
		}
		if sec.Totals.LaborCost != 200 {
			t.Errorf("section LaborCost = %v, want 200", sec.Totals.LaborCost)
		}
		if sec.Totals.MaterialCost != 300 {
			t.Errorf("section MaterialCost = %v, want 300", sec.Totals.MaterialCost)
		}
	})

	t.Run("embedded lump sum", func(t *testing.T) {
		data := testhelpers.NewWorkbook(t, "Base Bid").
			SetRow("Base Bid", 37, map[string]any{
				"C": "Fire protection", "K": 15000.0,
			}).
			Bytes()

		sec := extractSection(openSheet(t, data, "Base Bid", nil), def)
		if len(sec.Items) != 1 {
			t.Fatalf("got %d items, want 1", len(sec.Items))
		}
		item := sec.Items[0]
		if item.Cost != 15000 || item.Sell != 15000 {
			t.Errorf("cost/sell = %v/%v, want 15000/15000", item.Cost, item.Sell)
		}
		if sec.Totals.SubcontractCost != 15000 {
			t.Errorf("section SubcontractCost = %v, want 15000", sec.Totals.SubcontractCost)
		}
	})
}

func TestExtractSectionRentalKind(t *testing.T) {
	def := sectionByName(t, "Rentals")
	data := testhelpers.NewWorkbook(t, "Base Bid").
		SetRow("Base Bid", 71, map[string]any{
			"C": "Scissor lift", "H": 1200.0, "I": 120.0, "J": 1320.0,
		}).
		Bytes()

	sec := extractSection(openSheet(t, data, "Base Bid", nil), def)
	if len(sec.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(sec.Items))
	}
	item := sec.Items[0]
	if item.Cost != 1200 || item.Sell != 1320 || item.Markup != 120 {
		t.Errorf("cost/sell/markup = %v/%v/%v, want 1200/1320/120",
			item.Cost, item.Sell, item.Markup)
	}
	// Non-trade cost lands in the labor bucket.
	if sec.Totals.LaborCost != 1200 {
		t.Errorf("section LaborCost = %v, want 1200", sec.Totals.LaborCost)
	}
	if sec.Totals.MaterialCost != 0 {
		t.Errorf("section MaterialCost = %v, want 0", sec.Totals.MaterialCost)
	}
}

func TestExtractSectionSubcontractKind(t *testing.T) {
	def := sectionByName(t, "Subcontracts")

	tests := []struct {
		name       string
		cells      map[string]any
		expectCost float64
		expectSell float64
	}{
		{
			name:       "lump sum wins over extended",
			cells:      map[string]any{"C": "Insulation sub", "K": 20000.0, "H": 18000.0},
			expectCost: 20000,
			expectSell: 20000,
		},
		{
			name:       "extended cost fallback",
			cells:      map[string]any{"C": "Controls sub", "H": 9000.0},
			expectCost: 9000,
			expectSell: 0,
		},
		{
			name:       "explicit sell preferred",
			cells:      map[string]any{"C": "TAB sub", "K": 5000.0, "J": 5500.0},
			expectCost: 5000,
			expectSell: 5500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := testhelpers.NewWorkbook(t, "Base Bid").
				SetRow("Base Bid", 100, tt.cells).
				Bytes()

			sec := extractSection(openSheet(t, data, "Base Bid", nil), def)
			if len(sec.Items) != 1 {
				t.Fatalf("got %d items, want 1", len(sec.Items))
			}
			if sec.Items[0].Cost != tt.expectCost {
				t.Errorf("Cost = %v, want %v", sec.Items[0].Cost, tt.expectCost)
			}
			if sec.Items[0].Sell != tt.expectSell {
				t.Errorf("Sell = %v, want %v", sec.Items[0].Sell, tt.expectSell)
			}
		})
	}
}

func TestDropRules(t *testing.T) {
	def := sectionByName(t, "Piping")

	t.Run("blank template rows dropped", func(t *testing.T) {
		// Rows with formatting leftovers but no description and no money.
		data := testhelpers.NewWorkbook(t, "Base Bid").
			SetRow("Base Bid", 37, map[string]any{"D": 0.0}).
			SetRow("Base Bid", 38, map[string]any{"A": ""}).
			Bytes()

		sec := extractSection(openSheet(t, data, "Base Bid", nil), def)
		if len(sec.Items) != 0 {
			t.Errorf("got %d items, want 0", len(sec.Items))
		}
	})

	t.Run("description without money dropped", func(t *testing.T) {
		data := testhelpers.NewWorkbook(t, "Base Bid").
			SetRow("Base Bid", 37, map[string]any{"C": "Future scope - TBD"}).
			Bytes()

		sec := extractSection(openSheet(t, data, "Base Bid", nil), def)
		if len(sec.Items) != 0 {
			t.Errorf("got %d items, want 0", len(sec.Items))
		}
	})

	t.Run("hours alone retain a row", func(t *testing.T) {
		data := testhelpers.NewWorkbook(t, "Base Bid").
			SetRow("Base Bid", 37, map[string]any{"C": "Layout crew", "O": 24.0}).
			Bytes()

		sec := extractSection(openSheet(t, data, "Base Bid", nil), def)
		if len(sec.Items) != 1 {
			t.Fatalf("got %d items, want 1", len(sec.Items))
		}
		if sec.Items[0].Hours != 24 {
			t.Errorf("Hours = %v, want 24", sec.Items[0].Hours)
		}
	})

	t.Run("description fallback column", func(t *testing.T) {
		data := testhelpers.NewWorkbook(t, "Base Bid").
			SetRow("Base Bid", 37, map[string]any{"B": "Equipment setting", "P": 800.0}).
			Bytes()

		sec := extractSection(openSheet(t, data, "Base Bid", nil), def)
		if len(sec.Items) != 1 {
			t.Fatalf("got %d items, want 1", len(sec.Items))
		}
		if sec.Items[0].Description != "Equipment setting" {
			t.Errorf("Description = %q, want fallback column value", sec.Items[0].Description)
		}
	})

	t.Run("malformed cells contribute zero", func(t *testing.T) {
		var warns []string
		data := testhelpers.NewWorkbook(t, "Base Bid").
			SetRow("Base Bid", 37, map[string]any{"C": "Valves", "P": "see note", "H": 450.0}).
			Bytes()

		sec := extractSection(openSheet(t, data, "Base Bid", &warns), def)
		if len(sec.Items) != 1 {
			t.Fatalf("got %d items, want 1", len(sec.Items))
		}
		if sec.Items[0].Cost != 450 {
			t.Errorf("Cost = %v, want 450 (garbage labor cell coerces to 0)", sec.Items[0].Cost)
		}
		if len(warns) == 0 {
			t.Error("expected a coercion warning for the garbage cell")
		}
	})
}

// Section totals must always equal the sum of the retained line items,
// reconstructed here independently of the accumulator.
func TestSectionTotalsMatchItems(t *testing.T) {
	def := sectionByName(t, "Sheet Metal")
	data := testhelpers.NewWorkbook(t, "Base Bid").
		SetRow("Base Bid", 20, map[string]any{"C": "Ductwork low pressure", "P": 1200.0, "H": 2400.0, "R": 1320.0, "J": 2640.0, "O": 80.0}).
		SetRow("Base Bid", 21, map[string]any{"C": "Ductwork medium pressure", "P": 900.0, "H": 1500.0, "R": 990.0, "J": 1650.0, "O": 60.0}).
		SetRow("Base Bid", 22, map[string]any{"C": "Louvers", "K": 4000.0}).
		SetRow("Base Bid", 23, map[string]any{"C": "No value row"}).
		Bytes()

	sec := extractSection(openSheet(t, data, "Base Bid", nil), def)
	if len(sec.Items) != 3 {
		t.Fatalf("got %d items, want 3", len(sec.Items))
	}

	var hours, labor, material, sub, sell float64
	for _, item := range sec.Items {
		hours += item.Hours
		labor += item.LaborCost
		material += item.MaterialCost
		sub += item.LumpSum
		sell += item.Sell
	}

	if math.Abs(sec.Totals.Hours-hours) > 0.001 {
		t.Errorf("Totals.Hours = %v, want %v", sec.Totals.Hours, hours)
	}
	if math.Abs(sec.Totals.LaborCost-labor) > 0.001 {
		t.Errorf("Totals.LaborCost = %v, want %v", sec.Totals.LaborCost, labor)
	}
	if math.Abs(sec.Totals.MaterialCost-material) > 0.001 {
		t.Errorf("Totals.MaterialCost = %v, want %v", sec.Totals.MaterialCost, material)
	}
	if math.Abs(sec.Totals.SubcontractCost-sub) > 0.001 {
		t.Errorf("Totals.SubcontractCost = %v, want %v", sec.Totals.SubcontractCost, sub)
	}
	if math.Abs(sec.Totals.Sell-sell) > 0.001 {
		t.Errorf("Totals.Sell = %v, want %v", sec.Totals.Sell, sell)
	}
}
