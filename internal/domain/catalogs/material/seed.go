package material

import (
	"github.com/Juman-Kalita/Slab/internal/core/types"
)

// SeedEntry pairs a material with its opening stock for initial load.
type SeedEntry struct {
	Material
	OpeningStock types.Quantity
}

func seed(id, category, name, size, rent, lc, penalty string, grace int, stock int64) SeedEntry {
	return SeedEntry{
		Material: Material{
			ID:              id,
			Category:        category,
			Name:            name,
			Size:            size,
			RentPerDay:      types.MustMoney(rent),
			LoadingCharge:   types.MustMoney(lc),
			LostItemPenalty: types.MustMoney(penalty),
			GracePeriodDays: grace,
		},
		OpeningStock: types.Quantity(stock),
	}
}

// SeedCatalog returns the yard's full material catalog with opening stock.
// Rates are in rupees; fractional rates like 2.83/day come from monthly
// prices divided by 30.
func SeedCatalog() []SeedEntry {
	return []SeedEntry{
		// Plates
		seed("plate-3x2", "Plates", "Plates", "3'x2'", "2", "2", "1200", 30, 7500),
		seed("plate-3x1", "Plates", "Plates", "3'x1'", "1", "1", "800", 30, 956),
		seed("plate-2x1", "Plates", "Plates", "2'x1'", "1", "1", "600", 30, 248),
		seed("change-plate-3x2", "Plates", "New Changed", "3'x2'", "2", "2", "1200", 30, 1461),
		seed("change-plate-3x1", "Plates", "New Changed", "3'x1'", "1", "1", "800", 30, 1),

		// Props
		seed("props-2x2", "Props", "Props", "2mx2m", "2.83", "3", "1440", 30, 2937),
		seed("props-2x2.5", "Props", "Props", "2mx2.5m", "3", "3", "1600", 30, 650),
		seed("props-2x3", "Props", "Props", "2mx3m", "3.33", "3", "1760", 30, 1243),
		seed("props-2x3.5", "Props", "Props", "2mx3.5m", "3.66", "3", "1920", 30, 225),
		seed("props-2x4", "Props", "Props", "2mx4m", "4", "3", "2000", 30, 287),

		// Span
		seed("box-span", "Span", "Box Span", "", "4.16", "3", "2240", 30, 512),
		seed("zig-zag-span", "Span", "Zig-Zag Span", "", "6", "5", "3200", 30, 224),

		// H Frame
		seed("h-frame-with-ladder", "H Frame", "H-Frame", "With Ladder", "5", "5", "2000", 30, 134),
		seed("h-frame-without-ladder", "H Frame", "H-Frame", "Without Ladder", "4", "5", "1760", 30, 190),
		seed("h-frame-1m", "H Frame", "H-Frame", "1m", "3", "4", "0", 30, 20),
		seed("cbp-small", "H Frame", "CBP", "Small", "2", "1", "640", 30, 40),
		seed("planks", "H Frame", "Planks", "", "5", "4", "1600", 30, 365),
		seed("base-wheels", "H Frame", "Base Wheels", "", "2", "1", "0", 30, 33),
		seed("base-jack", "H Frame", "Base Jack", "", "1", "1", "300", 30, 1218),

		// Scaffolding
		seed("vertical-3m", "Scaffolding", "Vertical", "3m", "3", "2", "1120", 30, 637),
		seed("vertical-2.5m", "Scaffolding", "Vertical", "2.5m", "2.5", "2", "933.33", 30, 514),
		seed("vertical-2m", "Scaffolding", "Vertical", "2m", "2", "2", "746.66", 30, 470),
		seed("vertical-1.5m", "Scaffolding", "Vertical", "1.5m", "1.5", "2", "560", 30, 547),
		seed("vertical-1m", "Scaffolding", "Vertical", "1m", "1", "2", "373.33", 30, 307),
		seed("vertical-0.5m", "Scaffolding", "Vertical", "0.5m", "0.5", "2", "186.66", 30, 91),
		seed("ledger-2m", "Scaffolding", "Ledger", "2m", "1.66", "1", "573.33", 30, 71),
		seed("ledger-1.5m", "Scaffolding", "Ledger", "1.5m", "1.25", "1", "429.6", 30, 153),
		seed("ledger-1.2m", "Scaffolding", "Ledger", "1.2m", "1", "1", "344", 30, 4686),
		seed("ledger-1m", "Scaffolding", "Ledger", "1m", "0.83", "1", "286.66", 30, 1034),
		seed("joint-pins", "Scaffolding", "Joint Pins", "", "0.33", "0.5", "80", 30, 1282),
		seed("planks-scaffolding", "Scaffolding", "Planks", "", "5", "4", "1600", 30, 0),
		seed("base-jack-scaffolding", "Scaffolding", "Base Jack", "", "1", "1", "300", 30, 0),
		seed("stirrup-head", "Scaffolding", "Stirrup Head", "", "1", "1", "300", 30, 1201),
		seed("base-wheels-scaffolding", "Scaffolding", "Base Wheels", "", "2", "1", "0", 30, 0),

		// Bracing Pipe
		seed("bracing-pipe-20ft", "Bracing Pipe", "Bracing Pipe", "20'/6m", "5", "4", "0", 30, 154),
		seed("bracing-pipe-10ft", "Bracing Pipe", "Bracing Pipe", "10'/3m", "2.5", "2", "0", 30, 0),
		seed("coupler", "Bracing Pipe", "Coupler", "", "0.33", "0.5", "80", 30, 591),

		// C Channel
		seed("c-channel-3-5m", "C Channel", `C Channel 3"`, "5m", "0", "0", "0", 30, 0),
		seed("c-channel-3-6m", "C Channel", `C Channel 3"`, "6m", "0", "0", "0", 30, 16),
		seed("c-channel-4-3m", "C Channel", `C Channel 4"`, "3m", "0", "0", "0", 30, 0),
		seed("c-channel-4-5m", "C Channel", `C Channel 4"`, "5m", "0", "0", "0", 30, 11),
		seed("c-channel-4-6m", "C Channel", `C Channel 4"`, "6m", "0", "0", "0", 30, 0),

		// I-Section
		seed("i-section-5-3m", "I-Section", `I-Section 5"`, "3m", "0", "0", "0", 30, 25),
		seed("i-section-5-6m", "I-Section", `I-Section 5"`, "6m", "0", "0", "0", 30, 0),

		// Round Column
		seed("round-column-9", "Round Column", "Round Column", `9"`, "0", "4", "0", 30, 0),
		seed("round-column-12", "Round Column", "Round Column", `12"`, "0", "4", "0", 30, 2),
		seed("round-column-18", "Round Column", "Round Column", `18"`, "0", "4", "0", 30, 2),

		// Extra
		seed("tie-rod", "Extra", "Tie Rod", "", "0.83", "1", "0", 30, 0),
		seed("tie-channel-2", "Extra", "Tie Channel", "2'", "1.5", "1", "0", 30, 0),
		seed("tie-channel-4", "Extra", "Tie Channel", "4'", "0", "0", "0", 30, 0),
		seed("anchor-nut", "Extra", "Anchor Nut", "", "0", "0", "0", 30, 0),

		// Concreting
		seed("electric-mixer", "Concreting", "Electric Mixer", "", "0", "0", "0", 30, 3),
		seed("wheel-barrow", "Concreting", "Wheel Barrow", "", "0", "0", "0", 30, 0),
		seed("concreting-tray", "Concreting", "Concreting Tray", "", "0", "0", "0", 30, 1),
		seed("material-lift", "Concreting", "Material Lift", "", "0", "0", "0", 30, 0),
	}
}
