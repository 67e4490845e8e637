package products

import (
	"github.com/racedayai/planner/internal/domain/athlete"
	"github.com/racedayai/planner/internal/domain/course"
	"github.com/racedayai/planner/internal/domain/nutrition"
)

// Selection is one resolved slot: the recommended product plus the
// remaining candidates in preference order.
type Selection struct {
	Primary      Product   `json:"primary"`
	Alternatives []Product `json:"alternatives"`
	Overridden   bool      `json:"overridden,omitempty"`
}

// Stack is the complete product recommendation, keyed by slot.
type Stack map[Slot]Selection

// tierPreferences ranks catalog ids per slot for each experience tier.
// Beginners get gut-friendly, widely available picks; advanced athletes
// get the high-carb race stack.
var tierPreferences = map[athlete.ExperienceTier]map[Slot][]string{
	athlete.TierBeginner: {
		SlotPrimaryGel:     {"gel-sis-isotonic", "gel-gu-original", "gel-maurten-100"},
		SlotCaffeinatedGel: {"caf-gu-roctane", "caf-sis-double"},
		SlotDrinkMix:       {"mix-gatorade-endurance", "mix-skratch-sport", "mix-maurten-320"},
		SlotEarlySolid:     {"solid-banana", "solid-clif-bloks"},
	},
	athlete.TierIntermediate: {
		SlotPrimaryGel:     {"gel-maurten-100", "gel-sis-isotonic", "gel-gu-original"},
		SlotCaffeinatedGel: {"caf-sis-double", "caf-gu-roctane", "caf-maurten-100"},
		SlotDrinkMix:       {"mix-skratch-sport", "mix-maurten-320", "mix-gatorade-endurance"},
		SlotEarlySolid:     {"solid-clif-bloks", "solid-banana", "solid-maurten-solid"},
	},
	athlete.TierAdvanced: {
		SlotPrimaryGel:     {"gel-precision-30", "gel-maurten-100", "gel-sis-isotonic"},
		SlotCaffeinatedGel: {"caf-maurten-100", "caf-gu-roctane", "caf-sis-double"},
		SlotDrinkMix:       {"mix-maurten-320", "mix-precision-1500", "mix-skratch-sport"},
		SlotEarlySolid:     {"solid-maurten-solid", "solid-clif-bloks"},
	},
}

// Select maps fueling targets onto concrete products, one selection per
// slot. Overrides are honored per slot before the tier defaults; an
// unknown or wrong-slot override id falls back to the computed default.
// The early-solid slot is only populated for half and full distances.
func Select(rates nutrition.Rates, cat course.Category, hot bool, tier athlete.ExperienceTier, overrides map[Slot]string) Stack {
	prefs, ok := tierPreferences[tier]
	if !ok {
		prefs = tierPreferences[athlete.TierIntermediate]
	}

	stack := make(Stack, len(Slots()))
	for _, slot := range Slots() {
		if slot == SlotEarlySolid && cat != course.CategoryHalf && cat != course.CategoryFull {
			continue
		}
		ranked := rank(slot, prefs[slot], hot, rates)
		if len(ranked) == 0 {
			continue
		}
		stack[slot] = applyOverride(slot, ranked, overrides)
	}
	return stack
}

// rank resolves the preference ids against the catalog and re-ranks for
// conditions: in the heat, electrolyte-heavy mixes move to the front; at
// 90g/h targets the high-carb mix leads regardless of tier.
func rank(slot Slot, ids []string, hot bool, rates nutrition.Rates) []Product {
	ranked := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := Lookup(id); ok && p.Slot == slot {
			ranked = append(ranked, p)
		}
	}
	// Catalog entries missing from the tier table still show up as
	// trailing alternatives.
	for _, p := range bySlot(slot) {
		if !containsID(ranked, p.ID) {
			ranked = append(ranked, p)
		}
	}

	if slot == SlotDrinkMix {
		switch {
		case hot:
			ranked = promote(ranked, func(p Product) bool { return p.HeatSuited })
		case rates.CarbsGPerHour >= 90:
			ranked = promote(ranked, func(p Product) bool { return p.CarbsG >= 70 })
		}
	}
	return ranked
}

// applyOverride swaps the primary for a user-chosen product when the id
// is valid for the slot, keeping the computed order as alternatives.
func applyOverride(slot Slot, ranked []Product, overrides map[Slot]string) Selection {
	if id, ok := overrides[slot]; ok {
		if p, found := Lookup(id); found && p.Slot == slot {
			alts := make([]Product, 0, len(ranked))
			for _, r := range ranked {
				if r.ID != p.ID {
					alts = append(alts, r)
				}
			}
			return Selection{Primary: p, Alternatives: alts, Overridden: true}
		}
	}
	return Selection{Primary: ranked[0], Alternatives: ranked[1:]}
}

// promote stable-partitions matching products to the front.
func promote(in []Product, match func(Product) bool) []Product {
	out := make([]Product, 0, len(in))
	for _, p := range in {
		if match(p) {
			out = append(out, p)
		}
	}
	for _, p := range in {
		if !match(p) {
			out = append(out, p)
		}
	}
	return out
}

func containsID(in []Product, id string) bool {
	for _, p := range in {
		if p.ID == id {
			return true
		}
	}
	return false
}
