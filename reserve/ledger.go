// Package reserve tracks which pantry stock is already spoken for by
// planned meals and performs the claim mutations that make those
// reservations durable.
package reserve

import (
	"math"
	"sort"

	"larder"
	"larder/ingredient"
)

// Ledger maps a normalized item name to the quantity already committed to
// planned meals. It is request-scoped: build it, use it, throw it away.
// Never cache one across unrelated calls; rebuild whenever the plan or the
// pantry changes.
type Ledger map[string]float64

// Reserved returns the quantity committed under an item's name.
func (l Ledger) Reserved(name string) float64 {
	return l[ingredient.Normalize(name)]
}

// BuildLedger folds every non-skipped planned meal's quantified ingredient
// lines into a reservation map. Each line's need is allocated greedily
// against matching pantry items in pantry order, capping every item's
// contribution at its remaining unreserved quantity so no item is ever
// over-reserved. Lines without an explicit quantity never consume stock.
//
// Allocation is first-declared, first-served: meals are visited by date,
// then breakfast/lunch/dinner, then id, so earlier meals win scarce stock
// and two builds from the same inputs always agree.
func BuildLedger(meals []larder.PlannedMeal, items []larder.InventoryItem) Ledger {
	ordered := make([]larder.PlannedMeal, len(meals))
	copy(ordered, meals)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Date != ordered[j].Date {
			return ordered[i].Date < ordered[j].Date
		}
		if ordered[i].MealType.Rank() != ordered[j].MealType.Rank() {
			return ordered[i].MealType.Rank() < ordered[j].MealType.Rank()
		}
		return ordered[i].ID < ordered[j].ID
	})

	ledger := make(Ledger)
	takenByItem := make(map[string]float64, len(items))

	for _, meal := range ordered {
		if meal.Skipped {
			continue
		}
		for _, line := range meal.IngredientLines() {
			parsed := ingredient.Parse(line)
			if parsed.Quantity == nil {
				continue
			}
			need := *parsed.Quantity
			for i := range items {
				if need <= 0 {
					break
				}
				item := items[i]
				if !ingredient.Matches(parsed.Name, item.Name) {
					continue
				}
				free := float64(item.Qty()) - takenByItem[item.ID]
				if free <= 0 {
					continue
				}
				take := math.Min(need, free)
				takenByItem[item.ID] += take
				ledger[ingredient.Normalize(item.Name)] += take
				need -= take
			}
		}
	}
	return ledger
}
