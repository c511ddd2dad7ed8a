package replan

import (
	"sort"
	"time"

	"larder"
)

// WasteRisk flags inventory likely to spoil before any remaining meal uses
// it. An item is at risk when it is unclaimed by every non-skipped meal and
// dated within windowDays of today (already-expired items included), or
// when it is claimed but dated strictly before the earliest non-skipped
// meal that claims it. Items without a best-by or thaw date are never at
// risk. DaysUntilBestBy counts whole days from today; negative means the
// date already passed. The result is ordered most urgent first.
func WasteRisk(meals []larder.PlannedMeal, items []larder.InventoryItem, windowDays int, today time.Time) []larder.WasteRiskItem {
	firstUse := firstUseDates(meals, items)
	todayDay := dateOnly(today)

	var risk []larder.WasteRiskItem
	for _, item := range items {
		best := item.EffectiveBestBy()
		if best == nil {
			continue
		}
		bestDay := dateOnly(*best)
		days := int(bestDay.Sub(todayDay).Hours() / 24)

		if use, claimed := firstUse[item.ID]; claimed {
			if bestDay.Before(use) {
				risk = append(risk, larder.WasteRiskItem{InventoryItem: item, DaysUntilBestBy: days})
			}
			continue
		}
		if days <= windowDays {
			risk = append(risk, larder.WasteRiskItem{InventoryItem: item, DaysUntilBestBy: days})
		}
	}

	sort.SliceStable(risk, func(i, j int) bool {
		if risk[i].DaysUntilBestBy != risk[j].DaysUntilBestBy {
			return risk[i].DaysUntilBestBy < risk[j].DaysUntilBestBy
		}
		return risk[i].Name < risk[j].Name
	})
	return risk
}

// firstUseDates maps each claimed item id to the earliest date a non-skipped
// meal cooks it. Claims are read from both directions: the plan's claimed
// item ids and the items' used-by-meals sets, since either side may have
// been written first.
func firstUseDates(meals []larder.PlannedMeal, items []larder.InventoryItem) map[string]time.Time {
	mealDates := make(map[string]time.Time, len(meals))
	firstUse := make(map[string]time.Time)

	record := func(itemID string, date time.Time) {
		if cur, ok := firstUse[itemID]; !ok || date.Before(cur) {
			firstUse[itemID] = date
		}
	}

	for _, m := range meals {
		if m.Skipped {
			continue
		}
		date, err := larder.ParseDate(m.Date)
		if err != nil {
			continue
		}
		mealDates[m.ID] = date
		for _, itemID := range m.AllClaimedItemIDs() {
			record(itemID, date)
		}
	}

	for _, item := range items {
		for _, mealID := range item.UsedByMeals {
			if date, ok := mealDates[mealID]; ok {
				record(item.ID, date)
			}
		}
	}

	return firstUse
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
