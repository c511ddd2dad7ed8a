package reserve

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"larder"
	"larder/ingredient"
)

// Claimer performs the durable claim mutations that link inventory and
// shopping-list records to a meal. It writes through the stores that own
// those records; the in-memory slices passed in are updated in place so a
// multi-line pass sees its own earlier claims.
type Claimer struct {
	inventory larder.InventoryStore
	list      larder.ShoppingListStore
}

func NewClaimer(inventory larder.InventoryStore, list larder.ShoppingListStore) *Claimer {
	return &Claimer{inventory: inventory, list: list}
}

// ClaimInventory earmarks pantry items for a meal, one ingredient line at a
// time. Matches are consumed in pantry order up to the line's quantity
// (lines without one claim a single item), skipping items the ledger shows
// fully reserved. Items already tagged with this meal count toward the need
// but are never re-claimed, so replaying a claim is a no-op. The ledger is
// not updated here: callers must pass one built without the claiming meal
// and rebuild it before the next pass, or risk over-claiming.
//
// Claiming less than the line needs is not an error; it is logged and the
// shortfall is left to the shopping list. Store failures abort the pass and
// return the ids claimed so far.
func (c *Claimer) ClaimInventory(ctx context.Context, userID, mealID string, lines []string, items []larder.InventoryItem, ledger Ledger) ([]string, error) {
	var claimed []string

	for _, line := range lines {
		parsed := ingredient.Parse(line)
		if parsed.Name == "" {
			continue
		}
		need := 1.0
		if parsed.Quantity != nil {
			need = *parsed.Quantity
		}
		remaining := need

		for i := range items {
			if remaining <= 0 {
				break
			}
			item := &items[i]
			if !ingredient.Matches(parsed.Name, item.Name) {
				continue
			}
			free := float64(item.Qty()) - ledger.Reserved(item.Name)
			if free <= 0 {
				continue
			}
			if item.UsedBy(mealID) {
				// Already ours from an earlier pass; it satisfies the need
				// but is never re-claimed or re-returned.
				remaining -= math.Min(free, remaining)
				continue
			}
			updated := append(append([]string(nil), item.UsedByMeals...), mealID)
			if err := c.inventory.SetUsedByMeals(ctx, userID, item.ID, updated); err != nil {
				return claimed, fmt.Errorf("failed to persist claim on item %s: %w", item.ID, err)
			}
			item.UsedByMeals = updated
			claimed = append(claimed, item.ID)
			remaining -= math.Min(free, remaining)
		}

		if remaining > 0 {
			slog.Warn("CLAIM: Inventory short for ingredient",
				"meal_id", mealID,
				"ingredient", parsed.Name,
				"needed", need,
				"unfilled", remaining,
			)
		}
	}
	return claimed, nil
}

// ClaimShoppingList links open shopping-list items to a meal: for each
// ingredient line the first matching item that is not crossed off and not
// claimed by a different meal gets this meal's id. A line whose first match
// already belongs to this meal is already satisfied and contributes nothing
// new, which keeps the call idempotent.
func (c *Claimer) ClaimShoppingList(ctx context.Context, userID, mealID string, lines []string, items []larder.ShoppingListItem) ([]string, error) {
	var claimed []string

	for _, line := range lines {
		parsed := ingredient.Parse(line)
		if parsed.Name == "" {
			continue
		}

		for i := range items {
			item := &items[i]
			if item.CrossedOff {
				continue
			}
			if item.MealID != "" && item.MealID != mealID {
				continue
			}
			if !ingredient.Matches(parsed.Name, item.Name) {
				continue
			}
			if item.MealID == mealID {
				break
			}
			if err := c.list.SetMealID(ctx, userID, item.ID, mealID); err != nil {
				return claimed, fmt.Errorf("failed to persist claim on list item %s: %w", item.ID, err)
			}
			item.MealID = mealID
			claimed = append(claimed, item.ID)
			break
		}
	}
	return claimed, nil
}
