package reserve

import (
	"larder"
	"larder/ingredient"
)

// Status is the four-way availability outcome for one ingredient line.
// Reserved means matching stock exists but every unit of it is already
// claimed by some meal, as opposed to Missing where nothing matched at all.
// UI and claim logic both branch on the distinction.
type Status string

const (
	StatusAvailable Status = "available"
	StatusPartial   Status = "partial"
	StatusReserved  Status = "reserved"
	StatusMissing   Status = "missing"
)

// Resolution reports what one ingredient line can draw from the pantry.
// Needed is nil when the line carries no explicit quantity.
type Resolution struct {
	Status        Status                 `json:"status"`
	MatchingItems []larder.InventoryItem `json:"matching_items,omitempty"`
	Available     float64                `json:"available_quantity"`
	Needed        *float64               `json:"needed_quantity,omitempty"`
}

// Resolve answers "can this ingredient line be cooked from what we have"
// for one line. Pantry items that fuzzy-match an open (non-crossed-off)
// shopping-list entry are treated as not yet in stock and excluded before
// matching. Each match contributes its quantity minus whatever the ledger
// says is already reserved under its name.
func Resolve(line string, pantry []larder.InventoryItem, list []larder.ShoppingListItem, ledger Ledger) Resolution {
	parsed := ingredient.Parse(line)
	res := Resolution{Status: StatusMissing, Needed: parsed.Quantity}
	if parsed.Name == "" {
		return res
	}

	for _, item := range pantry {
		if OnOpenList(item, list) {
			continue
		}
		if !ingredient.Matches(parsed.Name, item.Name) {
			continue
		}
		res.MatchingItems = append(res.MatchingItems, item)
		free := float64(item.Qty()) - ledger.Reserved(item.Name)
		if free > 0 {
			res.Available += free
		}
	}

	if len(res.MatchingItems) == 0 {
		return res
	}

	switch {
	case res.Needed == nil:
		if res.Available > 0 {
			res.Status = StatusAvailable
		} else {
			res.Status = StatusReserved
		}
	case res.Available >= *res.Needed:
		res.Status = StatusAvailable
	case res.Available > 0:
		res.Status = StatusPartial
	default:
		res.Status = StatusReserved
	}
	return res
}

// OnOpenList reports whether a pantry item matches a shopping-list entry
// that has not been crossed off yet. Such items are assumed to be on the
// list because the household is out of them, so they never count as stock.
func OnOpenList(item larder.InventoryItem, list []larder.ShoppingListItem) bool {
	for _, li := range list {
		if li.CrossedOff {
			continue
		}
		if ingredient.Matches(item.Name, li.Name) {
			return true
		}
	}
	return false
}
