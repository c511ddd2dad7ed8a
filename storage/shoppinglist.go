package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"larder"
)

// shoppingListDoc is the persisted shape of one user's shopping lists. All
// lists live in the same document; items carry their list id.
type shoppingListDoc struct {
	UserID string                    `json:"user_id,omitempty"`
	Items  []larder.ShoppingListItem `json:"items"`
}

// ShoppingListStore reads and mutates shopping-list items. It implements
// larder.ShoppingListStore.
type ShoppingListStore struct {
	state State
}

func NewShoppingListStore(state State) *ShoppingListStore {
	return &ShoppingListStore{state: state}
}

// List returns the items on one list, or every item when listID is empty.
func (s *ShoppingListStore) List(ctx context.Context, userID, listID string) ([]larder.ShoppingListItem, error) {
	doc, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if listID == "" {
		return doc.Items, nil
	}
	var items []larder.ShoppingListItem
	for _, item := range doc.Items {
		if item.ListID == listID {
			items = append(items, item)
		}
	}
	return items, nil
}

// SetMealID overwrites the claimant on one list item. An empty mealID
// releases the claim.
func (s *ShoppingListStore) SetMealID(ctx context.Context, userID, itemID, mealID string) error {
	doc, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	found := false
	for i := range doc.Items {
		if doc.Items[i].ID == itemID {
			doc.Items[i].MealID = mealID
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("shopping list item %s not found", itemID)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal shopping list: %w", err)
	}
	return s.state.Save(ctx, data)
}

func (s *ShoppingListStore) load(ctx context.Context, userID string) (*shoppingListDoc, error) {
	data, err := s.state.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping list: %w", err)
	}
	var doc shoppingListDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shopping list: %w", err)
	}
	if doc.UserID != "" && doc.UserID != userID {
		return nil, fmt.Errorf("shopping list belongs to user %s, not %s", doc.UserID, userID)
	}
	return &doc, nil
}
