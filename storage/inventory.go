package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"larder"
)

// inventoryDoc is the persisted shape of one user's pantry.
type inventoryDoc struct {
	UserID string                 `json:"user_id,omitempty"`
	Items  []larder.InventoryItem `json:"items"`
}

// InventoryStore reads and mutates pantry items inside a single-user
// inventory document. It implements larder.InventoryStore.
type InventoryStore struct {
	state State
}

func NewInventoryStore(state State) *InventoryStore {
	return &InventoryStore{state: state}
}

func (s *InventoryStore) List(ctx context.Context, userID string) ([]larder.InventoryItem, error) {
	doc, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return doc.Items, nil
}

// SetUsedByMeals replaces the claim set on one item and writes the document
// back. The whole document is rewritten; concurrent writers race at the
// blob level.
func (s *InventoryStore) SetUsedByMeals(ctx context.Context, userID, itemID string, mealIDs []string) error {
	doc, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	found := false
	for i := range doc.Items {
		if doc.Items[i].ID == itemID {
			doc.Items[i].UsedByMeals = mealIDs
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("inventory item %s not found", itemID)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}
	return s.state.Save(ctx, data)
}

func (s *InventoryStore) load(ctx context.Context, userID string) (*inventoryDoc, error) {
	data, err := s.state.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	var doc inventoryDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal inventory: %w", err)
	}
	// Artifacts written before multi-user support carry no user id.
	if doc.UserID != "" && doc.UserID != userID {
		return nil, fmt.Errorf("inventory belongs to user %s, not %s", doc.UserID, userID)
	}
	return &doc, nil
}
