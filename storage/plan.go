package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"larder"
)

// planDoc is the persisted shape of one user's meal plan.
type planDoc struct {
	UserID string               `json:"user_id,omitempty"`
	Meals  []larder.PlannedMeal `json:"meals"`
}

// PlanStore reads and replaces the planned-meal list.
type PlanStore struct {
	state State
}

func NewPlanStore(state State) *PlanStore {
	return &PlanStore{state: state}
}

func (s *PlanStore) Meals(ctx context.Context, userID string) ([]larder.PlannedMeal, error) {
	data, err := s.state.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	var doc planDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	if doc.UserID != "" && doc.UserID != userID {
		return nil, fmt.Errorf("plan belongs to user %s, not %s", doc.UserID, userID)
	}
	return doc.Meals, nil
}

// SaveMeals writes the full plan back, replacing what was there.
func (s *PlanStore) SaveMeals(ctx context.Context, userID string, meals []larder.PlannedMeal) error {
	data, err := json.MarshalIndent(planDoc{UserID: userID, Meals: meals}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	return s.state.Save(ctx, data)
}
