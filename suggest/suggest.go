// Package suggest holds what the suggestion backends share: the task text
// rendered from a SuggestionRequest, the payload shape models answer with,
// and acceptance of the returned proposals.
package suggest

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"larder"
)

// Payload is the JSON object every backend asks the model to produce.
type Payload struct {
	Suggestions []larder.MealSuggestion `json:"suggestions"`
}

// taskContext is the JSON shape of the task message. It mirrors
// SuggestionRequest but renders durations in a form the model can read.
type taskContext struct {
	Event         larder.UnplannedEvent  `json:"event"`
	Dietary       []string               `json:"dietary,omitempty"`
	Household     int                    `json:"household,omitempty"`
	MealDurations map[string]string      `json:"meal_durations,omitempty"`
	Schedule      []larder.DaySchedule   `json:"schedule,omitempty"`
	Inventory     []larder.StockSnapshot `json:"unreserved_inventory,omitempty"`
	Leftovers     []larder.InventoryItem `json:"leftovers,omitempty"`
	SkippedMeals  []larder.PlannedMeal   `json:"skipped_meals,omitempty"`
	WasteRisk     []larder.WasteRiskItem `json:"waste_risk,omitempty"`
}

// Task renders the replanning situation as the user message for the model.
func Task(req larder.SuggestionRequest) (string, error) {
	tc := taskContext{
		Event:        req.Event,
		Dietary:      req.Preferences.Dietary,
		Household:    req.Preferences.Household,
		Schedule:     req.Schedule,
		Inventory:    req.Inventory,
		Leftovers:    req.Leftovers,
		SkippedMeals: req.SkippedMeals,
		WasteRisk:    req.WasteRisk,
	}
	if len(req.Preferences.MealDurations) > 0 {
		tc.MealDurations = make(map[string]string, len(req.Preferences.MealDurations))
		for t, d := range req.Preferences.MealDurations {
			tc.MealDurations[string(t)] = d.String()
		}
	}

	payload, err := json.MarshalIndent(tc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal task context: %w", err)
	}

	if req.MaxResults > 0 {
		return fmt.Sprintf("Here is the current situation:\n\n%s\n\nPropose up to %d replacement meals.", payload, req.MaxResults), nil
	}
	return fmt.Sprintf("Here is the current situation:\n\n%s\n\nPropose replacement meals.", payload), nil
}

// Accept drops proposals that fail validation and enforces the request cap.
func Accept(req larder.SuggestionRequest, proposals []larder.MealSuggestion) []larder.MealSuggestion {
	accepted := make([]larder.MealSuggestion, 0, len(proposals))
	for _, p := range proposals {
		if !p.IsValid() {
			slog.Warn("SUGGESTER: Dropping invalid proposal", "name", p.Name, "date", p.Date, "meal_type", p.MealType)
			continue
		}
		accepted = append(accepted, p)
	}
	if req.MaxResults > 0 && len(accepted) > req.MaxResults {
		accepted = accepted[:req.MaxResults]
	}

	slog.Info("SUGGESTER: Accepted proposals", "proposed", len(proposals), "accepted", len(accepted))
	return accepted
}
