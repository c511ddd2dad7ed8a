// Package replan implements the recovery workflow for schedule disruptions:
// flag the affected meals skipped, reassess stock and waste risk over the
// updated plan, ask a suggestion service for replacements, and merge the
// accepted proposals into the plan.
package replan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"larder"
	"larder/reserve"

	"github.com/google/uuid"
)

// The workflow moves strictly forward through these phases. Skip flags
// applied in the disrupted phase are terminal: a later failure never rolls
// a meal back to unskipped.
const (
	PhaseIdle      = "idle"
	PhaseDisrupted = "disrupted"
	PhaseResolving = "resolving"
	PhaseSuggested = "suggested"
	PhaseMerged    = "merged"
)

const (
	defaultWasteWindowDays = 3
	defaultScheduleDays    = 7
	defaultMaxSuggestions  = 3
)

type Options struct {
	// WasteWindowDays is how far ahead an unclaimed item may be dated and
	// still count as waste risk.
	WasteWindowDays int
	// ScheduleDays is how many days of eating schedule, starting at the
	// event date, are handed to the suggestion service.
	ScheduleDays int
	// MaxSuggestions caps how many replacement meals one replan may add.
	MaxSuggestions int
}

// Engine runs the replanning workflow against the inventory, shopping-list,
// schedule, and suggestion collaborators. It mutates nothing directly; the
// updated plan comes back in the ReplanResult for the caller to persist.
type Engine struct {
	inventory larder.InventoryStore
	list      larder.ShoppingListStore
	schedule  larder.ScheduleProvider
	suggester larder.SuggestionService
	logger    larder.PhaseLogger
	opts      Options
}

func NewEngine(inventory larder.InventoryStore, list larder.ShoppingListStore, schedule larder.ScheduleProvider, suggester larder.SuggestionService, logger larder.PhaseLogger, opts Options) *Engine {
	if opts.WasteWindowDays == 0 {
		opts.WasteWindowDays = defaultWasteWindowDays
	}
	if opts.ScheduleDays == 0 {
		opts.ScheduleDays = defaultScheduleDays
	}
	if opts.MaxSuggestions == 0 {
		opts.MaxSuggestions = defaultMaxSuggestions
	}
	return &Engine{
		inventory: inventory,
		list:      list,
		schedule:  schedule,
		suggester: suggester,
		logger:    logger,
		opts:      opts,
	}
}

// Replan reacts to one disruption event. Collaborator failures propagate;
// when they happen after the disrupted phase the returned result still
// carries the skip-flagged plan, so callers can persist the skips (they are
// never rolled back).
func (e *Engine) Replan(ctx context.Context, req larder.ReplanRequest) (*larder.ReplanResult, error) {
	eventDate, err := larder.ParseDate(req.Event.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid event date %q: %w", req.Event.Date, err)
	}

	slog.Info("REPLANNER: Disruption received",
		"user_id", req.UserID,
		"event_date", req.Event.Date,
		"meal_types", req.Event.MealTypes,
		"reason", req.Event.Reason,
	)
	e.logPhase(larder.PhaseLog{Phase: PhaseDisrupted, Timestamp: time.Now(), Event: req.Event})

	// Disrupted: flag affected meals. Meals already skipped stay as they
	// are and are not reported again.
	meals := append([]larder.PlannedMeal(nil), req.Meals...)
	var skippedIDs []string
	var skipped []larder.PlannedMeal
	for i := range meals {
		m := &meals[i]
		if m.Skipped || !req.Event.Covers(m.Date, m.MealType) {
			continue
		}
		m.Skipped = true
		skippedIDs = append(skippedIDs, m.ID)
		skipped = append(skipped, *m)
	}
	slog.Info("REPLANNER: Flagged disrupted meals", "skipped", len(skippedIDs))

	result := &larder.ReplanResult{Meals: meals, SkippedMealIDs: skippedIDs}
	if len(skippedIDs) == 0 {
		// Nothing was planned in the disrupted slots, so there is nothing
		// to replace.
		slog.Info("REPLANNER: No planned meals affected; nothing to replace")
		return result, nil
	}

	// Resolving: reassess stock and waste risk over the updated plan.
	items, err := e.inventory.List(ctx, req.UserID)
	if err != nil {
		return result, fmt.Errorf("failed to list inventory: %w", err)
	}
	listItems, err := e.list.List(ctx, req.UserID, req.ListID)
	if err != nil {
		return result, fmt.Errorf("failed to list shopping list: %w", err)
	}

	ledger := reserve.BuildLedger(meals, items)
	risk := WasteRisk(meals, items, e.opts.WasteWindowDays, eventDate)
	result.WasteRisk = risk

	snapshot := make([]larder.StockSnapshot, 0, len(items))
	var leftovers []larder.InventoryItem
	for _, item := range items {
		if item.Category == larder.CategoryLeftovers {
			leftovers = append(leftovers, item)
			continue
		}
		if reserve.OnOpenList(item, listItems) {
			continue
		}
		free := float64(item.Qty()) - ledger.Reserved(item.Name)
		if free < 0 {
			free = 0
		}
		snapshot = append(snapshot, larder.StockSnapshot{Item: item, Unreserved: free})
	}

	schedule := make([]larder.DaySchedule, 0, e.opts.ScheduleDays)
	for d := 0; d < e.opts.ScheduleDays; d++ {
		date := eventDate.AddDate(0, 0, d).Format(larder.DateLayout)
		day, err := e.schedule.EffectiveSchedule(ctx, req.UserID, date)
		if err != nil {
			return result, fmt.Errorf("failed to resolve schedule for %s: %w", date, err)
		}
		schedule = append(schedule, day)
	}

	e.logPhase(larder.PhaseLog{
		Phase:        PhaseResolving,
		Timestamp:    time.Now(),
		SkippedMeals: skippedIDs,
		WasteRisk:    len(risk),
	})
	slog.Info("REPLANNER: Reassessed plan",
		"waste_risk", len(risk),
		"unreserved_items", len(snapshot),
		"leftovers", len(leftovers),
	)

	// Suggested: ask the suggestion service for replacements. A failure
	// here is fatal to the attempt; the skips above stay applied.
	sreq := larder.SuggestionRequest{
		Event:        req.Event,
		Preferences:  req.Preferences,
		Schedule:     schedule,
		Inventory:    snapshot,
		Leftovers:    leftovers,
		SkippedMeals: skipped,
		WasteRisk:    risk,
		MaxResults:   e.opts.MaxSuggestions,
	}
	suggestions, err := e.suggester.Suggest(ctx, sreq)
	if err != nil {
		e.logPhase(larder.PhaseLog{Phase: PhaseSuggested, Timestamp: time.Now(), Error: err.Error()})
		return result, fmt.Errorf("failed to get suggestions: %w", err)
	}
	result.Suggestions = suggestions
	e.logPhase(larder.PhaseLog{Phase: PhaseSuggested, Timestamp: time.Now(), Suggestions: suggestions})
	slog.Info("REPLANNER: Received suggestions", "count", len(suggestions))

	// Merged: materialize a planned meal per suggestion and append to the
	// plan, never replacing what is there. New meals start unconfirmed,
	// unskipped, and dishless; their ingredients ride on the meal itself.
	newMeals := make([]larder.PlannedMeal, 0, len(suggestions))
	newIDs := make([]string, 0, len(suggestions))
	for _, sug := range suggestions {
		if !sug.IsValid() {
			slog.Warn("REPLANNER: Dropping invalid suggestion", "name", sug.Name, "date", sug.Date, "meal_type", sug.MealType)
			continue
		}
		meal := larder.PlannedMeal{
			ID:          uuid.NewString(),
			Date:        sug.Date,
			MealType:    sug.MealType,
			Name:        sug.Name,
			Ingredients: sug.Ingredients,
		}
		start, err := e.startCookingAt(ctx, req, schedule, sug)
		if err != nil {
			return result, err
		}
		meal.StartCookingAt = start
		newMeals = append(newMeals, meal)
		newIDs = append(newIDs, meal.ID)
	}

	result.Meals = append(result.Meals, newMeals...)
	result.NewMeals = newMeals

	e.logPhase(larder.PhaseLog{Phase: PhaseMerged, Timestamp: time.Now(), NewMeals: newIDs})
	slog.Info("REPLANNER: Replan complete", "skipped", len(skippedIDs), "new_meals", len(newMeals))
	return result, nil
}

// startCookingAt derives when cooking must begin for a new meal: the
// scheduled finish-by time for its slot minus the user's configured
// duration for that meal type. Nil when that day's schedule has no slot
// for the type.
func (e *Engine) startCookingAt(ctx context.Context, req larder.ReplanRequest, fetched []larder.DaySchedule, sug larder.MealSuggestion) (*time.Time, error) {
	day, ok := findDay(fetched, sug.Date)
	if !ok {
		var err error
		day, err = e.schedule.EffectiveSchedule(ctx, req.UserID, sug.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve schedule for %s: %w", sug.Date, err)
		}
	}
	finishBy, ok := day.FinishByFor(sug.MealType)
	if !ok {
		return nil, nil
	}
	start := finishBy.Add(-req.Preferences.DurationFor(sug.MealType))
	return &start, nil
}

func findDay(schedule []larder.DaySchedule, date string) (larder.DaySchedule, bool) {
	for _, d := range schedule {
		if d.Date == date {
			return d, true
		}
	}
	return larder.DaySchedule{}, false
}

// logPhase records a phase transition, logging failures without breaking
// the workflow.
func (e *Engine) logPhase(phase larder.PhaseLog) {
	if e.logger == nil {
		return
	}
	if err := e.logger.LogPhase(phase); err != nil {
		slog.Error("Failed to log replan phase", "error", err, "phase", phase.Phase)
	}
}
