package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joeshaw/envdecode"

	"larder"
	"larder/replan"
	"larder/storage"
	"larder/suggest/ollama"
)

func main() {
	ctx := context.Background()

	var modelConfig larder.ModelConfig
	if err := envdecode.Decode(&modelConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	var plannerConfig larder.PlannerConfig
	if err := envdecode.Decode(&plannerConfig); err != nil {
		log.Fatalf("SETUP: Failed to decode: %s", err)
	}

	inventory := storage.NewInventoryStore(storage.NewFileState(plannerConfig.ArtifactsInventoryPath))
	list := storage.NewShoppingListStore(storage.NewFileState(plannerConfig.ArtifactsListPath))
	plan := storage.NewPlanStore(storage.NewFileState(plannerConfig.ArtifactsPlanPath))
	schedule := storage.NewScheduleBook(storage.NewFileState(plannerConfig.ArtifactsSchedulePath))

	defaultEvent := fmt.Sprintf(`{"date":%q,"meal_types":["dinner"],"reason":"working late"}`, time.Now().Format(larder.DateLayout))
	var event larder.UnplannedEvent
	if err := json.Unmarshal([]byte(argOr(1, defaultEvent)), &event); err != nil {
		slog.Error("SETUP: Failed to parse event argument", "error", err)
		return
	}

	meals, err := plan.Meals(ctx, plannerConfig.UserID)
	if err != nil {
		slog.Error("SETUP: Failed to load meal plan", "error", err)
		return
	}
	slog.Info("SETUP: Meal plan loaded", "meals", len(meals))

	logger, cleanup, err := newPhaseLogger(modelConfig.ModelID)
	if err != nil {
		slog.Error("SETUP: Failed to create phase logger", "error", err)
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("SETUP: Failed to flush phase log", "error", err)
		}
	}()

	suggester, err := ollama.NewSuggester(ollama.SuggesterOpts{
		BaseEndpoint: plannerConfig.BaseOllamaEndpoint,
		ModelID:      modelConfig.ModelID,
		HTTPClient:   http.DefaultClient,
	})
	if err != nil {
		slog.Error("SETUP: Failed to create suggester", "error", err)
		return
	}

	engine := replan.NewEngine(inventory, list, schedule, suggester, logger, replan.Options{
		WasteWindowDays: plannerConfig.WasteWindowDays,
		ScheduleDays:    plannerConfig.ScheduleDays,
		MaxSuggestions:  plannerConfig.MaxSuggestions,
	})

	result, err := engine.Replan(ctx, larder.ReplanRequest{
		UserID: plannerConfig.UserID,
		ListID: plannerConfig.ListID,
		Meals:  meals,
		Event:  event,
		Preferences: larder.Preferences{
			MealDurations: plannerConfig.MealDurations(),
		},
	})
	if err != nil {
		slog.Error("FAILURE: Error handling event", "error", err)
		return
	}

	if err := plan.SaveMeals(ctx, plannerConfig.UserID, result.Meals); err != nil {
		slog.Error("FAILURE: Failed to save updated plan", "error", err)
		return
	}

	slog.Info("RESULT: Replan complete",
		"skipped", len(result.SkippedMealIDs),
		"new_meals", len(result.NewMeals),
		"waste_risk", len(result.WasteRisk),
	)
	larder.Dump(result)
}

func argOr(i int, def string) string {
	if len(os.Args) > i {
		return os.Args[i]
	}
	return def
}

func newPhaseLogger(modelID string) (larder.PhaseLogger, func() error, error) {
	logFilePath := larder.NewPhaseLogFilePath(modelID)
	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, func() error { return err }, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := larder.NewFilePhaseLogger(logFile)
	cleanup := func() error {
		return errors.Join(logger.Flush(), logFile.Close())
	}
	return logger, cleanup, nil
}
