package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joeshaw/envdecode"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"larder"
	"larder/replan"
	"larder/slack"
	"larder/storage"
	"larder/suggest/bedrock"
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

	brc, err := newBedrockRuntimeClient(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to create Bedrock client", "error", err)
		return
	}

	suggester := bedrock.NewSuggester(brc, bedrock.Options{
		ModelID:     modelConfig.ModelID,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
		TopP:        modelConfig.TopP,
	})

	tracerProvider, meterProvider, otelShutdown, err := larder.InitOtel(ctx)
	if err != nil {
		slog.Error("SETUP: Failed to initialize OpenTelemetry", "error", err)
		return
	}
	defer func() {
		if err := otelShutdown(ctx); err != nil {
			slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	tracer := tracerProvider.Tracer(larder.TracerNameReplanner)
	meter := meterProvider.Meter(larder.TracerNameReplanner)

	ctx, span := tracer.Start(ctx, larder.TracerNameReplanner, trace.WithAttributes(
		attribute.String("model.id", modelConfig.ModelID),
		attribute.Int("model.max_tokens", int(modelConfig.MaxTokens)),
		attribute.Float64("model.temperature", float64(modelConfig.Temperature)),
		attribute.Float64("model.top_p", float64(modelConfig.TopP)),
	))
	defer span.End()

	engine := replan.NewEngine(inventory, list, schedule, suggester, logger, replan.Options{
		WasteWindowDays: plannerConfig.WasteWindowDays,
		ScheduleDays:    plannerConfig.ScheduleDays,
		MaxSuggestions:  plannerConfig.MaxSuggestions,
	})

	result, err := replan.NewInstrumentedReplanner(engine, tracer, meter).Replan(ctx, larder.ReplanRequest{
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

	testServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := new(bytes.Buffer)
		body.ReadFrom(r.Body) // nolint: errcheck
		slog.Info("FINAL: Received request",
			"method", r.Method,
			"path", r.URL.Path,
			"header", r.Header,
			"body", body.String(),
		)
		w.WriteHeader(http.StatusOK)
	}))
	defer testServer.Close()

	slackClient := slack.NewClient(testServer.URL, http.DefaultClient)
	if err := slackClient.PostMessage(ctx, "#general", slack.Summarize(event, result)); err != nil {
		slog.Error("Failed to post result to Slack", "error", err)
	}
}

func newBedrockRuntimeClient(ctx context.Context) (*bedrockruntime.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
	if err != nil {
		return nil, err
	}
	return bedrockruntime.NewFromConfig(awsCfg), nil
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
