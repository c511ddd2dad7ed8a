package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joeshaw/envdecode"

	"larder"
	"larder/replan"
	"larder/storage"
	"larder/suggest/bedrock"
)

type Params struct {
	UserID string                `json:"user_id"`
	ListID string                `json:"list_id"`
	Event  larder.UnplannedEvent `json:"event"`
}

type Results struct {
	Output *larder.ReplanResult `json:"output"`
}

func main() {
	fn := func(ctx context.Context, params Params) (Results, error) {
		var modelConfig larder.ModelConfig
		if err := envdecode.Decode(&modelConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		var plannerConfig larder.PlannerConfig
		if err := envdecode.Decode(&plannerConfig); err != nil {
			log.Fatalf("Failed to decode: %s", err)
		}

		// S3 config from env
		s3Bucket := os.Getenv("ARTIFACTS_S3_BUCKET")
		inventoryKey := os.Getenv("ARTIFACTS_INVENTORY_S3_KEY")
		listKey := os.Getenv("ARTIFACTS_LIST_S3_KEY")
		planKey := os.Getenv("ARTIFACTS_PLAN_S3_KEY")
		scheduleKey := os.Getenv("ARTIFACTS_SCHEDULE_S3_KEY")
		if s3Bucket == "" || inventoryKey == "" || listKey == "" || planKey == "" || scheduleKey == "" {
			return Results{}, fmt.Errorf("missing S3 config: ARTIFACTS_S3_BUCKET, ARTIFACTS_INVENTORY_S3_KEY, ARTIFACTS_LIST_S3_KEY, ARTIFACTS_PLAN_S3_KEY, ARTIFACTS_SCHEDULE_S3_KEY must be set")
		}

		awsCfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return Results{}, fmt.Errorf("failed to load AWS config: %w", err)
		}
		s3Client := s3.NewFromConfig(awsCfg)

		inventory := storage.NewInventoryStore(storage.NewS3State(s3Client, s3Bucket, inventoryKey))
		list := storage.NewShoppingListStore(storage.NewS3State(s3Client, s3Bucket, listKey))
		plan := storage.NewPlanStore(storage.NewS3State(s3Client, s3Bucket, planKey))
		schedule := storage.NewScheduleBook(storage.NewS3State(s3Client, s3Bucket, scheduleKey))
		slog.Info("SETUP: S3 state initialized", "bucket", s3Bucket)

		meals, err := plan.Meals(ctx, params.UserID)
		if err != nil {
			slog.Error("SETUP: Failed to load meal plan from S3", "error", err)
			return Results{}, err
		}
		slog.Info("SETUP: Meal plan loaded from S3", "meals", len(meals))

		phaseLogger := larder.NewStdoutPhaseLogger()

		brc, err := newBedrockRuntimeClient(ctx)
		if err != nil {
			slog.Error("SETUP: Failed to create Bedrock client", "error", err)
			return Results{}, err
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
			return Results{}, err
		}
		defer func() {
			if err := otelShutdown(ctx); err != nil {
				slog.Error("SETUP: Failed to shutdown OpenTelemetry", "error", err)
			}
		}()

		engine := replan.NewEngine(inventory, list, schedule, suggester, phaseLogger, replan.Options{
			WasteWindowDays: plannerConfig.WasteWindowDays,
			ScheduleDays:    plannerConfig.ScheduleDays,
			MaxSuggestions:  plannerConfig.MaxSuggestions,
		})
		replanner := replan.NewInstrumentedReplanner(
			engine,
			tracerProvider.Tracer(larder.TracerNameReplanner),
			meterProvider.Meter(larder.TracerNameReplanner),
		)

		result, err := replanner.Replan(ctx, larder.ReplanRequest{
			UserID: params.UserID,
			ListID: params.ListID,
			Meals:  meals,
			Event:  params.Event,
			Preferences: larder.Preferences{
				MealDurations: plannerConfig.MealDurations(),
			},
		})
		if err != nil {
			slog.Error("RESULT: Error handling event", "error", err)
			return Results{}, err
		}

		if err := plan.SaveMeals(ctx, params.UserID, result.Meals); err != nil {
			slog.Error("RESULT: Failed to save updated plan to S3", "error", err)
			return Results{}, err
		}

		return Results{Output: result}, nil
	}

	lambda.Start(fn)
}

func newBedrockRuntimeClient(ctx context.Context) (*bedrockruntime.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRetryMaxAttempts(5))
	if err != nil {
		return nil, err
	}
	return bedrockruntime.NewFromConfig(awsCfg), nil
}
