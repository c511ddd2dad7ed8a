package replan

import (
	"context"
	"log/slog"
	"time"

	"larder"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedReplanner wraps a Replanner with tracing and observability
// metrics. The engine's outcome carries everything worth measuring, so this
// decorates rather than forking the workflow.
type InstrumentedReplanner struct {
	inner  larder.Replanner
	tracer trace.Tracer
	meter  metric.Meter
}

// NewInstrumentedReplanner initializes a new instrumented replanner.
func NewInstrumentedReplanner(inner larder.Replanner, tracer trace.Tracer, meter metric.Meter) *InstrumentedReplanner {
	return &InstrumentedReplanner{
		inner:  inner,
		tracer: tracer,
		meter:  meter,
	}
}

// Replan runs the wrapped replanner with full instrumentation.
func (r *InstrumentedReplanner) Replan(ctx context.Context, req larder.ReplanRequest) (*larder.ReplanResult, error) {
	ctx, span := r.tracer.Start(ctx, "InstrumentedReplanner.Replan")
	defer span.End()

	slog.Info("REPLANNER: Starting instrumented run", "event_date", req.Event.Date)

	// Initialize all metrics
	runsCounter, _ := r.meter.Int64Counter("replan_runs_total",
		metric.WithDescription("Total number of replan runs started"))
	runsCompletedCounter, _ := r.meter.Int64Counter("replan_runs_completed_total",
		metric.WithDescription("Total number of replan runs completed successfully"))
	runsFailedCounter, _ := r.meter.Int64Counter("replan_runs_failed_total",
		metric.WithDescription("Total number of replan runs that failed"))
	mealsSkippedCounter, _ := r.meter.Int64Counter("replan_meals_skipped_total",
		metric.WithDescription("Total number of meals flagged skipped across replan runs"))
	mealsAddedCounter, _ := r.meter.Int64Counter("replan_meals_added_total",
		metric.WithDescription("Total number of replacement meals merged across replan runs"))

	// Gauges
	planSizeGauge, _ := r.meter.Int64Gauge("plan_size_meals",
		metric.WithDescription("Number of meals in the plan after the latest replan"))
	wasteRiskGauge, _ := r.meter.Int64Gauge("waste_risk_items_count",
		metric.WithDescription("Number of waste-risk items found by the latest replan"))
	suggestionsGauge, _ := r.meter.Int64Gauge("suggestions_returned_count",
		metric.WithDescription("Number of suggestions returned by the latest replan"))

	// Histograms
	replanDurationHist, _ := r.meter.Float64Histogram("replan_duration_seconds",
		metric.WithDescription("Total duration of replan runs in seconds"))

	runsCounter.Add(ctx, 1)

	span.SetAttributes(
		attribute.String("event_date", req.Event.Date),
		attribute.Int("event_meal_types_count", len(req.Event.MealTypes)),
		attribute.Int("plan_meals_count", len(req.Meals)),
	)

	start := time.Now()
	result, err := r.inner.Replan(ctx, req)
	replanDurationHist.Record(ctx, time.Since(start).Seconds())

	if err != nil {
		runsFailedCounter.Add(ctx, 1)
		span.SetStatus(codes.Error, "Replan failed")
		span.RecordError(err)
		return result, err
	}

	runsCompletedCounter.Add(ctx, 1)
	mealsSkippedCounter.Add(ctx, int64(len(result.SkippedMealIDs)))
	mealsAddedCounter.Add(ctx, int64(len(result.NewMeals)))
	planSizeGauge.Record(ctx, int64(len(result.Meals)))
	wasteRiskGauge.Record(ctx, int64(len(result.WasteRisk)))
	suggestionsGauge.Record(ctx, int64(len(result.Suggestions)))

	span.AddEvent("Replan completed", trace.WithAttributes(
		attribute.Int("skipped_meals_count", len(result.SkippedMealIDs)),
		attribute.Int("new_meals_count", len(result.NewMeals)),
		attribute.Int("waste_risk_count", len(result.WasteRisk)),
	))

	slog.Info("REPLANNER: Instrumented run complete",
		"skipped", len(result.SkippedMealIDs),
		"new_meals", len(result.NewMeals),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
