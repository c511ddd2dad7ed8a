package mock

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"larder"
	"larder/suggest"
)

// Suggester is a deterministic SuggestionService for local runs and tests.
// It proposes one meal per skipped slot, built from whatever waste-risk
// items and leftovers the request carries, so the replanning flow can be
// exercised without a model. Real models are not this tidy.
type Suggester struct{}

func NewSuggester() *Suggester {
	return &Suggester{}
}

func (s *Suggester) Suggest(ctx context.Context, req larder.SuggestionRequest) ([]larder.MealSuggestion, error) {
	slog.Info("SUGGESTER: Invoked",
		"event_date", req.Event.Date,
		"skipped_meals", len(req.SkippedMeals),
		"waste_risk", len(req.WasteRisk),
	)

	// Ingredients worth rescuing, most urgent first.
	rescue := make([]string, 0, len(req.WasteRisk)+len(req.Leftovers))
	for _, w := range req.WasteRisk {
		rescue = append(rescue, w.Name)
	}
	for _, l := range req.Leftovers {
		rescue = append(rescue, l.Name)
	}

	proposals := make([]larder.MealSuggestion, 0, len(req.SkippedMeals))
	for _, meal := range req.SkippedMeals {
		p := larder.MealSuggestion{
			Name:     fmt.Sprintf("Use-it-up %s", meal.MealType),
			Date:     meal.Date,
			MealType: meal.MealType,
			Reason:   "stands in for the skipped slot",
		}
		if len(rescue) > 0 {
			n := min(3, len(rescue))
			p.Ingredients = append(p.Ingredients, rescue[:n]...)
			p.Reason = fmt.Sprintf("uses %s before they go to waste", strings.Join(rescue[:n], ", "))
		}
		proposals = append(proposals, p)
	}

	return suggest.Accept(req, proposals), nil
}
