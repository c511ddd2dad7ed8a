package larder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMealSuggestionIsValid(t *testing.T) {
	tests := []struct {
		name       string
		suggestion MealSuggestion
		want       bool
	}{
		{
			name:       "valid suggestion",
			suggestion: MealSuggestion{Name: "Veggie stir fry", Date: "2025-03-14", MealType: MealTypeDinner},
			want:       true,
		},
		{
			name:       "missing name",
			suggestion: MealSuggestion{Date: "2025-03-14", MealType: MealTypeDinner},
			want:       false,
		},
		{
			name:       "unknown meal type",
			suggestion: MealSuggestion{Name: "Veggie stir fry", Date: "2025-03-14", MealType: "brunch"},
			want:       false,
		},
		{
			name:       "malformed date",
			suggestion: MealSuggestion{Name: "Veggie stir fry", Date: "14/03/2025", MealType: MealTypeDinner},
			want:       false,
		},
		{
			name:       "empty date",
			suggestion: MealSuggestion{Name: "Veggie stir fry", MealType: MealTypeDinner},
			want:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.suggestion.IsValid())
		})
	}
}

func TestInventoryItemEffectiveBestBy(t *testing.T) {
	bestBy := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	thaw := time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		item InventoryItem
		want *time.Time
	}{
		{
			name: "best-by only",
			item: InventoryItem{Name: "milk", BestByDate: &bestBy},
			want: &bestBy,
		},
		{
			name: "thaw date wins over best-by",
			item: InventoryItem{Name: "frozen salmon", BestByDate: &bestBy, ThawDate: &thaw},
			want: &thaw,
		},
		{
			name: "neither tracked",
			item: InventoryItem{Name: "salt"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.EffectiveBestBy())
		})
	}
}

func TestInventoryItemUsedBy(t *testing.T) {
	item := InventoryItem{ID: "item-1", Name: "chicken thighs", UsedByMeals: []string{"meal-1", "meal-2"}}

	assert.True(t, item.UsedBy("meal-1"))
	assert.True(t, item.UsedBy("meal-2"))
	assert.False(t, item.UsedBy("meal-3"))
	assert.False(t, InventoryItem{}.UsedBy("meal-1"))
}

func TestInventoryItemQtyDefaults(t *testing.T) {
	assert.Equal(t, 1, InventoryItem{Name: "eggs"}.Qty())
	assert.Equal(t, 12, InventoryItem{Name: "eggs", Quantity: 12}.Qty())
	assert.Equal(t, 1, ShoppingListItem{Name: "eggs"}.Qty())
	assert.Equal(t, 2, ShoppingListItem{Name: "eggs", Quantity: 2}.Qty())
}

func TestPlannedMealIngredientLines(t *testing.T) {
	tests := []struct {
		name string
		meal PlannedMeal
		want []string
	}{
		{
			name: "dish-based meal unions all dish lists",
			meal: PlannedMeal{
				Dishes: []Dish{
					{Name: "roast chicken", RecipeIngredients: []string{"2 lbs chicken thighs", "1 lemon"}},
					{Name: "rice", RecipeIngredients: []string{"2 cups rice"}},
				},
			},
			want: []string{"2 lbs chicken thighs", "1 lemon", "2 cups rice"},
		},
		{
			name: "legacy meal carries its list at the top level",
			meal: PlannedMeal{Ingredients: []string{"1 can tomatoes", "pasta"}},
			want: []string{"1 can tomatoes", "pasta"},
		},
		{
			name: "mixed shape keeps dish lines first",
			meal: PlannedMeal{
				Dishes:      []Dish{{Name: "salad", RecipeIngredients: []string{"lettuce"}}},
				Ingredients: []string{"bread"},
			},
			want: []string{"lettuce", "bread"},
		},
		{
			name: "no ingredients",
			meal: PlannedMeal{Name: "takeout"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.meal.IngredientLines())
		})
	}
}

func TestPlannedMealAllClaimedItemIDs(t *testing.T) {
	meal := PlannedMeal{
		Dishes: []Dish{
			{Name: "roast chicken", ClaimedItemIDs: []string{"item-1", "item-2"}},
			{Name: "rice", ClaimedItemIDs: []string{"item-3"}},
		},
		ClaimedItemIDs: []string{"item-4"},
	}
	assert.Equal(t, []string{"item-1", "item-2", "item-3", "item-4"}, meal.AllClaimedItemIDs())
}

func TestMealTypeRank(t *testing.T) {
	assert.Less(t, MealTypeBreakfast.Rank(), MealTypeLunch.Rank())
	assert.Less(t, MealTypeLunch.Rank(), MealTypeDinner.Rank())
	assert.Greater(t, MealType("snack").Rank(), MealTypeDinner.Rank())
}

func TestUnplannedEventCovers(t *testing.T) {
	event := UnplannedEvent{
		Date:      "2025-03-14",
		MealTypes: []MealType{MealTypeLunch, MealTypeDinner},
		Reason:    "travel",
	}

	assert.True(t, event.Covers("2025-03-14", MealTypeDinner))
	assert.False(t, event.Covers("2025-03-14", MealTypeBreakfast))
	assert.False(t, event.Covers("2025-03-15", MealTypeDinner))
}

func TestDayScheduleFinishByFor(t *testing.T) {
	dinnerAt := time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)
	day := DaySchedule{
		Date: "2025-03-14",
		Meals: []ScheduledMeal{
			{Type: MealTypeDinner, FinishBy: dinnerAt},
		},
	}

	got, ok := day.FinishByFor(MealTypeDinner)
	require.True(t, ok)
	assert.Equal(t, dinnerAt, got)

	_, ok = day.FinishByFor(MealTypeLunch)
	assert.False(t, ok)
}
