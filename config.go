package larder

import "time"

type ModelConfig struct {
	ModelID     string  `env:"MODEL_ID,required"`
	MaxTokens   int32   `env:"MAX_TOKENS,default=1024"`
	Temperature float32 `env:"TEMPERATURE,default=0.2"`
	TopP        float32 `env:"TOP_P,default=0.9"`
}

type PlannerConfig struct {
	ArtifactsInventoryPath string `env:"ARTIFACTS_INVENTORY_PATH,default=artifacts/inventory.json"`
	ArtifactsListPath      string `env:"ARTIFACTS_LIST_PATH,default=artifacts/shopping_list.json"`
	ArtifactsPlanPath      string `env:"ARTIFACTS_PLAN_PATH,default=artifacts/plan.json"`
	ArtifactsSchedulePath  string `env:"ARTIFACTS_SCHEDULE_PATH,default=artifacts/schedule.json"`
	BaseOllamaEndpoint     string `env:"BASE_OLLAMA_ENDPOINT,default=http://localhost:11434"`
	WasteWindowDays        int    `env:"WASTE_WINDOW_DAYS,default=3"`
	ScheduleDays           int    `env:"SCHEDULE_DAYS,default=7"`
	MaxSuggestions         int    `env:"MAX_SUGGESTIONS,default=3"`
	BreakfastMinutes       int    `env:"BREAKFAST_MINUTES,default=20"`
	LunchMinutes           int    `env:"LUNCH_MINUTES,default=30"`
	DinnerMinutes          int    `env:"DINNER_MINUTES,default=45"`

	// UserID and ListID may stay empty for legacy single-tenant documents.
	UserID string `env:"USER_ID"`
	ListID string `env:"LIST_ID"`
}

// MealDurations folds the per-slot cook minutes into the shape Preferences
// carries.
func (c PlannerConfig) MealDurations() map[MealType]time.Duration {
	return map[MealType]time.Duration{
		MealTypeBreakfast: time.Duration(c.BreakfastMinutes) * time.Minute,
		MealTypeLunch:     time.Duration(c.LunchMinutes) * time.Minute,
		MealTypeDinner:    time.Duration(c.DinnerMinutes) * time.Minute,
	}
}
