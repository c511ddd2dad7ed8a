package larder

import (
	"context"
	"net/http"
	"time"
)

// DateLayout is the wire format for calendar dates on meals, events, and
// schedules. Item dates carry full timestamps.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date in DateLayout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type SlackClient interface {
	PostMessage(ctx context.Context, channel string, message string) error
}

// InventoryStore is the pantry collaborator. List returns every item the
// user owns; SetUsedByMeals persists the claim set for one item.
type InventoryStore interface {
	List(ctx context.Context, userID string) ([]InventoryItem, error)
	SetUsedByMeals(ctx context.Context, userID, itemID string, mealIDs []string) error
}

// ShoppingListStore is the active-list collaborator. SetMealID overwrites
// the single claimant on a list item; it never appends.
type ShoppingListStore interface {
	List(ctx context.Context, userID, listID string) ([]ShoppingListItem, error)
	SetMealID(ctx context.Context, userID, itemID, mealID string) error
}

// SuggestionService produces replacement meal ideas for a disrupted plan.
// Implementations may call out to an LLM; failures propagate to the caller.
type SuggestionService interface {
	Suggest(ctx context.Context, req SuggestionRequest) ([]MealSuggestion, error)
}

// ScheduleProvider resolves the household's eating schedule for one date,
// with any per-date overrides already applied.
type ScheduleProvider interface {
	EffectiveSchedule(ctx context.Context, userID, date string) (DaySchedule, error)
}

type Replanner interface {
	Replan(ctx context.Context, req ReplanRequest) (*ReplanResult, error)
}

type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
)

// Valid reports whether the meal type is one of the three known slots.
func (t MealType) Valid() bool {
	switch t {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner:
		return true
	}
	return false
}

// Rank orders meal types within a day, breakfast first. Unknown types sort
// last.
func (t MealType) Rank() int {
	switch t {
	case MealTypeBreakfast:
		return 1
	case MealTypeLunch:
		return 2
	case MealTypeDinner:
		return 3
	}
	return 4
}

// CategoryLeftovers marks inventory items that are cooked leftovers rather
// than raw stock; the replanner surfaces them separately to the suggestion
// service.
const CategoryLeftovers = "leftovers"

// InventoryItem is one unit of tracked pantry stock. BestByDate and ThawDate
// are mutually exclusive; frozen items carry ThawDate.
type InventoryItem struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Quantity    int        `json:"quantity,omitempty"`
	Unit        string     `json:"unit,omitempty"`
	BestByDate  *time.Time `json:"best_by_date,omitempty"`
	ThawDate    *time.Time `json:"thaw_date,omitempty"`
	Category    string     `json:"category,omitempty"`
	UsedByMeals []string   `json:"used_by_meals,omitempty"`
}

// Qty returns the item quantity, defaulting to 1 for documents that omit it.
func (i InventoryItem) Qty() int {
	if i.Quantity < 1 {
		return 1
	}
	return i.Quantity
}

// EffectiveBestBy returns the date the item must be used by: the thaw date
// for frozen items, the best-by date otherwise, nil when untracked.
func (i InventoryItem) EffectiveBestBy() *time.Time {
	if i.ThawDate != nil {
		return i.ThawDate
	}
	return i.BestByDate
}

// UsedBy reports whether the given meal already claims this item.
// Claim code keys its duplicate checks on this, keeping UsedByMeals free of
// repeated meal ids.
func (i InventoryItem) UsedBy(mealID string) bool {
	for _, id := range i.UsedByMeals {
		if id == mealID {
			return true
		}
	}
	return false
}

// ShoppingListItem is one line on the active shopping list. MealID is the
// single claimant, empty when unclaimed.
type ShoppingListItem struct {
	ID         string `json:"id"`
	ListID     string `json:"list_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity,omitempty"`
	CrossedOff bool   `json:"crossed_off,omitempty"`
	MealID     string `json:"meal_id,omitempty"`
}

// Qty returns the line quantity, defaulting to 1 when the document omits it.
func (s ShoppingListItem) Qty() int {
	if s.Quantity < 1 {
		return 1
	}
	return s.Quantity
}

// Dish is one prepared component of a meal.
type Dish struct {
	Name              string   `json:"name"`
	RecipeIngredients []string `json:"recipe_ingredients,omitempty"`
	ClaimedItemIDs    []string `json:"claimed_item_ids,omitempty"`
}

// PlannedMeal is a scheduled meal. Current documents carry their recipe
// ingredients per dish; legacy documents carry Ingredients and
// ClaimedItemIDs at the meal level. Consumers go through IngredientLines
// and AllClaimedItemIDs so both shapes behave the same.
type PlannedMeal struct {
	ID       string   `json:"id"`
	Date     string   `json:"date"`
	MealType MealType `json:"meal_type"`
	Name     string   `json:"name,omitempty"`
	Dishes   []Dish   `json:"dishes,omitempty"`

	// Legacy shape: ingredients and claims directly on the meal.
	Ingredients    []string `json:"ingredients,omitempty"`
	ClaimedItemIDs []string `json:"claimed_item_ids,omitempty"`

	Confirmed      bool       `json:"confirmed"`
	Skipped        bool       `json:"skipped"`
	StartCookingAt *time.Time `json:"start_cooking_at,omitempty"`
}

// IngredientLines returns every raw ingredient line the meal needs: the
// union of all dish lists plus any legacy meal-level list, in that order.
func (m PlannedMeal) IngredientLines() []string {
	var lines []string
	for _, d := range m.Dishes {
		lines = append(lines, d.RecipeIngredients...)
	}
	lines = append(lines, m.Ingredients...)
	return lines
}

// AllClaimedItemIDs returns every inventory item id the meal has claimed,
// across dishes and the legacy meal-level list.
func (m PlannedMeal) AllClaimedItemIDs() []string {
	var ids []string
	for _, d := range m.Dishes {
		ids = append(ids, d.ClaimedItemIDs...)
	}
	ids = append(ids, m.ClaimedItemIDs...)
	return ids
}

// UnplannedEvent is a schedule disruption: the named meal slots on the given
// date cannot happen as planned.
type UnplannedEvent struct {
	Date      string     `json:"date"`
	MealTypes []MealType `json:"meal_types"`
	Reason    string     `json:"reason,omitempty"`
}

// Covers reports whether the event disrupts the given date and slot.
func (e UnplannedEvent) Covers(date string, t MealType) bool {
	if e.Date != date {
		return false
	}
	for _, mt := range e.MealTypes {
		if mt == t {
			return true
		}
	}
	return false
}

// WasteRiskItem is an inventory item flagged as likely to spoil before any
// remaining meal consumes it. DaysUntilBestBy is derived, never stored, and
// is negative for items already past their date.
type WasteRiskItem struct {
	InventoryItem
	DaysUntilBestBy int `json:"days_until_best_by"`
}

// MealSuggestion is one replacement idea returned by the suggestion service.
type MealSuggestion struct {
	Name        string   `json:"name"`
	Date        string   `json:"date"`
	MealType    MealType `json:"meal_type"`
	Reason      string   `json:"reason,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
}

// IsValid checks if the suggestion meets basic validation requirements
func (s MealSuggestion) IsValid() bool {
	if s.Name == "" {
		return false
	}
	if !s.MealType.Valid() {
		return false
	}
	if _, err := ParseDate(s.Date); err != nil {
		return false
	}
	return true
}

// Preferences carries the per-user knobs the replanner needs.
type Preferences struct {
	Dietary       []string                   `json:"dietary,omitempty"`
	Household     int                        `json:"household,omitempty"`
	MealDurations map[MealType]time.Duration `json:"meal_durations,omitempty"`
}

// DurationFor returns the configured cook duration for a meal type, zero
// when unset.
func (p Preferences) DurationFor(t MealType) time.Duration {
	return p.MealDurations[t]
}

// ScheduledMeal is one slot of a day's eating schedule.
type ScheduledMeal struct {
	Type     MealType  `json:"type"`
	FinishBy time.Time `json:"finish_by"`
}

// DaySchedule is the resolved schedule for one date.
type DaySchedule struct {
	Date  string          `json:"date"`
	Meals []ScheduledMeal `json:"meals"`
}

// FinishByFor returns the finish-by time for a meal type on this day.
func (d DaySchedule) FinishByFor(t MealType) (time.Time, bool) {
	for _, m := range d.Meals {
		if m.Type == t {
			return m.FinishBy, true
		}
	}
	return time.Time{}, false
}

// StockSnapshot pairs an inventory item with the quantity not yet reserved
// by any planned meal at the time the snapshot was taken.
type StockSnapshot struct {
	Item       InventoryItem `json:"item"`
	Unreserved float64       `json:"unreserved"`
}

// SuggestionRequest is the context handed to the suggestion service.
type SuggestionRequest struct {
	Event        UnplannedEvent  `json:"event"`
	Preferences  Preferences     `json:"preferences"`
	Schedule     []DaySchedule   `json:"schedule,omitempty"`
	Inventory    []StockSnapshot `json:"inventory,omitempty"`
	Leftovers    []InventoryItem `json:"leftovers,omitempty"`
	SkippedMeals []PlannedMeal   `json:"skipped_meals,omitempty"`
	WasteRisk    []WasteRiskItem `json:"waste_risk,omitempty"`
	MaxResults   int             `json:"max_results,omitempty"`
}

// ReplanRequest asks the replanner to recover from one disruption event.
// Meals is the user's current plan; the result carries the updated copy.
type ReplanRequest struct {
	UserID      string         `json:"user_id"`
	ListID      string         `json:"list_id,omitempty"`
	Meals       []PlannedMeal  `json:"meals"`
	Event       UnplannedEvent `json:"event"`
	Preferences Preferences    `json:"preferences"`
}

// ReplanResult is the outcome of a replanning pass. Meals is the full plan
// with skip flags applied and new meals appended; NewMeals is the appended
// subset.
type ReplanResult struct {
	Meals          []PlannedMeal    `json:"meals"`
	NewMeals       []PlannedMeal    `json:"new_meals,omitempty"`
	SkippedMealIDs []string         `json:"skipped_meal_ids,omitempty"`
	WasteRisk      []WasteRiskItem  `json:"waste_risk,omitempty"`
	Suggestions    []MealSuggestion `json:"suggestions,omitempty"`
}
