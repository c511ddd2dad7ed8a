package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"larder"
)

// clockLayout is the wall-clock format schedule documents use.
const clockLayout = "15:04"

// scheduleDoc is the persisted shape of a household's eating schedule:
// default finish-by clocks per slot, plus per-date overrides. An override
// with an empty clock drops that slot for the day.
type scheduleDoc struct {
	UserID    string                     `json:"user_id,omitempty"`
	Defaults  map[larder.MealType]string `json:"defaults"`
	Overrides []scheduleOverride         `json:"overrides,omitempty"`
}

type scheduleOverride struct {
	Date  string                     `json:"date"`
	Meals map[larder.MealType]string `json:"meals"`
}

// ScheduleBook resolves eating schedules from a schedule document. It
// implements larder.ScheduleProvider. Times are resolved in UTC.
type ScheduleBook struct {
	state State
}

func NewScheduleBook(state State) *ScheduleBook {
	return &ScheduleBook{state: state}
}

// EffectiveSchedule returns the day's meal slots with any override for that
// date applied on top of the defaults, ordered breakfast, lunch, dinner.
func (s *ScheduleBook) EffectiveSchedule(ctx context.Context, userID, date string) (larder.DaySchedule, error) {
	day, err := larder.ParseDate(date)
	if err != nil {
		return larder.DaySchedule{}, fmt.Errorf("invalid schedule date %q: %w", date, err)
	}

	data, err := s.state.Load(ctx)
	if err != nil {
		return larder.DaySchedule{}, fmt.Errorf("failed to load schedule: %w", err)
	}
	var doc scheduleDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return larder.DaySchedule{}, fmt.Errorf("failed to unmarshal schedule: %w", err)
	}
	if doc.UserID != "" && doc.UserID != userID {
		return larder.DaySchedule{}, fmt.Errorf("schedule belongs to user %s, not %s", doc.UserID, userID)
	}

	clocks := make(map[larder.MealType]string, len(doc.Defaults))
	for slot, clock := range doc.Defaults {
		clocks[slot] = clock
	}
	for _, ov := range doc.Overrides {
		if ov.Date != date {
			continue
		}
		for slot, clock := range ov.Meals {
			clocks[slot] = clock
		}
	}

	schedule := larder.DaySchedule{Date: date}
	for _, slot := range []larder.MealType{larder.MealTypeBreakfast, larder.MealTypeLunch, larder.MealTypeDinner} {
		clock, ok := clocks[slot]
		if !ok || clock == "" {
			continue
		}
		at, err := time.Parse(clockLayout, clock)
		if err != nil {
			return larder.DaySchedule{}, fmt.Errorf("invalid %s clock %q: %w", slot, clock, err)
		}
		finishBy := time.Date(day.Year(), day.Month(), day.Day(), at.Hour(), at.Minute(), 0, 0, time.UTC)
		schedule.Meals = append(schedule.Meals, larder.ScheduledMeal{Type: slot, FinishBy: finishBy})
	}
	return schedule, nil
}
