package storage

import (
	"context"
	"encoding/json"
	"testing"

	"larder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanStore(t *testing.T) {
	meals := []larder.PlannedMeal{
		{ID: "m1", Date: "2025-03-10", MealType: larder.MealTypeDinner, Name: "tacos"},
		{ID: "m2", Date: "2025-03-11", MealType: larder.MealTypeLunch, Name: "leftover tacos"},
	}
	data, err := json.Marshal(planDoc{UserID: "u1", Meals: meals})
	require.NoError(t, err)

	t.Run("round trips the plan", func(t *testing.T) {
		state := NewTestState(data)
		store := NewPlanStore(state)

		got, err := store.Meals(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, meals, got)

		got[0].Skipped = true
		require.NoError(t, store.SaveMeals(context.Background(), "u1", got))

		reloaded, err := store.Meals(context.Background(), "u1")
		require.NoError(t, err)
		assert.True(t, reloaded[0].Skipped)
		assert.Equal(t, "m2", reloaded[1].ID)
	})

	t.Run("rejects a different user", func(t *testing.T) {
		store := NewPlanStore(NewTestState(data))
		_, err := store.Meals(context.Background(), "u2")
		assert.ErrorContains(t, err, "belongs to user u1")
	})

	t.Run("load failure surfaces", func(t *testing.T) {
		store := NewPlanStore(NewTestStateWithError())
		_, err := store.Meals(context.Background(), "u1")
		assert.Error(t, err)
	})
}
