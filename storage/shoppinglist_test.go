package storage

import (
	"context"
	"encoding/json"
	"testing"

	"larder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListStore(t *testing.T) (*ShoppingListStore, *TestState) {
	doc := shoppingListDoc{
		UserID: "u1",
		Items: []larder.ShoppingListItem{
			{ID: "s1", ListID: "weekly", Name: "milk"},
			{ID: "s2", ListID: "weekly", Name: "bread", MealID: "meal-7"},
			{ID: "s3", ListID: "party", Name: "chips"},
		},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	state := NewTestState(data)
	return NewShoppingListStore(state), state
}

func TestShoppingListStoreList(t *testing.T) {
	store, _ := newListStore(t)

	t.Run("filters by list id", func(t *testing.T) {
		items, err := store.List(context.Background(), "u1", "weekly")
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "milk", items[0].Name)
	})

	t.Run("empty list id returns everything", func(t *testing.T) {
		items, err := store.List(context.Background(), "u1", "")
		require.NoError(t, err)
		assert.Len(t, items, 3)
	})

	t.Run("unknown list is empty, not an error", func(t *testing.T) {
		items, err := store.List(context.Background(), "u1", "nope")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("rejects a different user", func(t *testing.T) {
		_, err := store.List(context.Background(), "u2", "weekly")
		assert.ErrorContains(t, err, "belongs to user u1")
	})
}

func TestShoppingListStoreSetMealID(t *testing.T) {
	t.Run("claims and persists", func(t *testing.T) {
		store, state := newListStore(t)

		require.NoError(t, store.SetMealID(context.Background(), "u1", "s1", "meal-1"))

		var saved shoppingListDoc
		require.NoError(t, json.Unmarshal(state.Data(), &saved))
		assert.Equal(t, "meal-1", saved.Items[0].MealID)
	})

	t.Run("overwrites an existing claimant", func(t *testing.T) {
		store, state := newListStore(t)

		require.NoError(t, store.SetMealID(context.Background(), "u1", "s2", "meal-8"))

		var saved shoppingListDoc
		require.NoError(t, json.Unmarshal(state.Data(), &saved))
		assert.Equal(t, "meal-8", saved.Items[1].MealID)
	})

	t.Run("empty meal id releases the claim", func(t *testing.T) {
		store, state := newListStore(t)

		require.NoError(t, store.SetMealID(context.Background(), "u1", "s2", ""))

		var saved shoppingListDoc
		require.NoError(t, json.Unmarshal(state.Data(), &saved))
		assert.Empty(t, saved.Items[1].MealID)
	})

	t.Run("unknown item errors", func(t *testing.T) {
		store, _ := newListStore(t)
		err := store.SetMealID(context.Background(), "u1", "nope", "meal-1")
		assert.ErrorContains(t, err, "not found")
	})
}
