// Package storage persists the household's JSON documents (inventory,
// shopping list, meal plan, schedule) as whole blobs and exposes typed
// stores over them.
package storage

import (
	"context"
	"errors"
)

// State is one JSON document's home: Load fetches the raw bytes, Save
// replaces them wholesale. Writes are last-write-wins; callers needing
// stricter exclusivity must coordinate above this layer.
type State interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// TestState is a simple in-memory implementation for testing
type TestState struct {
	data []byte
	err  error
}

func NewTestState(data []byte) *TestState {
	return &TestState{data: data}
}

func NewTestStateWithError() *TestState {
	return &TestState{err: errors.New("not found")}
}

func (t *TestState) Load(ctx context.Context) ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}
	return t.data, nil
}

func (t *TestState) Save(ctx context.Context, data []byte) error {
	if t.err != nil {
		return t.err
	}
	t.data = data
	return nil
}

// Data returns the last saved bytes, for assertions.
func (t *TestState) Data() []byte {
	return t.data
}
