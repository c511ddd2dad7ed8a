package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileState(t *testing.T) {
	t.Run("loads what was written", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "inventory.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"items":[]}`), 0o644))

		state := NewFileState(path)
		data, err := state.Load(context.Background())
		require.NoError(t, err)
		assert.JSONEq(t, `{"items":[]}`, string(data))
	})

	t.Run("save replaces the document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "inventory.json")
		state := NewFileState(path)

		require.NoError(t, state.Save(context.Background(), []byte(`{"items":[{"id":"i1","name":"milk"}]}`)))

		data, err := state.Load(context.Background())
		require.NoError(t, err)
		assert.Contains(t, string(data), `"i1"`)
	})

	t.Run("missing file errors", func(t *testing.T) {
		state := NewFileState(filepath.Join(t.TempDir(), "nope.json"))
		_, err := state.Load(context.Background())
		assert.Error(t, err)
	})
}

func TestTestState(t *testing.T) {
	state := NewTestState([]byte(`{}`))

	data, err := state.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []byte(`{}`), data)

	require.NoError(t, state.Save(context.Background(), []byte(`{"a":1}`)))
	assert.Equal(t, []byte(`{"a":1}`), state.Data())

	broken := NewTestStateWithError()
	_, err = broken.Load(context.Background())
	assert.Error(t, err)
	assert.Error(t, broken.Save(context.Background(), nil))
}
