package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReadAbsentKey(t *testing.T) {
	s := newTestStore(t)

	data, exists, err := s.Read(context.Background(), "tasks")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Nil(t, data)
}

func TestWriteReadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	payload := []byte(`[{"id":"t1","title":"hello"}]`)
	require.NoError(t, s.Write(ctx, "tasks", payload))

	data, exists, err := s.Read(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, payload, data)
}

func TestWriteOverwritesExistingKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "tasks", []byte(`["old"]`)))
	require.NoError(t, s.Write(ctx, "tasks", []byte(`["new"]`)))

	data, exists, err := s.Read(ctx, "tasks")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, []byte(`["new"]`), data)
}

func TestKeysAreIndependent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, Key("tasks"), []byte(`["a"]`)))
	require.NoError(t, s.Write(ctx, UserKey("notifications", "u1"), []byte(`["b"]`)))

	_, exists, err := s.Read(ctx, UserKey("notifications", "u2"))
	require.NoError(t, err)
	assert.False(t, exists, "another identity's scope must stay empty")

	data, exists, err := s.Read(ctx, UserKey("notifications", "u1"))
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, []byte(`["b"]`), data)
}

func TestScopeKeys(t *testing.T) {
	assert.Equal(t, "tasks", Key("tasks"))
	assert.Equal(t, "notifications:u1", UserKey("notifications", "u1"))
}
