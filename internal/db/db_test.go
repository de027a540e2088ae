package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenForTesting(t *testing.T) {
	database, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, database.Close()) })

	assert.NoError(t, database.Ping())
}

func TestMigrationsApply(t *testing.T) {
	database, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, database.Close()) })

	var tableName string
	err = database.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='kv'").Scan(&tableName)
	assert.NoError(t, err)
	assert.Equal(t, "kv", tableName)
}

func TestKVGetMissing(t *testing.T) {
	database, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, database.Close()) })

	kv := NewKV(database)
	value, ok, err := kv.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestKVSetGetRoundTrip(t *testing.T) {
	database, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, database.Close()) })
	ctx := context.Background()

	kv := NewKV(database)
	require.NoError(t, kv.Set(ctx, "projects", []byte(`[{"id":"p1"}]`)))

	value, ok, err := kv.Get(ctx, "projects")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`[{"id":"p1"}]`), value)
}

func TestKVSetOverwrites(t *testing.T) {
	database, err := OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, database.Close()) })
	ctx := context.Background()

	kv := NewKV(database)
	require.NoError(t, kv.Set(ctx, "active_project", []byte("p1")))
	require.NoError(t, kv.Set(ctx, "active_project", []byte("p2")))

	value, ok, err := kv.Get(ctx, "active_project")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("p2"), value)
}
