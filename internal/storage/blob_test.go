package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBlob_MissingFileReportsNoBlob(t *testing.T) {
	b := NewFileBlob(filepath.Join(t.TempDir(), "state.json"))

	_, err := b.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoBlob)
}

func TestFileBlob_EmptyFileReportsNoBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	b := NewFileBlob(path)
	require.NoError(t, b.Save(context.Background(), nil))

	_, err := b.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoBlob)
}

func TestFileBlob_SaveThenLoadRoundTrips(t *testing.T) {
	b := NewFileBlob(filepath.Join(t.TempDir(), "nested", "state.json"))
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, []byte(`{"users":{}}`)))
	data, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"users":{}}`), data)
}

func TestFileBlob_SaveReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	b := NewFileBlob(path)
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, []byte("first")))
	require.NoError(t, b.Save(ctx, []byte("second")))

	data, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), data)
	assert.NoFileExists(t, path+".tmp")
}

func TestRedisBlob_MissingKeyReportsNoBlob(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b := NewRedisBlob(client, "")

	_, err := b.Load(context.Background())
	assert.ErrorIs(t, err, ErrNoBlob)
}

func TestRedisBlob_SaveThenLoadRoundTrips(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b := NewRedisBlob(client, DefaultRedisKey)
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, []byte(`{"events":{}}`)))

	data, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"events":{}}`), data)

	stored, err := mr.Get(DefaultRedisKey)
	require.NoError(t, err)
	assert.Equal(t, `{"events":{}}`, stored)
}
