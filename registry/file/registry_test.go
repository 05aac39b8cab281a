package file

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/realty/registry"
)

func newTestRegistry(t *testing.T) (registry.Registry, string) {
	location := filepath.Join(t.TempDir(), "data_sources.json")
	return NewRegistry(registry.WithLocation(location)), location
}

func TestFileRegistry_CreateAndList(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	created, err := reg.Create(ctx, "https://raw.githubusercontent.com/acme/listings/main/a.csv")
	require.NoError(t, err)
	assert.NotEmpty(t, created.Id)
	assert.Equal(t, registry.StatusPending, created.Status)
	assert.False(t, created.CreatedAt.IsZero())

	sources, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, created.Id, sources[0].Id)
}

func TestFileRegistry_Get(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	created, err := reg.Create(ctx, "https://raw.githubusercontent.com/acme/listings/main/a.csv")
	require.NoError(t, err)

	got, err := reg.Get(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Url, got.Url)

	_, err = reg.Get(ctx, "missing")
	require.ErrorIs(t, err, registry.ErrNotFound)
}

func TestFileRegistry_UpdateStatus(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	created, err := reg.Create(ctx, "https://raw.githubusercontent.com/acme/listings/main/a.csv")
	require.NoError(t, err)

	require.NoError(t, reg.UpdateStatus(ctx, created.Id, registry.StatusProcessing, ""))
	require.NoError(t, reg.UpdateStatus(ctx, created.Id, registry.StatusFailed, "failed to fetch file: HTTP 500"))

	got, err := reg.Get(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, registry.StatusFailed, got.Status)
	assert.Equal(t, "failed to fetch file: HTTP 500", got.ErrorMessage)
	assert.True(t, got.UpdatedAt.After(created.UpdatedAt) || got.UpdatedAt.Equal(created.UpdatedAt))

	require.ErrorIs(t, reg.UpdateStatus(ctx, "missing", registry.StatusCompleted, ""), registry.ErrNotFound)
}

func TestFileRegistry_Delete(t *testing.T) {
	reg, _ := newTestRegistry(t)
	ctx := context.Background()

	created, err := reg.Create(ctx, "https://raw.githubusercontent.com/acme/listings/main/a.csv")
	require.NoError(t, err)

	deleted, err := reg.Delete(ctx, created.Id)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = reg.Delete(ctx, created.Id)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestFileRegistry_PersistsAcrossInstances(t *testing.T) {
	location := filepath.Join(t.TempDir(), "data_sources.json")
	ctx := context.Background()

	first := NewRegistry(registry.WithLocation(location))
	created, err := first.Create(ctx, "https://raw.githubusercontent.com/acme/listings/main/a.csv")
	require.NoError(t, err)

	second := NewRegistry(registry.WithLocation(location))
	got, err := second.Get(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Url, got.Url)
}
