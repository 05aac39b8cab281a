package source

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/realty/registry"
	"github.com/w-h-a/realty/registry/file"
)

func newTestService(t *testing.T) *Service {
	reg := file.NewRegistry(registry.WithLocation(filepath.Join(t.TempDir(), "data_sources.json")))
	return New(reg, "")
}

func TestCreate_AllowsGitHubRawURLs(t *testing.T) {
	svc := newTestService(t)

	src, err := svc.Create(context.Background(), "https://raw.githubusercontent.com/acme/listings/main/a.csv")
	require.NoError(t, err)
	assert.Equal(t, registry.StatusPending, src.Status)
}

func TestCreate_RejectsOtherHosts(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), "https://example.com/listings.csv")
	require.ErrorIs(t, err, ErrDisallowedURL)
}

func TestCreate_RejectsDuplicates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	url := "https://raw.githubusercontent.com/acme/listings/main/a.csv"

	_, err := svc.Create(ctx, url)
	require.NoError(t, err)

	_, err = svc.Create(ctx, url)
	require.ErrorIs(t, err, ErrDuplicateURL)
}

func TestGetAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "https://raw.githubusercontent.com/acme/listings/main/a.csv")
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Url, got.Url)

	deleted, err := svc.Delete(ctx, created.Id)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = svc.Get(ctx, created.Id)
	require.ErrorIs(t, err, registry.ErrNotFound)
}
