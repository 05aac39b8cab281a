package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/realty/indexer"
)

func TestMemoryIndexer_SearchRanksByScore(t *testing.T) {
	idx := NewIndexer()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []indexer.Record{
		{Id: "a_0_0", Vector: []float32{1, 0}, Metadata: map[string]any{"text": "downtown condo"}},
		{Id: "a_1_0", Vector: []float32{0, 1}, Metadata: map[string]any{"text": "suburban ranch"}},
		{Id: "a_2_0", Vector: []float32{0.9, 0.1}, Metadata: map[string]any{"text": "city loft"}},
	}))

	matches, err := idx.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "a_0_0", matches[0].Id)
	assert.Equal(t, "a_2_0", matches[1].Id)
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestMemoryIndexer_UpsertOverwritesById(t *testing.T) {
	idx := NewIndexer()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, []indexer.Record{
		{Id: "a_0_0", Vector: []float32{1, 0}, Metadata: map[string]any{"text": "old"}},
	}))
	require.NoError(t, idx.Upsert(ctx, []indexer.Record{
		{Id: "a_0_0", Vector: []float32{1, 0}, Metadata: map[string]any{"text": "new"}},
	}))

	assert.Equal(t, 1, idx.Len())

	matches, err := idx.Search(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "new", matches[0].Metadata["text"])
}

func TestMemoryIndexer_SearchWithNonPositiveK(t *testing.T) {
	idx := NewIndexer()

	matches, err := idx.Search(context.Background(), []float32{1, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}
