package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/realty/indexer"
)

type stubEmbedder struct {
	vectors [][]float32
	err     error

	lastTexts []string
}

func (e *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	e.lastTexts = texts
	return e.vectors, e.err
}

type stubIndexer struct {
	matches []indexer.Match
	err     error

	lastVector []float32
	lastK      int
}

func (i *stubIndexer) Ensure(ctx context.Context) error { return nil }

func (i *stubIndexer) Upsert(ctx context.Context, records []indexer.Record) error { return nil }

func (i *stubIndexer) Search(ctx context.Context, vector []float32, k int) ([]indexer.Match, error) {
	i.lastVector = vector
	i.lastK = k
	return i.matches, i.err
}

func TestVectorRetriever_MapsMatchesToSnippets(t *testing.T) {
	emb := &stubEmbedder{vectors: [][]float32{{1, 0}}}
	idx := &stubIndexer{matches: []indexer.Match{
		{Id: "a_0_0", Score: 0.91, Metadata: map[string]any{"text": "city: Austin", "price": "300000"}},
		{Id: "a_1_0", Score: 0.42, Metadata: map[string]any{"price": "250000"}},
	}}

	ret := NewRetriever(WithEmbedder(emb), WithIndexer(idx))

	snippets, err := ret.Retrieve(context.Background(), "houses in Austin", 2)
	require.NoError(t, err)
	require.Len(t, snippets, 2)

	assert.Equal(t, []string{"houses in Austin"}, emb.lastTexts)
	assert.Equal(t, []float32{1, 0}, idx.lastVector)
	assert.Equal(t, 2, idx.lastK)

	assert.Equal(t, "city: Austin", snippets[0].Text)
	assert.InDelta(t, 0.91, snippets[0].Score, 1e-6)
	assert.Equal(t, "300000", snippets[0].Metadata["price"])

	// a match without a text payload still comes back, just empty
	assert.Empty(t, snippets[1].Text)
}

func TestVectorRetriever_EmbedError(t *testing.T) {
	emb := &stubEmbedder{err: errors.New("rate limited")}
	ret := NewRetriever(WithEmbedder(emb), WithIndexer(&stubIndexer{}))

	_, err := ret.Retrieve(context.Background(), "houses", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}

func TestVectorRetriever_SearchError(t *testing.T) {
	emb := &stubEmbedder{vectors: [][]float32{{1, 0}}}
	idx := &stubIndexer{err: errors.New("connection refused")}
	ret := NewRetriever(WithEmbedder(emb), WithIndexer(idx))

	_, err := ret.Retrieve(context.Background(), "houses", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search index")
}

func TestNewRetriever_PanicsWithoutDependencies(t *testing.T) {
	assert.Panics(t, func() { NewRetriever() })
}
