package retriever

import (
	"context"
	"fmt"

	getsafe "github.com/w-h-a/realty/util/get_safe"
)

type vectorRetriever struct {
	options Options
}

func (r *vectorRetriever) Retrieve(ctx context.Context, query string, k int) ([]Snippet, error) {
	vectors, err := r.options.Embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}

	matches, err := r.options.Indexer.Search(ctx, vectors[0], k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	snippets := make([]Snippet, 0, len(matches))

	for _, match := range matches {
		snippets = append(snippets, Snippet{
			Text:     getsafe.String(match.Metadata, "text"),
			Score:    match.Score,
			Metadata: match.Metadata,
		})
	}

	return snippets, nil
}

func NewRetriever(opts ...Option) Retriever {
	options := NewOptions(opts...)

	if options.Embedder == nil || options.Indexer == nil {
		panic("missing embedder or indexer for retriever")
	}

	return &vectorRetriever{
		options: options,
	}
}
