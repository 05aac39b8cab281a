package indexer

import "context"

// Record is one vectorized chunk ready for the index.
type Record struct {
	Id       string
	Vector   []float32
	Metadata map[string]any
}

// Match is one search hit, scored by the backing index.
type Match struct {
	Id       string
	Score    float32
	Metadata map[string]any
}

type Indexer interface {
	// Ensure idempotently creates the backing index if it is absent.
	Ensure(ctx context.Context) error
	Upsert(ctx context.Context, records []Record) error
	// Search returns up to k matches ordered by descending score.
	Search(ctx context.Context, vector []float32, k int) ([]Match, error)
}
