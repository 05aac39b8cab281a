package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/w-h-a/realty/indexer"
)

// memoryIndexer is an in-process index for tests and local runs.
type memoryIndexer struct {
	options indexer.Options
	records map[string]indexer.Record
	mtx     sync.RWMutex
}

func (s *memoryIndexer) Ensure(ctx context.Context) error {
	return nil
}

func (s *memoryIndexer) Upsert(ctx context.Context, records []indexer.Record) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for _, rec := range records {
		cpy := make([]float32, len(rec.Vector))
		copy(cpy, rec.Vector)
		rec.Vector = cpy

		s.records[rec.Id] = rec
	}

	return nil
}

func (s *memoryIndexer) Search(ctx context.Context, vector []float32, k int) ([]indexer.Match, error) {
	if k < 1 {
		return nil, nil
	}

	s.mtx.RLock()
	defer s.mtx.RUnlock()

	candidates := make([]indexer.Match, 0, len(s.records))

	for _, rec := range s.records {
		score := indexer.CosineSimilarity(vector, rec.Vector)
		candidates = append(candidates, indexer.Match{
			Id:       rec.Id,
			Score:    float32(score),
			Metadata: rec.Metadata,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	return candidates, nil
}

// Len reports how many records the index holds.
func (s *memoryIndexer) Len() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return len(s.records)
}

func NewIndexer(opts ...indexer.Option) *memoryIndexer {
	options := indexer.NewOptions(opts...)

	return &memoryIndexer{
		options: options,
		records: map[string]indexer.Record{},
	}
}
