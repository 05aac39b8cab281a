package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/w-h-a/realty/chunker"
	"github.com/w-h-a/realty/embedder"
	"github.com/w-h-a/realty/fetcher"
	"github.com/w-h-a/realty/indexer"
	"github.com/w-h-a/realty/parser"
	"github.com/w-h-a/realty/registry"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	registry registry.Registry
	fetcher  fetcher.Fetcher
	chunker  *chunker.Chunker
	embedder embedder.Embedder
	indexer  indexer.Indexer
	limit    int
}

// IngestAll processes every registered source concurrently and returns
// once all of them have resolved. A source's failure is recorded against
// that source only and never fails the batch.
func (s *Service) IngestAll(ctx context.Context) error {
	sources, err := s.registry.List(ctx)
	if err != nil {
		return err
	}

	if len(sources) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	if s.limit > 0 {
		g.SetLimit(s.limit)
	}

	for _, src := range sources {
		g.Go(func() error {
			s.ProcessSource(ctx, src)
			return nil
		})
	}

	return g.Wait()
}

// ProcessSource drives one source through fetch, parse, chunk, embed, and
// upsert, recording the lifecycle status in the registry at each
// transition.
func (s *Service) ProcessSource(ctx context.Context, src registry.Source) {
	if err := s.registry.UpdateStatus(ctx, src.Id, registry.StatusProcessing, ""); err != nil {
		slog.ErrorContext(ctx, "failed to mark source as processing", "source_id", src.Id, "error", err)
		return
	}

	if err := s.ingest(ctx, src); err != nil {
		slog.ErrorContext(ctx, "failed to process source", "source_id", src.Id, "error", err)
		if updateErr := s.registry.UpdateStatus(ctx, src.Id, registry.StatusFailed, err.Error()); updateErr != nil {
			slog.ErrorContext(ctx, "failed to mark source as failed", "source_id", src.Id, "error", updateErr)
		}
		return
	}

	if err := s.registry.UpdateStatus(ctx, src.Id, registry.StatusCompleted, ""); err != nil {
		slog.ErrorContext(ctx, "failed to mark source as completed", "source_id", src.Id, "error", err)
	}
}

func (s *Service) ingest(ctx context.Context, src registry.Source) error {
	content, err := s.fetcher.Fetch(ctx, src.Url)
	if err != nil {
		return err
	}

	rows, err := parser.Parse(content, src.Url)
	if err != nil {
		return err
	}

	if err := s.indexer.Ensure(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}

	var records []indexer.Record

	for rowIdx, row := range rows {
		chunks := s.chunker.Chunk(row.Text())
		if len(chunks) == 0 {
			continue
		}

		vectors, err := s.embedder.Embed(ctx, chunks)
		if err != nil {
			return fmt.Errorf("embed row %d: %w", rowIdx, err)
		}

		if len(vectors) != len(chunks) {
			return fmt.Errorf("embed row %d: expected %d vectors, got %d", rowIdx, len(chunks), len(vectors))
		}

		for chunkIdx, chunk := range chunks {
			records = append(records, indexer.Record{
				Id:       fmt.Sprintf("%s_%d_%d", src.Id, rowIdx, chunkIdx),
				Vector:   vectors[chunkIdx],
				Metadata: buildMetadata(src, rowIdx, chunkIdx, chunk, row),
			})
		}
	}

	for _, batch := range indexer.Batches(records, indexer.DefaultBatchSize) {
		if err := s.indexer.Upsert(ctx, batch); err != nil {
			return fmt.Errorf("upsert vectors: %w", err)
		}
	}

	return nil
}

func buildMetadata(src registry.Source, rowIdx int, chunkIdx int, chunk string, row parser.Row) map[string]any {
	metadata := map[string]any{
		"source_id":   src.Id,
		"row_index":   rowIdx,
		"chunk_index": chunkIdx,
		"text":        chunk,
		"url":         src.Url,
	}

	for _, field := range row {
		if len(field.Value) == 0 {
			continue
		}
		key := strings.ToLower(strings.ReplaceAll(field.Column, " ", "_"))
		metadata[key] = field.Value
	}

	return metadata
}

func New(
	reg registry.Registry,
	fet fetcher.Fetcher,
	chu *chunker.Chunker,
	emb embedder.Embedder,
	idx indexer.Indexer,
	limit int,
) *Service {
	return &Service{
		registry: reg,
		fetcher:  fet,
		chunker:  chu,
		embedder: emb,
		indexer:  idx,
		limit:    limit,
	}
}
