package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/w-h-a/realty/indexer"
	"go.nhat.io/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.20.0"
)

var DRIVER string

func init() {
	driver, err := otelsql.Register(
		"postgres",
		otelsql.TraceQueryWithoutArgs(),
		otelsql.TraceRowsClose(),
		otelsql.TraceRowsAffected(),
		otelsql.WithSystem(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		detail := "failed to register pg indexer with otel"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	DRIVER = driver
}

type postgresIndexer struct {
	options indexer.Options
	table   string
	conn    *sql.DB
}

// tableName maps an index name like "real-estate-properties" onto a valid
// unquoted SQL identifier.
func tableName(index string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, index)
}

func (p *postgresIndexer) Ensure(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				embedding vector(%d),
				metadata JSONB NOT NULL DEFAULT '{}'::jsonb
			)`,
			p.table,
			p.options.Dimension,
		),
		fmt.Sprintf(
			`CREATE INDEX IF NOT EXISTS %s_embedding_idx ON %s USING hnsw (embedding vector_cosine_ops)`,
			p.table,
			p.table,
		),
	}

	for _, statement := range statements {
		if _, err := p.conn.ExecContext(ctx, statement); err != nil {
			return err
		}
	}

	return nil
}

func (p *postgresIndexer) Upsert(ctx context.Context, records []indexer.Record) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (id, embedding, metadata)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET embedding = EXCLUDED.embedding,
			metadata = EXCLUDED.metadata`,
		p.table,
	)

	tx, err := p.conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		metaJSON, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, rec.Id, pgvector.NewVector(rec.Vector), metaJSON); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (p *postgresIndexer) Search(ctx context.Context, vector []float32, k int) ([]indexer.Match, error) {
	if k < 1 {
		return nil, nil
	}

	query := fmt.Sprintf(
		`SELECT id, metadata, 1 - (embedding <=> $1) AS score
		FROM %s
		ORDER BY embedding <=> $1
		LIMIT $2`,
		p.table,
	)

	rows, err := p.conn.QueryContext(ctx, query, pgvector.NewVector(vector), k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := []indexer.Match{}

	for rows.Next() {
		var match indexer.Match
		var metaJSON []byte
		var score float64

		if err := rows.Scan(&match.Id, &metaJSON, &score); err != nil {
			return nil, err
		}

		if len(metaJSON) > 0 {
			if err := json.Unmarshal(metaJSON, &match.Metadata); err != nil {
				return nil, fmt.Errorf("decode metadata: %w", err)
			}
		}

		match.Score = float32(score)

		matches = append(matches, match)
	}

	return matches, rows.Err()
}

func NewIndexer(opts ...indexer.Option) indexer.Indexer {
	options := indexer.NewOptions(opts...)

	if len(options.Location) == 0 ||
		len(options.Index) == 0 ||
		options.Dimension == 0 {
		panic("missing location, index name, or dimension for postgres indexer")
	}

	conn, err := sql.Open(DRIVER, options.Location)
	if err != nil {
		detail := "failed to connect to postgres"
		slog.ErrorContext(context.Background(), detail, "error", err)
		panic(detail)
	}

	return &postgresIndexer{
		options: options,
		table:   tableName(options.Index),
		conn:    conn,
	}
}
