package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/w-h-a/realty/registry"
	_ "modernc.org/sqlite"
)

type sqliteRegistry struct {
	options registry.Options
	conn    *sql.DB
}

func (r *sqliteRegistry) List(ctx context.Context) ([]registry.Source, error) {
	query := `
		SELECT id, url, status, error_message, created_at, updated_at
		FROM sources
		ORDER BY created_at
	`

	rows, err := r.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []registry.Source

	for rows.Next() {
		src, err := scan(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, *src)
	}

	if sources == nil {
		sources = []registry.Source{}
	}

	return sources, rows.Err()
}

func (r *sqliteRegistry) Get(ctx context.Context, id string) (*registry.Source, error) {
	query := `
		SELECT id, url, status, error_message, created_at, updated_at
		FROM sources
		WHERE id = ?
	`

	row := r.conn.QueryRowContext(ctx, query, id)

	src, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, registry.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return src, nil
}

func (r *sqliteRegistry) Create(ctx context.Context, url string) (*registry.Source, error) {
	now := time.Now().UTC()

	src := registry.Source{
		Id:        uuid.New().String(),
		Url:       url,
		Status:    registry.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `
		INSERT INTO sources (id, url, status, error_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	if _, err := r.conn.ExecContext(
		ctx,
		query,
		src.Id,
		src.Url,
		string(src.Status),
		src.ErrorMessage,
		src.CreatedAt.Format(time.RFC3339Nano),
		src.UpdatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return nil, err
	}

	return &src, nil
}

func (r *sqliteRegistry) UpdateStatus(ctx context.Context, id string, status registry.Status, errorMessage string) error {
	query := `
		UPDATE sources
		SET status = ?,
			updated_at = ?,
			error_message = CASE WHEN length(?) > 0 THEN ? ELSE error_message END
		WHERE id = ?
	`

	result, err := r.conn.ExecContext(
		ctx,
		query,
		string(status),
		time.Now().UTC().Format(time.RFC3339Nano),
		errorMessage,
		errorMessage,
		id,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return registry.ErrNotFound
	}

	return nil
}

func (r *sqliteRegistry) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.conn.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *sqliteRegistry) configure() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sources (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			status TEXT NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`

	_, err := r.conn.Exec(schema)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(row scanner) (*registry.Source, error) {
	var src registry.Source
	var status, createdAt, updatedAt string

	if err := row.Scan(&src.Id, &src.Url, &status, &src.ErrorMessage, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	src.Status = registry.Status(status)

	var err error
	if src.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if src.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &src, nil
}

func NewRegistry(opts ...registry.Option) registry.Registry {
	options := registry.NewOptions(opts...)

	if len(options.Location) == 0 {
		panic("missing location for sqlite registry")
	}

	conn, err := sql.Open("sqlite", options.Location)
	if err != nil {
		panic(err)
	}

	// the whole-collection rewrite semantics of the file registry do not
	// need more than one writer here either
	conn.SetMaxOpenConns(1)

	r := &sqliteRegistry{
		options: options,
		conn:    conn,
	}

	if err := r.configure(); err != nil {
		panic(err)
	}

	return r
}
