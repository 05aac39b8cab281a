package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/w-h-a/realty/registry"
)

// fileRegistry keeps every source record in a single JSON file. Each
// mutation reads the whole collection, rewrites it, and flushes the whole
// file back. Last writer wins.
type fileRegistry struct {
	options registry.Options
	mtx     sync.Mutex
}

func (r *fileRegistry) List(ctx context.Context) ([]registry.Source, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return r.read()
}

func (r *fileRegistry) Get(ctx context.Context, id string) (*registry.Source, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	sources, err := r.read()
	if err != nil {
		return nil, err
	}

	for _, src := range sources {
		if src.Id == id {
			return &src, nil
		}
	}

	return nil, registry.ErrNotFound
}

func (r *fileRegistry) Create(ctx context.Context, url string) (*registry.Source, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	sources, err := r.read()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	src := registry.Source{
		Id:        uuid.New().String(),
		Url:       url,
		Status:    registry.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	sources = append(sources, src)

	if err := r.write(sources); err != nil {
		return nil, err
	}

	return &src, nil
}

func (r *fileRegistry) UpdateStatus(ctx context.Context, id string, status registry.Status, errorMessage string) error {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	sources, err := r.read()
	if err != nil {
		return err
	}

	found := false

	for i := range sources {
		if sources[i].Id != id {
			continue
		}
		sources[i].Status = status
		sources[i].UpdatedAt = time.Now().UTC()
		if len(errorMessage) > 0 {
			sources[i].ErrorMessage = errorMessage
		}
		found = true
		break
	}

	if !found {
		return registry.ErrNotFound
	}

	return r.write(sources)
}

func (r *fileRegistry) Delete(ctx context.Context, id string) (bool, error) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	sources, err := r.read()
	if err != nil {
		return false, err
	}

	kept := make([]registry.Source, 0, len(sources))
	for _, src := range sources {
		if src.Id != id {
			kept = append(kept, src)
		}
	}

	if len(kept) == len(sources) {
		return false, nil
	}

	if err := r.write(kept); err != nil {
		return false, err
	}

	return true, nil
}

func (r *fileRegistry) read() ([]registry.Source, error) {
	data, err := os.ReadFile(r.options.Location)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []registry.Source{}, nil
		}
		return nil, fmt.Errorf("read registry: %w", err)
	}

	if len(data) == 0 {
		return []registry.Source{}, nil
	}

	var sources []registry.Source
	if err := json.Unmarshal(data, &sources); err != nil {
		return nil, fmt.Errorf("decode registry: %w", err)
	}

	return sources, nil
}

func (r *fileRegistry) write(sources []registry.Source) error {
	data, err := json.MarshalIndent(sources, "", "  ")
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}

	if err := os.WriteFile(r.options.Location, data, 0o644); err != nil {
		return fmt.Errorf("write registry: %w", err)
	}

	return nil
}

func (r *fileRegistry) configure() error {
	if err := os.MkdirAll(filepath.Dir(r.options.Location), 0o755); err != nil {
		return err
	}

	if _, err := os.Stat(r.options.Location); errors.Is(err, os.ErrNotExist) {
		return r.write([]registry.Source{})
	}

	return nil
}

func NewRegistry(opts ...registry.Option) registry.Registry {
	options := registry.NewOptions(opts...)

	if len(options.Location) == 0 {
		panic("missing location for file registry")
	}

	r := &fileRegistry{
		options: options,
	}

	if err := r.configure(); err != nil {
		panic(err)
	}

	return r
}
