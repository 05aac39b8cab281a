package registry

import (
	"context"
	"errors"
	"time"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var ErrNotFound = errors.New("source not found")

type Source struct {
	Id           string    `json:"id"`
	Url          string    `json:"url"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

type Registry interface {
	List(ctx context.Context) ([]Source, error)
	Get(ctx context.Context, id string) (*Source, error)
	Create(ctx context.Context, url string) (*Source, error)
	UpdateStatus(ctx context.Context, id string, status Status, errorMessage string) error
	Delete(ctx context.Context, id string) (bool, error)
}
