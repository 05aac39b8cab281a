package fetcher

import (
	"context"
	"errors"
)

// ErrStatus marks a non-success response from the source host.
var ErrStatus = errors.New("unexpected response status")

type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
