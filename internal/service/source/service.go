package source

import (
	"context"
	"errors"
	"strings"

	"github.com/w-h-a/realty/registry"
)

var (
	// ErrDisallowedURL marks a source URL outside the allowed host.
	ErrDisallowedURL = errors.New("only GitHub raw file URLs are allowed")

	// ErrDuplicateURL marks a URL that is already registered.
	ErrDuplicateURL = errors.New("this data source URL already exists")
)

type Service struct {
	registry    registry.Registry
	allowedHost string
}

func (s *Service) Create(ctx context.Context, url string) (*registry.Source, error) {
	if !strings.Contains(url, s.allowedHost) {
		return nil, ErrDisallowedURL
	}

	existing, err := s.registry.List(ctx)
	if err != nil {
		return nil, err
	}

	for _, src := range existing {
		if src.Url == url {
			return nil, ErrDuplicateURL
		}
	}

	return s.registry.Create(ctx, url)
}

func (s *Service) List(ctx context.Context) ([]registry.Source, error) {
	return s.registry.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*registry.Source, error) {
	return s.registry.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	return s.registry.Delete(ctx, id)
}

func New(reg registry.Registry, allowedHost string) *Service {
	if len(allowedHost) == 0 {
		allowedHost = "raw.githubusercontent.com"
	}

	return &Service{
		registry:    reg,
		allowedHost: allowedHost,
	}
}
