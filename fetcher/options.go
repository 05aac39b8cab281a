package fetcher

import (
	"context"
	"time"
)

type Option func(*Options)

type Options struct {
	Timeout time.Duration
	Context context.Context
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Timeout: 15 * time.Second,
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
