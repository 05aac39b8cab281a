package retriever

import (
	"context"

	"github.com/w-h-a/realty/embedder"
	"github.com/w-h-a/realty/indexer"
)

type Option func(*Options)

type Options struct {
	Embedder embedder.Embedder
	Indexer  indexer.Indexer
	Context  context.Context
}

func WithEmbedder(embedder embedder.Embedder) Option {
	return func(o *Options) {
		o.Embedder = embedder
	}
}

func WithIndexer(indexer indexer.Indexer) Option {
	return func(o *Options) {
		o.Indexer = indexer
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
