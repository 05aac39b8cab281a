package indexer

import "context"

type Option func(*Options)

type Options struct {
	Location  string
	ApiKey    string
	Index     string
	Dimension int
	Metric    string
	Cloud     string
	Region    string
	Context   context.Context
}

func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithIndex(index string) Option {
	return func(o *Options) {
		o.Index = index
	}
}

func WithDimension(dimension int) Option {
	return func(o *Options) {
		o.Dimension = dimension
	}
}

func WithMetric(metric string) Option {
	return func(o *Options) {
		o.Metric = metric
	}
}

func WithCloud(cloud string) Option {
	return func(o *Options) {
		o.Cloud = cloud
	}
}

func WithRegion(region string) Option {
	return func(o *Options) {
		o.Region = region
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		Metric:  "cosine",
		Cloud:   "aws",
		Region:  "us-east-1",
		Context: context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
