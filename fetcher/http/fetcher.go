package http

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/w-h-a/realty/fetcher"
)

type httpFetcher struct {
	options fetcher.Options
	client  *http.Client
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	response, err := f.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch file: HTTP %d: %w", response.StatusCode, fetcher.ErrStatus)
	}

	return io.ReadAll(response.Body)
}

func NewFetcher(opts ...fetcher.Option) fetcher.Fetcher {
	options := fetcher.NewOptions(opts...)

	client := &http.Client{
		Timeout: options.Timeout,
	}

	return &httpFetcher{
		options: options,
		client:  client,
	}
}
