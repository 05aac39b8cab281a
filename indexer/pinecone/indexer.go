package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/w-h-a/realty/indexer"
)

const controlPlane = "https://api.pinecone.io"

// pineconeIndexer talks to Pinecone over its REST surface: the control
// plane for index lifecycle and the per-index data-plane host for upserts
// and queries.
type pineconeIndexer struct {
	options indexer.Options
	client  *http.Client

	mtx  sync.Mutex
	host string
}

func (p *pineconeIndexer) Ensure(ctx context.Context) error {
	_, err := p.ensureHost(ctx)
	return err
}

func (p *pineconeIndexer) Upsert(ctx context.Context, records []indexer.Record) error {
	host, err := p.ensureHost(ctx)
	if err != nil {
		return err
	}

	vectors := make([]pineconeVector, 0, len(records))
	for _, rec := range records {
		vectors = append(vectors, pineconeVector{
			Id:       rec.Id,
			Values:   rec.Vector,
			Metadata: rec.Metadata,
		})
	}

	req := pineconeUpsertRequest{
		Vectors: vectors,
	}

	return p.do(ctx, http.MethodPost, host+"/vectors/upsert", req, nil)
}

func (p *pineconeIndexer) Search(ctx context.Context, vector []float32, k int) ([]indexer.Match, error) {
	if k < 1 {
		return nil, nil
	}

	host, err := p.ensureHost(ctx)
	if err != nil {
		return nil, err
	}

	req := pineconeQueryRequest{
		Vector:          vector,
		TopK:            k,
		IncludeMetadata: true,
	}

	var rsp pineconeQueryResponse

	if err := p.do(ctx, http.MethodPost, host+"/query", req, &rsp); err != nil {
		return nil, err
	}

	matches := make([]indexer.Match, 0, len(rsp.Matches))

	for _, match := range rsp.Matches {
		matches = append(matches, indexer.Match{
			Id:       match.Id,
			Score:    float32(match.Score),
			Metadata: match.Metadata,
		})
	}

	return matches, nil
}

// ensureHost resolves the index's data-plane host, creating the index on
// first use if it does not exist yet.
func (p *pineconeIndexer) ensureHost(ctx context.Context) (string, error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if len(p.host) > 0 {
		return p.host, nil
	}

	path := p.options.Location + "/indexes/" + url.PathEscape(p.options.Index)

	var described pineconeIndex

	err := p.do(ctx, http.MethodGet, path, nil, &described)
	if err == nil {
		return p.rememberHost(described.Host)
	}

	if !strings.Contains(err.Error(), "404") {
		return "", err
	}

	req := pineconeIndex{
		Name:      p.options.Index,
		Dimension: p.options.Dimension,
		Metric:    p.options.Metric,
		Spec: pineconeSpec{
			Serverless: pineconeServerless{
				Cloud:  p.options.Cloud,
				Region: p.options.Region,
			},
		},
	}

	var created pineconeIndex

	if err := p.do(ctx, http.MethodPost, p.options.Location+"/indexes", req, &created); err != nil {
		return "", err
	}

	return p.rememberHost(created.Host)
}

func (p *pineconeIndexer) rememberHost(host string) (string, error) {
	if len(host) == 0 {
		return "", errors.New("pinecone did not report a host for the index")
	}

	if !strings.HasPrefix(host, "http") {
		host = "https://" + host
	}

	p.host = host

	return p.host, nil
}

func (p *pineconeIndexer) do(ctx context.Context, method string, u string, req any, rsp any) error {
	var buf io.Reader
	if req != nil {
		data, err := json.Marshal(req)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return err
	}

	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Api-Key", p.options.ApiKey)

	response, err := p.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("pinecone http %d: %s", response.StatusCode, string(payload))
	}

	if rsp != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, rsp); err != nil {
			return err
		}
	}

	return nil
}

func NewIndexer(opts ...indexer.Option) indexer.Indexer {
	options := indexer.NewOptions(opts...)

	if len(options.Location) == 0 {
		options.Location = controlPlane
	}

	if len(options.ApiKey) == 0 ||
		len(options.Index) == 0 ||
		options.Dimension == 0 {
		panic("missing api key, index name, or dimension for pinecone indexer")
	}

	client := &http.Client{
		Timeout: 15 * time.Second,
	}

	return &pineconeIndexer{
		options: options,
		client:  client,
	}
}
