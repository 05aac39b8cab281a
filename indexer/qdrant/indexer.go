package qdrant

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
	"time"

	"github.com/google/uuid"
	"github.com/w-h-a/realty/indexer"
	getsafe "github.com/w-h-a/realty/util/get_safe"
)

// record ids are carried in the payload because qdrant only accepts UUIDs
// or unsigned ints as point ids; the point id is a UUIDv5 of the record id
// so re-ingestion still overwrites the same points.
const recordIdKey = "_record_id"

var pointNamespace = uuid.MustParse("9b1f0a48-26a1-4c7e-8a3c-0d5f77a2b6c1")

type qdrantIndexer struct {
	options indexer.Options
	client  *http.Client
}

func (s *qdrantIndexer) Ensure(ctx context.Context) error {
	exists, err := s.collectionExists(ctx)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	return s.createCollection(ctx)
}

func (s *qdrantIndexer) Upsert(ctx context.Context, records []indexer.Record) error {
	points := make([]map[string]any, 0, len(records))

	for _, rec := range records {
		payload := map[string]any{}
		for k, v := range rec.Metadata {
			payload[k] = v
		}
		payload[recordIdKey] = rec.Id

		points = append(points, map[string]any{
			"id":      uuid.NewSHA1(pointNamespace, []byte(rec.Id)).String(),
			"vector":  rec.Vector,
			"payload": payload,
		})
	}

	req := map[string]any{
		"points": points,
	}

	var rsp qdrantEnvelope[json.RawMessage]

	path := fmt.Sprintf("/collections/%s/points?wait=true", url.PathEscape(s.options.Index))

	if err := s.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		return err
	}

	if !strings.EqualFold(rsp.Status.State, "ok") && len(rsp.Status.Error) > 0 {
		return errors.New(rsp.Status.Error)
	}

	return nil
}

func (s *qdrantIndexer) Search(ctx context.Context, vector []float32, k int) ([]indexer.Match, error) {
	if k < 1 {
		return nil, nil
	}

	req := map[string]any{
		"vector":       vector,
		"limit":        k,
		"with_payload": true,
	}

	var rsp qdrantEnvelope[[]qdrantPointResult]

	path := fmt.Sprintf("/collections/%s/points/search", url.PathEscape(s.options.Index))

	if err := s.do(ctx, http.MethodPost, path, req, &rsp); err != nil {
		return nil, err
	}

	matches := make([]indexer.Match, 0, len(rsp.Result))

	for _, point := range rsp.Result {
		id := getsafe.String(point.Payload, recordIdKey)
		if len(id) == 0 {
			id = point.Id
		}

		metadata := make(map[string]any, len(point.Payload))
		for k, v := range point.Payload {
			if k == recordIdKey {
				continue
			}
			metadata[k] = v
		}

		matches = append(matches, indexer.Match{
			Id:       id,
			Score:    float32(point.Score),
			Metadata: metadata,
		})
	}

	return matches, nil
}

func (s *qdrantIndexer) do(ctx context.Context, method string, path string, req any, rsp any) error {
	u := s.options.Location + path
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

	if len(s.options.ApiKey) > 0 {
		request.Header.Set("api-key", s.options.ApiKey)
		request.Header.Set("Authorization", "Bearer "+s.options.ApiKey)
	}

	response, err := s.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	payload, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode >= 400 {
		return fmt.Errorf("qdrant http %d: %s", response.StatusCode, string(payload))
	}

	if rsp != nil && len(payload) > 0 {
		if err := json.Unmarshal(payload, rsp); err != nil {
			return err
		}
	}

	return nil
}

func (s *qdrantIndexer) collectionExists(ctx context.Context) (bool, error) {
	path := fmt.Sprintf("/collections/%s", url.PathEscape(s.options.Index))

	var rsp qdrantEnvelope[json.RawMessage]

	err := s.do(ctx, http.MethodGet, path, nil, &rsp)
	if err != nil {
		if strings.Contains(err.Error(), "404") {
			return false, nil
		}
		return false, err
	}

	return strings.EqualFold(rsp.Status.State, "ok"), nil
}

func (s *qdrantIndexer) createCollection(ctx context.Context) error {
	distance := "Cosine"
	switch strings.ToLower(s.options.Metric) {
	case "euclid", "euclidean", "l2":
		distance = "Euclid"
	case "dot":
		distance = "Dot"
	}

	req := map[string]any{
		"vectors": map[string]any{
			"size":     s.options.Dimension,
			"distance": distance,
		},
	}

	path := fmt.Sprintf("/collections/%s", url.PathEscape(s.options.Index))

	var rsp qdrantEnvelope[json.RawMessage]

	if err := s.do(ctx, http.MethodPut, path, req, &rsp); err != nil {
		return err
	}

	if !strings.EqualFold(rsp.Status.State, "ok") && len(rsp.Status.Error) > 0 {
		return errors.New(rsp.Status.Error)
	}

	return nil
}

func NewIndexer(opts ...indexer.Option) indexer.Indexer {
	options := indexer.NewOptions(opts...)

	if len(options.Location) == 0 ||
		len(options.Index) == 0 ||
		options.Dimension == 0 {
		panic("missing location, index name, or dimension for qdrant indexer")
	}

	client := &http.Client{
		Timeout: 15 * time.Second,
	}

	return &qdrantIndexer{
		options: options,
		client:  client,
	}
}
