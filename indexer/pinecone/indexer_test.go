package pinecone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/w-h-a/realty/indexer"
)

// fakePinecone serves both the control plane and the data plane from one
// httptest server so the indexer's host resolution can point back at it.
type fakePinecone struct {
	server *httptest.Server

	indexExists bool
	created     *pineconeIndex
	upserted    []pineconeVector
	queries     []pineconeQueryRequest
	matches     []pineconeMatch
}

func newFakePinecone(t *testing.T, indexExists bool) *fakePinecone {
	f := &fakePinecone{indexExists: indexExists}

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Api-Key"))

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/indexes/listings":
			if !f.indexExists {
				http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
				return
			}
			json.NewEncoder(w).Encode(pineconeIndex{Name: "listings", Host: f.server.URL})
		case r.Method == http.MethodPost && r.URL.Path == "/indexes":
			var req pineconeIndex
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			f.created = &req
			f.indexExists = true
			req.Host = f.server.URL
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(req)
		case r.Method == http.MethodPost && r.URL.Path == "/vectors/upsert":
			var req pineconeUpsertRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			f.upserted = append(f.upserted, req.Vectors...)
			json.NewEncoder(w).Encode(map[string]int{"upsertedCount": len(req.Vectors)})
		case r.Method == http.MethodPost && r.URL.Path == "/query":
			var req pineconeQueryRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			f.queries = append(f.queries, req)
			json.NewEncoder(w).Encode(pineconeQueryResponse{Matches: f.matches})
		default:
			http.Error(w, "unexpected request: "+r.Method+" "+r.URL.Path, http.StatusBadRequest)
		}
	}))

	t.Cleanup(f.server.Close)

	return f
}

func (f *fakePinecone) newIndexer() indexer.Indexer {
	return NewIndexer(
		indexer.WithLocation(f.server.URL),
		indexer.WithApiKey("test-key"),
		indexer.WithIndex("listings"),
		indexer.WithDimension(3),
	)
}

func TestPineconeIndexer_EnsureCreatesMissingIndex(t *testing.T) {
	fake := newFakePinecone(t, false)
	idx := fake.newIndexer()

	require.NoError(t, idx.Ensure(context.Background()))

	require.NotNil(t, fake.created)
	assert.Equal(t, "listings", fake.created.Name)
	assert.Equal(t, 3, fake.created.Dimension)
	assert.Equal(t, "cosine", fake.created.Metric)
	assert.Equal(t, "aws", fake.created.Spec.Serverless.Cloud)
	assert.Equal(t, "us-east-1", fake.created.Spec.Serverless.Region)
}

func TestPineconeIndexer_EnsureIsIdempotent(t *testing.T) {
	fake := newFakePinecone(t, true)
	idx := fake.newIndexer()

	require.NoError(t, idx.Ensure(context.Background()))
	require.NoError(t, idx.Ensure(context.Background()))

	assert.Nil(t, fake.created)
}

func TestPineconeIndexer_Upsert(t *testing.T) {
	fake := newFakePinecone(t, true)
	idx := fake.newIndexer()

	records := []indexer.Record{
		{Id: "src_0_0", Vector: []float32{1, 2, 3}, Metadata: map[string]any{"text": "city: Austin"}},
		{Id: "src_0_1", Vector: []float32{4, 5, 6}, Metadata: map[string]any{"text": "price: 300000"}},
	}

	require.NoError(t, idx.Upsert(context.Background(), records))

	require.Len(t, fake.upserted, 2)
	assert.Equal(t, "src_0_0", fake.upserted[0].Id)
	assert.Equal(t, "city: Austin", fake.upserted[0].Metadata["text"])
}

func TestPineconeIndexer_Search(t *testing.T) {
	fake := newFakePinecone(t, true)
	fake.matches = []pineconeMatch{
		{Id: "src_0_0", Score: 0.92, Metadata: map[string]any{"text": "city: Austin"}},
		{Id: "src_1_0", Score: 0.81, Metadata: map[string]any{"text": "city: Dallas"}},
	}

	idx := fake.newIndexer()

	matches, err := idx.Search(context.Background(), []float32{1, 2, 3}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 2)

	assert.Equal(t, "src_0_0", matches[0].Id)
	assert.InDelta(t, 0.92, matches[0].Score, 1e-6)
	assert.Equal(t, "city: Austin", matches[0].Metadata["text"])

	require.Len(t, fake.queries, 1)
	assert.Equal(t, 5, fake.queries[0].TopK)
	assert.True(t, fake.queries[0].IncludeMetadata)
}
