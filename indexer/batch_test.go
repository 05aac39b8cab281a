package indexer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRecords(n int) []Record {
	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, Record{Id: fmt.Sprintf("src_%d_0", i)})
	}
	return records
}

func TestBatches(t *testing.T) {
	tests := []struct {
		records int
		size    int
		want    []int
	}{
		{records: 0, size: 100, want: []int{}},
		{records: 1, size: 100, want: []int{1}},
		{records: 100, size: 100, want: []int{100}},
		{records: 101, size: 100, want: []int{100, 1}},
		{records: 250, size: 100, want: []int{100, 100, 50}},
	}

	for _, test := range tests {
		t.Run(fmt.Sprintf("%d records", test.records), func(t *testing.T) {
			batches := Batches(makeRecords(test.records), test.size)
			require.Len(t, batches, len(test.want))

			seen := 0
			for i, batch := range batches {
				assert.Len(t, batch, test.want[i])
				for _, rec := range batch {
					assert.Equal(t, fmt.Sprintf("src_%d_0", seen), rec.Id)
					seen++
				}
			}
		})
	}
}

func TestBatches_DefaultsInvalidSize(t *testing.T) {
	batches := Batches(makeRecords(101), 0)
	require.Len(t, batches, 2)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
}
