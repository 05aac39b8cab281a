package indexer

// DefaultBatchSize is how many records go into one upsert call.
const DefaultBatchSize = 100

// Batches splits records into consecutive slices of at most size records.
// Order is preserved within and across batches.
func Batches(records []Record, size int) [][]Record {
	if size < 1 {
		size = DefaultBatchSize
	}

	batches := [][]Record{}

	for start := 0; start < len(records); start += size {
		end := start + size
		if end > len(records) {
			end = len(records)
		}
		batches = append(batches, records[start:end])
	}

	return batches
}
