package retriever

import "context"

// Snippet is one scored piece of retrieved listing context.
type Snippet struct {
	Text     string         `json:"text"`
	Score    float32        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

type Retriever interface {
	// Retrieve returns up to k snippets relevant to the query, ordered by
	// descending score.
	Retrieve(ctx context.Context, query string, k int) ([]Snippet, error)
}
