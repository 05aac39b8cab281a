package embedder

import "context"

type Embedder interface {
	// Embed returns one vector per input text, in input order. One call
	// may batch many texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
