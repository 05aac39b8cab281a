package chunker

import (
	"errors"
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Encoding is the tokenization scheme used for chunk boundaries. Chunk
// sizes are measured in cl100k_base tokens; changing this changes where
// every stored chunk splits, so it is part of the index's contract.
const Encoding = "cl100k_base"

// ErrInvalidConfig marks a window configuration that cannot make forward
// progress.
var ErrInvalidConfig = errors.New("invalid chunker configuration")

type Chunker struct {
	maxTokens     int
	overlapTokens int
	encoding      *tiktoken.Tiktoken
}

// Chunk splits text into windows of at most maxTokens tokens, each window
// starting maxTokens-overlapTokens tokens after the previous one. Empty
// text yields no chunks; anything else yields at least one.
func (c *Chunker) Chunk(text string) []string {
	tokens := c.encoding.Encode(text, nil, nil)

	chunks := []string{}

	for start := 0; start < len(tokens); start += c.maxTokens - c.overlapTokens {
		end := start + c.maxTokens
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, c.encoding.Decode(tokens[start:end]))
	}

	return chunks
}

func New(maxTokens int, overlapTokens int) (*Chunker, error) {
	if maxTokens < 1 {
		return nil, fmt.Errorf("%w: max tokens must be positive, got %d", ErrInvalidConfig, maxTokens)
	}

	if overlapTokens < 0 || overlapTokens >= maxTokens {
		return nil, fmt.Errorf("%w: overlap %d must be non-negative and less than max tokens %d", ErrInvalidConfig, overlapTokens, maxTokens)
	}

	encoding, err := tiktoken.GetEncoding(Encoding)
	if err != nil {
		return nil, fmt.Errorf("load %s encoding: %w", Encoding, err)
	}

	return &Chunker{
		maxTokens:     maxTokens,
		overlapTokens: overlapTokens,
		encoding:      encoding,
	}, nil
}
