package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/w-h-a/realty/generator"
	"github.com/w-h-a/realty/retriever"
)

const noDataMessage = "I don't have any property information available at the moment. Please make sure data sources are configured and ingested."

const systemPrompt = `You are a helpful real estate assistant. Your job is to help users find properties based on their requirements.

Use the property information provided to answer questions accurately. Always base your responses on the retrieved data, not on assumptions.

When providing information:
- Be specific about property details (location, price, type, etc.)
- If a user asks for booking links or contact information, provide them if available in the data
- If multiple properties match, present them clearly
- If no properties match the criteria, say so clearly
- Be conversational and helpful

Important: Only use information from the provided context. If information is not available, say so.`

type Service struct {
	retriever retriever.Retriever
	generator generator.Generator
	topK      int
}

// Answer retrieves context for the query and synthesizes a grounded
// response. It always returns some text: retrieval faults degrade to the
// no-data message and generation faults to an error description.
func (s *Service) Answer(ctx context.Context, query string) string {
	snippets, err := s.retriever.Retrieve(ctx, query, s.topK)
	if err != nil {
		slog.ErrorContext(ctx, "failed to retrieve context", "error", err)
		snippets = nil
	}

	return s.Generate(ctx, query, snippets)
}

// Generate composes the grounded prompt from the snippets and asks the
// chat model for a completion.
func (s *Service) Generate(ctx context.Context, query string, snippets []retriever.Snippet) string {
	if len(snippets) == 0 {
		return noDataMessage
	}

	sections := make([]string, 0, len(snippets))
	for i, snippet := range snippets {
		sections = append(sections, fmt.Sprintf("Property Information %d (Relevance: %.2f):\n%s", i+1, snippet.Score, snippet.Text))
	}

	user := fmt.Sprintf(`Based on the following property information, please answer the user's question.

Property Information:
%s

User Question: %s

Please provide a helpful and accurate response based only on the property information above.`, strings.Join(sections, "\n\n"), query)

	answer, err := s.generator.Generate(ctx, systemPrompt, user)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate answer", "error", err)
		return fmt.Sprintf("I encountered an error generating a response. Please try again. Error: %v", err)
	}

	return answer
}

func New(ret retriever.Retriever, gen generator.Generator, topK int) *Service {
	if topK < 1 {
		topK = 5
	}

	return &Service{
		retriever: ret,
		generator: gen,
		topK:      topK,
	}
}
