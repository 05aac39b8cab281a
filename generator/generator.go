package generator

import "context"

type Generator interface {
	// Generate produces one completion for a system instruction plus a
	// user message.
	Generate(ctx context.Context, system string, user string) (string, error)
}
