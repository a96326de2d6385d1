package ports

import "context"

// Assistant sends one fully built prompt to a generative text provider and
// returns the answer text.
type Assistant interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
