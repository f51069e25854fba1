// Package ai builds story prompts and calls the external text-generation
// provider.
package ai

import "context"

// Generator produces story text from a fully rendered prompt. Implemented
// by the OpenAI-compatible client and by test stubs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
