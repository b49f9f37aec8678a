// Package drafting turns free-text input into item drafts and short insight
// messages using a generative text service. Every call degrades to a local
// fallback; callers never see an error.
package drafting

import (
	"context"
	"errors"
)

var (
	// ErrNotConfigured is returned by a generator without credentials.
	ErrNotConfigured = errors.New("drafting: generator not configured")

	// ErrEmptyResponse is returned when the service answers without text.
	ErrEmptyResponse = errors.New("drafting: empty response")

	// ErrRateLimited is returned when the local request budget is spent.
	ErrRateLimited = errors.New("drafting: rate limited")
)

// Prompt is a single generation request.
type Prompt struct {
	Text string
	// JSON asks the service to answer with a JSON document only.
	JSON bool
}

// Generator is the black-box text service.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, p Prompt) (string, error)

// Generate implements Generator.
func (f GeneratorFunc) Generate(ctx context.Context, p Prompt) (string, error) {
	return f(ctx, p)
}
