// Package ai talks to an OpenAI-compatible generative text endpoint.
package ai

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured = errors.New("generative model is not configured")
	ErrEmptyResponse = errors.New("empty model response")
)

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ModelLister reports the model identifiers an endpoint offers.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}
