package llm

import (
	"context"
	"errors"
)

// ErrUnknownProvider is returned by the factory for an unsupported provider name.
var ErrUnknownProvider = errors.New("unsupported LLM provider")

// TokenHandler receives generated tokens in order.
type TokenHandler func(token string)

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Generator defines the contract for any streaming text backend.
type Generator interface {
	// Generate generates a reply to prompt, calling onToken for every token.
	// It returns ctx.Err() when ctx is cancelled before completion.
	Generate(ctx context.Context, prompt string, onToken TokenHandler, options ...Option) error
}
