package llm

import (
	"context"
	"errors"
)

// ErrGenerationFailure wraps any provider-side generation error that survives
// the caller's retry budget.
var ErrGenerationFailure = errors.New("llm generation failure")

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// StreamChunk is one unit of streamed model output. Err, when non-nil, is the
// terminal condition of the stream; no chunks follow it.
type StreamChunk struct {
	Text string
	Done bool
	Err  error
}

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

// BuildOptions folds a list of Option into a populated Options value.
func BuildOptions(opts ...Option) *Options {
	options := &Options{
		Temperature: 0.7,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the full response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)

	// ChatStream sends a chat history and returns a channel of output chunks.
	// The channel is closed after a Done or Err chunk. Cancelling ctx stops
	// the stream.
	ChatStream(ctx context.Context, history []Message, options ...Option) (<-chan StreamChunk, error)
}
