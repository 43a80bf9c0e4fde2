package model

import "context"

// Settings carries the generation parameters forwarded to a provider.
// All fields are optional; zero values mean "use the provider default" and
// adapters skip them when building requests. Defaults are owned by the
// provider, never by this package.
type Settings struct {
	// MaxTokens caps the completion length.
	MaxTokens int64 `json:"max_tokens,omitempty"`
	// Temperature controls sampling randomness.
	Temperature float64 `json:"temperature,omitempty"`
	// TopP is the nucleus-sampling threshold.
	TopP float64 `json:"top_p,omitempty"`
	// TopK limits sampling to the K most likely tokens. Not supported by
	// every provider; unsupported adapters ignore it.
	TopK int64 `json:"top_k,omitempty"`
	// PresencePenalty discourages tokens already present in the context.
	PresencePenalty float64 `json:"presence_penalty,omitempty"`
	// FrequencyPenalty discourages frequently repeated tokens.
	FrequencyPenalty float64 `json:"frequency_penalty,omitempty"`
	// StopSequences terminate generation when produced.
	StopSequences []string `json:"stop_sequences,omitempty"`
	// Seed requests deterministic sampling where the provider supports it.
	Seed int64 `json:"seed,omitempty"`
	// MaxRetries is a passthrough retry budget interpreted by the provider
	// SDK, never by this layer.
	MaxRetries int `json:"max_retries,omitempty"`
	// Headers are additional transport headers attached to each request.
	Headers map[string]string `json:"headers,omitempty"`
}

// TokenUsage captures token accounting for a single generation.
// TotalTokens = PromptTokens + CompletionTokens is upheld by providers and
// assumed by consumers.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// TextRequest is the input for free-text generation. System is optional;
// empty means no system message is sent.
type TextRequest struct {
	System   string   `json:"system,omitempty"`
	Prompt   string   `json:"prompt"`
	Settings Settings `json:"settings"`
}

// TextResult is the output of free-text generation.
type TextResult struct {
	Text  string     `json:"text"`
	Usage TokenUsage `json:"usage"`
}

// ObjectRequest is the input for structured-object generation. Schema is a
// JSON schema describing the expected object shape.
type ObjectRequest struct {
	System   string         `json:"system,omitempty"`
	Prompt   string         `json:"prompt"`
	Schema   map[string]any `json:"schema"`
	Settings Settings       `json:"settings"`
}

// ObjectResult is the output of structured-object generation. Object conforms
// to the request schema.
type ObjectResult struct {
	Object map[string]any `json:"object"`
	Usage  TokenUsage     `json:"usage"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name               string `json:"name"`
	Provider           string `json:"provider"` // "openai", "anthropic", "mock", etc.
	SupportsStructured bool   `json:"supports_structured"`
}

// Model is the generation capability required by invokers. Both operations
// block until the provider responds and honor context cancellation. Failures
// (network, auth, validation, quota) surface as provider-defined errors that
// callers propagate unmodified.
type Model interface {
	GenerateText(ctx context.Context, req TextRequest) (*TextResult, error)
	GenerateObject(ctx context.Context, req ObjectRequest) (*ObjectResult, error)

	// Info returns information about the model implementation.
	Info() Info
}
