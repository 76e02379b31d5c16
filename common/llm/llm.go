package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
)

// Provider constants for capability selection.
const (
	ProviderOpenAI = "openai"
	ProviderOff    = "off"
)

// ErrUnavailable marks a model capability that is not configured or failed
// to initialize. Callers recover by falling back to their deterministic
// stage; it never surfaces to the end user.
var ErrUnavailable = errors.New("model capability unavailable")

// Config holds model capability configuration. Provider is a plain string
// chosen at startup; "off" or a missing API key disables both capabilities.
type Config struct {
	Provider   string
	APIKey     string
	BaseURL    string
	EmbedModel string
	GenModel   string
	MaxTokens  int
}

// Embedder is the "embed(text) → vector" capability.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	Model() string
}

// Generator is the "generate(prompt) → text" capability with structured
// output: the response is unmarshaled into result via a JSON schema.
type Generator interface {
	Generate(ctx context.Context, req Request, result any) (*Response, error)
	Model() string
}

// Request contains the prompts and output schema for one generation.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	SchemaName   string
	Schema       any
	MaxTokens    int
	Temperature  *float64 // nil = model default, explicit 0 = deterministic
}

// Response carries token accounting for observability.
type Response struct {
	PromptTokens     int
	CompletionTokens int
}

// NewEmbedder creates the embedding capability for the configured provider.
// Returns ErrUnavailable when the provider is off or unconfigured.
func NewEmbedder(cfg Config) (Embedder, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, ErrUnavailable
		}
		return newOpenAIEmbedder(cfg), nil
	case ProviderOff, "":
		return nil, ErrUnavailable
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

// NewGenerator creates the text-generation capability for the configured
// provider. Returns ErrUnavailable when the provider is off or unconfigured.
func NewGenerator(cfg Config) (Generator, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, ErrUnavailable
		}
		return newOpenAIGenerator(cfg), nil
	case ProviderOff, "":
		return nil, ErrUnavailable
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

// GenerateSchema builds a strict JSON schema for a response type.
func GenerateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// Temp returns a pointer to a temperature value.
func Temp(t float64) *float64 {
	return &t
}

// IsRetryable reports whether an inference error is worth retrying.
func IsRetryable(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		slog.DebugContext(ctx, "llm error not retryable: context cancelled or deadline exceeded")
		return false
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 429:
			slog.WarnContext(ctx, "llm rate limited, will retry", "status_code", apiErr.StatusCode)
			return true
		case apiErr.StatusCode >= 500:
			slog.WarnContext(ctx, "llm server error, will retry", "status_code", apiErr.StatusCode)
			return true
		default:
			slog.ErrorContext(ctx, "llm client error, not retryable",
				"status_code", apiErr.StatusCode,
				"error_type", apiErr.Type,
				"error_code", apiErr.Code)
			return false
		}
	}

	// Network errors (no API response) are generally retryable
	slog.WarnContext(ctx, "llm network error, will retry", "error", err)
	return true
}
