package llm

import (
	"context"
	"fmt"
	"strings"
)

// Message represents one turn of a model exchange
type Message struct {
	Role    string `json:"role"` // "system" or "user"
	Content string `json:"content"`
}

// Provider interface defines the external text-generation capability.
// Implementations are configured to return a single JSON object per call;
// callers validate the shape of that object themselves.
type Provider interface {
	// Complete sends messages and returns the complete raw model output
	Complete(ctx context.Context, messages []Message) (string, error)

	// Name returns the provider name
	Name() string

	// ValidateConfig validates the provider configuration
	ValidateConfig() error
}

// Config represents provider configuration
type Config struct {
	ProviderName string // Display name for the provider
	APIKey       string
	BaseURL      string
	Model        string
	MaxTokens    int
	Temperature  float64
}

// NewProvider creates a provider by kind ("openai", "gemini", or "mock")
func NewProvider(kind string, config Config) (Provider, error) {
	switch strings.ToLower(kind) {
	case "openai", "":
		return NewOpenAIProvider(config)
	case "gemini":
		return NewGeminiProvider(config)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown provider kind: %q", kind)
	}
}

// StripCodeFence removes a surrounding markdown code fence from model
// output, which some models wrap around JSON despite instructions.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop an optional language tag on the opening fence
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first == "json" || first == "" {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}
