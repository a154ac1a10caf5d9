// Package flows implements the prompt actions: typed request/response
// operations that format application data into a natural-language
// instruction, delegate to a text-generation provider configured for JSON
// output, and validate the shape of the response before returning it.
package flows

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"therapie-companion/llm"
)

// Typed failures. Every error returned by a flow wraps exactly one of
// these, whether the provider call failed or its response had the wrong
// shape.
var (
	ErrAnalysis      = errors.New("mental state analysis failed")
	ErrChat          = errors.New("chat interaction failed")
	ErrVisualization = errors.New("mental state visualization failed")
)

// Flows runs the prompt actions against a provider. It holds no other
// state and never writes to the store; persisting results is the caller's
// job.
type Flows struct {
	provider llm.Provider
}

// New creates a Flows layer over the given provider
func New(provider llm.Provider) *Flows {
	return &Flows{provider: provider}
}

// completeJSON renders tmpl with data, sends it as the user message
// (optionally preceded by a system message), and decodes the provider's
// output into out.
func (f *Flows) completeJSON(ctx context.Context, system string, tmpl *template.Template, data, out any) error {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render prompt: %w", err)
	}

	var messages []llm.Message
	if system != "" {
		messages = append(messages, llm.Message{Role: "system", Content: system})
	}
	messages = append(messages, llm.Message{Role: "user", Content: buf.String()})

	raw, err := f.provider.Complete(ctx, messages)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	return nil
}

func mustTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Parse(text))
}
