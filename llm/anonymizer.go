package llm

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Anonymizer masks personally identifying details in text before it leaves
// the process and restores them in whatever comes back. Chat transcripts and
// questionnaire answers are free text typed by the user, so they can carry
// emails, phone numbers, and similar identifiers that the external model has
// no need to see.
type Anonymizer struct {
	mu       sync.RWMutex
	mapping  map[string]string // placeholder -> original
	reverse  map[string]string // original -> placeholder
	enabled  bool
	patterns []redactionPattern
}

// redactionPattern defines one class of sensitive value to detect
type redactionPattern struct {
	Name        string
	Regex       *regexp.Regexp
	Replacement string // placeholder template, e.g. "EMAIL_%s"
	Priority    int    // higher priority patterns are processed first
}

// NewAnonymizer creates an anonymizer with the default pattern set
func NewAnonymizer(enabled bool) *Anonymizer {
	a := &Anonymizer{
		mapping: make(map[string]string),
		reverse: make(map[string]string),
		enabled: enabled,
	}

	a.patterns = []redactionPattern{
		{
			Name:        "SSN",
			Regex:       regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
			Replacement: "SSN_%s",
			Priority:    90,
		},
		{
			Name:        "Email",
			Regex:       regexp.MustCompile(`\b[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}\b`),
			Replacement: "EMAIL_%s",
			Priority:    80,
		},
		{
			Name:        "URL",
			Regex:       regexp.MustCompile(`https?://[^\s\)\"\'<>]+`),
			Replacement: "URL_%s",
			Priority:    75,
		},
		{
			Name:        "Phone",
			Regex:       regexp.MustCompile(`\b(?:\+\d{1,3}[\s.\-]?)?(?:\(\d{3}\)|\d{3})[\s.\-]\d{3}[\s.\-]\d{4}\b`),
			Replacement: "PHONE_%s",
			Priority:    70,
		},
		{
			Name:        "IPv4 Address",
			Regex:       regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\b`),
			Replacement: "IP_ADDRESS_%s",
			Priority:    60,
		},
	}

	sort.Slice(a.patterns, func(i, j int) bool {
		return a.patterns[i].Priority > a.patterns[j].Priority
	})

	return a
}

// Anonymize replaces sensitive values in the text with stable placeholders.
// The same value always maps to the same placeholder, so repeated mentions
// across a transcript stay consistent.
func (a *Anonymizer) Anonymize(text string) string {
	if !a.IsEnabled() || text == "" {
		return text
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	result := text
	for _, pattern := range a.patterns {
		for _, original := range pattern.Regex.FindAllString(result, -1) {
			placeholder, seen := a.reverse[original]
			if !seen {
				placeholder = a.placeholder(pattern.Replacement, original)
				a.mapping[placeholder] = original
				a.reverse[original] = placeholder
			}
			result = strings.ReplaceAll(result, original, placeholder)
		}
	}

	return result
}

// Deanonymize restores the original values behind any placeholders in the
// text
func (a *Anonymizer) Deanonymize(text string) string {
	if !a.IsEnabled() || text == "" {
		return text
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	result := text
	for placeholder, original := range a.mapping {
		result = strings.ReplaceAll(result, placeholder, original)
	}

	return result
}

// Clear drops all stored mappings
func (a *Anonymizer) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.mapping = make(map[string]string)
	a.reverse = make(map[string]string)
}

// SetEnabled enables or disables anonymization
func (a *Anonymizer) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled reports whether anonymization is enabled
func (a *Anonymizer) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// MappingCount returns the number of values currently anonymized
func (a *Anonymizer) MappingCount() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.mapping)
}

// placeholder derives a stable placeholder for a value. Callers hold the
// write lock.
func (a *Anonymizer) placeholder(template, value string) string {
	hash := md5.Sum([]byte(value))
	return fmt.Sprintf(template, hex.EncodeToString(hash[:])[:8])
}

// AnonymizingProvider wraps a Provider so that outbound message content is
// anonymized before the request leaves the process and placeholders in the
// model's reply (or its error text) are restored afterwards. When the
// anonymizer is disabled the wrapper is a passthrough.
type AnonymizingProvider struct {
	inner Provider
	anon  *Anonymizer
}

// NewAnonymizingProvider wraps the given provider
func NewAnonymizingProvider(inner Provider, anon *Anonymizer) *AnonymizingProvider {
	return &AnonymizingProvider{inner: inner, anon: anon}
}

// Complete anonymizes the messages, forwards them, and deanonymizes the
// result
func (p *AnonymizingProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	if !p.anon.IsEnabled() {
		return p.inner.Complete(ctx, messages)
	}

	masked := make([]Message, len(messages))
	for i, msg := range messages {
		masked[i] = Message{Role: msg.Role, Content: p.anon.Anonymize(msg.Content)}
	}

	out, err := p.inner.Complete(ctx, masked)
	if err != nil {
		// Error text can echo request content, so restore it too
		return "", fmt.Errorf("%s", p.anon.Deanonymize(err.Error()))
	}

	return p.anon.Deanonymize(out), nil
}

// Name returns the wrapped provider's name
func (p *AnonymizingProvider) Name() string {
	return p.inner.Name()
}

// ValidateConfig validates the wrapped provider's configuration
func (p *AnonymizingProvider) ValidateConfig() error {
	return p.inner.ValidateConfig()
}
