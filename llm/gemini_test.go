package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geminiReply(text string) string {
	body, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]any{{"text": text}},
				"role":  "model",
			},
			"finishReason": "STOP",
		}},
	})
	return string(body)
}

func TestGeminiConvertMessages(t *testing.T) {
	p := &GeminiProvider{}

	cases := map[string]struct {
		in        []Message
		wantTexts []string
	}{
		"system folded into first user message": {
			in: []Message{
				{Role: "system", Content: "Be kind."},
				{Role: "user", Content: "Hello"},
			},
			wantTexts: []string{"Be kind.\n\nHello"},
		},
		"multiple system prompts joined": {
			in: []Message{
				{Role: "system", Content: "Be kind."},
				{Role: "system", Content: "Answer in JSON."},
				{Role: "user", Content: "Hello"},
			},
			wantTexts: []string{"Be kind.\n\nAnswer in JSON.\n\nHello"},
		},
		"no system prompt": {
			in:        []Message{{Role: "user", Content: "Hello"}},
			wantTexts: []string{"Hello"},
		},
		"later user messages untouched": {
			in: []Message{
				{Role: "system", Content: "Be kind."},
				{Role: "user", Content: "Hello"},
				{Role: "user", Content: "Again"},
			},
			wantTexts: []string{"Be kind.\n\nHello", "Again"},
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			contents := p.convertMessages(tc.in)
			require.Len(t, contents, len(tc.wantTexts))
			for i, want := range tc.wantTexts {
				assert.Equal(t, "user", contents[i].Role)
				require.Len(t, contents[i].Parts, 1)
				assert.Equal(t, want, contents[i].Parts[0].Text)
			}
		})
	}
}

func TestGeminiComplete(t *testing.T) {
	var gotPath, gotKey string
	var gotReq GeminiRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiReply("```json\n{\"aiResponse\":\"Hello!\"}\n```")))
	}))
	defer srv.Close()

	p, err := NewGeminiProvider(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gemini-1.5-flash",
	})
	require.NoError(t, err)

	out, err := p.Complete(context.Background(), []Message{
		{Role: "system", Content: "Be kind."},
		{Role: "user", Content: "Hello"},
	})
	require.NoError(t, err)

	// Fenced output is cleaned before callers parse it
	assert.Equal(t, `{"aiResponse":"Hello!"}`, out)

	assert.Equal(t, "/models/gemini-1.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)

	// Response is pinned to JSON and the system prompt rides the first
	// user message
	require.NotNil(t, gotReq.GenerationConfig)
	assert.Equal(t, "application/json", gotReq.GenerationConfig.ResponseMimeType)
	require.Len(t, gotReq.Contents, 1)
	assert.Equal(t, "user", gotReq.Contents[0].Role)
	assert.Equal(t, "Be kind.\n\nHello", gotReq.Contents[0].Parts[0].Text)
	assert.NotEmpty(t, gotReq.SafetySettings)
}

func TestGeminiCompleteErrors(t *testing.T) {
	cases := map[string]struct {
		status  int
		body    string
		wantErr string
	}{
		"api error":     {http.StatusForbidden, `{"error":{"message":"key invalid"}}`, "status 403"},
		"no candidates": {http.StatusOK, `{"candidates":[]}`, "no candidates"},
		"empty content": {http.StatusOK, `{"candidates":[{"content":{"parts":[]}}]}`, "no content"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			p, err := NewGeminiProvider(Config{APIKey: "test-key", BaseURL: srv.URL})
			require.NoError(t, err)

			_, err = p.Complete(context.Background(), []Message{{Role: "user", Content: "Hello"}})
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tc.wantErr), "error %q", err)
		})
	}
}
