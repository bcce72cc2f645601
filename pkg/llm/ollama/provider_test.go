package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guarded-chat-be/pkg/llm"
)

func TestGenerate_ForwardsChunks(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		for _, part := range []string{"Standard", " kostar", " 299 kr."} {
			fmt.Fprintf(w, `{"model":"m","message":{"role":"assistant","content":%q},"done":false}`+"\n", part)
		}
		fmt.Fprintln(w, `{"model":"m","message":{"role":"assistant","content":""},"done":true}`)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")

	var sb strings.Builder
	err := p.Generate(context.Background(), "Vad kostar standard?", func(tok string) { sb.WriteString(tok) },
		llm.WithMaxTokens(64))

	require.NoError(t, err)
	assert.Equal(t, "Standard kostar 299 kr.", sb.String())
	assert.True(t, got.Stream)
	assert.Equal(t, "llama3", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "Vad kostar standard?", got.Messages[0].Content)
	assert.Equal(t, 64, got.Options.NumPredict)
}

func TestGenerate_ModelOverride(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		fmt.Fprintln(w, `{"message":{"content":"ok"},"done":true}`)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	require.NoError(t, p.Generate(context.Background(), "hej", func(string) {}, llm.WithModel("mistral")))
	assert.Equal(t, "mistral", got.Model)
}

func TestGenerate_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "missing")
	err := p.Generate(context.Background(), "hej", func(string) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestGenerate_ErrorChunk(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"error":"out of memory"}`)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "m")
	err := p.Generate(context.Background(), "hej", func(string) {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of memory")
}

func TestGenerate_MissingDoneMarker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"content":"half"},"done":false}`)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "m")
	err := p.Generate(context.Background(), "hej", func(string) {})
	require.Error(t, err)
}

func TestGenerate_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"content":"x"},"done":true}`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewOllamaProvider(srv.URL, "m")
	err := p.Generate(ctx, "hej", func(string) {})
	assert.ErrorIs(t, err, context.Canceled)
}
