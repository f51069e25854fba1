package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() SamplingParams {
	return SamplingParams{
		Temperature:      0.8,
		MaxTokens:        3000,
		TopP:             1,
		FrequencyPenalty: 0.5,
		PresencePenalty:  0.5,
	}
}

func TestOpenAIGenerator_Success(t *testing.T) {
	var gotReq oaiChatRequest
	var gotAuth string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Once upon a time.  "}}]}`))
	}))
	defer ts.Close()

	gen := NewOpenAIGenerator(ts.URL+"/v1", "sk-test", "gpt-4o-mini", testParams(), 5*time.Second)

	text, err := gen.Generate(context.Background(), "tell me a story")
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time.", text, "response should be trimmed")

	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "tell me a story", gotReq.Messages[0].Content)
	assert.Equal(t, 3000, gotReq.MaxTokens)
	assert.InDelta(t, 0.8, gotReq.Temperature, 1e-9)
	assert.InDelta(t, 1.0, gotReq.TopP, 1e-9)
	assert.InDelta(t, 0.5, gotReq.FrequencyPenalty, 1e-9)
	assert.InDelta(t, 0.5, gotReq.PresencePenalty, 1e-9)
}

func TestOpenAIGenerator_APIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit_error"}}`))
	}))
	defer ts.Close()

	gen := NewOpenAIGenerator(ts.URL+"/v1", "", "gpt-4o-mini", testParams(), 5*time.Second)

	_, err := gen.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestOpenAIGenerator_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	gen := NewOpenAIGenerator(ts.URL+"/v1", "", "gpt-4o-mini", testParams(), 5*time.Second)

	_, err := gen.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestOpenAIGenerator_MissingModel(t *testing.T) {
	gen := NewOpenAIGenerator("http://localhost:9/v1", "", "", testParams(), time.Second)

	_, err := gen.Generate(context.Background(), "prompt")
	require.Error(t, err)
}

func TestOpenAIGenerator_TransportError(t *testing.T) {
	// Nothing listens here; the request itself must fail.
	gen := NewOpenAIGenerator("http://127.0.0.1:1/v1", "", "gpt-4o-mini", testParams(), time.Second)

	_, err := gen.Generate(context.Background(), "prompt")
	require.Error(t, err)
}
