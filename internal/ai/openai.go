package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// SamplingParams are the generation parameters sent with every request.
// They are deployment configuration: fixed per process, never varied per
// request.
type SamplingParams struct {
	Temperature      float64
	MaxTokens        int
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// OpenAIGenerator calls any OpenAI-compatible /v1/chat/completions
// endpoint. Works with the OpenAI API itself as well as vLLM, LiteLLM,
// OpenRouter, and other compatible servers.
type OpenAIGenerator struct {
	baseURL    string
	apiKey     string
	model      string
	params     SamplingParams
	httpClient *http.Client
}

// NewOpenAIGenerator builds an OpenAI-compatible Generator. baseURL should
// include the /v1 prefix, e.g. "https://api.openai.com/v1". apiKey can be
// empty for local models that do not require authentication.
func NewOpenAIGenerator(baseURL, apiKey, model string, params SamplingParams, timeout time.Duration) *OpenAIGenerator {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	return &OpenAIGenerator{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		model:   strings.TrimSpace(model),
		params:  params,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Generate implements Generator using the chat completions API. A single
// synchronous request, whole-string result; no retries, no streaming.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.model == "" {
		return "", fmt.Errorf("generation model required")
	}

	reqBody := oaiChatRequest{
		Model:            g.model,
		Messages:         []oaiMessage{{Role: "user", Content: prompt}},
		MaxTokens:        g.params.MaxTokens,
		Temperature:      g.params.Temperature,
		TopP:             g.params.TopP,
		FrequencyPenalty: g.params.FrequencyPenalty,
		PresencePenalty:  g.params.PresencePenalty,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := g.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp oaiErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error.Message != "" {
			return "", fmt.Errorf("generation api error: %s", errResp.Error.Message)
		}
		return "", fmt.Errorf("generation api error: %s", resp.Status)
	}

	var chatResp oaiChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("generation decode: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from generation api")
	}
	text := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty response from generation api")
	}
	return text, nil
}

// OpenAI-compatible request/response types.

type oaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type oaiChatRequest struct {
	Model            string       `json:"model"`
	Messages         []oaiMessage `json:"messages"`
	MaxTokens        int          `json:"max_tokens"`
	Temperature      float64      `json:"temperature"`
	TopP             float64      `json:"top_p"`
	FrequencyPenalty float64      `json:"frequency_penalty"`
	PresencePenalty  float64      `json:"presence_penalty"`
}

type oaiChatResponse struct {
	Choices []struct {
		Message oaiMessage `json:"message"`
	} `json:"choices"`
}

type oaiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
