package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var openaiHTTPClient = &http.Client{Timeout: 30 * time.Second}

// Upstream throttling errors. Handlers translate these into the always-200
// chat contract instead of propagating the HTTP status.
var (
	ErrRateLimited   = errors.New("chat completion rate limited")
	ErrQuotaExceeded = errors.New("chat completion quota exceeded")
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultOpenAIModel   = "gpt-4o-mini"
)

// OpenAIService calls the hosted chat-completions endpoint.
type OpenAIService struct {
	apiKey  string
	model   string
	baseURL string
}

// NewOpenAIService constructs an OpenAIService, falling back to the default
// model and base URL when unset.
func NewOpenAIService(apiKey, model, baseURL string) *OpenAIService {
	if model == "" {
		model = defaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &OpenAIService{
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// ChatCompletion sends a system and user prompt pair and returns the first
// reply. Rate-limit and quota responses map to the sentinel errors above.
func (s *OpenAIService) ChatCompletion(systemPrompt, userPrompt string) (string, error) {
	if s.apiKey == "" {
		return "", errors.New("OPENAI_API_KEY is not configured")
	}

	payload := chatCompletionRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal chat completion payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := openaiHTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute chat completion request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat completion response: %w", err)
	}

	var parsed chatCompletionResponse
	// Body may not be JSON on gateway errors; the status checks below still apply.
	_ = json.Unmarshal(respBody, &parsed)

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		// The upstream reports exhausted quota with 429 too; tell them apart
		// by the error type.
		if parsed.Error != nil && parsed.Error.Type == "insufficient_quota" {
			return "", ErrQuotaExceeded
		}
		return "", ErrRateLimited
	case http.StatusPaymentRequired:
		return "", ErrQuotaExceeded
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("chat completion failed: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("chat completion error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("chat completion response has no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
