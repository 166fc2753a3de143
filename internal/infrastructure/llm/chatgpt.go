package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"launchscanner/internal/config"
	"launchscanner/internal/ports"
)

// ChatGPTClient implements ports.ChatClient backed by OpenAI-compatible APIs.
type ChatGPTClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.ChatClient = (*ChatGPTClient)(nil)

// NewChatGPTClient builds a client from configuration.
func NewChatGPTClient(cfg config.OpenAIConfig) *ChatGPTClient {
	return &ChatGPTClient{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete posts one chat-completion request and returns the assistant
// message content. Failures carry a ports.FailureReason so callers can pick
// their fallback without matching error strings.
func (c *ChatGPTClient) Complete(ctx context.Context, req ports.ChatRequest) (string, error) {
	if c == nil {
		return "", ports.NewAnnotatorError(ports.ReasonUnknown, fmt.Errorf("chatgpt client is nil"))
	}
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", ports.NewAnnotatorError(ports.ReasonUnknown, fmt.Errorf("chatgpt client misconfigured"))
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": req.System},
			{"role": "user", "content": req.User},
		},
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
	})
	if err != nil {
		return "", ports.NewAnnotatorError(ports.ReasonUnknown, fmt.Errorf("marshal chatgpt payload: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", ports.NewAnnotatorError(ports.ReasonUnknown, fmt.Errorf("new request: %w", err))
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", ports.NewAnnotatorError(classifyTransportError(err), fmt.Errorf("send completion: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", ports.NewAnnotatorError(ports.ReasonRateLimited, fmt.Errorf("chatgpt error %s", resp.Status))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", ports.NewAnnotatorError(ports.ReasonUnknown,
			fmt.Errorf("chatgpt error %s: %s", resp.Status, strings.TrimSpace(string(payload))))
	}

	var decoded completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", ports.NewAnnotatorError(ports.ReasonInvalidResponse, fmt.Errorf("decode completion: %w", err))
	}
	if len(decoded.Choices) == 0 {
		return "", ports.NewAnnotatorError(ports.ReasonInvalidResponse, fmt.Errorf("completion has no choices"))
	}

	return decoded.Choices[0].Message.Content, nil
}

func classifyTransportError(err error) ports.FailureReason {
	if errors.Is(err, context.DeadlineExceeded) {
		return ports.ReasonTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ports.ReasonTimeout
	}
	return ports.ReasonUnknown
}
