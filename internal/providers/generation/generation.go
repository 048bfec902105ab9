// Package generation is the client for the text-generation collaborator. It
// speaks the chat-completions wire format.
package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"omni-api/internal/metrics"
	"omni-api/internal/shared"

	"go.uber.org/zap"
)

type PromptKind int

const (
	PromptChat PromptKind = iota
	PromptStockAnalysis
)

const (
	chatSystemPrompt  = "You are a chatbot, Please reply politely to the following questions."
	stockSystemPrompt = "Use the about that data to analyze the stock trend using tech indicators such as moving averages, MACD."
)

type Client struct {
	BaseURL    string
	APIKey     string
	Model      string
	HTTPClient *http.Client
	Log        *zap.SugaredLogger
}

func New(baseURL, apiKey, model string, log *zap.SugaredLogger) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Model:      model,
		HTTPClient: &http.Client{Timeout: shared.DownstreamRequestTimeout},
		Log:        log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequestBody struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type completionResponseBody struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends text to the generation collaborator and returns the
// generated reply. Input is truncated before sending to cap cost and latency.
func (c *Client) Generate(ctx context.Context, text string, kind PromptKind) (string, error) {
	system := chatSystemPrompt
	if kind == PromptStockAnalysis {
		system = stockSystemPrompt
	}

	reqBody := completionRequestBody{
		Model: c.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: shared.Truncate(text, shared.MaxQuestionLength)},
		},
		MaxTokens: shared.MaxGenerationTokens,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Authorization", "Bearer "+c.APIKey)

	start := time.Now()
	res, err := c.HTTPClient.Do(r)
	metrics.DownstreamLatency.WithLabelValues("generation").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DownstreamErrors.WithLabelValues("generation").Inc()
		return "", err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		metrics.DownstreamErrors.WithLabelValues("generation").Inc()
		return "", fmt.Errorf("generation service responded with status %d", res.StatusCode)
	}

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		metrics.DownstreamErrors.WithLabelValues("generation").Inc()
		return "", errors.New("failed to read generation response")
	}

	var parsed completionResponseBody
	if err := json.Unmarshal(resBody, &parsed); err != nil {
		metrics.DownstreamErrors.WithLabelValues("generation").Inc()
		return "", errors.New("malformed generation response")
	}
	if len(parsed.Choices) == 0 {
		metrics.DownstreamErrors.WithLabelValues("generation").Inc()
		return "", errors.New("generation response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
