// Package finance is the client for the financial-analysis collaborator.
package finance

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

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Log        *zap.SugaredLogger
}

func New(baseURL, apiKey string, log *zap.SugaredLogger) *Client {
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: shared.DownstreamRequestTimeout},
		Log:        log,
	}
}

type analyzeRequestBody struct {
	APIKey    string      `json:"apiKey"`
	VCJWT     *string     `json:"vcJwt,omitempty"`
	Timestamp int64       `json:"timestamp"`
	Info      analyzeInfo `json:"info"`
}

type analyzeInfo struct {
	Question string `json:"question"`
}

// AnalyzeResult is the collaborator's reply. VCJWT/Timestamp are only present
// when the collaborator attaches a credential for the gateway to verify.
type AnalyzeResult struct {
	Data struct {
		Answer string `json:"answer"`
	} `json:"data"`
	VCJWT     *string `json:"vcJwt"`
	Timestamp *int64  `json:"timestamp"`
}

// Analyze forwards the raw question to the analysis collaborator. issuanceJWT,
// when non-empty, is the gateway's own credential.
func (c *Client) Analyze(ctx context.Context, question string, issuanceJWT string) (*AnalyzeResult, error) {
	reqBody := analyzeRequestBody{
		APIKey:    c.APIKey,
		Timestamp: time.Now().UnixMilli(),
		Info:      analyzeInfo{Question: question},
	}
	if issuanceJWT != "" {
		reqBody.VCJWT = &issuanceJWT
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/finance", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", "application/json")

	start := time.Now()
	res, err := c.HTTPClient.Do(r)
	metrics.DownstreamLatency.WithLabelValues("finance").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DownstreamErrors.WithLabelValues("finance").Inc()
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		metrics.DownstreamErrors.WithLabelValues("finance").Inc()
		return nil, fmt.Errorf("finance service responded with status %d", res.StatusCode)
	}

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		metrics.DownstreamErrors.WithLabelValues("finance").Inc()
		return nil, errors.New("failed to read finance response")
	}

	var result AnalyzeResult
	if err := json.Unmarshal(resBody, &result); err != nil {
		metrics.DownstreamErrors.WithLabelValues("finance").Inc()
		return nil, errors.New("malformed finance response")
	}
	return &result, nil
}
