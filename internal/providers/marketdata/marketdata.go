// Package marketdata is the client for the market-data collaborator. The
// collaborator is consumed through two surfaces: a credentialed POST /stock
// service used by the chat dispatch path, and a chart endpoint used by the
// direct /stock passthrough.
package marketdata

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

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Client struct {
	ServiceURL string
	ChartURL   string
	HTTPClient *http.Client
	Redis      *redis.Client // optional chart cache, nil disables caching
	Log        *zap.SugaredLogger
}

func New(serviceURL, chartURL string, redisClient *redis.Client, log *zap.SugaredLogger) *Client {
	return &Client{
		ServiceURL: serviceURL,
		ChartURL:   chartURL,
		HTTPClient: &http.Client{Timeout: shared.DownstreamRequestTimeout},
		Redis:      redisClient,
		Log:        log,
	}
}

type lookupRequestBody struct {
	VCJWT     *string    `json:"vcJwt"`
	Timestamp int64      `json:"timestamp"`
	Info      lookupInfo `json:"info"`
}

type lookupInfo struct {
	Symbol  string `json:"symbol"`
	Period1 int64  `json:"period1"`
	Period2 int64  `json:"period2"`
}

// LookupResult is the collaborator's reply. VCJWT/Timestamp are only present
// when the collaborator attaches a credential for the gateway to verify.
type LookupResult struct {
	Data      json.RawMessage `json:"data"`
	VCJWT     *string         `json:"vcJwt"`
	Timestamp *int64          `json:"timestamp"`
}

// Lookup fetches a 30-day time series for symbol from the credentialed stock
// service. issuanceJWT, when non-empty, is the gateway's own credential and is
// forwarded so the collaborator can authenticate the request.
func (c *Client) Lookup(ctx context.Context, symbol string, issuanceJWT string) (*LookupResult, error) {
	now := time.Now()

	var vcJWT *string
	if issuanceJWT != "" {
		vcJWT = &issuanceJWT
	}
	reqBody := lookupRequestBody{
		VCJWT:     vcJWT,
		Timestamp: now.UnixMilli(),
		Info: lookupInfo{
			Symbol:  symbol,
			Period1: now.Add(-shared.StockLookbackWindow).Unix(),
			Period2: now.Unix(),
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resBody, err := c.post(ctx, c.ServiceURL+"/stock", body)
	metrics.DownstreamLatency.WithLabelValues("marketdata").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DownstreamErrors.WithLabelValues("marketdata").Inc()
		return nil, err
	}

	var result LookupResult
	if err := json.Unmarshal(resBody, &result); err != nil {
		metrics.DownstreamErrors.WithLabelValues("marketdata").Inc()
		return nil, errors.New("malformed stock service response")
	}
	return &result, nil
}

// Chart fetches the raw chart payload for the direct /stock passthrough.
// Results are cached briefly in redis when a client is configured.
func (c *Client) Chart(ctx context.Context, symbol string, period1, period2 int64) (json.RawMessage, error) {
	cacheKey := fmt.Sprintf("v1:chart:%s:%d:%d", symbol, period1, period2)
	if c.Redis != nil {
		cached, err := c.Redis.Get(ctx, cacheKey).Result()
		if err == nil {
			metrics.StockCacheHits.WithLabelValues("hit").Inc()
			return json.RawMessage(cached), nil
		}
		metrics.StockCacheHits.WithLabelValues("miss").Inc()
	}

	url := fmt.Sprintf("%s/%s?symbol=%s&period1=%d&period2=%d&interval=1d&events=history%%7Csplit",
		c.ChartURL, symbol, symbol, period1, period2)

	r, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := c.HTTPClient.Do(r)
	metrics.DownstreamLatency.WithLabelValues("marketdata").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DownstreamErrors.WithLabelValues("marketdata").Inc()
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		metrics.DownstreamErrors.WithLabelValues("marketdata").Inc()
		return nil, fmt.Errorf("chart service responded with status %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		metrics.DownstreamErrors.WithLabelValues("marketdata").Inc()
		return nil, errors.New("failed to read chart response")
	}
	if !json.Valid(body) {
		metrics.DownstreamErrors.WithLabelValues("marketdata").Inc()
		return nil, errors.New("malformed chart response")
	}

	if c.Redis != nil {
		go func() {
			sctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := c.Redis.Set(sctx, cacheKey, string(body), shared.StockCacheTTL).Err(); err != nil {
				c.Log.Warnw("Failed to cache chart response", "error", err.Error())
			}
		}()
	}
	return body, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) ([]byte, error) {
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	r.Header.Set("Content-Type", "application/json")

	res, err := c.HTTPClient.Do(r)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stock service responded with status %d", res.StatusCode)
	}
	return io.ReadAll(res.Body)
}
