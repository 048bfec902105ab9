package stock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"omni-api/internal/providers/marketdata"
	"omni-api/internal/setup"
	"omni-api/internal/shared"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestHandler(t *testing.T, chart http.HandlerFunc) *Handler {
	server := httptest.NewServer(chart)
	t.Cleanup(server.Close)
	return &Handler{
		Market: marketdata.New("", server.URL, nil, zaptest.NewLogger(t).Sugar()),
	}
}

func doRequest(t *testing.T, handler echo.HandlerFunc, path, body string) (*httptest.ResponseRecorder, shared.StockResponse) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := &setup.Context{Context: e.NewContext(req, rec), Log: zaptest.NewLogger(t).Sugar(), Reqid: "test"}

	require.NoError(t, handler(c))

	var res shared.StockResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return rec, res
}

func TestStock_InvalidSymbol(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("collaborator must not be called for invalid input")
	})

	for _, body := range []string{
		`{}`,
		`{"symbol": ""}`,
		`{"symbol": "   "}`,
		`{"symbol": "WAYTOOLONGSYM"}`,
	} {
		rec, res := doRequest(t, h.Stock, "/stock", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body: %s", body)
		assert.Equal(t, "invalid symbol parameter", res.Message)
	}
}

func TestStock_SuccessPassthrough(t *testing.T) {
	var gotPath, gotQuery string
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"chart": {"result": [1, 2, 3]}}`)
	})

	rec, res := doRequest(t, h.Stock, "/stock", `{"symbol": "aapl", "period1": 100, "period2": 200}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Success", res.Message)
	assert.JSONEq(t, `{"chart": {"result": [1, 2, 3]}}`, string(res.Data))
	assert.Equal(t, "/AAPL", gotPath)
	assert.Contains(t, gotQuery, "symbol=AAPL")
	assert.Contains(t, gotQuery, "period1=100")
	assert.Contains(t, gotQuery, "period2=200")
}

func TestStock_DefaultPeriodsCoverThirtyDays(t *testing.T) {
	var gotQuery string
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, `{"chart": {}}`)
	})

	before := time.Now()
	rec, _ := doRequest(t, h.Stock, "/stock", `{"symbol": "TSLA"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	values, err := parseQuery(gotQuery)
	require.NoError(t, err)

	period1 := values["period1"]
	period2 := values["period2"]
	assert.InDelta(t, before.Add(-shared.StockLookbackWindow).Unix(), period1, 5)
	assert.InDelta(t, before.Unix(), period2, 5)
}

func parseQuery(raw string) (map[string]int64, error) {
	out := map[string]int64{}
	for _, pair := range strings.Split(raw, "&") {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			continue
		}
		var n int64
		if _, err := fmt.Sscanf(kv[1], "%d", &n); err == nil {
			out[kv[0]] = n
		}
	}
	return out, nil
}

func TestStock_DownstreamErrorIsCollapsed(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "provider exploded: secret detail", http.StatusBadGateway)
	})

	rec, res := doRequest(t, h.Stock, "/stock", `{"symbol": "NFLX"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "downstream service unavailable", res.Message)
	assert.NotContains(t, rec.Body.String(), "secret detail")
}

func TestStock_EmptyDataIsNotFound(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `null`)
	})

	rec, res := doRequest(t, h.Stock, "/stock", `{"symbol": "GOOGL"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no data found", res.Message)
}

func TestHello(t *testing.T) {
	h := &Handler{}

	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{name: "named", body: `{"name": "Ada"}`, expected: "Hello Ada"},
		{name: "default", body: `{}`, expected: "Hello World"},
		{name: "empty body", body: ``, expected: "Hello World"},
		{name: "long name truncated", body: `{"name": "` + strings.Repeat("x", 150) + `"}`, expected: "Hello " + strings.Repeat("x", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(tt.body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := &setup.Context{Context: e.NewContext(req, rec), Log: zaptest.NewLogger(t).Sugar(), Reqid: "test"}

			require.NoError(t, h.Hello(c))

			var res shared.ChatResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.expected, res.Message)
		})
	}
}
