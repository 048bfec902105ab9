package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"omni-api/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestLookup_RequestShape(t *testing.T) {
	var got lookupRequestBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stock", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
	}))
	defer server.Close()

	client := New(server.URL, "", nil, zaptest.NewLogger(t).Sugar())

	before := time.Now()
	_, err := client.Lookup(context.Background(), "AAPL", "issuance.jwt")
	require.NoError(t, err)

	require.NotNil(t, got.VCJWT)
	assert.Equal(t, "issuance.jwt", *got.VCJWT)
	assert.Equal(t, "AAPL", got.Info.Symbol)
	assert.InDelta(t, before.UnixMilli(), got.Timestamp, 5000)
	assert.InDelta(t, before.Add(-shared.StockLookbackWindow).Unix(), got.Info.Period1, 5)
	assert.InDelta(t, before.Unix(), got.Info.Period2, 5)
}

func TestLookup_NoIssuanceSendsNullCredential(t *testing.T) {
	var got lookupRequestBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
	}))
	defer server.Close()

	client := New(server.URL, "", nil, zaptest.NewLogger(t).Sugar())

	_, err := client.Lookup(context.Background(), "TSLA", "")
	require.NoError(t, err)
	assert.Nil(t, got.VCJWT)
}

func TestLookup_EchoedCredentialIsReturned(t *testing.T) {
	issued := time.Now().UnixMilli()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data":      map[string]any{"close": 1.0},
			"vcJwt":     "echoed.jwt",
			"timestamp": issued,
		})
	}))
	defer server.Close()

	client := New(server.URL, "", nil, zaptest.NewLogger(t).Sugar())

	res, err := client.Lookup(context.Background(), "TSLA", "issuance.jwt")
	require.NoError(t, err)
	require.NotNil(t, res.VCJWT)
	assert.Equal(t, "echoed.jwt", *res.VCJWT)
	require.NotNil(t, res.Timestamp)
	assert.Equal(t, issued, *res.Timestamp)
}

func TestLookup_MalformedResponseIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "definitely not json")
	}))
	defer server.Close()

	client := New(server.URL, "", nil, zaptest.NewLogger(t).Sugar())

	_, err := client.Lookup(context.Background(), "TSLA", "")
	assert.Error(t, err)
}

func TestChart_NonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New("", server.URL, nil, zaptest.NewLogger(t).Sugar())

	_, err := client.Chart(context.Background(), "AAPL", 100, 200)
	assert.Error(t, err)
}

func TestChart_InvalidJSONIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not a chart</html>")
	}))
	defer server.Close()

	client := New("", server.URL, nil, zaptest.NewLogger(t).Sugar())

	_, err := client.Chart(context.Background(), "AAPL", 100, 200)
	assert.Error(t, err)
}
