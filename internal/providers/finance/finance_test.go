package finance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestAnalyze_RequestShape(t *testing.T) {
	var got analyzeRequestBody
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/finance", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{"answer": "looks healthy"},
		})
	}))
	defer server.Close()

	client := New(server.URL, "finance-key", zaptest.NewLogger(t).Sugar())

	res, err := client.Analyze(context.Background(), "how is the business doing", "issuance.jwt")
	require.NoError(t, err)

	assert.Equal(t, "looks healthy", res.Data.Answer)
	assert.Equal(t, "finance-key", got.APIKey)
	assert.Equal(t, "how is the business doing", got.Info.Question)
	require.NotNil(t, got.VCJWT)
	assert.Equal(t, "issuance.jwt", *got.VCJWT)
}

func TestAnalyze_OmitsCredentialWhenNotRequested(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]string{"answer": "ok"}})
	}))
	defer server.Close()

	client := New(server.URL, "finance-key", zaptest.NewLogger(t).Sugar())

	_, err := client.Analyze(context.Background(), "finance question", "")
	require.NoError(t, err)
	_, present := raw["vcJwt"]
	assert.False(t, present, "vcJwt must be omitted entirely without issuance")
}

func TestAnalyze_NonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := New(server.URL, "finance-key", zaptest.NewLogger(t).Sugar())

	_, err := client.Analyze(context.Background(), "q", "")
	assert.Error(t, err)
}

func TestAnalyze_MalformedResponseIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{broken"))
	}))
	defer server.Close()

	client := New(server.URL, "finance-key", zaptest.NewLogger(t).Sugar())

	_, err := client.Analyze(context.Background(), "q", "")
	assert.Error(t, err)
}
