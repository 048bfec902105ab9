package credential

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"omni-api/internal/shared"
)

// Verifier reports whether a presented token is cryptographically valid.
// Verification is idempotent per token; implementations must not consume or
// record the token.
type Verifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}

type verifyRequestBody struct {
	VCJWT string `json:"vcJwt"`
}

type verifyResponseBody struct {
	Verified bool `json:"verified"`
}

// HTTPVerifier calls the external credential verification service.
type HTTPVerifier struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewHTTPVerifier(baseURL string) *HTTPVerifier {
	return &HTTPVerifier{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: shared.VerifyRequestTimeout},
	}
}

func (v *HTTPVerifier) Verify(ctx context.Context, token string) (bool, error) {
	body, err := json.Marshal(verifyRequestBody{VCJWT: token})
	if err != nil {
		return false, err
	}

	r, err := http.NewRequestWithContext(ctx, http.MethodPost, v.BaseURL+"/verify", bytes.NewBuffer(body))
	if err != nil {
		return false, err
	}
	r.Header.Set("Content-Type", "application/json")

	res, err := v.HTTPClient.Do(r)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		return false, fmt.Errorf("verifier responded with status %d", res.StatusCode)
	}

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return false, errors.New("failed to read verifier response")
	}

	var parsed verifyResponseBody
	if err := json.Unmarshal(resBody, &parsed); err != nil {
		return false, errors.New("malformed verifier response")
	}
	return parsed.Verified, nil
}
