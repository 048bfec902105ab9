// Package chat orchestrates the natural-language entry point: validate the
// question, classify its intent, dispatch to the matching collaborator, then
// gate the response behind credential verification when one was attached.
package chat

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"omni-api/internal/credential"
	"omni-api/internal/metrics"
	"omni-api/internal/providers/finance"
	"omni-api/internal/providers/generation"
	"omni-api/internal/providers/marketdata"
	"omni-api/internal/setup"
	"omni-api/internal/shared"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	Market     *marketdata.Client
	Finance    *finance.Client
	Generation *generation.Client
	Gate       *credential.Gate

	// IssuanceJWT is the gateway's own credential, forwarded to credentialed
	// collaborators when the caller sets vcStatus.
	IssuanceJWT string
}

func (h *Handler) Chat(cc echo.Context) error {
	c := cc.(*setup.Context)

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		c.Log.Warnw("Failed to read request body", "error", err.Error())
		return c.JSON(http.StatusBadRequest, shared.ChatResponse{Message: shared.ErrInvalidRequest.Err.Error()})
	}

	var req shared.ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.Log.Warnw("Failed to parse request body", "error", err.Error())
		return c.JSON(http.StatusBadRequest, shared.ChatResponse{Message: shared.ErrInvalidRequest.Err.Error()})
	}

	if strings.TrimSpace(req.Question) == "" {
		return c.JSON(http.StatusBadRequest, shared.ChatResponse{Message: shared.ErrInvalidQuestion.Err.Error()})
	}

	intent, params := Classify(req.Question)
	metrics.ClassifiedIntents.WithLabelValues(intent.String()).Inc()
	c.Log = c.Log.With("intent", intent.String())

	result, err := h.dispatch(c.Request().Context(), intent, params, req.Question, req.VCStatus)
	if err != nil {
		c.Log.Errorw("Dispatch failed", "error", err.Error())
		re := shared.AsRequestError(err)
		return c.JSON(re.StatusCode, shared.ChatResponse{Message: re.Err.Error()})
	}

	// A payload never leaves alongside a rejected credential. The rejection
	// reason stays internal; callers always get the one collapsed message.
	if result.Credential != nil {
		outcome := h.Gate.Verify(c.Request().Context(), result.Credential)
		if outcome != credential.Accepted {
			c.Log.Warnw("Credential rejected", "outcome", outcome.String())
			return c.JSON(http.StatusUnauthorized, shared.ChatResponse{Message: shared.ErrVerificationFailed.Err.Error()})
		}
	}

	return c.JSON(http.StatusOK, shared.ChatResponse{Message: result.Message})
}
