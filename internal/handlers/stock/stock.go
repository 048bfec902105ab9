// Package stock serves the direct market-data passthrough. This path does not
// verify credentials; direct API access is trusted while the natural-language
// path carries the credential flag. Flagged for product review, preserved
// as shipped.
package stock

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"omni-api/internal/providers/marketdata"
	"omni-api/internal/setup"
	"omni-api/internal/shared"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	Market *marketdata.Client
}

func (h *Handler) Stock(cc echo.Context) error {
	c := cc.(*setup.Context)

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		c.Log.Warnw("Failed to read request body", "error", err.Error())
		return c.JSON(http.StatusBadRequest, shared.StockResponse{Message: shared.ErrInvalidRequest.Err.Error()})
	}

	var req shared.StockRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.Log.Warnw("Failed to parse request body", "error", err.Error())
		return c.JSON(http.StatusBadRequest, shared.StockResponse{Message: shared.ErrInvalidRequest.Err.Error()})
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" || len(symbol) > shared.MaxSymbolLength {
		return c.JSON(http.StatusBadRequest, shared.StockResponse{Message: shared.ErrInvalidSymbol.Err.Error()})
	}

	now := time.Now()
	period1 := req.Period1
	if period1 == 0 {
		period1 = now.Add(-shared.StockLookbackWindow).Unix()
	}
	period2 := req.Period2
	if period2 == 0 {
		period2 = now.Unix()
	}

	data, err := h.Market.Chart(c.Request().Context(), symbol, period1, period2)
	if err != nil {
		c.Log.Errorw("Chart fetch failed", "symbol", symbol, "error", err.Error())
		return c.JSON(http.StatusInternalServerError, shared.StockResponse{Message: shared.ErrDownstreamUnavailable.Err.Error()})
	}
	if len(data) == 0 || string(data) == "null" {
		return c.JSON(http.StatusNotFound, shared.StockResponse{Message: shared.ErrNoData.Err.Error()})
	}

	return c.JSON(http.StatusOK, shared.StockResponse{Message: "Success", Data: data})
}

// Hello is a liveness echo kept from the first deployment.
func (h *Handler) Hello(cc echo.Context) error {
	c := cc.(*setup.Context)

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, shared.ChatResponse{Message: shared.ErrInvalidRequest.Err.Error()})
	}

	var req shared.HelloRequest
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			return c.JSON(http.StatusBadRequest, shared.ChatResponse{Message: shared.ErrInvalidRequest.Err.Error()})
		}
	}

	name := shared.Truncate(strings.TrimSpace(req.Name), shared.MaxHelloNameLength)
	if name == "" {
		name = "World"
	}
	return c.JSON(http.StatusOK, shared.ChatResponse{Message: fmt.Sprintf("Hello %s", name)})
}
