// Package routers wires handlers onto the echo server. Each Register*
// function takes an explicit config struct so no handler reaches into
// ambient process state.
package routers

import (
	"net/http"

	"omni-api/internal/shared"

	"github.com/labstack/echo/v4"
)

func RegisterHealthRoutes(e *echo.Group) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, shared.HealthResponse{Status: "OK"})
	})
}
