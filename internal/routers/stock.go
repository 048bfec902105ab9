package routers

import (
	"errors"

	"omni-api/internal/handlers/stock"
	"omni-api/internal/providers/marketdata"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type StockRouterConfig struct {
	ChartURL string
}

func RegisterStockRoutes(
	e *echo.Group,
	config StockRouterConfig,
	redisClient *redis.Client,
	log *zap.SugaredLogger,
) error {
	if config.ChartURL == "" {
		return errors.New("stock routes need a chart URL")
	}

	handler := &stock.Handler{
		Market: marketdata.New("", config.ChartURL, redisClient, log),
	}

	e.POST("/stock", handler.Stock)
	e.POST("/test", handler.Hello)
	return nil
}
