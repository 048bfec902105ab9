package routers

import (
	"errors"

	"omni-api/internal/credential"
	"omni-api/internal/handlers/chat"
	"omni-api/internal/providers/finance"
	"omni-api/internal/providers/generation"
	"omni-api/internal/providers/marketdata"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type ChatRouterConfig struct {
	// Collaborator base URLs
	StockServiceURL string
	WhispererURL    string
	OpenAIURL       string
	VerifierURL     string

	// Credential material and keys, resolved once at startup
	OpenAIAPIKey string
	OpenAIModel  string
	WhispererKey string
	IssuanceJWT  string
}

func RegisterChatRoutes(
	e *echo.Group,
	config ChatRouterConfig,
	redisClient *redis.Client,
	log *zap.SugaredLogger,
) error {
	if config.StockServiceURL == "" || config.WhispererURL == "" || config.OpenAIURL == "" {
		return errors.New("chat routes need stock service, whisperer and openai URLs")
	}
	if config.VerifierURL == "" {
		return errors.New("chat routes need a credential verifier URL")
	}

	handler := &chat.Handler{
		Market:      marketdata.New(config.StockServiceURL, "", redisClient, log),
		Finance:     finance.New(config.WhispererURL, config.WhispererKey, log),
		Generation:  generation.New(config.OpenAIURL, config.OpenAIAPIKey, config.OpenAIModel, log),
		Gate:        credential.NewGate(credential.NewHTTPVerifier(config.VerifierURL), log),
		IssuanceJWT: config.IssuanceJWT,
	}

	e.POST("/chat", handler.Chat)
	return nil
}
