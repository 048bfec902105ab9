package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"omni-api/internal/middleware"
	"omni-api/internal/routers"
	"omni-api/internal/shared"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/manifold-inc/manifold-sdk/lib/eflag"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Local overrides; absence is fine in deployed environments
	_ = godotenv.Load()

	// Flags / ENV Variables
	port := flag.String("port", "8001", "Listen port")
	clientURL := flag.String("client-url", "http://localhost:5173", "Allowed CORS origin")
	debug := flag.Bool("debug", false, "Debug enabled")
	metricsAPIKey := flag.String("metrics-api-key", "", "Metrics api key")
	redisAddr := flag.String("redis-addr", "", "Redis host:port for the chart cache, empty disables caching")

	serviceURL := flag.String("service-url", "", "Credentialed stock service base URL")
	chartURL := flag.String("chart-url", "", "Market data chart base URL")
	whispererURL := flag.String("whisperer-url", "", "Financial analysis service base URL")
	whispererKey := flag.String("whisperer-api-key", "", "Financial analysis service api key")
	openaiURL := flag.String("openai-url", "https://api.openai.com", "Generation service base URL")
	openaiAPIKey := flag.String("openai-api-key", "", "Generation service api key")
	openaiModel := flag.String("openai-model", "gpt-4-0125-preview", "Generation model identifier")
	verifierURL := flag.String("verifier-url", "", "Credential verifier base URL")
	vcJWT := flag.String("vc-jwt", "", "Gateway issuance credential")

	err := eflag.SetFlagsFromEnvironment()
	if err != nil {
		panic(err)
	}
	flag.Parse()

	var logger *zap.Logger
	if !*debug {
		logger, err = zap.NewProduction()
		if err != nil {
			panic("Failed init logger")
		}
	}
	if *debug {
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic("Failed init logger")
		}
	}
	log := logger.Sugar()

	// Chart cache is optional; only dial redis when an address is set
	var redisClient *redis.Client
	if *redisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     *redisAddr,
			Password: "",
			DB:       0,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			panic(fmt.Sprintf("failed ping to redis db: %s", err))
		}
		defer func() {
			_ = redisClient.Close()
		}()
	}

	e := echo.New()
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			apiKey, err := shared.ExtractAPIKey(c)
			if err != nil {
				return c.String(401, "Missing or invalid API key")
			}

			if apiKey != *metricsAPIKey {
				return c.String(401, "Unauthorized API key")
			}
			return next(c)
		}
	})

	base := e.Group("")
	base.Use(emw.BodyLimit("1M"))
	base.Use(emw.CORSWithConfig(emw.CORSConfig{
		AllowOrigins:     []string{*clientURL},
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderXRequestedWith, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	base.Use(middleware.NewSecurityMiddleware())
	base.Use(middleware.NewRecoverMiddleware(log))
	base.Use(middleware.NewTrackMiddleware(log))

	// Register routes
	routers.RegisterHealthRoutes(base)
	err = routers.RegisterStockRoutes(base, routers.StockRouterConfig{
		ChartURL: *chartURL,
	}, redisClient, log)
	if err != nil {
		panic(err)
	}
	err = routers.RegisterChatRoutes(base, routers.ChatRouterConfig{
		StockServiceURL: *serviceURL,
		WhispererURL:    *whispererURL,
		OpenAIURL:       *openaiURL,
		VerifierURL:     *verifierURL,
		OpenAIAPIKey:    *openaiAPIKey,
		OpenAIModel:     *openaiModel,
		WhispererKey:    *whispererKey,
		IssuanceJWT:     *vcJWT,
	}, redisClient, log)
	if err != nil {
		panic(err)
	}

	go func() {
		if err := e.Start(":" + *port); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// Wait for interrupt signal to gracefully shut down the server with a timeout of 10 seconds.
	<-ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), shared.DefaultShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
