package shared

import "time"

// HTTP Client Configuration
const (
	DownstreamRequestTimeout = 15 * time.Second
	VerifyRequestTimeout     = 10 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second
)

// Credential Replay Window
const (
	MaxCredentialAge        = 5 * time.Minute
	MaxCredentialFutureSkew = 60 * time.Second
)

// Request Limits
const (
	MaxQuestionLength   = 5000
	MaxSymbolLength     = 10
	MaxHelloNameLength  = 100
	MaxGenerationTokens = 1000
)

// Market Data Configuration
const (
	StockLookbackWindow = 30 * 24 * time.Hour
	StockCacheTTL       = 1 * time.Minute
)
