package shared

import "encoding/json"

// ChatRequest is the /chat body. VCStatus tells the dispatcher to include the
// gateway's issuance credential when calling credentialed collaborators.
type ChatRequest struct {
	Question string `json:"question"`
	VCStatus bool   `json:"vcStatus"`
}

type ChatResponse struct {
	Message string `json:"message"`
}

// StockRequest is the /stock body. Period bounds are unix seconds; zero means
// the handler fills in a default 30-day window.
type StockRequest struct {
	Symbol  string `json:"symbol"`
	Period1 int64  `json:"period1,omitempty"`
	Period2 int64  `json:"period2,omitempty"`
}

type StockResponse struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type HelloRequest struct {
	Name string `json:"name"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
