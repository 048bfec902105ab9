package chat

import "strings"

// Intent is the closed classification of a caller's question. GeneralChat is
// the default, never an error.
type Intent int

const (
	IntentGeneralChat Intent = iota
	IntentStockLookup
	IntentFinancialAnalysis
)

func (i Intent) String() string {
	switch i {
	case IntentStockLookup:
		return "stock_lookup"
	case IntentFinancialAnalysis:
		return "financial_analysis"
	default:
		return "general_chat"
	}
}

type Params struct {
	Symbol string
}

// List order is the tie-break priority when a question mentions more than one
// symbol, so it must stay stable.
var validSymbols = []string{"TSLA", "AAPL", "GOOGL", "AMZN", "MSFT", "NFLX"}

const defaultSymbol = "TSLA"

var financeTriggers = []string{"financial", "finance", "business"}

// Classify maps a question to an intent and its parameters. Pure and total
// over lower-cased input: identical input always yields identical output, and
// no input fails. Stock lookup takes priority over the finance triggers.
func Classify(text string) (Intent, Params) {
	q := strings.ToLower(text)

	if strings.Contains(q, "latest") {
		symbol := defaultSymbol
		for _, sym := range validSymbols {
			if strings.Contains(q, strings.ToLower(sym)) {
				symbol = sym
				break
			}
		}
		return IntentStockLookup, Params{Symbol: symbol}
	}

	for _, trigger := range financeTriggers {
		if strings.Contains(q, trigger) {
			return IntentFinancialAnalysis, Params{}
		}
	}

	return IntentGeneralChat, Params{}
}
