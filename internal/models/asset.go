package models

// QuoteCurrency is a supported quote currency for market pairs.
type QuoteCurrency string

const (
	QuoteUSDT QuoteCurrency = "USDT"
	QuoteUSD  QuoteCurrency = "USD"
)

// DefaultQuote is used when a request does not name a quote currency.
const DefaultQuote = QuoteUSDT

// Asset is one tradable instrument snapshot, e.g. BTCUSDT.
type Asset struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name,omitempty"`
	LastPrice     float64 `json:"lastPrice"`
	ChangePercent float64 `json:"changePercent"`
	QuoteVolume   float64 `json:"quoteVolume"`
}

// Envelope is the JSON body shape shared by every API response. Code is set
// alongside Error on failures.
type Envelope[T any] struct {
	Data      T      `json:"data"`
	Error     string `json:"error,omitempty"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"requestId"`
}
