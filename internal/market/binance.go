package market

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"cryptowatch/internal/models"
)

const binanceDefaultBaseURL = "https://api.binance.com/api/v3"

// binanceTicker is one element of the /ticker/24hr response. Binance encodes
// every numeric field as a decimal string.
type binanceTicker struct {
	Symbol             string `json:"symbol"`
	LastPrice          string `json:"lastPrice"`
	PriceChangePercent string `json:"priceChangePercent"`
	QuoteVolume        string `json:"quoteVolume"`
	Volume             string `json:"volume"`
}

// BinanceProvider fetches 24h tickers for every Binance spot pair.
type BinanceProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	timeout    time.Duration
}

// NewBinanceProvider creates a new Binance provider. An empty baseURL selects
// the public API.
func NewBinanceProvider(httpClient *http.Client, baseURL string, timeout time.Duration) *BinanceProvider {
	if baseURL == "" {
		baseURL = binanceDefaultBaseURL
	}
	return &BinanceProvider{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
	}
}

// Name returns the provider's display name.
func (p *BinanceProvider) Name() string { return "Binance" }

// FetchAssets fetches all 24h tickers.
func (p *BinanceProvider) FetchAssets(ctx context.Context) ([]models.Asset, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	var tickers []binanceTicker
	if err := getJSON(ctx, p.httpClient, p.Name(), p.baseURL+"/ticker/24hr", &tickers); err != nil {
		return nil, err
	}

	assets := make([]models.Asset, 0, len(tickers))
	for _, t := range tickers {
		asset, err := t.toAsset()
		if err != nil {
			return nil, fmt.Errorf("binance ticker %s: %w", t.Symbol, err)
		}
		assets = append(assets, asset)
	}
	return assets, nil
}

func (t binanceTicker) toAsset() (models.Asset, error) {
	price, err := parseDecimal(t.LastPrice)
	if err != nil {
		return models.Asset{}, fmt.Errorf("lastPrice: %w", err)
	}
	change, err := parseDecimal(t.PriceChangePercent)
	if err != nil {
		return models.Asset{}, fmt.Errorf("priceChangePercent: %w", err)
	}
	volume, err := parseDecimal(t.QuoteVolume)
	if err != nil {
		return models.Asset{}, fmt.Errorf("quoteVolume: %w", err)
	}

	return models.Asset{
		Symbol:        t.Symbol,
		Name:          binanceAssetName(t.Symbol),
		LastPrice:     price.InexactFloat64(),
		ChangePercent: change.InexactFloat64(),
		QuoteVolume:   volume.InexactFloat64(),
	}, nil
}

// parseDecimal treats an empty field as zero.
func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// binanceAssetName names a pair after its USDT-stripped base symbol.
func binanceAssetName(symbol string) string {
	return DisplayName(strings.TrimSuffix(symbol, "USDT"))
}
