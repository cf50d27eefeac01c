package market

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"cryptowatch/internal/models"
)

const (
	coinGeckoDefaultBaseURL = "https://api.coingecko.com/api/v3"
	coinGeckoPerPage        = 250
)

// coinGeckoMarket is one element of the /coins/markets response.
type coinGeckoMarket struct {
	ID                       string   `json:"id"`
	Symbol                   string   `json:"symbol"`
	Name                     string   `json:"name"`
	CurrentPrice             float64  `json:"current_price"`
	TotalVolume              float64  `json:"total_volume"`
	PriceChangePercentage24h *float64 `json:"price_change_percentage_24h"`
}

// CoinGeckoProvider fetches USD market data from CoinGecko's markets endpoint.
type CoinGeckoProvider struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	timeout    time.Duration
	pages      int
}

// NewCoinGeckoProvider creates a new CoinGecko provider fetching the given
// number of 250-coin pages ordered by market cap.
func NewCoinGeckoProvider(httpClient *http.Client, baseURL string, timeout time.Duration, pages int) *CoinGeckoProvider {
	if baseURL == "" {
		baseURL = coinGeckoDefaultBaseURL
	}
	if pages < 1 {
		pages = 1
	}
	return &CoinGeckoProvider{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    timeout,
		pages:      pages,
	}
}

// Name returns the provider's display name.
func (p *CoinGeckoProvider) Name() string { return "CoinGecko" }

// FetchAssets fetches all configured pages concurrently. Any failing page
// fails the whole fetch.
func (p *CoinGeckoProvider) FetchAssets(ctx context.Context) ([]models.Asset, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	pages := make([][]coinGeckoMarket, p.pages)
	g, gctx := errgroup.WithContext(ctx)
	for i := range pages {
		i := i
		g.Go(func() error {
			var markets []coinGeckoMarket
			if err := getJSON(gctx, p.httpClient, p.Name(), p.pageURL(i+1), &markets); err != nil {
				return err
			}
			pages[i] = markets
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var assets []models.Asset
	for _, markets := range pages {
		for _, m := range markets {
			assets = append(assets, m.toAsset())
		}
	}
	return assets, nil
}

func (p *CoinGeckoProvider) pageURL(page int) string {
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("order", "market_cap_desc")
	q.Set("per_page", strconv.Itoa(coinGeckoPerPage))
	q.Set("page", strconv.Itoa(page))
	q.Set("sparkline", "false")
	q.Set("price_change_percentage", "24h")
	return fmt.Sprintf("%s/coins/markets?%s", p.baseURL, q.Encode())
}

func (m coinGeckoMarket) toAsset() models.Asset {
	var change float64
	if m.PriceChangePercentage24h != nil {
		change = *m.PriceChangePercentage24h
	}
	return models.Asset{
		Symbol:        strings.ToUpper(m.Symbol) + string(models.QuoteUSD),
		Name:          m.Name,
		LastPrice:     m.CurrentPrice,
		ChangePercent: change,
		QuoteVolume:   m.TotalVolume,
	}
}
