package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinanceProvider_FetchAssets_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ticker/24hr", r.URL.Path)
		assert.Equal(t, userAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"symbol":"BTCUSDT","lastPrice":"67234.56000000","priceChangePercent":"2.513","quoteVolume":"1234567890.12","volume":"100"},
			{"symbol":"ADAUSDT","lastPrice":"0.45120000","priceChangePercent":"-1.200","quoteVolume":"200000000","volume":"5"},
			{"symbol":"NEWCOINUSDT","lastPrice":"1","priceChangePercent":"0","quoteVolume":"","volume":""}
		]`))
	}))
	defer server.Close()

	p := NewBinanceProvider(server.Client(), server.URL, time.Second)
	assets, err := p.FetchAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 3)

	assert.Equal(t, "BTCUSDT", assets[0].Symbol)
	assert.Equal(t, "Bitcoin", assets[0].Name)
	assert.InDelta(t, 67234.56, assets[0].LastPrice, 1e-9)
	assert.InDelta(t, 2.513, assets[0].ChangePercent, 1e-9)
	assert.InDelta(t, 1234567890.12, assets[0].QuoteVolume, 1e-6)

	assert.Equal(t, "Cardano", assets[1].Name)
	assert.InDelta(t, -1.2, assets[1].ChangePercent, 1e-9)

	assert.Equal(t, "NEWCOIN", assets[2].Name, "unknown bases fall back to the base symbol")
	assert.Zero(t, assets[2].QuoteVolume)
}

func TestBinanceProvider_FetchAssets_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewBinanceProvider(server.Client(), server.URL, time.Second)
	_, err := p.FetchAssets(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "Binance API error: 429")
}

func TestBinanceProvider_FetchAssets_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	p := NewBinanceProvider(server.Client(), server.URL, 20*time.Millisecond)
	_, err := p.FetchAssets(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestBinanceProvider_FetchAssets_MalformedNumber(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"symbol":"BTCUSDT","lastPrice":"abc","priceChangePercent":"0","quoteVolume":"0"}]`))
	}))
	defer server.Close()

	p := NewBinanceProvider(server.Client(), server.URL, time.Second)
	_, err := p.FetchAssets(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BTCUSDT")
}
