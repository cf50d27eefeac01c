package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"cryptowatch/internal/models"

	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewClientID returns a client id unique within the test run.
func NewClientID() string {
	return fmt.Sprintf("client-%d", nextID())
}

// CreateTestFavorite pins symbol for clientID.
func CreateTestFavorite(t *testing.T, db *gorm.DB, clientID, symbol string) *models.Favorite {
	t.Helper()

	favorite := &models.Favorite{ClientID: clientID, Symbol: symbol}
	if err := db.Create(favorite).Error; err != nil {
		t.Fatalf("failed to create test favorite: %v", err)
	}
	return favorite
}

// SampleAssets returns a small market snapshot in no particular volume order.
func SampleAssets() []models.Asset {
	return []models.Asset{
		{Symbol: "ETHUSDT", Name: "Ethereum", LastPrice: 3000, ChangePercent: 1.5, QuoteVolume: 80_000_000},
		{Symbol: "BTCUSDT", Name: "Bitcoin", LastPrice: 60000, ChangePercent: -0.5, QuoteVolume: 120_000_000},
		{Symbol: "ADAUSDT", Name: "Cardano", LastPrice: 0.4, ChangePercent: 4.2, QuoteVolume: 20_000_000},
		{Symbol: "BTCUSD", Name: "Bitcoin", LastPrice: 60010, ChangePercent: -0.4, QuoteVolume: 500_000},
		{Symbol: "DOGEUSDT", Name: "Dogecoin", LastPrice: 0.1, ChangePercent: 10, QuoteVolume: 5_000_000},
	}
}
