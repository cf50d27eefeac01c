package models

// Favorite is a market symbol pinned to a client's watchlist.
type Favorite struct {
	Base
	ClientID string `gorm:"not null;uniqueIndex:uq_favorites_client_symbol" json:"client_id"`
	Symbol   string `gorm:"not null;uniqueIndex:uq_favorites_client_symbol" json:"symbol"`
}
