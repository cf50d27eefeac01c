package services

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "cryptowatch/internal/errors"
	"cryptowatch/internal/models"
	"cryptowatch/internal/pagination"
	"cryptowatch/internal/validator"
)

// maxFavorites bounds a single client's watchlist.
const maxFavorites = 100

// favoriteService handles watchlist persistence.
type favoriteService struct {
	db      *gorm.DB
	symbols SymbolLookup
}

// NewFavoriteService creates a new FavoriteServicer. symbols may be nil, in
// which case any well-formed symbol is accepted.
func NewFavoriteService(db *gorm.DB, symbols SymbolLookup) FavoriteServicer {
	return &favoriteService{db: db, symbols: symbols}
}

// ListFavorites returns one page of a client's favorites, oldest first.
func (s *favoriteService) ListFavorites(clientID string, page pagination.PageRequest) ([]models.Favorite, error) {
	if clientID == "" {
		return nil, apperrors.ErrUnauthorized
	}

	favorites := []models.Favorite{}
	if err := s.db.Where("client_id = ?", clientID).
		Order("created_at ASC, id ASC").
		Scopes(pagination.Paginate(page)).
		Find(&favorites).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return favorites, nil
}

// AddFavorite pins symbol to the client's watchlist. Adding a symbol twice
// returns the existing favorite.
func (s *favoriteService) AddFavorite(clientID, symbol string) (*models.Favorite, error) {
	if clientID == "" {
		return nil, apperrors.ErrUnauthorized
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if !validator.IsMarketSymbol(symbol) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid market symbol")
	}
	if s.symbols != nil && !s.symbols.Has(symbol) {
		return nil, apperrors.ErrUnknownSymbol
	}

	var favorite models.Favorite
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ? AND symbol = ?", clientID, symbol).Limit(1).Find(&favorite).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if favorite.ID != "" {
			return nil
		}

		var count int64
		if err := tx.Model(&models.Favorite{}).Where("client_id = ?", clientID).Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count >= maxFavorites {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "Favorites limit reached")
		}

		favorite = models.Favorite{ClientID: clientID, Symbol: symbol}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&favorite)
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected > 0 {
			return nil
		}

		// A concurrent add won the unique index; return its row.
		favorite = models.Favorite{}
		if err := tx.Where("client_id = ? AND symbol = ?", clientID, symbol).First(&favorite).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

// RemoveFavorite unpins symbol.
func (s *favoriteService) RemoveFavorite(clientID, symbol string) error {
	if clientID == "" {
		return apperrors.ErrUnauthorized
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	result := s.db.Where("client_id = ? AND symbol = ?", clientID, symbol).Delete(&models.Favorite{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrFavoriteNotFound
	}
	return nil
}
