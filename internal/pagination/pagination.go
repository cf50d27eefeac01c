package pagination

import (
	"gorm.io/gorm"
)

// Default and maximum page sizes shared by every listing endpoint.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// PageRequest holds limit/offset pagination parameters parsed from query
// strings. Limit is a pointer so an explicit limit=0 fails validation instead
// of reading as absent.
type PageRequest struct {
	Limit  *int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int  `form:"offset" binding:"omitempty,min=0"`
}

// Size returns the requested limit, or DefaultLimit when none was given.
func (p PageRequest) Size() int {
	if p.Limit == nil {
		return DefaultLimit
	}
	return *p.Limit
}

// Window returns items[offset:offset+limit], clamped to the slice bounds.
// A non-positive limit yields an empty, non-nil slice.
func Window[T any](items []T, offset, limit int) []T {
	if limit <= 0 || offset >= len(items) {
		return []T{}
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given page request.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset).Limit(req.Size())
	}
}
