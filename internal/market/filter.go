package market

import (
	"slices"
	"sort"
	"strings"

	"cryptowatch/internal/models"
	"cryptowatch/internal/pagination"
)

// SortField selects the column an asset listing is ordered by.
type SortField string

const (
	SortByVolume SortField = "volume"
	SortByPrice  SortField = "price"
	SortByChange SortField = "change"
)

// SortDirection is asc or desc.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

const (
	maxSymbolLen   = 10
	maxSymbolCount = 50
)

// ListOptions describes one asset listing page.
type ListOptions struct {
	Quote     models.QuoteCurrency
	Sort      SortField
	Direction SortDirection
	Limit     int
	Offset    int
	Symbols   []string
}

// FilterAndSort keeps assets quoted in opts.Quote (and in opts.Symbols when
// set), orders them and returns the requested window. The input is not modified.
func FilterAndSort(assets []models.Asset, opts ListOptions) []models.Asset {
	quote := strings.ToUpper(string(opts.Quote))

	filtered := make([]models.Asset, 0, len(assets))
	for _, a := range assets {
		if !strings.HasSuffix(a.Symbol, quote) {
			continue
		}
		if len(opts.Symbols) > 0 && !slices.Contains(opts.Symbols, a.Symbol) {
			continue
		}
		filtered = append(filtered, a)
	}

	value := func(a models.Asset) float64 {
		switch opts.Sort {
		case SortByPrice:
			return a.LastPrice
		case SortByChange:
			return a.ChangePercent
		default:
			return a.QuoteVolume
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if opts.Direction == SortAsc {
			return value(filtered[i]) < value(filtered[j])
		}
		return value(filtered[i]) > value(filtered[j])
	})

	return pagination.Window(filtered, opts.Offset, opts.Limit)
}

// SanitizeSymbols parses a comma separated symbol list: each entry is upper
// cased and stripped to [A-Z0-9]; empty or over-long entries are dropped and
// at most 50 symbols are kept.
func SanitizeSymbols(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		s := strings.Map(func(r rune) rune {
			if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
				return r
			}
			return -1
		}, strings.ToUpper(strings.TrimSpace(part)))
		if s == "" || len(s) > maxSymbolLen {
			continue
		}
		out = append(out, s)
		if len(out) == maxSymbolCount {
			break
		}
	}
	return out
}
