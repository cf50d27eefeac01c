package search

import (
	"sort"
	"time"

	"cryptowatch/internal/models"
)

const maxPopularity = 100

// Index is a point-in-time view over one asset snapshot. Every lookup
// structure is derived from the same snapshot and none is modified after
// BuildIndex returns.
type Index struct {
	assets []models.Asset // input order

	symbolKeys []string // normalized symbols, volume-descending first appearance
	bySymbol   map[string][]models.Asset
	nameKeys   []string
	byName     map[string][]models.Asset

	trigrams map[string]map[string]struct{} // trigram -> raw symbols
	rank     map[string]int                 // raw symbol -> volume rank (0 = highest)
	byRaw    map[string]models.Asset        // raw symbol -> first asset in input order

	builtAt time.Time
}

// IndexStats summarizes an index for logs and health output.
type IndexStats struct {
	Assets   int       `json:"assets"`
	Symbols  int       `json:"symbols"`
	Names    int       `json:"names"`
	Trigrams int       `json:"trigrams"`
	BuiltAt  time.Time `json:"built_at"`
}

// BuildIndex builds an Index from assets. Assets are visited in descending
// quote volume, ties kept in input order.
func BuildIndex(assets []models.Asset, builtAt time.Time) *Index {
	snapshot := make([]models.Asset, len(assets))
	copy(snapshot, assets)

	idx := &Index{
		assets:   snapshot,
		bySymbol: make(map[string][]models.Asset),
		byName:   make(map[string][]models.Asset),
		trigrams: make(map[string]map[string]struct{}),
		rank:     make(map[string]int, len(snapshot)),
		byRaw:    make(map[string]models.Asset, len(snapshot)),
		builtAt:  builtAt,
	}

	for _, a := range snapshot {
		if _, ok := idx.byRaw[a.Symbol]; !ok {
			idx.byRaw[a.Symbol] = a
		}
	}

	sorted := make([]models.Asset, len(snapshot))
	copy(sorted, snapshot)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].QuoteVolume > sorted[j].QuoteVolume
	})

	for pos, a := range sorted {
		symbolKey := Normalize(a.Symbol)
		if _, ok := idx.bySymbol[symbolKey]; !ok {
			idx.symbolKeys = append(idx.symbolKeys, symbolKey)
		}
		idx.bySymbol[symbolKey] = append(idx.bySymbol[symbolKey], a)

		if a.Name != "" {
			nameKey := Normalize(a.Name)
			if _, ok := idx.byName[nameKey]; !ok {
				idx.nameKeys = append(idx.nameKeys, nameKey)
			}
			idx.byName[nameKey] = append(idx.byName[nameKey], a)
		}

		for _, tri := range Trigrams(a.Symbol) {
			idx.addTrigram(tri, a.Symbol)
		}
		if a.Name != "" {
			for _, tri := range Trigrams(a.Name) {
				idx.addTrigram(tri, a.Symbol)
			}
		}

		// Later duplicates of a raw symbol overwrite the rank, as a map insert would.
		idx.rank[a.Symbol] = pos
	}

	return idx
}

func (idx *Index) addTrigram(tri, symbol string) {
	bucket, ok := idx.trigrams[tri]
	if !ok {
		bucket = make(map[string]struct{})
		idx.trigrams[tri] = bucket
	}
	bucket[symbol] = struct{}{}
}

// Popularity returns max(0, 100 - volume rank) for a raw symbol, or 0 when
// the symbol is not indexed.
func (idx *Index) Popularity(symbol string) int {
	pos, ok := idx.rank[symbol]
	if !ok {
		return 0
	}
	return max(0, maxPopularity-pos)
}

// Assets returns the snapshot the index was built from, in input order.
func (idx *Index) Assets() []models.Asset {
	return idx.assets
}

// BuiltAt returns when the index was built.
func (idx *Index) BuiltAt() time.Time {
	return idx.builtAt
}

// Stats returns the index sizes.
func (idx *Index) Stats() IndexStats {
	return IndexStats{
		Assets:   len(idx.assets),
		Symbols:  len(idx.bySymbol),
		Names:    len(idx.byName),
		Trigrams: len(idx.trigrams),
		BuiltAt:  idx.builtAt,
	}
}

// rankOf orders symbols missing from the index after every indexed one.
func (idx *Index) rankOf(symbol string) int {
	if pos, ok := idx.rank[symbol]; ok {
		return pos
	}
	return len(idx.assets)
}

// Has reports whether symbol is indexed under its exact raw spelling.
func (idx *Index) Has(symbol string) bool {
	_, ok := idx.byRaw[symbol]
	return ok
}
