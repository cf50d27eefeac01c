package search

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"cryptowatch/internal/models"
	"cryptowatch/internal/pagination"
)

const (
	highlightOpen  = `<mark class="bg-yellow-200 text-yellow-900 px-1 rounded">`
	highlightClose = `</mark>`

	minFuzzyQueryLen = 3
	fuzzyOverlap     = 0.5
)

// Highlights holds symbol and name with query occurrences wrapped in <mark>.
type Highlights struct {
	Symbol string `json:"symbol,omitempty"`
	Name   string `json:"name,omitempty"`
}

// Result is an asset annotated with its ranking.
type Result struct {
	models.Asset
	RelevanceScore   int        `json:"relevanceScore"`
	MatchType        MatchType  `json:"matchType"`
	SearchHighlights Highlights `json:"searchHighlights"`
}

// executor collects results across the match tiers. The first tier to
// collect a raw symbol wins.
type executor struct {
	idx       *Index
	query     string
	normQuery string
	highlight *regexp.Regexp
	seen      map[string]struct{}
	results   []Result
}

// Search runs the match cascade for query against idx and returns the
// [offset, offset+limit) window of the ranked results:
//
//  1. normalized symbol equals the query (symbol)
//  2. normalized symbol starts with the query (symbol)
//  3. normalized symbol contains the query (partial)
//  4. normalized name contains the query (name when equal, else partial)
//  5. trigram overlap of at least half the query trigrams plus a substring
//     relation (partial, FuzzyPenalty), only for queries of three or more
//     runes while fewer than limit results were collected.
func Search(idx *Index, query string, limit, offset int) []Result {
	if limit <= 0 || idx == nil {
		return []Result{}
	}
	// Malformed bytes would not compile into the highlight pattern.
	query = strings.ToValidUTF8(query, "\uFFFD")

	ex := &executor{
		idx:       idx,
		query:     query,
		normQuery: Normalize(query),
		seen:      make(map[string]struct{}),
	}
	if query != "" {
		ex.highlight = regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
	}

	ex.exactSymbols()
	ex.symbolPrefixes()
	ex.symbolContains()
	ex.names()
	if utf8.RuneCountInString(ex.normQuery) >= minFuzzyQueryLen && len(ex.results) < limit {
		ex.fuzzy()
	}

	sort.SliceStable(ex.results, func(i, j int) bool {
		a, b := ex.results[i], ex.results[j]
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		if ra, rb := idx.rankOf(a.Symbol), idx.rankOf(b.Symbol); ra != rb {
			return ra < rb
		}
		return a.Symbol < b.Symbol
	})

	return pagination.Window(ex.results, offset, limit)
}

func (ex *executor) exactSymbols() {
	for _, a := range ex.idx.bySymbol[ex.normQuery] {
		ex.add(a, MatchSymbol, 0)
	}
}

func (ex *executor) symbolPrefixes() {
	for _, key := range ex.idx.symbolKeys {
		if key != ex.normQuery && strings.HasPrefix(key, ex.normQuery) {
			for _, a := range ex.idx.bySymbol[key] {
				ex.add(a, MatchSymbol, 0)
			}
		}
	}
}

func (ex *executor) symbolContains() {
	for _, key := range ex.idx.symbolKeys {
		if strings.Contains(key, ex.normQuery) && !strings.HasPrefix(key, ex.normQuery) {
			for _, a := range ex.idx.bySymbol[key] {
				ex.add(a, MatchPartial, 0)
			}
		}
	}
}

func (ex *executor) names() {
	for _, key := range ex.idx.nameKeys {
		if !strings.Contains(key, ex.normQuery) {
			continue
		}
		matchType := MatchPartial
		if key == ex.normQuery {
			matchType = MatchName
		}
		for _, a := range ex.idx.byName[key] {
			ex.add(a, matchType, 0)
		}
	}
}

func (ex *executor) fuzzy() {
	queryTrigrams := Trigrams(ex.normQuery)
	overlap := make(map[string]int)
	for _, tri := range queryTrigrams {
		for symbol := range ex.idx.trigrams[tri] {
			overlap[symbol]++
		}
	}

	minOverlap := max(1, int(math.Ceil(float64(len(queryTrigrams))*fuzzyOverlap)))
	candidates := make([]string, 0, len(overlap))
	for symbol, n := range overlap {
		if n >= minOverlap {
			candidates = append(candidates, symbol)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ri, rj := ex.idx.rankOf(candidates[i]), ex.idx.rankOf(candidates[j])
		if ri != rj {
			return ri < rj
		}
		return candidates[i] < candidates[j]
	})

	for _, symbol := range candidates {
		if _, ok := ex.seen[symbol]; ok {
			continue
		}
		a, ok := ex.idx.byRaw[symbol]
		if !ok || !substringRelated(a, ex.normQuery) {
			continue
		}
		ex.add(a, MatchPartial, FuzzyPenalty)
	}
}

// substringRelated rejects trigram coincidences: the query and the symbol or
// name must contain one another.
func substringRelated(a models.Asset, q string) bool {
	symbol := Normalize(a.Symbol)
	if strings.Contains(symbol, q) || strings.Contains(q, symbol) {
		return true
	}
	if a.Name == "" {
		return false
	}
	name := Normalize(a.Name)
	return name != "" && (strings.Contains(name, q) || strings.Contains(q, name))
}

func (ex *executor) add(a models.Asset, matchType MatchType, penalty int) {
	if _, ok := ex.seen[a.Symbol]; ok {
		return
	}
	ex.seen[a.Symbol] = struct{}{}
	ex.results = append(ex.results, Result{
		Asset:          a,
		RelevanceScore: Score(a, ex.query, matchType) - penalty,
		MatchType:      matchType,
		SearchHighlights: Highlights{
			Symbol: ex.mark(a.Symbol),
			Name:   ex.mark(a.Name),
		},
	})
}

// mark wraps every case-insensitive literal occurrence of the raw query.
func (ex *executor) mark(text string) string {
	if text == "" || ex.highlight == nil {
		return text
	}
	return ex.highlight.ReplaceAllStringFunc(text, func(m string) string {
		return highlightOpen + m + highlightClose
	})
}
