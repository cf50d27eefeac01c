package search

import (
	"math"
	"strings"

	"cryptowatch/internal/models"
)

// MatchType is the coarse kind of match reported with a result.
type MatchType string

const (
	MatchSymbol  MatchType = "symbol"
	MatchName    MatchType = "name"
	MatchPartial MatchType = "partial"
)

// Score weights.
const (
	symbolExactScore    = 100
	symbolPrefixScore   = 80
	symbolContainsScore = 60
	nameExactScore      = 90
	namePrefixScore     = 70
	nameContainsScore   = 50

	volumeBoostDivisor = 1_000_000
	maxVolumeBoost     = 10
	symbolLengthFree   = 6
	symbolLengthWeight = 2

	// FuzzyPenalty is subtracted from trigram-only matches.
	FuzzyPenalty = 30
)

// Score ranks asset against query. Symbol and name tiers add up, quote volume
// adds at most 10 points and symbols longer than six characters lose two
// points per extra character. The result is rounded half up and may be
// negative. matchType does not change the computation; fuzzy callers subtract
// FuzzyPenalty themselves.
func Score(asset models.Asset, query string, matchType MatchType) int {
	q := Normalize(query)
	symbol := Normalize(asset.Symbol)

	score := 0.0
	switch {
	case symbol == q:
		score += symbolExactScore
	case strings.HasPrefix(symbol, q):
		score += symbolPrefixScore
	case strings.Contains(symbol, q):
		score += symbolContainsScore
	}

	if asset.Name != "" {
		name := Normalize(asset.Name)
		switch {
		case name == q:
			score += nameExactScore
		case strings.HasPrefix(name, q):
			score += namePrefixScore
		case strings.Contains(name, q):
			score += nameContainsScore
		}
	}

	score += math.Min(asset.QuoteVolume/volumeBoostDivisor, maxVolumeBoost)
	score -= float64(max(0, (len(asset.Symbol)-symbolLengthFree)*symbolLengthWeight))

	return int(math.Floor(score + 0.5))
}
