// Package classify implements the symbol classifier: deciding whether a pool
// symbol is composed purely of recognized stablecoin tickers, and aggregating
// per-coin TVL for the filter tag row.
package classify

import (
	"sort"
	"strings"

	"github.com/yourorg/stableyield-sentinel/internal/model"
	"github.com/yourorg/stableyield-sentinel/internal/registry"
)

// SplitSymbol breaks a composite asset symbol into its individual tickers.
// Tokens are split on '-' or '/', trimmed and uppercased.
func SplitSymbol(symbol string) []string {
	parts := strings.FieldsFunc(symbol, func(r rune) bool {
		return r == '-' || r == '/'
	})
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		tokens = append(tokens, strings.ToUpper(strings.TrimSpace(p)))
	}
	return tokens
}

// IsPureStablecoin reports whether every token of the symbol is a member of
// the stablecoin registry. An empty symbol is not pure.
func IsPureStablecoin(symbol string) bool {
	tokens := SplitSymbol(symbol)
	if len(tokens) == 0 {
		return false
	}
	for _, t := range tokens {
		if !registry.IsStablecoin(t) {
			return false
		}
	}
	return true
}

// TVLByCoin accumulates TVL per stablecoin ticker across the given pools.
// A multi-token pool contributes its full TVL to each of its component
// tickers, so totals measure exposure rather than share and sum to more
// than the combined pool TVL.
func TVLByCoin(pools []model.Pool) map[string]float64 {
	totals := make(map[string]float64)
	for _, p := range pools {
		for _, t := range SplitSymbol(p.Symbol) {
			if registry.IsStablecoin(t) {
				totals[t] += p.TVLUsd
			}
		}
	}
	return totals
}

// SortedTags returns the tickers present in the totals map ordered by
// accumulated TVL, highest first. Ties break alphabetically so the ordering
// is deterministic.
func SortedTags(totals map[string]float64) []string {
	tags := make([]string, 0, len(totals))
	for coin := range totals {
		tags = append(tags, coin)
	}
	sort.Slice(tags, func(i, j int) bool {
		if totals[tags[i]] == totals[tags[j]] {
			return tags[i] < tags[j]
		}
		return totals[tags[i]] > totals[tags[j]]
	})
	return tags
}
