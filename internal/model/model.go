// Package model defines the core data structures for stableyield-sentinel.
package model

import "fmt"

// Pool represents a single stablecoin yield opportunity reported by the
// upstream aggregator. Instances are constructed fresh on every fetch cycle
// and are never mutated afterwards.
type Pool struct {
	// ID is the upstream pool identifier, unique within one fetch cycle
	ID string `json:"pool"`

	// Project is the protocol name, e.g. "aave-v3"
	Project string `json:"project"`

	// Chain is the network the pool lives on
	Chain string `json:"chain"`

	// Symbol is the asset ticker, possibly composite ("USDC-USDT")
	Symbol string `json:"symbol"`

	// TVLUsd is the USD-denominated Total Value Locked, non-negative
	TVLUsd float64 `json:"tvlUsd"`

	// APY is the current annualized yield in percent units
	APY float64 `json:"apy"`

	// APYMean7d and APYMean30d are rolling averages, zero when absent upstream
	APYMean7d  float64 `json:"apyMean7d,omitempty"`
	APYMean30d float64 `json:"apyMean30d,omitempty"`

	// APYBase and APYReward split the yield into base and incentive parts
	APYBase   float64 `json:"apyBase,omitempty"`
	APYReward float64 `json:"apyReward,omitempty"`

	// RewardTokens and UnderlyingTokens are contract addresses, checksummed
	// at the fetch boundary
	RewardTokens     []string `json:"rewardTokens,omitempty"`
	UnderlyingTokens []string `json:"underlyingTokens,omitempty"`

	// ILRisk is the upstream impermanent-loss classification ("no"/"yes")
	ILRisk string `json:"ilRisk,omitempty"`

	// IsAudit is derived at construction time from the upstream audit field
	// and the known-audited project list; it is not an upstream-native field
	IsAudit bool `json:"isAudit"`
}

// RiskLevel is a coarse risk classification derived from the current APY.
type RiskLevel string

const (
	RiskStable   RiskLevel = "STABLE"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// Risk classifies the pool by its current APY: below 8% is stable territory,
// below 15% moderate, anything above signals elevated risk.
func (p Pool) Risk() RiskLevel {
	switch {
	case p.APY < 8:
		return RiskStable
	case p.APY < 15:
		return RiskModerate
	default:
		return RiskHigh
	}
}

// FormatTVL renders the TVL the way the dashboard shows it: billions with one
// decimal, otherwise millions with one decimal.
func (p Pool) FormatTVL() string {
	if p.TVLUsd >= 1e9 {
		return fmt.Sprintf("$%.1fB", p.TVLUsd/1e9)
	}
	return fmt.Sprintf("$%.1fM", p.TVLUsd/1e6)
}

// NewsKind distinguishes editorial news from social posts.
type NewsKind string

const (
	KindNews   NewsKind = "news"
	KindSocial NewsKind = "social"
)

// NewsSource identifies where a news item came from.
type NewsSource struct {
	Title  string `json:"title"`
	Domain string `json:"domain"`
}

// NewsItem is a single news or social post. The URL is always a well-formed
// absolute https URL or the safe default; Kind is a pure function of the
// source domain, decided once at construction.
type NewsItem struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	PublishedAt string     `json:"published_at"`
	URL         string     `json:"url"`
	Source      NewsSource `json:"source"`
	Kind        NewsKind   `json:"kind"`
}

// IsSocial reports whether the item is a social post.
func (n NewsItem) IsSocial() bool {
	return n.Kind == KindSocial
}
