// Package registry holds the static configuration surface of the dashboard:
// the recognized stablecoin tickers, the known-audited project slugs and the
// pool inclusion threshold. None of this is runtime-mutable.
package registry

import "strings"

// MinTVL is the minimum TVL in USD a pool must hold to be listed.
const MinTVL = 10_000_000

// SafeURL is substituted for any news URL that fails sanitization.
const SafeURL = "https://cryptopanic.com"

// PlaceholderAPIKey marks an unconfigured news API key. An empty key or this
// value switches the news fetcher into offline mock mode.
const PlaceholderAPIKey = "YOUR_CRYPTOPANIC_API_KEY"

// Stablecoins is the fixed registry of recognized stable-asset tickers.
var Stablecoins = []string{
	"USDT", "USDC", "DAI", "USDE", "PYUSD", "USDS", "USD1", "USDG",
	"GHO", "CRVUSD", "FRAX", "LUSD", "BUSD", "TUSD", "FDUSD", "UXD",
	"MIM", "ALUSD", "DOLA", "EUSD", "OUSD", "ZSUSD", "USDA", "USDP",
}

// AuditedProjects lists project slugs known to have passed a reputable audit.
// Matching is by substring overlap in either direction against the normalized
// project name.
var AuditedProjects = []string{
	"aave", "makerdao", "curve", "convex", "lido", "ethena", "stargate",
	"morpho", "spark", "compound", "venus", "flux", "justlend", "hyperion",
	"uniswap", "pancakeswap", "mountain-protocol", "ethena-labs", "pendle",
	"beefy", "yearn", "instadapp", "frax", "eigenlayer", "ether.fi", "puffer",
}

// NewsCurrencies is the registry subset sent as the currency restriction when
// the news feed is filtered to stablecoins.
var NewsCurrencies = []string{
	"USDT", "USDC", "DAI", "USDE", "PYUSD", "FRAX", "TUSD", "USDP",
}

var stablecoinSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Stablecoins))
	for _, s := range Stablecoins {
		set[s] = struct{}{}
	}
	return set
}()

// IsStablecoin reports whether the ticker (already uppercased and trimmed)
// belongs to the registry.
func IsStablecoin(ticker string) bool {
	_, ok := stablecoinSet[ticker]
	return ok
}

// NormalizeProject converts a project name to its slug form: lowercase, runs
// of whitespace collapsed to a single hyphen.
func NormalizeProject(project string) string {
	return strings.Join(strings.Fields(strings.ToLower(project)), "-")
}
