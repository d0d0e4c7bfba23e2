package fetch

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourorg/stableyield-sentinel/internal/config"
	"github.com/yourorg/stableyield-sentinel/internal/model"
	"github.com/yourorg/stableyield-sentinel/internal/registry"
)

// News filter modes passed through from the UI surface.
const (
	FilterAll         = "all"
	FilterStablecoins = "stablecoins"
)

// NewsClient retrieves news and social posts. The upstream API rejects
// direct cross-origin calls, so requests go through the relay chain. Fetch
// is total: every failure path lands on the fixed mock item set, never on an
// error.
type NewsClient struct {
	baseURL string
	apiKey  string
	chain   *Chain
}

// NewNewsClient creates a news client from the application configuration,
// wiring the relay chain in configured order behind a shared rate limiter.
func NewNewsClient(cfg config.Config) *NewsClient {
	client := newRetryClient(cfg.RequestTimeout)
	limiter := rate.NewLimiter(rate.Limit(cfg.RelayRPS), cfg.RelayBurst)
	return &NewsClient{
		baseURL: cfg.NewsURL,
		apiKey:  cfg.NewsAPIKey,
		chain: NewChain(limiter,
			NewEnvelopeRelay(cfg.EnvelopeRelayURL, client),
			NewPassthroughRelay(cfg.PassthroughRelayURL, client),
		),
	}
}

// newsRecord is the upstream wire shape of one post.
type newsRecord struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	PublishedAt string `json:"published_at"`
	URL         string `json:"url"`
	Source      struct {
		Title  string `json:"title"`
		Domain string `json:"domain"`
	} `json:"source"`
}

// Fetch returns the current news list. With no API key (or the placeholder)
// it returns the mock set immediately without touching the network: offline
// demo mode, not an error path. Otherwise the relay chain is run and any
// failure, including a payload without a results array, degrades to the same
// mock set.
func (c *NewsClient) Fetch(ctx context.Context, filter string) []model.NewsItem {
	if c.apiKey == "" || c.apiKey == registry.PlaceholderAPIKey {
		logrus.Debug("News API key not configured, serving offline mock data")
		return MockNews()
	}

	body, err := c.chain.Fetch(ctx, c.targetURL(filter))
	if err != nil {
		logrus.Warnf("News fetch failed, using offline mock data: %v", err)
		return MockNews()
	}

	var payload struct {
		Results []newsRecord `json:"results"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Results == nil {
		logrus.Warn("News payload had no parsable results array, using offline mock data")
		return MockNews()
	}

	items := make([]model.NewsItem, 0, len(payload.Results))
	for _, rec := range payload.Results {
		items = append(items, model.NewsItem{
			ID:          rec.ID,
			Title:       rec.Title,
			PublishedAt: rec.PublishedAt,
			URL:         SanitizeURL(rec.URL),
			Source:      model.NewsSource{Title: rec.Source.Title, Domain: rec.Source.Domain},
			Kind:        ClassifyKind(rec.Source.Domain),
		})
	}

	logrus.Debugf("Received %d news items", len(items))
	return items
}

// targetURL builds the upstream request URL with the auth token, the English
// region restriction and, for the stablecoin filter, the currency list drawn
// from the registry subset.
func (c *NewsClient) targetURL(filter string) string {
	q := url.Values{}
	q.Set("auth_token", c.apiKey)
	if filter == FilterStablecoins {
		q.Set("currencies", strings.Join(registry.NewsCurrencies, ","))
	}
	q.Set("regions", "en")
	return c.baseURL + "?" + q.Encode()
}

// ClassifyKind derives the item kind from the source domain: twitter, reddit
// and t.me hosts are social, everything else is news. Decided once at
// construction time.
func ClassifyKind(domain string) model.NewsKind {
	d := strings.ToLower(domain)
	if strings.Contains(d, "twitter") || strings.Contains(d, "reddit") || strings.Contains(d, "t.me") {
		return model.KindSocial
	}
	return model.KindNews
}

// MockNews returns the fixed offline item set served when the API key is
// missing or every relay failed.
func MockNews() []model.NewsItem {
	now := time.Now()
	return []model.NewsItem{
		{
			ID:          1,
			Title:       "Ethena (USDE) achieves $3B TVL milestone as cross-chain support expands",
			PublishedAt: now.UTC().Format(time.RFC3339),
			URL:         registry.SafeURL,
			Source:      model.NewsSource{Title: "CoinTelegraph", Domain: "cointelegraph.com"},
			Kind:        model.KindNews,
		},
		{
			ID:          2,
			Title:       "Poll: Which yield strategy are you using for USDC right now? #DeFi #Yield",
			PublishedAt: now.Add(-10 * time.Minute).UTC().Format(time.RFC3339),
			URL:         registry.SafeURL,
			Source:      model.NewsSource{Title: "Reddit /r/DeFi", Domain: "reddit.com"},
			Kind:        model.KindSocial,
		},
		{
			ID:          3,
			Title:       "Sky Finance governance proposal to increase USD1 debt ceiling passes",
			PublishedAt: now.Add(-time.Hour).UTC().Format(time.RFC3339),
			URL:         registry.SafeURL,
			Source:      model.NewsSource{Title: "The Block", Domain: "theblock.co"},
			Kind:        model.KindNews,
		},
		{
			ID:          4,
			Title:       "Massive inflow of $PYUSD detected on Solana DEXes. Yield farming season is back?",
			PublishedAt: now.Add(-2 * time.Minute).UTC().Format(time.RFC3339),
			URL:         registry.SafeURL,
			Source:      model.NewsSource{Title: "Twitter / DeFi_Whale", Domain: "twitter.com"},
			Kind:        model.KindSocial,
		},
	}
}
