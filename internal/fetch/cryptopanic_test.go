package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/stableyield-sentinel/internal/model"
	"github.com/yourorg/stableyield-sentinel/internal/registry"
)

func newTestNewsClient(apiKey string, relays ...Relay) (*NewsClient, []*stubRelay) {
	stubs := make([]*stubRelay, 0, len(relays))
	for _, r := range relays {
		if s, ok := r.(*stubRelay); ok {
			stubs = append(stubs, s)
		}
	}
	return &NewsClient{
		baseURL: "https://news.example.com/api/v1/posts/",
		apiKey:  apiKey,
		chain:   NewChain(nil, relays...),
	}, stubs
}

func TestFetch_EmptyKeyServesMockWithoutNetwork(t *testing.T) {
	client, stubs := newTestNewsClient("", &stubRelay{name: "a", body: []byte(`{"results":[]}`)})

	items := client.Fetch(context.Background(), FilterAll)

	assert.Equal(t, MockNewsTitles(t), titlesOf(items))
	assert.Equal(t, 0, stubs[0].calls, "offline mode must not touch the network")
}

func TestFetch_PlaceholderKeyServesMock(t *testing.T) {
	client, stubs := newTestNewsClient(registry.PlaceholderAPIKey, &stubRelay{name: "a"})

	items := client.Fetch(context.Background(), FilterAll)

	assert.Len(t, items, 4)
	assert.Equal(t, 0, stubs[0].calls)
}

func TestFetch_AllRelaysFailingFallsBackToMock(t *testing.T) {
	client, _ := newTestNewsClient("valid-key",
		&stubRelay{name: "a", err: fmt.Errorf("down")},
		&stubRelay{name: "b", err: fmt.Errorf("also down")},
	)

	items := client.Fetch(context.Background(), FilterAll)

	require.Len(t, items, 4)
	assert.Equal(t, MockNewsTitles(t), titlesOf(items))
}

func TestFetch_MissingResultsArrayFallsBackToMock(t *testing.T) {
	client, _ := newTestNewsClient("valid-key",
		&stubRelay{name: "a", body: []byte(`{"detail":"invalid token"}`)},
	)

	items := client.Fetch(context.Background(), FilterAll)

	assert.Equal(t, MockNewsTitles(t), titlesOf(items))
}

func TestFetch_NormalizesItems(t *testing.T) {
	payload := `{"results":[
		{"id":10,"title":"USDC depeg fears overblown","published_at":"2026-08-30T12:00:00Z",
		 "url":"//coindesk.com/markets/usdc","source":{"title":"CoinDesk","domain":"coindesk.com"}},
		{"id":11,"title":"Thread on USDT reserves","published_at":"2026-08-30T13:00:00Z",
		 "url":"javascript:alert(1)","source":{"title":"Twitter / analyst","domain":"twitter.com"}}
	]}`
	client, _ := newTestNewsClient("valid-key", &stubRelay{name: "a", body: []byte(payload)})

	items := client.Fetch(context.Background(), FilterAll)

	require.Len(t, items, 2)
	assert.Equal(t, "https://coindesk.com/markets/usdc", items[0].URL)
	assert.Equal(t, model.KindNews, items[0].Kind)
	assert.Equal(t, registry.SafeURL, items[1].URL)
	assert.Equal(t, model.KindSocial, items[1].Kind)
}

func TestFetch_EmptyResultsArrayIsEmptyList(t *testing.T) {
	client, _ := newTestNewsClient("valid-key", &stubRelay{name: "a", body: []byte(`{"results":[]}`)})

	items := client.Fetch(context.Background(), FilterAll)

	assert.Empty(t, items)
}

func TestTargetURL(t *testing.T) {
	client, _ := newTestNewsClient("secret-key", &stubRelay{name: "a"})

	all, err := url.Parse(client.targetURL(FilterAll))
	require.NoError(t, err)
	assert.Equal(t, "secret-key", all.Query().Get("auth_token"))
	assert.Equal(t, "en", all.Query().Get("regions"))
	assert.Empty(t, all.Query().Get("currencies"))

	stables, err := url.Parse(client.targetURL(FilterStablecoins))
	require.NoError(t, err)
	currencies := strings.Split(stables.Query().Get("currencies"), ",")
	assert.Equal(t, registry.NewsCurrencies, currencies)
}

func TestClassifyKind(t *testing.T) {
	tests := []struct {
		domain string
		want   model.NewsKind
	}{
		{"twitter.com", model.KindSocial},
		{"reddit.com", model.KindSocial},
		{"t.me", model.KindSocial},
		{"old.reddit.com", model.KindSocial},
		{"cointelegraph.com", model.KindNews},
		{"theblock.co", model.KindNews},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyKind(tt.domain))
		})
	}
}

func TestMockNews_KindsMatchDomains(t *testing.T) {
	for _, item := range MockNews() {
		assert.Equal(t, ClassifyKind(item.Source.Domain), item.Kind, item.Source.Domain)
	}
}

// MockNewsTitles returns the titles of the fixed offline set, for comparing
// fallback output without pinning timestamps.
func MockNewsTitles(t *testing.T) []string {
	t.Helper()
	return titlesOf(MockNews())
}

func titlesOf(items []model.NewsItem) []string {
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	return titles
}
