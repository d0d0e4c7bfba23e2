package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/stableyield-sentinel/internal/registry"
)

func newTestPoolClient(serverURL string) *PoolClient {
	return &PoolClient{baseURL: serverURL, httpClient: http.DefaultClient}
}

func TestPoolClient_Fetch_FiltersAndDerives(t *testing.T) {
	payload := `{"data":[
		{"pool":"p1","project":"aave-v3","chain":"Ethereum","symbol":"USDC","tvlUsd":50000000,"apy":4.2,"audits":"2"},
		{"pool":"p2","project":"degen-farm","chain":"Base","symbol":"USDC-USDT","tvlUsd":25000000,"apy":19.0},
		{"pool":"p3","project":"curve-dex","chain":"Ethereum","symbol":"USDC-WETH","tvlUsd":90000000,"apy":3.0},
		{"pool":"p4","project":"tiny","chain":"Polygon","symbol":"DAI","tvlUsd":500000,"apy":8.0}
	]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload)
	}))
	defer server.Close()

	pools, err := newTestPoolClient(server.URL).Fetch(context.Background())
	require.NoError(t, err)

	// p3 has a non-stablecoin token, p4 misses the TVL threshold.
	require.Len(t, pools, 2)
	for _, p := range pools {
		assert.GreaterOrEqual(t, p.TVLUsd, float64(registry.MinTVL))
	}

	assert.Equal(t, "p1", pools[0].ID)
	assert.True(t, pools[0].IsAudit, "audit field \"2\" marks the pool audited")
	assert.Equal(t, "p2", pools[1].ID)
	assert.False(t, pools[1].IsAudit, "no audit field and no allow-list match")
}

func TestPoolClient_Fetch_AllowListAudit(t *testing.T) {
	payload := `{"data":[
		{"pool":"p1","project":"Mountain Protocol","chain":"Ethereum","symbol":"USDP","tvlUsd":30000000,"apy":5.0}
	]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload)
	}))
	defer server.Close()

	pools, err := newTestPoolClient(server.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.True(t, pools[0].IsAudit)
}

func TestPoolClient_Fetch_ChecksumsAddresses(t *testing.T) {
	payload := `{"data":[
		{"pool":"p1","project":"aave-v3","chain":"Ethereum","symbol":"USDC","tvlUsd":30000000,"apy":4.0,
		 "underlyingTokens":["0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48","ibc/usdc-denom"]}
	]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload)
	}))
	defer server.Close()

	pools, err := newTestPoolClient(server.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, pools, 1)

	// EIP-55 mixed-case form for the USDC contract; non-EVM denoms untouched.
	assert.Equal(t, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", pools[0].UnderlyingTokens[0])
	assert.Equal(t, "ibc/usdc-denom", pools[0].UnderlyingTokens[1])
}

func TestPoolClient_Fetch_NonSuccessStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestPoolClient(server.URL).Fetch(context.Background())
	assert.Error(t, err)
}

func TestPoolClient_Fetch_MalformedPayloadIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<!DOCTYPE html><html>maintenance</html>")
	}))
	defer server.Close()

	_, err := newTestPoolClient(server.URL).Fetch(context.Background())
	assert.Error(t, err)
}

func TestPoolClient_Fetch_MalformedAuditFieldDegrades(t *testing.T) {
	payload := `{"data":[
		{"pool":"p1","project":"degen-farm","chain":"Base","symbol":"USDT","tvlUsd":20000000,"apy":6.0,"audits":{"weird":true}}
	]}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, payload)
	}))
	defer server.Close()

	pools, err := newTestPoolClient(server.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.False(t, pools[0].IsAudit, "undecodable audit field degrades to not audited")
}
