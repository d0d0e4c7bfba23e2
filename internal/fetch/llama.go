package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"

	"github.com/yourorg/stableyield-sentinel/internal/audit"
	"github.com/yourorg/stableyield-sentinel/internal/classify"
	"github.com/yourorg/stableyield-sentinel/internal/config"
	"github.com/yourorg/stableyield-sentinel/internal/model"
	"github.com/yourorg/stableyield-sentinel/internal/registry"
)

// PoolClient retrieves yield pools from the upstream aggregator. The pool API
// permits direct calls, so there is no relay chain here; the caller converts
// any error into the empty-list safe default.
type PoolClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPoolClient creates a pool client from the application configuration.
func NewPoolClient(cfg config.Config) *PoolClient {
	return &PoolClient{
		baseURL:    cfg.PoolsURL,
		httpClient: newRetryClient(cfg.RequestTimeout),
	}
}

// poolRecord is the upstream wire shape. The audit field is loosely typed and
// decoded through the tagged union; everything else maps straight onto the
// model struct.
type poolRecord struct {
	model.Pool
	Audits audit.Value `json:"audits"`
}

// Fetch retrieves all pools, keeping only those whose symbol is composed
// purely of registry stablecoins and whose TVL clears the inclusion
// threshold. The derived audit flag is attached and token addresses are
// checksum-normalized before the pool is returned.
func (c *PoolClient) Fetch(ctx context.Context) ([]model.Pool, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	logrus.Debugf("Fetching pools from %s", c.baseURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching pools: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("pool API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Data []poolRecord `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("error decoding pool response: %w", err)
	}

	pools := make([]model.Pool, 0, len(response.Data))
	for _, rec := range response.Data {
		if !classify.IsPureStablecoin(rec.Symbol) || rec.TVLUsd < registry.MinTVL {
			continue
		}
		p := rec.Pool
		p.IsAudit = audit.IsAudited(rec.Audits, rec.Project)
		p.UnderlyingTokens = checksumAddresses(p.UnderlyingTokens)
		p.RewardTokens = checksumAddresses(p.RewardTokens)
		pools = append(pools, p)
	}

	logrus.Debugf("Kept %d of %d pools after stablecoin and TVL filtering", len(pools), len(response.Data))
	return pools, nil
}

// checksumAddresses normalizes hex contract addresses to their EIP-55
// checksummed form. Non-address entries (non-EVM chains use other formats)
// pass through unchanged.
func checksumAddresses(addrs []string) []string {
	if len(addrs) == 0 {
		return addrs
	}
	out := make([]string, len(addrs))
	for i, a := range addrs {
		if common.IsHexAddress(a) {
			out[i] = common.HexToAddress(a).Hex()
		} else {
			out[i] = a
		}
	}
	return out
}
