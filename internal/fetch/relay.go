package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourorg/stableyield-sentinel/internal/telemetry"
)

// Relay fetches the body of a target URL through an intermediary that
// performs the request server-side. Implementations differ only in how the
// body comes back: wrapped in a JSON envelope or passed through raw.
type Relay interface {
	// Name identifies the relay in logs and metrics
	Name() string

	// Get retrieves the target URL's body via the relay
	Get(ctx context.Context, target string) ([]byte, error)
}

// EnvelopeRelay routes requests through a relay that wraps the upstream body
// in a {"contents": "..."} JSON envelope, requiring a secondary parse step.
type EnvelopeRelay struct {
	baseURL    string
	httpClient *http.Client
}

// NewEnvelopeRelay creates a relay for JSON-envelope style proxies.
func NewEnvelopeRelay(baseURL string, client *http.Client) *EnvelopeRelay {
	return &EnvelopeRelay{baseURL: baseURL, httpClient: client}
}

func (r *EnvelopeRelay) Name() string { return "envelope" }

func (r *EnvelopeRelay) Get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", r.baseURL+url.QueryEscape(target), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating relay request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relay returned status %d", resp.StatusCode)
	}

	var envelope struct {
		Contents string `json:"contents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("error decoding relay envelope: %w", err)
	}
	if envelope.Contents == "" {
		return nil, fmt.Errorf("relay returned empty contents")
	}

	return []byte(envelope.Contents), nil
}

// PassthroughRelay routes requests through a relay that returns the upstream
// body directly, without an envelope.
type PassthroughRelay struct {
	baseURL    string
	httpClient *http.Client
}

// NewPassthroughRelay creates a relay for direct pass-through proxies.
func NewPassthroughRelay(baseURL string, client *http.Client) *PassthroughRelay {
	return &PassthroughRelay{baseURL: baseURL, httpClient: client}
}

func (r *PassthroughRelay) Name() string { return "passthrough" }

func (r *PassthroughRelay) Get(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", r.baseURL+url.QueryEscape(target), nil)
	if err != nil {
		return nil, fmt.Errorf("error creating relay request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("relay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("relay returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading relay body: %w", err)
	}
	return body, nil
}

// Chain tries an ordered list of relays in sequence; the first success
// short-circuits. A relay that answers with HTML instead of JSON counts as
// failed, since that is how blocked or mis-proxied requests come back.
type Chain struct {
	relays  []Relay
	limiter *rate.Limiter
}

// NewChain creates a relay chain. The limiter keeps the daemon polite toward
// shared public relays; pass nil to disable limiting.
func NewChain(limiter *rate.Limiter, relays ...Relay) *Chain {
	return &Chain{relays: relays, limiter: limiter}
}

// Fetch runs the chain against the target URL and returns the first JSON-ish
// body obtained. It fails only when every relay has been exhausted.
func (c *Chain) Fetch(ctx context.Context, target string) ([]byte, error) {
	var lastErr error
	for _, relay := range c.relays {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		telemetry.RelayAttempts.WithLabelValues(relay.Name()).Inc()
		body, err := relay.Get(ctx, target)
		if err != nil {
			telemetry.RelayFailures.WithLabelValues(relay.Name()).Inc()
			logrus.WithField("relay", relay.Name()).Debugf("Relay attempt failed: %v", err)
			lastErr = err
			continue
		}
		if looksLikeHTML(body) {
			telemetry.RelayFailures.WithLabelValues(relay.Name()).Inc()
			logrus.WithField("relay", relay.Name()).Debug("Relay returned HTML, treating as blocked")
			lastErr = fmt.Errorf("relay %s returned HTML instead of JSON", relay.Name())
			continue
		}
		return body, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no relays configured")
	}
	return nil, fmt.Errorf("all relays exhausted: %w", lastErr)
}

// looksLikeHTML sniffs for a leading '<' (covers both "<html" and
// "<!DOCTYPE"), which marks a blocked or mis-proxied response.
func looksLikeHTML(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '<'
}
