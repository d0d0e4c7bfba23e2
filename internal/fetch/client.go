// Package fetch provides clients for the two upstream data sources: the
// yield-pool aggregator and the news API (the latter routed through a relay
// chain, since it rejects direct cross-origin calls).
package fetch

import (
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// newRetryClient creates a new HTTP client with transport-level retry
// capabilities. A zero timeout means no request deadline; failures are then
// detected only through rejected calls or malformed payloads.
func newRetryClient(timeout time.Duration) *http.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = 2
	c.RetryWaitMin = 500 * time.Millisecond
	c.RetryWaitMax = 3 * time.Second
	c.Logger = nil
	client := c.StandardClient()
	client.Timeout = timeout
	return client
}
