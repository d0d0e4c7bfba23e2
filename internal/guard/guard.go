// Package guard provides a defensive mechanism that detects anomalous pool
// snapshots before they replace the dashboard's working data set.
package guard

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourorg/stableyield-sentinel/internal/model"
)

// State represents the current state of the snapshot guard
type State int

// Snapshot guard states
const (
	StateClosed   State = iota // Normal operation, snapshots accepted
	StateOpen                  // Tripped, incoming snapshots rejected
	StateHalfOpen              // Testing whether the upstream has recovered
)

// Thresholds defines the limits that will trip the guard
type Thresholds struct {
	// Maximum plausible APY in percent (e.g. 10000 for 10,000%)
	MaxAPY float64 `json:"max_apy"`

	// Minimum allowed ratio of the new pool count to the previous count
	// (e.g. 0.5 rejects snapshots that lose more than half the pools)
	MinPoolRatio float64 `json:"min_pool_ratio"`
}

// SnapshotGuard rejects pool snapshots that look like upstream failures
// rather than genuine market moves: a feed that suddenly goes empty, loses
// most of its pools, or reports absurd yields. While open it serves the
// last snapshot that passed all checks.
type SnapshotGuard struct {
	thresholds Thresholds

	state    State
	lastTrip time.Time

	// Duration before an auto-reset attempt
	resetDelay time.Duration

	mu sync.RWMutex

	// Last snapshot that passed all checks, served while the guard is open
	lastGood []model.Pool

	// Consecutive accepted snapshots while half-open
	successCount int

	// Accepted snapshots required to close the guard again
	successThreshold int

	// Event callback for monitoring/alerting
	onTripCallback func(reason string, pools []model.Pool)
}

// New creates a SnapshotGuard with the provided thresholds
func New(t Thresholds) *SnapshotGuard {
	return &SnapshotGuard{
		thresholds:       t,
		state:            StateClosed,
		resetDelay:       5 * time.Minute,
		successThreshold: 3,
	}
}

// WithResetDelay sets a custom reset delay and returns the guard
func (g *SnapshotGuard) WithResetDelay(delay time.Duration) *SnapshotGuard {
	g.resetDelay = delay
	return g
}

// WithSuccessThreshold sets the number of accepted snapshots needed to close the guard
func (g *SnapshotGuard) WithSuccessThreshold(threshold int) *SnapshotGuard {
	g.successThreshold = threshold
	return g
}

// WithTripCallback sets a callback function that is called when the guard trips
func (g *SnapshotGuard) WithTripCallback(callback func(reason string, pools []model.Pool)) *SnapshotGuard {
	g.onTripCallback = callback
	return g
}

// Check evaluates an incoming pool snapshot against the thresholds.
// If the guard is open, it rejects the snapshot and returns an error.
// If the snapshot violates a threshold, it trips the guard and returns an error.
// On success the snapshot becomes the new last-good fallback.
func (g *SnapshotGuard) Check(pools []model.Pool) error {
	g.mu.RLock()
	state := g.state
	lastTripTime := g.lastTrip
	g.mu.RUnlock()

	if state == StateOpen {
		if time.Since(lastTripTime) > g.resetDelay {
			g.transitionToHalfOpen()
		} else {
			return errors.New("snapshot guard open: serving last good snapshot")
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// An empty snapshot after a non-empty one looks like a feed outage,
	// not a market where every stablecoin pool vanished at once.
	if len(pools) == 0 {
		if len(g.lastGood) > 0 {
			reason := "empty snapshot after non-empty history"
			g.trip(reason, pools)
			return errors.New(reason)
		}
		// Nothing to compare against yet; accept the empty start.
		return nil
	}

	if len(g.lastGood) > 0 && g.thresholds.MinPoolRatio > 0 {
		ratio := float64(len(pools)) / float64(len(g.lastGood))
		if ratio < g.thresholds.MinPoolRatio {
			reason := fmt.Sprintf("pool count collapsed: %d -> %d (ratio %.2f, minimum %.2f)",
				len(g.lastGood), len(pools), ratio, g.thresholds.MinPoolRatio)
			g.trip(reason, pools)
			return errors.New(reason)
		}
	}

	if g.thresholds.MaxAPY > 0 {
		for _, p := range pools {
			if p.APY > g.thresholds.MaxAPY {
				reason := fmt.Sprintf("APY exceeds maximum threshold: %s reports %.2f%% > %.2f%%",
					p.Project, p.APY, g.thresholds.MaxAPY)
				g.trip(reason, pools)
				return errors.New(reason)
			}
		}
	}

	logrus.Debug("Snapshot guard checks passed")

	g.lastGood = pools

	if g.state == StateHalfOpen {
		g.successCount++
		if g.successCount >= g.successThreshold {
			g.state = StateClosed
			g.successCount = 0
			logrus.Info("Snapshot guard closed: upstream has recovered")
		}
	}

	return nil
}

// GetState returns the current state of the guard
func (g *SnapshotGuard) GetState() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Reset forcibly resets the guard to closed state
func (g *SnapshotGuard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateClosed
	g.successCount = 0
	logrus.Info("Snapshot guard manually reset to closed state")
}

// LastGood returns a copy of the most recent snapshot that passed all checks
func (g *SnapshotGuard) LastGood() []model.Pool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if len(g.lastGood) == 0 {
		return nil
	}

	out := make([]model.Pool, len(g.lastGood))
	copy(out, g.lastGood)
	return out
}

// transitionToHalfOpen changes the guard state to half-open for testing recovery
func (g *SnapshotGuard) transitionToHalfOpen() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateOpen {
		g.state = StateHalfOpen
		g.successCount = 0
		logrus.Info("Snapshot guard half-open: testing upstream recovery")
	}
}

// trip sets the guard to open state with the current time
func (g *SnapshotGuard) trip(reason string, pools []model.Pool) {
	g.state = StateOpen
	g.lastTrip = time.Now()
	logrus.Warnf("Snapshot guard tripped: %s", reason)

	if g.onTripCallback != nil {
		go g.onTripCallback(reason, pools)
	}
}
