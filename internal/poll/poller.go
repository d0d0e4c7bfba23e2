// Package poll drives the periodic refresh cycle: both upstream sources are
// fetched concurrently and the results replace the shared snapshot.
package poll

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yourorg/stableyield-sentinel/internal/guard"
	"github.com/yourorg/stableyield-sentinel/internal/model"
	"github.com/yourorg/stableyield-sentinel/internal/otel"
	"github.com/yourorg/stableyield-sentinel/internal/store"
	"github.com/yourorg/stableyield-sentinel/internal/telemetry"
)

// PoolSource fetches the yield pool snapshot.
type PoolSource interface {
	Fetch(ctx context.Context) ([]model.Pool, error)
}

// NewsSource fetches news for the given filter.
type NewsSource interface {
	Fetch(ctx context.Context, filter string) []model.NewsItem
}

// Poller refreshes the store from both sources on a fixed interval.
// Each source degrades independently: a pool fetch failure yields an empty
// pool list for that cycle, and the news source handles its own fallback.
type Poller struct {
	pools    PoolSource
	news     NewsSource
	store    *store.Store
	guard    *guard.SnapshotGuard
	interval time.Duration

	// Called after every completed cycle, with the dashboard re-render hook
	onCycle func()

	newsFilterFn func() string
}

// Option configures a Poller.
type Option func(*Poller)

// WithGuard attaches a snapshot guard. Rejected pool snapshots are replaced
// by the guard's last good snapshot instead of overwriting the store.
func WithGuard(g *guard.SnapshotGuard) Option {
	return func(p *Poller) { p.guard = g }
}

// WithOnCycle registers a hook invoked after each completed refresh.
func WithOnCycle(fn func()) Option {
	return func(p *Poller) { p.onCycle = fn }
}

// WithNewsFilter registers a function that supplies the news filter for each
// cycle, so filter changes take effect on the next refresh.
func WithNewsFilter(fn func() string) Option {
	return func(p *Poller) { p.newsFilterFn = fn }
}

// New creates a Poller over the given sources and store.
func New(pools PoolSource, news NewsSource, st *store.Store, interval time.Duration, opts ...Option) *Poller {
	p := &Poller{
		pools:    pools,
		news:     news,
		store:    st,
		interval: interval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run performs an initial refresh and then refreshes on every tick until the
// context is cancelled. A value on the refresh channel triggers an immediate
// out-of-band cycle without resetting the ticker.
func (p *Poller) Run(ctx context.Context, refresh <-chan struct{}) {
	p.Refresh(ctx, "startup")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Info("Poller stopped")
			return
		case <-ticker.C:
			p.Refresh(ctx, "interval")
		case <-refresh:
			p.Refresh(ctx, "manual")
		}
	}
}

// Refresh fetches both sources concurrently and replaces the store snapshots.
// The trigger label distinguishes startup, interval and manual cycles in the
// metrics.
func (p *Poller) Refresh(ctx context.Context, trigger string) {
	start := time.Now()
	telemetry.FetchCycles.WithLabelValues(trigger).Inc()

	ctx, span := otel.Tracer().Start(ctx, "refresh")
	span.SetAttributes(attribute.String("trigger", trigger))
	defer span.End()

	filter := "all"
	if p.newsFilterFn != nil {
		filter = p.newsFilterFn()
	}

	var (
		wg    sync.WaitGroup
		pools []model.Pool
		news  []model.NewsItem
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		fetched, err := p.pools.Fetch(ctx)
		if err != nil {
			logrus.WithError(err).Warn("Pool fetch failed, rendering empty pool list")
			telemetry.SourceErrors.WithLabelValues("pools").Inc()
			otel.RecordError(ctx, err)
			fetched = []model.Pool{}
		}
		pools = fetched
	}()
	go func() {
		defer wg.Done()
		news = p.news.Fetch(ctx, filter)
	}()
	wg.Wait()

	pools = p.applyGuard(pools)

	p.store.SetPools(pools)
	p.store.SetNews(news)

	telemetry.PoolCount.Set(float64(len(pools)))
	telemetry.MarketAPY.Set(averageAPY(pools))
	telemetry.FetchDuration.Observe(time.Since(start).Seconds())

	logrus.WithFields(logrus.Fields{
		"trigger":  trigger,
		"pools":    len(pools),
		"news":     len(news),
		"duration": time.Since(start).String(),
	}).Info("Refresh cycle complete")

	if p.onCycle != nil {
		p.onCycle()
	}
}

// applyGuard runs the snapshot guard if one is attached. A rejected snapshot
// is substituted with the last good one so the dashboard keeps showing data.
func (p *Poller) applyGuard(pools []model.Pool) []model.Pool {
	if p.guard == nil {
		return pools
	}
	if err := p.guard.Check(pools); err != nil {
		logrus.WithError(err).Warn("Snapshot rejected, keeping last good snapshot")
		if last := p.guard.LastGood(); last != nil {
			return last
		}
	}
	return pools
}

func averageAPY(pools []model.Pool) float64 {
	if len(pools) == 0 {
		return 0
	}
	var sum float64
	for _, p := range pools {
		sum += p.APY
	}
	return sum / float64(len(pools))
}
