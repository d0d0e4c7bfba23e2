package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/yourorg/stableyield-sentinel/internal/config"
	"github.com/yourorg/stableyield-sentinel/internal/fetch"
	"github.com/yourorg/stableyield-sentinel/internal/guard"
	"github.com/yourorg/stableyield-sentinel/internal/otel"
	"github.com/yourorg/stableyield-sentinel/internal/poll"
	"github.com/yourorg/stableyield-sentinel/internal/render"
	"github.com/yourorg/stableyield-sentinel/internal/store"
	"github.com/yourorg/stableyield-sentinel/internal/telemetry"
	"github.com/yourorg/stableyield-sentinel/internal/view"
)

func main() {
	// Load .env if present; real environment variables take precedence
	if err := godotenv.Load(); err == nil {
		logrus.Debug("Loaded environment from .env file")
	}

	// Configure logging
	setupLogging()

	// Load configuration
	cfg := config.Load()

	// Initialize tracing
	shutdownTracer := otel.InitTracer(cfg)
	defer shutdownTracer()

	// Optional Prometheus metrics listener
	if cfg.EnableMetrics {
		go telemetry.Serve(cfg.MetricsPort)
	}

	st := store.New()
	state := initialState(cfg)

	pools := fetch.NewPoolClient(cfg)
	news := fetch.NewNewsClient(cfg)

	opts := []poll.Option{
		poll.WithNewsFilter(func() string { return state.NewsFilter }),
		poll.WithOnCycle(func() {
			render.Dashboard(os.Stdout, st.Pools(), st.News(), state)
		}),
	}
	if cfg.EnableGuard {
		g := guard.New(guard.Thresholds{
			MaxAPY:       cfg.GuardMaxAPY,
			MinPoolRatio: cfg.GuardMinRatio,
		}).WithResetDelay(cfg.GuardResetWait)
		opts = append(opts, poll.WithGuard(g))
	}

	poller := poll.New(pools, news, st, cfg.PollInterval, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// SIGHUP triggers an immediate refresh, SIGINT/SIGTERM stop the daemon
	refresh := make(chan struct{}, 1)
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			select {
			case refresh <- struct{}{}:
			default:
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logrus.Info("Sentinel shutting down...")
		cancel()
	}()

	logrus.WithField("interval", cfg.PollInterval.String()).Info("Sentinel starting")
	poller.Run(ctx, refresh)
	logrus.Info("Sentinel stopped")
}

// setupLogging configures the logging for the application
func setupLogging() {
	logFormat := strings.ToLower(os.Getenv("LOG_FORMAT"))
	logLevel := strings.ToLower(os.Getenv("LOG_LEVEL"))

	// Set log formatter based on environment
	switch logFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	default:
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	// Set log level based on environment
	switch logLevel {
	case "debug":
		logrus.SetLevel(logrus.DebugLevel)
	case "info":
		logrus.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		logrus.SetLevel(logrus.WarnLevel)
	case "error":
		logrus.SetLevel(logrus.ErrorLevel)
	default:
		logrus.SetLevel(logrus.InfoLevel)
	}

	logrus.Info("Logging configured")
}

// initialState builds the view state from configuration, starting from the
// defaults and applying each configured override through the reducer.
func initialState(cfg config.Config) view.State {
	s := view.DefaultState()

	if cfg.Search != "" {
		s = view.Apply(s, view.SearchChanged{Search: cfg.Search})
	}
	if cfg.StableTag != "" {
		s = view.Apply(s, view.StableSelected{Stable: cfg.StableTag})
	}
	if key := parseSortKey(cfg.SortKey); key != s.Sort.Key || !cfg.SortDesc {
		s.Sort = view.Sort{Key: key, Dir: view.Desc}
		if !cfg.SortDesc {
			s.Sort.Dir = view.Asc
		}
	}
	if cfg.NewsFilter == view.NewsStablecoins {
		s = view.Apply(s, view.NewsFilterSet{Filter: view.NewsStablecoins})
	}
	if cfg.Tab == string(view.TabIntel) {
		s = view.Apply(s, view.TabSet{Tab: view.TabIntel})
	}
	// Page last: the overrides above reset pagination
	if cfg.Page > 1 {
		s = view.Apply(s, view.PageSet{Page: cfg.Page})
	}
	return s
}

// parseSortKey maps a configured sort column name to a sort key, falling back
// to APY for anything unknown.
func parseSortKey(name string) view.SortKey {
	switch name {
	case "tvl", "tvlusd":
		return view.SortTVL
	case "30d", "apymean30d":
		return view.SortAPY30d
	case "safety":
		return view.SortSafety
	default:
		return view.SortAPY
	}
}
