package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/beetlebot/award-finder/internal/adapters/live"
	"github.com/beetlebot/award-finder/internal/adapters/mock"
	"github.com/beetlebot/award-finder/internal/cache"
	"github.com/beetlebot/award-finder/internal/config"
	"github.com/beetlebot/award-finder/internal/core"
	"github.com/beetlebot/award-finder/internal/currency"
	"github.com/beetlebot/award-finder/internal/logging"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// loadConfig reads --config (or AWARDS_CONFIG, or ./config.yaml) and applies
// --mode. A missing default file is not an error; flags may carry the search.
func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	path, _ := cmd.Flags().GetString("config")
	explicit := path != "" || os.Getenv("AWARDS_CONFIG") != ""

	cfg, err := config.Load(path)
	if err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, path, err
		}
		cfg, path = config.FromEnv(), ""
	} else if path == "" {
		path = os.Getenv("AWARDS_CONFIG")
		if path == "" {
			path = config.DefaultPath
		}
	}

	modeFlag, _ := cmd.Flags().GetString("mode")
	cfg.WithMode(modeFlag)
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	if format, _ := cmd.Flags().GetString("log-format"); format != "" {
		cfg.LogFormat = format
	}
	return cfg, path, nil
}

func buildLogger(cfg *config.Config) *slog.Logger {
	logger := logging.NewStderr(cfg.LogLevel, logging.ParseFormat(cfg.LogFormat))
	slog.SetDefault(logger)
	return logger
}

// buildRateCache returns the shared Redis cache when configured and reachable,
// otherwise the in-process cache. The string names the backend in use.
func buildRateCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.RateCache, string) {
	if cfg.Rates.RedisURL == "" {
		return cache.NewMemory(), "memory"
	}
	rc, err := cache.NewRedis(ctx, cfg.Rates.RedisURL,
		cache.WithTTL(cfg.Rates.RedisTTL),
		cache.WithLogger(logger),
	)
	if err != nil {
		logger.Warn("redis rate cache unavailable, using in-memory cache", "error", err)
		return cache.NewMemory(), "memory (redis unavailable)"
	}
	return rc, "redis"
}

func buildRouter(cfg *config.Config, logger *slog.Logger) *core.Router {
	router := core.NewRouter(cfg)
	if !cfg.HasCredentials() {
		logger.Debug("no seats.aero API key configured, live search disabled")
	}

	router.Register(mock.NewAwardSearcher())
	router.Register(live.NewSeatsAeroSearcher(cfg.APIKey, cfg.BaseURL, live.WithLogger(logger)))

	return router
}

// buildOrchestrator wires the full pipeline. The returned close func releases
// the rate cache.
func buildOrchestrator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*core.Orchestrator, func()) {
	rates, _ := buildRateCache(ctx, cfg, logger)

	usd := currency.NewNormalizer(
		currency.NewLiveSource(cfg.Rates.BaseURL, cfg.Rates.Timeout),
		rates,
		currency.WithLogger(logger),
		currency.WithTimeout(cfg.Rates.Timeout),
	)
	orch := core.NewOrchestrator(buildRouter(cfg, logger), core.NewOfferNormalizer(usd, logger), logger)

	closeFn := func() {
		if mem, ok := rates.(*cache.Memory); ok {
			logger.Debug("exchange rates used this run", "rates", mem.Snapshot())
		}
		if err := rates.Close(); err != nil {
			logger.Warn("close rate cache", "error", err)
		}
	}
	return orch, closeFn
}
