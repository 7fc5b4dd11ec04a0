package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/fantasy-league-history/internal/config"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/manager"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/season"
	"github.com/riskibarqy/fantasy-league-history/internal/interfaces/httpapi"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/logging"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/metrics"
	"github.com/riskibarqy/fantasy-league-history/internal/usecase"
)

// NewHTTPServer wires the provider chain, services and router. The returned
// cleanup releases the raw store connections and must run after shutdown.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	m := metrics.NewManager(metrics.WithRuntimeCollectors())

	store, err := newRawStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	provider, err := newLeagueDataProvider(ctx, cfg, store.repo, logger, m)
	if err != nil {
		store.close()
		return nil, nil, err
	}

	scope := usecase.ScopeConfig{
		Seasons:    season.NewTable(cfg.League.SeasonByGameCode),
		LeagueKeys: cfg.League.LeagueKeys,
		Identity:   manager.NewIdentity(cfg.League.RedactedAlias, cfg.League.Aliases),
		MaxWorkers: cfg.FetchMaxWorkers,
	}
	historySvc := usecase.NewHistoryService(provider, scope, logger)
	headToHeadSvc := usecase.NewHeadToHeadService(provider, scope, logger)

	handler := httpapi.NewHandler(historySvc, headToHeadSvc, logger, m)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, m)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.InfoContext(ctx, "app wired",
		"provider_mode", cfg.ProviderMode,
		"raw_store", cfg.RawStoreBackend,
		"leagues", len(cfg.League.LeagueKeys),
		"cache_enabled", cfg.CacheEnabled,
	)

	return server, store.close, nil
}
