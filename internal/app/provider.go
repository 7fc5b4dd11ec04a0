package app

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/fantasy-league-history/external/yahoo"
	"github.com/riskibarqy/fantasy-league-history/internal/config"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/rawdata"
	"github.com/riskibarqy/fantasy-league-history/internal/infrastructure/provider"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/logging"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/metrics"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/resilience"
	"github.com/riskibarqy/fantasy-league-history/internal/usecase"
)

const yahooRetryBackoff = 500 * time.Millisecond

// newLeagueDataProvider builds source -> archive -> metrics -> memo, the
// outermost layer being the one services call.
func newLeagueDataProvider(
	ctx context.Context,
	cfg config.Config,
	repo rawdata.Repository,
	logger *logging.Logger,
	m *metrics.Manager,
) (usecase.LeagueDataProvider, error) {
	var (
		source usecase.LeagueDataProvider
		name   string
	)

	switch cfg.ProviderMode {
	case config.ProviderReplay:
		if repo == nil {
			return nil, fmt.Errorf("replay provider requires a raw store")
		}
		source = provider.NewReplay(repo, yahoo.SourceName)
		name = "replay"
	default:
		client, err := newYahooClient(ctx, cfg, logger, m)
		if err != nil {
			return nil, err
		}
		source = client
		name = yahoo.SourceName
		if repo != nil {
			source = provider.NewArchiving(source, repo, yahoo.SourceName, logger, m)
		}
	}

	source = provider.NewInstrumented(source, name, m)
	if cfg.CacheEnabled {
		source = provider.NewCached(source, cfg.CacheTTL, m)
	}
	return source, nil
}

func newYahooClient(ctx context.Context, cfg config.Config, logger *logging.Logger, m *metrics.Manager) (*yahoo.Client, error) {
	httpClient, err := yahoo.NewHTTPClient(ctx, cfg.YahooTokenFile, cfg.YahooTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("build yahoo http client: %w", err)
	}

	return yahoo.NewClient(yahoo.ClientConfig{
		HTTPClient:   httpClient,
		BaseURL:      cfg.YahooBaseURL,
		Timeout:      cfg.YahooTimeout,
		MaxRetries:   cfg.YahooMaxRetries,
		RetryBackoff: yahooRetryBackoff,
		Logger:       logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.YahooCircuitEnabled,
			Name:             yahoo.SourceName,
			FailureThreshold: cfg.YahooCircuitFailureCount,
			OpenTimeout:      cfg.YahooCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.YahooCircuitHalfOpenMaxReq,
			OnStateChange: func(name string, from, to resilience.CircuitState) {
				m.SetCircuitState(name, string(to))
				logger.Warn("circuit state changed", "breaker", name, "from", string(from), "to", string(to))
			},
		},
	}), nil
}
