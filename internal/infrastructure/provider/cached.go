package provider

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/fantasy-league-history/internal/domain/rawdata"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/cache"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/metrics"
	"github.com/riskibarqy/fantasy-league-history/internal/usecase"
)

// Cached memoizes provider results for a TTL. Concurrent misses for the
// same key share one upstream call; failures are not cached.
type Cached struct {
	next    usecase.LeagueDataProvider
	leagues *cache.Store[usecase.LeagueMetadata]
	weeks   *cache.Store[[]byte]
	metrics *metrics.Manager
}

func NewCached(next usecase.LeagueDataProvider, ttl time.Duration, m *metrics.Manager) *Cached {
	return &Cached{
		next:    next,
		leagues: cache.NewStore[usecase.LeagueMetadata](ttl),
		weeks:   cache.NewStore[[]byte](ttl),
		metrics: m,
	}
}

func (c *Cached) FetchLeagueMetadata(ctx context.Context, leagueKey string) (usecase.LeagueMetadata, error) {
	key := "league:" + leagueKey
	meta, hit, err := c.leagues.GetOrLoad(ctx, key, func(ctx context.Context) (usecase.LeagueMetadata, error) {
		return c.next.FetchLeagueMetadata(ctx, leagueKey)
	})
	if err != nil {
		return meta, err
	}
	c.metrics.ObserveCache(rawdata.EntityLeague, hit)
	// Metadata without standings is served once, then refetched.
	if len(meta.StandingsPayload) == 0 {
		c.leagues.Delete(ctx, key)
	}
	return meta, nil
}

func (c *Cached) FetchWeekScoreboard(ctx context.Context, leagueKey string, week int) ([]byte, error) {
	raw, hit, err := c.weeks.GetOrLoad(ctx, "scoreboard:"+leagueKey+":"+strconv.Itoa(week), func(ctx context.Context) ([]byte, error) {
		return c.next.FetchWeekScoreboard(ctx, leagueKey, week)
	})
	if err == nil {
		c.metrics.ObserveCache(rawdata.EntityScoreboard, hit)
	}
	return raw, err
}
