package provider

import (
	"context"
	"time"

	"github.com/riskibarqy/fantasy-league-history/internal/domain/rawdata"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/logging"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/metrics"
	"github.com/riskibarqy/fantasy-league-history/internal/usecase"
)

// Archiving writes every successfully fetched payload to a raw store. A
// failed write is logged and does not fail the fetch.
type Archiving struct {
	next    usecase.LeagueDataProvider
	repo    rawdata.Repository
	source  string
	logger  *logging.Logger
	metrics *metrics.Manager
	now     func() time.Time
}

func NewArchiving(next usecase.LeagueDataProvider, repo rawdata.Repository, source string, logger *logging.Logger, m *metrics.Manager) *Archiving {
	if logger == nil {
		logger = logging.Default()
	}
	return &Archiving{
		next:    next,
		repo:    repo,
		source:  source,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

func (a *Archiving) FetchLeagueMetadata(ctx context.Context, leagueKey string) (usecase.LeagueMetadata, error) {
	meta, err := a.next.FetchLeagueMetadata(ctx, leagueKey)
	if err != nil {
		return meta, err
	}

	now := a.now().UTC()
	items := make([]rawdata.Payload, 0, 2)
	if len(meta.LeaguePayload) > 0 {
		items = append(items, rawdata.NewPayload(a.source, rawdata.EntityLeague, leagueKey, 0, meta.LeaguePayload, now))
	}
	if len(meta.StandingsPayload) > 0 {
		items = append(items, rawdata.NewPayload(a.source, rawdata.EntityStandings, leagueKey, 0, meta.StandingsPayload, now))
	}
	a.store(ctx, items)
	return meta, nil
}

func (a *Archiving) FetchWeekScoreboard(ctx context.Context, leagueKey string, week int) ([]byte, error) {
	raw, err := a.next.FetchWeekScoreboard(ctx, leagueKey, week)
	if err != nil {
		return raw, err
	}
	a.store(ctx, []rawdata.Payload{
		rawdata.NewPayload(a.source, rawdata.EntityScoreboard, leagueKey, week, raw, a.now().UTC()),
	})
	return raw, nil
}

func (a *Archiving) store(ctx context.Context, items []rawdata.Payload) {
	if len(items) == 0 {
		return
	}
	err := a.repo.UpsertMany(ctx, items)
	a.metrics.ObserveArchiveWrite(err)
	if err != nil {
		a.logger.WarnContext(ctx, "archive raw payloads failed",
			"entity_key", items[0].EntityKey,
			"count", len(items),
			"error", err,
		)
	}
}
