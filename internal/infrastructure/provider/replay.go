package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/fantasy-league-history/internal/domain/rawdata"
	"github.com/riskibarqy/fantasy-league-history/internal/usecase"
)

// Replay serves payloads previously archived under source, without any
// network access.
type Replay struct {
	repo   rawdata.Repository
	source string
}

func NewReplay(repo rawdata.Repository, source string) *Replay {
	return &Replay{repo: repo, source: source}
}

func (r *Replay) FetchLeagueMetadata(ctx context.Context, leagueKey string) (usecase.LeagueMetadata, error) {
	league, err := r.load(ctx, rawdata.EntityLeague, leagueKey, 0)
	if err != nil && !errors.Is(err, usecase.ErrNotFound) {
		return usecase.LeagueMetadata{}, err
	}
	standings, err := r.load(ctx, rawdata.EntityStandings, leagueKey, 0)
	if err != nil {
		return usecase.LeagueMetadata{}, err
	}
	return usecase.NewLeagueMetadata(leagueKey, league, standings)
}

func (r *Replay) FetchWeekScoreboard(ctx context.Context, leagueKey string, week int) ([]byte, error) {
	return r.load(ctx, rawdata.EntityScoreboard, leagueKey, week)
}

func (r *Replay) load(ctx context.Context, entityType, leagueKey string, week int) ([]byte, error) {
	key := rawdata.EntityKeyFor(entityType, leagueKey, week)
	item, err := r.repo.Get(ctx, r.source, entityType, key)
	if errors.Is(err, rawdata.ErrNotFound) {
		return nil, fmt.Errorf("%w: archived %s", usecase.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("load archived %s: %w", key, err)
	}
	return []byte(item.PayloadJSON), nil
}
