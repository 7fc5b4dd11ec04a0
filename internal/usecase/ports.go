package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-league-history/internal/extraction"
)

// LeagueMetadata is what a provider returns for one league: its week range
// and the raw league and standings payloads.
type LeagueMetadata struct {
	LeagueKey        string
	Name             string
	Season           int
	StartWeek        int
	EndWeek          int
	LeaguePayload    []byte
	StandingsPayload []byte
}

// LeagueDataProvider is the authenticated fetch capability. Implementations
// own retries, token refresh and status handling. An error wrapping
// ErrExtraction means the league payload arrived but could not be read.
type LeagueDataProvider interface {
	FetchLeagueMetadata(ctx context.Context, leagueKey string) (LeagueMetadata, error)
	FetchWeekScoreboard(ctx context.Context, leagueKey string, week int) ([]byte, error)
}

// NewLeagueMetadata reads the week range from the league payload, falling
// back to the standings payload which carries the same league header.
func NewLeagueMetadata(leagueKey string, leagueRaw, standingsRaw []byte) (LeagueMetadata, error) {
	source := leagueRaw
	if len(source) == 0 {
		source = standingsRaw
	}
	info, err := extraction.DecodeLeagueWeeks(source)
	if err != nil {
		return LeagueMetadata{}, fmt.Errorf("%w: league %s: %w", ErrExtraction, leagueKey, err)
	}
	return LeagueMetadata{
		LeagueKey:        leagueKey,
		Name:             info.Name,
		Season:           info.Season,
		StartWeek:        info.StartWeek,
		EndWeek:          info.EndWeek,
		LeaguePayload:    leagueRaw,
		StandingsPayload: standingsRaw,
	}, nil
}
