package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/fantasy-league-history/internal/domain/leaguestats"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/manager"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/season"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/standing"
	"github.com/riskibarqy/fantasy-league-history/internal/extraction"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/logging"
)

type ScopeConfig struct {
	Seasons    season.Table
	LeagueKeys []string
	Identity   manager.Identity
	MaxWorkers int
}

// LeagueSummary describes one league that contributed to a dataset.
type LeagueSummary struct {
	LeagueKey string `json:"league_key"`
	Name      string `json:"name"`
	Season    int    `json:"season"`
	StartWeek int    `json:"start_week"`
	EndWeek   int    `json:"end_week"`
	Teams     int    `json:"teams"`
}

type HistoryResult struct {
	Dataset  standing.Dataset
	Leagues  []LeagueSummary
	Warnings []Warning
}

type HistoryService struct {
	provider LeagueDataProvider
	scope    ScopeConfig
	logger   *logging.Logger
}

func NewHistoryService(provider LeagueDataProvider, scope ScopeConfig, logger *logging.Logger) *HistoryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &HistoryService{
		provider: provider,
		scope:    scope,
		logger:   logger,
	}
}

// DefaultLeagues lists the configured league keys with their season years.
func (s *HistoryService) DefaultLeagues() ([]season.League, error) {
	return resolveScope(s.scope.Seasons, s.scope.LeagueKeys, nil)
}

// Load fetches and extracts standings for every league in scope. Failed
// leagues and malformed entries become warnings; an unknown league key
// rejects the whole call before anything is fetched.
func (s *HistoryService) Load(ctx context.Context, leagueKeys []string) (HistoryResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.Load")
	defer span.End()

	leagues, err := resolveScope(s.scope.Seasons, s.scope.LeagueKeys, leagueKeys)
	if err != nil {
		return HistoryResult{}, err
	}
	if s.provider == nil {
		return HistoryResult{}, fmt.Errorf("%w: league data provider is not configured", ErrDependencyUnavailable)
	}

	fetched := fetchLeagues(ctx, s.provider, leagues, s.scope.MaxWorkers)

	result := HistoryResult{Leagues: make([]LeagueSummary, 0, len(fetched))}
	batches := make([][]standing.TeamStanding, 0, len(fetched))
	for _, item := range fetched {
		if item.err != nil {
			result.Warnings = append(result.Warnings, fetchWarning(item.league.Key, item.league.Season, 0, item.err))
			continue
		}
		if len(item.meta.StandingsPayload) == 0 {
			result.Warnings = append(result.Warnings, fetchWarning(item.league.Key, item.league.Season, 0,
				fmt.Errorf("%w: standings unavailable for league %s", ErrRetrieval, item.league.Key)))
			continue
		}

		records, issues := extraction.ExtractStandings(item.meta.StandingsPayload, item.league.Season, item.league.Key, s.scope.Identity)
		result.Warnings = append(result.Warnings, issueWarnings(item.league.Key, item.league.Season, 0, issues)...)
		batches = append(batches, records)
		result.Leagues = append(result.Leagues, LeagueSummary{
			LeagueKey: item.league.Key,
			Name:      item.meta.Name,
			Season:    item.league.Season,
			StartWeek: item.meta.StartWeek,
			EndWeek:   item.meta.EndWeek,
			Teams:     len(records),
		})
	}

	dataset, err := standing.Aggregate(s.scope.Identity, batches...)
	if err != nil {
		return HistoryResult{}, fmt.Errorf("%w: aggregate standings: %w", ErrExtraction, err)
	}
	result.Dataset = dataset

	logWarnings(ctx, s.logger, "history load", result.Warnings)
	s.logger.InfoContext(ctx, "history loaded",
		"leagues", len(result.Leagues),
		"records", dataset.Len(),
		"warnings", len(result.Warnings),
	)
	return result, nil
}

// ManagerSummary loads the dataset and projects it for one manager.
func (s *HistoryService) ManagerSummary(ctx context.Context, name string, leagueKeys []string) (leaguestats.Summary, []Warning, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.ManagerSummary")
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return leaguestats.Summary{}, nil, fmt.Errorf("%w: manager is required", ErrInvalidInput)
	}
	name = s.scope.Identity.Normalize(name)

	result, err := s.Load(ctx, leagueKeys)
	if err != nil {
		return leaguestats.Summary{}, nil, err
	}
	if !result.Dataset.HasManager(name) {
		return leaguestats.Summary{}, result.Warnings, fmt.Errorf("%w: manager=%s", ErrNotFound, name)
	}
	return leaguestats.Summarize(result.Dataset, name), result.Warnings, nil
}

// SeasonTable loads the dataset and returns one season's final table.
func (s *HistoryService) SeasonTable(ctx context.Context, year int, leagueKeys []string) ([]leaguestats.SeasonRow, []Warning, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HistoryService.SeasonTable")
	defer span.End()

	if year <= 0 {
		return nil, nil, fmt.Errorf("%w: season must be > 0", ErrInvalidInput)
	}

	result, err := s.Load(ctx, leagueKeys)
	if err != nil {
		return nil, nil, err
	}
	rows := leaguestats.SeasonTable(result.Dataset, year)
	if len(rows) == 0 {
		return nil, result.Warnings, fmt.Errorf("%w: season=%d", ErrNotFound, year)
	}
	return rows, result.Warnings, nil
}
