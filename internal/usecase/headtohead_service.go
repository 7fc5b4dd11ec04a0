package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/matchup"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/season"
	"github.com/riskibarqy/fantasy-league-history/internal/extraction"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/logging"
)

type HeadToHeadRecord struct {
	ManagerA    string `json:"manager_a"`
	ManagerB    string `json:"manager_b"`
	WinsA       int    `json:"wins_a"`
	WinsB       int    `json:"wins_b"`
	Ties        int    `json:"ties"`
	GamesPlayed int    `json:"games_played"`
}

type HeadToHeadResult struct {
	Record   HeadToHeadRecord
	History  []matchup.Matchup
	Warnings []Warning
}

type HeadToHeadService struct {
	provider LeagueDataProvider
	scope    ScopeConfig
	logger   *logging.Logger
}

func NewHeadToHeadService(provider LeagueDataProvider, scope ScopeConfig, logger *logging.Logger) *HeadToHeadService {
	if logger == nil {
		logger = logging.Default()
	}
	return &HeadToHeadService{
		provider: provider,
		scope:    scope,
		logger:   logger,
	}
}

func (s *HeadToHeadService) HeadToHead(ctx context.Context, managerA, managerB string, leagueKeys []string) (HeadToHeadRecord, []Warning, error) {
	result, err := s.Compare(ctx, managerA, managerB, leagueKeys)
	if err != nil {
		return HeadToHeadRecord{}, nil, err
	}
	return result.Record, result.Warnings, nil
}

// History returns every matchup between the two managers ordered by season
// then week.
func (s *HeadToHeadService) History(ctx context.Context, managerA, managerB string, leagueKeys []string) ([]matchup.Matchup, []Warning, error) {
	result, err := s.Compare(ctx, managerA, managerB, leagueKeys)
	if err != nil {
		return nil, nil, err
	}
	return result.History, result.Warnings, nil
}

// Compare scans every week of every league in scope once and returns both
// the tally and the ordered history.
func (s *HeadToHeadService) Compare(ctx context.Context, managerA, managerB string, leagueKeys []string) (HeadToHeadResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.HeadToHeadService.Compare")
	defer span.End()

	a, b, err := s.normalizePair(managerA, managerB)
	if err != nil {
		return HeadToHeadResult{}, err
	}
	leagues, err := resolveScope(s.scope.Seasons, s.scope.LeagueKeys, leagueKeys)
	if err != nil {
		return HeadToHeadResult{}, err
	}
	if s.provider == nil {
		return HeadToHeadResult{}, fmt.Errorf("%w: league data provider is not configured", ErrDependencyUnavailable)
	}

	var warnings []Warning
	tasks := make([]weekTask, 0, len(leagues)*16)
	for _, item := range fetchLeagues(ctx, s.provider, leagues, s.scope.MaxWorkers) {
		if item.err != nil {
			warnings = append(warnings, fetchWarning(item.league.Key, item.league.Season, 0, item.err))
			continue
		}
		for week := item.meta.StartWeek; week <= item.meta.EndWeek; week++ {
			tasks = append(tasks, weekTask{league: item.league, week: week})
		}
	}

	weeks, err := s.scanWeeks(ctx, tasks, a, b)
	if err != nil {
		return HeadToHeadResult{}, err
	}

	result := HeadToHeadResult{
		Record:  HeadToHeadRecord{ManagerA: a, ManagerB: b},
		History: make([]matchup.Matchup, 0, len(weeks)),
	}
	for _, week := range weeks {
		result.History = append(result.History, week.matchups...)
		warnings = append(warnings, week.warnings...)
	}
	result.Warnings = warnings

	for _, m := range result.History {
		switch m.Winner {
		case a:
			result.Record.WinsA++
		case b:
			result.Record.WinsB++
		default:
			result.Record.Ties++
		}
	}
	result.Record.GamesPlayed = len(result.History)

	logWarnings(ctx, s.logger, "head to head", result.Warnings)
	return result, nil
}

func (s *HeadToHeadService) normalizePair(managerA, managerB string) (string, string, error) {
	if strings.TrimSpace(managerA) == "" || strings.TrimSpace(managerB) == "" {
		return "", "", fmt.Errorf("%w: both managers are required", ErrConfiguration)
	}
	a := s.scope.Identity.Normalize(managerA)
	b := s.scope.Identity.Normalize(managerB)
	if a == b {
		return "", "", fmt.Errorf("%w: managers must differ, got %q twice", ErrConfiguration, a)
	}
	return a, b, nil
}

type weekTask struct {
	league season.League
	week   int
}

type weekResult struct {
	season   int
	week     int
	order    int
	matchups []matchup.Matchup
	warnings []Warning
}

// scanWeeks fetches every week through a bounded pool, keeps the matchups
// involving both managers, and returns results sorted by season and week.
func (s *HeadToHeadService) scanWeeks(ctx context.Context, tasks []weekTask, a, b string) ([]weekResult, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	pool, err := ants.NewPool(normalizeWorkerCount(s.scope.MaxWorkers, len(tasks)))
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	results := make(chan weekResult, len(tasks))
	var workers sync.WaitGroup
	for i, task := range tasks {
		i, task := i, task
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			results <- s.scanWeek(ctx, task, i, a, b)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit week to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	out := make([]weekResult, 0, len(tasks))
	for row := range results {
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].season != out[j].season {
			return out[i].season < out[j].season
		}
		if out[i].week != out[j].week {
			return out[i].week < out[j].week
		}
		return out[i].order < out[j].order
	})
	return out, nil
}

func (s *HeadToHeadService) scanWeek(ctx context.Context, task weekTask, order int, a, b string) weekResult {
	row := weekResult{season: task.league.Season, week: task.week, order: order}

	raw, err := s.provider.FetchWeekScoreboard(ctx, task.league.Key, task.week)
	if err != nil {
		err = fmt.Errorf("%w: fetch scoreboard week %d: %w", ErrRetrieval, task.week, err)
		row.warnings = []Warning{fetchWarning(task.league.Key, task.league.Season, task.week, err)}
		return row
	}

	all, issues := extraction.ExtractMatchups(raw, task.league.Season, task.week, s.scope.Identity)
	row.warnings = issueWarnings(task.league.Key, task.league.Season, task.week, issues)
	for _, m := range all {
		if m.Involves(a, b) {
			row.matchups = append(row.matchups, m)
		}
	}
	return row
}
