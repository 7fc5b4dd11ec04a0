package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/fantasy-league-history/internal/domain/season"
	"github.com/sourcegraph/conc/iter"
)

const defaultFetchWorkers = 4

type leagueFetch struct {
	league season.League
	meta   LeagueMetadata
	err    error
}

// fetchLeagues loads metadata for every league concurrently. Results keep
// the input order.
func fetchLeagues(ctx context.Context, provider LeagueDataProvider, leagues []season.League, maxWorkers int) []leagueFetch {
	mapper := iter.Mapper[season.League, leagueFetch]{MaxGoroutines: normalizeWorkerCount(maxWorkers, len(leagues))}
	return mapper.Map(leagues, func(league *season.League) leagueFetch {
		meta, err := provider.FetchLeagueMetadata(ctx, league.Key)
		if err != nil {
			return leagueFetch{league: *league, err: fmt.Errorf("%w: fetch league %s: %w", ErrRetrieval, league.Key, err)}
		}
		return leagueFetch{league: *league, meta: meta}
	})
}

func resolveScope(table season.Table, defaults, requested []string) ([]season.League, error) {
	keys := requested
	if len(keys) == 0 {
		keys = defaults
	}
	leagues, err := table.Resolve(keys)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return leagues, nil
}

func normalizeWorkerCount(requested, tasks int) int {
	if requested <= 0 {
		requested = defaultFetchWorkers
	}
	if tasks > 0 && requested > tasks {
		requested = tasks
	}
	if requested < 1 {
		requested = 1
	}
	return requested
}
