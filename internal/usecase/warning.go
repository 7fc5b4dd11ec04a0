package usecase

import (
	"context"
	"errors"

	"github.com/riskibarqy/fantasy-league-history/internal/extraction"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/logging"
)

type WarningKind string

const (
	WarningRetrieval  WarningKind = "retrieval"
	WarningExtraction WarningKind = "extraction"
)

// Warning is a non-fatal problem collected next to a partial result.
type Warning struct {
	Kind      WarningKind `json:"kind"`
	LeagueKey string      `json:"league_key"`
	Season    int         `json:"season"`
	Week      int         `json:"week,omitempty"`
	Entry     string      `json:"entry,omitempty"`
	Message   string      `json:"message"`
}

func fetchWarning(leagueKey string, season, week int, err error) Warning {
	kind := WarningRetrieval
	if errors.Is(err, ErrExtraction) {
		kind = WarningExtraction
	}
	return Warning{
		Kind:      kind,
		LeagueKey: leagueKey,
		Season:    season,
		Week:      week,
		Message:   err.Error(),
	}
}

func issueWarnings(leagueKey string, season, week int, issues []extraction.Issue) []Warning {
	if len(issues) == 0 {
		return nil
	}
	out := make([]Warning, 0, len(issues))
	for _, issue := range issues {
		out = append(out, Warning{
			Kind:      WarningExtraction,
			LeagueKey: leagueKey,
			Season:    season,
			Week:      week,
			Entry:     issue.Entry,
			Message:   issue.Err.Error(),
		})
	}
	return out
}

func logWarnings(ctx context.Context, logger *logging.Logger, operation string, warnings []Warning) {
	for _, w := range warnings {
		logger.WarnContext(ctx, operation+" skipped data",
			"kind", string(w.Kind),
			"league_key", w.LeagueKey,
			"season", w.Season,
			"week", w.Week,
			"entry", w.Entry,
			"error", w.Message,
		)
	}
}
