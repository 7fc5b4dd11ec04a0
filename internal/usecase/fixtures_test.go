package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/riskibarqy/fantasy-league-history/internal/domain/manager"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/season"
)

func testScope(keys ...string) ScopeConfig {
	return ScopeConfig{
		Seasons:    season.NewTable(map[string]int{"359": 2016, "371": 2017, "380": 2018}),
		LeagueKeys: keys,
		Identity:   manager.NewIdentity("Vikram", nil),
		MaxWorkers: 3,
	}
}

type fakeSide struct {
	manager string
	points  string
}

func yahooTeam(key, name, nickname, tail string) string {
	attrs := []string{
		fmt.Sprintf(`{"team_key":%q}`, key),
		`{"team_id":"1"}`,
		fmt.Sprintf(`{"name":%q}`, name),
		`[]`,
	}
	if nickname != "" {
		attrs = append(attrs, fmt.Sprintf(`{"managers":[{"manager":{"nickname":%q}}]}`, nickname))
	}
	return fmt.Sprintf(`{"team":[[%s],%s]}`, strings.Join(attrs, ","), tail)
}

func countedJSON(items []string) string {
	entries := make([]string, 0, len(items)+1)
	for i, item := range items {
		entries = append(entries, fmt.Sprintf(`"%d":%s`, i, item))
	}
	entries = append(entries, fmt.Sprintf(`"count":%d`, len(items)))
	return "{" + strings.Join(entries, ",") + "}"
}

type fakeStanding struct {
	manager string
	rank    int
	wins    int
	losses  int
	ties    int
}

func standingsJSON(leagueKey string, rows ...fakeStanding) []byte {
	teams := make([]string, 0, len(rows))
	for i, row := range rows {
		tail := fmt.Sprintf(`{"team_standings":{"rank":"%d","outcome_totals":{"wins":"%d","losses":"%d","ties":"%d"}}}`,
			row.rank, row.wins, row.losses, row.ties)
		teams = append(teams, yahooTeam(fmt.Sprintf("%s.t.%d", leagueKey, i+1), "Team "+row.manager, row.manager, tail))
	}
	return []byte(fmt.Sprintf(`{"fantasy_content":{"league":[{"league_key":%q,"start_week":"1","end_week":"3"},{"standings":[{"teams":%s}]}]}}`,
		leagueKey, countedJSON(teams)))
}

func scoreboardJSON(leagueKey string, pairs ...[2]fakeSide) []byte {
	matchups := make([]string, 0, len(pairs))
	for i, pair := range pairs {
		sides := make([]string, 0, 2)
		for j, side := range pair {
			tail := fmt.Sprintf(`{"team_points":{"total":%q}}`, side.points)
			sides = append(sides, yahooTeam(fmt.Sprintf("%s.t.%d%d", leagueKey, i, j), "T", side.manager, tail))
		}
		matchups = append(matchups, fmt.Sprintf(`{"matchup":{"0":{"teams":%s}}}`, countedJSON(sides)))
	}
	return []byte(fmt.Sprintf(`{"fantasy_content":{"league":[{"league_key":%q},{"scoreboard":{"0":{"matchups":%s}}}]}}`,
		leagueKey, countedJSON(matchups)))
}

type stubLeagueDataProvider struct {
	mu          sync.Mutex
	leagues     map[string]LeagueMetadata
	leagueErr   map[string]error
	scoreboards map[string][]byte
	weekErr     map[string]error
	// weekDelay, when set, holds each scoreboard response back so that
	// concurrent fetches complete out of order.
	weekDelay func(leagueKey string, week int) time.Duration

	leagueCalls atomic.Int32
	weekCalls   atomic.Int32
}

func weekKey(leagueKey string, week int) string {
	return fmt.Sprintf("%s#%d", leagueKey, week)
}

func (s *stubLeagueDataProvider) FetchLeagueMetadata(_ context.Context, leagueKey string) (LeagueMetadata, error) {
	s.leagueCalls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.leagueErr[leagueKey]; err != nil {
		return LeagueMetadata{}, err
	}
	meta, ok := s.leagues[leagueKey]
	if !ok {
		return LeagueMetadata{}, fmt.Errorf("league %s not stubbed", leagueKey)
	}
	return meta, nil
}

func (s *stubLeagueDataProvider) FetchWeekScoreboard(_ context.Context, leagueKey string, week int) ([]byte, error) {
	s.weekCalls.Add(1)
	if s.weekDelay != nil {
		time.Sleep(s.weekDelay(leagueKey, week))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.weekErr[weekKey(leagueKey, week)]; err != nil {
		return nil, err
	}
	raw, ok := s.scoreboards[weekKey(leagueKey, week)]
	if !ok {
		return scoreboardJSON(leagueKey), nil
	}
	return raw, nil
}

// twoSeasonProvider serves the Alice/Bob scenario: 2016 week 1 Alice beats
// Bob 100.0 to 95.5, 2017 week 3 they tie at 80.0. Week 2 of 2016 fails.
func twoSeasonProvider() *stubLeagueDataProvider {
	return &stubLeagueDataProvider{
		leagues: map[string]LeagueMetadata{
			"359.l.1": {
				LeagueKey: "359.l.1", Name: "Road 2016", StartWeek: 1, EndWeek: 3,
				StandingsPayload: standingsJSON("359.l.1",
					fakeStanding{manager: "Alice", rank: 1, wins: 2, losses: 1},
					fakeStanding{manager: "Bob", rank: 2, wins: 1, losses: 2},
					fakeStanding{manager: "-- hidden --", rank: 3, wins: 1, losses: 2},
				),
			},
			"371.l.2": {
				LeagueKey: "371.l.2", Name: "Road 2017", StartWeek: 1, EndWeek: 3,
				StandingsPayload: standingsJSON("371.l.2",
					fakeStanding{manager: "-- hidden --", rank: 1, wins: 3},
					fakeStanding{manager: "Bob", rank: 2, wins: 1, losses: 1, ties: 1},
					fakeStanding{manager: "Alice", rank: 3, losses: 2, ties: 1},
				),
			},
		},
		scoreboards: map[string][]byte{
			weekKey("359.l.1", 1): scoreboardJSON("359.l.1",
				[2]fakeSide{{"Alice", "100.0"}, {"Bob", "95.5"}},
				[2]fakeSide{{"-- hidden --", "70"}, {"Carol", "60"}},
			),
			weekKey("359.l.1", 3): scoreboardJSON("359.l.1",
				[2]fakeSide{{"Alice", "90"}, {"Carol", "91"}},
			),
			weekKey("371.l.2", 1): scoreboardJSON("371.l.2",
				[2]fakeSide{{"Carol", "50"}, {"Alice", "51"}},
			),
			weekKey("371.l.2", 3): scoreboardJSON("371.l.2",
				[2]fakeSide{{"Bob", "80.0"}, {"Alice", "80.0"}},
			),
		},
		weekErr: map[string]error{
			weekKey("359.l.1", 2): fmt.Errorf("provider status=503"),
		},
	}
}
