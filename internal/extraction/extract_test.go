package extraction

import (
	"fmt"
	"strings"
	"testing"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/manager"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/matchup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var identity = manager.NewIdentity("Vikram", nil)

func managersAttr(nickname string) string {
	return fmt.Sprintf(`{"managers":[{"manager":{"manager_id":"1","nickname":%q,"guid":"G"}}]}`, nickname)
}

// teamAttrs mimics Yahoo's attribute list: objects mixed with empty arrays,
// managers near the end.
func teamAttrs(key, name, managers string) string {
	parts := []string{
		fmt.Sprintf(`{"team_key":%q}`, key),
		`{"team_id":"1"}`,
		fmt.Sprintf(`{"name":%q}`, name),
		`[]`,
		`{"url":"https://example.test"}`,
		`[]`,
	}
	if managers != "" {
		parts = append(parts, managers)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func standingsTeam(key, name, managers, rank, wins, losses, ties string) string {
	return fmt.Sprintf(`{"team":[%s,{"team_points":{"coverage_type":"season","total":"1500.5"}},{"team_standings":{"rank":%s,"outcome_totals":{"wins":%s,"losses":%s,"ties":%s,"percentage":".500"}}}]}`,
		teamAttrs(key, name, managers), rank, wins, losses, ties)
}

func standingsPayload(teams ...string) []byte {
	entries := make([]string, 0, len(teams)+1)
	for i, team := range teams {
		entries = append(entries, fmt.Sprintf(`"%d":%s`, i, team))
	}
	entries = append(entries, fmt.Sprintf(`"count":%d`, len(teams)))
	return []byte(`{"fantasy_content":{"xml:lang":"en-US","league":[` +
		`{"league_key":"423.l.347398","name":"Road to Glory","season":"2023","num_teams":4,"start_week":"1","end_week":"14"},` +
		`{"standings":[{"teams":{` + strings.Join(entries, ",") + `}}]}]}}`)
}

func scoreboardTeam(key, managers, points string) string {
	return fmt.Sprintf(`{"team":[%s,{"team_points":{"coverage_type":"week","week":"1","total":%s},"team_projected_points":{"total":"100.00"}}]}`,
		teamAttrs(key, "T "+key, managers), points)
}

func scoreboardMatchup(teamA, teamB string) string {
	return fmt.Sprintf(`{"matchup":{"0":{"teams":{"0":%s,"1":%s,"count":2}},"week":"1","status":"postevent","is_tied":0}}`, teamA, teamB)
}

func scoreboardPayload(matchups ...string) []byte {
	entries := make([]string, 0, len(matchups)+1)
	for i, m := range matchups {
		entries = append(entries, fmt.Sprintf(`"%d":%s`, i, m))
	}
	entries = append(entries, fmt.Sprintf(`"count":%d`, len(matchups)))
	return []byte(`{"fantasy_content":{"league":[` +
		`{"league_key":"423.l.347398","start_week":"1","end_week":"14"},` +
		`{"scoreboard":{"0":{"matchups":{` + strings.Join(entries, ",") + `}},"week":"1"}}]}}`)
}

func TestDecodeLeagueWeeks(t *testing.T) {
	t.Parallel()

	info, err := DecodeLeagueWeeks(standingsPayload())
	require.NoError(t, err)
	assert.Equal(t, LeagueInfo{
		Key:       "423.l.347398",
		Name:      "Road to Glory",
		Season:    2023,
		NumTeams:  4,
		StartWeek: 1,
		EndWeek:   14,
	}, info)

	_, err = DecodeLeagueWeeks([]byte(`{"fantasy_content":{"league":[{"league_key":"x","start_week":"5","end_week":"2"}]}}`))
	if !crerr.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}

	_, err = DecodeLeagueWeeks([]byte(`not json`))
	if !crerr.Is(err, ErrMalformedPayload) {
		t.Fatalf("expected ErrMalformedPayload, got %v", err)
	}
}

func TestExtractStandings(t *testing.T) {
	t.Parallel()

	raw := standingsPayload(
		standingsTeam("423.l.347398.t.1", "Alpha", managersAttr("Alice"), `"1"`, `"10"`, `"3"`, `"1"`),
		standingsTeam("423.l.347398.t.2", "Hidden FC", managersAttr("-- hidden --"), `"2"`, `9`, `5`, `0`),
		standingsTeam("423.l.347398.t.3", "Orphans", "", `"3"`, `"7"`, `"7"`, `"0"`),
		standingsTeam("423.l.347398.t.4", "Broken", managersAttr("Bob"), `"x"`, `"1"`, `"13"`, `"0"`),
	)

	records, issues := ExtractStandings(raw, 2023, "", identity)
	require.Len(t, records, 3)
	require.Len(t, issues, 1)

	assert.Equal(t, "team[3]", issues[0].Entry)
	if !crerr.Is(issues[0].Err, ErrMalformedEntry) {
		t.Fatalf("expected ErrMalformedEntry, got %v", issues[0].Err)
	}

	assert.Equal(t, "Alice", records[0].Manager)
	assert.Equal(t, "Alpha", records[0].Team)
	assert.Equal(t, "423.l.347398", records[0].LeagueKey)
	assert.Equal(t, 2023, records[0].Season)
	assert.Equal(t, 1, records[0].FinalStanding)
	assert.Equal(t, 10, records[0].Wins)
	assert.Equal(t, 1, records[0].Ties)

	assert.Equal(t, "Vikram", records[1].Manager)
	assert.Equal(t, 9, records[1].Wins)
	assert.Equal(t, manager.Unknown, records[2].Manager)
}

func TestExtractStandings_MissingTiesDefaultsToZero(t *testing.T) {
	t.Parallel()

	team := `{"team":[` + teamAttrs("k", "NoTies", managersAttr("Carol")) +
		`,{"team_standings":{"rank":"4","outcome_totals":{"wins":"2","losses":"11"}}}]}`
	records, issues := ExtractStandings(standingsPayload(team), 2016, "359.l.749915", identity)
	require.Empty(t, issues)
	require.Len(t, records, 1)
	assert.Equal(t, 0, records[0].Ties)
	assert.Equal(t, "359.l.749915", records[0].LeagueKey)
}

func TestExtractStandings_PercentageIsIgnored(t *testing.T) {
	t.Parallel()

	team := `{"team":[` + teamAttrs("k", "Numbers", managersAttr("Dana")) +
		`,{"team_standings":{"rank":4,"outcome_totals":{"wins":2,"losses":11,"ties":0,"percentage":0.154}}}]}`
	other := `{"team":[` + teamAttrs("k2", "Dashes", managersAttr("Eve")) +
		`,{"team_standings":{"rank":"5","outcome_totals":{"wins":"0","losses":"0","ties":"0","percentage":"-"}}}]}`
	records, issues := ExtractStandings(standingsPayload(team, other), 2016, "359.l.749915", identity)
	require.Empty(t, issues)
	require.Len(t, records, 2)
	assert.Equal(t, "Dana", records[0].Manager)
	assert.Equal(t, 4, records[0].FinalStanding)
	assert.Equal(t, 2, records[0].Wins)
	assert.Equal(t, 11, records[0].Losses)
}

func TestExtractStandings_MalformedPayload(t *testing.T) {
	t.Parallel()

	records, issues := ExtractStandings([]byte(`{"fantasy_content":{"league":[{"league_key":"k"}]}}`), 2016, "k", identity)
	assert.Empty(t, records)
	require.Len(t, issues, 1)
	assert.Equal(t, "payload", issues[0].Entry)
	assert.True(t, crerr.Is(issues[0], ErrMalformedPayload))
}

func TestExtractMatchups(t *testing.T) {
	t.Parallel()

	raw := scoreboardPayload(
		scoreboardMatchup(
			scoreboardTeam("t.1", managersAttr("Alice"), `"100.00"`),
			scoreboardTeam("t.2", managersAttr("Bob"), `"95.50"`),
		),
		scoreboardMatchup(
			scoreboardTeam("t.3", managersAttr("--hidden--"), `80`),
			scoreboardTeam("t.4", "", `80.0`),
		),
		`{"matchup":{"0":{"teams":{"0":`+scoreboardTeam("t.5", managersAttr("Eve"), `"70"`)+`,"count":1}}}}`,
	)

	got, issues := ExtractMatchups(raw, 2023, 1, identity)
	require.Len(t, got, 2)
	require.Len(t, issues, 1)
	assert.Equal(t, "matchup[2]", issues[0].Entry)
	assert.True(t, crerr.Is(issues[0].Err, ErrMalformedEntry))

	assert.Equal(t, matchup.Matchup{
		Season: 2023, Week: 1,
		ManagerA: "Alice", ManagerB: "Bob",
		PointsA: 100, PointsB: 95.5,
		Winner: "Alice",
	}, got[0])

	assert.Equal(t, "Vikram", got[1].ManagerA)
	assert.Equal(t, manager.Unknown, got[1].ManagerB)
	assert.Equal(t, matchup.Tie, got[1].Winner)
}

func TestExtractMatchups_MissingScoreboard(t *testing.T) {
	t.Parallel()

	got, issues := ExtractMatchups(standingsPayload(), 2023, 1, identity)
	assert.Empty(t, got)
	require.Len(t, issues, 1)
	assert.True(t, crerr.Is(issues[0].Err, ErrMalformedPayload))
}
