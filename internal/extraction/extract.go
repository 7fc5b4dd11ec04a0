package extraction

import (
	"fmt"
	"strings"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/manager"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/matchup"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/standing"
)

var (
	// ErrMalformedPayload marks a payload whose outer shape could not be decoded.
	ErrMalformedPayload = crerr.New("malformed payload")
	// ErrMalformedEntry marks one team or matchup entry that was skipped.
	ErrMalformedEntry = crerr.New("malformed entry")
)

const payloadEntry = "payload"

// Issue is a per-entry extraction failure. Sibling entries are unaffected.
type Issue struct {
	Entry string
	Err   error
}

func (i Issue) Error() string {
	return fmt.Sprintf("%s: %v", i.Entry, i.Err)
}

func (i Issue) Unwrap() error {
	return i.Err
}

// LeagueInfo is the league-level metadata needed to walk a season.
type LeagueInfo struct {
	Key       string
	Name      string
	Season    int
	NumTeams  int
	StartWeek int
	EndWeek   int
}

// DecodeLeagueWeeks reads league metadata from a league, standings or
// scoreboard payload.
func DecodeLeagueWeeks(raw []byte) (LeagueInfo, error) {
	league, err := decodeLeague(raw)
	if err != nil {
		return LeagueInfo{}, err
	}

	meta := league.Meta
	if !meta.StartWeek.Set || !meta.EndWeek.Set {
		return LeagueInfo{}, crerr.Mark(crerr.Newf("league %q has no week range", meta.LeagueKey), ErrMalformedPayload)
	}
	if meta.StartWeek.Value < 1 || meta.EndWeek.Value < meta.StartWeek.Value {
		return LeagueInfo{}, crerr.Mark(
			crerr.Newf("league %q has invalid week range %d..%d", meta.LeagueKey, meta.StartWeek.Value, meta.EndWeek.Value),
			ErrMalformedPayload,
		)
	}

	return LeagueInfo{
		Key:       strings.TrimSpace(meta.LeagueKey),
		Name:      strings.TrimSpace(meta.Name),
		Season:    meta.Season.Value,
		NumTeams:  meta.NumTeams.Value,
		StartWeek: meta.StartWeek.Value,
		EndWeek:   meta.EndWeek.Value,
	}, nil
}

// ExtractStandings maps a standings payload into one record per team.
// Entries that do not fit the expected shape are skipped and reported.
func ExtractStandings(raw []byte, season int, leagueKey string, identity manager.Identity) ([]standing.TeamStanding, []Issue) {
	league, err := decodeLeague(raw)
	if err != nil {
		return nil, []Issue{{Entry: payloadEntry, Err: err}}
	}
	if len(league.Standings) == 0 {
		return nil, []Issue{{Entry: payloadEntry, Err: crerr.Mark(crerr.New("standings block is missing"), ErrMalformedPayload)}}
	}
	if strings.TrimSpace(leagueKey) == "" {
		leagueKey = strings.TrimSpace(league.Meta.LeagueKey)
	}

	teams := league.Standings[0].Teams.Items
	out := make([]standing.TeamStanding, 0, len(teams))
	var issues []Issue
	for _, item := range teams {
		entry := "team[" + item.Key + "]"
		record, err := extractStanding(item, season, leagueKey, identity)
		if err != nil {
			issues = append(issues, Issue{Entry: entry, Err: crerr.Mark(err, ErrMalformedEntry)})
			continue
		}
		out = append(out, record)
	}
	return out, issues
}

func extractStanding(item countedItem, season int, leagueKey string, identity manager.Identity) (standing.TeamStanding, error) {
	var entry teamEntry
	if err := sonic.Unmarshal(item.Raw, &entry); err != nil {
		return standing.TeamStanding{}, crerr.Wrap(err, "decode team")
	}
	team := entry.Team
	if team == nil {
		return standing.TeamStanding{}, crerr.New("team array is missing")
	}
	if team.Name == nil {
		return standing.TeamStanding{}, crerr.New("team name is missing")
	}
	if team.Standings == nil {
		return standing.TeamStanding{}, crerr.New("team_standings is missing")
	}
	if !team.Standings.Rank.Set {
		return standing.TeamStanding{}, crerr.New("rank is missing")
	}
	totals := team.Standings.OutcomeTotals
	if totals == nil || !totals.Wins.Set || !totals.Losses.Set {
		return standing.TeamStanding{}, crerr.New("outcome_totals is incomplete")
	}

	record := standing.TeamStanding{
		Season:        season,
		LeagueKey:     leagueKey,
		Manager:       resolveManager(team, identity),
		Team:          strings.TrimSpace(*team.Name),
		FinalStanding: team.Standings.Rank.Value,
		Wins:          totals.Wins.Value,
		Losses:        totals.Losses.Value,
		Ties:          totals.Ties.Value,
	}
	if err := record.Validate(); err != nil {
		return standing.TeamStanding{}, err
	}
	return record, nil
}

// ExtractMatchups maps one week's scoreboard payload into matchups.
func ExtractMatchups(raw []byte, season, week int, identity manager.Identity) ([]matchup.Matchup, []Issue) {
	league, err := decodeLeague(raw)
	if err != nil {
		return nil, []Issue{{Entry: payloadEntry, Err: err}}
	}
	if league.Scoreboard == nil {
		return nil, []Issue{{Entry: payloadEntry, Err: crerr.Mark(crerr.New("scoreboard block is missing"), ErrMalformedPayload)}}
	}
	first, ok := league.Scoreboard.First()
	if !ok {
		return nil, []Issue{{Entry: payloadEntry, Err: crerr.Mark(crerr.New("scoreboard has no entries"), ErrMalformedPayload)}}
	}
	var board scoreboardEntry
	if err := sonic.Unmarshal(first.Raw, &board); err != nil {
		return nil, []Issue{{Entry: payloadEntry, Err: crerr.Mark(crerr.Wrap(err, "decode scoreboard"), ErrMalformedPayload)}}
	}

	out := make([]matchup.Matchup, 0, len(board.Matchups.Items))
	var issues []Issue
	for _, item := range board.Matchups.Items {
		entry := "matchup[" + item.Key + "]"
		m, err := extractMatchup(item, season, week, identity)
		if err != nil {
			issues = append(issues, Issue{Entry: entry, Err: crerr.Mark(err, ErrMalformedEntry)})
			continue
		}
		out = append(out, m)
	}
	return out, issues
}

func extractMatchup(item countedItem, season, week int, identity manager.Identity) (matchup.Matchup, error) {
	var entry matchupEntry
	if err := sonic.Unmarshal(item.Raw, &entry); err != nil {
		return matchup.Matchup{}, crerr.Wrap(err, "decode matchup")
	}
	first, ok := entry.Matchup.First()
	if !ok {
		return matchup.Matchup{}, crerr.New("matchup body is missing")
	}
	var body matchupBody
	if err := sonic.Unmarshal(first.Raw, &body); err != nil {
		return matchup.Matchup{}, crerr.Wrap(err, "decode matchup body")
	}

	nameA, pointsA, err := matchupSide(body.Teams, 0, identity)
	if err != nil {
		return matchup.Matchup{}, err
	}
	nameB, pointsB, err := matchupSide(body.Teams, 1, identity)
	if err != nil {
		return matchup.Matchup{}, err
	}

	return matchup.New(season, week, nameA, pointsA, nameB, pointsB), nil
}

func matchupSide(teams countedMap, index int, identity manager.Identity) (string, float64, error) {
	item, ok := teams.At(index)
	if !ok {
		return "", 0, crerr.Newf("team %d is missing", index)
	}
	var entry teamEntry
	if err := sonic.Unmarshal(item.Raw, &entry); err != nil {
		return "", 0, crerr.Wrapf(err, "decode team %d", index)
	}
	if entry.Team == nil {
		return "", 0, crerr.Newf("team %d array is missing", index)
	}
	if entry.Team.Points == nil || !entry.Team.Points.Total.Set {
		return "", 0, crerr.Newf("team %d points are missing", index)
	}
	return resolveManager(entry.Team, identity), entry.Team.Points.Total.Value, nil
}

// resolveManager reads the first manager's nickname wherever the managers
// attribute sits in the list. Teams without one resolve to manager.Unknown.
func resolveManager(team *teamParts, identity manager.Identity) string {
	if len(team.Managers) == 0 {
		return manager.Unknown
	}
	nickname := team.Managers[0].Manager.Nickname
	if nickname == nil {
		return manager.Unknown
	}
	return identity.Normalize(*nickname)
}

func decodeLeague(raw []byte) (*leagueParts, error) {
	var doc document
	if err := sonic.Unmarshal(raw, &doc); err != nil {
		return nil, crerr.Mark(crerr.Wrap(err, "decode payload"), ErrMalformedPayload)
	}
	if doc.FantasyContent.League == nil {
		return nil, crerr.Mark(crerr.New("fantasy_content.league is missing"), ErrMalformedPayload)
	}
	return doc.FantasyContent.League, nil
}
