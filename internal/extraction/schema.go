package extraction

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// Yahoo's fantasy v2 JSON encodes collections as objects keyed by position
// plus a "count" marker, mixes objects and empty arrays inside attribute
// lists, and sends most numbers as strings. The types below absorb those
// shapes so extraction code only deals with named optional fields.

type document struct {
	FantasyContent struct {
		League *leagueParts `json:"league"`
	} `json:"fantasy_content"`
}

// leagueParts is the league array: [meta, {standings|scoreboard|...}].
type leagueParts struct {
	Meta       leagueMeta
	Standings  []standingsBlock
	Scoreboard *countedMap
}

type leagueMeta struct {
	LeagueKey string  `json:"league_key"`
	Name      string  `json:"name"`
	Season    flexInt `json:"season"`
	NumTeams  flexInt `json:"num_teams"`
	StartWeek flexInt `json:"start_week"`
	EndWeek   flexInt `json:"end_week"`
}

type standingsBlock struct {
	Teams countedMap `json:"teams"`
}

type scoreboardEntry struct {
	Matchups countedMap `json:"matchups"`
}

type matchupEntry struct {
	Matchup countedMap `json:"matchup"`
}

type matchupBody struct {
	Teams countedMap `json:"teams"`
}

type teamEntry struct {
	Team *teamParts `json:"team"`
}

func (p *leagueParts) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := sonic.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("league: %w", err)
	}
	if len(parts) == 0 {
		return fmt.Errorf("league: empty array")
	}
	if err := sonic.Unmarshal(parts[0], &p.Meta); err != nil {
		return fmt.Errorf("league meta: %w", err)
	}

	for i, part := range parts[1:] {
		var sub struct {
			Standings  []standingsBlock `json:"standings"`
			Scoreboard *countedMap      `json:"scoreboard"`
		}
		if err := sonic.Unmarshal(part, &sub); err != nil {
			return fmt.Errorf("league part %d: %w", i+1, err)
		}
		if len(sub.Standings) > 0 {
			p.Standings = sub.Standings
		}
		if sub.Scoreboard != nil {
			p.Scoreboard = sub.Scoreboard
		}
	}
	return nil
}

type countedItem struct {
	Key   string
	Index int
	Raw   json.RawMessage
}

// countedMap keeps numerically keyed entries in index order and drops the
// count marker and any other non-numeric key. Entries stay raw so each one
// decodes on its own.
type countedMap struct {
	Items []countedItem
}

func (m *countedMap) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		m.Items = nil
		return nil
	}

	var raw map[string]json.RawMessage
	if err := sonic.Unmarshal(trimmed, &raw); err != nil {
		return err
	}

	items := make([]countedItem, 0, len(raw))
	for key, value := range raw {
		index, err := strconv.Atoi(key)
		if err != nil || index < 0 {
			continue
		}
		items = append(items, countedItem{Key: key, Index: index, Raw: value})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Index < items[j].Index })
	m.Items = items
	return nil
}

// First returns the entry at index 0, if present.
func (m countedMap) First() (countedItem, bool) {
	for _, item := range m.Items {
		if item.Index == 0 {
			return item, true
		}
	}
	return countedItem{}, false
}

func (m countedMap) At(index int) (countedItem, bool) {
	for _, item := range m.Items {
		if item.Index == index {
			return item, true
		}
	}
	return countedItem{}, false
}

// teamParts is the team array: [[attr, attr, ...], {team_points}, {team_standings}].
type teamParts struct {
	Key       string
	Name      *string
	Managers  []managerEntry
	Points    *teamPoints
	Standings *teamStandings
}

type teamAttribute struct {
	TeamKey  string         `json:"team_key"`
	Name     *string        `json:"name"`
	Managers []managerEntry `json:"managers"`
}

type managerEntry struct {
	Manager struct {
		Nickname *string `json:"nickname"`
	} `json:"manager"`
}

type teamPoints struct {
	Total flexFloat `json:"total"`
}

type teamStandings struct {
	Rank          flexInt        `json:"rank"`
	OutcomeTotals *outcomeTotals `json:"outcome_totals"`
}

type outcomeTotals struct {
	Wins   flexInt `json:"wins"`
	Losses flexInt `json:"losses"`
	Ties   flexInt `json:"ties"`
}

func (t *teamParts) UnmarshalJSON(data []byte) error {
	var parts []json.RawMessage
	if err := sonic.Unmarshal(data, &parts); err != nil {
		return err
	}
	if len(parts) == 0 {
		return fmt.Errorf("empty team array")
	}

	var attributes []json.RawMessage
	if err := sonic.Unmarshal(parts[0], &attributes); err != nil {
		return fmt.Errorf("team attributes: %w", err)
	}
	for _, attr := range attributes {
		trimmed := bytes.TrimSpace(attr)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue
		}
		var decoded teamAttribute
		if err := sonic.Unmarshal(trimmed, &decoded); err != nil {
			return fmt.Errorf("team attribute: %w", err)
		}
		if decoded.TeamKey != "" {
			t.Key = decoded.TeamKey
		}
		if decoded.Name != nil {
			t.Name = decoded.Name
		}
		if decoded.Managers != nil {
			t.Managers = decoded.Managers
		}
	}

	for i, part := range parts[1:] {
		trimmed := bytes.TrimSpace(part)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue
		}
		var extra struct {
			TeamPoints    *teamPoints    `json:"team_points"`
			TeamStandings *teamStandings `json:"team_standings"`
		}
		if err := sonic.Unmarshal(trimmed, &extra); err != nil {
			return fmt.Errorf("team part %d: %w", i+1, err)
		}
		if extra.TeamPoints != nil {
			t.Points = extra.TeamPoints
		}
		if extra.TeamStandings != nil {
			t.Standings = extra.TeamStandings
		}
	}
	return nil
}

// flexInt accepts 3, "3" and "" (unset).
type flexInt struct {
	Value int
	Set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	text, quoted := unquote(data)
	if text == "" || text == "null" && !quoted {
		*f = flexInt{}
		return nil
	}
	value, err := strconv.Atoi(text)
	if err != nil {
		return fmt.Errorf("expected integer, got %q", text)
	}
	*f = flexInt{Value: value, Set: true}
	return nil
}

// flexFloat accepts 95.5, "95.5" and "" (unset).
type flexFloat struct {
	Value float64
	Set   bool
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	text, quoted := unquote(data)
	if text == "" || text == "null" && !quoted {
		*f = flexFloat{}
		return nil
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("expected number, got %q", text)
	}
	*f = flexFloat{Value: value, Set: true}
	return nil
}

func unquote(data []byte) (string, bool) {
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		var text string
		if err := sonic.UnmarshalString(trimmed, &text); err == nil {
			return strings.TrimSpace(text), true
		}
		return strings.TrimSpace(trimmed[1 : len(trimmed)-1]), true
	}
	return trimmed, false
}
