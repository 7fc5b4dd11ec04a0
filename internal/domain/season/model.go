package season

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownLeague    = errors.New("league is not present in season table")
	ErrInvalidLeagueKey = errors.New("invalid league key")
)

// League is one configured league instance with its resolved season year.
type League struct {
	Key    string
	Season int
}

// Table maps the game code prefix of a league key (e.g. "359" in
// "359.l.749915") to the season year it was played in.
type Table struct {
	years map[string]int
}

func NewTable(years map[string]int) Table {
	out := make(map[string]int, len(years))
	for code, year := range years {
		code = strings.TrimSpace(code)
		if code == "" || year <= 0 {
			continue
		}
		out[code] = year
	}
	return Table{years: out}
}

// GameCode returns the prefix before the first dot of a league key.
func GameCode(leagueKey string) (string, error) {
	leagueKey = strings.TrimSpace(leagueKey)
	if leagueKey == "" {
		return "", fmt.Errorf("%w: league key is empty", ErrInvalidLeagueKey)
	}
	code, _, _ := strings.Cut(leagueKey, ".")
	if code == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidLeagueKey, leagueKey)
	}
	return code, nil
}

func (t Table) Year(leagueKey string) (int, error) {
	code, err := GameCode(leagueKey)
	if err != nil {
		return 0, err
	}
	year, ok := t.years[code]
	if !ok {
		return 0, fmt.Errorf("%w: league=%s game_code=%s", ErrUnknownLeague, leagueKey, code)
	}
	return year, nil
}

// Resolve maps every key to a League, failing on the first unknown key so
// callers never start work on a partially valid scope.
func (t Table) Resolve(leagueKeys []string) ([]League, error) {
	out := make([]League, 0, len(leagueKeys))
	for _, key := range leagueKeys {
		year, err := t.Year(key)
		if err != nil {
			return nil, err
		}
		out = append(out, League{Key: strings.TrimSpace(key), Season: year})
	}
	return out, nil
}

func (t Table) Len() int {
	return len(t.years)
}

// Codes lists the configured game codes in ascending order.
func (t Table) Codes() []string {
	out := make([]string, 0, len(t.years))
	for code := range t.years {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
