package config

import (
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// LeagueConfig is the league scope of the service: which leagues exist,
// which season each game code belongs to, and how manager names are folded.
type LeagueConfig struct {
	SeasonByGameCode map[string]int    `toml:"seasons"`
	LeagueKeys       []string          `toml:"league_keys"`
	RedactedAlias    string            `toml:"redacted_alias"`
	Aliases          map[string]string `toml:"aliases"`
}

func DefaultLeagueConfig() LeagueConfig {
	return LeagueConfig{
		SeasonByGameCode: map[string]int{
			"359": 2016,
			"371": 2017,
			"380": 2018,
			"390": 2019,
			"399": 2020,
			"406": 2021,
			"414": 2022,
			"423": 2023,
		},
		LeagueKeys: []string{
			"359.l.749915", "371.l.587962", "380.l.900787", "390.l.442716",
			"399.l.821242", "406.l.418209", "414.l.195525", "423.l.347398",
		},
		RedactedAlias: "Vikram",
		Aliases:       map[string]string{},
	}
}

// loadLeagueConfig layers defaults, then LEAGUE_CONFIG_FILE, then env overrides.
func loadLeagueConfig() (LeagueConfig, error) {
	out := DefaultLeagueConfig()

	if path := strings.TrimSpace(getEnv("LEAGUE_CONFIG_FILE", "")); path != "" {
		fromFile, err := LoadLeagueFile(path)
		if err != nil {
			return LeagueConfig{}, err
		}
		out = mergeLeagueConfig(out, fromFile)
	}

	if raw := getEnv("LEAGUE_SEASON_MAP", ""); strings.TrimSpace(raw) != "" {
		seasons, err := parseSeasonMap(raw)
		if err != nil {
			return LeagueConfig{}, fmt.Errorf("parse LEAGUE_SEASON_MAP: %w", err)
		}
		out.SeasonByGameCode = seasons
	}
	if raw := getEnv("LEAGUE_KEYS", ""); strings.TrimSpace(raw) != "" {
		out.LeagueKeys = splitCSV(raw)
	}
	if alias := strings.TrimSpace(getEnv("MANAGER_REDACTED_ALIAS", "")); alias != "" {
		out.RedactedAlias = alias
	}
	if raw := getEnv("MANAGER_ALIASES", ""); strings.TrimSpace(raw) != "" {
		aliases, err := parseAliasMap(raw)
		if err != nil {
			return LeagueConfig{}, fmt.Errorf("parse MANAGER_ALIASES: %w", err)
		}
		out.Aliases = aliases
	}

	if err := out.Validate(); err != nil {
		return LeagueConfig{}, err
	}
	return out, nil
}

func LoadLeagueFile(path string) (LeagueConfig, error) {
	var out LeagueConfig
	if _, err := toml.DecodeFile(path, &out); err != nil {
		return LeagueConfig{}, fmt.Errorf("decode LEAGUE_CONFIG_FILE %s: %w", path, err)
	}
	return out, nil
}

func mergeLeagueConfig(base, override LeagueConfig) LeagueConfig {
	if len(override.SeasonByGameCode) > 0 {
		base.SeasonByGameCode = maps.Clone(override.SeasonByGameCode)
	}
	if len(override.LeagueKeys) > 0 {
		base.LeagueKeys = append([]string(nil), override.LeagueKeys...)
	}
	if strings.TrimSpace(override.RedactedAlias) != "" {
		base.RedactedAlias = strings.TrimSpace(override.RedactedAlias)
	}
	if len(override.Aliases) > 0 {
		base.Aliases = maps.Clone(override.Aliases)
	}
	return base
}

// Validate checks that every configured league key has a known season.
func (c LeagueConfig) Validate() error {
	if len(c.SeasonByGameCode) == 0 {
		return fmt.Errorf("league season map cannot be empty")
	}
	if len(c.LeagueKeys) == 0 {
		return fmt.Errorf("league keys cannot be empty")
	}
	for code, year := range c.SeasonByGameCode {
		if strings.TrimSpace(code) == "" || year <= 0 {
			return fmt.Errorf("invalid season map item %q:%d", code, year)
		}
	}
	for _, key := range c.LeagueKeys {
		code, _, ok := strings.Cut(key, ".")
		if !ok || code == "" {
			return fmt.Errorf("invalid league key %q", key)
		}
		if _, exists := c.SeasonByGameCode[code]; !exists {
			return fmt.Errorf("league key %q has no season in the season map", key)
		}
	}
	if strings.TrimSpace(c.RedactedAlias) == "" {
		return fmt.Errorf("redacted manager alias cannot be empty")
	}
	return nil
}

func parseSeasonMap(raw string) (map[string]int, error) {
	out := make(map[string]int)
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		code, value, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("invalid map item %q, expected game_code:year", item)
		}
		code = strings.TrimSpace(code)
		if code == "" {
			return nil, fmt.Errorf("empty game code in item %q", item)
		}
		year, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid year in item %q: %w", item, err)
		}
		if year <= 0 {
			return nil, fmt.Errorf("year must be > 0 in item %q", item)
		}
		out[code] = year
	}
	return out, nil
}

func parseAliasMap(raw string) (map[string]string, error) {
	out := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		from, to, ok := strings.Cut(item, ":")
		from, to = strings.TrimSpace(from), strings.TrimSpace(to)
		if !ok || from == "" || to == "" {
			return nil, fmt.Errorf("invalid alias item %q, expected raw_name:canonical_name", item)
		}
		out[from] = to
	}
	return out, nil
}
