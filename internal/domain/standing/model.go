package standing

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidRecord = errors.New("invalid team standing record")

// TeamStanding is one team's final result in one season.
type TeamStanding struct {
	Season        int
	LeagueKey     string
	Manager       string
	Team          string
	FinalStanding int
	Wins          int
	Losses        int
	Ties          int
}

// Games is the number of decided matchups for the season.
func (s TeamStanding) Games() int {
	return s.Wins + s.Losses + s.Ties
}

// WinRate returns wins over games played; ok is false for a season without games.
func (s TeamStanding) WinRate() (float64, bool) {
	games := s.Games()
	if games <= 0 {
		return 0, false
	}
	return float64(s.Wins) / float64(games), true
}

func (s TeamStanding) Validate() error {
	switch {
	case s.Season <= 0:
		return fmt.Errorf("%w: season must be > 0", ErrInvalidRecord)
	case strings.TrimSpace(s.Manager) == "":
		return fmt.Errorf("%w: manager is required", ErrInvalidRecord)
	case s.FinalStanding < 1:
		return fmt.Errorf("%w: final standing must be >= 1, got %d", ErrInvalidRecord, s.FinalStanding)
	case s.Wins < 0 || s.Losses < 0 || s.Ties < 0:
		return fmt.Errorf("%w: negative outcome totals w=%d l=%d t=%d", ErrInvalidRecord, s.Wins, s.Losses, s.Ties)
	}
	return nil
}
