package matchup

// Tie is the winner value for a matchup with equal points.
const Tie = "Tie"

// Matchup is one weekly pairing between two managers.
type Matchup struct {
	Season   int
	Week     int
	ManagerA string
	ManagerB string
	PointsA  float64
	PointsB  float64
	Winner   string
}

// DecideWinner returns the manager with strictly more points, or Tie on
// exact equality.
func DecideWinner(managerA string, pointsA float64, managerB string, pointsB float64) string {
	switch {
	case pointsA > pointsB:
		return managerA
	case pointsB > pointsA:
		return managerB
	default:
		return Tie
	}
}

func New(season, week int, managerA string, pointsA float64, managerB string, pointsB float64) Matchup {
	return Matchup{
		Season:   season,
		Week:     week,
		ManagerA: managerA,
		ManagerB: managerB,
		PointsA:  pointsA,
		PointsB:  pointsB,
		Winner:   DecideWinner(managerA, pointsA, managerB, pointsB),
	}
}

// Involves reports whether both managers appear in the matchup, in either slot.
func (m Matchup) Involves(x, y string) bool {
	return (m.ManagerA == x && m.ManagerB == y) || (m.ManagerA == y && m.ManagerB == x)
}

// PointsFor returns the points scored by name in this matchup.
func (m Matchup) PointsFor(name string) (float64, bool) {
	switch name {
	case m.ManagerA:
		return m.PointsA, true
	case m.ManagerB:
		return m.PointsB, true
	default:
		return 0, false
	}
}

// Less orders matchups by season then week.
func Less(a, b Matchup) bool {
	if a.Season != b.Season {
		return a.Season < b.Season
	}
	return a.Week < b.Week
}
