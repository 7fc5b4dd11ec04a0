package leaguestats

import "github.com/riskibarqy/fantasy-league-history/internal/domain/standing"

// Championships counts the seasons a manager finished first.
func Championships(ds standing.Dataset, name string) int {
	count := 0
	for _, record := range ds.ForManager(name) {
		if record.FinalStanding == 1 {
			count++
		}
	}
	return count
}

// Top3Finishes counts the seasons a manager finished in the top three.
func Top3Finishes(ds standing.Dataset, name string) int {
	count := 0
	for _, record := range ds.ForManager(name) {
		if record.FinalStanding <= 3 {
			count++
		}
	}
	return count
}

// AverageStanding is the mean final standing across a manager's seasons.
func AverageStanding(ds standing.Dataset, name string) (float64, bool) {
	records := ds.ForManager(name)
	if len(records) == 0 {
		return 0, false
	}
	sum := 0
	for _, record := range records {
		sum += record.FinalStanding
	}
	return float64(sum) / float64(len(records)), true
}

// WinPercentage is the mean of per-season win rates. Seasons without games
// are left out of the mean; ok is false when none remain.
func WinPercentage(ds standing.Dataset, name string) (float64, bool) {
	sum := 0.0
	seasons := 0
	for _, record := range ds.ForManager(name) {
		rate, ok := record.WinRate()
		if !ok {
			continue
		}
		sum += rate
		seasons++
	}
	if seasons == 0 {
		return 0, false
	}
	return sum / float64(seasons), true
}

// Totals is the sum of a manager's outcomes over every season in scope.
type Totals struct {
	Manager string
	Wins    int
	Losses  int
	Ties    int
	Games   int
}

func ManagerTotals(ds standing.Dataset, name string) Totals {
	out := Totals{Manager: name}
	for _, record := range ds.ForManager(name) {
		out.Wins += record.Wins
		out.Losses += record.Losses
		out.Ties += record.Ties
	}
	out.Games = out.Wins + out.Losses + out.Ties
	return out
}

// SeasonResult is one point of a manager's performance series.
type SeasonResult struct {
	Season        int
	Team          string
	FinalStanding int
}

// Performance returns a manager's final standing per season, oldest first.
func Performance(ds standing.Dataset, name string) []SeasonResult {
	records := ds.ForManager(name)
	out := make([]SeasonResult, 0, len(records))
	for _, record := range records {
		out = append(out, SeasonResult{
			Season:        record.Season,
			Team:          record.Team,
			FinalStanding: record.FinalStanding,
		})
	}
	return out
}

// Summary bundles the four projections for one manager.
type Summary struct {
	Manager            string
	Seasons            int
	Championships      int
	Top3Finishes       int
	AverageStanding    float64
	HasAverageStanding bool
	WinPercentage      float64
	HasWinPercentage   bool
	Totals             Totals
	Performance        []SeasonResult
}

func Summarize(ds standing.Dataset, name string) Summary {
	avg, hasAvg := AverageStanding(ds, name)
	winPct, hasWinPct := WinPercentage(ds, name)
	performance := Performance(ds, name)
	return Summary{
		Manager:            name,
		Seasons:            len(performance),
		Championships:      Championships(ds, name),
		Top3Finishes:       Top3Finishes(ds, name),
		AverageStanding:    avg,
		HasAverageStanding: hasAvg,
		WinPercentage:      winPct,
		HasWinPercentage:   hasWinPct,
		Totals:             ManagerTotals(ds, name),
		Performance:        performance,
	}
}
