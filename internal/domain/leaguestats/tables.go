package leaguestats

import (
	"sort"

	"github.com/riskibarqy/fantasy-league-history/internal/domain/standing"
)

// CountRow is a ranking row for integer statistics.
type CountRow struct {
	Manager string
	Count   int
}

// ValueRow is a ranking row for averaged statistics.
type ValueRow struct {
	Manager string
	Value   float64
}

// Equal values are ordered by manager name ascending in every table.

// ChampionshipTable lists managers with at least one title, most first.
func ChampionshipTable(ds standing.Dataset) []CountRow {
	return countTable(ds, Championships)
}

// Top3Table lists managers with at least one top-three finish, most first.
func Top3Table(ds standing.Dataset) []CountRow {
	return countTable(ds, Top3Finishes)
}

// AverageStandingTable lists every manager by mean standing, best first.
func AverageStandingTable(ds standing.Dataset) []ValueRow {
	rows := valueRows(ds, AverageStanding)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value < rows[j].Value
		}
		return rows[i].Manager < rows[j].Manager
	})
	return rows
}

// WinPercentageTable lists managers by mean win rate, best first. Managers
// without a single season with games are omitted.
func WinPercentageTable(ds standing.Dataset) []ValueRow {
	rows := valueRows(ds, WinPercentage)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Value != rows[j].Value {
			return rows[i].Value > rows[j].Value
		}
		return rows[i].Manager < rows[j].Manager
	})
	return rows
}

// WinLossDistribution returns outcome totals per manager ordered by games
// played, most first.
func WinLossDistribution(ds standing.Dataset) []Totals {
	managers := ds.Managers()
	out := make([]Totals, 0, len(managers))
	for _, name := range managers {
		out = append(out, ManagerTotals(ds, name))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Games != out[j].Games {
			return out[i].Games > out[j].Games
		}
		return out[i].Manager < out[j].Manager
	})
	return out
}

func countTable(ds standing.Dataset, project func(standing.Dataset, string) int) []CountRow {
	managers := ds.Managers()
	rows := make([]CountRow, 0, len(managers))
	for _, name := range managers {
		count := project(ds, name)
		if count < 1 {
			continue
		}
		rows = append(rows, CountRow{Manager: name, Count: count})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Manager < rows[j].Manager
	})
	return rows
}

func valueRows(ds standing.Dataset, project func(standing.Dataset, string) (float64, bool)) []ValueRow {
	managers := ds.Managers()
	rows := make([]ValueRow, 0, len(managers))
	for _, name := range managers {
		value, ok := project(ds, name)
		if !ok {
			continue
		}
		rows = append(rows, ValueRow{Manager: name, Value: value})
	}
	return rows
}
