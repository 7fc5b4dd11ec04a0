package leaguestats

import (
	"sort"

	"github.com/riskibarqy/fantasy-league-history/internal/domain/standing"
)

type Medal string

const (
	MedalNone      Medal = ""
	MedalGold      Medal = "gold"
	MedalSilver    Medal = "silver"
	MedalBronze    Medal = "bronze"
	MedalLastPlace Medal = "last_place"
)

// SeasonRow is one line of a season's final table.
type SeasonRow struct {
	standing.TeamStanding
	Medal Medal
}

// SeasonTable returns one season's standings by final position. The team
// whose standing equals the number of teams gets the last place tag, even
// in leagues of three or fewer where that position would also medal.
func SeasonTable(ds standing.Dataset, season int) []SeasonRow {
	records := ds.BySeason(season)
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].FinalStanding != records[j].FinalStanding {
			return records[i].FinalStanding < records[j].FinalStanding
		}
		return records[i].Manager < records[j].Manager
	})

	out := make([]SeasonRow, 0, len(records))
	for _, record := range records {
		out = append(out, SeasonRow{
			TeamStanding: record,
			Medal:        medalFor(record.FinalStanding, len(records)),
		})
	}
	return out
}

func medalFor(position, teams int) Medal {
	if teams > 1 && position == teams {
		return MedalLastPlace
	}
	switch position {
	case 1:
		return MedalGold
	case 2:
		return MedalSilver
	case 3:
		return MedalBronze
	}
	return MedalNone
}
