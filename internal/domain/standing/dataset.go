package standing

import (
	"fmt"
	"sort"

	"github.com/riskibarqy/fantasy-league-history/internal/domain/manager"
)

// Dataset is the historical set of standings across all seasons in scope.
type Dataset struct {
	records []TeamStanding
}

func NewDataset(records []TeamStanding) Dataset {
	return Dataset{records: append([]TeamStanding(nil), records...)}
}

// Aggregate unions per-league batches into one dataset and applies identity
// normalization across the union. Record count is preserved exactly.
func Aggregate(identity manager.Identity, batches ...[]TeamStanding) (Dataset, error) {
	total := 0
	for _, batch := range batches {
		total += len(batch)
	}

	out := make([]TeamStanding, 0, total)
	for b, batch := range batches {
		for i, record := range batch {
			if err := record.Validate(); err != nil {
				return Dataset{}, fmt.Errorf("batch=%d record=%d league=%s: %w", b, i, record.LeagueKey, err)
			}
			record.Manager = identity.Normalize(record.Manager)
			out = append(out, record)
		}
	}

	return Dataset{records: out}, nil
}

func (d Dataset) Len() int {
	return len(d.records)
}

func (d Dataset) Records() []TeamStanding {
	return append([]TeamStanding(nil), d.records...)
}

func (d Dataset) Managers() []string {
	seen := make(map[string]struct{}, len(d.records))
	out := make([]string, 0, len(d.records))
	for _, record := range d.records {
		if _, ok := seen[record.Manager]; ok {
			continue
		}
		seen[record.Manager] = struct{}{}
		out = append(out, record.Manager)
	}
	sort.Strings(out)
	return out
}

func (d Dataset) Seasons() []int {
	seen := make(map[int]struct{})
	out := make([]int, 0, 8)
	for _, record := range d.records {
		if _, ok := seen[record.Season]; ok {
			continue
		}
		seen[record.Season] = struct{}{}
		out = append(out, record.Season)
	}
	sort.Ints(out)
	return out
}

func (d Dataset) BySeason(season int) []TeamStanding {
	out := make([]TeamStanding, 0, 16)
	for _, record := range d.records {
		if record.Season == season {
			out = append(out, record)
		}
	}
	return out
}

// ForManager returns a manager's records ordered by season.
func (d Dataset) ForManager(name string) []TeamStanding {
	out := make([]TeamStanding, 0, 8)
	for _, record := range d.records {
		if record.Manager == name {
			out = append(out, record)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Season < out[j].Season })
	return out
}

func (d Dataset) HasManager(name string) bool {
	for _, record := range d.records {
		if record.Manager == name {
			return true
		}
	}
	return false
}
