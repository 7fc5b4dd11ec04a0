package season

import (
	"errors"
	"testing"
)

func TestTable_Resolve(t *testing.T) {
	t.Parallel()

	table := NewTable(map[string]int{"359": 2016, "371": 2017, "": 1999, "400": 0})

	leagues, err := table.Resolve([]string{"359.l.749915", " 371.l.587962 "})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(leagues) != 2 || leagues[0].Season != 2016 || leagues[1].Season != 2017 {
		t.Fatalf("unexpected leagues: %+v", leagues)
	}
	if leagues[1].Key != "371.l.587962" {
		t.Fatalf("expected trimmed key, got %q", leagues[1].Key)
	}
	if table.Len() != 2 {
		t.Fatalf("expected invalid rows to be dropped, got %d", table.Len())
	}
}

func TestTable_ResolveRejectsUnknownLeague(t *testing.T) {
	t.Parallel()

	table := NewTable(map[string]int{"359": 2016})

	_, err := table.Resolve([]string{"359.l.749915", "999.l.1"})
	if !errors.Is(err, ErrUnknownLeague) {
		t.Fatalf("expected ErrUnknownLeague, got %v", err)
	}

	_, err = table.Year("")
	if !errors.Is(err, ErrInvalidLeagueKey) {
		t.Fatalf("expected ErrInvalidLeagueKey, got %v", err)
	}
}
