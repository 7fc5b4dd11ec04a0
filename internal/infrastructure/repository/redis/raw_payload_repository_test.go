package redis

import (
	"testing"
	"time"
)

func TestRawPayloadRepository_KeyLayout(t *testing.T) {
	t.Parallel()

	repo := NewRawPayloadRepository(nil, "", time.Hour)
	got := repo.key("yahoo", "scoreboard:359.l.749915:4")
	want := "fantasy_history:raw:yahoo:scoreboard:359.l.749915:4"
	if got != want {
		t.Fatalf("unexpected key: got=%q want=%q", got, want)
	}

	custom := NewRawPayloadRepository(nil, "test:", 0)
	if got := custom.key("replay", "league:371.l.4"); got != "test:replay:league:371.l.4" {
		t.Fatalf("unexpected custom key: %q", got)
	}
}

func TestNewClient_RequiresURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(t.Context(), ClientConfig{}); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if _, err := NewClient(t.Context(), ClientConfig{URL: "://bad"}); err == nil {
		t.Fatalf("expected parse error")
	}
}
