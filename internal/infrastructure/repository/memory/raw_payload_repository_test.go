package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-league-history/internal/domain/rawdata"
)

func TestRawPayloadRepository_UpsertAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewRawPayloadRepository()
	at := time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC)

	first := rawdata.NewPayload("yahoo", rawdata.EntityStandings, "423.l.347398", 0, []byte(`{"v":1}`), at)
	second := rawdata.NewPayload("yahoo", rawdata.EntityStandings, "423.l.347398", 0, []byte(`{"v":2}`), at)
	if err := repo.UpsertMany(ctx, []rawdata.Payload{first}); err != nil {
		t.Fatalf("UpsertMany error: %v", err)
	}
	if err := repo.UpsertMany(ctx, []rawdata.Payload{second}); err != nil {
		t.Fatalf("UpsertMany error: %v", err)
	}

	got, err := repo.Get(ctx, "yahoo", rawdata.EntityStandings, first.EntityKey)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.PayloadJSON != `{"v":2}` || repo.Len() != 1 {
		t.Fatalf("expected upsert to replace payload, got %q len=%d", got.PayloadJSON, repo.Len())
	}

	if _, err := repo.Get(ctx, "replay", rawdata.EntityStandings, first.EntityKey); !errors.Is(err, rawdata.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other source, got %v", err)
	}
}
