package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/rawdata"
	qb "github.com/riskibarqy/fantasy-league-history/internal/platform/querybuilder"
)

const rawPayloadTable = "raw_payloads"

type RawPayloadRepository struct {
	db *sqlx.DB
}

func NewRawPayloadRepository(db *sqlx.DB) *RawPayloadRepository {
	return &RawPayloadRepository{db: db}
}

const rawPayloadUpsertSuffix = `ON CONFLICT (source, entity_type, entity_key)
DO UPDATE SET
    league_key = EXCLUDED.league_key,
    week = EXCLUDED.week,
    payload = EXCLUDED.payload,
    payload_hash = EXCLUDED.payload_hash,
    fetched_at = EXCLUDED.fetched_at,
    updated_at = NOW()
WHERE raw_payloads.payload_hash IS DISTINCT FROM EXCLUDED.payload_hash`

// UpsertMany writes the batch in one statement. Unchanged payloads (same
// hash) are left untouched.
func (r *RawPayloadRepository) UpsertMany(ctx context.Context, items []rawdata.Payload) error {
	rows := rawPayloadRows(items)
	if len(rows) == 0 {
		return nil
	}

	query, args, err := qb.InsertModels(rawPayloadTable, rows, rawPayloadUpsertSuffix)
	if err != nil {
		return fmt.Errorf("build upsert raw payloads query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert %d raw payloads: %w", len(rows), err)
	}

	return nil
}

// rawPayloadRows keeps the last item per key; postgres rejects an upsert
// that touches the same row twice.
func rawPayloadRows(items []rawdata.Payload) []rawPayloadModel {
	index := make(map[string]int, len(items))
	rows := make([]rawPayloadModel, 0, len(items))
	for _, item := range items {
		row := rawPayloadModel{
			Source:      item.Source,
			EntityType:  item.EntityType,
			EntityKey:   item.EntityKey,
			LeagueKey:   item.LeagueKey,
			Week:        nullableWeek(item.Week),
			Payload:     item.PayloadJSON,
			PayloadHash: item.PayloadHash,
			FetchedAt:   item.FetchedAt,
		}
		key := item.Source + "|" + item.EntityType + "|" + item.EntityKey
		if i, ok := index[key]; ok {
			rows[i] = row
			continue
		}
		index[key] = len(rows)
		rows = append(rows, row)
	}
	return rows
}

func (r *RawPayloadRepository) Get(ctx context.Context, source, entityType, entityKey string) (rawdata.Payload, error) {
	query, args, err := qb.Select(
		"source", "entity_type", "entity_key", "league_key", "week", "payload", "payload_hash", "fetched_at",
	).From(rawPayloadTable).
		Where(qb.Eq("source", source), qb.Eq("entity_type", entityType), qb.Eq("entity_key", entityKey)).
		Limit(1).
		ToSQL()
	if err != nil {
		return rawdata.Payload{}, fmt.Errorf("build select raw payload query: %w", err)
	}

	var row rawPayloadModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return rawdata.Payload{}, rawdata.ErrNotFound
		}
		return rawdata.Payload{}, fmt.Errorf("select raw payload key=%s: %w", entityKey, err)
	}

	return row.toDomain(), nil
}

type rawPayloadModel struct {
	Source      string     `db:"source"`
	EntityType  string     `db:"entity_type"`
	EntityKey   string     `db:"entity_key"`
	LeagueKey   string     `db:"league_key"`
	Week        *int       `db:"week"`
	Payload     string     `db:"payload"`
	PayloadHash string     `db:"payload_hash"`
	FetchedAt   *time.Time `db:"fetched_at"`
}

func (m rawPayloadModel) toDomain() rawdata.Payload {
	week := 0
	if m.Week != nil {
		week = *m.Week
	}
	return rawdata.Payload{
		Source:      m.Source,
		EntityType:  m.EntityType,
		EntityKey:   m.EntityKey,
		LeagueKey:   m.LeagueKey,
		Week:        week,
		PayloadJSON: m.Payload,
		PayloadHash: m.PayloadHash,
		FetchedAt:   m.FetchedAt,
	}
}

func nullableWeek(week int) *int {
	if week <= 0 {
		return nil
	}
	return &week
}
