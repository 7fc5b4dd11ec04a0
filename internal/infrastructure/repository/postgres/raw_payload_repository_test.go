package postgres

import (
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-league-history/internal/domain/rawdata"
	qb "github.com/riskibarqy/fantasy-league-history/internal/platform/querybuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawPayloadRows_DedupesByKey(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	rows := rawPayloadRows([]rawdata.Payload{
		rawdata.NewPayload("yahoo", rawdata.EntityLeague, "359.l.1", 0, []byte(`{"v":1}`), now),
		rawdata.NewPayload("yahoo", rawdata.EntityScoreboard, "359.l.1", 2, []byte(`{}`), now),
		rawdata.NewPayload("yahoo", rawdata.EntityLeague, "359.l.1", 0, []byte(`{"v":2}`), now),
	})

	require.Len(t, rows, 2)
	assert.Equal(t, `{"v":2}`, rows[0].Payload)
	assert.Nil(t, rows[0].Week)
	require.NotNil(t, rows[1].Week)
	assert.Equal(t, 2, *rows[1].Week)
}

func TestRawPayloadRows_BuildsUpsert(t *testing.T) {
	t.Parallel()

	rows := rawPayloadRows([]rawdata.Payload{
		rawdata.NewPayload("yahoo", rawdata.EntityStandings, "359.l.1", 0, []byte(`{}`), time.Now()),
	})
	query, args, err := qb.InsertModels(rawPayloadTable, rows, rawPayloadUpsertSuffix)
	require.NoError(t, err)

	assert.Contains(t, query, "INSERT INTO raw_payloads (source, entity_type, entity_key, league_key, week, payload, payload_hash, fetched_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)")
	assert.Contains(t, query, "ON CONFLICT (source, entity_type, entity_key)")
	assert.Len(t, args, 8)
}

func TestRawPayloadModel_ToDomain(t *testing.T) {
	t.Parallel()

	week := 4
	got := rawPayloadModel{Source: "yahoo", EntityType: rawdata.EntityScoreboard, Week: &week, Payload: "{}"}.toDomain()
	assert.Equal(t, 4, got.Week)
	assert.Equal(t, "{}", got.PayloadJSON)

	got = rawPayloadModel{}.toDomain()
	assert.Equal(t, 0, got.Week)
}
