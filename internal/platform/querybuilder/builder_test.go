package querybuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBuilder(t *testing.T) {
	t.Parallel()

	query, args, err := Select("entity_key", "payload").
		From("raw_payloads").
		Where(Eq("source", "yahoo"), In("league_key", []string{"359.l.1", "371.l.2"})).
		OrderBy("week").
		Limit(10).
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "SELECT entity_key, payload FROM raw_payloads WHERE source = $1 AND league_key IN ($2, $3) ORDER BY week LIMIT 10", query)
	assert.Equal(t, []any{"yahoo", "359.l.1", "371.l.2"}, args)
}

func TestSelectBuilder_EmptyInMatchesNothing(t *testing.T) {
	t.Parallel()

	query, args, err := Select("id").From("raw_payloads").Where(In[string]("league_key", nil)).ToSQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM raw_payloads WHERE FALSE", query)
	assert.Empty(t, args)
}

func TestSelectBuilder_RequiresTable(t *testing.T) {
	t.Parallel()

	_, _, err := Select("id").ToSQL()
	require.Error(t, err)
}

func TestInsertBuilder_MultiRow(t *testing.T) {
	t.Parallel()

	query, args, err := InsertInto("raw_payloads").
		Columns("entity_key", "week").
		Values("a", 1).
		Values("b", 2).
		Suffix("ON CONFLICT DO NOTHING").
		ToSQL()
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO raw_payloads (entity_key, week) VALUES ($1, $2), ($3, $4) ON CONFLICT DO NOTHING", query)
	assert.Equal(t, []any{"a", 1, "b", 2}, args)
}

func TestInsertBuilder_RowWidthMismatch(t *testing.T) {
	t.Parallel()

	_, _, err := InsertInto("raw_payloads").Columns("a", "b").Values(1).ToSQL()
	require.Error(t, err)
}

type testRow struct {
	Key     string `db:"entity_key"`
	Week    *int   `db:"week"`
	Skipped string `db:"-"`
	hidden  string
}

func TestInsertModels(t *testing.T) {
	t.Parallel()

	week := 3
	query, args, err := InsertModels("raw_payloads", []testRow{
		{Key: "league:359.l.1"},
		{Key: "scoreboard:359.l.1:3", Week: &week, hidden: "x"},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "INSERT INTO raw_payloads (entity_key, week) VALUES ($1, $2), ($3, $4)", query)
	require.Len(t, args, 4)
	assert.Equal(t, "league:359.l.1", args[0])
	assert.Nil(t, args[1].(*int))
	assert.Equal(t, &week, args[3])
}

func TestInsertModels_Rejects(t *testing.T) {
	t.Parallel()

	_, _, err := InsertModels[testRow]("raw_payloads", nil, "")
	require.Error(t, err)

	_, _, err = InsertModels("raw_payloads", []int{1}, "")
	require.Error(t, err)
}
