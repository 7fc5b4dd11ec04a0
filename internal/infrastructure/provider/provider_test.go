package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-league-history/internal/domain/rawdata"
	"github.com/riskibarqy/fantasy-league-history/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/metrics"
	"github.com/riskibarqy/fantasy-league-history/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	leagueJSON    = `{"fantasy_content":{"league":[{"league_key":"423.l.347398","name":"Road to Glory","season":"2023","start_week":"1","end_week":"14"}]}}`
	standingsJSON = `{"fantasy_content":{"league":[{"league_key":"423.l.347398","start_week":"1","end_week":"14"},{"standings":[{"teams":{"count":0}}]}]}}`
	weekJSON      = `{"fantasy_content":{"league":[{"league_key":"423.l.347398"},{"scoreboard":{"0":{"matchups":{"count":0}}}}]}}`
)

type stubProvider struct {
	leagueCalls atomic.Int32
	weekCalls   atomic.Int32
	err         error
	// noStandings mimics a league whose standings call failed upstream.
	noStandings bool
}

func (s *stubProvider) FetchLeagueMetadata(_ context.Context, leagueKey string) (usecase.LeagueMetadata, error) {
	s.leagueCalls.Add(1)
	if s.err != nil {
		return usecase.LeagueMetadata{}, s.err
	}
	if s.noStandings {
		return usecase.NewLeagueMetadata(leagueKey, []byte(leagueJSON), nil)
	}
	return usecase.NewLeagueMetadata(leagueKey, []byte(leagueJSON), []byte(standingsJSON))
}

func (s *stubProvider) FetchWeekScoreboard(_ context.Context, _ string, _ int) ([]byte, error) {
	s.weekCalls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return []byte(weekJSON), nil
}

func TestCached_MemoizesAndSkipsErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := &stubProvider{}
	cached := NewCached(next, time.Minute, nil)

	for i := 0; i < 3; i++ {
		_, err := cached.FetchLeagueMetadata(ctx, "423.l.347398")
		require.NoError(t, err)
		_, err = cached.FetchWeekScoreboard(ctx, "423.l.347398", 2)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), next.leagueCalls.Load())
	assert.Equal(t, int32(1), next.weekCalls.Load())

	failing := &stubProvider{err: errors.New("status=503")}
	cachedFailing := NewCached(failing, time.Minute, nil)
	_, _ = cachedFailing.FetchWeekScoreboard(ctx, "k", 1)
	_, _ = cachedFailing.FetchWeekScoreboard(ctx, "k", 1)
	assert.Equal(t, int32(2), failing.weekCalls.Load())
}

func TestCached_RefetchesMetadataWithoutStandings(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := &stubProvider{noStandings: true}
	cached := NewCached(next, time.Minute, nil)

	for i := 0; i < 2; i++ {
		meta, err := cached.FetchLeagueMetadata(ctx, "423.l.347398")
		require.NoError(t, err)
		assert.Empty(t, meta.StandingsPayload)
		assert.Equal(t, 14, meta.EndWeek)
	}
	assert.Equal(t, int32(2), next.leagueCalls.Load())
}

func TestArchivingThenReplay(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := memory.NewRawPayloadRepository()
	archiving := NewArchiving(&stubProvider{}, repo, "yahoo", nil, nil)

	meta, err := archiving.FetchLeagueMetadata(ctx, "423.l.347398")
	require.NoError(t, err)
	assert.Equal(t, 14, meta.EndWeek)
	_, err = archiving.FetchWeekScoreboard(ctx, "423.l.347398", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.Len())

	stored, err := repo.Get(ctx, "yahoo", rawdata.EntityScoreboard, "scoreboard:423.l.347398:3")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Week)
	assert.Equal(t, rawdata.Hash([]byte(weekJSON)), stored.PayloadHash)

	replay := NewReplay(repo, "yahoo")
	replayed, err := replay.FetchLeagueMetadata(ctx, "423.l.347398")
	require.NoError(t, err)
	assert.Equal(t, "Road to Glory", replayed.Name)
	assert.Equal(t, 1, replayed.StartWeek)
	assert.Equal(t, 14, replayed.EndWeek)
	assert.Equal(t, standingsJSON, string(replayed.StandingsPayload))

	raw, err := replay.FetchWeekScoreboard(ctx, "423.l.347398", 3)
	require.NoError(t, err)
	assert.Equal(t, weekJSON, string(raw))

	_, err = replay.FetchWeekScoreboard(ctx, "423.l.347398", 4)
	if !errors.Is(err, usecase.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type failingRepo struct{ rawdata.Repository }

func (failingRepo) UpsertMany(context.Context, []rawdata.Payload) error {
	return errors.New("db down")
}

func TestArchiving_WriteFailureDoesNotFailFetch(t *testing.T) {
	t.Parallel()

	m := metrics.NewManager(metrics.WithNamespace("archive_test"))
	archiving := NewArchiving(&stubProvider{}, failingRepo{}, "yahoo", nil, m)

	raw, err := archiving.FetchWeekScoreboard(context.Background(), "423.l.347398", 1)
	require.NoError(t, err)
	assert.Equal(t, weekJSON, string(raw))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(rec.Body.String(), `archive_test_raw_store_writes_total{outcome="error"} 1`))
}

func TestInstrumented_PassesThrough(t *testing.T) {
	t.Parallel()

	m := metrics.NewManager(metrics.WithNamespace("instrumented_test"))
	next := &stubProvider{err: errors.New("status=429")}
	instrumented := NewInstrumented(next, "yahoo", m)

	_, err := instrumented.FetchWeekScoreboard(context.Background(), "423.l.347398", 1)
	require.Error(t, err)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.True(t, strings.Contains(rec.Body.String(),
		`instrumented_test_provider_fetch_total{entity="scoreboard",outcome="error",source="yahoo"} 1`))
}
