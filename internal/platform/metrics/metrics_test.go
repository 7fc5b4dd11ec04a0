package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_RecordsFetchesAndWarnings(t *testing.T) {
	t.Parallel()

	m := NewManager(WithNamespace("test"))
	m.ObserveFetch("yahoo", "scoreboard", nil, 20*time.Millisecond)
	m.ObserveFetch("yahoo", "scoreboard", errors.New("boom"), time.Millisecond)
	m.AddWarnings("head_to_head", "retrieval", 2)
	m.ObserveCache("league", true)
	m.SetCircuitState("yahoo", "open")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, line := range []string{
		`test_provider_fetch_total{entity="scoreboard",outcome="error",source="yahoo"} 1`,
		`test_provider_fetch_total{entity="scoreboard",outcome="success",source="yahoo"} 1`,
		`test_core_warnings_total{kind="retrieval",operation="head_to_head"} 2`,
		`test_cache_requests_total{entity="league",result="hit"} 1`,
		`test_provider_circuit_breaker_state{name="yahoo"} 2`,
	} {
		assert.True(t, strings.Contains(body, line), "missing %s", line)
	}
}

func TestManager_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Manager
	m.ObserveFetch("yahoo", "league", nil, time.Second)
	m.AddWarnings("history", "extraction", 1)
	m.ObserveHTTP("GET", "/healthz", 200, time.Millisecond)
	assert.Nil(t, m.Registry())
}
