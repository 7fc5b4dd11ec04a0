package httpapi

import (
	"net/http"

	"github.com/riskibarqy/fantasy-league-history/internal/platform/metrics"
)

func handle(mux *http.ServeMux, m *metrics.Manager, pattern string, fn http.HandlerFunc) {
	mux.Handle(pattern, instrumentRoute(m, pattern, fn))
}

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, m *metrics.Manager) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}
}

func registerHistoryRoutes(mux *http.ServeMux, handler *Handler, m *metrics.Manager) {
	handle(mux, m, "GET /v1/leagues", handler.ListLeagues)
	handle(mux, m, "GET /v1/history", handler.GetHistory)
	handle(mux, m, "GET /v1/managers", handler.ListManagers)
	handle(mux, m, "GET /v1/managers/{manager}", handler.GetManager)
	handle(mux, m, "GET /v1/seasons/{season}/standings", handler.GetSeasonStandings)
	handle(mux, m, "GET /v1/stats/{stat}", handler.GetStatTable)
}

func registerHeadToHeadRoutes(mux *http.ServeMux, handler *Handler, m *metrics.Manager) {
	handle(mux, m, "GET /v1/head-to-head", handler.GetHeadToHead)
}
