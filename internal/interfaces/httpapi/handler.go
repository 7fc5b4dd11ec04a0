package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/leaguestats"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/logging"
	"github.com/riskibarqy/fantasy-league-history/internal/platform/metrics"
	"github.com/riskibarqy/fantasy-league-history/internal/usecase"
)

type Handler struct {
	historyService    *usecase.HistoryService
	headToHeadService *usecase.HeadToHeadService
	logger            *logging.Logger
	metrics           *metrics.Manager
	validator         *validator.Validate
}

func NewHandler(
	historyService *usecase.HistoryService,
	headToHeadService *usecase.HeadToHeadService,
	logger *logging.Logger,
	m *metrics.Manager,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		historyService:    historyService,
		headToHeadService: headToHeadService,
		logger:            logger,
		metrics:           m,
		validator:         validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListLeagues(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagues")
	defer span.End()

	leagues, err := h.historyService.DefaultLeagues()
	if err != nil {
		h.logger.ErrorContext(ctx, "list leagues failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leagueDTO, 0, len(leagues))
	for _, item := range leagues {
		items = append(items, leagueDTO{LeagueKey: item.Key, Season: item.Season})
	}
	writeSuccess(ctx, w, http.StatusOK, listDTO[leagueDTO]{Items: items})
}

func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHistory")
	defer span.End()

	scope, err := h.decodeScope(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.historyService.Load(ctx, scope.LeagueKeys)
	if err != nil {
		h.logger.WarnContext(ctx, "load history failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordWarnings("history", result.Warnings)

	writeSuccess(ctx, w, http.StatusOK, historyDTO{
		Leagues:  nonNil(result.Leagues),
		Records:  standingsToDTO(result.Dataset.Records()),
		Warnings: nonNil(result.Warnings),
	})
}

func (h *Handler) ListManagers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListManagers")
	defer span.End()

	scope, err := h.decodeScope(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.historyService.Load(ctx, scope.LeagueKeys)
	if err != nil {
		h.logger.WarnContext(ctx, "list managers failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordWarnings("managers", result.Warnings)

	writeSuccess(ctx, w, http.StatusOK, managersDTO{
		Managers: nonNil(result.Dataset.Managers()),
		Seasons:  nonNil(result.Dataset.Seasons()),
		Warnings: nonNil(result.Warnings),
	})
}

func (h *Handler) GetManager(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetManager")
	defer span.End()

	scope, err := h.decodeScope(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	name := strings.TrimSpace(r.PathValue("manager"))

	summary, warnings, err := h.historyService.ManagerSummary(ctx, name, scope.LeagueKeys)
	h.recordWarnings("manager_summary", warnings)
	if err != nil {
		h.logger.WarnContext(ctx, "manager summary failed", "manager", name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, managerSummaryDTO{
		Summary:  summaryToDTO(summary),
		Warnings: nonNil(warnings),
	})
}

func (h *Handler) GetSeasonStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonStandings")
	defer span.End()

	scope, err := h.decodeScope(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	year, err := strconv.Atoi(strings.TrimSpace(r.PathValue("season")))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: season must be a year", usecase.ErrInvalidInput))
		return
	}

	rows, warnings, err := h.historyService.SeasonTable(ctx, year, scope.LeagueKeys)
	h.recordWarnings("season_table", warnings)
	if err != nil {
		h.logger.WarnContext(ctx, "season table failed", "season", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]seasonRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, seasonRowDTO{
			standingDTO: standingToDTO(row.TeamStanding),
			Medal:       string(row.Medal),
		})
	}
	writeSuccess(ctx, w, http.StatusOK, seasonTableDTO{
		Season:   year,
		Items:    items,
		Warnings: nonNil(warnings),
	})
}

// GetStatTable serves the league-wide ranking tables.
func (h *Handler) GetStatTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStatTable")
	defer span.End()

	stat := strings.TrimSpace(r.PathValue("stat"))
	if !isKnownStat(stat) {
		writeError(ctx, w, fmt.Errorf("%w: unknown stat %q", usecase.ErrNotFound, stat))
		return
	}
	scope, err := h.decodeScope(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.historyService.Load(ctx, scope.LeagueKeys)
	if err != nil {
		h.logger.WarnContext(ctx, "stat table failed", "stat", stat, "error", err)
		writeError(ctx, w, err)
		return
	}
	h.recordWarnings("stats", result.Warnings)

	ds := result.Dataset
	var items any
	switch stat {
	case statChampionships:
		items = countRowsToDTO(leaguestats.ChampionshipTable(ds))
	case statTop3:
		items = countRowsToDTO(leaguestats.Top3Table(ds))
	case statAverageStanding:
		items = valueRowsToDTO(leaguestats.AverageStandingTable(ds))
	case statWinPercentage:
		items = valueRowsToDTO(leaguestats.WinPercentageTable(ds))
	case statWinLoss:
		items = totalsToDTO(leaguestats.WinLossDistribution(ds))
	}

	writeSuccess(ctx, w, http.StatusOK, statTableDTO{
		Stat:     stat,
		Items:    items,
		Warnings: nonNil(result.Warnings),
	})
}

func (h *Handler) GetHeadToHead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHeadToHead")
	defer span.End()

	query := r.URL.Query()
	req := headToHeadRequest{
		ManagerA:   strings.TrimSpace(query.Get("manager_a")),
		ManagerB:   strings.TrimSpace(query.Get("manager_b")),
		LeagueKeys: parseCSV(query.Get("league_keys")),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.headToHeadService.Compare(ctx, req.ManagerA, req.ManagerB, req.LeagueKeys)
	if err != nil {
		h.logger.WarnContext(ctx, "head to head failed",
			"manager_a", req.ManagerA,
			"manager_b", req.ManagerB,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}
	h.recordWarnings("head_to_head", result.Warnings)

	writeSuccess(ctx, w, http.StatusOK, headToHeadDTO{
		Record:   result.Record,
		History:  matchupsToDTO(result.History),
		Warnings: nonNil(result.Warnings),
	})
}

func (h *Handler) decodeScope(ctx context.Context, r *http.Request) (scopeRequest, error) {
	req := scopeRequest{LeagueKeys: parseCSV(r.URL.Query().Get("league_keys"))}
	if err := h.validateRequest(ctx, req); err != nil {
		return scopeRequest{}, err
	}
	return req, nil
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func (h *Handler) recordWarnings(operation string, warnings []usecase.Warning) {
	if h.metrics == nil || len(warnings) == 0 {
		return
	}
	byKind := make(map[usecase.WarningKind]int, 2)
	for _, w := range warnings {
		byKind[w.Kind]++
	}
	for kind, count := range byKind {
		h.metrics.AddWarnings(operation, string(kind), count)
	}
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
