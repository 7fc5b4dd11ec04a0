package httpapi

import (
	"github.com/riskibarqy/fantasy-league-history/internal/domain/leaguestats"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/matchup"
	"github.com/riskibarqy/fantasy-league-history/internal/domain/standing"
	"github.com/riskibarqy/fantasy-league-history/internal/usecase"
)

const (
	statChampionships   = "championships"
	statAverageStanding = "average-standing"
	statTop3            = "top3"
	statWinPercentage   = "win-percentage"
	statWinLoss         = "win-loss"
)

func isKnownStat(stat string) bool {
	switch stat {
	case statChampionships, statAverageStanding, statTop3, statWinPercentage, statWinLoss:
		return true
	default:
		return false
	}
}

type scopeRequest struct {
	LeagueKeys []string `validate:"omitempty,max=32,dive,min=3,max=64"`
}

// Blank or identical manager names are rejected by the service as a
// configuration error, so only lengths are checked here.
type headToHeadRequest struct {
	ManagerA   string   `validate:"max=100"`
	ManagerB   string   `validate:"max=100"`
	LeagueKeys []string `validate:"omitempty,max=32,dive,min=3,max=64"`
}

type listDTO[T any] struct {
	Items []T `json:"items"`
}

type leagueDTO struct {
	LeagueKey string `json:"league_key"`
	Season    int    `json:"season"`
}

type standingDTO struct {
	Season        int    `json:"season"`
	LeagueKey     string `json:"league_key"`
	Manager       string `json:"manager"`
	Team          string `json:"team"`
	FinalStanding int    `json:"final_standing"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	Ties          int    `json:"ties"`
}

type historyDTO struct {
	Leagues  []usecase.LeagueSummary `json:"leagues"`
	Records  []standingDTO           `json:"records"`
	Warnings []usecase.Warning       `json:"warnings"`
}

type managersDTO struct {
	Managers []string          `json:"managers"`
	Seasons  []int             `json:"seasons"`
	Warnings []usecase.Warning `json:"warnings"`
}

type totalsDTO struct {
	Manager string `json:"manager"`
	Wins    int    `json:"wins"`
	Losses  int    `json:"losses"`
	Ties    int    `json:"ties"`
	Games   int    `json:"games"`
}

type seasonResultDTO struct {
	Season        int    `json:"season"`
	Team          string `json:"team"`
	FinalStanding int    `json:"final_standing"`
}

type summaryDTO struct {
	Manager         string            `json:"manager"`
	Seasons         int               `json:"seasons"`
	Championships   int               `json:"championships"`
	Top3Finishes    int               `json:"top3_finishes"`
	AverageStanding *float64          `json:"average_standing"`
	WinPercentage   *float64          `json:"win_percentage"`
	Totals          totalsDTO         `json:"totals"`
	Performance     []seasonResultDTO `json:"performance"`
}

type managerSummaryDTO struct {
	Summary  summaryDTO        `json:"summary"`
	Warnings []usecase.Warning `json:"warnings"`
}

type seasonRowDTO struct {
	standingDTO
	Medal string `json:"medal,omitempty"`
}

type seasonTableDTO struct {
	Season   int               `json:"season"`
	Items    []seasonRowDTO    `json:"items"`
	Warnings []usecase.Warning `json:"warnings"`
}

type countRowDTO struct {
	Manager string `json:"manager"`
	Count   int    `json:"count"`
}

type valueRowDTO struct {
	Manager string  `json:"manager"`
	Value   float64 `json:"value"`
}

type statTableDTO struct {
	Stat     string            `json:"stat"`
	Items    any               `json:"items"`
	Warnings []usecase.Warning `json:"warnings"`
}

type matchupDTO struct {
	Season   int     `json:"season"`
	Week     int     `json:"week"`
	ManagerA string  `json:"manager_a"`
	ManagerB string  `json:"manager_b"`
	PointsA  float64 `json:"points_a"`
	PointsB  float64 `json:"points_b"`
	Winner   string  `json:"winner"`
}

type headToHeadDTO struct {
	Record   usecase.HeadToHeadRecord `json:"record"`
	History  []matchupDTO             `json:"history"`
	Warnings []usecase.Warning        `json:"warnings"`
}

func standingToDTO(item standing.TeamStanding) standingDTO {
	return standingDTO{
		Season:        item.Season,
		LeagueKey:     item.LeagueKey,
		Manager:       item.Manager,
		Team:          item.Team,
		FinalStanding: item.FinalStanding,
		Wins:          item.Wins,
		Losses:        item.Losses,
		Ties:          item.Ties,
	}
}

func standingsToDTO(items []standing.TeamStanding) []standingDTO {
	out := make([]standingDTO, 0, len(items))
	for _, item := range items {
		out = append(out, standingToDTO(item))
	}
	return out
}

func totalsToDTO(items []leaguestats.Totals) []totalsDTO {
	out := make([]totalsDTO, 0, len(items))
	for _, item := range items {
		out = append(out, totalsDTO(item))
	}
	return out
}

func summaryToDTO(s leaguestats.Summary) summaryDTO {
	out := summaryDTO{
		Manager:       s.Manager,
		Seasons:       s.Seasons,
		Championships: s.Championships,
		Top3Finishes:  s.Top3Finishes,
		Totals:        totalsDTO(s.Totals),
		Performance:   make([]seasonResultDTO, 0, len(s.Performance)),
	}
	if s.HasAverageStanding {
		value := s.AverageStanding
		out.AverageStanding = &value
	}
	if s.HasWinPercentage {
		value := s.WinPercentage
		out.WinPercentage = &value
	}
	for _, item := range s.Performance {
		out.Performance = append(out.Performance, seasonResultDTO(item))
	}
	return out
}

func countRowsToDTO(rows []leaguestats.CountRow) []countRowDTO {
	out := make([]countRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, countRowDTO(row))
	}
	return out
}

func valueRowsToDTO(rows []leaguestats.ValueRow) []valueRowDTO {
	out := make([]valueRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, valueRowDTO(row))
	}
	return out
}

func matchupsToDTO(items []matchup.Matchup) []matchupDTO {
	out := make([]matchupDTO, 0, len(items))
	for _, item := range items {
		out = append(out, matchupDTO(item))
	}
	return out
}
