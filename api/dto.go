/*
dto.go - Data Transfer Objects for API requests and responses

NAMING CONVENTION:
  - *DTO:     Response types returned to clients
  - *Request: Request body types from clients

DERIVED FIELDS:
  GoalDTO carries progress, completion, direction and streak statistics.
  They are computed on every response from the goal's history and are
  never accepted as input.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/warp/goal-engine/goal"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateGoalRequest is the creation intent. Target is optional for streak goals.
type CreateGoalRequest struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Type     string   `json:"type"`
	Initial  float64  `json:"initial_value"`
	Target   *float64 `json:"target_value"`
	Unit     string   `json:"unit"`
}

// RecordEntryRequest records one entry. Date defaults to today; Value is
// ignored for streak goals.
type RecordEntryRequest struct {
	Value float64 `json:"value"`
	Date  string  `json:"date"`
	Note  string  `json:"note"`
}

type ReorderRequest struct {
	IDs []string `json:"ids"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

type HistoryEntryDTO struct {
	ID    string  `json:"id"`
	Date  string  `json:"date"`
	Value float64 `json:"value"`
	Note  string  `json:"note,omitempty"`
}

type StreakDTO struct {
	Current   int `json:"current"`
	Longest   int `json:"longest"`
	TotalDays int `json:"total_days"`
}

type GoalDTO struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Category       string            `json:"category"`
	Type           string            `json:"type"`
	CurrentValue   float64           `json:"current_value"`
	TargetValue    float64           `json:"target_value"`
	Unit           string            `json:"unit"`
	Progress       float64           `json:"progress"`
	Completed      bool              `json:"completed"`
	Direction      string            `json:"direction,omitempty"`
	Streak         *StreakDTO        `json:"streak,omitempty"`
	CheckedInToday bool              `json:"checked_in_today"`
	LastEntryDate  string            `json:"last_entry_date,omitempty"`
	History        []HistoryEntryDTO `json:"history"`
}

type DayCellDTO struct {
	Type   string `json:"type"`
	Day    int    `json:"day,omitempty"`
	Date   string `json:"date,omitempty"`
	Active bool   `json:"active"`
}

type CalendarDTO struct {
	GoalID string       `json:"goal_id"`
	Year   int          `json:"year"`
	Month  int          `json:"month"`
	Days   []DayCellDTO `json:"days"`
}

type SummaryDTO struct {
	TotalGoals     int     `json:"total_goals"`
	CompletedGoals int     `json:"completed_goals"`
	Progress       float64 `json:"progress"`
}

type AdviceDTO struct {
	GoalID   string `json:"goal_id"`
	Advice   string `json:"advice"`
	Fallback bool   `json:"fallback"`
}

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toGoalDTO(g goal.Goal, today goal.Date) GoalDTO {
	dto := GoalDTO{
		ID:             string(g.ID),
		Title:          g.Title,
		Category:       string(g.Category),
		Type:           string(g.Kind),
		CurrentValue:   toFloat(g.CurrentValue),
		TargetValue:    toFloat(g.TargetValue),
		Unit:           g.Unit,
		Progress:       toFloat(g.Percent().Round(2)),
		Completed:      g.Completed(),
		CheckedInToday: g.CheckedInOn(today),
		History:        make([]HistoryEntryDTO, len(g.History)),
	}

	switch g.Kind {
	case goal.KindNumeric:
		dto.Direction = string(g.Direction())
	case goal.KindStreak:
		s := g.StreakStats(today)
		dto.Streak = &StreakDTO{Current: s.Current, Longest: s.Longest, TotalDays: s.TotalDays}
	}

	if last, ok := g.Latest(); ok {
		dto.LastEntryDate = last.Date.String()
	}
	for i, e := range g.History {
		dto.History[i] = HistoryEntryDTO{
			ID:    string(e.ID),
			Date:  e.Date.String(),
			Value: toFloat(e.Value),
			Note:  e.Note,
		}
	}
	return dto
}

func toGoalDTOs(goals []goal.Goal, today goal.Date) []GoalDTO {
	dtos := make([]GoalDTO, len(goals))
	for i, g := range goals {
		dtos[i] = toGoalDTO(g, today)
	}
	return dtos
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
