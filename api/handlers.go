/*
handlers.go - HTTP API handlers for the goal tracker

ENDPOINTS:
  Goals:
    GET    /api/goals                          List goals with derived fields
    POST   /api/goals                          Create goal
    PUT    /api/goals/order                    Reorder goals
    GET    /api/goals/{id}                     Get one goal
    DELETE /api/goals/{id}                     Delete goal and its history

  History:
    POST   /api/goals/{id}/entries             Record entry
    DELETE /api/goals/{id}/entries/{entryID}   Delete entry
    POST   /api/goals/{id}/checkin             Check in today (streak)
    POST   /api/goals/{id}/checkin/toggle      Undo or make today's check-in

  Views:
    GET    /api/goals/{id}/calendar            Month activity grid (?year=&month=)
    GET    /api/goals/{id}/advice              Tips from the advice service
    GET    /api/summary                        Aggregate progress

ERROR HANDLING:
  - 400: Validation errors (goal.IsClientError)
  - 404: Goal not found
  - 500: Anything else

  Benign no-ops (second check-in, deleting a missing entry or goal) answer
  200 with the unchanged state.

SEE ALSO:
  - dto.go:       Request/response data structures
  - scenarios.go: Demo scenarios and imports
  - server.go:    Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/warp/goal-engine/advice"
	"github.com/warp/goal-engine/factory"
	"github.com/warp/goal-engine/goal"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Repo    *goal.Repository
	Advice  *advice.Service
	Factory *factory.GoalFactory

	scenario scenarioState
}

func NewHandler(repo *goal.Repository, adviceSvc *advice.Service) *Handler {
	f := factory.NewGoalFactory()
	f.Ledger = repo.Ledger
	f.Now = func() time.Time { return repo.Now() }
	return &Handler{Repo: repo, Advice: adviceSvc, Factory: f}
}

// =============================================================================
// GOAL HANDLERS
// =============================================================================

func (h *Handler) ListGoals(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toGoalDTOs(h.Repo.Goals(), h.Repo.Today()))
}

func (h *Handler) GetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := h.Repo.Get(goalID(r))
	if err != nil {
		writeDomainError(w, "Failed to get goal", err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalDTO(g, h.Repo.Today()))
}

func (h *Handler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	g, err := h.Repo.Create(r.Context(), goal.CreateInput{
		Title:    req.Title,
		Category: goal.Category(req.Category),
		Kind:     goal.Kind(req.Type),
		Initial:  req.Initial,
		Target:   req.Target,
		Unit:     req.Unit,
	})
	if err != nil {
		writeDomainError(w, "Failed to create goal", err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalDTO(g, h.Repo.Today()))
}

func (h *Handler) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	goals, err := h.Repo.DeleteGoal(r.Context(), goalID(r))
	if err != nil {
		writeDomainError(w, "Failed to delete goal", err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalDTOs(goals, h.Repo.Today()))
}

func (h *Handler) ReorderGoals(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	ids := make([]goal.GoalID, len(req.IDs))
	for i, id := range req.IDs {
		ids[i] = goal.GoalID(id)
	}

	goals, err := h.Repo.Reorder(r.Context(), ids)
	if err != nil {
		writeDomainError(w, "Failed to reorder goals", err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalDTOs(goals, h.Repo.Today()))
}

// =============================================================================
// HISTORY HANDLERS
// =============================================================================

func (h *Handler) RecordEntry(w http.ResponseWriter, r *http.Request) {
	var req RecordEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Date == "" {
		req.Date = h.Repo.Today().String()
	}

	goals, err := h.Repo.RecordEntry(r.Context(), goalID(r), req.Value, req.Date, req.Note)
	if err != nil {
		writeDomainError(w, "Failed to record entry", err)
		return
	}
	h.writeGoalFrom(w, goals, goalID(r))
}

func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := goalID(r)
	goals, err := h.Repo.DeleteEntry(r.Context(), id, goal.EntryID(chi.URLParam(r, "entryID")))
	if err != nil {
		writeDomainError(w, "Failed to delete entry", err)
		return
	}
	h.writeGoalFrom(w, goals, id)
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	goals, err := h.Repo.QuickCheckIn(r.Context(), goalID(r))
	if err != nil {
		writeDomainError(w, "Failed to check in", err)
		return
	}
	h.writeGoalFrom(w, goals, goalID(r))
}

func (h *Handler) ToggleCheckIn(w http.ResponseWriter, r *http.Request) {
	goals, err := h.Repo.ToggleToday(r.Context(), goalID(r))
	if err != nil {
		writeDomainError(w, "Failed to toggle check-in", err)
		return
	}
	h.writeGoalFrom(w, goals, goalID(r))
}

// =============================================================================
// VIEW HANDLERS
// =============================================================================

// GetCalendar returns the activity grid for ?year=&month=, defaulting to
// the current month.
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	g, err := h.Repo.Get(goalID(r))
	if err != nil {
		writeDomainError(w, "Failed to get goal", err)
		return
	}

	today := h.Repo.Today()
	year, month := today.Year(), int(today.Month())
	if v := r.URL.Query().Get("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil || year < 1 || year > 9999 {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "Invalid month (use 1-12)", err)
			return
		}
	}

	cells := g.ActivityMonth(year, time.Month(month))
	days := make([]DayCellDTO, len(cells))
	for i, c := range cells {
		days[i] = DayCellDTO{Type: string(c.Kind), Day: c.Day, Date: c.Date, Active: c.Active}
	}
	writeJSON(w, http.StatusOK, CalendarDTO{GoalID: string(g.ID), Year: year, Month: month, Days: days})
}

// GetAdvice always answers 200 once the goal exists; advice failures
// become a fallback text.
func (h *Handler) GetAdvice(w http.ResponseWriter, r *http.Request) {
	g, err := h.Repo.Get(goalID(r))
	if err != nil {
		writeDomainError(w, "Failed to get goal", err)
		return
	}

	res := h.Advice.Advice(r.Context(), advice.Request{
		GoalTitle: g.Title,
		Current:   g.CurrentValue,
		Target:    g.TargetValue,
		Unit:      g.Unit,
	})
	writeJSON(w, http.StatusOK, AdviceDTO{GoalID: string(g.ID), Advice: res.Text, Fallback: res.Fallback})
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	s := goal.Summarize(h.Repo.Goals())
	writeJSON(w, http.StatusOK, SummaryDTO{
		TotalGoals:     s.Total,
		CompletedGoals: s.Completed,
		Progress:       toFloat(s.Progress.Round(2)),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func goalID(r *http.Request) goal.GoalID {
	return goal.GoalID(chi.URLParam(r, "id"))
}

// writeGoalFrom answers with one goal out of an updated collection.
func (h *Handler) writeGoalFrom(w http.ResponseWriter, goals []goal.Goal, id goal.GoalID) {
	for _, g := range goals {
		if g.ID == id {
			writeJSON(w, http.StatusOK, toGoalDTO(g, h.Repo.Today()))
			return
		}
	}
	writeError(w, http.StatusNotFound, "Goal not found", nil)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case goal.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Goal not found", err)
	case goal.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
