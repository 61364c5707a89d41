/*
scenarios.go - Demo scenarios and goal imports

PURPOSE:

	Provides pre-built goal collections for demos and manual testing, plus
	an import endpoint that accepts the same seed document format.

AVAILABLE SCENARIOS:

	demo:         Four numeric goals in different directions plus a
	              reading streak with a gap
	fresh-start:  One numeric goal and one streak goal with no check-ins

HOW SCENARIOS WORK:
 1. Parse the scenario's seed document through the goal factory
 2. Replace the whole collection in the repository (one save)

	Dates in scenarios are relative (days_ago), so streaks stay current
	whenever the scenario is loaded.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "demo"}

	POST /api/import
	<YAML or JSON seed document>

NOTE:

	Loading a scenario replaces every goal. Only use in development/demo
	environments.

SEE ALSO:
  - factory/goal.go: Seed document format
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// maxImportBytes caps the size of an import body.
const maxImportBytes = 1 << 20

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ScenarioDTO
	Document string
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "demo",
			Name:        "Demo",
			Description: "Savings, exam, weight and audience goals plus a reading streak",
		},
		Document: demoDocument,
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "fresh-start",
			Name:        "Fresh Start",
			Description: "One new numeric goal and one streak with no check-ins yet",
		},
		Document: freshStartDocument,
	},
}

const demoDocument = `
goals:
  - title: TOEFL score
    category: education
    type: numeric
    target: 120
    unit: points
    history:
      - {days_ago: 60, value: 45, note: Start}
      - {days_ago: 30, value: 68, note: Practice test}
      - {days_ago: 7, value: 81, note: Mock exam}
  - title: Car savings
    category: finance
    type: numeric
    target: 500000
    unit: TL
    history:
      - {days_ago: 90, value: 150000, note: Start}
      - {days_ago: 45, value: 210000}
      - {days_ago: 3, value: 265000, note: Bonus month}
  - title: Weight
    category: health
    type: numeric
    target: 70
    unit: kg
    history:
      - {days_ago: 40, value: 82, note: Start}
      - {days_ago: 20, value: 79}
      - {days_ago: 2, value: 76.5}
  - title: Instagram followers
    category: social
    type: numeric
    target: 20000
    unit: followers
    history:
      - {days_ago: 30, value: 2400, note: Start}
      - {days_ago: 10, value: 4100}
  - title: Read every day
    category: education
    type: streak
    history:
      - {days_ago: 12, note: Daily check-in}
      - {days_ago: 11, note: Daily check-in}
      - {days_ago: 10, note: Daily check-in}
      - {days_ago: 9, note: Daily check-in}
      - {days_ago: 6, note: Daily check-in}
      - {days_ago: 5, note: Daily check-in}
      - {days_ago: 4, note: Daily check-in}
      - {days_ago: 3, note: Daily check-in}
      - {days_ago: 2, note: Daily check-in}
      - {days_ago: 1, note: Daily check-in}
`

const freshStartDocument = `
goals:
  - title: Run a half marathon
    category: health
    type: numeric
    target: 21
    unit: km
    history:
      - {days_ago: 0, value: 5, note: Start}
  - title: Meditate
    category: other
    type: streak
`

// =============================================================================
// SCENARIO STATE
// =============================================================================

type scenarioState struct {
	mu      sync.Mutex
	current string
}

func (s *scenarioState) get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *scenarioState) set(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = id
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	list := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		list[i] = s.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, list)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	s, ok := findScenario(h.scenario.get())
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, s.ScenarioDTO)
}

// LoadScenario replaces the collection with a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if _, ok := findScenario(req.ScenarioID); !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}
	if err := h.ApplyScenario(r.Context(), req.ScenarioID); err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// ApplyScenario loads a scenario by id. Also used at startup.
func (h *Handler) ApplyScenario(ctx context.Context, id string) error {
	s, ok := findScenario(id)
	if !ok {
		return fmt.Errorf("unknown scenario %q", id)
	}
	goals, err := h.Factory.Parse([]byte(s.Document))
	if err != nil {
		return err
	}
	if _, err := h.Repo.Replace(ctx, goals); err != nil {
		return err
	}
	h.scenario.set(id)
	return nil
}

// ResetDatabase removes every goal.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Repo.Replace(r.Context(), nil); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset goals", err)
		return
	}
	h.scenario.set("")
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// ImportGoals replaces the collection with a seed document from the body.
func (h *Handler) ImportGoals(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	goals, err := h.Factory.Parse(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid goal document", err)
		return
	}
	result, err := h.Repo.Replace(r.Context(), goals)
	if err != nil {
		writeDomainError(w, "Failed to import goals", err)
		return
	}
	h.scenario.set("")
	writeJSON(w, http.StatusOK, toGoalDTOs(result, h.Repo.Today()))
}
