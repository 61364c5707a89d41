/*
Package factory turns goal seed documents into goals.

PURPOSE:
  Seed documents describe a starting collection (demo scenarios, imports,
  a -seed file at startup) without code changes. Parsing uses YAML, which
  also accepts JSON documents.

SCHEMA:
  goals:
    - id: toefl              # optional, generated when empty
      title: TOEFL score
      category: education    # education | finance | health | social | other
      type: numeric          # numeric | streak
      target: 120            # required for numeric, ignored for streak
      unit: points
      history:
        - date: 2025-10-01   # YYYY-MM-DD
          value: 45
          note: Placement test
        - days_ago: 1        # relative to today, instead of date
          value: 50

VALIDATION:
  Every goal goes through the same rules as a creation intent, and history
  goes through the ledger, so streak duplicates collapse and the current
  value is derived. Explicit ids must be unique: goal ids across the
  document, entry ids within a goal.

USAGE:
  f := factory.NewGoalFactory()
  goals, err := f.Parse(data)
  repo.Replace(ctx, goals)
*/
package factory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/warp/goal-engine/goal"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// DOCUMENT TYPES
// =============================================================================

type Document struct {
	Goals []GoalDoc `yaml:"goals" json:"goals"`
}

type GoalDoc struct {
	ID       string     `yaml:"id" json:"id"`
	Title    string     `yaml:"title" json:"title"`
	Category string     `yaml:"category" json:"category"`
	Type     string     `yaml:"type" json:"type"`
	Target   *float64   `yaml:"target" json:"target"`
	Unit     string     `yaml:"unit" json:"unit"`
	History  []EntryDoc `yaml:"history" json:"history"`
}

type EntryDoc struct {
	ID      string  `yaml:"id" json:"id"`
	Date    string  `yaml:"date" json:"date"`
	DaysAgo *int    `yaml:"days_ago" json:"days_ago"`
	Value   float64 `yaml:"value" json:"value"`
	Note    string  `yaml:"note" json:"note"`
}

// =============================================================================
// GOAL FACTORY
// =============================================================================

type GoalFactory struct {
	Ledger goal.HistoryLedger

	// Now anchors days_ago entries.
	Now func() time.Time
}

func NewGoalFactory() *GoalFactory {
	return &GoalFactory{Ledger: goal.NewHistoryLedger(), Now: time.Now}
}

// Parse decodes a YAML or JSON document into goals.
func (f *GoalFactory) Parse(data []byte) ([]goal.Goal, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse goal document: %w", err)
	}
	return f.FromDocument(doc)
}

func (f *GoalFactory) FromDocument(doc Document) ([]goal.Goal, error) {
	goals := make([]goal.Goal, 0, len(doc.Goals))
	seen := make(map[goal.GoalID]bool, len(doc.Goals))
	for i, gd := range doc.Goals {
		g, err := f.Build(gd)
		if err != nil {
			return nil, fmt.Errorf("goal %d (%q): %w", i+1, gd.Title, err)
		}
		if seen[g.ID] {
			err = &goal.ValidationError{Field: "goal id", Value: g.ID, Err: goal.ErrDuplicateID}
			return nil, fmt.Errorf("goal %d (%q): %w", i+1, gd.Title, err)
		}
		seen[g.ID] = true
		goals = append(goals, g)
	}
	return goals, nil
}

// Build validates one goal and replays its history through the ledger.
func (f *GoalFactory) Build(gd GoalDoc) (goal.Goal, error) {
	id := gd.ID
	if id == "" {
		id = uuid.NewString()
	}

	g, err := goal.NewGoal(goal.GoalID(id), goal.CreateInput{
		Title:    gd.Title,
		Category: goal.Category(gd.Category),
		Kind:     goal.Kind(gd.Type),
		Target:   gd.Target,
		Unit:     gd.Unit,
	})
	if err != nil {
		return goal.Goal{}, err
	}

	today := goal.DateOf(f.Now())
	seen := make(map[string]bool, len(gd.History))
	for _, ed := range gd.History {
		if ed.ID != "" {
			if seen[ed.ID] {
				return goal.Goal{}, &goal.ValidationError{Field: "entry id", Value: ed.ID, Err: goal.ErrDuplicateID}
			}
			seen[ed.ID] = true
		}
		d, err := entryDate(ed, today)
		if err != nil {
			return goal.Goal{}, err
		}
		v, err := goal.DecimalFromFloat(ed.Value)
		if err != nil {
			return goal.Goal{}, err
		}
		if g.Kind == goal.KindStreak {
			v, _ = goal.DecimalFromFloat(goal.StreakDoneValue)
		}
		g = f.Ledger.Insert(g, goal.HistoryEntry{ID: goal.EntryID(ed.ID), Date: d, Value: v, Note: ed.Note})
	}
	return g, nil
}

func entryDate(ed EntryDoc, today goal.Date) (goal.Date, error) {
	if ed.DaysAgo != nil {
		return today.AddDays(-*ed.DaysAgo), nil
	}
	return goal.ParseDate(ed.Date)
}
