package goal

import "time"

type CellKind string

const (
	CellEmpty CellKind = "empty"
	CellDay   CellKind = "day"
)

// DayCell is one slot of a month grid. Empty cells only pad the first week.
type DayCell struct {
	Kind   CellKind
	Day    int
	Date   string
	Active bool
}

// BuildMonth lays out one month with Monday-first weeks: leading empty
// cells align day 1 under its weekday, followed by one cell per day marked
// active when the day appears in dates. Month overflow is normalised, so
// month 13 of 2025 is January 2026.
func BuildMonth(dates []Date, year int, month time.Month) []DayCell {
	first := StartOfMonth(year, month)
	year, month = first.Year(), first.Month()

	active := make(map[int64]bool, len(dates))
	for _, d := range dates {
		active[d.dayNumber()] = true
	}

	padding := (int(first.Weekday()) + 6) % 7
	n := DaysIn(year, month)

	cells := make([]DayCell, 0, padding+n)
	for i := 0; i < padding; i++ {
		cells = append(cells, DayCell{Kind: CellEmpty})
	}
	for day := 1; day <= n; day++ {
		d := NewDate(year, month, day)
		cells = append(cells, DayCell{
			Kind:   CellDay,
			Day:    day,
			Date:   d.String(),
			Active: active[d.dayNumber()],
		})
	}
	return cells
}

// ActivityMonth builds the month grid for the goal's history.
func (g Goal) ActivityMonth(year int, month time.Month) []DayCell {
	return BuildMonth(g.Dates(), year, month)
}
