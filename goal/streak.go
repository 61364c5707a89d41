/*
streak.go - Streak statistics from check-in dates

Only the set of distinct dates matters; values and notes are ignored.

RULES:
  longest: the longest run of consecutive calendar days
  current: alive when the last check-in is today or yesterday (one grace
           day, so a streak is not lost before today's check-in); then
           the run ending at the last check-in. Two or more days stale: 0.
  total:   number of distinct days

EXAMPLE:
  dates {10-01, 10-02, 10-03, 10-05}
  today 10-05 -> current 1, longest 3, total 4
  today 10-06 -> current 1 (grace day)
  today 10-07 -> current 0
*/
package goal

import "sort"

type StreakStats struct {
	Current   int
	Longest   int
	TotalDays int
}

// ComputeStreak derives streak statistics as of today.
func ComputeStreak(dates []Date, today Date) StreakStats {
	days := distinctSorted(dates)
	if len(days) == 0 {
		return StreakStats{}
	}

	stats := StreakStats{TotalDays: len(days)}

	run := 0
	for i, d := range days {
		if i > 0 && DaysBetween(days[i-1], d) == 1 {
			run++
		} else {
			run = 1
		}
		if run > stats.Longest {
			stats.Longest = run
		}
	}

	last := days[len(days)-1]
	switch DaysBetween(last, today) {
	case 0, 1:
		stats.Current = 1
		for i := len(days) - 1; i > 0; i-- {
			if DaysBetween(days[i-1], days[i]) != 1 {
				break
			}
			stats.Current++
		}
	}
	return stats
}

// StreakStats computes the goal's streak statistics as of today.
func (g Goal) StreakStats(today Date) StreakStats { return ComputeStreak(g.Dates(), today) }

func distinctSorted(dates []Date) []Date {
	seen := make(map[int64]bool, len(dates))
	out := make([]Date, 0, len(dates))
	for _, d := range dates {
		if seen[d.dayNumber()] {
			continue
		}
		seen[d.dayNumber()] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func distinctDays(dates []Date) int { return len(distinctSorted(dates)) }
