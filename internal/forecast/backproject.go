package forecast

import (
	"time"

	"github.com/alexanderramin/docflow/internal/domain"
)

// Backproject expands a sparse, oldest-first history into one snapshot per
// calendar day, from the first snapshot inside the lookback window up to the
// last snapshot's day.
//
// A snapshot holds the counts as they were immediately before the event that
// produced it, so a day takes the counts of the next snapshot dated after it
// rather than the previous one. The last day keeps the last snapshot.
func Backproject(history []domain.Snapshot, lookbackDays int) []domain.Snapshot {
	if len(history) == 0 {
		return nil
	}
	if len(history) == 1 {
		return history
	}

	last := history[len(history)-1]
	startDay := domain.AddDays(last.Day, -lookbackDays)

	relevant := since(history, startDay)
	if len(relevant) == 0 {
		return nil
	}

	if first := domain.DayOf(relevant[0].Day); first.After(startDay) {
		startDay = first
	}

	totalDays := domain.DaysBetween(startDay, last.Day)
	if totalDays < len(relevant) {
		return relevant
	}

	dense := make([]domain.Snapshot, 0, totalDays+1)
	pointer := 0
	for offset := 0; offset <= totalDays; offset++ {
		currentDay := domain.AddDays(startDay, offset)
		for pointer < len(relevant)-1 && !domain.DayOf(relevant[pointer].Day).After(currentDay) {
			pointer++
		}
		dense = append(dense, domain.Snapshot{
			Day:    currentDay,
			Counts: relevant[pointer].Counts.Clone(),
		})
	}
	return dense
}

// since returns the entries of an oldest-first history dated on or after day.
func since(history []domain.Snapshot, day time.Time) []domain.Snapshot {
	var out []domain.Snapshot
	for _, s := range history {
		if !domain.DayOf(s.Day).Before(day) {
			out = append(out, s)
		}
	}
	return out
}
