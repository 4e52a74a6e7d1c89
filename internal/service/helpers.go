package service

import (
	"fmt"
	"slices"
	"time"

	"github.com/alexanderramin/docflow/internal/domain"
)

// replayHistory derives a sparse history by undoing events from the current
// counts. The result is oldest first and ends with a snapshot for today
// holding current. An event day contributes the counts as they were before
// its first event. Events after today are ignored.
func replayHistory(current domain.StateCounts, events []domain.StateEvent, now time.Time) ([]domain.Snapshot, []string) {
	today := domain.DayOf(now)
	counts := current.Clone()
	var warnings []string

	history := []domain.Snapshot{domain.NewSnapshot(today, counts.Clone())}
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		day := domain.DayOf(e.At)
		if day.After(today) {
			continue
		}
		if counts[e.To] > 0 {
			counts[e.To]--
		} else {
			warnings = append(warnings, fmt.Sprintf(
				"event %s moves document %s into %s but no document is in that state; count clamped at 0",
				e.ID, e.DocumentID, e.To))
		}
		if e.From != nil {
			counts[*e.From]++
		}
		history = append(history, domain.NewSnapshot(day, counts.Clone()))
	}

	slices.Reverse(history)
	return collapseDays(history), warnings
}

// collapseDays keeps the earliest snapshot of each day, which holds the
// counts before that day's first event, plus the final snapshot for today.
func collapseDays(history []domain.Snapshot) []domain.Snapshot {
	out := make([]domain.Snapshot, 0, len(history))
	for i, snap := range history {
		isLast := i == len(history)-1
		if len(out) > 0 && out[len(out)-1].Day.Equal(snap.Day) && !isLast {
			continue
		}
		out = append(out, snap)
	}
	return out
}
