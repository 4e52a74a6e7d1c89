package forecast

import (
	"math"

	"github.com/alexanderramin/docflow/internal/domain"
)

// NaiveProjector evaluates every state's regression line independently.
// Totals may drift away from the last known document count.
type NaiveProjector struct{}

func (NaiveProjector) Project(history []domain.Snapshot, horizonDays int, lookbackDays *int) []domain.Snapshot {
	if len(history) < 2 || horizonDays <= 0 {
		return nil
	}

	last := history[len(history)-1]
	window := regressionWindow(history, lookbackDays)
	baseline := window[0].Day
	states := last.Counts.SortedStates()
	models := fitStates(window, baseline, states)

	raw := make([]domain.Snapshot, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		day := domain.AddDays(last.Day, i)
		x := float64(domain.DaysBetween(baseline, day))
		counts := make(domain.StateCounts, len(states))
		for _, state := range states {
			counts[state] = max(0, int(math.Round(models[state].Predict(x))))
		}
		raw = append(raw, domain.Snapshot{Day: day, Counts: counts})
	}
	return Sparsify(raw)
}
