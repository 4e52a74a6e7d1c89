package forecast

import (
	"math"
	"sort"

	"github.com/alexanderramin/docflow/internal/domain"
)

// ConservingProjector forecasts each non-remainder state from its fitted
// slope, anchored at the last known count, and derives the remainder state so
// that every projected day sums to the last known document total.
type ConservingProjector struct {
	// Expendability lists states from most to least expendable. Rounding runs
	// over it in reverse; overflow is taken from its front.
	Expendability []domain.DocumentState
	// Remainder absorbs rounding slack and is never regressed.
	Remainder domain.DocumentState
}

// NewConservingProjector uses domain.ExpendabilityOrder and
// domain.RemainderState.
func NewConservingProjector() ConservingProjector {
	return ConservingProjector{
		Expendability: domain.ExpendabilityOrder,
		Remainder:     domain.RemainderState,
	}
}

func (p ConservingProjector) Project(history []domain.Snapshot, horizonDays int, lookbackDays *int) []domain.Snapshot {
	if len(history) < 2 {
		return nil
	}

	last := history[len(history)-1]
	window := regressionWindow(history, lookbackDays)

	var modeled []domain.DocumentState
	for _, state := range last.Counts.SortedStates() {
		if state != p.Remainder {
			modeled = append(modeled, state)
		}
	}

	models := fitStates(window, window[0].Day, modeled)
	slopes := make(map[domain.DocumentState]float64, len(models))
	for state, m := range models {
		slopes[state] = m.Slope
	}

	return Sparsify(p.projectDays(last, slopes, horizonDays))
}

// projectDays produces the raw, unsparsified projection for days
// 1..horizonDays after last.
func (p ConservingProjector) projectDays(last domain.Snapshot, slopes map[domain.DocumentState]float64, horizonDays int) []domain.Snapshot {
	if horizonDays <= 0 {
		return nil
	}

	fixedTotal := last.Counts.Total()
	order := p.roundingOrder(last.Counts)

	days := make([]domain.Snapshot, 0, horizonDays)
	for i := 1; i <= horizonDays; i++ {
		counts := make(domain.StateCounts, len(order)+1)
		runningSum := 0
		for _, state := range order {
			predicted := float64(last.Counts.Get(state)) + slopes[state]*float64(i)
			n := int(math.Round(math.Max(0, predicted)))
			counts[state] = n
			runningSum += n
		}

		remainder := fixedTotal - runningSum
		if remainder >= 0 {
			counts[p.Remainder] = remainder
		} else {
			counts[p.Remainder] = 0
			p.resolveOverflow(counts, -remainder)
		}

		days = append(days, domain.Snapshot{
			Day:    domain.AddDays(last.Day, i),
			Counts: counts,
		})
	}
	return days
}

// roundingOrder is least expendable first, skipping the remainder, followed
// by any custom states present in counts in lexicographic order.
func (p ConservingProjector) roundingOrder(counts domain.StateCounts) []domain.DocumentState {
	known := make(map[domain.DocumentState]bool, len(p.Expendability))
	for _, state := range p.Expendability {
		known[state] = true
	}
	order := domain.PriorityOrderOf(p.Expendability, p.Remainder)
	return append(order, customStates(counts, known, p.Remainder)...)
}

// resolveOverflow removes excess documents from counts, draining the most
// expendable states first. States outside Expendability are drained last, in
// lexicographic order.
func (p ConservingProjector) resolveOverflow(counts domain.StateCounts, excess int) {
	known := make(map[domain.DocumentState]bool, len(p.Expendability))
	for _, state := range p.Expendability {
		known[state] = true
		if excess == 0 {
			return
		}
		excess -= drain(counts, state, excess)
	}
	for _, state := range customStates(counts, known, p.Remainder) {
		if excess == 0 {
			return
		}
		excess -= drain(counts, state, excess)
	}
}

// drain subtracts up to limit from counts[state] and returns the amount taken.
func drain(counts domain.StateCounts, state domain.DocumentState, limit int) int {
	current, ok := counts[state]
	if !ok || current <= 0 {
		return 0
	}
	taken := min(current, limit)
	counts[state] = current - taken
	return taken
}

func customStates(counts domain.StateCounts, known map[domain.DocumentState]bool, remainder domain.DocumentState) []domain.DocumentState {
	var custom []domain.DocumentState
	for state := range counts {
		if !known[state] && state != remainder {
			custom = append(custom, state)
		}
	}
	sort.Slice(custom, func(i, j int) bool { return custom[i] < custom[j] })
	return custom
}
