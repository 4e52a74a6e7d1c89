package forecast

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/docflow/internal/domain"
)

// Projector turns an oldest-first history into sparsified daily projections
// for the horizonDays following the last snapshot. A nil lookbackDays fits
// the trend over the whole history.
type Projector interface {
	Project(history []domain.Snapshot, horizonDays int, lookbackDays *int) []domain.Snapshot
}

// Strategy names a Projector implementation.
type Strategy string

const (
	StrategyConserving Strategy = "conserving"
	StrategyNaive      Strategy = "naive"
)

// ParseStrategy maps a user supplied name to a Strategy. Empty selects the
// conserving projector.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case "", StrategyConserving:
		return StrategyConserving, nil
	case StrategyNaive:
		return StrategyNaive, nil
	default:
		return "", fmt.Errorf("unknown projection strategy %q (want %s or %s)", name, StrategyConserving, StrategyNaive)
	}
}

// NewProjector returns the Projector for s.
func NewProjector(s Strategy) (Projector, error) {
	switch s {
	case "", StrategyConserving:
		return NewConservingProjector(), nil
	case StrategyNaive:
		return NaiveProjector{}, nil
	default:
		return nil, fmt.Errorf("unknown projection strategy %q", s)
	}
}

// regressionWindow returns the snapshots used for trend fitting: those dated
// within lookbackDays of the last snapshot, or the last two snapshots when the
// window holds fewer than two.
func regressionWindow(history []domain.Snapshot, lookbackDays *int) []domain.Snapshot {
	if lookbackDays == nil {
		return history
	}
	last := history[len(history)-1]
	window := since(history, domain.AddDays(last.Day, -*lookbackDays))
	if len(window) >= 2 {
		return window
	}
	if len(history) < 2 {
		return history
	}
	return history[len(history)-2:]
}

// fitStates builds one model per state, regressing counts against the day
// offset from baseline.
func fitStates(window []domain.Snapshot, baseline time.Time, states []domain.DocumentState) map[domain.DocumentState]RegressionModel {
	models := make(map[domain.DocumentState]RegressionModel, len(states))
	for _, state := range states {
		points := make([]Point, 0, len(window))
		for _, s := range window {
			points = append(points, Point{
				X: float64(domain.DaysBetween(baseline, s.Day)),
				Y: float64(s.Counts.Get(state)),
			})
		}
		models[state] = Fit(points)
	}
	return models
}
