package forecast

import "github.com/alexanderramin/docflow/internal/domain"

// Request is the input of Forecast.
type Request struct {
	// History is oldest first with non-decreasing days.
	History      []domain.Snapshot
	HorizonDays  int
	LookbackDays *int
	// Projector defaults to the conserving projector.
	Projector Projector
	// DensifyHistory returns one history entry per calendar day instead of
	// the sparse input.
	DensifyHistory bool
}

type Result struct {
	History    []domain.Snapshot
	Projection []domain.Snapshot
}

// Series concatenates history and projection.
func (r Result) Series() []domain.Snapshot {
	series := make([]domain.Snapshot, 0, len(r.History)+len(r.Projection))
	series = append(series, r.History...)
	return append(series, r.Projection...)
}

// Forecast densifies the lookback window, projects it forward and pairs the
// projection with the history it was derived from.
func Forecast(req Request) Result {
	if len(req.History) == 0 {
		return Result{}
	}

	projector := req.Projector
	if projector == nil {
		projector = NewConservingProjector()
	}

	fullSpan := domain.DaysBetween(req.History[0].Day, req.History[len(req.History)-1].Day)
	lookback := fullSpan
	if req.LookbackDays != nil {
		lookback = *req.LookbackDays
	}

	window := Backproject(req.History, lookback)
	if len(window) < 2 {
		// The lookback window holds a single snapshot. Densify everything
		// and let the projector narrow it down or fall back to the last two
		// days.
		window = Backproject(req.History, fullSpan)
	}
	if len(window) < 2 {
		window = req.History
	}
	result := Result{
		History:    req.History,
		Projection: projector.Project(window, req.HorizonDays, req.LookbackDays),
	}
	if req.DensifyHistory {
		result.History = Backproject(req.History, fullSpan)
	}
	return result
}
