package forecast

import (
	"testing"

	"github.com/alexanderramin/docflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNaive_EvaluatesEveryStateFromBaseline(t *testing.T) {
	history := []domain.Snapshot{
		snap(0, domain.StateCounts{domain.StateNew: 10, domain.StateAnnotationInProgress: 0}),
		snap(2, domain.StateCounts{domain.StateNew: 6, domain.StateAnnotationInProgress: 4}),
	}

	out := NaiveProjector{}.Project(history, 4, nil)

	require.Len(t, out, 4)
	assert.Equal(t, day(3), out[0].Day)
	assert.Equal(t, 4, out[0].Counts[domain.StateNew])
	assert.Equal(t, 6, out[0].Counts[domain.StateAnnotationInProgress])

	// NEW is clamped at zero while ANNOTATION_IN_PROGRESS keeps climbing, so the
	// total drifts above the ten documents that exist.
	lastDay := out[3]
	assert.Equal(t, day(6), lastDay.Day)
	assert.Equal(t, 0, lastDay.Counts[domain.StateNew])
	assert.Equal(t, 12, lastDay.Counts[domain.StateAnnotationInProgress])
	assert.Equal(t, 12, lastDay.Counts.Total())
}

func TestNaive_TotalDriftsWhereConservingHoldsIt(t *testing.T) {
	history := []domain.Snapshot{
		snap(0, domain.StateCounts{domain.StateNew: 9, domain.StateAnnotationInProgress: 1, domain.StateCurationFinished: 0}),
		snap(1, domain.StateCounts{domain.StateNew: 6, domain.StateAnnotationInProgress: 3, domain.StateCurationFinished: 1}),
	}
	lastTotal := history[len(history)-1].Counts.Total()

	naive := NaiveProjector{}.Project(history, 5, nil)
	require.Len(t, naive, 5)
	drifted := false
	for _, s := range naive {
		if s.Counts.Total() != lastTotal {
			drifted = true
		}
	}
	assert.True(t, drifted, "independent per-state fits do not share a total")
	assert.Equal(t, 0, naive[4].Counts[domain.StateNew])
	assert.Greater(t, naive[4].Counts.Total(), lastTotal)

	conserving := NewConservingProjector().Project(history, 5, nil)
	require.NotEmpty(t, conserving)
	for _, s := range conserving {
		assert.Equal(t, lastTotal, s.Counts.Total(), s.Day)
	}
}

func TestNaive_UsesInterceptNotLastValue(t *testing.T) {
	// The fitted line through (0,0), (1,6), (2,0) is flat at 2, not at the last
	// value 0.
	history := []domain.Snapshot{
		snap(0, domain.StateCounts{domain.StateNew: 6, domain.StateCurationFinished: 0}),
		snap(1, domain.StateCounts{domain.StateNew: 0, domain.StateCurationFinished: 6}),
		snap(2, domain.StateCounts{domain.StateNew: 6, domain.StateCurationFinished: 0}),
	}

	out := NaiveProjector{}.Project(history, 3, nil)

	require.Len(t, out, 2)
	assert.Equal(t, 2, out[0].Counts[domain.StateCurationFinished])
	assert.Equal(t, 4, out[0].Counts[domain.StateNew])
}

func TestNaive_DegenerateInputs(t *testing.T) {
	assert.Empty(t, NaiveProjector{}.Project(nil, 5, nil))
	history := []domain.Snapshot{
		snap(0, domain.StateCounts{domain.StateNew: 2}),
		snap(1, domain.StateCounts{domain.StateNew: 1}),
	}
	assert.Empty(t, NaiveProjector{}.Project(history, 0, nil))
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyConserving, s)

	s, err = ParseStrategy(" Naive ")
	require.NoError(t, err)
	assert.Equal(t, StrategyNaive, s)

	_, err = ParseStrategy("dithered")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown projection strategy")
}

func TestNewProjector(t *testing.T) {
	p, err := NewProjector(StrategyConserving)
	require.NoError(t, err)
	assert.IsType(t, ConservingProjector{}, p)

	p, err = NewProjector(StrategyNaive)
	require.NoError(t, err)
	assert.IsType(t, NaiveProjector{}, p)

	_, err = NewProjector("other")
	require.Error(t, err)
}
