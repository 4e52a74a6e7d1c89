package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// DayLayout is the wire and storage layout for calendar days.
const DayLayout = "2006-01-02"

// StateCounts maps each workflow state to the number of documents in it.
type StateCounts map[DocumentState]int

// Get returns the count for s, or 0 if s is absent.
func (c StateCounts) Get(s DocumentState) int {
	return c[s]
}

// Total sums every count.
func (c StateCounts) Total() int {
	var total int
	for _, n := range c {
		total += n
	}
	return total
}

func (c StateCounts) Clone() StateCounts {
	out := make(StateCounts, len(c))
	for s, n := range c {
		out[s] = n
	}
	return out
}

// Equal compares the union of both key sets, treating missing keys as 0.
func (c StateCounts) Equal(other StateCounts) bool {
	for s, n := range c {
		if other[s] != n {
			return false
		}
	}
	for s, n := range other {
		if c[s] != n {
			return false
		}
	}
	return true
}

// SortedStates returns the keys of c: canonical states in ExpendabilityOrder
// first, then any custom states lexicographically.
func (c StateCounts) SortedStates() []DocumentState {
	states := make([]DocumentState, 0, len(c))
	for _, s := range ExpendabilityOrder {
		if _, ok := c[s]; ok {
			states = append(states, s)
		}
	}
	var custom []DocumentState
	for s := range c {
		if !s.IsKnown() {
			custom = append(custom, s)
		}
	}
	sort.Slice(custom, func(i, j int) bool { return custom[i] < custom[j] })
	return append(states, custom...)
}

// Snapshot is the distribution of documents across workflow states as of Day.
type Snapshot struct {
	Day    time.Time
	Counts StateCounts
}

// NewSnapshot truncates day to its UTC calendar date.
func NewSnapshot(day time.Time, counts StateCounts) Snapshot {
	return Snapshot{Day: DayOf(day), Counts: counts}
}

type snapshotWire struct {
	Day    string      `json:"day" yaml:"day"`
	Counts StateCounts `json:"counts" yaml:"counts"`
}

func (s Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(snapshotWire{Day: s.Day.Format(DayLayout), Counts: s.Counts})
}

func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var w snapshotWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	day, err := time.Parse(DayLayout, w.Day)
	if err != nil {
		return fmt.Errorf("parsing snapshot day: %w", err)
	}
	s.Day = day
	s.Counts = w.Counts
	return nil
}

// MarshalYAML renders the same shape as the JSON form.
func (s Snapshot) MarshalYAML() (any, error) {
	return snapshotWire{Day: s.Day.Format(DayLayout), Counts: s.Counts}, nil
}

// DayOf returns the UTC midnight of t's calendar date.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(DayOf(b).Sub(DayOf(a)).Hours() / 24)
}

// AddDays returns the calendar day n days after day.
func AddDays(day time.Time, n int) time.Time {
	return DayOf(day).AddDate(0, 0, n)
}
