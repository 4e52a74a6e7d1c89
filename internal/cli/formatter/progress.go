package formatter

import (
	"strings"

	"github.com/alexanderramin/docflow/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderDistributionBar renders counts as a stacked bar of the given width,
// one colored segment per state in display order. Segment widths use
// largest-remainder rounding so they always fill the bar exactly. An empty
// distribution renders as empty blocks.
func RenderDistributionBar(counts domain.StateCounts, width int) string {
	if width < 1 {
		width = 1
	}
	total := counts.Total()
	if total <= 0 {
		return StyleDim.Render(strings.Repeat(emptyBlock, width))
	}

	states := counts.SortedStates()
	cells := segmentWidths(counts, states, total, width)

	var b strings.Builder
	for i, s := range states {
		if cells[i] == 0 {
			continue
		}
		b.WriteString(StateStyle(s).Render(strings.Repeat(filledBlock, cells[i])))
	}
	return b.String()
}

func segmentWidths(counts domain.StateCounts, states []domain.DocumentState, total, width int) []int {
	cells := make([]int, len(states))
	rems := make([]int, len(states))
	used := 0
	for i, s := range states {
		scaled := counts.Get(s) * width
		cells[i] = scaled / total
		rems[i] = scaled % total
		used += cells[i]
	}
	for used < width {
		best := -1
		for i := range states {
			if best == -1 || rems[i] > rems[best] {
				best = i
			}
		}
		cells[best]++
		rems[best] = -1
		used++
	}
	return cells
}
