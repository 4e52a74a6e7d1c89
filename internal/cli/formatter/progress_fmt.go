package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/docflow/internal/contract"
	"github.com/alexanderramin/docflow/internal/domain"
)

// FormatProgress renders a progress response as a summary box followed by a
// per-day table. Projected rows are marked and dimmed.
func FormatProgress(resp *contract.ProgressResponse) string {
	var b strings.Builder

	b.WriteString(RenderBox(resp.ProjectName, progressSummary(resp)))
	b.WriteString("\n\n")

	if len(resp.Series) == 0 {
		b.WriteString(Dim("No history recorded for this project yet."))
		b.WriteString("\n")
	} else {
		b.WriteString(formatSeriesTable(resp))
	}

	for _, w := range resp.Warnings {
		b.WriteString(StyleYellow.Render("! " + w))
		b.WriteString("\n")
	}
	return b.String()
}

func progressSummary(resp *contract.ProgressResponse) string {
	lookback := "all history"
	if resp.LookbackDays != nil {
		lookback = fmt.Sprintf("%d days", *resp.LookbackDays)
	}
	lines := []string{
		fmt.Sprintf("%s %s", Dim("Documents:"), Bold(strconv.Itoa(resp.DocumentTotal))),
		fmt.Sprintf("%s %s", Dim("Strategy: "), resp.Strategy),
		fmt.Sprintf("%s %d days", Dim("Horizon:  "), resp.HorizonDays),
		fmt.Sprintf("%s %s", Dim("Lookback: "), lookback),
	}

	if n := len(resp.History); n > 0 {
		last := resp.History[n-1]
		lines = append(lines, "", RenderDistributionBar(last.Counts, 40), FormatLegend(last.Counts))
	}
	if n := len(resp.Projection); n > 0 {
		end := resp.Projection[n-1]
		lines = append(lines, fmt.Sprintf("%s %s", Dim("Projected by"), Bold(end.Day.Format(domain.DayLayout))))
		lines = append(lines, RenderDistributionBar(end.Counts, 40))
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func formatSeriesTable(resp *contract.ProgressResponse) string {
	states := seriesStates(resp.Series)

	headers := make([]string, 0, len(states)+2)
	headers = append(headers, "DAY")
	for _, s := range states {
		headers = append(headers, abbreviate(s))
	}
	headers = append(headers, "")

	aligns := make([]Align, len(states)+2)
	for i := 1; i <= len(states); i++ {
		aligns[i] = AlignRight
	}

	rows := make([][]string, 0, len(resp.Series))
	appendRows := func(snaps []domain.Snapshot, projected bool) {
		for _, snap := range snaps {
			row := make([]string, 0, len(headers))
			day := snap.Day.Format(domain.DayLayout)
			if projected {
				day = Dim(day)
			}
			row = append(row, day)
			for _, s := range states {
				cell := strconv.Itoa(snap.Counts.Get(s))
				if projected {
					cell = Dim(cell)
				}
				row = append(row, cell)
			}
			if projected {
				row = append(row, StylePurple.Render("projected"))
			} else {
				row = append(row, "")
			}
			rows = append(rows, row)
		}
	}
	appendRows(resp.History, false)
	appendRows(resp.Projection, true)

	return RenderTable(headers, rows, aligns...)
}

// seriesStates returns every state that appears anywhere in the series, in
// display order.
func seriesStates(series []domain.Snapshot) []domain.DocumentState {
	union := domain.StateCounts{}
	for _, snap := range series {
		for s := range snap.Counts {
			union[s] = 0
		}
	}
	return union.SortedStates()
}

// abbreviate shortens ANNOTATION_IN_PROGRESS to AIP. Single-word states are
// kept as is.
func abbreviate(s domain.DocumentState) string {
	parts := strings.Split(string(s), "_")
	if len(parts) == 1 {
		return string(s)
	}
	var b strings.Builder
	for _, p := range parts {
		if p != "" {
			b.WriteByte(p[0])
		}
	}
	return b.String()
}
