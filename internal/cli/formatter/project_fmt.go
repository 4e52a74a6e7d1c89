package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/docflow/internal/domain"
)

// FormatProjectList renders projects as a table. counts may be nil or miss
// entries; missing projects show no bar.
func FormatProjectList(projects []*domain.Project, counts map[string]domain.StateCounts) string {
	if len(projects) == 0 {
		return Dim("No projects yet. Create one with: docflow project add --id NER01 --name \"...\"") + "\n"
	}

	headers := []string{"ID", "NAME", "STATUS", "DOCS", "PROGRESS"}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		c := counts[p.ID]
		rows = append(rows, []string{
			StyleBold.Render(p.DisplayID()),
			p.Name,
			StatusPill(p.Status),
			strconv.Itoa(c.Total()),
			RenderDistributionBar(c, 20),
		})
	}
	return RenderTable(headers, rows, AlignLeft, AlignLeft, AlignLeft, AlignRight)
}

// FormatDocumentList renders a project's documents with their current state
// and a legend of per-state totals.
func FormatDocumentList(p *domain.Project, docs []*domain.Document) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("%s documents", p.DisplayID())))
	b.WriteString("\n")

	if len(docs) == 0 {
		b.WriteString(Dim("No documents. Add some with: docflow doc add NAME --project " + p.DisplayID()))
		b.WriteString("\n")
		return b.String()
	}

	counts := domain.StateCounts{}
	rows := make([][]string, 0, len(docs))
	for _, d := range docs {
		counts[d.State]++
		rows = append(rows, []string{
			TruncID(d.ID),
			d.Name,
			StateBadge(d.State),
			Dim(d.UpdatedAt.Format("2006-01-02 15:04")),
		})
	}
	b.WriteString(RenderTable([]string{"ID", "NAME", "STATE", "UPDATED"}, rows))
	b.WriteString("\n")
	b.WriteString(RenderDistributionBar(counts, 40))
	b.WriteString("\n")
	b.WriteString(FormatLegend(counts))
	return b.String()
}

// FormatLegend lists each state present in counts with its count.
func FormatLegend(counts domain.StateCounts) string {
	parts := make([]string, 0, len(counts))
	for _, s := range counts.SortedStates() {
		parts = append(parts, fmt.Sprintf("%s %d", StateBadge(s), counts.Get(s)))
	}
	return strings.Join(parts, "  ") + "\n"
}
