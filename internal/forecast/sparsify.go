package forecast

import "github.com/alexanderramin/docflow/internal/domain"

// Sparsify keeps only the days where the state distribution changes.
// The first and last entries are always kept.
func Sparsify(raw []domain.Snapshot) []domain.Snapshot {
	if len(raw) == 0 {
		return nil
	}

	kept := []domain.Snapshot{raw[0]}
	for i := 1; i < len(raw)-1; i++ {
		if !raw[i].Counts.Equal(kept[len(kept)-1].Counts) {
			kept = append(kept, raw[i])
		}
	}
	if len(raw) > 1 {
		kept = append(kept, raw[len(raw)-1])
	}
	return kept
}
