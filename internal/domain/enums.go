package domain

import (
	"fmt"
	"strings"
)

// DocumentState is a stage of the document annotation workflow.
type DocumentState string

const (
	StateNew                  DocumentState = "NEW"
	StateAnnotationInProgress DocumentState = "ANNOTATION_IN_PROGRESS"
	StateAnnotationFinished   DocumentState = "ANNOTATION_FINISHED"
	StateCurationInProgress   DocumentState = "CURATION_IN_PROGRESS"
	StateCurationFinished     DocumentState = "CURATION_FINISHED"
)

// ExpendabilityOrder lists the workflow states from most expendable to least
// expendable. Projections round the least expendable states first and take
// rounding slack from the front of this list.
var ExpendabilityOrder = []DocumentState{
	StateNew,
	StateAnnotationInProgress,
	StateAnnotationFinished,
	StateCurationInProgress,
	StateCurationFinished,
}

// RemainderState is never regressed; its count is derived from the fixed
// document total minus every other state.
const RemainderState = StateNew

// PriorityOrder returns ExpendabilityOrder reversed, without RemainderState.
func PriorityOrder() []DocumentState {
	return PriorityOrderOf(ExpendabilityOrder, RemainderState)
}

// PriorityOrderOf reverses an expendability order so the least expendable
// state comes first, dropping remainder. Rounding surplus is handed out in
// this order.
func PriorityOrderOf(expendability []DocumentState, remainder DocumentState) []DocumentState {
	order := make([]DocumentState, 0, len(expendability))
	for i := len(expendability) - 1; i >= 0; i-- {
		if expendability[i] == remainder {
			continue
		}
		order = append(order, expendability[i])
	}
	return order
}

// IsKnown reports whether s is one of the canonical workflow states.
func (s DocumentState) IsKnown() bool {
	for _, known := range ExpendabilityOrder {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns a short human readable name such as "annotation in progress".
func (s DocumentState) Label() string {
	return strings.ToLower(strings.ReplaceAll(string(s), "_", " "))
}

// ParseDocumentState accepts the canonical names case-insensitively, with
// either underscores, dashes or spaces as separators.
func ParseDocumentState(input string) (DocumentState, error) {
	normalized := strings.ToUpper(strings.TrimSpace(input))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	s := DocumentState(normalized)
	if !s.IsKnown() {
		return "", fmt.Errorf("unknown document state %q", input)
	}
	return s, nil
}

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectArchived ProjectStatus = "archived"
)
