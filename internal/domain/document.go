package domain

import (
	"fmt"
	"time"
)

type Document struct {
	ID        string
	ProjectID string
	Name      string
	State     DocumentState
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StateEvent is one entry of a project's audit log. From is nil when the
// event records the document's creation.
type StateEvent struct {
	ID         string
	ProjectID  string
	DocumentID string
	From       *DocumentState
	To         DocumentState
	At         time.Time
	Actor      string
}

// MoveTo transitions the document and returns the event describing it.
func (d *Document) MoveTo(to DocumentState, at time.Time) (StateEvent, error) {
	if to == "" {
		return StateEvent{}, fmt.Errorf("target state is required")
	}
	if d.State == to {
		return StateEvent{}, fmt.Errorf("document %q is already in state %s", d.Name, to)
	}
	from := d.State
	d.State = to
	d.UpdatedAt = at
	return StateEvent{
		ProjectID:  d.ProjectID,
		DocumentID: d.ID,
		From:       &from,
		To:         to,
		At:         at,
	}, nil
}

// CreationEvent returns the event recording the document entering its
// initial state.
func (d *Document) CreationEvent() StateEvent {
	return StateEvent{
		ProjectID:  d.ProjectID,
		DocumentID: d.ID,
		To:         d.State,
		At:         d.CreatedAt,
	}
}
