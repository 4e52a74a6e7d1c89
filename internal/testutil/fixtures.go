package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/docflow/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

type ProjectOption func(*domain.Project)

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithProjectCreatedAt(at time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.CreatedAt = at
		p.UpdatedAt = at
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	return fmt.Sprintf("%s%02d", string(letters), testShortIDCounter.Add(1)%10000)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:        uuid.New().String(),
		ShortID:   defaultShortID(name),
		Name:      name,
		Status:    domain.ProjectActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type DocumentOption func(*domain.Document)

func WithState(s domain.DocumentState) DocumentOption {
	return func(d *domain.Document) {
		d.State = s
	}
}

func WithDocumentCreatedAt(at time.Time) DocumentOption {
	return func(d *domain.Document) {
		d.CreatedAt = at
		d.UpdatedAt = at
	}
}

func NewTestDocument(projectID, name string, opts ...DocumentOption) *domain.Document {
	now := time.Now().UTC().Truncate(time.Second)
	d := &domain.Document{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Name:      name,
		State:     domain.StateNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewTestEvent builds a transition event. A nil from marks a creation event.
func NewTestEvent(doc *domain.Document, from *domain.DocumentState, to domain.DocumentState, at time.Time) *domain.StateEvent {
	return &domain.StateEvent{
		ID:         uuid.New().String(),
		ProjectID:  doc.ProjectID,
		DocumentID: doc.ID,
		From:       from,
		To:         to,
		At:         at,
		Actor:      "test",
	}
}

func StatePtr(s domain.DocumentState) *domain.DocumentState {
	return &s
}
