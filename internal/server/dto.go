package server

import (
	"time"

	"github.com/alexanderramin/docflow/internal/contract"
	"github.com/alexanderramin/docflow/internal/domain"
)

type SnapshotBody struct {
	Day    string         `json:"day" example:"2025-03-15" doc:"Calendar day (UTC)"`
	Counts map[string]int `json:"counts" doc:"Documents per workflow state"`
}

type ProgressBody struct {
	ProjectID     string         `json:"project_id"`
	ProjectName   string         `json:"project_name"`
	GeneratedAt   time.Time      `json:"generated_at"`
	Strategy      string         `json:"strategy" enum:"conserving,naive"`
	HorizonDays   int            `json:"horizon_days"`
	LookbackDays  *int           `json:"lookback_days,omitempty"`
	DocumentTotal int            `json:"document_total"`
	History       []SnapshotBody `json:"history"`
	Projection    []SnapshotBody `json:"projection"`
	Series        []SnapshotBody `json:"series"`
	Warnings      []string       `json:"warnings,omitempty"`
}

func toProgressBody(resp *contract.ProgressResponse) ProgressBody {
	return ProgressBody{
		ProjectID:     resp.ProjectID,
		ProjectName:   resp.ProjectName,
		GeneratedAt:   resp.GeneratedAt,
		Strategy:      resp.Strategy,
		HorizonDays:   resp.HorizonDays,
		LookbackDays:  resp.LookbackDays,
		DocumentTotal: resp.DocumentTotal,
		History:       toSnapshotBodies(resp.History),
		Projection:    toSnapshotBodies(resp.Projection),
		Series:        toSnapshotBodies(resp.Series),
		Warnings:      resp.Warnings,
	}
}

func toSnapshotBodies(snaps []domain.Snapshot) []SnapshotBody {
	out := make([]SnapshotBody, 0, len(snaps))
	for _, s := range snaps {
		counts := make(map[string]int, len(s.Counts))
		for state, n := range s.Counts {
			counts[string(state)] = n
		}
		out = append(out, SnapshotBody{Day: s.Day.Format(domain.DayLayout), Counts: counts})
	}
	return out
}
