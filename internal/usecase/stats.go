package usecase

import (
	"pathportal/internal/domain"
	"pathportal/internal/domain/ports"
	"pathportal/internal/query"
)

type GetStats struct {
	Catalog ports.Catalog
	State   ports.SnapshotSource
}

func (uc GetStats) Execute() domain.Stats {
	var snap domain.Snapshot
	if uc.State != nil {
		snap = uc.State.Snapshot()
	}
	return query.ComputeStats(uc.Catalog.Topics(), snap)
}
