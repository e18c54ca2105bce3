package memory

import (
	"github.com/aquanet-ops/aquanet/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	incident *incidentRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		incident: newIncidentRepository(),
	}
}

func (m *Memory) Incident() interfaces.IncidentRepository {
	return m.incident
}

func (m *Memory) Close() error {
	return nil
}
