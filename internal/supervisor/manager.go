package supervisor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Manager owns every in-flight GameInstance, grounded on the teacher's
// Manager.games map pattern (internal/game/manager.go): a mutex guards the
// map, held only for the insert/remove/get critical section.
type Manager struct {
	mu    sync.Mutex
	games map[uuid.UUID]*GameInstance
}

func NewManager() *Manager {
	return &Manager{games: make(map[uuid.UUID]*GameInstance)}
}

func (m *Manager) put(inst *GameInstance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games[inst.ID] = inst
}

func (m *Manager) Get(id uuid.UUID) (*GameInstance, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inst, ok := m.games[id]
	return inst, ok
}

func (m *Manager) remove(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.games, id)
}

// Teardown removes the instance from the map and tears down its sandbox.
func (m *Manager) Teardown(ctx context.Context, id uuid.UUID) error {
	inst, ok := m.Get(id)
	if !ok {
		return fmt.Errorf("supervisor: game %s not found", id)
	}
	m.remove(id)
	return inst.Teardown(ctx)
}

// DrainAll tears down every remaining in-flight GameInstance, for process
// shutdown: force-remove every player container, then the server container,
// then the networks, then the volumes, for each instance still in the map.
// Errors are collected rather than short-circuited so one stuck sandbox
// doesn't block teardown of the rest.
func (m *Manager) DrainAll(ctx context.Context) []error {
	m.mu.Lock()
	instances := make([]*GameInstance, 0, len(m.games))
	for _, inst := range m.games {
		instances = append(instances, inst)
	}
	m.games = make(map[uuid.UUID]*GameInstance)
	m.mu.Unlock()

	var errs []error
	for _, inst := range instances {
		if err := inst.Teardown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("supervisor: drain game %s: %w", inst.ID, err))
		}
	}
	return errs
}
