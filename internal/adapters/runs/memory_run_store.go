package runs

import (
	"context"
	"delivery-scheduler/internal/domain"
	"delivery-scheduler/internal/ports"
	"errors"
	"fmt"
	"sync"
)

// MemoryRunStore keeps the most recent runs in process memory. Once Limit
// runs are held, saving another evicts the oldest.
type MemoryRunStore struct {
	mu    sync.RWMutex
	runs  map[string]*domain.Run
	order []string
	Limit int
}

func NewMemoryRunStore(limit int) *MemoryRunStore {
	return &MemoryRunStore{runs: make(map[string]*domain.Run), Limit: limit}
}

func (s *MemoryRunStore) Save(ctx context.Context, run *domain.Run) error {
	if run == nil || run.ID == "" {
		return errors.New("save run: run must have an id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.runs[run.ID]; ok {
		return fmt.Errorf("save run %s: already stored", run.ID)
	}
	s.runs[run.ID] = run
	s.order = append(s.order, run.ID)

	for s.Limit > 0 && len(s.order) > s.Limit {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
	return nil
}

func (s *MemoryRunStore) Get(ctx context.Context, id string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("get run %s: %w", id, ports.ErrRunNotFound)
	}
	return run, nil
}
