package memstore

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"bayes/internal/domain"
	"bayes/internal/port"
)

// MemoryStore is a ModelStore that lives only as long as the process.
type MemoryStore struct {
	mu     sync.RWMutex
	models map[string]port.ModelRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		models: make(map[string]port.ModelRecord),
	}
}

func (s *MemoryStore) Save(rec port.ModelRecord) error {
	if rec.Name == "" {
		return fmt.Errorf("model name is empty")
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	rec.State = append([]byte(nil), rec.State...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[rec.Name] = rec
	return nil
}

func (s *MemoryStore) Load(name string) (port.ModelRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.models[name]
	if !ok {
		return port.ModelRecord{}, fmt.Errorf("%w: %s", domain.ErrModelNotFound, name)
	}
	rec.State = append([]byte(nil), rec.State...)
	return rec, nil
}

func (s *MemoryStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.models, name)
	return nil
}

func (s *MemoryStore) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.models))
	for name := range s.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
