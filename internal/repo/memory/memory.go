package memory

import (
	"sync"

	"github.com/hamed0406/tcpmonitor/internal/domain"
	"github.com/hamed0406/tcpmonitor/internal/repo"
)

var _ repo.StatsStore = (*Store)(nil)

// Store is the in-process aggregator. A single mutex guards the whole map so
// a reset is one cut across every service.
type Store struct {
	mu       sync.Mutex
	services map[string]*domain.Buckets
}

// New creates a store with zeroed counters for every given service.
func New(services ...string) *Store {
	m := &Store{services: make(map[string]*domain.Buckets, len(services))}
	for _, s := range services {
		m.services[s] = &domain.Buckets{}
	}
	return m
}

func (m *Store) Record(service string, o domain.ProbeOutcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.services[service]
	if b == nil {
		b = &domain.Buckets{}
		m.services[service] = b
	}
	b.Add(o)
}

func (m *Store) SnapshotAndReset() repo.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(repo.Snapshot, len(m.services))
	for s, b := range m.services {
		out[s] = *b
		*b = domain.Buckets{}
	}
	return out
}

func (m *Store) Peek() repo.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(repo.Snapshot, len(m.services))
	for s, b := range m.services {
		out[s] = *b
	}
	return out
}
