package consentlog

import (
	"context"
	"sort"
	"sync"

	"datagov/pkg/domain"
)

// InMemory keeps the ledger in a slice for tests and local runs.
type InMemory struct {
	mu      sync.RWMutex
	entries []Entry
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Append(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *InMemory) ListByTenant(_ context.Context, tenantID domain.TenantID, userID domain.UserID) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Entry
	for i := range s.entries {
		e := s.entries[i]
		if e.TenantID != tenantID {
			continue
		}
		if !userID.IsNil() && e.UserID != userID {
			continue
		}
		cp := e
		out = append(out, &cp)
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemory) ListByUser(_ context.Context, userID domain.UserID) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Entry
	for i := range s.entries {
		if s.entries[i].UserID == userID {
			cp := s.entries[i]
			out = append(out, &cp)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemory) DeleteByUser(_ context.Context, tenantID domain.TenantID, userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.UserID == userID && (tenantID.IsNil() || e.TenantID == tenantID) {
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return nil
}

func sortNewestFirst(entries []*Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}
