package retention

import (
	"context"
	"sort"
	"sync"

	"datagov/pkg/domain"
	"datagov/pkg/platform/sentinel"
)

// InMemory is a Store for tests and single-process runs.
type InMemory struct {
	mu       sync.RWMutex
	policies map[domain.PolicyID]Policy
}

func NewInMemory() *InMemory {
	return &InMemory{policies: make(map[domain.PolicyID]Policy)}
}

func (s *InMemory) Upsert(_ context.Context, policy *Policy) (*Policy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.policies {
		if existing.TenantID == policy.TenantID && existing.DataType == policy.DataType {
			existing.RetentionDays = policy.RetentionDays
			existing.AutoDelete = policy.AutoDelete
			existing.UpdatedAt = policy.UpdatedAt
			s.policies[id] = existing
			out := existing
			return &out, nil
		}
	}

	s.policies[policy.ID] = *policy
	out := *policy
	return &out, nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.PolicyID) (*Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.policies[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := p
	return &out, nil
}

func (s *InMemory) List(_ context.Context, tenantID domain.TenantID) ([]*Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Policy
	for _, p := range s.policies {
		if !tenantID.IsNil() && p.TenantID != tenantID {
			continue
		}
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemory) Delete(_ context.Context, id domain.PolicyID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.policies[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.policies, id)
	return nil
}

func (s *InMemory) DeleteByTenant(_ context.Context, tenantID domain.TenantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.policies {
		if p.TenantID == tenantID {
			delete(s.policies, id)
		}
	}
	return nil
}
