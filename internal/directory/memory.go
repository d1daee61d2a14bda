package directory

import (
	"context"
	"sync"

	"datagov/pkg/domain"
	"datagov/pkg/platform/sentinel"
)

type InMemoryAccounts struct {
	mu       sync.RWMutex
	accounts map[domain.UserID]Account
}

func NewInMemoryAccounts() *InMemoryAccounts {
	return &InMemoryAccounts{accounts: make(map[domain.UserID]Account)}
}

func (s *InMemoryAccounts) Save(_ context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = *account
	return nil
}

func (s *InMemoryAccounts) FindByID(_ context.Context, id domain.UserID) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.accounts[id]; ok {
		copied := a
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryAccounts) Update(_ context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[account.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.accounts[account.ID] = *account
	return nil
}

func (s *InMemoryAccounts) Delete(_ context.Context, id domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.accounts, id)
	return nil
}

type membershipKey struct {
	tenant domain.TenantID
	user   domain.UserID
}

type InMemoryMemberships struct {
	mu      sync.RWMutex
	members map[membershipKey]Membership
}

func NewInMemoryMemberships() *InMemoryMemberships {
	return &InMemoryMemberships{members: make(map[membershipKey]Membership)}
}

func (s *InMemoryMemberships) Save(_ context.Context, m *Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[membershipKey{m.TenantID, m.UserID}] = *m
	return nil
}

func (s *InMemoryMemberships) Find(_ context.Context, tenantID domain.TenantID, userID domain.UserID) (*Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.members[membershipKey{tenantID, userID}]; ok {
		copied := m
		return &copied, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryMemberships) ListByUser(_ context.Context, userID domain.UserID) ([]*Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Membership
	for k, m := range s.members {
		if k.user == userID {
			copied := m
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *InMemoryMemberships) Delete(_ context.Context, tenantID domain.TenantID, userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := membershipKey{tenantID, userID}
	if _, ok := s.members[key]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.members, key)
	return nil
}

type InMemoryIdentities struct {
	mu         sync.RWMutex
	identities map[string]ExternalIdentity
}

func NewInMemoryIdentities() *InMemoryIdentities {
	return &InMemoryIdentities{identities: make(map[string]ExternalIdentity)}
}

func (s *InMemoryIdentities) Save(_ context.Context, identity *ExternalIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities[identity.ID] = *identity
	return nil
}

func (s *InMemoryIdentities) ListByUser(_ context.Context, userID domain.UserID) ([]*ExternalIdentity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*ExternalIdentity
	for _, id := range s.identities {
		if id.UserID == userID {
			copied := id
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *InMemoryIdentities) Update(_ context.Context, identity *ExternalIdentity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.identities[identity.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.identities[identity.ID] = *identity
	return nil
}

func (s *InMemoryIdentities) DeleteByUser(_ context.Context, userID domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, id := range s.identities {
		if id.UserID == userID {
			delete(s.identities, key)
		}
	}
	return nil
}
