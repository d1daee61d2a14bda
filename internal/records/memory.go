package records

import (
	"context"
	"sync"
	"time"

	"datagov/pkg/domain"
)

// InMemory implements Store over maps for tests and local development.
type InMemory struct {
	mu            sync.RWMutex
	conversations map[string]Conversation
	messages      map[string]Message
	appointments  map[string]Appointment
	leads         map[string]Lead
}

func NewInMemory() *InMemory {
	return &InMemory{
		conversations: make(map[string]Conversation),
		messages:      make(map[string]Message),
		appointments:  make(map[string]Appointment),
		leads:         make(map[string]Lead),
	}
}

// Seed helpers used by tests and fixtures.

func (s *InMemory) AddConversation(c Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[c.ID] = c
}

func (s *InMemory) AddMessage(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[m.ID] = m
}

func (s *InMemory) AddAppointment(a Appointment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appointments[a.ID] = a
}

func (s *InMemory) AddLead(l Lead) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads[l.ID] = l
}

func (s *InMemory) Conversation(id string) (Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.conversations[id]
	return c, ok
}

func (s *InMemory) Appointment(id string) (Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[id]
	return a, ok
}

func tenantMatches(tenantID domain.TenantID, rowTenant domain.TenantID) bool {
	return tenantID.IsNil() || rowTenant == tenantID
}

func (s *InMemory) CountConversationsBefore(_ context.Context, tenantID domain.TenantID, cutoff time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, c := range s.conversations {
		if tenantMatches(tenantID, c.TenantID) && c.LastMessageAt.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) DeleteConversationsBefore(_ context.Context, tenantID domain.TenantID, cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.conversations {
		if tenantMatches(tenantID, c.TenantID) && c.LastMessageAt.Before(cutoff) {
			delete(s.conversations, id)
		}
	}
	return nil
}

func (s *InMemory) CountMessagesBefore(_ context.Context, tenantID domain.TenantID, cutoff time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, m := range s.messages {
		if tenantMatches(tenantID, m.TenantID) && m.CreatedAt.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) DeleteMessagesBefore(_ context.Context, tenantID domain.TenantID, cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range s.messages {
		if tenantMatches(tenantID, m.TenantID) && m.CreatedAt.Before(cutoff) {
			delete(s.messages, id)
		}
	}
	return nil
}

func (s *InMemory) CountTerminalAppointmentsBefore(_ context.Context, tenantID domain.TenantID, cutoff time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, a := range s.appointments {
		if tenantMatches(tenantID, a.TenantID) && a.Status.IsTerminal() && a.StartTime.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) DeleteTerminalAppointmentsBefore(_ context.Context, tenantID domain.TenantID, cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, a := range s.appointments {
		if tenantMatches(tenantID, a.TenantID) && a.Status.IsTerminal() && a.StartTime.Before(cutoff) {
			delete(s.appointments, id)
		}
	}
	return nil
}

func (s *InMemory) CountLeadsBefore(_ context.Context, tenantID domain.TenantID, cutoff time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, l := range s.leads {
		if tenantMatches(tenantID, l.TenantID) && l.CreatedAt.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) DeleteLeadsBefore(_ context.Context, tenantID domain.TenantID, cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, l := range s.leads {
		if tenantMatches(tenantID, l.TenantID) && l.CreatedAt.Before(cutoff) {
			delete(s.leads, id)
		}
	}
	return nil
}

func (s *InMemory) ClearConversationParticipants(_ context.Context, tenantID domain.TenantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.conversations {
		if c.TenantID == tenantID {
			c.ParticipantName = ""
			c.ParticipantEmail = ""
			s.conversations[id] = c
		}
	}
	return nil
}

func (s *InMemory) ClearAppointmentParticipants(_ context.Context, tenantID domain.TenantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, a := range s.appointments {
		if a.TenantID == tenantID {
			a.ParticipantName = ""
			s.appointments[id] = a
		}
	}
	return nil
}
