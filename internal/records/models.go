// Package records holds the tenant-owned entities governed by retention
// policies and touched by anonymization: conversations, messages,
// appointments and leads. Each type has its own age field for retention
// cutoffs; appointments additionally carry a status because only terminal
// ones may be purged.
package records

import (
	"time"

	"datagov/pkg/domain"
)

// AppointmentStatus is the appointment lifecycle state.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "SCHEDULED"
	AppointmentActive    AppointmentStatus = "ACTIVE"
	AppointmentCompleted AppointmentStatus = "COMPLETED"
	AppointmentCancelled AppointmentStatus = "CANCELLED"
)

// TerminalAppointmentStatuses are the only states retention may purge.
// In-flight appointments survive regardless of age.
var TerminalAppointmentStatuses = []AppointmentStatus{
	AppointmentCompleted,
	AppointmentCancelled,
}

// IsTerminal reports whether the appointment reached a final state.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentCompleted || s == AppointmentCancelled
}

type Conversation struct {
	ID               string          `json:"id"`
	TenantID         domain.TenantID `json:"tenant_id"`
	ParticipantName  string          `json:"participant_name"`
	ParticipantEmail string          `json:"participant_email,omitempty"`
	LastMessageAt    time.Time       `json:"last_message_at"`
	CreatedAt        time.Time       `json:"created_at"`
}

type Message struct {
	ID             string          `json:"id"`
	ConversationID string          `json:"conversation_id"`
	TenantID       domain.TenantID `json:"tenant_id"`
	Body           string          `json:"body"`
	CreatedAt      time.Time       `json:"created_at"`
}

type Appointment struct {
	ID              string            `json:"id"`
	TenantID        domain.TenantID   `json:"tenant_id"`
	ParticipantName string            `json:"participant_name"`
	Status          AppointmentStatus `json:"status"`
	StartTime       time.Time         `json:"start_time"`
	CreatedAt       time.Time         `json:"created_at"`
}

type Lead struct {
	ID        string          `json:"id"`
	TenantID  domain.TenantID `json:"tenant_id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	CreatedAt time.Time       `json:"created_at"`
}
