package records

import (
	"context"
	"time"

	"datagov/pkg/domain"
)

// Store exposes the count/delete pairs the retention engine dispatches on and
// the participant-clearing updates used by anonymization.
//
// Count* and Delete* are deliberately separate: the engine reports the count
// observed immediately before deletion, so reported numbers stay accurate
// even where a backend's delete call counts rows differently.
//
// ClearParticipants* match by tenant scope only. There is no participant-to-
// user foreign key in the current data model, so anonymization cannot target
// a single user's conversations precisely; revisit once a participant link
// table exists.
type Store interface {
	CountConversationsBefore(ctx context.Context, tenantID domain.TenantID, cutoff time.Time) (int64, error)
	DeleteConversationsBefore(ctx context.Context, tenantID domain.TenantID, cutoff time.Time) error

	CountMessagesBefore(ctx context.Context, tenantID domain.TenantID, cutoff time.Time) (int64, error)
	DeleteMessagesBefore(ctx context.Context, tenantID domain.TenantID, cutoff time.Time) error

	// Appointment variants only consider terminal statuses (completed or
	// cancelled), keyed on StartTime.
	CountTerminalAppointmentsBefore(ctx context.Context, tenantID domain.TenantID, cutoff time.Time) (int64, error)
	DeleteTerminalAppointmentsBefore(ctx context.Context, tenantID domain.TenantID, cutoff time.Time) error

	CountLeadsBefore(ctx context.Context, tenantID domain.TenantID, cutoff time.Time) (int64, error)
	DeleteLeadsBefore(ctx context.Context, tenantID domain.TenantID, cutoff time.Time) error

	ClearConversationParticipants(ctx context.Context, tenantID domain.TenantID) error
	ClearAppointmentParticipants(ctx context.Context, tenantID domain.TenantID) error
}
