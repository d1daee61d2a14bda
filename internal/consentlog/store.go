package consentlog

import (
	"context"

	"datagov/pkg/domain"
)

// Store persists ledger entries. Append-only: nothing here updates an entry,
// and DeleteByUser exists solely for erasure.
type Store interface {
	Append(ctx context.Context, entry *Entry) error

	// ListByTenant returns entries newest first. A non-nil user ID narrows
	// the listing to that user.
	ListByTenant(ctx context.Context, tenantID domain.TenantID, userID domain.UserID) ([]*Entry, error)

	ListByUser(ctx context.Context, userID domain.UserID) ([]*Entry, error)

	// DeleteByUser removes a user's entries, optionally limited to one
	// tenant. It exists solely for erasure.
	DeleteByUser(ctx context.Context, tenantID domain.TenantID, userID domain.UserID) error
}
