package directory

import (
	"context"

	"datagov/pkg/domain"
)

type AccountStore interface {
	Save(ctx context.Context, account *Account) error
	FindByID(ctx context.Context, id domain.UserID) (*Account, error)
	// Update overwrites mutable fields; used by anonymization.
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id domain.UserID) error
}

type MembershipStore interface {
	Save(ctx context.Context, m *Membership) error
	Find(ctx context.Context, tenantID domain.TenantID, userID domain.UserID) (*Membership, error)
	ListByUser(ctx context.Context, userID domain.UserID) ([]*Membership, error)
	Delete(ctx context.Context, tenantID domain.TenantID, userID domain.UserID) error
}

type IdentityStore interface {
	Save(ctx context.Context, identity *ExternalIdentity) error
	ListByUser(ctx context.Context, userID domain.UserID) ([]*ExternalIdentity, error)
	// Update overwrites identity fields in place; used by anonymization.
	Update(ctx context.Context, identity *ExternalIdentity) error
	DeleteByUser(ctx context.Context, userID domain.UserID) error
}
