// Package directory holds the account, tenant-membership and external
// identity records the erasure workflow traverses. The surrounding
// application owns their lifecycle; this engine reads them and, during
// erasure, anonymizes or removes them.
package directory

import (
	"time"

	"datagov/pkg/domain"
)

// Account is the user record shared across tenants. A user may be a member of
// several tenants; the account survives until its last membership is erased.
type Account struct {
	ID           domain.UserID `json:"id"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Membership links an account to a tenant.
type Membership struct {
	TenantID  domain.TenantID `json:"tenant_id"`
	UserID    domain.UserID   `json:"user_id"`
	Role      string          `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

// ExternalIdentity is a linked login (OAuth/SAML provider record). Token
// material is credential data and is cleared on anonymization.
type ExternalIdentity struct {
	ID           string        `json:"id"`
	UserID       domain.UserID `json:"user_id"`
	Provider     string        `json:"provider"`
	Subject      string        `json:"subject"`
	Email        string        `json:"email"`
	Name         string        `json:"name"`
	AccessToken  string        `json:"-"`
	RefreshToken string        `json:"-"`
	CreatedAt    time.Time     `json:"created_at"`
}
