// Package domain holds the typed identifiers and closed-set values shared
// across the governance engine. IDs are distinct UUID types so a tenant ID can
// never be passed where a user ID is expected; construct them via Parse* at
// trust boundaries, direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "datagov/pkg/domain-errors"
)

type (
	// TenantID identifies a tenant organization.
	TenantID uuid.UUID
	// UserID identifies a user account, independent of tenant membership.
	UserID uuid.UUID
	// PolicyID identifies a retention policy row.
	PolicyID uuid.UUID
)

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

// ParseTenantID validates and converts external input into a TenantID.
func ParseTenantID(s string) (TenantID, error) {
	u, err := parseUUID(s)
	return TenantID(u), err
}

// ParseUserID validates and converts external input into a UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	return UserID(u), err
}

// ParsePolicyID validates and converts external input into a PolicyID.
func ParsePolicyID(s string) (PolicyID, error) {
	u, err := parseUUID(s)
	return PolicyID(u), err
}

func (id TenantID) String() string { return uuid.UUID(id).String() }
func (id TenantID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id UserID) String() string { return uuid.UUID(id).String() }
func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id PolicyID) String() string { return uuid.UUID(id).String() }
func (id PolicyID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// NewPolicyID mints a fresh policy identifier.
func NewPolicyID() PolicyID { return PolicyID(uuid.New()) }
