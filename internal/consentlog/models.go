// Package consentlog is the append-only consent ledger. Entries are never
// updated or individually removed; revoking consent is a new entry with
// Granted=false. The only deletion path is user erasure.
package consentlog

import (
	"time"

	"github.com/google/uuid"

	"datagov/pkg/domain"
	dErrors "datagov/pkg/domain-errors"
)

// Entry is one consent decision. UserID is nil for anonymous visitors
// (cookie banners and the like); IP and user agent come from the request.
type Entry struct {
	ID          uuid.UUID          `json:"id"`
	TenantID    domain.TenantID    `json:"tenantId"`
	UserID      domain.UserID      `json:"userId,omitempty"`
	ConsentType domain.ConsentType `json:"consentType"`
	Granted     bool               `json:"granted"`
	IPAddress   string             `json:"ipAddress,omitempty"`
	UserAgent   string             `json:"userAgent,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// NewEntry validates and constructs a ledger entry.
func NewEntry(tenantID domain.TenantID, userID domain.UserID, consentType domain.ConsentType, granted bool, ip, userAgent string, now time.Time) (*Entry, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "tenant id cannot be empty")
	}
	if !consentType.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unsupported consent type: "+consentType.String())
	}
	return &Entry{
		ID:          uuid.New(),
		TenantID:    tenantID,
		UserID:      userID,
		ConsentType: consentType,
		Granted:     granted,
		IPAddress:   ip,
		UserAgent:   userAgent,
		CreatedAt:   now,
	}, nil
}
