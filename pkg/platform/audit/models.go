// Package audit captures governance-relevant actions: consent changes,
// erasure operations, retention runs. Events are written through an
// outbox-backed store and shipped to Kafka by the outbox worker; the broker
// is the long-term source of truth.
package audit

import (
	"time"

	"datagov/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose. Compliance
// events require long retention; operations events can be sampled.
type EventCategory string

const (
	CategoryCompliance EventCategory = "compliance"
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	TenantID  domain.TenantID
	UserID    domain.UserID
	Subject   string
	Action    string
	Reason    string
	RequestID string
	ActorID   string
}

// Action names the audited governance operations.
type Action string

const (
	// Consent events
	ActionConsentGranted Action = "consent_granted"
	ActionConsentRevoked Action = "consent_revoked"

	// Erasure events
	ActionUserAnonymized   Action = "user_anonymized"
	ActionUserDataDeleted  Action = "user_data_deleted"
	ActionUserDataExported Action = "user_data_exported"

	// Retention events
	ActionRetentionApplied Action = "retention_applied"
	ActionPolicyStored     Action = "retention_policy_stored"
	ActionPolicyDeleted    Action = "retention_policy_deleted"
)

var actionCategories = map[Action]EventCategory{
	ActionConsentGranted:   CategoryCompliance,
	ActionConsentRevoked:   CategoryCompliance,
	ActionUserAnonymized:   CategoryCompliance,
	ActionUserDataDeleted:  CategoryCompliance,
	ActionUserDataExported: CategoryCompliance,

	ActionRetentionApplied: CategoryOperations,
	ActionPolicyStored:     CategoryOperations,
	ActionPolicyDeleted:    CategoryOperations,
}

// Category returns the category for this action. Unknown actions default to
// CategoryOperations.
func (a Action) Category() EventCategory {
	if cat, ok := actionCategories[a]; ok {
		return cat
	}
	return CategoryOperations
}
