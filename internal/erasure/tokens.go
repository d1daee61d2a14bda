// Package erasure implements the right-to-be-forgotten workflows:
// non-destructive anonymization and conditional deletion of a user's data.
// Steps are recorded in erasure receipts so a failed run can be resumed
// instead of repeated blindly.
package erasure

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"

	"datagov/pkg/domain"
)

const tokenLength = 12

// AnonymizationToken derives a short, stable token from the user ID.
// Deterministic on purpose: anonymizing the same user twice yields the same
// placeholder values, which makes the operation idempotent and retry-safe.
func AnonymizationToken(userID domain.UserID) string {
	raw := uuid.UUID(userID)
	sum := sha256.Sum256(raw[:])
	return hex.EncodeToString(sum[:])[:tokenLength]
}

// AnonymousEmail is the placeholder written over a user's email address.
// The .invalid TLD guarantees it never routes.
func AnonymousEmail(userID domain.UserID) string {
	return "anonymized-" + AnonymizationToken(userID) + "@anonymized.invalid"
}

// AnonymousName is the placeholder written over display names.
func AnonymousName() string {
	return "Anonymized User"
}
