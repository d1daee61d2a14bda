package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "datagov/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// IDs must be valid, non-empty, non-nil UUIDs.
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseTenantID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseUserID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseTenantID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, TenantID(valid), id)
	})
}

func TestDataRegion(t *testing.T) {
	t.Run("accepts the closed set", func(t *testing.T) {
		for _, raw := range []string{"EU", "CH"} {
			r, err := ParseDataRegion(raw)
			require.NoError(t, err)
			assert.True(t, r.IsValid())
		}
	})

	t.Run("rejects anything else", func(t *testing.T) {
		for _, raw := range []string{"", "US", "eu", "DE"} {
			_, err := ParseDataRegion(raw)
			require.Error(t, err, raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})
}

func TestDataType(t *testing.T) {
	for _, raw := range []string{"conversations", "messages", "appointments", "leads"} {
		_, err := ParseDataType(raw)
		require.NoError(t, err, raw)
	}
	_, err := ParseDataType("invoices")
	require.Error(t, err)
}

func TestConsentType(t *testing.T) {
	_, err := ParseConsentType("marketing")
	require.NoError(t, err)
	_, err = ParseConsentType("telepathy")
	require.Error(t, err)
}
