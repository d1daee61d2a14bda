package erasure

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"datagov/pkg/domain"
)

func TestAnonymizationToken(t *testing.T) {
	user := domain.UserID(uuid.New())

	t.Run("stable across calls", func(t *testing.T) {
		assert.Equal(t, AnonymizationToken(user), AnonymizationToken(user))
	})

	t.Run("distinct per user", func(t *testing.T) {
		other := domain.UserID(uuid.New())
		assert.NotEqual(t, AnonymizationToken(user), AnonymizationToken(other))
	})

	t.Run("short fixed length", func(t *testing.T) {
		assert.Len(t, AnonymizationToken(user), tokenLength)
	})
}

func TestAnonymousEmail(t *testing.T) {
	user := domain.UserID(uuid.New())
	email := AnonymousEmail(user)

	assert.Equal(t, email, AnonymousEmail(user))
	assert.Contains(t, email, AnonymizationToken(user))
	assert.Contains(t, email, "@anonymized.invalid")
}
