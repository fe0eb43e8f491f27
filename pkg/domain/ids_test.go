package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "rollcall/pkg/domain-errors"
)

func TestParsePositionID(t *testing.T) {
	t.Run("round-trips a generated ID", func(t *testing.T) {
		original := NewPositionID()
		parsed, err := ParsePositionID(original.String())
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})

	t.Run("rejects empty, malformed, and nil inputs", func(t *testing.T) {
		for _, raw := range []string{"", "not-a-uuid", uuid.Nil.String()} {
			_, err := ParsePositionID(raw)
			require.Error(t, err, "input %q", raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		}
	})
}

func TestTypedIDsAreDistinct(t *testing.T) {
	// The typed wrappers share a UUID representation but must not be
	// assignable to each other; String/IsZero are the only common surface.
	userID := NewUserID()
	assert.False(t, userID.IsZero())
	assert.True(t, UserID{}.IsZero())
	assert.Len(t, userID.String(), 36)
}

func TestParseRole(t *testing.T) {
	role, ok := ParseRole("ADMIN")
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, role)
	assert.True(t, role.CanDecideNominations())

	_, ok = ParseRole("SUPERUSER")
	assert.False(t, ok)

	assert.True(t, RoleOfficer.CanDecideNominations())
	assert.False(t, RoleCandidate.CanDecideNominations())
}
