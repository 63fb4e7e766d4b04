package users

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/accountd/accountd/internal/auth"
)

func TestCanModifyUser(t *testing.T) {
	tests := []struct {
		name      string
		principal auth.Principal
		targetID  int64
		allowed   bool
	}{
		{"OwnerOnSelf", auth.Principal{ID: 5, Role: RoleUser}, 5, true},
		{"UserOnOther", auth.Principal{ID: 5, Role: RoleUser}, 7, false},
		{"AdminOnOther", auth.Principal{ID: 1, Role: RoleAdmin}, 7, true},
		{"AdminOnSelf", auth.Principal{ID: 1, Role: RoleAdmin}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := CanModifyUser(tt.principal, tt.targetID)
			assert.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				assert.Equal(t, ReasonNotSelfNotAdmin, d.Reason)
			}
		})
	}
}

func TestCanApplyPatch_RoleEscalation(t *testing.T) {
	rolePatch := UpdateUserRequest{Role: strPtr(RoleAdmin)}

	t.Run("UserChangingOwnRoleDenied", func(t *testing.T) {
		d := CanApplyPatch(auth.Principal{ID: 5, Role: RoleUser}, 5, rolePatch)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonRoleChangeNeedsAdmin, d.Reason)
	})

	t.Run("AdminChangingRoleAllowed", func(t *testing.T) {
		d := CanApplyPatch(auth.Principal{ID: 1, Role: RoleAdmin}, 5, rolePatch)
		assert.True(t, d.Allowed)
	})

	t.Run("OwnershipCheckedFirst", func(t *testing.T) {
		// Non-owner non-admin fails on ownership before the role rule applies.
		d := CanApplyPatch(auth.Principal{ID: 5, Role: RoleUser}, 7, rolePatch)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonNotSelfNotAdmin, d.Reason)
	})

	t.Run("OwnerPatchWithoutRoleAllowed", func(t *testing.T) {
		d := CanApplyPatch(auth.Principal{ID: 5, Role: RoleUser}, 5, UpdateUserRequest{Name: strPtr("New Name")})
		assert.True(t, d.Allowed)
	})
}
