package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleManager, RoleEmployee} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, Role("guest").Valid())
	assert.False(t, Role("").Valid())
}

func TestSession_Permissions(t *testing.T) {
	tests := []struct {
		role      Role
		admin     bool
		simulates bool
	}{
		{RoleAdmin, true, true},
		{RoleManager, false, false},
		{RoleEmployee, false, false},
	}
	for _, tt := range tests {
		s := Session{ID: "s", UserID: "u", Role: tt.role}
		assert.Equal(t, tt.admin, s.IsAdmin(), tt.role)
		assert.Equal(t, tt.simulates, s.CanSimulateManager(), tt.role)
	}
}
