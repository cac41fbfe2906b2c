package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanRoleGrid(t *testing.T) {
	technicianActions := map[Action]bool{
		ActionStart:    true,
		ActionPause:    true,
		ActionResume:   true,
		ActionComplete: true,
	}

	for _, action := range Actions() {
		assert.True(t, Can(RoleAdmin, action), "admin %q", action)
		assert.True(t, Can(RoleResponsible, action), "responsible %q", action)
		assert.Equal(t, technicianActions[action], Can(RoleTechnician, action), "technician %q", action)
		assert.False(t, Can(RoleClient, action), "client %q", action)
	}
}

func TestCanFailsClosed(t *testing.T) {
	assert.False(t, Can("superuser", ActionAssign))
	assert.False(t, Can(RoleAdmin, "reopen"))
	assert.False(t, Can("", ""))
}
