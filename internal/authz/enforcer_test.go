package authz

import (
	"os"
	"path/filepath"
	"testing"

	"eventticketing/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnforcer_EmbeddedPolicy(t *testing.T) {
	e, err := NewEnforcer("")
	require.NoError(t, err)

	tests := []struct {
		role     domain.Role
		resource string
		action   string
		want     bool
	}{
		{domain.RoleUser, domain.ResourceEvent, domain.ActionCreate, false},
		{domain.RoleUser, domain.ResourceEvent, domain.ActionListManaged, false},
		{domain.RoleOrganizer, domain.ResourceEvent, domain.ActionCreate, true},
		{domain.RoleAdmin, domain.ResourceEvent, domain.ActionDelete, true},
		{domain.RoleUser, domain.ResourceBooking, domain.ActionCreate, true},
		{domain.RoleOrganizer, domain.ResourceBooking, domain.ActionCancel, true},
		{domain.RoleUser, domain.ResourceNotification, domain.ActionRead, true},
		{domain.RoleAdmin, domain.ResourceDashboard, domain.ActionAdmin, true},
		{domain.RoleOrganizer, domain.ResourceDashboard, domain.ActionAdmin, false},
		{domain.RoleOrganizer, domain.ResourceDashboard, domain.ActionOrganizer, true},
		{domain.RoleAdmin, domain.ResourceDashboard, domain.ActionOrganizer, false},
		{domain.RoleUser, domain.ResourceDashboard, domain.ActionUser, true},
		{domain.Role("guest"), domain.ResourceBooking, domain.ActionList, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role)+"/"+tt.resource+"/"+tt.action, func(t *testing.T) {
			got, err := e.Allowed(tt.role, tt.resource, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnforcer_PolicyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.csv")
	require.NoError(t, os.WriteFile(path, []byte("p, user, event, create\n"), 0o600))

	e, err := NewEnforcer(path)
	require.NoError(t, err)

	ok, err := e.Allowed(domain.RoleUser, domain.ResourceEvent, domain.ActionCreate)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = e.Allowed(domain.RoleUser, domain.ResourceBooking, domain.ActionCreate)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEnforcer_MissingPolicyFile(t *testing.T) {
	_, err := NewEnforcer(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestLoadPolicy_Malformed(t *testing.T) {
	e, err := NewEnforcer("")
	require.NoError(t, err)
	require.Error(t, loadPolicy(e.enforcer, "p, admin, event\n"))
}
