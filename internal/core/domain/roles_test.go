package domain_test

import (
	"testing"

	"tabitha-home/internal/core/domain"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  domain.Role
		ok    bool
	}{
		{"super_admin", domain.RoleSuperAdmin, true},
		{"superadmin", domain.RoleSuperAdmin, true},
		{"SUPERADMIN", domain.RoleSuperAdmin, true},
		{" admin ", domain.RoleAdmin, true},
		{"manager", domain.RoleManager, true},
		{"staff", domain.RoleStaff, true},
		{"volunteer", domain.RoleVolunteer, true},
		{"read_only", domain.RoleReadOnly, true},
		{"readonly", domain.RoleReadOnly, true},
		{"owner", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := domain.ParseRole(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthorize(t *testing.T) {
	viewChildren := domain.Capability{Module: domain.ModuleChildren, Action: domain.ActionView}
	manageStaff := domain.Capability{Module: domain.ModuleStaff, Action: domain.ActionManage}

	tests := []struct {
		name        string
		role        domain.Role
		permissions []string
		cap         domain.Capability
		want        bool
	}{
		{
			name: "super_admin always allowed",
			role: domain.RoleSuperAdmin,
			cap:  manageStaff,
			want: true,
		},
		{
			name:        "admin allowed even without explicit permission",
			role:        domain.RoleAdmin,
			permissions: []string{},
			cap:         manageStaff,
			want:        true,
		},
		{
			name:        "permission all grants anything",
			role:        domain.RoleVolunteer,
			permissions: []string{domain.PermissionAll},
			cap:         manageStaff,
			want:        true,
		},
		{
			name:        "explicit permission grants the capability",
			role:        domain.RoleStaff,
			permissions: []string{"view_children"},
			cap:         viewChildren,
			want:        true,
		},
		{
			name:        "missing permission denies",
			role:        domain.RoleStaff,
			permissions: []string{"view_children"},
			cap:         manageStaff,
			want:        false,
		},
		{
			name:        "volunteer without permission denied",
			role:        domain.RoleVolunteer,
			permissions: []string{"view_children"},
			cap:         manageStaff,
			want:        false,
		},
		{
			name: "read_only with nothing denied",
			role: domain.RoleReadOnly,
			cap:  viewChildren,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reason := domain.Authorize(tt.role, tt.permissions, tt.cap)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, reason)
		})
	}
}

func TestDefaultPermissions(t *testing.T) {
	assert.Equal(t, []string{domain.PermissionAll}, domain.DefaultPermissions(domain.RoleSuperAdmin))
	assert.Contains(t, domain.DefaultPermissions(domain.RoleAdmin), "manage_children")
	assert.Contains(t, domain.DefaultPermissions(domain.RoleManager), "create_children")
	assert.NotContains(t, domain.DefaultPermissions(domain.RoleManager), "manage_staff")
	assert.Equal(t, []string{"view_children"}, domain.DefaultPermissions(domain.RoleVolunteer))
	assert.Nil(t, domain.DefaultPermissions(domain.Role("bogus")))
}

func TestCapabilityPermission(t *testing.T) {
	cap := domain.Capability{Module: domain.ModuleChildren, Action: domain.ActionView}
	assert.Equal(t, "view_children", cap.Permission())
}

func TestValidValue(t *testing.T) {
	assert.True(t, domain.ValidValue(domain.Genders, "Male"))
	assert.True(t, domain.ValidValue(domain.Genders, ""), "empty values pass, required-ness is separate")
	assert.False(t, domain.ValidValue(domain.Genders, "Unknown"))
	assert.True(t, domain.ValidValue(domain.ChildStatuses, "Family Reunification"))
}
