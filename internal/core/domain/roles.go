package domain

import "strings"

// Role represents a staff member's access level in the system
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleStaff      Role = "staff"
	RoleVolunteer  Role = "volunteer"
	RoleReadOnly   Role = "read_only"
)

// PermissionAll grants every capability regardless of role
const PermissionAll = "all"

// Modules for capability checks
const (
	ModuleChildren = "children"
	ModuleStaff    = "staff"
	ModuleReports  = "reports"
	ModuleSettings = "settings"
)

// Actions for capability checks
const (
	ActionView   = "view"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionManage = "manage"
	ActionExport = "export"
)

// ParseRole normalizes a role string to the canonical enumeration.
// The legacy "superadmin" spelling is accepted and mapped to super_admin.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "super_admin", "superadmin":
		return RoleSuperAdmin, true
	case "admin":
		return RoleAdmin, true
	case "manager":
		return RoleManager, true
	case "staff":
		return RoleStaff, true
	case "volunteer":
		return RoleVolunteer, true
	case "read_only", "readonly":
		return RoleReadOnly, true
	}
	return "", false
}

// IsPrivileged reports whether the role bypasses fine-grained permission
// checks entirely
func (r Role) IsPrivileged() bool {
	return r == RoleSuperAdmin || r == RoleAdmin
}

// DefaultPermissions returns the permission set assigned when an account
// is created with the given role. Explicit permissions may be layered on
// top later via the permissions update endpoint.
func DefaultPermissions(r Role) []string {
	switch r {
	case RoleSuperAdmin:
		return []string{PermissionAll}
	case RoleAdmin:
		return []string{
			"manage_children", "view_children", "create_children", "update_children",
			"manage_staff", "view_staff", "create_staff", "update_staff",
			"view_reports", "create_reports", "export_reports",
			"manage_settings", "view_settings",
		}
	case RoleManager:
		return []string{
			"view_children", "create_children", "update_children",
			"view_staff", "update_staff",
			"view_reports", "create_reports",
		}
	case RoleStaff:
		return []string{
			"view_children", "update_children",
			"view_staff",
			"view_reports", "create_reports",
		}
	case RoleVolunteer:
		return []string{"view_children"}
	case RoleReadOnly:
		return []string{"view_children", "view_reports"}
	}
	return nil
}

// Capability identifies a required permission as a module/action pair
type Capability struct {
	Module string
	Action string
}

// Permission returns the permission string form of the capability,
// e.g. {children view} -> "view_children"
func (c Capability) Permission() string {
	return c.Action + "_" + c.Module
}

// Authorize is the single access-control decision point. Every mutating
// handler consults it through the permission middleware. It returns the
// decision plus a reason string suitable for a 403 response.
func Authorize(role Role, permissions []string, cap Capability) (bool, string) {
	if role == RoleSuperAdmin {
		return true, "role super_admin"
	}

	required := cap.Permission()
	for _, p := range permissions {
		if p == PermissionAll {
			return true, "permission all"
		}
		if p == required {
			return true, "permission " + required
		}
	}

	if role.IsPrivileged() {
		return true, "privileged role " + string(role)
	}

	return false, "missing permission " + required
}
