package middleware

import (
	"errors"
	"strings"

	"tabitha-home/internal/core/domain"
	"tabitha-home/internal/core/services"
	"tabitha-home/internal/pkg/jwt"
	"tabitha-home/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Context local keys set by AuthMiddleware
const (
	LocalStaffID     = "staffID"
	LocalRole        = "role"
	LocalPermissions = "permissions"
)

// AuthMiddleware authenticates the bearer token and loads the live
// account state. Downstream handlers read the locals, never the raw
// token.
func AuthMiddleware(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Extract bearer token
		var token string
		authHeader := c.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if token == "" {
			return response.Unauthorized(c, "Access token required")
		}

		// 2. Verify against the live account
		staff, err := authService.VerifyToken(c.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				return response.Unauthorized(c, "Token expired, please log in again")
			case errors.Is(err, domain.ErrPasswordChanged):
				return response.Unauthorized(c, "Password was changed, please log in again")
			case errors.Is(err, domain.ErrAccountInactive):
				return response.Unauthorized(c, "Account is deactivated")
			case errors.Is(err, domain.ErrAccountNotFound):
				return response.Unauthorized(c, "Account no longer exists")
			default:
				return response.Unauthorized(c, "Invalid access token")
			}
		}

		// 3. Set account info in context
		role, _ := domain.ParseRole(staff.Role)
		c.Locals(LocalStaffID, staff.ID)
		c.Locals(LocalRole, role)
		c.Locals(LocalPermissions, staff.Permissions)

		return c.Next()
	}
}

// RequireCapability gates a route on one module/action capability. The
// decision is made by domain.Authorize; this is the only permission
// check in the request path.
func RequireCapability(module, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(domain.Role)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}
		perms, _ := c.Locals(LocalPermissions).([]string)

		allowed, reason := domain.Authorize(role, perms, domain.Capability{Module: module, Action: action})
		if !allowed {
			return response.Forbidden(c, "You don't have permission to perform this action ("+reason+")")
		}

		return c.Next()
	}
}

// RequireRoles gates a route on an explicit role list
func RequireRoles(roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals(LocalRole).(domain.Role)
		if !ok {
			return response.Unauthorized(c, "Unauthorized")
		}

		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}

		return response.Forbidden(c, "You don't have permission to access this resource")
	}
}

// AdminOnly allows admin and super_admin roles
func AdminOnly() fiber.Handler {
	return RequireRoles(domain.RoleAdmin, domain.RoleSuperAdmin)
}

// StaffID reads the authenticated account ID from context
func StaffID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalStaffID).(uint)
	return id
}

// Role reads the authenticated role from context
func Role(c *fiber.Ctx) domain.Role {
	role, _ := c.Locals(LocalRole).(domain.Role)
	return role
}
