package handlers

import (
	"errors"
	"strconv"
	"strings"

	"tabitha-home/internal/adapters/http/middleware"
	"tabitha-home/internal/adapters/persistence/repositories"
	"tabitha-home/internal/config"
	"tabitha-home/internal/core/domain"
	"tabitha-home/internal/core/services"
	"tabitha-home/internal/pkg/pagination"
	"tabitha-home/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication and account administration endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles staff login
// @Summary Login staff
// @Description Authenticate a staff account and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 423 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	input := &services.LoginInput{
		Email:    strings.TrimSpace(strings.ToLower(req.Email)),
		Password: req.Password,
	}

	result, err := h.authService.Login(c.Context(), input)
	if err != nil {
		var locked *services.AccountLockedError
		switch {
		case errors.As(err, &locked):
			return response.Locked(c, "Account locked due to repeated failed logins, try again in "+
				strconv.Itoa(locked.RetryMinutes())+" minutes")
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid email or password")
		case errors.Is(err, domain.ErrAccountInactive):
			return response.Forbidden(c, "Account is deactivated")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	return response.Success(c, "Login successful", fiber.Map{
		"token":                result.Token,
		"staff":                result.Staff,
		"must_change_password": result.MustChangePassword,
	})
}

// Logout handles staff logout
// @Summary Logout staff
// @Description Tokens are stateless; logout is client-side discard
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return response.Success(c, "Logged out successfully", nil)
}

// Me returns the authenticated account
// @Summary Get current staff
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	staff, err := h.authService.VerifyToken(c.Context(), bearerToken(c))
	if err != nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	return response.Success(c, "Current staff retrieved", staff.ToResponse())
}

// UpdatePasswordRequest represents the password change body
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// UpdatePassword changes the caller's own password
// @Summary Update own password
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpdatePasswordRequest true "Password change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/update-password [patch]
func (h *AuthHandler) UpdatePassword(c *fiber.Ctx) error {
	var req UpdatePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	// Current password may be empty when the account is still on a
	// temporary one; the service decides whether to require it.
	if req.NewPassword == "" {
		return response.BadRequest(c, "New password is required")
	}

	err := h.authService.ChangePassword(c.Context(), middleware.StaffID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWrongPassword):
			return response.Unauthorized(c, "Current password is incorrect")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "New password must be at least 8 characters")
		case errors.Is(err, domain.ErrAccountNotFound):
			return response.NotFound(c, "Account not found")
		default:
			return response.InternalServerError(c, "Failed to update password")
		}
	}

	return response.Success(c, "Password updated successfully", nil)
}

// UpdateMe updates the caller's own contact details
// @Summary Update own profile
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateMeInput true "Profile update"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/update-me [patch]
func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	var input services.UpdateMeInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	result, err := h.authService.UpdateMe(c.Context(), middleware.StaffID(c), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid profile data")
		case errors.Is(err, domain.ErrAccountNotFound):
			return response.NotFound(c, "Account not found")
		default:
			return response.InternalServerError(c, "Failed to update profile")
		}
	}

	return response.Success(c, "Profile updated successfully", result)
}

// CreateUser creates a staff account
// @Summary Create staff account
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateAccountInput true "Account data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/users [post]
func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	var input services.CreateAccountInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if input.FirstName == "" || input.LastName == "" {
		return response.BadRequest(c, "First and last name are required")
	}
	if input.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if input.Role == "" {
		return response.BadRequest(c, "Role is required")
	}
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	result, err := h.authService.CreateAccount(c.Context(), &input, middleware.StaffID(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRole):
			return response.BadRequest(c, "Invalid role")
		case errors.Is(err, domain.ErrEmailTaken):
			return response.Conflict(c, "Email already registered")
		case errors.Is(err, domain.ErrNinTaken):
			return response.Conflict(c, "NIN already registered")
		default:
			return response.InternalServerError(c, "Failed to create account")
		}
	}

	return response.Created(c, "Staff account created", result)
}

// ListUsers lists staff accounts
// @Summary List staff accounts
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Param search query string false "Search"
// @Param role query string false "Role"
// @Param is_active query bool false "Active filter"
// @Success 200 {object} response.Response
// @Router /auth/users [get]
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	filter := repositories.StaffFilter{
		Search:     c.Query("search"),
		Role:       c.Query("role"),
		Department: c.Query("department"),
	}
	if v := c.Query("is_active"); v != "" {
		active := v == "true"
		filter.IsActive = &active
	}

	users, total, err := h.authService.ListAccounts(c.Context(), filter, params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list accounts")
	}

	return response.Success(c, "Accounts retrieved", fiber.Map{
		"users": users,
		"meta":  pagination.GetMeta(params, total),
	})
}

// ActivateUser reactivates a staff account
// @Summary Activate staff account
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Router /auth/users/{id}/activate [patch]
func (h *AuthHandler) ActivateUser(c *fiber.Ctx) error {
	return h.setUserActive(c, true, "Account activated")
}

// DeactivateUser deactivates a staff account
// @Summary Deactivate staff account
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Router /auth/users/{id}/deactivate [patch]
func (h *AuthHandler) DeactivateUser(c *fiber.Ctx) error {
	return h.setUserActive(c, false, "Account deactivated")
}

func (h *AuthHandler) setUserActive(c *fiber.Ctx, active bool, message string) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	result, err := h.authService.SetActive(c.Context(), id, active, middleware.Role(c))
	if err != nil {
		return h.adminActionError(c, err)
	}

	return response.Success(c, message, result)
}

// UnlockUser clears an account lockout
// @Summary Unlock staff account
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Router /auth/users/{id}/unlock [patch]
func (h *AuthHandler) UnlockUser(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	result, err := h.authService.Unlock(c.Context(), id, middleware.Role(c))
	if err != nil {
		return h.adminActionError(c, err)
	}

	return response.Success(c, "Account unlocked", result)
}

// ResetUserPassword issues a new temporary password
// @Summary Reset staff password
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.Response
// @Router /auth/users/{id}/reset-password [patch]
func (h *AuthHandler) ResetUserPassword(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid account ID")
	}

	tempPassword, err := h.authService.ResetPassword(c.Context(), id, middleware.Role(c))
	if err != nil {
		return h.adminActionError(c, err)
	}

	return response.Success(c, "Password reset, share the temporary password securely", fiber.Map{
		"temporary_password": tempPassword,
	})
}

func (h *AuthHandler) adminActionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return response.NotFound(c, "Account not found")
	case errors.Is(err, domain.ErrSuperAdminTarget):
		return response.Forbidden(c, "Only a super admin can modify a super admin account")
	default:
		return response.InternalServerError(c, "Failed to update account")
	}
}

// bearerToken extracts the raw bearer token from the request
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// parseID parses a numeric route parameter
func parseID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
