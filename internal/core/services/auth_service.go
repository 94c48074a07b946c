package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"tabitha-home/internal/adapters/persistence/models"
	"tabitha-home/internal/adapters/persistence/repositories"
	"tabitha-home/internal/config"
	"tabitha-home/internal/core/domain"
	"tabitha-home/internal/pkg/jwt"
	"tabitha-home/internal/pkg/password"

	"gorm.io/gorm"
)

const (
	// MaxLoginAttempts is the failure count that triggers a lockout
	MaxLoginAttempts = 5

	// LockoutDuration is how long a locked account stays locked
	LockoutDuration = 30 * time.Minute
)

// AccountLockedError carries the remaining lockout window so the handler
// can tell the caller when to retry.
type AccountLockedError struct {
	Remaining time.Duration
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked, try again in %d minutes", e.RetryMinutes())
}

// RetryMinutes returns the remaining lockout rounded up to whole minutes
func (e *AccountLockedError) RetryMinutes() int {
	mins := int((e.Remaining + time.Minute - 1) / time.Minute)
	if mins < 1 {
		mins = 1
	}
	return mins
}

// AuthService handles authentication and account administration
type AuthService struct {
	staffRepo    repositories.StaffRepository
	sequenceRepo repositories.SequenceRepository
	cfg          *config.Config
	now          func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(
	staffRepo repositories.StaffRepository,
	sequenceRepo repositories.SequenceRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		staffRepo:    staffRepo,
		sequenceRepo: sequenceRepo,
		cfg:          cfg,
		now:          time.Now,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents a successful authentication
type AuthResponse struct {
	Staff              *models.StaffResponse `json:"staff"`
	Token              string                `json:"token"`
	MustChangePassword bool                  `json:"must_change_password"`
}

// Login authenticates a staff account. Failed attempts are counted and
// the account locks for LockoutDuration after MaxLoginAttempts failures.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	now := s.now()

	// 1. Find account by email
	staff, err := s.staffRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Reject while a lockout window is still open
	if staff.AccountLocked && staff.AccountLockedUntil != nil && now.Before(*staff.AccountLockedUntil) {
		return nil, &AccountLockedError{Remaining: staff.AccountLockedUntil.Sub(now)}
	}

	// 3. Clear an expired lockout before counting this attempt
	if staff.LockExpired(now) {
		staff.AccountLocked = false
		staff.AccountLockedUntil = nil
		staff.LoginAttempts = 0
	}

	// 4. Verify password; a failure increments the counter and may lock
	if !password.Verify(input.Password, staff.Password) {
		staff.LoginAttempts++
		if staff.LoginAttempts >= MaxLoginAttempts {
			until := now.Add(LockoutDuration)
			staff.AccountLocked = true
			staff.AccountLockedUntil = &until
			log.Printf("🔒 Account locked after %d failed attempts: %s", staff.LoginAttempts, staff.Email)
		}
		if err := s.staffRepo.Update(ctx, staff); err != nil {
			return nil, err
		}
		if staff.AccountLocked {
			return nil, &AccountLockedError{Remaining: LockoutDuration}
		}
		return nil, domain.ErrInvalidCredentials
	}

	// 5. Check account is active
	if !staff.IsActive {
		return nil, domain.ErrAccountInactive
	}

	// 6. Successful login resets the lockout state
	staff.LoginAttempts = 0
	staff.AccountLocked = false
	staff.AccountLockedUntil = nil
	staff.LastLogin = &now
	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, err
	}

	// 7. Issue token
	token, err := jwt.Generate(staff.ID, staff.Role, s.cfg.JWT.Secret, s.cfg.JWT.ExpiryDays)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Staff logged in: %s (%s)", staff.Email, staff.EmployeeID)

	return &AuthResponse{
		Staff:              staff.ToResponse(),
		Token:              token,
		MustChangePassword: staff.PasswordMustChange,
	}, nil
}

// VerifyToken validates a bearer token and returns the live account it
// belongs to. Tokens issued before the last password change are rejected.
func (s *AuthService) VerifyToken(ctx context.Context, tokenString string) (*models.Staff, error) {
	// 1. Validate signature and expiry
	claims, err := jwt.Validate(tokenString, s.cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}

	// 2. Account must still exist
	staff, err := s.staffRepo.GetByID(ctx, claims.StaffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	// 3. Account must still be active
	if !staff.IsActive {
		return nil, domain.ErrAccountInactive
	}

	// 4. Token must postdate the last password change
	if claims.IssuedAt != nil && staff.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, domain.ErrPasswordChanged
	}

	return staff, nil
}

// ChangePassword is the credential-change path. It is the only place,
// together with account creation and reset, where the hasher runs.
func (s *AuthService) ChangePassword(ctx context.Context, staffID uint, currentPassword, newPassword string) error {
	// 1. Validate new password
	if !password.Validate(newPassword) {
		return domain.ErrInvalidInput
	}

	// 2. Load account
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrAccountNotFound
		}
		return err
	}

	// 3. Verify current password. An account still on its temporary
	// password skips this check, it only knows the one credential.
	if !staff.PasswordMustChange && !password.Verify(currentPassword, staff.Password) {
		return domain.ErrWrongPassword
	}

	// 4. Hash and store. changed_at is backdated one second so the token
	// issued for this very request stays valid.
	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	changedAt := s.now().Add(-time.Second)
	staff.Password = hashed
	staff.PasswordChangedAt = &changedAt
	staff.PasswordMustChange = false

	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return err
	}

	log.Printf("✅ Password changed: %s", staff.Email)
	return nil
}

// UpdateMeInput is the self-service profile update payload. Only these
// contact fields may be changed; role, permissions, and credentials have
// their own guarded paths.
type UpdateMeInput struct {
	FirstName        string                   `json:"first_name"`
	LastName         string                   `json:"last_name"`
	Phone            string                   `json:"phone"`
	MaritalStatus    string                   `json:"marital_status"`
	Address          *models.Address          `json:"address"`
	EmergencyContact *models.EmergencyContact `json:"emergency_contact"`
}

// UpdateMe updates the caller's own contact details
func (s *AuthService) UpdateMe(ctx context.Context, staffID uint, input *UpdateMeInput) (*models.StaffResponse, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	if input.FirstName != "" {
		staff.FirstName = input.FirstName
	}
	if input.LastName != "" {
		staff.LastName = input.LastName
	}
	if input.Phone != "" {
		staff.Phone = input.Phone
	}
	if input.MaritalStatus != "" {
		if !domain.ValidValue(domain.MaritalStatuses, input.MaritalStatus) {
			return nil, domain.ErrInvalidInput
		}
		staff.MaritalStatus = input.MaritalStatus
	}
	if input.Address != nil {
		staff.Address = *input.Address
	}
	if input.EmergencyContact != nil {
		staff.EmergencyContact = *input.EmergencyContact
	}
	staff.LastModifiedByID = &staffID

	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, err
	}

	return staff.ToResponse(), nil
}

// CreateAccountInput represents the account creation payload
type CreateAccountInput struct {
	FirstName        string                   `json:"first_name" validate:"required"`
	LastName         string                   `json:"last_name" validate:"required"`
	Email            string                   `json:"email" validate:"required,email"`
	Phone            string                   `json:"phone" validate:"required"`
	DateOfBirth      time.Time                `json:"date_of_birth" validate:"required"`
	Gender           string                   `json:"gender" validate:"required"`
	MaritalStatus    string                   `json:"marital_status"`
	NIN              *string                  `json:"nin"`
	Address          models.Address           `json:"address"`
	EmergencyContact models.EmergencyContact  `json:"emergency_contact"`
	Position         string                   `json:"position" validate:"required"`
	Department       string                   `json:"department" validate:"required"`
	DateHired        time.Time                `json:"date_hired"`
	EmploymentType   string                   `json:"employment_type"`
	Salary           float64                  `json:"salary"`
	Role             string                   `json:"role" validate:"required"`
	Permissions      []string                 `json:"permissions"`
}

// CreateAccountResponse carries the new account and its one-time password
type CreateAccountResponse struct {
	Staff             *models.StaffResponse `json:"staff"`
	TemporaryPassword string                `json:"temporary_password"`
}

// CreateAccount creates a staff account with a generated employee
// identifier and temporary password. The account must change its
// password on first login.
func (s *AuthService) CreateAccount(ctx context.Context, input *CreateAccountInput, creatorID uint) (*CreateAccountResponse, error) {
	// 1. Normalize role
	role, ok := domain.ParseRole(input.Role)
	if !ok {
		return nil, domain.ErrInvalidRole
	}

	// 2. Check email is free
	exists, err := s.staffRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrEmailTaken
	}

	// 3. Check NIN is free
	if input.NIN != nil && *input.NIN != "" {
		exists, err = s.staffRepo.ExistsByNIN(ctx, *input.NIN)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrNinTaken
		}
	}

	// 4. Allocate employee identifier
	employeeID, err := s.sequenceRepo.NextID(ctx, models.EntityStaff, models.StaffIDPrefix, s.now().Year())
	if err != nil {
		return nil, err
	}

	// 5. Generate and hash temporary password
	tempPassword, err := password.GenerateTemporary(input.FirstName, input.LastName)
	if err != nil {
		return nil, err
	}
	hashed, err := password.Hash(tempPassword)
	if err != nil {
		return nil, err
	}

	// 6. Permissions default from role unless explicitly provided
	perms := input.Permissions
	if len(perms) == 0 {
		perms = domain.DefaultPermissions(role)
	}

	dateHired := input.DateHired
	if dateHired.IsZero() {
		dateHired = s.now()
	}

	employmentType := input.EmploymentType
	if employmentType == "" {
		employmentType = "Full-time"
	}

	// 7. Create account
	staff := &models.Staff{
		EmployeeID:         employeeID,
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		Email:              input.Email,
		Phone:              input.Phone,
		DateOfBirth:        input.DateOfBirth,
		Gender:             input.Gender,
		MaritalStatus:      input.MaritalStatus,
		NIN:                input.NIN,
		Address:            input.Address,
		EmergencyContact:   input.EmergencyContact,
		Position:           input.Position,
		Department:         input.Department,
		DateHired:          dateHired,
		EmploymentStatus:   "Active",
		EmploymentType:     employmentType,
		Salary:             input.Salary,
		Role:               string(role),
		Permissions:        perms,
		IsActive:           true,
		Password:           hashed,
		PasswordMustChange: true,
		CreatedByID:        &creatorID,
	}

	if err := s.staffRepo.Create(ctx, staff); err != nil {
		return nil, err
	}

	log.Printf("✅ Staff account created: %s (%s)", staff.Email, staff.EmployeeID)

	return &CreateAccountResponse{
		Staff:             staff.ToResponse(),
		TemporaryPassword: tempPassword,
	}, nil
}

// ListAccounts lists staff accounts with filters and pagination
func (s *AuthService) ListAccounts(ctx context.Context, filter repositories.StaffFilter, offset, limit int) ([]*models.StaffResponse, int64, error) {
	staff, total, err := s.staffRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.StaffResponse, len(staff))
	for i, st := range staff {
		responses[i] = st.ToResponse()
	}
	return responses, total, nil
}

// SetActive activates or deactivates an account. Deactivation of a
// super_admin account requires a super_admin actor.
func (s *AuthService) SetActive(ctx context.Context, targetID uint, active bool, actorRole domain.Role) (*models.StaffResponse, error) {
	staff, err := s.loadTarget(ctx, targetID, actorRole)
	if err != nil {
		return nil, err
	}

	staff.IsActive = active
	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, err
	}

	if active {
		log.Printf("✅ Account activated: %s", staff.Email)
	} else {
		log.Printf("⛔ Account deactivated: %s", staff.Email)
	}

	return staff.ToResponse(), nil
}

// Unlock clears a lockout ahead of its expiry
func (s *AuthService) Unlock(ctx context.Context, targetID uint, actorRole domain.Role) (*models.StaffResponse, error) {
	staff, err := s.loadTarget(ctx, targetID, actorRole)
	if err != nil {
		return nil, err
	}

	staff.AccountLocked = false
	staff.AccountLockedUntil = nil
	staff.LoginAttempts = 0

	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, err
	}

	log.Printf("🔓 Account unlocked: %s", staff.Email)
	return staff.ToResponse(), nil
}

// ResetPassword issues a fresh temporary password and flags the account
// to change it on next login. Existing tokens are invalidated.
func (s *AuthService) ResetPassword(ctx context.Context, targetID uint, actorRole domain.Role) (string, error) {
	staff, err := s.loadTarget(ctx, targetID, actorRole)
	if err != nil {
		return "", err
	}

	tempPassword, err := password.GenerateTemporary(staff.FirstName, staff.LastName)
	if err != nil {
		return "", err
	}
	hashed, err := password.Hash(tempPassword)
	if err != nil {
		return "", err
	}

	changedAt := s.now().Add(-time.Second)
	staff.Password = hashed
	staff.PasswordChangedAt = &changedAt
	staff.PasswordMustChange = true
	staff.LoginAttempts = 0
	staff.AccountLocked = false
	staff.AccountLockedUntil = nil

	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return "", err
	}

	log.Printf("🔑 Password reset: %s", staff.Email)
	return tempPassword, nil
}

// loadTarget loads an account for an administrative action, enforcing
// the super_admin protection rule.
func (s *AuthService) loadTarget(ctx context.Context, targetID uint, actorRole domain.Role) (*models.Staff, error) {
	staff, err := s.staffRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	if staff.Role == string(domain.RoleSuperAdmin) && actorRole != domain.RoleSuperAdmin {
		return nil, domain.ErrSuperAdminTarget
	}

	return staff, nil
}
