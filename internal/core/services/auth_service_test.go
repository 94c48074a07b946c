package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tabitha-home/internal/adapters/persistence/repositories"
	"tabitha-home/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, repositories.StaffRepository) {
	t.Helper()

	db := newTestDB(t)
	staffRepo := repositories.NewStaffRepository(db)
	sequenceRepo := repositories.NewSequenceRepository(db)

	return NewAuthService(staffRepo, sequenceRepo, testConfig()), staffRepo
}

func seedAccount(t *testing.T, svc *AuthService, email, role string) (uint, string) {
	t.Helper()

	result, err := svc.CreateAccount(context.Background(), &CreateAccountInput{
		FirstName:   "Grace",
		LastName:    "Adeyemi",
		Email:       email,
		Phone:       "08012345678",
		DateOfBirth: time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC),
		Gender:      "Female",
		Position:    "Social Worker",
		Department:  "Social Services",
		Role:        role,
	}, 0)
	require.NoError(t, err)

	return result.Staff.ID, result.TemporaryPassword
}

func TestCreateAccount(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	result, err := svc.CreateAccount(ctx, &CreateAccountInput{
		FirstName:   "Grace",
		LastName:    "Adeyemi",
		Email:       "grace@tabithahome.org",
		Phone:       "08012345678",
		DateOfBirth: time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC),
		Gender:      "Female",
		Position:    "Social Worker",
		Department:  "Social Services",
		Role:        "manager",
	}, 0)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("THS-%d-001", time.Now().Year()), result.Staff.EmployeeID)
	assert.Equal(t, "manager", result.Staff.Role)
	assert.True(t, result.Staff.PasswordMustChange)
	assert.NotEmpty(t, result.TemporaryPassword)
	assert.Contains(t, result.Staff.Permissions, "view_children")

	t.Run("duplicate email rejected", func(t *testing.T) {
		_, err := svc.CreateAccount(ctx, &CreateAccountInput{
			FirstName: "Other", LastName: "Person",
			Email: "grace@tabithahome.org", Phone: "0", Gender: "Male",
			Position: "Nurse", Department: "Medical", Role: "staff",
			DateOfBirth: time.Date(1991, 1, 1, 0, 0, 0, 0, time.UTC),
		}, 0)
		assert.ErrorIs(t, err, domain.ErrEmailTaken)
	})

	t.Run("invalid role rejected", func(t *testing.T) {
		_, err := svc.CreateAccount(ctx, &CreateAccountInput{
			FirstName: "Other", LastName: "Person",
			Email: "other@tabithahome.org", Phone: "0", Gender: "Male",
			Position: "Nurse", Department: "Medical", Role: "overlord",
			DateOfBirth: time.Date(1991, 1, 1, 0, 0, 0, 0, time.UTC),
		}, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidRole)
	})

	t.Run("legacy superadmin spelling normalised", func(t *testing.T) {
		res, err := svc.CreateAccount(ctx, &CreateAccountInput{
			FirstName: "Root", LastName: "Admin",
			Email: "root@tabithahome.org", Phone: "0", Gender: "Male",
			Position: "Director", Department: "Administration", Role: "superadmin",
			DateOfBirth: time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
		}, 0)
		require.NoError(t, err)
		assert.Equal(t, "super_admin", res.Staff.Role)
	})
}

func TestLoginSuccess(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, tempPassword := seedAccount(t, svc, "grace@tabithahome.org", "staff")

	result, err := svc.Login(ctx, &LoginInput{Email: "grace@tabithahome.org", Password: tempPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.MustChangePassword)
	assert.NotNil(t, result.Staff.LastLogin)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), &LoginInput{Email: "nobody@tabithahome.org", Password: "whatever"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginLockout(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, tempPassword := seedAccount(t, svc, "grace@tabithahome.org", "staff")

	// Four failures stay plain invalid-credential errors
	for i := 0; i < MaxLoginAttempts-1; i++ {
		_, err := svc.Login(ctx, &LoginInput{Email: "grace@tabithahome.org", Password: "wrong"})
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}

	// The fifth failure locks the account
	_, err := svc.Login(ctx, &LoginInput{Email: "grace@tabithahome.org", Password: "wrong"})
	var locked *AccountLockedError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, 30, locked.RetryMinutes())

	// Even the correct password is rejected while locked
	_, err = svc.Login(ctx, &LoginInput{Email: "grace@tabithahome.org", Password: tempPassword})
	require.ErrorAs(t, err, &locked)

	// After the window passes the lock clears lazily and login succeeds
	svc.now = func() time.Time { return time.Now().Add(LockoutDuration + time.Minute) }
	result, err := svc.Login(ctx, &LoginInput{Email: "grace@tabithahome.org", Password: tempPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	// And the counter restarts from zero
	svc.now = time.Now
	_, err = svc.Login(ctx, &LoginInput{Email: "grace@tabithahome.org", Password: "wrong"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, staffRepo := newAuthService(t)
	ctx := context.Background()

	id, tempPassword := seedAccount(t, svc, "grace@tabithahome.org", "staff")

	staff, err := staffRepo.GetByID(ctx, id)
	require.NoError(t, err)
	staff.IsActive = false
	require.NoError(t, staffRepo.Update(ctx, staff))

	_, err = svc.Login(ctx, &LoginInput{Email: "grace@tabithahome.org", Password: tempPassword})
	assert.ErrorIs(t, err, domain.ErrAccountInactive)
}

func TestVerifyTokenLifecycle(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, tempPassword := seedAccount(t, svc, "grace@tabithahome.org", "staff")

	login, err := svc.Login(ctx, &LoginInput{Email: "grace@tabithahome.org", Password: tempPassword})
	require.NoError(t, err)

	staff, err := svc.VerifyToken(ctx, login.Token)
	require.NoError(t, err)
	assert.Equal(t, "grace@tabithahome.org", staff.Email)

	// A password change invalidates tokens issued before it. The change
	// timestamp is backdated one second, so step well past it.
	time.Sleep(1500 * time.Millisecond)
	require.NoError(t, svc.ChangePassword(ctx, staff.ID, tempPassword, "new-password-1"))

	_, err = svc.VerifyToken(ctx, login.Token)
	assert.ErrorIs(t, err, domain.ErrPasswordChanged)

	// Logging in with the new password issues a working token
	relogin, err := svc.Login(ctx, &LoginInput{Email: "grace@tabithahome.org", Password: "new-password-1"})
	require.NoError(t, err)
	assert.False(t, relogin.MustChangePassword)

	_, err = svc.VerifyToken(ctx, relogin.Token)
	assert.NoError(t, err)
}

func TestVerifyTokenDeactivatedAccount(t *testing.T) {
	svc, staffRepo := newAuthService(t)
	ctx := context.Background()

	id, tempPassword := seedAccount(t, svc, "grace@tabithahome.org", "staff")

	login, err := svc.Login(ctx, &LoginInput{Email: "grace@tabithahome.org", Password: tempPassword})
	require.NoError(t, err)

	_, err = svc.VerifyToken(ctx, login.Token)
	require.NoError(t, err)

	// Deactivation rejects a token that is otherwise still valid
	staff, err := staffRepo.GetByID(ctx, id)
	require.NoError(t, err)
	staff.IsActive = false
	require.NoError(t, staffRepo.Update(ctx, staff))

	_, err = svc.VerifyToken(ctx, login.Token)
	assert.ErrorIs(t, err, domain.ErrAccountInactive)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	id, _ := seedAccount(t, svc, "grace@tabithahome.org", "staff")

	t.Run("too short new password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, id, "", "short")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("temporary password skips current check", func(t *testing.T) {
		err := svc.ChangePassword(ctx, id, "", "new-password-1")
		assert.NoError(t, err)
	})

	t.Run("wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, id, "not-the-password", "new-password-2")
		assert.ErrorIs(t, err, domain.ErrWrongPassword)
	})

	t.Run("correct current password", func(t *testing.T) {
		err := svc.ChangePassword(ctx, id, "new-password-1", "new-password-2")
		assert.NoError(t, err)
	})
}

func TestAdminActionsOnSuperAdmin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	id, _ := seedAccount(t, svc, "root@tabithahome.org", "super_admin")

	// An admin cannot touch a super_admin account
	_, err := svc.SetActive(ctx, id, false, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrSuperAdminTarget)

	_, err = svc.ResetPassword(ctx, id, domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrSuperAdminTarget)

	// A super_admin can
	result, err := svc.SetActive(ctx, id, false, domain.RoleSuperAdmin)
	require.NoError(t, err)
	assert.False(t, result.IsActive)
}

func TestResetPasswordClearsLockAndForcesChange(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	id, _ := seedAccount(t, svc, "grace@tabithahome.org", "staff")

	// Lock the account the honest way
	for i := 0; i < MaxLoginAttempts; i++ {
		_, _ = svc.Login(ctx, &LoginInput{Email: "grace@tabithahome.org", Password: "wrong"})
	}

	tempPassword, err := svc.ResetPassword(ctx, id, domain.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, tempPassword)

	result, err := svc.Login(ctx, &LoginInput{Email: "grace@tabithahome.org", Password: tempPassword})
	require.NoError(t, err)
	assert.True(t, result.MustChangePassword)
}
