package services

import (
	"context"
	"testing"

	"tabitha-home/internal/adapters/persistence/repositories"
	"tabitha-home/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStaffService(t *testing.T) (*StaffService, *AuthService) {
	t.Helper()

	db := newTestDB(t)
	staffRepo := repositories.NewStaffRepository(db)
	sequenceRepo := repositories.NewSequenceRepository(db)

	cfg := testConfig()
	return NewStaffService(staffRepo), NewAuthService(staffRepo, sequenceRepo, cfg)
}

func TestStaffUpdatePartialFields(t *testing.T) {
	staffSvc, authSvc := newStaffService(t)
	ctx := context.Background()

	id, _ := seedAccount(t, authSvc, "grace@tabithahome.org", "staff")

	position := "Nurse"
	department := "Medical"
	updated, err := staffSvc.Update(ctx, id, &UpdateStaffInput{
		Position:   &position,
		Department: &department,
	}, id)
	require.NoError(t, err)
	assert.Equal(t, "Nurse", updated.Position)
	assert.Equal(t, "Medical", updated.Department)
	// Untouched fields survive
	assert.Equal(t, "Grace", updated.FirstName)

	bad := "Astronaut"
	_, err = staffSvc.Update(ctx, id, &UpdateStaffInput{Position: &bad}, id)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStaffTerminateKeepsRecord(t *testing.T) {
	staffSvc, authSvc := newStaffService(t)
	ctx := context.Background()

	id, _ := seedAccount(t, authSvc, "grace@tabithahome.org", "staff")

	result, err := staffSvc.Terminate(ctx, id, domain.RoleAdmin, 1)
	require.NoError(t, err)
	assert.Equal(t, "Terminated", result.EmploymentStatus)
	assert.False(t, result.IsActive)

	// The record is still retrievable
	loaded, err := staffSvc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Terminated", loaded.EmploymentStatus)
}

func TestStaffTerminateSuperAdminProtected(t *testing.T) {
	staffSvc, authSvc := newStaffService(t)
	ctx := context.Background()

	id, _ := seedAccount(t, authSvc, "root@tabithahome.org", "super_admin")

	_, err := staffSvc.Terminate(ctx, id, domain.RoleAdmin, 1)
	assert.ErrorIs(t, err, domain.ErrSuperAdminTarget)

	_, err = staffSvc.Terminate(ctx, id, domain.RoleSuperAdmin, 1)
	assert.NoError(t, err)
}

func TestStaffUpdatePermissions(t *testing.T) {
	staffSvc, authSvc := newStaffService(t)
	ctx := context.Background()

	id, _ := seedAccount(t, authSvc, "grace@tabithahome.org", "volunteer")

	perms := []string{"view_children", "view_reports"}
	updated, err := staffSvc.UpdatePermissions(ctx, id, perms, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, perms, updated.Permissions)
	// Role is untouched by a permission update
	assert.Equal(t, "volunteer", updated.Role)
}

func TestStaffStats(t *testing.T) {
	staffSvc, authSvc := newStaffService(t)
	ctx := context.Background()

	seedAccount(t, authSvc, "a@tabithahome.org", "staff")
	seedAccount(t, authSvc, "b@tabithahome.org", "staff")
	id, _ := seedAccount(t, authSvc, "c@tabithahome.org", "manager")

	_, err := staffSvc.Terminate(ctx, id, domain.RoleAdmin, 1)
	require.NoError(t, err)

	stats, err := staffSvc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalActive)
	assert.Equal(t, int64(2), stats.ByRole["staff"])
	assert.Zero(t, stats.ByRole["manager"])
}
