package config

import (
	"context"
	"log"
	"time"

	"tabitha-home/internal/adapters/persistence/models"
	"tabitha-home/internal/adapters/persistence/repositories"
	"tabitha-home/internal/core/domain"
	"tabitha-home/internal/pkg/password"

	"gorm.io/gorm"
)

// SeedSuperAdmin bootstraps the first super_admin account. It runs on
// every startup and is a no-op once any super_admin exists. The
// generated temporary password is printed once and must be changed on
// first login.
func SeedSuperAdmin(db *gorm.DB) error {
	var count int64
	err := db.Model(&models.Staff{}).
		Where("role = ?", string(domain.RoleSuperAdmin)).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	ctx := context.Background()
	seqRepo := repositories.NewSequenceRepository(db)

	employeeID, err := seqRepo.NextID(ctx, models.EntityStaff, models.StaffIDPrefix, time.Now().Year())
	if err != nil {
		return err
	}

	firstName := getEnv("SEED_ADMIN_FIRST_NAME", "System")
	lastName := getEnv("SEED_ADMIN_LAST_NAME", "Administrator")
	email := getEnv("SEED_ADMIN_EMAIL", "admin@tabithahome.org")

	tempPassword, err := password.GenerateTemporary(firstName, lastName)
	if err != nil {
		return err
	}
	hashed, err := password.Hash(tempPassword)
	if err != nil {
		return err
	}

	admin := &models.Staff{
		EmployeeID:         employeeID,
		FirstName:          firstName,
		LastName:           lastName,
		Email:              email,
		Phone:              "0000000000",
		DateOfBirth:        time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
		Gender:             "Male",
		Position:           "System Administrator",
		Department:         "Administration",
		DateHired:          time.Now(),
		EmploymentStatus:   "Active",
		EmploymentType:     "Full-time",
		Role:               string(domain.RoleSuperAdmin),
		Permissions:        domain.DefaultPermissions(domain.RoleSuperAdmin),
		IsActive:           true,
		Password:           hashed,
		PasswordMustChange: true,
	}

	if err := db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("🌱 Super admin seeded: %s (%s)", admin.Email, admin.EmployeeID)
	log.Printf("🔑 Temporary password: %s (change on first login)", tempPassword)

	return nil
}
