package services

import (
	"context"
	"errors"
	"log"
	"time"

	"tabitha-home/internal/adapters/persistence/models"
	"tabitha-home/internal/adapters/persistence/repositories"
	"tabitha-home/internal/core/domain"

	"gorm.io/gorm"
)

// StaffService handles staff HR record business logic. Credential and
// role changes are not here; those go through AuthService.
type StaffService struct {
	staffRepo repositories.StaffRepository
	now       func() time.Time
}

// NewStaffService creates a new staff service
func NewStaffService(staffRepo repositories.StaffRepository) *StaffService {
	return &StaffService{
		staffRepo: staffRepo,
		now:       time.Now,
	}
}

// List lists staff records with filters and pagination
func (s *StaffService) List(ctx context.Context, filter repositories.StaffFilter, offset, limit int) ([]*models.StaffResponse, int64, error) {
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

// Get gets a staff record by ID
func (s *StaffService) Get(ctx context.Context, id uint) (*models.StaffResponse, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return staff.ToResponse(), nil
}

// UpdateStaffInput represents the HR update payload. Credentials, role,
// permissions, and the employee identifier have no fields here; they
// cannot be changed through this path.
type UpdateStaffInput struct {
	FirstName        *string                  `json:"first_name"`
	LastName         *string                  `json:"last_name"`
	Phone            *string                  `json:"phone"`
	DateOfBirth      *time.Time               `json:"date_of_birth"`
	Gender           *string                  `json:"gender"`
	MaritalStatus    *string                  `json:"marital_status"`
	NIN              *string                  `json:"nin"`
	Address          *models.Address          `json:"address"`
	EmergencyContact *models.EmergencyContact `json:"emergency_contact"`
	Position         *string                  `json:"position"`
	Department       *string                  `json:"department"`
	EmploymentStatus *string                  `json:"employment_status"`
	EmploymentType   *string                  `json:"employment_type"`
	Salary           *float64                 `json:"salary"`
}

// Update applies a partial HR update to a staff record
func (s *StaffService) Update(ctx context.Context, id uint, input *UpdateStaffInput, modifierID uint) (*models.StaffResponse, error) {
	// 1. Load record
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	// 2. Apply provided fields, validating closed sets
	if input.FirstName != nil {
		staff.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		staff.LastName = *input.LastName
	}
	if input.Phone != nil {
		staff.Phone = *input.Phone
	}
	if input.DateOfBirth != nil {
		staff.DateOfBirth = *input.DateOfBirth
	}
	if input.Gender != nil {
		if !domain.ValidValue(domain.Genders, *input.Gender) || *input.Gender == "" {
			return nil, domain.ErrInvalidInput
		}
		staff.Gender = *input.Gender
	}
	if input.MaritalStatus != nil {
		if !domain.ValidValue(domain.MaritalStatuses, *input.MaritalStatus) {
			return nil, domain.ErrInvalidInput
		}
		staff.MaritalStatus = *input.MaritalStatus
	}
	if input.NIN != nil && *input.NIN != "" {
		if staff.NIN == nil || *staff.NIN != *input.NIN {
			exists, err := s.staffRepo.ExistsByNIN(ctx, *input.NIN)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, domain.ErrNinTaken
			}
		}
		staff.NIN = input.NIN
	}
	if input.Address != nil {
		staff.Address = *input.Address
	}
	if input.EmergencyContact != nil {
		staff.EmergencyContact = *input.EmergencyContact
	}
	if input.Position != nil {
		if !domain.ValidValue(domain.Positions, *input.Position) {
			return nil, domain.ErrInvalidInput
		}
		staff.Position = *input.Position
	}
	if input.Department != nil {
		if !domain.ValidValue(domain.Departments, *input.Department) {
			return nil, domain.ErrInvalidInput
		}
		staff.Department = *input.Department
	}
	if input.EmploymentStatus != nil {
		if !domain.ValidValue(domain.EmploymentStatuses, *input.EmploymentStatus) || *input.EmploymentStatus == "" {
			return nil, domain.ErrInvalidInput
		}
		staff.EmploymentStatus = *input.EmploymentStatus
	}
	if input.EmploymentType != nil {
		if !domain.ValidValue(domain.EmploymentTypes, *input.EmploymentType) || *input.EmploymentType == "" {
			return nil, domain.ErrInvalidInput
		}
		staff.EmploymentType = *input.EmploymentType
	}
	if input.Salary != nil {
		staff.Salary = *input.Salary
	}

	staff.LastModifiedByID = &modifierID

	// 3. Persist
	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, err
	}

	return staff.ToResponse(), nil
}

// Terminate ends employment. The account is deactivated and the
// employment status set to Terminated; the record itself survives.
func (s *StaffService) Terminate(ctx context.Context, id uint, actorRole domain.Role, modifierID uint) (*models.StaffResponse, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	if staff.Role == string(domain.RoleSuperAdmin) && actorRole != domain.RoleSuperAdmin {
		return nil, domain.ErrSuperAdminTarget
	}

	staff.EmploymentStatus = "Terminated"
	staff.IsActive = false
	staff.LastModifiedByID = &modifierID

	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, err
	}

	log.Printf("⛔ Staff terminated: %s (%s)", staff.Email, staff.EmployeeID)

	return staff.ToResponse(), nil
}

// UpdatePermissions replaces the fine-grained permission list on an
// account. Role stays untouched.
func (s *StaffService) UpdatePermissions(ctx context.Context, id uint, permissions []string, actorRole domain.Role) (*models.StaffResponse, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	if staff.Role == string(domain.RoleSuperAdmin) && actorRole != domain.RoleSuperAdmin {
		return nil, domain.ErrSuperAdminTarget
	}

	staff.Permissions = permissions
	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return nil, err
	}

	log.Printf("✅ Permissions updated: %s -> %v", staff.Email, permissions)

	return staff.ToResponse(), nil
}

// SetPhoto records an uploaded profile photo URL on a staff record and
// returns the previous stored value so the caller can remove the file
func (s *StaffService) SetPhoto(ctx context.Context, id uint, url string) (string, error) {
	staff, err := s.staffRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrAccountNotFound
		}
		return "", err
	}

	previous := staff.PhotoURL
	staff.PhotoURL = url
	if err := s.staffRepo.Update(ctx, staff); err != nil {
		return "", err
	}
	return previous, nil
}

// AddDocument records an uploaded document on a staff record
func (s *StaffService) AddDocument(ctx context.Context, staffID uint, docType, name, filename, path string) (*models.StaffDocument, error) {
	if _, err := s.staffRepo.GetByID(ctx, staffID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	if !domain.ValidValue(domain.StaffDocumentTypes, docType) {
		return nil, domain.ErrInvalidInput
	}
	if docType == "" {
		docType = "Other"
	}

	doc := &models.StaffDocument{
		StaffID:  staffID,
		Type:     docType,
		Name:     name,
		Filename: filename,
		Path:     path,
	}
	if err := s.staffRepo.AddDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes a document row and returns its stored path
func (s *StaffService) DeleteDocument(ctx context.Context, staffID, docID uint) (string, error) {
	doc, err := s.staffRepo.GetDocument(ctx, staffID, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrFileNotFound
		}
		return "", err
	}

	if err := s.staffRepo.DeleteDocument(ctx, staffID, docID); err != nil {
		return "", err
	}
	return doc.Path, nil
}

// StaffStats summarises the workforce
type StaffStats struct {
	TotalActive  int64            `json:"total_active"`
	ByRole       map[string]int64 `json:"by_role"`
	ByDepartment map[string]int64 `json:"by_department"`
}

// Stats aggregates counts over active staff
func (s *StaffService) Stats(ctx context.Context) (*StaffStats, error) {
	total, err := s.staffRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	byRole, err := s.staffRepo.CountByRole(ctx)
	if err != nil {
		return nil, err
	}

	byDepartment, err := s.staffRepo.CountByDepartment(ctx)
	if err != nil {
		return nil, err
	}

	return &StaffStats{
		TotalActive:  total,
		ByRole:       byRole,
		ByDepartment: byDepartment,
	}, nil
}
