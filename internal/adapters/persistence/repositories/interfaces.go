package repositories

import (
	"context"
	"time"

	"tabitha-home/internal/adapters/persistence/models"
)

// StaffFilter narrows staff listings
type StaffFilter struct {
	Search     string
	Role       string
	Department string
	Status     string
	IsActive   *bool
}

// ChildFilter narrows child listings
type ChildFilter struct {
	Search string
	Status string
	Gender string
}

// StaffRepository defines staff repository interface
type StaffRepository interface {
	Create(ctx context.Context, staff *models.Staff) error
	GetByID(ctx context.Context, id uint) (*models.Staff, error)
	GetByEmail(ctx context.Context, email string) (*models.Staff, error)
	GetByEmployeeID(ctx context.Context, employeeID string) (*models.Staff, error)
	Update(ctx context.Context, staff *models.Staff) error
	List(ctx context.Context, filter StaffFilter, offset, limit int) ([]*models.Staff, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByNIN(ctx context.Context, nin string) (bool, error)
	CountByRole(ctx context.Context) (map[string]int64, error)
	CountByDepartment(ctx context.Context) (map[string]int64, error)
	CountActive(ctx context.Context) (int64, error)
	AddDocument(ctx context.Context, doc *models.StaffDocument) error
	GetDocument(ctx context.Context, staffID, docID uint) (*models.StaffDocument, error)
	DeleteDocument(ctx context.Context, staffID, docID uint) error
}

// ChildRepository defines child repository interface
type ChildRepository interface {
	Create(ctx context.Context, child *models.Child) error
	GetByID(ctx context.Context, id uint) (*models.Child, error)
	GetByChildID(ctx context.Context, childID string) (*models.Child, error)
	Update(ctx context.Context, child *models.Child) error
	List(ctx context.Context, filter ChildFilter, offset, limit int) ([]*models.Child, int64, error)
	Search(ctx context.Context, query string, offset, limit int) ([]*models.Child, int64, error)
	Autocomplete(ctx context.Context, field, prefix string, limit int) ([]string, error)
	ExistsByBirthCertificateNo(ctx context.Context, certNo string) (bool, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByField(ctx context.Context, column, status string) (map[string]int64, error)
	CountMedicalConditions(ctx context.Context, status string) (map[string]int64, error)
	ListDatesOfBirth(ctx context.Context, status string) ([]time.Time, error)
	ListAdmissionDates(ctx context.Context, since time.Time) ([]time.Time, error)
	CountAllergies(ctx context.Context, status string) (int64, error)
	CountSpecialNeeds(ctx context.Context, status string) (int64, error)
	CountImmunizationUpToDate(ctx context.Context, status string) (int64, error)
	AddMedicalCondition(ctx context.Context, cond *models.ChildMedicalCondition) error
	AddPhoto(ctx context.Context, photo *models.ChildPhoto) error
	SetPrimaryPhoto(ctx context.Context, childID, photoID uint) error
	GetPhoto(ctx context.Context, childID, photoID uint) (*models.ChildPhoto, error)
	DeletePhoto(ctx context.Context, childID, photoID uint) error
	AddDocument(ctx context.Context, doc *models.ChildDocument) error
	GetDocument(ctx context.Context, childID, docID uint) (*models.ChildDocument, error)
	DeleteDocument(ctx context.Context, childID, docID uint) error
	ListFilePaths(ctx context.Context) ([]string, error)
}

// SequenceRepository hands out sequential human-readable identifiers
type SequenceRepository interface {
	NextID(ctx context.Context, entityType, prefix string, year int) (string, error)
}
