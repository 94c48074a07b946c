package repositories

import (
	"context"

	"tabitha-home/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// staffRepository implements StaffRepository interface
type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository creates a new staff repository
func NewStaffRepository(db *gorm.DB) StaffRepository {
	return &staffRepository{db: db}
}

// Create creates a new staff record
func (r *staffRepository) Create(ctx context.Context, staff *models.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

// GetByID gets a staff record by ID
func (r *staffRepository) GetByID(ctx context.Context, id uint) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).
		Preload("Documents").
		Preload("CreatedBy").
		Where("id = ?", id).First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// GetByEmail gets a staff record by email
func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// GetByEmployeeID gets a staff record by employee identifier
func (r *staffRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).Where("employee_id = ?", employeeID).First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// Update updates a staff record
func (r *staffRepository) Update(ctx context.Context, staff *models.Staff) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

// List lists staff records with filters and pagination
func (r *staffRepository) List(ctx context.Context, filter StaffFilter, offset, limit int) ([]*models.Staff, int64, error) {
	var staff []*models.Staff
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Staff{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR employee_id LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}
	if filter.Status != "" {
		query = query.Where("employment_status = ?", filter.Status)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("last_name ASC, first_name ASC").
		Offset(offset).Limit(limit).Find(&staff).Error
	if err != nil {
		return nil, 0, err
	}

	return staff, total, nil
}

// ExistsByEmail checks if email is taken
func (r *staffRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Staff{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// ExistsByNIN checks if a national identification number is taken
func (r *staffRepository) ExistsByNIN(ctx context.Context, nin string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Staff{}).Where("nin = ?", nin).Count(&count).Error
	return count > 0, err
}

// CountByRole counts active staff grouped by role
func (r *staffRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	return r.groupCount(ctx, "role")
}

// CountByDepartment counts active staff grouped by department
func (r *staffRepository) CountByDepartment(ctx context.Context) (map[string]int64, error) {
	return r.groupCount(ctx, "department")
}

func (r *staffRepository) groupCount(ctx context.Context, column string) (map[string]int64, error) {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row

	err := r.db.WithContext(ctx).Model(&models.Staff{}).
		Select(column+" AS `key`, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Key] = r.Count
	}
	return counts, nil
}

// CountActive counts active staff accounts
func (r *staffRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Staff{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// AddDocument attaches a document to a staff record
func (r *staffRepository) AddDocument(ctx context.Context, doc *models.StaffDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// GetDocument gets one staff document scoped to its owner
func (r *staffRepository) GetDocument(ctx context.Context, staffID, docID uint) (*models.StaffDocument, error) {
	var doc models.StaffDocument
	err := r.db.WithContext(ctx).
		Where("id = ? AND staff_id = ?", docID, staffID).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument removes a staff document row
func (r *staffRepository) DeleteDocument(ctx context.Context, staffID, docID uint) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND staff_id = ?", docID, staffID).
		Delete(&models.StaffDocument{}).Error
}
