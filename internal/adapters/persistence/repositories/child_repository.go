package repositories

import (
	"context"
	"time"

	"tabitha-home/internal/adapters/persistence/models"
	"tabitha-home/internal/core/domain"

	"gorm.io/gorm"
)

// childRepository implements ChildRepository interface
type childRepository struct {
	db *gorm.DB
}

// NewChildRepository creates a new child repository
func NewChildRepository(db *gorm.DB) ChildRepository {
	return &childRepository{db: db}
}

// Create creates a new child record
func (r *childRepository) Create(ctx context.Context, child *models.Child) error {
	return r.db.WithContext(ctx).Create(child).Error
}

// GetByID gets a child record by numeric ID with all associations
func (r *childRepository) GetByID(ctx context.Context, id uint) (*models.Child, error) {
	var child models.Child
	err := r.db.WithContext(ctx).
		Preload("MedicalConditions").
		Preload("Photos").
		Preload("Documents").
		Preload("CreatedBy").
		Where("id = ?", id).First(&child).Error
	if err != nil {
		return nil, err
	}
	return &child, nil
}

// GetByChildID gets a child record by its human-readable identifier
func (r *childRepository) GetByChildID(ctx context.Context, childID string) (*models.Child, error) {
	var child models.Child
	err := r.db.WithContext(ctx).
		Preload("MedicalConditions").
		Preload("Photos").
		Preload("Documents").
		Where("child_id = ?", childID).First(&child).Error
	if err != nil {
		return nil, err
	}
	return &child, nil
}

// Update updates a child record
func (r *childRepository) Update(ctx context.Context, child *models.Child) error {
	return r.db.WithContext(ctx).Save(child).Error
}

// List lists child records with filters and pagination
func (r *childRepository) List(ctx context.Context, filter ChildFilter, offset, limit int) ([]*models.Child, int64, error) {
	var children []*models.Child
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Child{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR preferred_name LIKE ? OR child_id LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Photos", "is_primary = ?", true).
		Order("admission_date DESC").
		Offset(offset).Limit(limit).Find(&children).Error
	if err != nil {
		return nil, 0, err
	}

	return children, total, nil
}

// Search matches names and identifiers. An exact child_id hit is
// returned alone so scanning a full identifier jumps straight to the
// record.
func (r *childRepository) Search(ctx context.Context, query string, offset, limit int) ([]*models.Child, int64, error) {
	var exact models.Child
	err := r.db.WithContext(ctx).Where("child_id = ?", query).First(&exact).Error
	if err == nil {
		return []*models.Child{&exact}, 1, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, 0, err
	}

	return r.List(ctx, ChildFilter{Search: query}, offset, limit)
}

// Autocomplete returns distinct values of the given field starting with
// prefix, restricted to active records. Field must be one of first_name,
// last_name, or medical_conditions.
func (r *childRepository) Autocomplete(ctx context.Context, field, prefix string, limit int) ([]string, error) {
	if limit <= 0 || limit > 10 {
		limit = 10
	}

	var names []string
	var err error
	switch field {
	case "first_name", "last_name":
		err = r.db.WithContext(ctx).Model(&models.Child{}).
			Distinct(field).
			Where(field+" LIKE ? AND status = ?", prefix+"%", "Active").
			Order(field + " ASC").
			Limit(limit).
			Pluck(field, &names).Error
	case "medical_conditions":
		// CONDITION is a reserved word in MySQL
		err = r.db.WithContext(ctx).Model(&models.ChildMedicalCondition{}).
			Distinct("`condition`").
			Joins("JOIN children ON children.id = child_medical_conditions.child_id").
			Where("`condition` LIKE ? AND children.status = ?", prefix+"%", "Active").
			Order("`condition` ASC").
			Limit(limit).
			Pluck("`condition`", &names).Error
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}
	return names, nil
}

// ExistsByBirthCertificateNo checks if a birth certificate number is taken
func (r *childRepository) ExistsByBirthCertificateNo(ctx context.Context, certNo string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Child{}).
		Where("birth_certificate_no = ?", certNo).Count(&count).Error
	return count > 0, err
}

// CountByStatus counts children grouped by status
func (r *childRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row

	err := r.db.WithContext(ctx).Model(&models.Child{}).
		Select("status AS `key`, COUNT(*) AS count").
		Group("status").
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

// reportColumns are the child columns reports may group by
var reportColumns = map[string]bool{
	"gender":           true,
	"state_of_origin":  true,
	"primary_language": true,
	"education_level":  true,
	"genotype":         true,
	"blood_type":       true,
}

// CountByField counts children of the given status grouped by a column.
// Only columns listed in reportColumns are accepted.
func (r *childRepository) CountByField(ctx context.Context, column, status string) (map[string]int64, error) {
	if !reportColumns[column] {
		return nil, domain.ErrInvalidInput
	}

	type row struct {
		Key   string
		Count int64
	}
	var rows []row

	query := r.db.WithContext(ctx).Model(&models.Child{}).
		Select(column + " AS `key`, COUNT(*) AS count")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Group(column).Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Key] = r.Count
	}
	return counts, nil
}

// CountMedicalConditions counts diagnosed conditions over children of
// the given status
func (r *childRepository) CountMedicalConditions(ctx context.Context, status string) (map[string]int64, error) {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row

	query := r.db.WithContext(ctx).Model(&models.ChildMedicalCondition{}).
		Select("`condition` AS `key`, COUNT(*) AS count").
		Joins("JOIN children ON children.id = child_medical_conditions.child_id")
	if status != "" {
		query = query.Where("children.status = ?", status)
	}

	if err := query.Group("`condition`").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Key] = r.Count
	}
	return counts, nil
}

// ListDatesOfBirth returns dates of birth for children of the given
// status. Age bucketing happens in the service layer.
func (r *childRepository) ListDatesOfBirth(ctx context.Context, status string) ([]time.Time, error) {
	var dates []time.Time
	query := r.db.WithContext(ctx).Model(&models.Child{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Pluck("date_of_birth", &dates).Error
	return dates, err
}

// ListAdmissionDates returns admission dates on or after since
func (r *childRepository) ListAdmissionDates(ctx context.Context, since time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.WithContext(ctx).Model(&models.Child{}).
		Where("admission_date >= ?", since).
		Pluck("admission_date", &dates).Error
	return dates, err
}

// CountAllergies counts children of the given status with recorded allergies
func (r *childRepository) CountAllergies(ctx context.Context, status string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Child{}).
		Where("allergies IS NOT NULL AND allergies != ? AND allergies != ?", "[]", "null")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

// CountSpecialNeeds counts children of the given status with special needs noted
func (r *childRepository) CountSpecialNeeds(ctx context.Context, status string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Child{}).
		Where("special_needs != ?", "")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

// CountImmunizationUpToDate counts children whose immunizations are current
func (r *childRepository) CountImmunizationUpToDate(ctx context.Context, status string) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Child{}).
		Where("immunization_up_to_date = ?", true)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

// AddMedicalCondition attaches a medical condition entry to a child
func (r *childRepository) AddMedicalCondition(ctx context.Context, cond *models.ChildMedicalCondition) error {
	return r.db.WithContext(ctx).Create(cond).Error
}

// AddPhoto attaches a photo to a child record
func (r *childRepository) AddPhoto(ctx context.Context, photo *models.ChildPhoto) error {
	return r.db.WithContext(ctx).Create(photo).Error
}

// SetPrimaryPhoto flags one photo primary and clears the flag on the rest
func (r *childRepository) SetPrimaryPhoto(ctx context.Context, childID, photoID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.ChildPhoto{}).
			Where("id = ? AND child_id = ?", photoID, childID).
			Update("is_primary", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.ChildPhoto{}).
			Where("child_id = ? AND id != ?", childID, photoID).
			Update("is_primary", false).Error
	})
}

// GetPhoto gets one child photo scoped to its owner
func (r *childRepository) GetPhoto(ctx context.Context, childID, photoID uint) (*models.ChildPhoto, error) {
	var photo models.ChildPhoto
	err := r.db.WithContext(ctx).
		Where("id = ? AND child_id = ?", photoID, childID).First(&photo).Error
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// DeletePhoto removes a child photo row
func (r *childRepository) DeletePhoto(ctx context.Context, childID, photoID uint) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND child_id = ?", photoID, childID).
		Delete(&models.ChildPhoto{}).Error
}

// AddDocument attaches a document to a child record
func (r *childRepository) AddDocument(ctx context.Context, doc *models.ChildDocument) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

// GetDocument gets one child document scoped to its owner
func (r *childRepository) GetDocument(ctx context.Context, childID, docID uint) (*models.ChildDocument, error) {
	var doc models.ChildDocument
	err := r.db.WithContext(ctx).
		Where("id = ? AND child_id = ?", docID, childID).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// DeleteDocument removes a child document row
func (r *childRepository) DeleteDocument(ctx context.Context, childID, docID uint) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND child_id = ?", docID, childID).
		Delete(&models.ChildDocument{}).Error
}

// ListFilePaths returns every stored photo and document path. The
// maintenance sweep diffs these against the upload directory.
func (r *childRepository) ListFilePaths(ctx context.Context) ([]string, error) {
	var paths []string

	var photoPaths []string
	if err := r.db.WithContext(ctx).Model(&models.ChildPhoto{}).Pluck("path", &photoPaths).Error; err != nil {
		return nil, err
	}
	paths = append(paths, photoPaths...)

	var docPaths []string
	if err := r.db.WithContext(ctx).Model(&models.ChildDocument{}).Pluck("path", &docPaths).Error; err != nil {
		return nil, err
	}
	paths = append(paths, docPaths...)

	var staffDocPaths []string
	if err := r.db.WithContext(ctx).Model(&models.StaffDocument{}).Pluck("path", &staffDocPaths).Error; err != nil {
		return nil, err
	}
	paths = append(paths, staffDocPaths...)

	return paths, nil
}
