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

// ChildService handles child record business logic
type ChildService struct {
	childRepo    repositories.ChildRepository
	sequenceRepo repositories.SequenceRepository
	now          func() time.Time
}

// NewChildService creates a new child service
func NewChildService(childRepo repositories.ChildRepository, sequenceRepo repositories.SequenceRepository) *ChildService {
	return &ChildService{
		childRepo:    childRepo,
		sequenceRepo: sequenceRepo,
		now:          time.Now,
	}
}

// CreateChildInput represents the child admission payload
type CreateChildInput struct {
	FirstName          string     `json:"first_name" validate:"required"`
	LastName           string     `json:"last_name" validate:"required"`
	MiddleName         string     `json:"middle_name"`
	PreferredName      string     `json:"preferred_name"`
	BirthCertificateNo *string    `json:"birth_certificate_no"`
	DateOfBirth        time.Time  `json:"date_of_birth" validate:"required"`
	EstimatedAge       bool       `json:"estimated_age"`
	Gender             string     `json:"gender" validate:"required"`
	StateOfOrigin      string     `json:"state_of_origin"`
	LGA                string     `json:"lga"`
	Nationality        string     `json:"nationality"`
	PrimaryLanguage    string     `json:"primary_language"`
	Religion           string     `json:"religion"`
	TribalMarks        string     `json:"tribal_marks"`
	HeightCM           float64    `json:"height_cm"`
	WeightKG           float64    `json:"weight_kg"`
	AdmissionDate      *time.Time `json:"admission_date"`
	AdmissionReason    string     `json:"admission_reason"`
	ReferralSource     string     `json:"referral_source"`

	RoomAssignment string `json:"room_assignment"`
	BedNumber      string `json:"bed_number"`

	GovernmentRegistrationNumber string `json:"government_registration_number"`
	CourtCaseNumber              string `json:"court_case_number"`

	Guardian         models.Guardian         `json:"guardian"`
	EmergencyContact models.EmergencyContact `json:"emergency_contact"`
	NextOfKinName    string                  `json:"next_of_kin_name"`
	NextOfKinContact string                  `json:"next_of_kin_contact"`

	BloodType    string   `json:"blood_type"`
	Genotype     string   `json:"genotype"`
	Allergies    []string `json:"allergies"`
	SpecialNeeds string   `json:"special_needs"`

	Education models.Education `json:"education"`

	BehavioralAssessmentScore *int   `json:"behavioral_assessment_score"`
	SocialWorkerNotes         string `json:"social_worker_notes"`
	Ambition                  string `json:"ambition"`
	Notes                     string `json:"notes"`
}

func (in *CreateChildInput) validate() error {
	if in.FirstName == "" || in.LastName == "" || in.DateOfBirth.IsZero() {
		return domain.ErrInvalidInput
	}
	if !domain.ValidValue(domain.Genders, in.Gender) || in.Gender == "" {
		return domain.ErrInvalidInput
	}
	if !domain.ValidValue(domain.NigerianStates, in.StateOfOrigin) {
		return domain.ErrInvalidInput
	}
	if !domain.ValidValue(domain.Languages, in.PrimaryLanguage) {
		return domain.ErrInvalidInput
	}
	if !domain.ValidValue(domain.Religions, in.Religion) {
		return domain.ErrInvalidInput
	}
	if !domain.ValidValue(domain.BloodTypes, in.BloodType) {
		return domain.ErrInvalidInput
	}
	if !domain.ValidValue(domain.Genotypes, in.Genotype) {
		return domain.ErrInvalidInput
	}
	if !domain.ValidValue(domain.EducationLevels, in.Education.Level) {
		return domain.ErrInvalidInput
	}
	if in.HeightCM != 0 && (in.HeightCM < 30 || in.HeightCM > 250) {
		return domain.ErrInvalidInput
	}
	if in.WeightKG != 0 && (in.WeightKG < 1 || in.WeightKG > 200) {
		return domain.ErrInvalidInput
	}
	if !validBehavioralScore(in.BehavioralAssessmentScore) {
		return domain.ErrInvalidInput
	}
	return nil
}

// validBehavioralScore accepts a nil score or one on the 1-10 scale
func validBehavioralScore(score *int) bool {
	return score == nil || (*score >= 1 && *score <= 10)
}

// Create admits a new child. The human-readable identifier is allocated
// from the sequence counter and never reused.
func (s *ChildService) Create(ctx context.Context, input *CreateChildInput, creatorID uint) (*models.ChildResponse, error) {
	// 1. Validate reference fields
	if err := input.validate(); err != nil {
		return nil, err
	}

	// 2. Check birth certificate number is free
	if input.BirthCertificateNo != nil && *input.BirthCertificateNo != "" {
		exists, err := s.childRepo.ExistsByBirthCertificateNo(ctx, *input.BirthCertificateNo)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrBirthCertTaken
		}
	}

	// 3. Allocate child identifier
	childID, err := s.sequenceRepo.NextID(ctx, models.EntityChild, models.ChildIDPrefix, s.now().Year())
	if err != nil {
		return nil, err
	}

	admissionDate := s.now()
	if input.AdmissionDate != nil {
		admissionDate = *input.AdmissionDate
	}

	nationality := input.Nationality
	if nationality == "" {
		nationality = "Nigerian"
	}
	primaryLanguage := input.PrimaryLanguage
	if primaryLanguage == "" {
		primaryLanguage = "English"
	}

	// 4. Create record
	child := &models.Child{
		ChildID:            childID,
		FirstName:          input.FirstName,
		LastName:           input.LastName,
		MiddleName:         input.MiddleName,
		PreferredName:      input.PreferredName,
		BirthCertificateNo: input.BirthCertificateNo,
		DateOfBirth:        input.DateOfBirth,
		EstimatedAge:       input.EstimatedAge,
		Gender:             input.Gender,
		StateOfOrigin:      input.StateOfOrigin,
		LGA:                input.LGA,
		Nationality:        nationality,
		PrimaryLanguage:    primaryLanguage,
		Religion:           input.Religion,
		TribalMarks:        input.TribalMarks,
		HeightCM:           input.HeightCM,
		WeightKG:           input.WeightKG,
		AdmissionDate:      admissionDate,
		AdmissionReason:    input.AdmissionReason,
		ReferralSource:     input.ReferralSource,
		Status:             domain.ChildStatusActive,
		RoomAssignment:     input.RoomAssignment,
		BedNumber:          input.BedNumber,

		GovernmentRegistrationNumber: input.GovernmentRegistrationNumber,
		CourtCaseNumber:              input.CourtCaseNumber,

		Guardian:         input.Guardian,
		EmergencyContact: input.EmergencyContact,
		NextOfKinName:    input.NextOfKinName,
		NextOfKinContact: input.NextOfKinContact,
		BloodType:        input.BloodType,
		Genotype:         input.Genotype,
		Allergies:        input.Allergies,
		SpecialNeeds:     input.SpecialNeeds,
		Education:        input.Education,

		BehavioralAssessmentScore: input.BehavioralAssessmentScore,
		SocialWorkerNotes:         input.SocialWorkerNotes,
		Ambition:                  input.Ambition,
		Notes:                     input.Notes,
		CreatedByID:               &creatorID,
	}

	if err := s.childRepo.Create(ctx, child); err != nil {
		return nil, err
	}

	log.Printf("✅ Child admitted: %s (%s)", child.FullName(), child.ChildID)

	return child.ToResponse(), nil
}

// Get gets a child record by numeric ID
func (s *ChildService) Get(ctx context.Context, id uint) (*models.ChildResponse, error) {
	child, err := s.childRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChildNotFound
		}
		return nil, err
	}
	return child.ToResponse(), nil
}

// GetByChildID gets a child record by its human-readable identifier
func (s *ChildService) GetByChildID(ctx context.Context, childID string) (*models.ChildResponse, error) {
	child, err := s.childRepo.GetByChildID(ctx, childID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChildNotFound
		}
		return nil, err
	}
	return child.ToResponse(), nil
}

// List lists child records with filters and pagination
func (s *ChildService) List(ctx context.Context, filter repositories.ChildFilter, offset, limit int) ([]*models.ChildResponse, int64, error) {
	children, total, err := s.childRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.ChildResponse, len(children))
	for i, c := range children {
		responses[i] = c.ToResponse()
	}
	return responses, total, nil
}

// UpdateChildInput represents the child update payload. Identifier and
// audit fields are absent on purpose: child_id, birth certificate number
// and created_by never change after admission.
type UpdateChildInput struct {
	FirstName       *string    `json:"first_name"`
	LastName        *string    `json:"last_name"`
	MiddleName      *string    `json:"middle_name"`
	PreferredName   *string    `json:"preferred_name"`
	DateOfBirth     *time.Time `json:"date_of_birth"`
	EstimatedAge    *bool      `json:"estimated_age"`
	Gender          *string    `json:"gender"`
	StateOfOrigin   *string    `json:"state_of_origin"`
	LGA             *string    `json:"lga"`
	Nationality     *string    `json:"nationality"`
	PrimaryLanguage *string    `json:"primary_language"`
	Religion        *string    `json:"religion"`
	TribalMarks     *string    `json:"tribal_marks"`
	HeightCM        *float64   `json:"height_cm"`
	WeightKG        *float64   `json:"weight_kg"`
	AdmissionReason *string    `json:"admission_reason"`
	ReferralSource  *string    `json:"referral_source"`
	Status          *string    `json:"status"`

	RoomAssignment *string `json:"room_assignment"`
	BedNumber      *string `json:"bed_number"`

	GovernmentRegistrationNumber *string `json:"government_registration_number"`
	CourtCaseNumber              *string `json:"court_case_number"`

	Guardian         *models.Guardian         `json:"guardian"`
	EmergencyContact *models.EmergencyContact `json:"emergency_contact"`
	NextOfKinName    *string                  `json:"next_of_kin_name"`
	NextOfKinContact *string                  `json:"next_of_kin_contact"`

	BloodType    *string   `json:"blood_type"`
	Genotype     *string   `json:"genotype"`
	Allergies    *[]string `json:"allergies"`
	SpecialNeeds *string   `json:"special_needs"`

	ImmunizationUpToDate *bool   `json:"immunization_up_to_date"`
	ImmunizationNotes    *string `json:"immunization_notes"`

	Education *models.Education `json:"education"`

	BehavioralAssessmentScore *int    `json:"behavioral_assessment_score"`
	SocialWorkerNotes         *string `json:"social_worker_notes"`
	Ambition                  *string `json:"ambition"`
	Notes                     *string `json:"notes"`
}

// Update applies a partial update to a child record
func (s *ChildService) Update(ctx context.Context, id uint, input *UpdateChildInput, modifierID uint) (*models.ChildResponse, error) {
	// 1. Load record
	child, err := s.childRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChildNotFound
		}
		return nil, err
	}

	// 2. Apply provided fields, validating closed sets
	if input.FirstName != nil {
		child.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		child.LastName = *input.LastName
	}
	if input.MiddleName != nil {
		child.MiddleName = *input.MiddleName
	}
	if input.PreferredName != nil {
		child.PreferredName = *input.PreferredName
	}
	if input.DateOfBirth != nil {
		child.DateOfBirth = *input.DateOfBirth
	}
	if input.EstimatedAge != nil {
		child.EstimatedAge = *input.EstimatedAge
	}
	if input.Gender != nil {
		if !domain.ValidValue(domain.Genders, *input.Gender) || *input.Gender == "" {
			return nil, domain.ErrInvalidInput
		}
		child.Gender = *input.Gender
	}
	if input.StateOfOrigin != nil {
		if !domain.ValidValue(domain.NigerianStates, *input.StateOfOrigin) {
			return nil, domain.ErrInvalidInput
		}
		child.StateOfOrigin = *input.StateOfOrigin
	}
	if input.LGA != nil {
		child.LGA = *input.LGA
	}
	if input.Nationality != nil {
		child.Nationality = *input.Nationality
	}
	if input.PrimaryLanguage != nil {
		if !domain.ValidValue(domain.Languages, *input.PrimaryLanguage) {
			return nil, domain.ErrInvalidInput
		}
		child.PrimaryLanguage = *input.PrimaryLanguage
	}
	if input.Religion != nil {
		if !domain.ValidValue(domain.Religions, *input.Religion) {
			return nil, domain.ErrInvalidInput
		}
		child.Religion = *input.Religion
	}
	if input.TribalMarks != nil {
		child.TribalMarks = *input.TribalMarks
	}
	if input.HeightCM != nil {
		if *input.HeightCM < 30 || *input.HeightCM > 250 {
			return nil, domain.ErrInvalidInput
		}
		child.HeightCM = *input.HeightCM
	}
	if input.WeightKG != nil {
		if *input.WeightKG < 1 || *input.WeightKG > 200 {
			return nil, domain.ErrInvalidInput
		}
		child.WeightKG = *input.WeightKG
	}
	if input.AdmissionReason != nil {
		child.AdmissionReason = *input.AdmissionReason
	}
	if input.ReferralSource != nil {
		child.ReferralSource = *input.ReferralSource
	}
	if input.RoomAssignment != nil {
		child.RoomAssignment = *input.RoomAssignment
	}
	if input.BedNumber != nil {
		child.BedNumber = *input.BedNumber
	}
	if input.GovernmentRegistrationNumber != nil {
		child.GovernmentRegistrationNumber = *input.GovernmentRegistrationNumber
	}
	if input.CourtCaseNumber != nil {
		child.CourtCaseNumber = *input.CourtCaseNumber
	}
	if input.NextOfKinName != nil {
		child.NextOfKinName = *input.NextOfKinName
	}
	if input.NextOfKinContact != nil {
		child.NextOfKinContact = *input.NextOfKinContact
	}
	if input.Status != nil {
		if !domain.ValidValue(domain.ChildStatuses, *input.Status) || *input.Status == "" {
			return nil, domain.ErrInvalidInput
		}
		child.Status = *input.Status
	}
	if input.Guardian != nil {
		child.Guardian = *input.Guardian
	}
	if input.EmergencyContact != nil {
		child.EmergencyContact = *input.EmergencyContact
	}
	if input.BloodType != nil {
		if !domain.ValidValue(domain.BloodTypes, *input.BloodType) {
			return nil, domain.ErrInvalidInput
		}
		child.BloodType = *input.BloodType
	}
	if input.Genotype != nil {
		if !domain.ValidValue(domain.Genotypes, *input.Genotype) {
			return nil, domain.ErrInvalidInput
		}
		child.Genotype = *input.Genotype
	}
	if input.Allergies != nil {
		child.Allergies = *input.Allergies
	}
	if input.SpecialNeeds != nil {
		child.SpecialNeeds = *input.SpecialNeeds
	}
	if input.ImmunizationUpToDate != nil {
		now := s.now()
		child.Immunization.UpToDate = *input.ImmunizationUpToDate
		child.Immunization.LastUpdate = &now
	}
	if input.ImmunizationNotes != nil {
		child.Immunization.Notes = *input.ImmunizationNotes
	}
	if input.Education != nil {
		if !domain.ValidValue(domain.EducationLevels, input.Education.Level) {
			return nil, domain.ErrInvalidInput
		}
		child.Education = *input.Education
	}
	if input.BehavioralAssessmentScore != nil {
		if !validBehavioralScore(input.BehavioralAssessmentScore) {
			return nil, domain.ErrInvalidInput
		}
		child.BehavioralAssessmentScore = input.BehavioralAssessmentScore
	}
	if input.SocialWorkerNotes != nil {
		child.SocialWorkerNotes = *input.SocialWorkerNotes
	}
	if input.Ambition != nil {
		child.Ambition = *input.Ambition
	}
	if input.Notes != nil {
		child.Notes = *input.Notes
	}

	child.LastModifiedByID = &modifierID

	// 3. Persist
	if err := s.childRepo.Update(ctx, child); err != nil {
		return nil, err
	}

	return child.ToResponse(), nil
}

// Exit removes a child from active care. The record survives with
// status Exited; nothing is physically deleted.
func (s *ChildService) Exit(ctx context.Context, id uint, reason string, modifierID uint) (*models.ChildResponse, error) {
	child, err := s.childRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChildNotFound
		}
		return nil, err
	}

	now := s.now()
	child.Status = domain.ChildStatusExited
	child.ExitDate = &now
	child.ExitReason = reason
	child.LastModifiedByID = &modifierID

	if err := s.childRepo.Update(ctx, child); err != nil {
		return nil, err
	}

	log.Printf("👋 Child exited: %s (%s)", child.FullName(), child.ChildID)

	return child.ToResponse(), nil
}

// Search matches names and identifiers with pagination
func (s *ChildService) Search(ctx context.Context, query string, offset, limit int) ([]*models.ChildResponse, int64, error) {
	if query == "" {
		return nil, 0, domain.ErrInvalidInput
	}

	children, total, err := s.childRepo.Search(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.ChildResponse, len(children))
	for i, c := range children {
		responses[i] = c.ToResponse()
	}
	return responses, total, nil
}

// Autocomplete suggests field values starting with prefix. Prefixes
// shorter than two characters return nothing.
func (s *ChildService) Autocomplete(ctx context.Context, field, prefix string) ([]string, error) {
	if field == "" {
		field = "first_name"
	}
	if len(prefix) < 2 {
		return []string{}, nil
	}
	return s.childRepo.Autocomplete(ctx, field, prefix, 10)
}

// AddMedicalCondition records a diagnosed condition on a child
func (s *ChildService) AddMedicalCondition(ctx context.Context, childID uint, condition string, diagnosedDate *time.Time, notes string) (*models.ChildResponse, error) {
	if condition == "" {
		return nil, domain.ErrInvalidInput
	}

	child, err := s.childRepo.GetByID(ctx, childID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChildNotFound
		}
		return nil, err
	}

	cond := &models.ChildMedicalCondition{
		ChildID:       child.ID,
		Condition:     condition,
		DiagnosedDate: diagnosedDate,
		Notes:         notes,
	}
	if err := s.childRepo.AddMedicalCondition(ctx, cond); err != nil {
		return nil, err
	}

	return s.Get(ctx, childID)
}

// AddPhoto records an uploaded photo on a child. The first photo on a
// record, or one explicitly flagged, becomes the primary photo.
func (s *ChildService) AddPhoto(ctx context.Context, childID uint, filename, path, url, caption string, makePrimary bool) (*models.ChildPhoto, error) {
	child, err := s.childRepo.GetByID(ctx, childID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChildNotFound
		}
		return nil, err
	}

	photo := &models.ChildPhoto{
		ChildID:  child.ID,
		Filename: filename,
		Path:     path,
		URL:      url,
		Caption:  caption,
	}
	if err := s.childRepo.AddPhoto(ctx, photo); err != nil {
		return nil, err
	}

	if makePrimary || len(child.Photos) == 0 {
		if err := s.childRepo.SetPrimaryPhoto(ctx, child.ID, photo.ID); err != nil {
			return nil, err
		}
		photo.IsPrimary = true
	}

	return photo, nil
}

// SetPrimaryPhoto flags an existing photo as primary
func (s *ChildService) SetPrimaryPhoto(ctx context.Context, childID, photoID uint) error {
	err := s.childRepo.SetPrimaryPhoto(ctx, childID, photoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrFileNotFound
	}
	return err
}

// DeletePhoto removes a photo row and returns its stored path so the
// caller can remove the file
func (s *ChildService) DeletePhoto(ctx context.Context, childID, photoID uint) (string, error) {
	photo, err := s.childRepo.GetPhoto(ctx, childID, photoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrFileNotFound
		}
		return "", err
	}

	if err := s.childRepo.DeletePhoto(ctx, childID, photoID); err != nil {
		return "", err
	}
	return photo.Path, nil
}

// AddDocument records an uploaded document on a child
func (s *ChildService) AddDocument(ctx context.Context, childID uint, docType, name, filename, path, url string) (*models.ChildDocument, error) {
	if _, err := s.childRepo.GetByID(ctx, childID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrChildNotFound
		}
		return nil, err
	}

	if docType == "" {
		docType = "Other"
	}

	doc := &models.ChildDocument{
		ChildID:  childID,
		Type:     docType,
		Name:     name,
		Filename: filename,
		Path:     path,
		URL:      url,
	}
	if err := s.childRepo.AddDocument(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// DeleteDocument removes a document row and returns its stored path
func (s *ChildService) DeleteDocument(ctx context.Context, childID, docID uint) (string, error) {
	doc, err := s.childRepo.GetDocument(ctx, childID, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrFileNotFound
		}
		return "", err
	}

	if err := s.childRepo.DeleteDocument(ctx, childID, docID); err != nil {
		return "", err
	}
	return doc.Path, nil
}

// ChildStats summarises the current population
type ChildStats struct {
	Total          int64            `json:"total"`
	ByStatus       map[string]int64 `json:"by_status"`
	ByGender       map[string]int64 `json:"by_gender"`
	ByAgeGroup     map[string]int64 `json:"by_age_group"`
	RecentArrivals int64            `json:"recent_arrivals"`
}

// Stats aggregates counts over the child population. Age bucketing is
// done here rather than in SQL so the buckets are identical across
// database engines.
func (s *ChildService) Stats(ctx context.Context) (*ChildStats, error) {
	byStatus, err := s.childRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	byGender, err := s.childRepo.CountByField(ctx, "gender", domain.ChildStatusActive)
	if err != nil {
		return nil, err
	}

	dobs, err := s.childRepo.ListDatesOfBirth(ctx, domain.ChildStatusActive)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ageGroups := map[string]int64{
		"0-2":   0,
		"3-5":   0,
		"6-11":  0,
		"12-17": 0,
		"18+":   0,
	}
	for _, dob := range dobs {
		age := ageInYears(dob, now)
		switch {
		case age <= 2:
			ageGroups["0-2"]++
		case age <= 5:
			ageGroups["3-5"]++
		case age <= 11:
			ageGroups["6-11"]++
		case age <= 17:
			ageGroups["12-17"]++
		default:
			ageGroups["18+"]++
		}
	}

	recent, err := s.childRepo.ListAdmissionDates(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	return &ChildStats{
		Total:          total,
		ByStatus:       byStatus,
		ByGender:       byGender,
		ByAgeGroup:     ageGroups,
		RecentArrivals: int64(len(recent)),
	}, nil
}

func ageInYears(dob, now time.Time) int {
	age := now.Year() - dob.Year()
	if now.YearDay() < dob.YearDay() {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}
