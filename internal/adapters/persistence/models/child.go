package models

import (
	"time"
)

// Guardian captures the known parent or guardian of a child, if any
type Guardian struct {
	Name         string `gorm:"size:100" json:"name"`
	Relationship string `gorm:"size:50" json:"relationship"`
	Phone        string `gorm:"size:30" json:"phone"`
	Address      string `gorm:"size:200" json:"address"`
}

// ImmunizationStatus is embedded on child records
type ImmunizationStatus struct {
	UpToDate   bool       `gorm:"default:false" json:"up_to_date"`
	LastUpdate *time.Time `json:"last_update"`
	Notes      string     `gorm:"size:500" json:"notes"`
}

// Education is embedded on child records
type Education struct {
	Level      string `gorm:"size:30;default:'Not Applicable'" json:"level"`
	SchoolName string `gorm:"size:100" json:"school_name"`
	Class      string `gorm:"size:50" json:"class"`
}

// Child represents the children table. Records are never hard-deleted;
// removal transitions the status to Exited.
type Child struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Identity. ChildID and BirthCertificateNo are immutable after creation.
	ChildID            string  `gorm:"column:child_id;uniqueIndex;size:20;not null" json:"child_id"`
	FirstName          string  `gorm:"size:50;not null" json:"first_name"`
	LastName           string  `gorm:"size:50;not null" json:"last_name"`
	MiddleName         string  `gorm:"size:50" json:"middle_name"`
	PreferredName      string  `gorm:"size:50" json:"preferred_name"`
	BirthCertificateNo *string `gorm:"uniqueIndex;size:50" json:"birth_certificate_no,omitempty"`

	DateOfBirth     time.Time `gorm:"not null" json:"date_of_birth"`
	EstimatedAge    bool      `gorm:"default:false" json:"estimated_age"`
	Gender          string    `gorm:"size:10;not null" json:"gender"`
	StateOfOrigin   string    `gorm:"size:50" json:"state_of_origin"`
	LGA             string    `gorm:"column:lga;size:100" json:"lga"`
	Nationality     string    `gorm:"size:50;default:'Nigerian'" json:"nationality"`
	PrimaryLanguage string    `gorm:"size:30;default:'English'" json:"primary_language"`
	Religion        string    `gorm:"size:30" json:"religion"`
	TribalMarks     string    `gorm:"size:200" json:"tribal_marks"`
	HeightCM        float64   `gorm:"column:height_cm" json:"height_cm"`
	WeightKG        float64   `gorm:"column:weight_kg" json:"weight_kg"`

	// Admission
	AdmissionDate   time.Time  `gorm:"not null;index" json:"admission_date"`
	AdmissionReason string     `gorm:"size:500" json:"admission_reason"`
	ReferralSource  string     `gorm:"size:100" json:"referral_source"`
	Status          string     `gorm:"size:20;default:'Active';index" json:"status"`
	ExitDate        *time.Time `json:"exit_date"`
	ExitReason      string     `gorm:"size:500" json:"exit_reason"`

	// Placement within the home
	RoomAssignment string `gorm:"size:50" json:"room_assignment"`
	BedNumber      string `gorm:"size:20" json:"bed_number"`

	// Legal
	GovernmentRegistrationNumber string `gorm:"size:100" json:"government_registration_number"`
	CourtCaseNumber              string `gorm:"size:100" json:"court_case_number"`

	Guardian         Guardian         `gorm:"embedded;embeddedPrefix:guardian_" json:"guardian"`
	EmergencyContact EmergencyContact `gorm:"embedded;embeddedPrefix:emergency_" json:"emergency_contact"`
	NextOfKinName    string           `gorm:"size:100" json:"next_of_kin_name"`
	NextOfKinContact string           `gorm:"size:50" json:"next_of_kin_contact"`

	// Health
	BloodType         string                  `gorm:"size:10" json:"blood_type"`
	Genotype          string                  `gorm:"size:5" json:"genotype"`
	Allergies         []string                `gorm:"serializer:json" json:"allergies"`
	SpecialNeeds      string                  `gorm:"size:500" json:"special_needs"`
	Immunization      ImmunizationStatus      `gorm:"embedded;embeddedPrefix:immunization_" json:"immunization"`
	MedicalConditions []ChildMedicalCondition `gorm:"foreignKey:ChildID" json:"medical_conditions,omitempty"`

	Education Education `gorm:"embedded;embeddedPrefix:education_" json:"education"`

	// Care plan. The behavioral score runs 1 to 10.
	BehavioralAssessmentScore *int   `json:"behavioral_assessment_score"`
	SocialWorkerNotes         string `gorm:"type:text" json:"social_worker_notes"`
	Ambition                  string `gorm:"size:300" json:"ambition"`

	// Files
	Photos    []ChildPhoto    `gorm:"foreignKey:ChildID" json:"photos,omitempty"`
	Documents []ChildDocument `gorm:"foreignKey:ChildID" json:"documents,omitempty"`

	Notes string `gorm:"type:text" json:"notes"`

	// Audit
	CreatedByID      *uint  `json:"created_by_id"`
	LastModifiedByID *uint  `json:"last_modified_by_id"`
	CreatedBy        *Staff `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	LastModifiedBy   *Staff `gorm:"foreignKey:LastModifiedByID" json:"last_modified_by,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Child) TableName() string {
	return "children"
}

// FullName returns first and last name joined
func (c *Child) FullName() string {
	return c.FirstName + " " + c.LastName
}

// AgeAt returns the child's age in whole years at the given time
func (c *Child) AgeAt(now time.Time) int {
	age := now.Year() - c.DateOfBirth.Year()
	if now.YearDay() < c.DateOfBirth.YearDay() {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

// PrimaryPhoto returns the photo flagged primary, or nil
func (c *Child) PrimaryPhoto() *ChildPhoto {
	for i := range c.Photos {
		if c.Photos[i].IsPrimary {
			return &c.Photos[i]
		}
	}
	return nil
}

// ChildResponse is the child DTO
type ChildResponse struct {
	ID                 uint       `json:"id"`
	ChildID            string     `json:"child_id"`
	FirstName          string     `json:"first_name"`
	LastName           string     `json:"last_name"`
	MiddleName         string     `json:"middle_name,omitempty"`
	PreferredName      string     `json:"preferred_name,omitempty"`
	FullName           string     `json:"full_name"`
	BirthCertificateNo *string    `json:"birth_certificate_no,omitempty"`
	DateOfBirth        time.Time  `json:"date_of_birth"`
	Age                int        `json:"age"`
	EstimatedAge       bool       `json:"estimated_age"`
	Gender             string     `json:"gender"`
	StateOfOrigin      string     `json:"state_of_origin,omitempty"`
	LGA                string     `json:"lga,omitempty"`
	Nationality        string     `json:"nationality"`
	PrimaryLanguage    string     `json:"primary_language"`
	Religion           string     `json:"religion,omitempty"`
	TribalMarks        string     `json:"tribal_marks,omitempty"`
	HeightCM           float64    `json:"height_cm,omitempty"`
	WeightKG           float64    `json:"weight_kg,omitempty"`
	AdmissionDate      time.Time  `json:"admission_date"`
	AdmissionReason    string     `json:"admission_reason,omitempty"`
	ReferralSource     string     `json:"referral_source,omitempty"`
	Status             string     `json:"status"`
	ExitDate           *time.Time `json:"exit_date,omitempty"`
	ExitReason         string     `json:"exit_reason,omitempty"`

	RoomAssignment string `json:"room_assignment,omitempty"`
	BedNumber      string `json:"bed_number,omitempty"`

	GovernmentRegistrationNumber string `json:"government_registration_number,omitempty"`
	CourtCaseNumber              string `json:"court_case_number,omitempty"`

	Guardian         Guardian         `json:"guardian"`
	EmergencyContact EmergencyContact `json:"emergency_contact"`
	NextOfKinName    string           `json:"next_of_kin_name,omitempty"`
	NextOfKinContact string           `json:"next_of_kin_contact,omitempty"`

	BloodType         string                  `json:"blood_type,omitempty"`
	Genotype          string                  `json:"genotype,omitempty"`
	Allergies         []string                `json:"allergies"`
	SpecialNeeds      string                  `json:"special_needs,omitempty"`
	Immunization      ImmunizationStatus      `json:"immunization"`
	MedicalConditions []ChildMedicalCondition `json:"medical_conditions,omitempty"`

	Education Education `json:"education"`

	BehavioralAssessmentScore *int   `json:"behavioral_assessment_score,omitempty"`
	SocialWorkerNotes         string `json:"social_worker_notes,omitempty"`
	Ambition                  string `json:"ambition,omitempty"`

	PrimaryPhotoURL string          `json:"primary_photo_url,omitempty"`
	Photos          []ChildPhoto    `json:"photos,omitempty"`
	Documents       []ChildDocument `json:"documents,omitempty"`

	Notes string `json:"notes,omitempty"`

	CreatedByName string    `json:"created_by_name,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (c *Child) ToResponse() *ChildResponse {
	resp := &ChildResponse{
		ID:                           c.ID,
		ChildID:                      c.ChildID,
		FirstName:                    c.FirstName,
		LastName:                     c.LastName,
		MiddleName:                   c.MiddleName,
		PreferredName:                c.PreferredName,
		FullName:                     c.FullName(),
		BirthCertificateNo:           c.BirthCertificateNo,
		DateOfBirth:                  c.DateOfBirth,
		Age:                          c.AgeAt(time.Now()),
		EstimatedAge:                 c.EstimatedAge,
		Gender:                       c.Gender,
		StateOfOrigin:                c.StateOfOrigin,
		LGA:                          c.LGA,
		Nationality:                  c.Nationality,
		PrimaryLanguage:              c.PrimaryLanguage,
		Religion:                     c.Religion,
		TribalMarks:                  c.TribalMarks,
		HeightCM:                     c.HeightCM,
		WeightKG:                     c.WeightKG,
		AdmissionDate:                c.AdmissionDate,
		AdmissionReason:              c.AdmissionReason,
		ReferralSource:               c.ReferralSource,
		Status:                       c.Status,
		ExitDate:                     c.ExitDate,
		ExitReason:                   c.ExitReason,
		RoomAssignment:               c.RoomAssignment,
		BedNumber:                    c.BedNumber,
		GovernmentRegistrationNumber: c.GovernmentRegistrationNumber,
		CourtCaseNumber:              c.CourtCaseNumber,
		Guardian:                     c.Guardian,
		EmergencyContact:             c.EmergencyContact,
		NextOfKinName:                c.NextOfKinName,
		NextOfKinContact:             c.NextOfKinContact,
		BloodType:                    c.BloodType,
		Genotype:                     c.Genotype,
		Allergies:                    c.Allergies,
		SpecialNeeds:                 c.SpecialNeeds,
		Immunization:                 c.Immunization,
		MedicalConditions:            c.MedicalConditions,
		Education:                    c.Education,
		BehavioralAssessmentScore:    c.BehavioralAssessmentScore,
		SocialWorkerNotes:            c.SocialWorkerNotes,
		Ambition:                     c.Ambition,
		Photos:                       c.Photos,
		Documents:                    c.Documents,
		Notes:                        c.Notes,
		CreatedAt:                    c.CreatedAt,
		UpdatedAt:                    c.UpdatedAt,
	}

	if photo := c.PrimaryPhoto(); photo != nil {
		resp.PrimaryPhotoURL = photo.URL
	}

	if c.CreatedBy != nil {
		resp.CreatedByName = c.CreatedBy.FullName()
	}

	return resp
}

// ChildMedicalCondition represents the child_medical_conditions table
type ChildMedicalCondition struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ChildID       uint       `gorm:"not null;index" json:"child_id"`
	Condition     string     `gorm:"size:100;not null" json:"condition"`
	DiagnosedDate *time.Time `json:"diagnosed_date"`
	Notes         string     `gorm:"size:500" json:"notes"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (ChildMedicalCondition) TableName() string {
	return "child_medical_conditions"
}

// ChildPhoto represents the child_photos table. At most one photo per
// child carries is_primary; setting a new primary clears the old flag.
type ChildPhoto struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ChildID    uint      `gorm:"not null;index" json:"child_id"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	Path       string    `gorm:"size:500;not null" json:"-"`
	URL        string    `gorm:"size:255;not null" json:"url"`
	Caption    string    `gorm:"size:200" json:"caption"`
	IsPrimary  bool      `gorm:"default:false;index" json:"is_primary"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (ChildPhoto) TableName() string {
	return "child_photos"
}

// ChildDocument represents the child_documents table
type ChildDocument struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ChildID    uint      `gorm:"not null;index" json:"child_id"`
	Type       string    `gorm:"size:30;default:'Other'" json:"type"`
	Name       string    `gorm:"size:200" json:"name"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	Path       string    `gorm:"size:500;not null" json:"-"`
	URL        string    `gorm:"size:255;not null" json:"url"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (ChildDocument) TableName() string {
	return "child_documents"
}
