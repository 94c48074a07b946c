package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Staff accounts (auth + HR record)
// ============================================================

// Address is embedded on staff records
type Address struct {
	Street     string `gorm:"size:200" json:"street"`
	City       string `gorm:"size:100" json:"city"`
	State      string `gorm:"size:50" json:"state"`
	LGA        string `gorm:"column:lga;size:100" json:"lga"`
	PostalCode string `gorm:"size:20" json:"postal_code"`
}

// EmergencyContact is embedded on staff and child records
type EmergencyContact struct {
	Name         string `gorm:"size:100" json:"name"`
	Relationship string `gorm:"size:50" json:"relationship"`
	Phone        string `gorm:"size:30" json:"phone"`
	Address      string `gorm:"size:200" json:"address"`
}

// Staff represents the staff table. An account is never hard-deleted;
// deactivation is the terminal state.
type Staff struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Identity
	EmployeeID string `gorm:"uniqueIndex;size:20;not null" json:"employee_id"`
	FirstName  string `gorm:"size:50;not null" json:"first_name"`
	LastName   string `gorm:"size:50;not null" json:"last_name"`
	Email      string `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Phone      string `gorm:"size:30;not null" json:"phone"`

	// Personal
	DateOfBirth   time.Time `gorm:"not null" json:"date_of_birth"`
	Gender        string    `gorm:"size:10;not null" json:"gender"`
	MaritalStatus string    `gorm:"size:20;default:'Single'" json:"marital_status"`
	NIN           *string   `gorm:"column:nin;uniqueIndex;size:11" json:"nin,omitempty"`

	Address          Address          `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	EmergencyContact EmergencyContact `gorm:"embedded;embeddedPrefix:emergency_" json:"emergency_contact"`

	// Employment
	Position         string    `gorm:"size:50;not null" json:"position"`
	Department       string    `gorm:"size:50;not null;index" json:"department"`
	DateHired        time.Time `gorm:"not null" json:"date_hired"`
	EmploymentStatus string    `gorm:"size:20;default:'Active'" json:"employment_status"`
	EmploymentType   string    `gorm:"size:20;default:'Full-time'" json:"employment_type"`
	Salary           float64   `gorm:"type:decimal(12,2);default:0" json:"salary"`

	// Access
	Role        string   `gorm:"size:20;not null;default:'staff';index" json:"role"`
	Permissions []string `gorm:"serializer:json" json:"permissions"`
	IsActive    bool     `gorm:"default:true;index" json:"is_active"`

	// Credentials and lockout state
	Password           string     `gorm:"size:255;not null" json:"-"`
	PasswordMustChange bool       `gorm:"default:true" json:"password_must_change"`
	PasswordChangedAt  *time.Time `json:"-"`
	LastLogin          *time.Time `json:"last_login"`
	LoginAttempts      int        `gorm:"default:0" json:"-"`
	AccountLocked      bool       `gorm:"default:false" json:"-"`
	AccountLockedUntil *time.Time `json:"-"`

	// Files
	PhotoURL  string          `gorm:"size:255" json:"photo_url"`
	Documents []StaffDocument `gorm:"foreignKey:StaffID" json:"documents,omitempty"`

	// Audit
	CreatedByID      *uint  `json:"created_by_id"`
	LastModifiedByID *uint  `json:"last_modified_by_id"`
	CreatedBy        *Staff `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	LastModifiedBy   *Staff `gorm:"foreignKey:LastModifiedByID" json:"last_modified_by,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Staff) TableName() string {
	return "staff"
}

// FullName returns first and last name joined
func (s *Staff) FullName() string {
	return s.FirstName + " " + s.LastName
}

// LockExpired reports whether a lockout window has already elapsed
func (s *Staff) LockExpired(now time.Time) bool {
	return s.AccountLocked && (s.AccountLockedUntil == nil || !now.Before(*s.AccountLockedUntil))
}

// ChangedPasswordAfter reports whether the password changed after the
// given token issue time, which invalidates the token.
func (s *Staff) ChangedPasswordAfter(issuedAt time.Time) bool {
	return s.PasswordChangedAt != nil && issuedAt.Before(*s.PasswordChangedAt)
}

// StaffResponse is the staff DTO; it never carries credential or
// lockout internals.
type StaffResponse struct {
	ID                 uint             `json:"id"`
	EmployeeID         string           `json:"employee_id"`
	FirstName          string           `json:"first_name"`
	LastName           string           `json:"last_name"`
	FullName           string           `json:"full_name"`
	Email              string           `json:"email"`
	Phone              string           `json:"phone"`
	DateOfBirth        time.Time        `json:"date_of_birth"`
	Gender             string           `json:"gender"`
	MaritalStatus      string           `json:"marital_status"`
	NIN                *string          `json:"nin,omitempty"`
	Address            Address          `json:"address"`
	EmergencyContact   EmergencyContact `json:"emergency_contact"`
	Position           string           `json:"position"`
	Department         string           `json:"department"`
	DateHired          time.Time        `json:"date_hired"`
	EmploymentStatus   string           `json:"employment_status"`
	EmploymentType     string           `json:"employment_type"`
	Role               string           `json:"role"`
	Permissions        []string         `json:"permissions"`
	IsActive           bool             `json:"is_active"`
	PasswordMustChange bool             `json:"password_must_change"`
	LastLogin          *time.Time       `json:"last_login"`
	PhotoURL           string           `json:"photo_url"`
	Documents          []StaffDocument  `json:"documents,omitempty"`
	CreatedByName      string           `json:"created_by_name,omitempty"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
}

func (s *Staff) ToResponse() *StaffResponse {
	resp := &StaffResponse{
		ID:                 s.ID,
		EmployeeID:         s.EmployeeID,
		FirstName:          s.FirstName,
		LastName:           s.LastName,
		FullName:           s.FullName(),
		Email:              s.Email,
		Phone:              s.Phone,
		DateOfBirth:        s.DateOfBirth,
		Gender:             s.Gender,
		MaritalStatus:      s.MaritalStatus,
		NIN:                s.NIN,
		Address:            s.Address,
		EmergencyContact:   s.EmergencyContact,
		Position:           s.Position,
		Department:         s.Department,
		DateHired:          s.DateHired,
		EmploymentStatus:   s.EmploymentStatus,
		EmploymentType:     s.EmploymentType,
		Role:               s.Role,
		Permissions:        s.Permissions,
		IsActive:           s.IsActive,
		PasswordMustChange: s.PasswordMustChange,
		LastLogin:          s.LastLogin,
		PhotoURL:           s.PhotoURL,
		Documents:          s.Documents,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}

	if s.CreatedBy != nil {
		resp.CreatedByName = s.CreatedBy.FullName()
	}

	return resp
}

// StaffDocument represents the staff_documents table
type StaffDocument struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StaffID    uint      `gorm:"not null;index" json:"staff_id"`
	Type       string    `gorm:"size:20;default:'Other'" json:"type"`
	Name       string    `gorm:"size:200" json:"name"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	Path       string    `gorm:"size:500;not null" json:"path"`
	UploadedAt time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (StaffDocument) TableName() string {
	return "staff_documents"
}

// ============================================================
// Sequence counters
// ============================================================

// Sequence backs human-readable identifier generation. One row per
// entity type per calendar year; value is bumped with an atomic
// in-place UPDATE so concurrent creations never share a number.
type Sequence struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	EntityType string `gorm:"size:20;not null;uniqueIndex:idx_sequences_type_year" json:"entity_type"`
	Year       int    `gorm:"not null;uniqueIndex:idx_sequences_type_year" json:"year"`
	Value      int    `gorm:"not null;default:0" json:"value"`
}

func (Sequence) TableName() string {
	return "sequences"
}

// Entity types with sequential identifiers, and the prefixes their
// identifiers carry, e.g. TH-2026-014 and THS-2026-001
const (
	EntityChild = "child"
	EntityStaff = "staff"

	ChildIDPrefix = "TH"
	StaffIDPrefix = "THS"
)

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate creates or updates all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Staff{},
		&StaffDocument{},
		&Sequence{},
		&Child{},
		&ChildMedicalCondition{},
		&ChildPhoto{},
		&ChildDocument{},
	)
}
