package services

import (
	"context"
	"fmt"
	"time"

	"tabitha-home/internal/adapters/persistence/repositories"
	"tabitha-home/internal/core/domain"
)

// ReportService builds aggregate views for the dashboard and reports
type ReportService struct {
	childRepo repositories.ChildRepository
	staffRepo repositories.StaffRepository
	now       func() time.Time
}

// NewReportService creates a new report service
func NewReportService(childRepo repositories.ChildRepository, staffRepo repositories.StaffRepository) *ReportService {
	return &ReportService{
		childRepo: childRepo,
		staffRepo: staffRepo,
		now:       time.Now,
	}
}

// MonthlyCount is one bucket of an admission trend
type MonthlyCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// Dashboard is the landing-page summary
type Dashboard struct {
	ActiveChildren   int64            `json:"active_children"`
	TotalChildren    int64            `json:"total_children"`
	ActiveStaff      int64            `json:"active_staff"`
	RecentAdmissions int64            `json:"recent_admissions"`
	ChildrenByStatus map[string]int64 `json:"children_by_status"`
	AdmissionTrend   []MonthlyCount   `json:"admission_trend"`
}

// Dashboard aggregates the headline numbers plus a 12-month admission
// trend. Months are bucketed here so the buckets are identical across
// database engines.
func (s *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	byStatus, err := s.childRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range byStatus {
		total += count
	}

	activeStaff, err := s.staffRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	yearAgo := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(-1, 1, 0)
	admissions, err := s.childRepo.ListAdmissionDates(ctx, yearAgo)
	if err != nil {
		return nil, err
	}

	trend := make([]MonthlyCount, 12)
	index := make(map[string]int, 12)
	for i := 0; i < 12; i++ {
		month := yearAgo.AddDate(0, i, 0)
		key := fmt.Sprintf("%04d-%02d", month.Year(), int(month.Month()))
		trend[i] = MonthlyCount{Month: key}
		index[key] = i
	}
	var recent int64
	monthAgo := now.AddDate(0, 0, -30)
	for _, d := range admissions {
		key := fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
		if i, ok := index[key]; ok {
			trend[i].Count++
		}
		if !d.Before(monthAgo) {
			recent++
		}
	}

	return &Dashboard{
		ActiveChildren:   byStatus[domain.ChildStatusActive],
		TotalChildren:    total,
		ActiveStaff:      activeStaff,
		RecentAdmissions: recent,
		ChildrenByStatus: byStatus,
		AdmissionTrend:   trend,
	}, nil
}

// Demographics breaks the active population down by gender, age,
// origin, language and education level
type Demographics struct {
	ByGender    map[string]int64 `json:"by_gender"`
	ByAgeGroup  map[string]int64 `json:"by_age_group"`
	ByState     map[string]int64 `json:"by_state"`
	ByLanguage  map[string]int64 `json:"by_language"`
	ByEducation map[string]int64 `json:"by_education"`
	AverageAge  float64          `json:"average_age"`
}

// Demographics aggregates the distribution of active children
func (s *ReportService) Demographics(ctx context.Context) (*Demographics, error) {
	byGender, err := s.childRepo.CountByField(ctx, "gender", domain.ChildStatusActive)
	if err != nil {
		return nil, err
	}

	byState, err := s.childRepo.CountByField(ctx, "state_of_origin", domain.ChildStatusActive)
	if err != nil {
		return nil, err
	}

	byLanguage, err := s.childRepo.CountByField(ctx, "primary_language", domain.ChildStatusActive)
	if err != nil {
		return nil, err
	}

	byEducation, err := s.childRepo.CountByField(ctx, "education_level", domain.ChildStatusActive)
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
	var ageSum int
	for _, dob := range dobs {
		age := ageInYears(dob, now)
		ageSum += age
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

	var avg float64
	if len(dobs) > 0 {
		avg = float64(ageSum) / float64(len(dobs))
	}

	return &Demographics{
		ByGender:    byGender,
		ByAgeGroup:  ageGroups,
		ByState:     byState,
		ByLanguage:  byLanguage,
		ByEducation: byEducation,
		AverageAge:  avg,
	}, nil
}

// HealthReport summarises health flags over active children
type HealthReport struct {
	ActiveChildren       int64            `json:"active_children"`
	WithAllergies        int64            `json:"with_allergies"`
	WithSpecialNeeds     int64            `json:"with_special_needs"`
	ImmunizationUpToDate int64            `json:"immunization_up_to_date"`
	ImmunizationCoverage float64          `json:"immunization_coverage"`
	ByGenotype           map[string]int64 `json:"by_genotype"`
	ByBloodType          map[string]int64 `json:"by_blood_type"`
	MedicalConditions    map[string]int64 `json:"medical_conditions"`
}

// Health aggregates health indicators for active children
func (s *ReportService) Health(ctx context.Context) (*HealthReport, error) {
	byStatus, err := s.childRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	active := byStatus[domain.ChildStatusActive]

	allergies, err := s.childRepo.CountAllergies(ctx, domain.ChildStatusActive)
	if err != nil {
		return nil, err
	}

	specialNeeds, err := s.childRepo.CountSpecialNeeds(ctx, domain.ChildStatusActive)
	if err != nil {
		return nil, err
	}

	immunized, err := s.childRepo.CountImmunizationUpToDate(ctx, domain.ChildStatusActive)
	if err != nil {
		return nil, err
	}

	byGenotype, err := s.childRepo.CountByField(ctx, "genotype", domain.ChildStatusActive)
	if err != nil {
		return nil, err
	}

	byBloodType, err := s.childRepo.CountByField(ctx, "blood_type", domain.ChildStatusActive)
	if err != nil {
		return nil, err
	}

	conditions, err := s.childRepo.CountMedicalConditions(ctx, domain.ChildStatusActive)
	if err != nil {
		return nil, err
	}

	var coverage float64
	if active > 0 {
		coverage = float64(immunized) / float64(active) * 100
	}

	return &HealthReport{
		ActiveChildren:       active,
		WithAllergies:        allergies,
		WithSpecialNeeds:     specialNeeds,
		ImmunizationUpToDate: immunized,
		ImmunizationCoverage: coverage,
		ByGenotype:           byGenotype,
		ByBloodType:          byBloodType,
		MedicalConditions:    conditions,
	}, nil
}
