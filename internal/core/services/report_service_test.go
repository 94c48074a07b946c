package services

import (
	"context"
	"testing"
	"time"

	"tabitha-home/internal/adapters/persistence/models"
	"tabitha-home/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportDashboardAndHealth(t *testing.T) {
	db := newTestDB(t)
	childRepo := repositories.NewChildRepository(db)
	staffRepo := repositories.NewStaffRepository(db)
	svc := NewReportService(childRepo, staffRepo)
	ctx := context.Background()

	now := time.Now()
	children := []*models.Child{
		{
			ChildID: "TH-2026-001", FirstName: "Amina", LastName: "Bello",
			Gender: "Female", DateOfBirth: now.AddDate(-4, 0, 0),
			AdmissionDate: now.AddDate(0, 0, -10), Status: "Active",
			StateOfOrigin: "Lagos", PrimaryLanguage: "Yoruba",
			Genotype: "AS", BloodType: "O+",
			Allergies:    []string{"Peanuts"},
			Immunization: models.ImmunizationStatus{UpToDate: true},
		},
		{
			ChildID: "TH-2026-002", FirstName: "Chidi", LastName: "Okafor",
			Gender: "Male", DateOfBirth: now.AddDate(-9, 0, 0),
			AdmissionDate: now.AddDate(0, -3, 0), Status: "Active",
			StateOfOrigin: "Enugu", PrimaryLanguage: "Igbo",
			Genotype: "AA", BloodType: "A+",
			SpecialNeeds: "Hearing impairment",
		},
		{
			ChildID: "TH-2026-003", FirstName: "Ngozi", LastName: "Eze",
			Gender: "Female", DateOfBirth: now.AddDate(-6, 0, 0),
			AdmissionDate: now.AddDate(-2, 0, 0), Status: "Exited",
		},
	}
	for _, c := range children {
		require.NoError(t, childRepo.Create(ctx, c))
	}

	require.NoError(t, staffRepo.Create(ctx, &models.Staff{
		EmployeeID: "THS-2026-001", FirstName: "Grace", LastName: "Adeyemi",
		Email: "grace@tabithahome.org", Phone: "0", Gender: "Female",
		DateOfBirth: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Position: "Nurse", Department: "Medical", DateHired: now,
		Role: "staff", IsActive: true, Password: "x",
	}))

	dashboard, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), dashboard.ActiveChildren)
	assert.Equal(t, int64(3), dashboard.TotalChildren)
	assert.Equal(t, int64(1), dashboard.ActiveStaff)
	assert.Equal(t, int64(1), dashboard.RecentAdmissions)
	assert.Len(t, dashboard.AdmissionTrend, 12)

	var trendTotal int64
	for _, m := range dashboard.AdmissionTrend {
		trendTotal += m.Count
	}
	assert.Equal(t, int64(2), trendTotal, "only the two admissions within the last year are bucketed")

	require.NoError(t, childRepo.AddMedicalCondition(ctx, &models.ChildMedicalCondition{
		ChildID: children[1].ID, Condition: "Asthma",
	}))

	health, err := svc.Health(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), health.ActiveChildren)
	assert.Equal(t, int64(1), health.WithAllergies)
	assert.Equal(t, int64(1), health.WithSpecialNeeds)
	assert.Equal(t, int64(1), health.ImmunizationUpToDate)
	assert.InDelta(t, 50.0, health.ImmunizationCoverage, 0.01)
	assert.Equal(t, int64(1), health.ByGenotype["AS"])
	assert.Equal(t, int64(1), health.ByBloodType["A+"])
	assert.Equal(t, int64(1), health.MedicalConditions["Asthma"])

	demographics, err := svc.Demographics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), demographics.ByGender["Female"])
	assert.Equal(t, int64(1), demographics.ByGender["Male"])
	assert.Equal(t, int64(1), demographics.ByAgeGroup["3-5"])
	assert.Equal(t, int64(1), demographics.ByAgeGroup["6-11"])
	assert.Equal(t, int64(1), demographics.ByState["Lagos"])
	assert.Equal(t, int64(1), demographics.ByLanguage["Igbo"])
	assert.InDelta(t, 6.5, demographics.AverageAge, 0.6)
}
