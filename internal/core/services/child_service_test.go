package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"tabitha-home/internal/adapters/persistence/repositories"
	"tabitha-home/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChildService(t *testing.T) *ChildService {
	t.Helper()

	db := newTestDB(t)
	return NewChildService(
		repositories.NewChildRepository(db),
		repositories.NewSequenceRepository(db),
	)
}

func admitChild(t *testing.T, svc *ChildService, firstName, lastName, gender string, dob time.Time) uint {
	t.Helper()

	result, err := svc.Create(context.Background(), &CreateChildInput{
		FirstName:   firstName,
		LastName:    lastName,
		Gender:      gender,
		DateOfBirth: dob,
	}, 1)
	require.NoError(t, err)
	return result.ID
}

func TestChildCreateAssignsSequentialIdentifier(t *testing.T) {
	svc := newChildService(t)
	ctx := context.Background()

	year := time.Now().Year()
	dob := time.Date(2019, 4, 2, 0, 0, 0, 0, time.UTC)

	first, err := svc.Create(ctx, &CreateChildInput{
		FirstName: "Amina", LastName: "Bello", Gender: "Female", DateOfBirth: dob,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("TH-%d-001", year), first.ChildID)
	assert.Equal(t, domain.ChildStatusActive, first.Status)
	assert.Equal(t, "Nigerian", first.Nationality)

	second, err := svc.Create(ctx, &CreateChildInput{
		FirstName: "Chidi", LastName: "Okafor", Gender: "Male", DateOfBirth: dob,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("TH-%d-002", year), second.ChildID)
}

func TestChildCreateCarriesCareFields(t *testing.T) {
	svc := newChildService(t)
	ctx := context.Background()

	score := 7
	created, err := svc.Create(ctx, &CreateChildInput{
		FirstName:   "Amina",
		LastName:    "Bello",
		Gender:      "Female",
		DateOfBirth: time.Date(2019, 4, 2, 0, 0, 0, 0, time.UTC),
		TribalMarks: "Two marks, left cheek",
		HeightCM:    105,
		WeightKG:    17.5,

		RoomAssignment: "Blue Room",
		BedNumber:      "B4",

		GovernmentRegistrationNumber: "GRN-2026-0042",
		CourtCaseNumber:              "FCT/CC/118",

		NextOfKinName:    "Hauwa Bello",
		NextOfKinContact: "08011112222",

		BehavioralAssessmentScore: &score,
		SocialWorkerNotes:         "Settling in well",
		Ambition:                  "Doctor",
	}, 1)
	require.NoError(t, err)

	loaded, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blue Room", loaded.RoomAssignment)
	assert.Equal(t, "B4", loaded.BedNumber)
	assert.Equal(t, "GRN-2026-0042", loaded.GovernmentRegistrationNumber)
	assert.Equal(t, "FCT/CC/118", loaded.CourtCaseNumber)
	assert.Equal(t, "Hauwa Bello", loaded.NextOfKinName)
	assert.Equal(t, 105.0, loaded.HeightCM)
	assert.Equal(t, 17.5, loaded.WeightKG)
	require.NotNil(t, loaded.BehavioralAssessmentScore)
	assert.Equal(t, 7, *loaded.BehavioralAssessmentScore)
	assert.Equal(t, "Doctor", loaded.Ambition)

	t.Run("updates apply", func(t *testing.T) {
		room := "Green Room"
		weight := 18.2
		updated, err := svc.Update(ctx, created.ID, &UpdateChildInput{
			RoomAssignment: &room,
			WeightKG:       &weight,
		}, 2)
		require.NoError(t, err)
		assert.Equal(t, "Green Room", updated.RoomAssignment)
		assert.Equal(t, 18.2, updated.WeightKG)
	})

	t.Run("out of range measurements rejected", func(t *testing.T) {
		badHeight := 300.0
		_, err := svc.Update(ctx, created.ID, &UpdateChildInput{HeightCM: &badHeight}, 2)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		badScore := 11
		_, err = svc.Create(ctx, &CreateChildInput{
			FirstName: "Chidi", LastName: "Okafor", Gender: "Male",
			DateOfBirth:               time.Date(2017, 8, 20, 0, 0, 0, 0, time.UTC),
			BehavioralAssessmentScore: &badScore,
		}, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestChildCreateValidation(t *testing.T) {
	svc := newChildService(t)
	ctx := context.Background()
	dob := time.Date(2019, 4, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input CreateChildInput
	}{
		{"missing name", CreateChildInput{Gender: "Male", DateOfBirth: dob}},
		{"missing gender", CreateChildInput{FirstName: "A", LastName: "B", DateOfBirth: dob}},
		{"bad gender", CreateChildInput{FirstName: "A", LastName: "B", Gender: "Other", DateOfBirth: dob}},
		{"bad state", CreateChildInput{FirstName: "A", LastName: "B", Gender: "Male", DateOfBirth: dob, StateOfOrigin: "Atlantis"}},
		{"bad blood type", CreateChildInput{FirstName: "A", LastName: "B", Gender: "Male", DateOfBirth: dob, BloodType: "Z+"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, &tt.input, 1)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestChildCreateDuplicateBirthCertificate(t *testing.T) {
	svc := newChildService(t)
	ctx := context.Background()
	dob := time.Date(2019, 4, 2, 0, 0, 0, 0, time.UTC)
	cert := "BC-12345"

	_, err := svc.Create(ctx, &CreateChildInput{
		FirstName: "Amina", LastName: "Bello", Gender: "Female",
		DateOfBirth: dob, BirthCertificateNo: &cert,
	}, 1)
	require.NoError(t, err)

	_, err = svc.Create(ctx, &CreateChildInput{
		FirstName: "Chidi", LastName: "Okafor", Gender: "Male",
		DateOfBirth: dob, BirthCertificateNo: &cert,
	}, 1)
	assert.ErrorIs(t, err, domain.ErrBirthCertTaken)
}

func TestChildCreateConcurrentDistinctIdentifiers(t *testing.T) {
	svc := newChildService(t)
	ctx := context.Background()
	dob := time.Date(2019, 4, 2, 0, 0, 0, 0, time.UTC)

	const workers = 10

	var wg sync.WaitGroup
	ids := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			result, err := svc.Create(ctx, &CreateChildInput{
				FirstName:   fmt.Sprintf("Child%d", n),
				LastName:    "Test",
				Gender:      "Male",
				DateOfBirth: dob,
			}, 1)
			assert.NoError(t, err)
			if result != nil {
				ids <- result.ChildID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, workers)
	for id := range ids {
		assert.False(t, seen[id], "identifier %s assigned twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

func TestChildUpdateKeepsIdentifier(t *testing.T) {
	svc := newChildService(t)
	ctx := context.Background()

	id := admitChild(t, svc, "Amina", "Bello", "Female", time.Date(2019, 4, 2, 0, 0, 0, 0, time.UTC))

	before, err := svc.Get(ctx, id)
	require.NoError(t, err)

	newName := "Aisha"
	updated, err := svc.Update(ctx, id, &UpdateChildInput{FirstName: &newName}, 2)
	require.NoError(t, err)

	assert.Equal(t, "Aisha", updated.FirstName)
	assert.Equal(t, before.ChildID, updated.ChildID)
}

func TestChildUpdateRejectsBadReferenceValues(t *testing.T) {
	svc := newChildService(t)
	ctx := context.Background()

	id := admitChild(t, svc, "Amina", "Bello", "Female", time.Date(2019, 4, 2, 0, 0, 0, 0, time.UTC))

	badStatus := "Vanished"
	_, err := svc.Update(ctx, id, &UpdateChildInput{Status: &badStatus}, 2)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChildExitKeepsRecord(t *testing.T) {
	svc := newChildService(t)
	ctx := context.Background()

	id := admitChild(t, svc, "Amina", "Bello", "Female", time.Date(2019, 4, 2, 0, 0, 0, 0, time.UTC))

	result, err := svc.Exit(ctx, id, "Family reunification", 2)
	require.NoError(t, err)
	assert.Equal(t, domain.ChildStatusExited, result.Status)
	assert.Equal(t, "Family reunification", result.ExitReason)
	require.NotNil(t, result.ExitDate)

	// The record is still retrievable
	loaded, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ChildStatusExited, loaded.Status)
}

func TestChildExitNotFound(t *testing.T) {
	svc := newChildService(t)

	_, err := svc.Exit(context.Background(), 9999, "", 1)
	assert.ErrorIs(t, err, domain.ErrChildNotFound)
}

func TestChildSearchByIdentifier(t *testing.T) {
	svc := newChildService(t)
	ctx := context.Background()

	admitChild(t, svc, "Amina", "Bello", "Female", time.Date(2019, 4, 2, 0, 0, 0, 0, time.UTC))
	admitChild(t, svc, "Chidi", "Okafor", "Male", time.Date(2017, 8, 20, 0, 0, 0, 0, time.UTC))

	results, total, err := svc.Search(ctx, fmt.Sprintf("TH-%d-002", time.Now().Year()), 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, "Chidi", results[0].FirstName)

	_, _, err = svc.Search(ctx, "", 0, 20)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChildAutocompleteShortPrefix(t *testing.T) {
	svc := newChildService(t)

	names, err := svc.Autocomplete(context.Background(), "", "A")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestChildStats(t *testing.T) {
	svc := newChildService(t)
	ctx := context.Background()

	now := time.Now()
	admitChild(t, svc, "Baby", "One", "Female", now.AddDate(-1, 0, 0))
	admitChild(t, svc, "Kid", "Two", "Male", now.AddDate(-7, 0, 0))
	admitChild(t, svc, "Teen", "Three", "Male", now.AddDate(-14, 0, 0))

	exitID := admitChild(t, svc, "Gone", "Four", "Female", now.AddDate(-4, 0, 0))
	_, err := svc.Exit(ctx, exitID, "", 1)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(3), stats.ByStatus[domain.ChildStatusActive])
	assert.Equal(t, int64(1), stats.ByStatus[domain.ChildStatusExited])
	assert.Equal(t, int64(2), stats.ByGender["Male"])
	assert.Equal(t, int64(1), stats.ByAgeGroup["0-2"])
	assert.Equal(t, int64(1), stats.ByAgeGroup["6-11"])
	assert.Equal(t, int64(1), stats.ByAgeGroup["12-17"])
	assert.Equal(t, int64(4), stats.RecentArrivals)
}
