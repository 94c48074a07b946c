package repositories_test

import (
	"context"
	"sync"
	"testing"

	"tabitha-home/internal/adapters/persistence/models"
	"tabitha-home/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceNextID(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewSequenceRepository(db)
	ctx := context.Background()

	id, err := repo.NextID(ctx, models.EntityChild, "TH", 2026)
	require.NoError(t, err)
	assert.Equal(t, "TH-2026-001", id)

	id, err = repo.NextID(ctx, models.EntityChild, "TH", 2026)
	require.NoError(t, err)
	assert.Equal(t, "TH-2026-002", id)
}

func TestSequenceNextIDIndependentCounters(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewSequenceRepository(db)
	ctx := context.Background()

	childID, err := repo.NextID(ctx, models.EntityChild, "TH", 2026)
	require.NoError(t, err)
	staffID, err := repo.NextID(ctx, models.EntityStaff, "THS", 2026)
	require.NoError(t, err)

	assert.Equal(t, "TH-2026-001", childID)
	assert.Equal(t, "THS-2026-001", staffID)

	// A new year starts a fresh counter
	nextYear, err := repo.NextID(ctx, models.EntityChild, "TH", 2027)
	require.NoError(t, err)
	assert.Equal(t, "TH-2027-001", nextYear)
}

func TestSequenceNextIDWidensPastThreeDigits(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewSequenceRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Sequence{
		EntityType: models.EntityChild, Year: 2026, Value: 999,
	}).Error)

	id, err := repo.NextID(ctx, models.EntityChild, "TH", 2026)
	require.NoError(t, err)
	assert.Equal(t, "TH-2026-1000", id)
}

func TestSequenceNextIDConcurrent(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewSequenceRepository(db)
	ctx := context.Background()

	const workers = 20

	var wg sync.WaitGroup
	ids := make(chan string, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := repo.NextID(ctx, models.EntityChild, "TH", 2026)
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, workers)
	for id := range ids {
		assert.False(t, seen[id], "identifier %s handed out twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}
