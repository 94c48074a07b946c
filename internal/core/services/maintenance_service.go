package services

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"time"

	"tabitha-home/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// MaintenanceService runs scheduled housekeeping jobs
type MaintenanceService struct {
	childRepo repositories.ChildRepository
	uploadDir string
	cron      *cron.Cron
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(childRepo repositories.ChildRepository, uploadDir string) *MaintenanceService {
	return &MaintenanceService{
		childRepo: childRepo,
		uploadDir: uploadDir,
		cron:      cron.New(),
	}
}

// Start schedules the jobs and starts the scheduler
func (s *MaintenanceService) Start() error {
	// Nightly sweep of upload files no record points at
	if _, err := s.cron.AddFunc("0 2 * * *", func() {
		if err := s.SweepOrphanedFiles(context.Background()); err != nil {
			log.Printf("❌ Orphaned file sweep failed: %v", err)
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("⏰ Maintenance scheduler started")
	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *MaintenanceService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// SweepOrphanedFiles deletes files under the upload directory that no
// photo or document row references. Files younger than an hour are
// skipped; their rows may still be mid-write.
func (s *MaintenanceService) SweepOrphanedFiles(ctx context.Context) error {
	paths, err := s.childRepo.ListFilePaths(ctx)
	if err != nil {
		return err
	}

	referenced := make(map[string]bool, len(paths))
	for _, p := range paths {
		referenced[filepath.Clean(p)] = true
	}

	cutoff := time.Now().Add(-time.Hour)
	var removed int

	err = filepath.Walk(s.uploadDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if referenced[filepath.Clean(path)] {
			return nil
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.Printf("⚠️ Could not remove orphaned file %s: %v", path, err)
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if removed > 0 {
		log.Printf("🧹 Removed %d orphaned upload files", removed)
	}
	return nil
}
