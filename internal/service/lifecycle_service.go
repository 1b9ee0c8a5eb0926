package service

import (
	"log"
	"time"

	"github.com/newsdesk/internal/db"
	"gorm.io/gorm"
)

// LifecycleService runs the periodic publish/archive passes over the
// article store. Both passes are single predicate-keyed batch updates, so
// re-running a pass with unchanged data writes nothing.
type LifecycleService struct {
	db  *gorm.DB
	now func() time.Time
}

// SweepResult reports how many articles each pass touched.
type SweepResult struct {
	Published int64
	Archived  int64
}

// NewLifecycleService creates a LifecycleService instance.
func NewLifecycleService(gdb *gorm.DB) *LifecycleService {
	return &LifecycleService{db: gdb, now: time.Now}
}

// RunSweep executes the publish pass followed by the archive pass. A failure
// in one pass is logged and does not stop the other; the returned counts
// cover only the rows actually updated.
func (s *LifecycleService) RunSweep() SweepResult {
	now := s.now()
	var result SweepResult

	published, err := s.publishDue(now)
	if err != nil {
		log.Printf("[lifecycle] publish pass failed: %v", err)
	} else {
		result.Published = published
	}

	archived, err := s.archiveExpired(now)
	if err != nil {
		log.Printf("[lifecycle] archive pass failed: %v", err)
	} else {
		result.Archived = archived
	}

	return result
}

// publishDue flips published on approved articles whose scheduled time has
// passed. Nothing else changes.
func (s *LifecycleService) publishDue(now time.Time) (int64, error) {
	res := s.db.Model(&db.Article{}).
		Where("status = ? AND published = ? AND published_at IS NOT NULL AND published_at <= ?",
			db.ArticleStatusApproved, false, now).
		Update("published", true)
	return res.RowsAffected, res.Error
}

// archiveExpired moves published articles past their expiration date into
// the terminal archived state. Archived rows never match again.
func (s *LifecycleService) archiveExpired(now time.Time) (int64, error) {
	res := s.db.Model(&db.Article{}).
		Where("published = ? AND status <> ? AND expiration_date IS NOT NULL AND expiration_date <= ?",
			true, db.ArticleStatusArchived, now).
		Update("status", db.ArticleStatusArchived)
	return res.RowsAffected, res.Error
}
