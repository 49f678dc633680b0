package journal

import (
	"context"
	"errors"
	"fmt"

	"catalog-sync/core/errs"

	"gorm.io/gorm"
)

// Recorder persists finished runs.
type Recorder interface {
	Record(ctx context.Context, run *Run) error
}

// Reader lists and fetches recorded runs.
type Reader interface {
	List(ctx context.Context, kind string, limit, offset int) ([]Run, int64, error)
	Get(ctx context.Context, id string) (*Run, error)
}

// Store is the GORM-backed journal.
type Store struct {
	db *gorm.DB
}

// New creates a Store over db.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Migrate creates or updates the journal tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Run{}, &Entry{}); err != nil {
		return fmt.Errorf("failed to migrate journal: %w", err)
	}
	return nil
}

// Record writes a run and its entries in one transaction.
func (s *Store) Record(ctx context.Context, run *Run) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// List returns runs newest first, without entries, plus the total count.
// An empty kind lists every kind.
func (s *Store) List(ctx context.Context, kind string, limit, offset int) ([]Run, int64, error) {
	query := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&Run{})
		if kind != "" {
			q = q.Where("kind = ?", kind)
		}
		return q
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count runs: %w", err)
	}

	var runs []Run
	if err := query().Order("started_at DESC").Limit(limit).Offset(offset).Find(&runs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, total, nil
}

// Get returns a run with its entries.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.db.WithContext(ctx).Preload("Entries").Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFoundError("run", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return &run, nil
}

// Nop discards runs. Used when the journal is disabled.
type Nop struct{}

// Record implements Recorder.
func (Nop) Record(context.Context, *Run) error { return nil }
