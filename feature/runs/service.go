package runs

import (
	"context"

	"catalog-sync/core/journal"
	"catalog-sync/core/report"

	"go.uber.org/zap"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Page is one page of runs.
type Page struct {
	Runs   []journal.Run `json:"runs"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// Service reads the journal and the report archive.
type Service struct {
	reader  journal.Reader
	archive *report.Archive
	logger  *zap.Logger
}

// NewService creates a runs service. archive may be nil.
func NewService(reader journal.Reader, archive *report.Archive, logger *zap.Logger) *Service {
	return &Service{reader: reader, archive: archive, logger: logger}
}

// List returns a page of runs, clamping limit to [1, 100].
func (s *Service) List(ctx context.Context, kind string, limit, offset int) (*Page, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	runs, total, err := s.reader.List(ctx, kind, limit, offset)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []journal.Run{}
	}
	return &Page{Runs: runs, Total: total, Limit: limit, Offset: offset}, nil
}

// Get returns one run with its entries.
func (s *Service) Get(ctx context.Context, id string) (*journal.Run, error) {
	return s.reader.Get(ctx, id)
}

// Report returns the archived report body of a run.
func (s *Service) Report(ctx context.Context, id string) ([]byte, error) {
	run, err := s.reader.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.archive.Get(ctx, run.Kind, run.ID)
}

// HasArchive reports whether reports can be fetched.
func (s *Service) HasArchive() bool {
	return s.archive != nil
}
