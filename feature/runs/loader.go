package runs

import (
	"catalog-sync/core/journal"
	"catalog-sync/core/report"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature wires the runs service into the loader.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the runs feature. A nil reader disables it.
func NewFeature(reader journal.Reader, archive *report.Archive, logger *zap.Logger) *Feature {
	svc := NewService(reader, archive, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "runs"
}

// IsEnabled reports whether a journal is configured.
func (f *Feature) IsEnabled() bool {
	return f.service.reader != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
