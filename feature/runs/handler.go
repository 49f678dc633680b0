package runs

import (
	"errors"

	"catalog-sync/core/errs"
	"catalog-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the journal routes.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the runs routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/runs")
	group.Get("/", h.HandleList)
	group.Get("/:id", h.HandleGet)
	group.Get("/:id/report", h.HandleReport)
}

// HandleList lists recorded runs.
// @Summary List Runs
// @Description Lists sync, version and submit runs, newest first.
// @Tags runs
// @Produce json
// @Param kind query string false "Run kind (sync, version, submit)"
// @Param limit query int false "Page size, at most 100" default(20)
// @Param offset query int false "Rows to skip"
// @Success 200 {object} Page
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /runs [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	page, err := h.service.List(c.Context(), c.Query("kind"), c.QueryInt("limit", defaultLimit), c.QueryInt("offset", 0))
	if err != nil {
		l.Error("Failed to list runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(page)
}

// HandleGet returns one run with its entries.
// @Summary Get Run
// @Description Returns a run and the outcome of every entity it touched.
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} journal.Run
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /runs/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	run, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(run)
}

// HandleReport streams the archived report of a run.
// @Summary Get Run Report
// @Description Returns the JSON report archived for a run.
// @Tags runs
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Report"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 501 {object} map[string]string "Archive disabled"
// @Router /runs/{id}/report [get]
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	if !h.service.HasArchive() {
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "report archive is disabled"})
	}
	body, err := h.service.Report(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.service.logger, c).Error("Run lookup failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
