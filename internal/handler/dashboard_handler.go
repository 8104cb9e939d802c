package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/finbudd/cfa-tracker-api/internal/service"
	"github.com/finbudd/cfa-tracker-api/internal/utils"
)

// DashboardHandler exposes the student dashboard endpoints.
type DashboardHandler struct {
	service service.DashboardService
	logger  zerolog.Logger
}

// NewDashboardHandler creates a new handler instance.
func NewDashboardHandler(service service.DashboardService, logger zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger.With().Str("component", "dashboard_handler").Logger(),
	}
}

// Register attaches the dashboard endpoints.
func (h *DashboardHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.getDashboard)
	router.Get("/topics/:topicID", h.getTopicDetail)
}

func (h *DashboardHandler) getDashboard(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	dashboard, err := h.service.GetDashboard(c.UserContext(), studentID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Str("student_id", studentID).Msg("failed to load dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}

	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}

func (h *DashboardHandler) getTopicDetail(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	topicID := c.Params("topicID")
	detail, err := h.service.GetTopicDetail(c.UserContext(), studentID, topicID)
	if err != nil {
		if errors.Is(err, service.ErrTopicNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "topic not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Str("topic_id", topicID).Msg("failed to load topic detail")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load topic detail")
	}

	return utils.SendSuccess(c, "topic detail retrieved", detail)
}
