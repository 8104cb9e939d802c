package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/finbudd/cfa-tracker-api/internal/service"
	"github.com/finbudd/cfa-tracker-api/internal/utils"
)

// AdminHandler exposes the read-only admin dashboard.
type AdminHandler struct {
	service service.AdminService
	logger  zerolog.Logger
}

// NewAdminHandler creates a new handler instance.
func NewAdminHandler(service service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches the admin endpoints.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.getDashboard)
}

func (h *AdminHandler) getDashboard(c *fiber.Ctx) error {
	dashboard, err := h.service.GetDashboard(c.UserContext())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load admin dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load admin dashboard")
	}

	return utils.SendSuccess(c, "admin dashboard retrieved", dashboard)
}
