package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/finbudd/cfa-tracker-api/internal/dto"
	"github.com/finbudd/cfa-tracker-api/internal/service"
	"github.com/finbudd/cfa-tracker-api/internal/utils"
)

// ProgressHandler exposes the mutation endpoints: quiz submissions and video
// coverage updates.
type ProgressHandler struct {
	service service.ProgressService
	logger  zerolog.Logger
}

// NewProgressHandler creates a new handler instance.
func NewProgressHandler(service service.ProgressService, logger zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		service: service,
		logger:  logger.With().Str("component", "progress_handler").Logger(),
	}
}

// Register attaches the progress endpoints.
func (h *ProgressHandler) Register(router fiber.Router) {
	router.Post("/quizzes", h.submitQuiz)
	router.Put("/topics/:topicID/video", h.updateVideoCoverage)
}

func (h *ProgressHandler) submitQuiz(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	var req dto.QuizSubmissionRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	rollup, err := h.service.SubmitQuiz(c.UserContext(), studentID, req)
	if err != nil {
		return h.sendProgressError(c, err, "failed to add quiz score")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "quiz score recorded", rollup)
}

func (h *ProgressHandler) updateVideoCoverage(c *fiber.Ctx) error {
	studentID := userIDFromContext(c)
	if studentID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "missing user context")
	}

	var req dto.VideoCoverageRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	rollup, err := h.service.UpdateVideoCoverage(c.UserContext(), studentID, c.Params("topicID"), req)
	if err != nil {
		return h.sendProgressError(c, err, "failed to update video coverage")
	}

	return utils.SendSuccess(c, "video coverage updated", rollup)
}

func (h *ProgressHandler) sendProgressError(c *fiber.Ctx, err error, fallback string) error {
	if isValidationError(err) {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if errors.Is(err, service.ErrTopicNotFound) {
		return utils.SendError(c, fiber.StatusNotFound, "topic not found")
	}

	requestLogger(h.logger, c).Error().Err(err).Msg(fallback)
	return utils.SendError(c, fiber.StatusInternalServerError, fallback)
}
