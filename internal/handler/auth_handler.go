package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/finbudd/cfa-tracker-api/internal/dto"
	"github.com/finbudd/cfa-tracker-api/internal/service"
	"github.com/finbudd/cfa-tracker-api/internal/utils"
)

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler creates a new handler instance.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register attaches the auth endpoints.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/signup", h.signUp)
	router.Post("/signin", h.signIn)
	router.Post("/signout", h.signOut)
	router.Get("/me", h.currentUser)
}

func (h *AuthHandler) signUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.service.SignUp(c.UserContext(), req)
	if err != nil {
		return h.sendAuthError(c, err, "failed to sign up")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account created", session)
}

func (h *AuthHandler) signIn(c *fiber.Ctx) error {
	var req dto.SignInRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	session, err := h.service.SignIn(c.UserContext(), req)
	if err != nil {
		return h.sendAuthError(c, err, "failed to sign in")
	}

	return utils.SendSuccess(c, "signed in", session)
}

func (h *AuthHandler) signOut(c *fiber.Ctx) error {
	token := tokenFromContext(c)
	if token == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
	}

	if err := h.service.SignOut(c.UserContext(), token); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to sign out")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to sign out")
	}

	return utils.SendSuccess(c, "signed out", nil)
}

// currentUser is the session probe clients run on startup. A missing or
// expired session answers 200 with authenticated=false, never an error.
func (h *AuthHandler) currentUser(c *fiber.Ctx) error {
	current, err := h.service.CurrentUser(c.UserContext(), bearerToken(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to resolve current user")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to resolve current user")
	}

	return utils.SendSuccess(c, "session resolved", current)
}

func (h *AuthHandler) sendAuthError(c *fiber.Ctx, err error, fallback string) error {
	if isValidationError(err) {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}
	if errors.Is(err, service.ErrAuthFailed) {
		return utils.SendError(c, fiber.StatusUnauthorized, service.ErrAuthFailed.Error())
	}

	requestLogger(h.logger, c).Error().Err(err).Msg(fallback)
	return utils.SendError(c, fiber.StatusInternalServerError, fallback)
}
