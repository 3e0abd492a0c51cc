package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vishalmisal215/SPAS/internal/dto"
	"github.com/vishalmisal215/SPAS/internal/service"
	"github.com/vishalmisal215/SPAS/internal/session"
	"github.com/vishalmisal215/SPAS/internal/utils"
)

// AuthHandler handles registration, login and credential recovery.
type AuthHandler struct {
	service service.AuthService
	codec   session.Codec
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, codec session.Codec, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		codec:   codec,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires auth routes.
func (h *AuthHandler) Register(router fiber.Router) {
	router.Post("/student/register", h.registerStudent)
	router.Post("/student/login", h.loginStudent)
	router.Post("/faculty/register", h.registerFaculty)
	router.Post("/faculty/login", h.loginFaculty)
	router.Post("/forgot-password", h.forgotPassword)
	router.Post("/logout", h.logout)
}

func (h *AuthHandler) registerStudent(c *fiber.Ctx) error {
	var payload dto.StudentRegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.RegisterStudent(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid registration details")
		case errors.Is(err, service.ErrAccountExists):
			return utils.SendError(c, fiber.StatusConflict, "roll number already registered")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to register student")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to register student")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student registered", response)
}

func (h *AuthHandler) loginStudent(c *fiber.Ctx) error {
	var payload dto.StudentLoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.LoginStudent(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid login details")
		case errors.Is(err, service.ErrInvalidCredentials):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid roll number or password")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to login student")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to login")
		}
	}

	state := session.State{RollNo: response.Student.RollNo}
	if err := saveState(c, h.codec, state); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to issue session state")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to login")
	}

	return utils.SendSuccess(c, "login successful", response)
}

func (h *AuthHandler) registerFaculty(c *fiber.Ctx) error {
	var payload dto.FacultyRegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.RegisterFaculty(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid registration details")
		case errors.Is(err, service.ErrAccountExists):
			return utils.SendError(c, fiber.StatusConflict, "faculty id already registered")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to register faculty")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to register faculty")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "faculty registered", response)
}

func (h *AuthHandler) loginFaculty(c *fiber.Ctx) error {
	var payload dto.FacultyLoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.LoginFaculty(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid login details")
		case errors.Is(err, service.ErrInvalidCredentials):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid faculty id or password")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to login faculty")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to login")
		}
	}

	state := session.State{FacultyID: response.Faculty.FacultyID}
	if err := saveState(c, h.codec, state); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to issue session state")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to login")
	}

	return utils.SendSuccess(c, "login successful", response)
}

func (h *AuthHandler) forgotPassword(c *fiber.Ctx) error {
	var payload dto.ForgotPasswordRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.ForgotPassword(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid recovery details")
		case errors.Is(err, service.ErrEmailNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "email not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to recover password")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to recover password")
		}
	}

	return utils.SendSuccess(c, "credential recovered", response)
}

func (h *AuthHandler) logout(c *fiber.Ctx) error {
	clearState(c)
	return utils.SendSuccess(c, "logged out", nil)
}
