package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vishalmisal215/SPAS/internal/dto"
	"github.com/vishalmisal215/SPAS/internal/service"
	"github.com/vishalmisal215/SPAS/internal/utils"
)

// QuestionHandler manages the faculty question bank.
type QuestionHandler struct {
	service service.QuestionService
	logger  zerolog.Logger
}

// NewQuestionHandler constructs a question handler.
func NewQuestionHandler(service service.QuestionService, logger zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		service: service,
		logger:  logger.With().Str("component", "question_handler").Logger(),
	}
}

// Register wires question routes.
func (h *QuestionHandler) Register(router fiber.Router) {
	router.Get("/questions", h.list)
	router.Post("/questions", h.add)
	router.Delete("/questions/:id", h.remove)
}

func (h *QuestionHandler) list(c *fiber.Ctx) error {
	practicalID := c.Query("practical_id")
	if practicalID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "practical_id query parameter required")
	}

	response, err := h.service.List(c.Context(), practicalID)
	if err != nil {
		if errors.Is(err, service.ErrPracticalNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "practical not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list questions")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list questions")
	}

	return utils.SendSuccess(c, "questions", response)
}

func (h *QuestionHandler) add(c *fiber.Ctx) error {
	var payload dto.QuestionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Add(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid question details")
		case errors.Is(err, service.ErrPracticalNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "practical not found")
		case errors.Is(err, service.ErrQuestionLimit):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to add question")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to add question")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "question added", response)
}

func (h *QuestionHandler) remove(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid question id")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "question not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete question")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete question")
	}

	return utils.SendSuccess(c, "question deleted", nil)
}
