package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vishalmisal215/SPAS/internal/dto"
	"github.com/vishalmisal215/SPAS/internal/service"
	"github.com/vishalmisal215/SPAS/internal/utils"
)

// CatalogHandler manages subjects and practicals.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler constructs a catalog handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// Register wires catalog routes.
func (h *CatalogHandler) Register(router fiber.Router) {
	router.Get("/subjects", h.listSubjects)
	router.Post("/subjects", h.addSubject)
	router.Get("/practicals", h.listPracticals)
	router.Post("/practicals", h.addPractical)
	router.Delete("/practicals/:id", h.removePractical)
}

func (h *CatalogHandler) listSubjects(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "subjects", h.service.Subjects(c.Context()))
}

func (h *CatalogHandler) listPracticals(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "practicals", h.service.AllPracticals(c.Context()))
}

func (h *CatalogHandler) addSubject(c *fiber.Ctx) error {
	var payload dto.SubjectCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.AddSubject(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid subject details")
		case errors.Is(err, service.ErrSubjectExists):
			return utils.SendError(c, fiber.StatusConflict, "subject already exists")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to add subject")
			return utils.SendError(c, fiber.StatusBadRequest, "failed to add subject")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "subject added", response)
}

func (h *CatalogHandler) addPractical(c *fiber.Ctx) error {
	var payload dto.PracticalCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.AddPractical(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid practical details")
		case errors.Is(err, service.ErrSubjectNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "subject not found")
		case errors.Is(err, service.ErrPracticalExists):
			return utils.SendError(c, fiber.StatusConflict, "practical already exists")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to add practical")
			return utils.SendError(c, fiber.StatusBadRequest, "failed to add practical")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "practical added", response)
}

func (h *CatalogHandler) removePractical(c *fiber.Ctx) error {
	if err := h.service.RemovePractical(c.Context(), c.Params("id")); err != nil {
		if errors.Is(err, service.ErrPracticalNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "practical not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to remove practical")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to remove practical")
	}

	return utils.SendSuccess(c, "practical removed", nil)
}
