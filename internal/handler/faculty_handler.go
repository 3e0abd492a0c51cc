package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vishalmisal215/SPAS/internal/dto"
	"github.com/vishalmisal215/SPAS/internal/middleware"
	"github.com/vishalmisal215/SPAS/internal/service"
	"github.com/vishalmisal215/SPAS/internal/utils"
)

// FacultyHandler serves the performance report and faculty account management.
type FacultyHandler struct {
	reports service.ReportService
	exams   service.ExamService
	auth    service.AuthService
	logger  zerolog.Logger
}

// NewFacultyHandler constructs a faculty handler.
func NewFacultyHandler(reports service.ReportService, exams service.ExamService, auth service.AuthService, logger zerolog.Logger) *FacultyHandler {
	return &FacultyHandler{
		reports: reports,
		exams:   exams,
		auth:    auth,
		logger:  logger.With().Str("component", "faculty_handler").Logger(),
	}
}

// Register wires faculty routes.
func (h *FacultyHandler) Register(router fiber.Router) {
	router.Get("/report", h.report)
	router.Get("/results/:roll/:practical", h.viewResult)
	router.Get("/results/:roll/:practical/raw", h.rawResult)
	router.Put("/profile", h.updateProfile)
	router.Delete("/account", h.deleteAccount)
	router.Delete("/students/:roll", h.deleteStudent)
}

func (h *FacultyHandler) report(c *fiber.Ctx) error {
	response, err := h.reports.Performance(c.Context(), c.Query("batch"), c.Query("subject"))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build performance report")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build report")
	}

	return utils.SendSuccess(c, "performance report", response)
}

func (h *FacultyHandler) viewResult(c *fiber.Ctx) error {
	response, err := h.exams.ResultFor(c.Context(), c.Params("roll"), practicalParam(c))
	if err != nil {
		if errors.Is(err, service.ErrResultNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "result not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load result")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load result")
	}

	return utils.SendSuccess(c, "exam result", response)
}

// rawResult streams the persisted result file verbatim, matching what the
// student downloaded.
func (h *FacultyHandler) rawResult(c *fiber.Ctx) error {
	response, err := h.exams.RawResult(c.Context(), c.Params("roll"), practicalParam(c))
	if err != nil {
		if errors.Is(err, service.ErrResultNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "result not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load result file")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load result file")
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+response.Filename+`"`)
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(response.Content)
}

func (h *FacultyHandler) updateProfile(c *fiber.Ctx) error {
	var payload dto.FacultyProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	facultyID := middleware.AccountID(c)
	response, err := h.auth.UpdateFacultyProfile(c.Context(), facultyID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid profile details")
		case errors.Is(err, service.ErrAccountNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "account not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update profile")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update profile")
		}
	}

	return utils.SendSuccess(c, "profile updated", response)
}

func (h *FacultyHandler) deleteAccount(c *fiber.Ctx) error {
	facultyID := middleware.AccountID(c)

	if err := h.auth.DeleteFaculty(c.Context(), facultyID); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "account not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete account")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete account")
	}

	clearState(c)
	return utils.SendSuccess(c, "account deleted", nil)
}

// deleteStudent removes a student account plus every result file the student
// produced.
func (h *FacultyHandler) deleteStudent(c *fiber.Ctx) error {
	rollNo := c.Params("roll")

	if err := h.auth.DeleteStudent(c.Context(), rollNo); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete student")
	}

	return utils.SendSuccess(c, "student deleted", nil)
}
