package handler

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vishalmisal215/SPAS/internal/dto"
	"github.com/vishalmisal215/SPAS/internal/middleware"
	"github.com/vishalmisal215/SPAS/internal/observability"
	"github.com/vishalmisal215/SPAS/internal/service"
	"github.com/vishalmisal215/SPAS/internal/session"
	"github.com/vishalmisal215/SPAS/internal/utils"
)

// StudentHandler serves the student dashboard, the exam lifecycle and
// self-service account management.
type StudentHandler struct {
	exams  service.ExamService
	auth   service.AuthService
	codec  session.Codec
	logger zerolog.Logger
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(exams service.ExamService, auth service.AuthService, codec session.Codec, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		exams:  exams,
		auth:   auth,
		codec:  codec,
		logger: logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register wires student routes.
func (h *StudentHandler) Register(router fiber.Router) {
	router.Get("/dashboard", h.dashboard)
	router.Post("/exam/start", h.startExam)
	router.Get("/exam/questions", h.examQuestions)
	router.Post("/exam/submit", h.submitExam)
	router.Get("/exam/result", h.lastResult)
	router.Get("/results/:practical", h.viewResult)
	router.Get("/results/:practical/download", h.downloadResult)
	router.Put("/profile", h.updateProfile)
	router.Delete("/account", h.deleteAccount)
}

// state loads the session cookie and binds it to the authenticated roll
// number, so a cookie issued for another account cannot be replayed.
func (h *StudentHandler) state(c *fiber.Ctx) (string, session.State) {
	rollNo := middleware.AccountID(c)
	state := loadState(c, h.codec)
	if state.RollNo != rollNo {
		state = session.State{Version: session.Version, RollNo: rollNo}
	}
	return rollNo, state
}

func (h *StudentHandler) dashboard(c *fiber.Ctx) error {
	rollNo, state := h.state(c)

	response, err := h.exams.Dashboard(c.Context(), rollNo, &state, c.Query("subject"))
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}

	if err := saveState(c, h.codec, state); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to save session state")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load dashboard")
	}

	return utils.SendSuccess(c, "dashboard loaded", response)
}

func (h *StudentHandler) startExam(c *fiber.Ctx) error {
	var payload dto.ExamStartRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if payload.PracticalID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "practical id required")
	}

	rollNo, state := h.state(c)

	err := h.exams.Start(c.Context(), rollNo, &state, payload.PracticalID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPracticalNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "practical not found")
		case errors.Is(err, service.ErrAlreadySubmitted):
			return utils.SendError(c, fiber.StatusConflict, "you have already submitted this practical")
		case errors.Is(err, service.ErrNoQuestions):
			return utils.SendError(c, fiber.StatusConflict, "no questions available for this practical yet")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to start exam")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to start exam")
		}
	}

	if err := saveState(c, h.codec, state); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to save session state")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to start exam")
	}

	return utils.SendSuccess(c, "exam started", fiber.Map{
		"practical_name": state.PracticalName,
		"questions":      len(state.ExamQuestionIDs),
	})
}

// examQuestions serves the active exam view. On expiry it answers 410 but
// leaves the exam fields in the cookie: the state is only ever consumed by a
// submit or overwritten by the next start, so a lapsed exam stays
// submittable for grading whatever the client holds.
func (h *StudentHandler) examQuestions(c *fiber.Ctx) error {
	_, state := h.state(c)

	response, err := h.exams.Questions(c.Context(), &state)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveExam):
			if saveErr := saveState(c, h.codec, state); saveErr != nil {
				requestLogger(h.logger, c).Error().Err(saveErr).Msg("failed to save session state")
			}
			return utils.SendError(c, fiber.StatusConflict, "no active exam")
		case errors.Is(err, service.ErrExamExpired):
			return utils.SendError(c, fiber.StatusGone, "exam time expired, submit your answers")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to load exam questions")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to load exam")
		}
	}

	return utils.SendSuccess(c, "exam questions", response)
}

func (h *StudentHandler) submitExam(c *fiber.Ctx) error {
	var payload dto.ExamSubmitRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	rollNo, state := h.state(c)

	response, err := h.exams.Submit(c.Context(), rollNo, &state, payload.Answers)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoActiveExam):
			return utils.SendError(c, fiber.StatusConflict, "no active exam to submit")
		case errors.Is(err, service.ErrStudentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to submit exam")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit exam")
		}
	}

	if err := saveState(c, h.codec, state); err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to save session state")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to submit exam")
	}

	observability.ExamSubmissions().WithLabelValues(response.PracticalName).Inc()

	return utils.SendSuccess(c, "exam submitted", response)
}

func (h *StudentHandler) lastResult(c *fiber.Ctx) error {
	_, state := h.state(c)

	response, err := h.exams.LastResult(c.Context(), &state)
	if err != nil {
		if errors.Is(err, service.ErrResultNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "no recent result")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load last result")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load result")
	}

	return utils.SendSuccess(c, "exam result", response)
}

func (h *StudentHandler) viewResult(c *fiber.Ctx) error {
	rollNo, _ := h.state(c)
	practical := practicalParam(c)

	response, err := h.exams.ResultFor(c.Context(), rollNo, practical)
	if err != nil {
		if errors.Is(err, service.ErrResultNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "result not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load result")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load result")
	}

	return utils.SendSuccess(c, "exam result", response)
}

func (h *StudentHandler) downloadResult(c *fiber.Ctx) error {
	rollNo, _ := h.state(c)
	practical := practicalParam(c)

	response, err := h.exams.RawResult(c.Context(), rollNo, practical)
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

func (h *StudentHandler) updateProfile(c *fiber.Ctx) error {
	var payload dto.StudentProfileUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	rollNo := middleware.AccountID(c)
	response, err := h.auth.UpdateStudentProfile(c.Context(), rollNo, payload)
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

func (h *StudentHandler) deleteAccount(c *fiber.Ctx) error {
	rollNo := middleware.AccountID(c)

	if err := h.auth.DeleteStudent(c.Context(), rollNo); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "account not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to delete account")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete account")
	}

	clearState(c)
	return utils.SendSuccess(c, "account deleted", nil)
}

func practicalParam(c *fiber.Ctx) string {
	raw := c.Params("practical")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
