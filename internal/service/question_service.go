package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/vishalmisal215/SPAS/internal/dto"
	"github.com/vishalmisal215/SPAS/internal/models"
	"github.com/vishalmisal215/SPAS/internal/store"
)

// MaxQuestionsPerPractical caps the question bank per practical; the exam
// sample size equals this cap, so a full bank means every attempt is a
// permutation of the same pool.
const MaxQuestionsPerPractical = 20

var (
	// ErrQuestionNotFound indicates an unknown question id.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrQuestionLimit indicates the per-practical bank is full.
	ErrQuestionLimit = fmt.Errorf("maximum %d questions allowed per practical", MaxQuestionsPerPractical)
)

// QuestionService manages the faculty question bank.
type QuestionService interface {
	List(ctx context.Context, practicalID string) ([]dto.QuestionResponse, error)
	Add(ctx context.Context, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error)
	Delete(ctx context.Context, id int) error
}

type questionService struct {
	questions  *store.QuestionStore
	practicals *store.PracticalStore
	validator  *validator.Validate
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
}

// NewQuestionService constructs a QuestionService instance.
func NewQuestionService(questions *store.QuestionStore, practicals *store.PracticalStore, validate *validator.Validate, logger zerolog.Logger) QuestionService {
	return &questionService{
		questions:  questions,
		practicals: practicals,
		validator:  validate,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger.With().Str("component", "question_service").Logger(),
	}
}

func (s *questionService) List(ctx context.Context, practicalID string) ([]dto.QuestionResponse, error) {
	if _, ok := s.practicals.ByID(practicalID); !ok {
		return nil, ErrPracticalNotFound
	}
	return dto.NewQuestionResponseSlice(s.questions.ByPractical(practicalID)), nil
}

func (s *questionService) Add(ctx context.Context, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	if _, ok := s.practicals.ByID(payload.PracticalID); !ok {
		return dto.QuestionResponse{}, ErrPracticalNotFound
	}
	if s.questions.CountByPractical(payload.PracticalID) >= MaxQuestionsPerPractical {
		return dto.QuestionResponse{}, ErrQuestionLimit
	}

	question := models.Question{
		PracticalID: payload.PracticalID,
		Question:    s.clean(payload.Question),
		Options: models.Options{
			A: s.clean(payload.Options.A),
			B: s.clean(payload.Options.B),
			C: s.clean(payload.Options.C),
			D: s.clean(payload.Options.D),
		},
		Answer: payload.Answer,
	}

	err := s.questions.Update(func(questions []models.Question) ([]models.Question, error) {
		existing := 0
		for _, q := range questions {
			if q.PracticalID == payload.PracticalID {
				existing++
			}
		}
		if existing >= MaxQuestionsPerPractical {
			return nil, ErrQuestionLimit
		}

		question.ID = store.NextQuestionID(questions)
		return append(questions, question), nil
	})
	if err != nil {
		return dto.QuestionResponse{}, err
	}

	s.logger.Info().Int("question_id", question.ID).Str("practical_id", question.PracticalID).Msg("question added")
	return dto.NewQuestionResponse(question), nil
}

func (s *questionService) Delete(ctx context.Context, id int) error {
	return s.questions.Update(func(questions []models.Question) ([]models.Question, error) {
		for i, question := range questions {
			if question.ID == id {
				return append(questions[:i], questions[i+1:]...), nil
			}
		}
		return nil, ErrQuestionNotFound
	})
}

func (s *questionService) clean(text string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(text))
}
