package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/vishalmisal215/SPAS/internal/catalog"
	"github.com/vishalmisal215/SPAS/internal/dto"
	"github.com/vishalmisal215/SPAS/internal/models"
	"github.com/vishalmisal215/SPAS/internal/store"
)

var (
	// ErrSubjectExists indicates a duplicate subject name.
	ErrSubjectExists = errors.New("subject already exists")
	// ErrSubjectNotFound indicates an unknown subject id.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrPracticalExists indicates a duplicate practical name.
	ErrPracticalExists = errors.New("practical already exists")
	// ErrPracticalNotFound indicates an unknown practical id.
	ErrPracticalNotFound = errors.New("practical not found")
)

// CatalogService manages subjects and their ordered practicals.
type CatalogService interface {
	Subjects(ctx context.Context) []dto.SubjectResponse
	AllPracticals(ctx context.Context) []dto.PracticalResponse
	AddSubject(ctx context.Context, payload dto.SubjectCreateRequest) (dto.SubjectResponse, error)
	AddPractical(ctx context.Context, payload dto.PracticalCreateRequest) (dto.PracticalResponse, error)
	RemovePractical(ctx context.Context, practicalID string) error
	PracticalsForSubjectName(name string) []models.Practical
	ResolveSubject(requested, previous string) string
}

type catalogService struct {
	subjects   *store.SubjectStore
	practicals *store.PracticalStore
	validator  *validator.Validate
	sanitizer  *bluemonday.Policy
	logger     zerolog.Logger
	newID      func() string
}

// NewCatalogService constructs a CatalogService instance.
func NewCatalogService(subjects *store.SubjectStore, practicals *store.PracticalStore, validate *validator.Validate, logger zerolog.Logger) CatalogService {
	return &catalogService{
		subjects:   subjects,
		practicals: practicals,
		validator:  validate,
		sanitizer:  bluemonday.StrictPolicy(),
		logger:     logger.With().Str("component", "catalog_service").Logger(),
		newID:      uuid.NewString,
	}
}

func (s *catalogService) Subjects(ctx context.Context) []dto.SubjectResponse {
	nameByID := s.practicalNames()

	subjects := s.subjects.All()
	responses := make([]dto.SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		practicals := make([]dto.PracticalResponse, 0, len(subject.PracticalIDs))
		for _, id := range subject.PracticalIDs {
			if name, ok := nameByID[id]; ok {
				practicals = append(practicals, dto.PracticalResponse{ID: id, Name: name})
			}
		}
		responses = append(responses, dto.SubjectResponse{ID: subject.ID, Name: subject.Name, Practicals: practicals})
	}
	return responses
}

func (s *catalogService) AllPracticals(ctx context.Context) []dto.PracticalResponse {
	return dto.NewPracticalResponseSlice(s.practicals.All())
}

func (s *catalogService) AddSubject(ctx context.Context, payload dto.SubjectCreateRequest) (dto.SubjectResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubjectResponse{}, err
	}

	name := strings.TrimSpace(s.sanitizer.Sanitize(payload.Name))
	if name == "" {
		return dto.SubjectResponse{}, fmt.Errorf("subject name required")
	}

	subject := models.Subject{ID: s.newID(), Name: name, PracticalIDs: []string{}}
	err := s.subjects.Update(func(subjects []models.Subject) ([]models.Subject, error) {
		for _, existing := range subjects {
			if strings.EqualFold(existing.Name, name) {
				return nil, ErrSubjectExists
			}
		}
		return append(subjects, subject), nil
	})
	if err != nil {
		return dto.SubjectResponse{}, err
	}

	s.logger.Info().Str("subject", name).Msg("subject added")
	return dto.SubjectResponse{ID: subject.ID, Name: subject.Name, Practicals: []dto.PracticalResponse{}}, nil
}

// AddPractical inserts the practical into the global list and the owning
// subject, both in ordinal order.
func (s *catalogService) AddPractical(ctx context.Context, payload dto.PracticalCreateRequest) (dto.PracticalResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PracticalResponse{}, err
	}

	name := strings.TrimSpace(s.sanitizer.Sanitize(payload.Name))
	if name == "" {
		return dto.PracticalResponse{}, fmt.Errorf("practical name required")
	}

	if _, ok := s.subjects.ByID(payload.SubjectID); !ok {
		return dto.PracticalResponse{}, ErrSubjectNotFound
	}

	practical := models.Practical{ID: s.newID(), Name: name}
	err := s.practicals.Update(func(practicals []models.Practical) ([]models.Practical, error) {
		for _, existing := range practicals {
			if existing.Name == name {
				return nil, ErrPracticalExists
			}
		}
		return catalog.InsertSorted(practicals, practical), nil
	})
	if err != nil {
		return dto.PracticalResponse{}, err
	}

	nameByID := s.practicalNames()
	err = s.subjects.Update(func(subjects []models.Subject) ([]models.Subject, error) {
		for i, subject := range subjects {
			if subject.ID != payload.SubjectID {
				continue
			}
			for _, id := range subject.PracticalIDs {
				if id == practical.ID {
					return subjects, nil
				}
			}
			subjects[i].PracticalIDs = catalog.InsertIDSorted(subject.PracticalIDs, practical.ID, nameByID)
			return subjects, nil
		}
		return nil, ErrSubjectNotFound
	})
	if err != nil {
		return dto.PracticalResponse{}, err
	}

	s.logger.Info().Str("practical", name).Msg("practical added")
	return dto.NewPracticalResponse(practical), nil
}

// RemovePractical deletes the practical and cascades it out of every subject.
func (s *catalogService) RemovePractical(ctx context.Context, practicalID string) error {
	err := s.practicals.Update(func(practicals []models.Practical) ([]models.Practical, error) {
		for i, existing := range practicals {
			if existing.ID == practicalID {
				return append(practicals[:i], practicals[i+1:]...), nil
			}
		}
		return nil, ErrPracticalNotFound
	})
	if err != nil {
		return err
	}

	return s.subjects.Update(func(subjects []models.Subject) ([]models.Subject, error) {
		for i, subject := range subjects {
			kept := subject.PracticalIDs[:0]
			for _, id := range subject.PracticalIDs {
				if id != practicalID {
					kept = append(kept, id)
				}
			}
			subjects[i].PracticalIDs = kept
		}
		return subjects, nil
	})
}

// PracticalsForSubjectName resolves a subject's practical ids to full
// records, preserving the subject's stored order.
func (s *catalogService) PracticalsForSubjectName(name string) []models.Practical {
	subject, ok := s.subjects.ByName(name)
	if !ok {
		return nil
	}

	byID := map[string]models.Practical{}
	for _, practical := range s.practicals.All() {
		byID[practical.ID] = practical
	}

	practicals := make([]models.Practical, 0, len(subject.PracticalIDs))
	for _, id := range subject.PracticalIDs {
		if practical, ok := byID[id]; ok {
			practicals = append(practicals, practical)
		}
	}
	return practicals
}

// ResolveSubject picks the effective subject filter: the request wins over
// the remembered selection, anything unknown is coerced back to the first
// subject in catalog order.
func (s *catalogService) ResolveSubject(requested, previous string) string {
	subjects := s.subjects.All()
	if len(subjects) == 0 {
		return "all"
	}

	first := subjects[0].Name
	selected := requested
	if selected == "" {
		selected = previous
	}
	if selected == "" {
		return first
	}

	for _, subject := range subjects {
		if subject.Name == selected {
			return selected
		}
	}
	return first
}

func (s *catalogService) practicalNames() map[string]string {
	nameByID := map[string]string{}
	for _, practical := range s.practicals.All() {
		nameByID[practical.ID] = practical.Name
	}
	return nameByID
}
