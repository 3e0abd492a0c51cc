package store

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/vishalmisal215/SPAS/internal/models"
)

// QuestionStore persists the flat question list.
type QuestionStore struct {
	doc *Document[[]models.Question]
}

// NewQuestionStore opens questions.json under dataDir.
func NewQuestionStore(fs afero.Fs, dataDir string, logger zerolog.Logger) (*QuestionStore, error) {
	doc, err := NewDocument(fs, filepath.Join(dataDir, "questions.json"), questionsSchema,
		func() []models.Question { return []models.Question{} }, logger)
	if err != nil {
		return nil, err
	}
	return &QuestionStore{doc: doc}, nil
}

// All returns every question.
func (s *QuestionStore) All() []models.Question {
	return s.doc.Load()
}

// ByPractical returns the questions belonging to one practical.
func (s *QuestionStore) ByPractical(practicalID string) []models.Question {
	matched := []models.Question{}
	for _, question := range s.doc.Load() {
		if question.PracticalID == practicalID {
			matched = append(matched, question)
		}
	}
	return matched
}

// CountByPractical reports how many questions a practical currently holds.
func (s *QuestionStore) CountByPractical(practicalID string) int {
	count := 0
	for _, question := range s.doc.Load() {
		if question.PracticalID == practicalID {
			count++
		}
	}
	return count
}

// ByIDs fetches full question records for a list of ids, preserving the
// requested order. Unknown ids are skipped.
func (s *QuestionStore) ByIDs(ids []int) []models.Question {
	byID := map[int]models.Question{}
	for _, question := range s.doc.Load() {
		byID[question.ID] = question
	}

	questions := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		if question, ok := byID[id]; ok {
			questions = append(questions, question)
		}
	}
	return questions
}

// Update runs a guarded read-modify-write of the question list.
func (s *QuestionStore) Update(fn func([]models.Question) ([]models.Question, error)) error {
	return s.doc.Update(fn)
}

// NextQuestionID returns one more than the largest assigned question id.
func NextQuestionID(questions []models.Question) int {
	next := 1
	for _, question := range questions {
		if question.ID >= next {
			next = question.ID + 1
		}
	}
	return next
}
