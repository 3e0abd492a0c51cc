package store

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/vishalmisal215/SPAS/internal/models"
)

// PracticalStore persists the global ordered practical list.
type PracticalStore struct {
	doc *Document[[]models.Practical]
}

// NewPracticalStore opens practicals.json under dataDir.
func NewPracticalStore(fs afero.Fs, dataDir string, logger zerolog.Logger) (*PracticalStore, error) {
	doc, err := NewDocument(fs, filepath.Join(dataDir, "practicals.json"), practicalsSchema,
		func() []models.Practical { return []models.Practical{} }, logger)
	if err != nil {
		return nil, err
	}
	return &PracticalStore{doc: doc}, nil
}

// All returns every practical in stored (ordinal) order.
func (s *PracticalStore) All() []models.Practical {
	return s.doc.Load()
}

// ByID looks up a practical by its stable identifier.
func (s *PracticalStore) ByID(id string) (models.Practical, bool) {
	for _, practical := range s.doc.Load() {
		if practical.ID == id {
			return practical, true
		}
	}
	return models.Practical{}, false
}

// ByName looks up a practical by display name.
func (s *PracticalStore) ByName(name string) (models.Practical, bool) {
	for _, practical := range s.doc.Load() {
		if practical.Name == name {
			return practical, true
		}
	}
	return models.Practical{}, false
}

// Update runs a guarded read-modify-write of the practical list.
func (s *PracticalStore) Update(fn func([]models.Practical) ([]models.Practical, error)) error {
	return s.doc.Update(fn)
}

// SubjectStore persists the subject list.
type SubjectStore struct {
	doc *Document[[]models.Subject]
}

// NewSubjectStore opens subjects.json under dataDir.
func NewSubjectStore(fs afero.Fs, dataDir string, logger zerolog.Logger) (*SubjectStore, error) {
	doc, err := NewDocument(fs, filepath.Join(dataDir, "subjects.json"), subjectsSchema,
		func() []models.Subject { return []models.Subject{} }, logger)
	if err != nil {
		return nil, err
	}
	return &SubjectStore{doc: doc}, nil
}

// All returns every subject in stored order.
func (s *SubjectStore) All() []models.Subject {
	return s.doc.Load()
}

// ByID looks up a subject by its identifier.
func (s *SubjectStore) ByID(id string) (models.Subject, bool) {
	for _, subject := range s.doc.Load() {
		if subject.ID == id {
			return subject, true
		}
	}
	return models.Subject{}, false
}

// ByName looks up a subject by display name.
func (s *SubjectStore) ByName(name string) (models.Subject, bool) {
	for _, subject := range s.doc.Load() {
		if subject.Name == name {
			return subject, true
		}
	}
	return models.Subject{}, false
}

// Update runs a guarded read-modify-write of the subject list.
func (s *SubjectStore) Update(fn func([]models.Subject) ([]models.Subject, error)) error {
	return s.doc.Update(fn)
}
