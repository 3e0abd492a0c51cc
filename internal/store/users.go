package store

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/vishalmisal215/SPAS/internal/models"
)

// UserStore persists the roll-number → student profile map.
type UserStore struct {
	doc *Document[map[string]models.Student]
}

// NewUserStore opens users.json under dataDir.
func NewUserStore(fs afero.Fs, dataDir string, logger zerolog.Logger) (*UserStore, error) {
	doc, err := NewDocument(fs, filepath.Join(dataDir, "users.json"), usersSchema,
		func() map[string]models.Student { return map[string]models.Student{} }, logger)
	if err != nil {
		return nil, err
	}
	return &UserStore{doc: doc}, nil
}

// All returns the full user map.
func (s *UserStore) All() map[string]models.Student {
	return s.doc.Load()
}

// Get looks up a student by roll number.
func (s *UserStore) Get(rollNo string) (models.Student, bool) {
	student, ok := s.doc.Load()[rollNo]
	return student, ok
}

// Update runs a guarded read-modify-write of the user map.
func (s *UserStore) Update(fn func(map[string]models.Student) (map[string]models.Student, error)) error {
	return s.doc.Update(fn)
}

// FacultyStore persists the faculty-id → faculty profile map.
type FacultyStore struct {
	doc *Document[map[string]models.Faculty]
}

// NewFacultyStore opens faculty.json under dataDir.
func NewFacultyStore(fs afero.Fs, dataDir string, logger zerolog.Logger) (*FacultyStore, error) {
	doc, err := NewDocument(fs, filepath.Join(dataDir, "faculty.json"), facultySchema,
		func() map[string]models.Faculty { return map[string]models.Faculty{} }, logger)
	if err != nil {
		return nil, err
	}
	return &FacultyStore{doc: doc}, nil
}

// All returns the full faculty map.
func (s *FacultyStore) All() map[string]models.Faculty {
	return s.doc.Load()
}

// Get looks up a faculty member by id.
func (s *FacultyStore) Get(facultyID string) (models.Faculty, bool) {
	faculty, ok := s.doc.Load()[facultyID]
	return faculty, ok
}

// Update runs a guarded read-modify-write of the faculty map.
func (s *FacultyStore) Update(fn func(map[string]models.Faculty) (map[string]models.Faculty, error)) error {
	return s.doc.Update(fn)
}
