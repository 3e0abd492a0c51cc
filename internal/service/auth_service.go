package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/vishalmisal215/SPAS/internal/dto"
	"github.com/vishalmisal215/SPAS/internal/models"
	"github.com/vishalmisal215/SPAS/internal/resultstore"
	"github.com/vishalmisal215/SPAS/internal/store"
)

// Roles carried in the identity token.
const (
	RoleStudent = "student"
	RoleFaculty = "faculty"
)

var (
	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountExists indicates a duplicate registration.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountNotFound indicates the profile no longer exists.
	ErrAccountNotFound = errors.New("account not found")
	// ErrEmailNotFound indicates no account matched a recovery email.
	ErrEmailNotFound = errors.New("email not found")
)

// AuthService handles account lifecycle and identity tokens.
type AuthService interface {
	RegisterStudent(ctx context.Context, payload dto.StudentRegisterRequest) (dto.StudentResponse, error)
	LoginStudent(ctx context.Context, payload dto.StudentLoginRequest) (dto.StudentLoginResponse, error)
	RegisterFaculty(ctx context.Context, payload dto.FacultyRegisterRequest) (dto.FacultyResponse, error)
	LoginFaculty(ctx context.Context, payload dto.FacultyLoginRequest) (dto.FacultyLoginResponse, error)
	ForgotPassword(ctx context.Context, payload dto.ForgotPasswordRequest) (dto.ForgotPasswordResponse, error)
	UpdateStudentProfile(ctx context.Context, rollNo string, payload dto.StudentProfileUpdateRequest) (dto.StudentResponse, error)
	UpdateFacultyProfile(ctx context.Context, facultyID string, payload dto.FacultyProfileUpdateRequest) (dto.FacultyResponse, error)
	DeleteStudent(ctx context.Context, rollNo string) error
	DeleteFaculty(ctx context.Context, facultyID string) error
}

type authService struct {
	users     *store.UserStore
	faculty   *store.FacultyStore
	results   *resultstore.Store
	reports   ReportInvalidator
	validator *validator.Validate
	secret    []byte
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// ReportInvalidator lets account deletion drop cached report aggregates.
type ReportInvalidator interface {
	Invalidate(ctx context.Context)
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(users *store.UserStore, faculty *store.FacultyStore, results *resultstore.Store, reports ReportInvalidator, validate *validator.Validate, jwtSecret string, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		faculty:   faculty,
		results:   results,
		reports:   reports,
		validator: validate,
		secret:    []byte(jwtSecret),
		tokenTTL:  12 * time.Hour,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

func (s *authService) RegisterStudent(ctx context.Context, payload dto.StudentRegisterRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student := models.Student{
		RollNo:   strings.TrimSpace(payload.RollNo),
		Password: payload.Password,
		FullName: strings.TrimSpace(payload.FullName),
		Branch:   payload.Branch,
		Year:     payload.Year,
		Batch:    defaultBatch(payload.Batch),
		Email:    strings.TrimSpace(payload.Email),
	}

	err := s.users.Update(func(users map[string]models.Student) (map[string]models.Student, error) {
		if _, exists := users[student.RollNo]; exists {
			return nil, ErrAccountExists
		}
		users[student.RollNo] = student
		return users, nil
	})
	if err != nil {
		return dto.StudentResponse{}, err
	}

	s.logger.Info().Str("roll_no", student.RollNo).Msg("student registered")
	return dto.NewStudentResponse(student), nil
}

func (s *authService) LoginStudent(ctx context.Context, payload dto.StudentLoginRequest) (dto.StudentLoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentLoginResponse{}, err
	}

	student, ok := s.users.Get(strings.TrimSpace(payload.RollNo))
	if !ok || student.Password != payload.Password {
		return dto.StudentLoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(student.RollNo, RoleStudent, student.FullName)
	if err != nil {
		return dto.StudentLoginResponse{}, err
	}

	return dto.StudentLoginResponse{Token: token, Student: dto.NewStudentResponse(student)}, nil
}

func (s *authService) RegisterFaculty(ctx context.Context, payload dto.FacultyRegisterRequest) (dto.FacultyResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FacultyResponse{}, err
	}

	member := models.Faculty{
		FacultyID:  strings.TrimSpace(payload.FacultyID),
		Password:   payload.Password,
		FullName:   strings.TrimSpace(payload.FullName),
		Department: payload.Department,
		Email:      strings.TrimSpace(payload.Email),
	}

	err := s.faculty.Update(func(members map[string]models.Faculty) (map[string]models.Faculty, error) {
		if _, exists := members[member.FacultyID]; exists {
			return nil, ErrAccountExists
		}
		members[member.FacultyID] = member
		return members, nil
	})
	if err != nil {
		return dto.FacultyResponse{}, err
	}

	s.logger.Info().Str("faculty_id", member.FacultyID).Msg("faculty registered")
	return dto.NewFacultyResponse(member), nil
}

func (s *authService) LoginFaculty(ctx context.Context, payload dto.FacultyLoginRequest) (dto.FacultyLoginResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FacultyLoginResponse{}, err
	}

	member, ok := s.faculty.Get(strings.TrimSpace(payload.FacultyID))
	if !ok || member.Password != payload.Password {
		return dto.FacultyLoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.issueToken(member.FacultyID, RoleFaculty, member.FullName)
	if err != nil {
		return dto.FacultyLoginResponse{}, err
	}

	return dto.FacultyLoginResponse{Token: token, Faculty: dto.NewFacultyResponse(member)}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, payload dto.ForgotPasswordRequest) (dto.ForgotPasswordResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ForgotPasswordResponse{}, err
	}

	email := strings.TrimSpace(payload.Email)
	if payload.UserType == RoleStudent {
		for rollNo, student := range s.users.All() {
			if student.Email == email {
				return dto.ForgotPasswordResponse{AccountID: rollNo, Password: student.Password}, nil
			}
		}
		return dto.ForgotPasswordResponse{}, ErrEmailNotFound
	}

	for facultyID, member := range s.faculty.All() {
		if member.Email == email {
			return dto.ForgotPasswordResponse{AccountID: facultyID, Password: member.Password}, nil
		}
	}
	return dto.ForgotPasswordResponse{}, ErrEmailNotFound
}

func (s *authService) UpdateStudentProfile(ctx context.Context, rollNo string, payload dto.StudentProfileUpdateRequest) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	var updated models.Student
	err := s.users.Update(func(users map[string]models.Student) (map[string]models.Student, error) {
		student, ok := users[rollNo]
		if !ok {
			return nil, ErrAccountNotFound
		}
		student.FullName = strings.TrimSpace(payload.FullName)
		student.Branch = payload.Branch
		student.Year = payload.Year
		student.Batch = defaultBatch(payload.Batch)
		student.Email = strings.TrimSpace(payload.Email)
		users[rollNo] = student
		updated = student
		return users, nil
	})
	if err != nil {
		return dto.StudentResponse{}, err
	}

	return dto.NewStudentResponse(updated), nil
}

func (s *authService) UpdateFacultyProfile(ctx context.Context, facultyID string, payload dto.FacultyProfileUpdateRequest) (dto.FacultyResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FacultyResponse{}, err
	}

	var updated models.Faculty
	err := s.faculty.Update(func(members map[string]models.Faculty) (map[string]models.Faculty, error) {
		member, ok := members[facultyID]
		if !ok {
			return nil, ErrAccountNotFound
		}
		member.FullName = strings.TrimSpace(payload.FullName)
		member.Department = payload.Department
		member.Email = strings.TrimSpace(payload.Email)
		members[facultyID] = member
		updated = member
		return members, nil
	})
	if err != nil {
		return dto.FacultyResponse{}, err
	}

	return dto.NewFacultyResponse(updated), nil
}

// DeleteStudent removes the account and cascades deletion of every result
// file the student ever produced.
func (s *authService) DeleteStudent(ctx context.Context, rollNo string) error {
	err := s.users.Update(func(users map[string]models.Student) (map[string]models.Student, error) {
		if _, ok := users[rollNo]; !ok {
			return nil, ErrAccountNotFound
		}
		delete(users, rollNo)
		return users, nil
	})
	if err != nil {
		return err
	}

	s.results.DeleteAllFor(rollNo)
	if s.reports != nil {
		s.reports.Invalidate(ctx)
	}

	s.logger.Info().Str("roll_no", rollNo).Msg("student account deleted")
	return nil
}

func (s *authService) DeleteFaculty(ctx context.Context, facultyID string) error {
	err := s.faculty.Update(func(members map[string]models.Faculty) (map[string]models.Faculty, error) {
		if _, ok := members[facultyID]; !ok {
			return nil, ErrAccountNotFound
		}
		delete(members, facultyID)
		return members, nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("faculty_id", facultyID).Msg("faculty account deleted")
	return nil
}

func (s *authService) issueToken(subject, role, name string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"name": name,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign identity token: %w", err)
	}
	return signed, nil
}

func defaultBatch(batch string) string {
	if strings.TrimSpace(batch) == "" {
		return "1"
	}
	return batch
}
