package dto

import "github.com/vishalmisal215/SPAS/internal/models"

// StudentRegisterRequest describes the payload for creating a student account.
type StudentRegisterRequest struct {
	RollNo   string `json:"roll_no" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	Branch   string `json:"branch" validate:"required"`
	Year     string `json:"year" validate:"required"`
	Batch    string `json:"batch"`
	Email    string `json:"email" validate:"required,email"`
}

// StudentLoginRequest describes a student login attempt.
type StudentLoginRequest struct {
	RollNo   string `json:"roll_no" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// FacultyRegisterRequest describes the payload for creating a faculty account.
type FacultyRegisterRequest struct {
	FacultyID  string `json:"faculty_id" validate:"required"`
	Password   string `json:"password" validate:"required,min=6"`
	FullName   string `json:"full_name" validate:"required"`
	Department string `json:"department" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
}

// FacultyLoginRequest describes a faculty login attempt.
type FacultyLoginRequest struct {
	FacultyID string `json:"faculty_id" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// ForgotPasswordRequest asks for the stored password by account email.
type ForgotPasswordRequest struct {
	UserType string `json:"user_type" validate:"required,oneof=student faculty"`
	Email    string `json:"email" validate:"required,email"`
}

// ForgotPasswordResponse returns the recovered credential.
type ForgotPasswordResponse struct {
	AccountID string `json:"account_id"`
	Password  string `json:"password"`
}

// StudentProfileUpdateRequest carries editable student profile fields.
type StudentProfileUpdateRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Branch   string `json:"branch" validate:"required"`
	Year     string `json:"year" validate:"required"`
	Batch    string `json:"batch"`
	Email    string `json:"email" validate:"required,email"`
}

// FacultyProfileUpdateRequest carries editable faculty profile fields.
type FacultyProfileUpdateRequest struct {
	FullName   string `json:"full_name" validate:"required"`
	Department string `json:"department" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
}

// StudentResponse is a student profile without the credential.
type StudentResponse struct {
	RollNo   string `json:"roll_no"`
	FullName string `json:"full_name"`
	Branch   string `json:"branch"`
	Year     string `json:"year"`
	Batch    string `json:"batch"`
	Email    string `json:"email"`
}

// NewStudentResponse converts a model into a DTO.
func NewStudentResponse(student models.Student) StudentResponse {
	return StudentResponse{
		RollNo:   student.RollNo,
		FullName: student.FullName,
		Branch:   student.Branch,
		Year:     student.Year,
		Batch:    student.Batch,
		Email:    student.Email,
	}
}

// FacultyResponse is a faculty profile without the credential.
type FacultyResponse struct {
	FacultyID  string `json:"faculty_id"`
	FullName   string `json:"full_name"`
	Department string `json:"department"`
	Email      string `json:"email"`
}

// NewFacultyResponse converts a model into a DTO.
func NewFacultyResponse(faculty models.Faculty) FacultyResponse {
	return FacultyResponse{
		FacultyID:  faculty.FacultyID,
		FullName:   faculty.FullName,
		Department: faculty.Department,
		Email:      faculty.Email,
	}
}

// StudentLoginResponse carries the issued token and profile.
type StudentLoginResponse struct {
	Token   string          `json:"token"`
	Student StudentResponse `json:"student"`
}

// FacultyLoginResponse carries the issued token and profile.
type FacultyLoginResponse struct {
	Token   string          `json:"token"`
	Faculty FacultyResponse `json:"faculty"`
}
