package dto

import "github.com/vishalmisal215/SPAS/internal/models"

// SubjectCreateRequest describes the payload for adding a subject.
type SubjectCreateRequest struct {
	Name string `json:"name" validate:"required"`
}

// PracticalCreateRequest describes the payload for adding a practical to a subject.
type PracticalCreateRequest struct {
	Name      string `json:"name" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
}

// PracticalResponse is one practical with its stable id and display name.
type PracticalResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewPracticalResponse converts a model into a DTO.
func NewPracticalResponse(practical models.Practical) PracticalResponse {
	return PracticalResponse{ID: practical.ID, Name: practical.Name}
}

// NewPracticalResponseSlice converts a slice of models into DTOs.
func NewPracticalResponseSlice(practicals []models.Practical) []PracticalResponse {
	responses := make([]PracticalResponse, 0, len(practicals))
	for _, practical := range practicals {
		responses = append(responses, NewPracticalResponse(practical))
	}
	return responses
}

// SubjectResponse is one subject with its practicals resolved to names.
type SubjectResponse struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Practicals []PracticalResponse `json:"practicals"`
}
