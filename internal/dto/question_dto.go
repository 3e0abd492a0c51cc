package dto

import "github.com/vishalmisal215/SPAS/internal/models"

// QuestionOptions carries the four MCQ choices of a create request.
type QuestionOptions struct {
	A string `json:"A" validate:"required"`
	B string `json:"B" validate:"required"`
	C string `json:"C" validate:"required"`
	D string `json:"D" validate:"required"`
}

// QuestionCreateRequest describes the payload for adding a question.
type QuestionCreateRequest struct {
	PracticalID string          `json:"practical_id" validate:"required"`
	Question    string          `json:"question" validate:"required"`
	Options     QuestionOptions `json:"options" validate:"required"`
	Answer      string          `json:"answer" validate:"required,oneof=A B C D"`
}

// QuestionResponse is the faculty-side question view, correct answer included.
type QuestionResponse struct {
	ID          int            `json:"id"`
	PracticalID string         `json:"practical_id"`
	Question    string         `json:"question"`
	Options     models.Options `json:"options"`
	Answer      string         `json:"answer"`
}

// NewQuestionResponse converts a model into a DTO.
func NewQuestionResponse(question models.Question) QuestionResponse {
	return QuestionResponse{
		ID:          question.ID,
		PracticalID: question.PracticalID,
		Question:    question.Question,
		Options:     question.Options,
		Answer:      question.Answer,
	}
}

// NewQuestionResponseSlice converts a slice of models into DTOs.
func NewQuestionResponseSlice(questions []models.Question) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, NewQuestionResponse(question))
	}
	return responses
}
