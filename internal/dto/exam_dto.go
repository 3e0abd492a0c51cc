package dto

import (
	"github.com/vishalmisal215/SPAS/internal/models"
	"github.com/vishalmisal215/SPAS/internal/session"
)

// ExamStartRequest asks to begin an attempt at one practical.
type ExamStartRequest struct {
	PracticalID string `json:"practical_id" validate:"required"`
}

// ExamQuestionView is a question as shown during an attempt: the correct
// answer never leaves the server before submission.
type ExamQuestionView struct {
	ID       int            `json:"id"`
	Question string         `json:"question"`
	Options  models.Options `json:"options"`
}

// ExamViewResponse is the running-attempt view.
type ExamViewResponse struct {
	PracticalName    string             `json:"practical_name"`
	RemainingSeconds int                `json:"remaining_seconds"`
	Questions        []ExamQuestionView `json:"questions"`
}

// ExamSubmitRequest carries the chosen letters keyed by question id. Missing
// and unknown ids are tolerated.
type ExamSubmitRequest struct {
	Answers map[string]string `json:"answers"`
}

// AnswerDetailView is one per-question entry of a result view.
type AnswerDetailView struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	StudentAnswer string            `json:"student_answer"`
	CorrectAnswer string            `json:"correct_answer"`
	Status        string            `json:"status"`
}

// ResultResponse is a full graded attempt: compact summary plus per-question
// detail loaded from the result record store.
type ResultResponse struct {
	RollNo          string             `json:"roll_no"`
	Name            string             `json:"name"`
	Branch          string             `json:"branch"`
	Year            string             `json:"year"`
	Batch           string             `json:"batch"`
	Email           string             `json:"email"`
	PracticalName   string             `json:"practical_name"`
	Score           string             `json:"score"`
	TotalQuestions  int                `json:"total_questions"`
	Attempted       int                `json:"attempted"`
	Correct         int                `json:"correct"`
	Wrong           int                `json:"wrong"`
	DateTime        string             `json:"datetime"`
	Filename        string             `json:"filename,omitempty"`
	DetailedAnswers []AnswerDetailView `json:"detailed_answers"`
}

// RawResultResponse is the verbatim persisted result text, for the TXT
// viewer and file download.
type RawResultResponse struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// NewAnswerDetailViews converts persisted detail entries into views.
func NewAnswerDetailViews(details []models.AnswerDetail) []AnswerDetailView {
	views := make([]AnswerDetailView, 0, len(details))
	for _, detail := range details {
		views = append(views, AnswerDetailView{
			Question:      detail.Question,
			Options:       detail.Options,
			StudentAnswer: detail.StudentAnswer,
			CorrectAnswer: detail.CorrectAnswer,
			Status:        detail.Status,
		})
	}
	return views
}

// PracticalStatus is one dashboard row: a practical plus whether the student
// already submitted it.
type PracticalStatus struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Submitted bool   `json:"submitted"`
	Score     string `json:"score,omitempty"`
}

// DashboardResponse is the student landing view.
type DashboardResponse struct {
	Student         StudentResponse         `json:"student"`
	Subjects        []SubjectResponse       `json:"subjects"`
	SelectedSubject string                  `json:"selected_subject"`
	Practicals      []PracticalStatus       `json:"practicals"`
	Results         []session.ResultSummary `json:"results"`
}
