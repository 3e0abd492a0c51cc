package session

import (
	"time"
)

// Version tags the session state layout so stale cookies from older
// deployments are discarded instead of misread.
const Version = 1

// CookieName is the client-held session state cookie.
const CookieName = "spas_session"

// ResultSummary is the compact last-result view retained after submission.
// Per-question detail never rides in the session: the result file holds it
// durably and re-embedding it would blow the ~4KB cookie budget.
type ResultSummary struct {
	RollNo         string `json:"roll_no"`
	Name           string `json:"name"`
	Branch         string `json:"branch"`
	Year           string `json:"year"`
	Batch          string `json:"batch"`
	Email          string `json:"email"`
	PracticalName  string `json:"practical_name"`
	Score          string `json:"score"`
	TotalQuestions int    `json:"total_questions"`
	Attempted      int    `json:"attempted"`
	Correct        int    `json:"correct"`
	Wrong          int    `json:"wrong"`
	DateTime       string `json:"datetime"`
}

// State is the enumerated, size-bounded workflow state carried by the client
// between requests. The exam payload is ids-only; full question bodies stay
// in the question store.
type State struct {
	Version         int            `json:"ver"`
	RollNo          string         `json:"roll_no,omitempty"`
	FacultyID       string         `json:"faculty_id,omitempty"`
	SelectedSubject string         `json:"selected_subject,omitempty"`
	ExamQuestionIDs []int          `json:"exam_question_ids,omitempty"`
	ExamStartTime   float64        `json:"exam_start_time,omitempty"`
	ExamDuration    int            `json:"exam_duration,omitempty"`
	PracticalID     string         `json:"practical_id,omitempty"`
	PracticalName   string         `json:"practical_name,omitempty"`
	LastResult      *ResultSummary `json:"last_result,omitempty"`
	LastResultFile  string         `json:"last_result_file,omitempty"`
}

// HasExam reports whether an exam is in progress.
func (s *State) HasExam() bool {
	return len(s.ExamQuestionIDs) > 0
}

// ClearExam removes every exam field and any stale last-result summary, so a
// half-finished previous session cannot leak into a new one.
func (s *State) ClearExam() {
	s.ExamQuestionIDs = nil
	s.ExamStartTime = 0
	s.ExamDuration = 0
	s.PracticalID = ""
	s.PracticalName = ""
	s.LastResult = nil
	s.LastResultFile = ""
}

// BeginExam replaces any previous exam state with a fresh session.
func (s *State) BeginExam(questionIDs []int, start time.Time, duration time.Duration, practicalID, practicalName string) {
	s.ClearExam()
	s.ExamQuestionIDs = questionIDs
	s.ExamStartTime = float64(start.UnixNano()) / float64(time.Second)
	s.ExamDuration = int(duration.Seconds())
	s.PracticalID = practicalID
	s.PracticalName = practicalName
}

// FinishExam consumes the exam single-use: the exam fields are cleared so the
// session cannot be resumed after grading, while the compact summary and the
// result filename stay for one subsequent result read.
func (s *State) FinishExam(summary ResultSummary, filename string) {
	s.ExamQuestionIDs = nil
	s.ExamStartTime = 0
	s.ExamDuration = 0
	s.PracticalID = ""
	s.PracticalName = ""
	s.LastResult = &summary
	s.LastResultFile = filename
}

// StartTime converts the float-tolerant epoch-seconds field to a time.
func (s *State) StartTime() time.Time {
	seconds := int64(s.ExamStartTime)
	nanos := int64((s.ExamStartTime - float64(seconds)) * float64(time.Second))
	return time.Unix(seconds, nanos)
}

// Duration returns the exam duration, falling back when the field is unset.
func (s *State) Duration(fallback time.Duration) time.Duration {
	if s.ExamDuration <= 0 {
		return fallback
	}
	return time.Duration(s.ExamDuration) * time.Second
}
