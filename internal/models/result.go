package models

import "fmt"

// Per-question grading statuses as persisted in result files. The historical
// file corpus uses "NOT ATTEMPTED" (with a space) for both the status and the
// missing-answer placeholder, so that exact literal is load-bearing.
const (
	StatusCorrect      = "CORRECT"
	StatusWrong        = "WRONG"
	StatusNotAttempted = "NOT ATTEMPTED"
)

// AnswerDetail is one per-question entry of a result record. Options is keyed
// by letter (A-D) and written in that fixed order.
type AnswerDetail struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	StudentAnswer string            `json:"student_answer"`
	CorrectAnswer string            `json:"correct_answer"`
	Status        string            `json:"status"`
}

// ResultRecord is one graded attempt, persisted as one text file. Header
// fields are strings because the text format is the only backing store and
// parse(write(r)) must reproduce them exactly. Score carries the rendered
// "correct / total" form.
type ResultRecord struct {
	RollNo    string         `json:"roll_no"`
	Name      string         `json:"name"`
	Branch    string         `json:"branch"`
	Year      string         `json:"year"`
	Batch     string         `json:"batch"`
	Email     string         `json:"email"`
	Practical string         `json:"practical"`
	Score     string         `json:"score"`
	Attempted string         `json:"attempted"`
	Correct   string         `json:"correct"`
	Wrong     string         `json:"wrong"`
	DateTime  string         `json:"datetime"`
	Details   []AnswerDetail `json:"detailed_answers"`
}

// ScoreValue extracts the numeric score from the rendered "correct / total"
// form. Malformed scores count as zero rather than failing a report.
func (r ResultRecord) ScoreValue() int {
	before, _, found := cutScore(r.Score)
	if !found {
		return 0
	}
	return before
}

func cutScore(score string) (int, int, bool) {
	var correct, total int
	n, err := fmt.Sscanf(score, "%d / %d", &correct, &total)
	if err != nil || n != 2 {
		return 0, 0, false
	}
	return correct, total, true
}
