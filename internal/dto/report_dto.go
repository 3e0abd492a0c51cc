package dto

// PerformanceRow aggregates one student's scores across the selected
// practicals: one score per practical, latest attempt only.
type PerformanceRow struct {
	RollNo          string         `json:"roll_no"`
	Name            string         `json:"name"`
	Branch          string         `json:"branch"`
	Year            string         `json:"year"`
	Batch           string         `json:"batch"`
	Email           string         `json:"email"`
	PracticalScores map[string]int `json:"practical_scores"`
	Total           int            `json:"total"`
	Average         float64        `json:"average"`
	ExamsTaken      int            `json:"exams_taken"`
}

// SubmissionEntry identifies one student who submitted a practical.
type SubmissionEntry struct {
	RollNo string `json:"roll_no"`
	Name   string `json:"name"`
	Batch  string `json:"batch"`
}

// ReportResponse is the faculty performance grid: roll × practical scores
// with row totals and averages, plus per-practical submission rosters. The
// spreadsheet exporter consumes this shape as-is.
type ReportResponse struct {
	Practicals      []string                     `json:"practicals"`
	Students        []PerformanceRow             `json:"students"`
	Submissions     map[string][]SubmissionEntry `json:"submissions"`
	Batches         []string                     `json:"batches"`
	SelectedBatch   string                       `json:"selected_batch"`
	SelectedSubject string                       `json:"selected_subject"`
}
