package resultstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vishalmisal215/SPAS/internal/models"
)

// ErrNotFound indicates no result record matched a lookup.
var ErrNotFound = errors.New("result record not found")

// sectionRule separates the header block from the per-question section. The
// header parser stops at the first line containing it, which is what keeps
// colon-bearing question text from being misread as header key/value pairs.
const (
	sectionMarker = "=========="
	sectionHeader = "========== QUESTION WISE RESULT =========="
	detailRule    = "--------------------------------------------------"
)

// Render serializes a record into the persisted text layout. The layout is
// byte-compatible with the historical file corpus, so changes here break
// every already-written file.
func Render(record models.ResultRecord) string {
	lines := []string{
		"Roll No: " + record.RollNo,
		"Name: " + record.Name,
		"Branch: " + record.Branch,
		"Year: " + record.Year,
		"Batch: " + record.Batch,
		"Email: " + record.Email,
		"Practical: " + record.Practical,
		"Score: " + record.Score,
		"Attempted: " + record.Attempted,
		"Correct: " + record.Correct,
		"Wrong: " + record.Wrong,
		"Date & Time: " + record.DateTime,
		"",
		sectionHeader,
	}

	for i, detail := range record.Details {
		lines = append(lines, "", fmt.Sprintf("Q%d. %s", i+1, detail.Question))
		for _, key := range models.OptionKeys {
			lines = append(lines, fmt.Sprintf("   %s) %s", key, detail.Options[key]))
		}
		lines = append(lines,
			"Your Answer   : "+detail.StudentAnswer,
			"Correct Answer: "+detail.CorrectAnswer,
			"Status        : "+detail.Status,
			detailRule,
		)
	}

	return strings.Join(lines, "\n")
}

// Parse reconstructs a record from the persisted text layout.
func Parse(content string) models.ResultRecord {
	record := parseHeader(content)
	record.Details = parseDetails(content)
	return record
}

// parseHeader reads the Key: Value block, stopping at the first line carrying
// the section marker so question text never pollutes the header fields.
func parseHeader(content string) models.ResultRecord {
	fields := map[string]string{}
	for _, line := range strings.Split(content, "\n") {
		if strings.Contains(line, sectionMarker) {
			break
		}
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		fields[key] = strings.TrimSpace(value)
	}

	return models.ResultRecord{
		RollNo:    fields["Roll No"],
		Name:      fields["Name"],
		Branch:    fields["Branch"],
		Year:      fields["Year"],
		Batch:     fields["Batch"],
		Email:     fields["Email"],
		Practical: fields["Practical"],
		Score:     fields["Score"],
		Attempted: fields["Attempted"],
		Correct:   fields["Correct"],
		Wrong:     fields["Wrong"],
		DateTime:  fields["Date & Time"],
	}
}

// parseDetails scans the section after the QUESTION WISE RESULT line. A
// Q<n>. line starts a new entry (flushing the previous one), option lines
// accumulate into it, and the answer/status lines tolerate both the exact and
// the padded key form before the colon.
func parseDetails(content string) []models.AnswerDetail {
	details := []models.AnswerDetail{}
	inSection := false
	var current *models.AnswerDetail

	flush := func() {
		if current != nil {
			details = append(details, *current)
			current = nil
		}
	}

	for _, rawLine := range strings.Split(content, "\n") {
		if strings.Contains(rawLine, "QUESTION WISE RESULT") {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}

		line := strings.TrimSpace(rawLine)
		switch {
		case strings.HasPrefix(line, "Q") && strings.Contains(line, ". "):
			flush()
			_, text, _ := strings.Cut(line, ". ")
			current = &models.AnswerDetail{Question: text, Options: map[string]string{}}
		case current == nil:
			// Option and answer lines outside an entry are noise.
		case hasOptionPrefix(line):
			current.Options[line[:1]] = line[3:]
		case strings.HasPrefix(line, "Your Answer"):
			current.StudentAnswer = valueAfterColon(line)
		case strings.HasPrefix(line, "Correct Answer"):
			current.CorrectAnswer = valueAfterColon(line)
		case strings.HasPrefix(line, "Status"):
			current.Status = valueAfterColon(line)
		}
	}
	flush()

	return details
}

func hasOptionPrefix(line string) bool {
	for _, key := range models.OptionKeys {
		if strings.HasPrefix(line, key+") ") {
			return true
		}
	}
	return false
}

func valueAfterColon(line string) string {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(value)
}
