package resultstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vishalmisal215/SPAS/internal/models"
)

func sampleRecord(questions int) models.ResultRecord {
	record := models.ResultRecord{
		RollNo:    "A123",
		Name:      "Asha Patil",
		Branch:    "Computer",
		Year:      "Second",
		Batch:     "2",
		Email:     "asha@example.com",
		Practical: "Practical No: 3 - Stack operations",
		Score:     "1 / 2",
		Attempted: "2",
		Correct:   "1",
		Wrong:     "1",
		DateTime:  "2025-06-01 10:30:00",
	}

	for i := 0; i < questions; i++ {
		record.Details = append(record.Details, models.AnswerDetail{
			Question:      "What does push do?",
			Options:       map[string]string{"A": "adds", "B": "removes", "C": "peeks", "D": "clears"},
			StudentAnswer: "A",
			CorrectAnswer: "A",
			Status:        models.StatusCorrect,
		})
	}
	return record
}

func TestRenderParseRoundTrip(t *testing.T) {
	for _, questions := range []int{0, 1, 20} {
		record := sampleRecord(questions)
		parsed := Parse(Render(record))

		require.Equal(t, record.RollNo, parsed.RollNo)
		require.Equal(t, record.Practical, parsed.Practical)
		require.Equal(t, record.Score, parsed.Score)
		require.Equal(t, record.DateTime, parsed.DateTime)
		require.Len(t, parsed.Details, questions)
		for _, detail := range parsed.Details {
			require.Equal(t, record.Details[0].Question, detail.Question)
			require.Equal(t, record.Details[0].Options, detail.Options)
			require.Equal(t, models.StatusCorrect, detail.Status)
		}
	}
}

func TestRenderLayout(t *testing.T) {
	record := sampleRecord(1)
	body := Render(record)

	require.True(t, strings.HasPrefix(body, "Roll No: A123\n"))
	require.Contains(t, body, "Date & Time: 2025-06-01 10:30:00")
	require.Contains(t, body, "========== QUESTION WISE RESULT ==========")
	require.Contains(t, body, "Q1. What does push do?")
	require.Contains(t, body, "   A) adds")
	require.Contains(t, body, "Your Answer   : A")
	require.Contains(t, body, "Status        : CORRECT")
	require.Contains(t, body, strings.Repeat("-", 50))
}

func TestParseHeaderStopsAtSectionMarker(t *testing.T) {
	record := sampleRecord(1)
	record.Details[0].Question = "Which line declares a map: var m map[string]int?"
	parsed := Parse(Render(record))

	// The colon inside the question text must not become a header field.
	require.Equal(t, "A123", parsed.RollNo)
	require.Equal(t, record.Details[0].Question, parsed.Details[0].Question)
}

func TestParseToleratesColonsAndMarkersInText(t *testing.T) {
	record := sampleRecord(1)
	record.Details[0].Question = "Evaluate: a == b ========== or not"
	record.Details[0].Options["B"] = "value: with colon"

	parsed := Parse(Render(record))
	require.Len(t, parsed.Details, 1)
	require.Equal(t, "value: with colon", parsed.Details[0].Options["B"])
}

func TestParseNotAttemptedEntries(t *testing.T) {
	record := sampleRecord(1)
	record.Details[0].StudentAnswer = models.StatusNotAttempted
	record.Details[0].Status = models.StatusNotAttempted

	parsed := Parse(Render(record))
	require.Equal(t, "NOT ATTEMPTED", parsed.Details[0].StudentAnswer)
	require.Equal(t, "NOT ATTEMPTED", parsed.Details[0].Status)
}

func TestParseEmptyContent(t *testing.T) {
	parsed := Parse("")
	require.Empty(t, parsed.RollNo)
	require.Empty(t, parsed.Details)
}
