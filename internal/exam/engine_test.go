package exam

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vishalmisal215/SPAS/internal/models"
)

func makePool(n int) []models.Question {
	pool := make([]models.Question, 0, n)
	for i := 1; i <= n; i++ {
		pool = append(pool, models.Question{
			ID:       i,
			Question: "question",
			Options:  models.Options{A: "a", B: "b", C: "c", D: "d"},
			Answer:   "A",
		})
	}
	return pool
}

func TestSampleCapsAtMaxQuestions(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	selected := Sample(makePool(50), 20, rng)
	require.Len(t, selected, 20)

	seen := map[int]struct{}{}
	for _, question := range selected {
		_, dup := seen[question.ID]
		require.False(t, dup, "question %d sampled twice", question.ID)
		seen[question.ID] = struct{}{}
	}
}

func TestSampleUsesWholeSmallPool(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	selected := Sample(makePool(7), 20, rng)
	require.Len(t, selected, 7)
}

func TestSampleLeavesPoolUntouched(t *testing.T) {
	pool := makePool(10)
	rng := rand.New(rand.NewSource(3))
	Sample(pool, 5, rng)

	for i, question := range pool {
		require.Equal(t, i+1, question.ID)
	}
}

func TestRemaining(t *testing.T) {
	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	require.Equal(t, 1800, Remaining(start, 30*time.Minute, start))
	require.Equal(t, 60, Remaining(start, 30*time.Minute, start.Add(29*time.Minute)))
	require.LessOrEqual(t, Remaining(start, 30*time.Minute, start.Add(31*time.Minute)), 0)
}

func TestGradeCountsAndStatuses(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Question: "one", Options: models.Options{A: "1", B: "2", C: "3", D: "4"}, Answer: "A"},
		{ID: 2, Question: "two", Options: models.Options{A: "1", B: "2", C: "3", D: "4"}, Answer: "B"},
		{ID: 3, Question: "three", Options: models.Options{A: "1", B: "2", C: "3", D: "4"}, Answer: "C"},
	}

	result := Grade(questions, map[int]string{1: "A", 2: "D"})

	require.Equal(t, 3, result.Total)
	require.Equal(t, 2, result.Attempted)
	require.Equal(t, 1, result.Correct)
	require.Equal(t, 2, result.Wrong)
	require.Equal(t, 1, result.Score)

	require.Len(t, result.Details, 3)
	require.Equal(t, models.StatusCorrect, result.Details[0].Status)
	require.Equal(t, models.StatusWrong, result.Details[1].Status)
	require.Equal(t, "D", result.Details[1].StudentAnswer)
	require.Equal(t, models.StatusNotAttempted, result.Details[2].Status)
	require.Equal(t, models.StatusNotAttempted, result.Details[2].StudentAnswer)
}

func TestGradeEmptySubmission(t *testing.T) {
	questions := makePool(4)
	result := Grade(questions, nil)

	require.Equal(t, 4, result.Total)
	require.Zero(t, result.Attempted)
	require.Zero(t, result.Correct)
	require.Equal(t, 4, result.Wrong)
	for _, detail := range result.Details {
		require.Equal(t, models.StatusNotAttempted, detail.Status)
	}
}

func TestGradeIgnoresUnknownQuestionIDs(t *testing.T) {
	questions := makePool(2)
	result := Grade(questions, map[int]string{99: "A"})

	require.Zero(t, result.Attempted)
	require.Zero(t, result.Correct)
}
