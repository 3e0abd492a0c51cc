package exam

import (
	"math/rand"
	"time"

	"github.com/vishalmisal215/SPAS/internal/models"
)

// DefaultMaxQuestions bounds the random sample drawn for one attempt.
const DefaultMaxQuestions = 20

// DefaultDuration is the fixed exam countdown.
const DefaultDuration = 30 * time.Minute

// Sample shuffles a copy of the question pool uniformly and truncates it to
// at most maxQuestions. With a smaller pool every question is used.
func Sample(pool []models.Question, maxQuestions int, rng *rand.Rand) []models.Question {
	if maxQuestions <= 0 {
		maxQuestions = DefaultMaxQuestions
	}

	selected := make([]models.Question, len(pool))
	copy(selected, pool)
	rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})

	if len(selected) > maxQuestions {
		selected = selected[:maxQuestions]
	}
	return selected
}

// Remaining returns the whole seconds left on the countdown. Zero or negative
// means the attempt is expired and must be routed to submission.
func Remaining(start time.Time, duration time.Duration, now time.Time) int {
	return int(start.Add(duration).Sub(now).Seconds())
}

// GradedResult is the outcome of grading one submission.
type GradedResult struct {
	Total     int
	Attempted int
	Correct   int
	Wrong     int
	Score     int
	Details   []models.AnswerDetail
}

// Grade scores a submission against the session's questions, in session
// order. The answer map may be missing entries, carry unknown question ids,
// or be empty; anything without a submitted letter is NOT ATTEMPTED.
func Grade(questions []models.Question, answers map[int]string) GradedResult {
	result := GradedResult{
		Total:   len(questions),
		Details: make([]models.AnswerDetail, 0, len(questions)),
	}

	for _, question := range questions {
		answer := answers[question.ID]
		correct := answer != "" && answer == question.Answer

		if answer != "" {
			result.Attempted++
			if correct {
				result.Correct++
			}
		}

		status := models.StatusNotAttempted
		studentAnswer := models.StatusNotAttempted
		if answer != "" {
			studentAnswer = answer
			status = models.StatusWrong
			if correct {
				status = models.StatusCorrect
			}
		}

		options := map[string]string{}
		for _, key := range models.OptionKeys {
			options[key] = question.Options.Get(key)
		}

		result.Details = append(result.Details, models.AnswerDetail{
			Question:      question.Question,
			Options:       options,
			StudentAnswer: studentAnswer,
			CorrectAnswer: question.Answer,
			Status:        status,
		})
	}

	result.Wrong = result.Total - result.Correct
	result.Score = result.Correct
	return result
}
