package service

import (
	"context"
	"io"
	"math/rand"
	"strconv"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/vishalmisal215/SPAS/internal/models"
	"github.com/vishalmisal215/SPAS/internal/resultstore"
	"github.com/vishalmisal215/SPAS/internal/session"
	"github.com/vishalmisal215/SPAS/internal/store"
)

type examFixture struct {
	users      *store.UserStore
	practicals *store.PracticalStore
	questions  *store.QuestionStore
	subjects   *store.SubjectStore
	results    *resultstore.Store
	service    *examService
}

func newExamFixture(t *testing.T) *examFixture {
	t.Helper()

	fs := afero.NewMemMapFs()
	logger := zerolog.New(io.Discard)

	users, err := store.NewUserStore(fs, "data", logger)
	require.NoError(t, err)
	subjects, err := store.NewSubjectStore(fs, "data", logger)
	require.NoError(t, err)
	practicals, err := store.NewPracticalStore(fs, "data", logger)
	require.NoError(t, err)
	questions, err := store.NewQuestionStore(fs, "data", logger)
	require.NoError(t, err)

	results := resultstore.NewStore(fs, "data/results", logger)

	validate := validator.New(validator.WithRequiredStructEnabled())
	catalogSvc := NewCatalogService(subjects, practicals, validate, logger)

	svc := NewExamService(users, practicals, questions, results, catalogSvc, nil, 30*time.Minute, 20, logger).(*examService)
	svc.rng = rand.New(rand.NewSource(1))

	require.NoError(t, users.Update(func(m map[string]models.Student) (map[string]models.Student, error) {
		m["A123"] = models.Student{
			RollNo:   "A123",
			Password: "secret1",
			FullName: "Asha Patil",
			Branch:   "Computer",
			Year:     "Second",
			Batch:    "2",
			Email:    "asha@example.com",
		}
		return m, nil
	}))

	require.NoError(t, subjects.Update(func(s []models.Subject) ([]models.Subject, error) {
		return append(s, models.Subject{ID: "sub-1", Name: "Data Structures", PracticalIDs: []string{"p-1"}}), nil
	}))
	require.NoError(t, practicals.Update(func(p []models.Practical) ([]models.Practical, error) {
		return append(p, models.Practical{ID: "p-1", Name: "Practical No: 1"}), nil
	}))

	return &examFixture{
		users:      users,
		practicals: practicals,
		questions:  questions,
		subjects:   subjects,
		results:    results,
		service:    svc,
	}
}

func (f *examFixture) seedQuestions(t *testing.T, count int) {
	t.Helper()
	require.NoError(t, f.questions.Update(func(questions []models.Question) ([]models.Question, error) {
		for i := 0; i < count; i++ {
			questions = append(questions, models.Question{
				ID:          store.NextQuestionID(questions),
				PracticalID: "p-1",
				Question:    "question",
				Options:     models.Options{A: "1", B: "2", C: "3", D: "4"},
				Answer:      "A",
			})
		}
		return questions, nil
	}))
}

func TestStartRejectsUnknownPractical(t *testing.T) {
	f := newExamFixture(t)
	state := session.State{RollNo: "A123"}

	err := f.service.Start(context.Background(), "A123", &state, "missing")
	require.ErrorIs(t, err, ErrPracticalNotFound)
}

func TestStartRejectsEmptyQuestionBank(t *testing.T) {
	f := newExamFixture(t)
	state := session.State{RollNo: "A123"}

	err := f.service.Start(context.Background(), "A123", &state, "p-1")
	require.ErrorIs(t, err, ErrNoQuestions)
	require.False(t, state.HasExam())
}

func TestStartSamplesBoundedSession(t *testing.T) {
	f := newExamFixture(t)
	f.seedQuestions(t, 30)
	state := session.State{RollNo: "A123"}

	require.NoError(t, f.service.Start(context.Background(), "A123", &state, "p-1"))
	require.True(t, state.HasExam())
	require.Len(t, state.ExamQuestionIDs, 20)
	require.Equal(t, "Practical No: 1", state.PracticalName)

	seen := map[int]struct{}{}
	for _, id := range state.ExamQuestionIDs {
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestSubmitGradesAndPersists(t *testing.T) {
	f := newExamFixture(t)
	f.seedQuestions(t, 5)
	f.service.now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }

	state := session.State{RollNo: "A123"}
	require.NoError(t, f.service.Start(context.Background(), "A123", &state, "p-1"))

	answers := map[string]string{}
	for i, id := range state.ExamQuestionIDs {
		letter := "A"
		if i == 0 {
			letter = "B"
		}
		if i == 1 {
			continue
		}
		answers[strconv.Itoa(id)] = letter
	}

	response, err := f.service.Submit(context.Background(), "A123", &state, answers)
	require.NoError(t, err)

	require.Equal(t, "3 / 5", response.Score)
	require.Equal(t, 4, response.Attempted)
	require.Equal(t, 3, response.Correct)
	require.Equal(t, 2, response.Wrong)
	require.Equal(t, "2025-06-01 10:00:00", response.DateTime)
	require.Len(t, response.DetailedAnswers, 5)

	require.False(t, state.HasExam())
	require.NotNil(t, state.LastResult)
	require.Equal(t, "3 / 5", state.LastResult.Score)
	require.NotEmpty(t, state.LastResultFile)

	record, _, err := f.results.FindLatest("A123", "Practical No: 1")
	require.NoError(t, err)
	require.Equal(t, "3 / 5", record.Score)
}

func TestStartRejectsSecondAttempt(t *testing.T) {
	f := newExamFixture(t)
	f.seedQuestions(t, 3)

	state := session.State{RollNo: "A123"}
	require.NoError(t, f.service.Start(context.Background(), "A123", &state, "p-1"))
	_, err := f.service.Submit(context.Background(), "A123", &state, nil)
	require.NoError(t, err)

	fresh := session.State{RollNo: "A123"}
	err = f.service.Start(context.Background(), "A123", &fresh, "p-1")
	require.ErrorIs(t, err, ErrAlreadySubmitted)
	require.False(t, fresh.HasExam())
}

func TestStartAllowsPracticalWhoseNamePrefixesAnother(t *testing.T) {
	f := newExamFixture(t)
	f.seedQuestions(t, 3)

	require.NoError(t, f.practicals.Update(func(p []models.Practical) ([]models.Practical, error) {
		return append(p, models.Practical{ID: "p-10", Name: "Practical No: 10"}), nil
	}))
	require.NoError(t, f.questions.Update(func(questions []models.Question) ([]models.Question, error) {
		return append(questions, models.Question{
			ID:          store.NextQuestionID(questions),
			PracticalID: "p-10",
			Question:    "question",
			Options:     models.Options{A: "1", B: "2", C: "3", D: "4"},
			Answer:      "A",
		}), nil
	}))

	state := session.State{RollNo: "A123"}
	require.NoError(t, f.service.Start(context.Background(), "A123", &state, "p-10"))
	_, err := f.service.Submit(context.Background(), "A123", &state, nil)
	require.NoError(t, err)

	// "Practical No: 1" is untaken even though it prefixes "Practical No: 10".
	fresh := session.State{RollNo: "A123"}
	require.NoError(t, f.service.Start(context.Background(), "A123", &fresh, "p-1"))
	require.Equal(t, "Practical No: 1", fresh.PracticalName)
}

func TestQuestionsRequiresActiveExam(t *testing.T) {
	f := newExamFixture(t)
	state := session.State{RollNo: "A123"}

	_, err := f.service.Questions(context.Background(), &state)
	require.ErrorIs(t, err, ErrNoActiveExam)
}

func TestQuestionsExpiredCountdown(t *testing.T) {
	f := newExamFixture(t)
	f.seedQuestions(t, 3)

	state := session.State{RollNo: "A123"}
	require.NoError(t, f.service.Start(context.Background(), "A123", &state, "p-1"))

	f.service.now = func() time.Time { return time.Now().Add(31 * time.Minute) }
	_, err := f.service.Questions(context.Background(), &state)
	require.ErrorIs(t, err, ErrExamExpired)
	require.True(t, state.HasExam(), "expired exam stays submittable")
}

func TestQuestionsHideAnswers(t *testing.T) {
	f := newExamFixture(t)
	f.seedQuestions(t, 3)

	state := session.State{RollNo: "A123"}
	require.NoError(t, f.service.Start(context.Background(), "A123", &state, "p-1"))

	view, err := f.service.Questions(context.Background(), &state)
	require.NoError(t, err)
	require.Len(t, view.Questions, 3)
	require.Positive(t, view.RemainingSeconds)
}

func TestLastResultAfterSubmit(t *testing.T) {
	f := newExamFixture(t)
	f.seedQuestions(t, 2)

	state := session.State{RollNo: "A123"}
	require.NoError(t, f.service.Start(context.Background(), "A123", &state, "p-1"))
	_, err := f.service.Submit(context.Background(), "A123", &state, nil)
	require.NoError(t, err)

	response, err := f.service.LastResult(context.Background(), &state)
	require.NoError(t, err)
	require.Equal(t, "0 / 2", response.Score)
	require.Len(t, response.DetailedAnswers, 2)
}

func TestLastResultWithoutSubmission(t *testing.T) {
	f := newExamFixture(t)
	state := session.State{RollNo: "A123"}

	_, err := f.service.LastResult(context.Background(), &state)
	require.ErrorIs(t, err, ErrResultNotFound)
}

func TestDashboardMarksSubmittedPracticals(t *testing.T) {
	f := newExamFixture(t)
	f.seedQuestions(t, 2)

	state := session.State{RollNo: "A123"}
	require.NoError(t, f.service.Start(context.Background(), "A123", &state, "p-1"))
	_, err := f.service.Submit(context.Background(), "A123", &state, nil)
	require.NoError(t, err)

	dashboard, err := f.service.Dashboard(context.Background(), "A123", &state, "")
	require.NoError(t, err)
	require.Equal(t, "Data Structures", dashboard.SelectedSubject)
	require.Len(t, dashboard.Practicals, 1)
	require.True(t, dashboard.Practicals[0].Submitted)
	require.Equal(t, "0 / 2", dashboard.Practicals[0].Score)
	require.Len(t, dashboard.Results, 1)
}
