package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/vishalmisal215/SPAS/internal/dto"
	"github.com/vishalmisal215/SPAS/internal/exam"
	"github.com/vishalmisal215/SPAS/internal/models"
	"github.com/vishalmisal215/SPAS/internal/resultstore"
	"github.com/vishalmisal215/SPAS/internal/session"
	"github.com/vishalmisal215/SPAS/internal/store"
)

var (
	// ErrNoQuestions indicates the practical has an empty question bank.
	ErrNoQuestions = errors.New("no questions available for this practical")
	// ErrAlreadySubmitted indicates the student already completed this practical.
	ErrAlreadySubmitted = errors.New("practical already submitted")
	// ErrNoActiveExam indicates the session carries no exam in progress.
	ErrNoActiveExam = errors.New("no active exam")
	// ErrExamExpired indicates the countdown ran out; the caller must route
	// the attempt into submission instead of showing questions.
	ErrExamExpired = errors.New("exam time expired")
	// ErrResultNotFound indicates no result record matched the lookup.
	ErrResultNotFound = errors.New("result not found")
	// ErrStudentNotFound indicates the student profile is gone.
	ErrStudentNotFound = errors.New("student not found")
)

// ExamService runs the exam session lifecycle: dashboard, start, view,
// submit, and result reads. The session state is client-held; this service
// mutates the caller's copy and never stores it.
type ExamService interface {
	Dashboard(ctx context.Context, rollNo string, state *session.State, requestedSubject string) (dto.DashboardResponse, error)
	Start(ctx context.Context, rollNo string, state *session.State, practicalID string) error
	Questions(ctx context.Context, state *session.State) (dto.ExamViewResponse, error)
	Submit(ctx context.Context, rollNo string, state *session.State, answers map[string]string) (dto.ResultResponse, error)
	LastResult(ctx context.Context, state *session.State) (dto.ResultResponse, error)
	ResultFor(ctx context.Context, rollNo, practicalName string) (dto.ResultResponse, error)
	RawResult(ctx context.Context, rollNo, practicalName string) (dto.RawResultResponse, error)
}

type examService struct {
	users        *store.UserStore
	practicals   *store.PracticalStore
	questions    *store.QuestionStore
	results      *resultstore.Store
	catalog      CatalogService
	reports      ReportInvalidator
	duration     time.Duration
	maxQuestions int
	logger       zerolog.Logger
	now          func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewExamService constructs an ExamService instance.
func NewExamService(users *store.UserStore, practicals *store.PracticalStore, questions *store.QuestionStore, results *resultstore.Store, catalogSvc CatalogService, reports ReportInvalidator, duration time.Duration, maxQuestions int, logger zerolog.Logger) ExamService {
	if duration <= 0 {
		duration = exam.DefaultDuration
	}
	if maxQuestions <= 0 {
		maxQuestions = exam.DefaultMaxQuestions
	}

	return &examService{
		users:        users,
		practicals:   practicals,
		questions:    questions,
		results:      results,
		catalog:      catalogSvc,
		reports:      reports,
		duration:     duration,
		maxQuestions: maxQuestions,
		logger:       logger.With().Str("component", "exam_service").Logger(),
		now:          time.Now,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *examService) Dashboard(ctx context.Context, rollNo string, state *session.State, requestedSubject string) (dto.DashboardResponse, error) {
	student, ok := s.users.Get(rollNo)
	if !ok {
		return dto.DashboardResponse{}, ErrStudentNotFound
	}

	selected := s.catalog.ResolveSubject(requestedSubject, state.SelectedSubject)
	state.SelectedSubject = selected

	var practicals []models.Practical
	if selected == "all" {
		practicals = s.practicals.All()
	} else {
		practicals = s.catalog.PracticalsForSubjectName(selected)
	}

	attempts := s.results.ListForStudent(rollNo)
	submitted := map[string]string{}
	summaries := make([]session.ResultSummary, 0, len(attempts))
	for _, attempt := range attempts {
		submitted[attempt.Practical] = attempt.Score
		summaries = append(summaries, resultSummary(attempt))
	}

	statuses := make([]dto.PracticalStatus, 0, len(practicals))
	for _, practical := range practicals {
		score, done := submitted[practical.Name]
		statuses = append(statuses, dto.PracticalStatus{
			ID:        practical.ID,
			Name:      practical.Name,
			Submitted: done,
			Score:     score,
		})
	}

	return dto.DashboardResponse{
		Student:         dto.NewStudentResponse(student),
		Subjects:        s.catalog.Subjects(ctx),
		SelectedSubject: selected,
		Practicals:      statuses,
		Results:         summaries,
	}, nil
}

// Start draws a fresh exam session. A second attempt at an already-submitted
// practical is rejected here, before any session state exists.
func (s *examService) Start(ctx context.Context, rollNo string, state *session.State, practicalID string) error {
	practical, ok := s.practicals.ByID(practicalID)
	if !ok {
		return ErrPracticalNotFound
	}

	if _, _, err := s.results.FindLatest(rollNo, practical.Name); err == nil {
		return ErrAlreadySubmitted
	}

	pool := s.questions.ByPractical(practicalID)
	if len(pool) == 0 {
		return ErrNoQuestions
	}

	s.rngMu.Lock()
	selected := exam.Sample(pool, s.maxQuestions, s.rng)
	s.rngMu.Unlock()

	ids := make([]int, 0, len(selected))
	for _, question := range selected {
		ids = append(ids, question.ID)
	}

	state.BeginExam(ids, s.now(), s.duration, practical.ID, practical.Name)

	s.logger.Info().Str("roll_no", rollNo).Str("practical", practical.Name).Int("questions", len(ids)).Msg("exam started")
	return nil
}

// Questions returns the full question bodies for the session's ids. An
// expired countdown yields ErrExamExpired so the caller submits instead.
func (s *examService) Questions(ctx context.Context, state *session.State) (dto.ExamViewResponse, error) {
	if !state.HasExam() {
		return dto.ExamViewResponse{}, ErrNoActiveExam
	}

	questions := s.questions.ByIDs(state.ExamQuestionIDs)
	if len(questions) == 0 {
		state.ClearExam()
		return dto.ExamViewResponse{}, ErrNoActiveExam
	}

	remaining := exam.Remaining(state.StartTime(), state.Duration(s.duration), s.now())
	if remaining <= 0 {
		return dto.ExamViewResponse{}, ErrExamExpired
	}

	views := make([]dto.ExamQuestionView, 0, len(questions))
	for _, question := range questions {
		views = append(views, dto.ExamQuestionView{
			ID:       question.ID,
			Question: question.Question,
			Options:  question.Options,
		})
	}

	return dto.ExamViewResponse{
		PracticalName:    state.PracticalName,
		RemainingSeconds: remaining,
		Questions:        views,
	}, nil
}

// Submit grades the session and persists the attempt. The session is
// consumed single-use: its exam fields are cleared and only the compact
// summary plus result filename remain for one follow-up read.
func (s *examService) Submit(ctx context.Context, rollNo string, state *session.State, answers map[string]string) (dto.ResultResponse, error) {
	if !state.HasExam() {
		return dto.ResultResponse{}, ErrNoActiveExam
	}

	questions := s.questions.ByIDs(state.ExamQuestionIDs)
	if len(questions) == 0 {
		state.ClearExam()
		return dto.ResultResponse{}, ErrNoActiveExam
	}

	student, ok := s.users.Get(rollNo)
	if !ok {
		return dto.ResultResponse{}, ErrStudentNotFound
	}

	graded := exam.Grade(questions, parseAnswers(answers))
	dateTime := s.now().Format("2006-01-02 15:04:05")

	record := models.ResultRecord{
		RollNo:    student.RollNo,
		Name:      student.FullName,
		Branch:    student.Branch,
		Year:      student.Year,
		Batch:     student.Batch,
		Email:     student.Email,
		Practical: state.PracticalName,
		Score:     fmt.Sprintf("%d / %d", graded.Score, graded.Total),
		Attempted: strconv.Itoa(graded.Attempted),
		Correct:   strconv.Itoa(graded.Correct),
		Wrong:     strconv.Itoa(graded.Wrong),
		DateTime:  dateTime,
		Details:   graded.Details,
	}

	filename, err := s.results.Write(record)
	if err != nil {
		return dto.ResultResponse{}, err
	}

	summary := session.ResultSummary{
		RollNo:         student.RollNo,
		Name:           student.FullName,
		Branch:         student.Branch,
		Year:           student.Year,
		Batch:          student.Batch,
		Email:          student.Email,
		PracticalName:  state.PracticalName,
		Score:          record.Score,
		TotalQuestions: graded.Total,
		Attempted:      graded.Attempted,
		Correct:        graded.Correct,
		Wrong:          graded.Wrong,
		DateTime:       dateTime,
	}
	state.FinishExam(summary, filename)

	if s.reports != nil {
		s.reports.Invalidate(ctx)
	}

	s.logger.Info().Str("roll_no", rollNo).Str("practical", summary.PracticalName).Str("score", record.Score).Msg("exam submitted")

	response := resultResponse(record)
	response.Filename = filename
	return response, nil
}

// LastResult rebuilds the full result view from the compact session summary
// plus the per-question detail re-read from the result file.
func (s *examService) LastResult(ctx context.Context, state *session.State) (dto.ResultResponse, error) {
	if state.LastResult == nil {
		return dto.ResultResponse{}, ErrResultNotFound
	}

	summary := *state.LastResult
	response := dto.ResultResponse{
		RollNo:          summary.RollNo,
		Name:            summary.Name,
		Branch:          summary.Branch,
		Year:            summary.Year,
		Batch:           summary.Batch,
		Email:           summary.Email,
		PracticalName:   summary.PracticalName,
		Score:           summary.Score,
		TotalQuestions:  summary.TotalQuestions,
		Attempted:       summary.Attempted,
		Correct:         summary.Correct,
		Wrong:           summary.Wrong,
		DateTime:        summary.DateTime,
		Filename:        state.LastResultFile,
		DetailedAnswers: []dto.AnswerDetailView{},
	}

	if state.LastResultFile != "" {
		if record, err := s.results.Get(state.LastResultFile); err == nil {
			response.DetailedAnswers = dto.NewAnswerDetailViews(record.Details)
		}
	}

	return response, nil
}

func (s *examService) ResultFor(ctx context.Context, rollNo, practicalName string) (dto.ResultResponse, error) {
	record, filename, err := s.results.FindLatest(rollNo, practicalName)
	if err != nil {
		return dto.ResultResponse{}, ErrResultNotFound
	}

	response := resultResponse(record)
	response.Filename = filename
	return response, nil
}

func (s *examService) RawResult(ctx context.Context, rollNo, practicalName string) (dto.RawResultResponse, error) {
	content, filename, err := s.results.Raw(rollNo, practicalName)
	if err != nil {
		return dto.RawResultResponse{}, ErrResultNotFound
	}
	return dto.RawResultResponse{Filename: filename, Content: content}, nil
}

// parseAnswers converts string-keyed submissions into question-id keys,
// dropping anything unparseable or blank.
func parseAnswers(answers map[string]string) map[int]string {
	parsed := map[int]string{}
	for key, value := range answers {
		if value == "" {
			continue
		}
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		parsed[id] = value
	}
	return parsed
}

func resultSummary(record models.ResultRecord) session.ResultSummary {
	return session.ResultSummary{
		RollNo:         record.RollNo,
		Name:           record.Name,
		Branch:         record.Branch,
		Year:           record.Year,
		Batch:          record.Batch,
		Email:          record.Email,
		PracticalName:  record.Practical,
		Score:          record.Score,
		TotalQuestions: atoiOrZero(record.Correct) + atoiOrZero(record.Wrong),
		Attempted:      atoiOrZero(record.Attempted),
		Correct:        atoiOrZero(record.Correct),
		Wrong:          atoiOrZero(record.Wrong),
		DateTime:       record.DateTime,
	}
}

func resultResponse(record models.ResultRecord) dto.ResultResponse {
	return dto.ResultResponse{
		RollNo:          record.RollNo,
		Name:            record.Name,
		Branch:          record.Branch,
		Year:            record.Year,
		Batch:           record.Batch,
		Email:           record.Email,
		PracticalName:   record.Practical,
		Score:           record.Score,
		TotalQuestions:  atoiOrZero(record.Correct) + atoiOrZero(record.Wrong),
		Attempted:       atoiOrZero(record.Attempted),
		Correct:         atoiOrZero(record.Correct),
		Wrong:           atoiOrZero(record.Wrong),
		DateTime:        record.DateTime,
		DetailedAnswers: dto.NewAnswerDetailViews(record.Details),
	}
}

func atoiOrZero(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
