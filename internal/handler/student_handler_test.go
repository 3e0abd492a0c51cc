package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vishalmisal215/SPAS/internal/dto"
	"github.com/vishalmisal215/SPAS/internal/handler"
	"github.com/vishalmisal215/SPAS/internal/service"
	"github.com/vishalmisal215/SPAS/internal/session"
)

type mockExamService struct {
	startErr     error
	questionsErr error
	submitErr    error
	submitResult dto.ResultResponse
	resultErr    error
	result       dto.ResultResponse
}

func (m *mockExamService) Dashboard(_ context.Context, rollNo string, state *session.State, _ string) (dto.DashboardResponse, error) {
	state.SelectedSubject = "Data Structures"
	return dto.DashboardResponse{Student: dto.StudentResponse{RollNo: rollNo}}, nil
}

func (m *mockExamService) Start(_ context.Context, _ string, state *session.State, practicalID string) error {
	if m.startErr != nil {
		return m.startErr
	}
	state.BeginExam([]int{1, 2, 3}, time.Now(), 30*time.Minute, practicalID, "Practical No: 1")
	return nil
}

func (m *mockExamService) Questions(_ context.Context, _ *session.State) (dto.ExamViewResponse, error) {
	if m.questionsErr != nil {
		return dto.ExamViewResponse{}, m.questionsErr
	}
	return dto.ExamViewResponse{PracticalName: "Practical No: 1", RemainingSeconds: 100}, nil
}

func (m *mockExamService) Submit(_ context.Context, _ string, state *session.State, _ map[string]string) (dto.ResultResponse, error) {
	if m.submitErr != nil {
		return dto.ResultResponse{}, m.submitErr
	}
	state.FinishExam(session.ResultSummary{Score: m.submitResult.Score}, "Result_RollNo_A123_1.txt")
	return m.submitResult, nil
}

func (m *mockExamService) LastResult(_ context.Context, _ *session.State) (dto.ResultResponse, error) {
	return m.result, m.resultErr
}

func (m *mockExamService) ResultFor(_ context.Context, _, _ string) (dto.ResultResponse, error) {
	return m.result, m.resultErr
}

func (m *mockExamService) RawResult(_ context.Context, _, _ string) (dto.RawResultResponse, error) {
	if m.resultErr != nil {
		return dto.RawResultResponse{}, m.resultErr
	}
	return dto.RawResultResponse{Filename: "Result_RollNo_A123_1.txt", Content: "Roll No: A123"}, nil
}

func newStudentApp(svc service.ExamService) (*fiber.App, session.Codec) {
	logger := zerolog.New(io.Discard)
	codec := session.NewCodec("session-secret")

	app := fiber.New()
	group := app.Group("/api/v1/student", func(c *fiber.Ctx) error {
		c.Locals("account_id", "A123")
		c.Locals("user_role", "student")
		return c.Next()
	})
	handler.NewStudentHandler(svc, nil, codec, logger).Register(group)
	return app, codec
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}, cookie string) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func sessionCookie(t *testing.T, resp *http.Response) string {
	t.Helper()
	for _, cookie := range resp.Cookies() {
		if cookie.Name == session.CookieName {
			return cookie.Value
		}
	}
	t.Fatal("session cookie not set")
	return ""
}

func TestStartExamSetsSessionCookie(t *testing.T) {
	app, codec := newStudentApp(&mockExamService{})

	resp := postJSON(t, app, "/api/v1/student/exam/start", dto.ExamStartRequest{PracticalID: "p-1"}, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	state, err := codec.Decode(sessionCookie(t, resp))
	require.NoError(t, err)
	require.True(t, state.HasExam())
	require.Equal(t, "Practical No: 1", state.PracticalName)
}

func TestStartExamDuplicateAttempt(t *testing.T) {
	app, _ := newStudentApp(&mockExamService{startErr: service.ErrAlreadySubmitted})

	resp := postJSON(t, app, "/api/v1/student/exam/start", dto.ExamStartRequest{PracticalID: "p-1"}, "")
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	for _, cookie := range resp.Cookies() {
		require.NotEqual(t, session.CookieName, cookie.Name)
	}
}

func TestStartExamEmptyBank(t *testing.T) {
	app, _ := newStudentApp(&mockExamService{startErr: service.ErrNoQuestions})

	resp := postJSON(t, app, "/api/v1/student/exam/start", dto.ExamStartRequest{PracticalID: "p-1"}, "")
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestExamQuestionsExpired(t *testing.T) {
	app, _ := newStudentApp(&mockExamService{questionsErr: service.ErrExamExpired})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/student/exam/questions", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusGone, resp.StatusCode)
}

func TestSubmitExamUpdatesSession(t *testing.T) {
	svc := &mockExamService{submitResult: dto.ResultResponse{Score: "2 / 3", PracticalName: "Practical No: 1"}}
	app, codec := newStudentApp(svc)

	started := postJSON(t, app, "/api/v1/student/exam/start", dto.ExamStartRequest{PracticalID: "p-1"}, "")
	cookie := sessionCookie(t, started)

	resp := postJSON(t, app, "/api/v1/student/exam/submit", dto.ExamSubmitRequest{Answers: map[string]string{"1": "A"}}, cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	state, err := codec.Decode(sessionCookie(t, resp))
	require.NoError(t, err)
	require.False(t, state.HasExam())
	require.NotNil(t, state.LastResult)
	require.Equal(t, "2 / 3", state.LastResult.Score)
}

func TestSubmitWithoutActiveExam(t *testing.T) {
	app, _ := newStudentApp(&mockExamService{submitErr: service.ErrNoActiveExam})

	resp := postJSON(t, app, "/api/v1/student/exam/submit", dto.ExamSubmitRequest{}, "")
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestViewResultNotFound(t *testing.T) {
	app, _ := newStudentApp(&mockExamService{resultErr: service.ErrResultNotFound})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/student/results/Practical%20No%3A%201", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDownloadResultStreamsFile(t *testing.T) {
	app, _ := newStudentApp(&mockExamService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/student/results/Practical%20No%3A%201/download", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "Result_RollNo_A123_1.txt")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "Roll No: A123", string(body))
}

func TestDashboardBindsSessionToAccount(t *testing.T) {
	app, codec := newStudentApp(&mockExamService{})

	// A cookie issued for another roll number must not leak into this account.
	foreign, err := codec.Issue(session.State{RollNo: "Z999", SelectedSubject: "Networks"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/student/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: foreign})

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	state, err := codec.Decode(sessionCookie(t, resp))
	require.NoError(t, err)
	require.Equal(t, "A123", state.RollNo)
}
