package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/vishalmisal215/SPAS/internal/dto"
	"github.com/vishalmisal215/SPAS/internal/models"
	"github.com/vishalmisal215/SPAS/internal/resultstore"
	"github.com/vishalmisal215/SPAS/internal/store"
)

type reportFixture struct {
	fs      afero.Fs
	users   *store.UserStore
	results *resultstore.Store
	service *reportService
	writeAt int64
}

func newReportFixture(t *testing.T, cache *redis.Client) *reportFixture {
	t.Helper()

	fs := afero.NewMemMapFs()
	logger := zerolog.New(io.Discard)

	users, err := store.NewUserStore(fs, "data", logger)
	require.NoError(t, err)
	subjects, err := store.NewSubjectStore(fs, "data", logger)
	require.NoError(t, err)
	practicals, err := store.NewPracticalStore(fs, "data", logger)
	require.NoError(t, err)

	require.NoError(t, subjects.Update(func(s []models.Subject) ([]models.Subject, error) {
		return append(s,
			models.Subject{ID: "sub-1", Name: "Data Structures", PracticalIDs: []string{"p-1", "p-2"}},
			models.Subject{ID: "sub-2", Name: "Networks", PracticalIDs: []string{}},
		), nil
	}))
	require.NoError(t, practicals.Update(func(p []models.Practical) ([]models.Practical, error) {
		return append(p,
			models.Practical{ID: "p-1", Name: "Practical No: 1"},
			models.Practical{ID: "p-2", Name: "Practical No: 2"},
		), nil
	}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	catalogSvc := NewCatalogService(subjects, practicals, validate, logger)

	results := resultstore.NewStore(fs, "data/results", logger)
	svc := NewReportService(users, results, practicals, catalogSvc, cache, time.Minute, logger).(*reportService)

	return &reportFixture{fs: fs, users: users, results: results, service: svc, writeAt: 1000}
}

func (f *reportFixture) addStudent(t *testing.T, rollNo, name, batch string) {
	t.Helper()
	require.NoError(t, f.users.Update(func(m map[string]models.Student) (map[string]models.Student, error) {
		m[rollNo] = models.Student{
			RollNo:   rollNo,
			Password: "secret1",
			FullName: name,
			Branch:   "Computer",
			Year:     "Second",
			Batch:    batch,
			Email:    rollNo + "@example.com",
		}
		return m, nil
	}))
}

func (f *reportFixture) addResult(t *testing.T, rollNo, name, batch, practical, score string) {
	t.Helper()
	f.writeAt++
	record := models.ResultRecord{
		RollNo:    rollNo,
		Name:      name,
		Branch:    "Computer",
		Year:      "Second",
		Batch:     batch,
		Email:     rollNo + "@example.com",
		Practical: practical,
		Score:     score,
		Attempted: "2",
		Correct:   "1",
		Wrong:     "1",
		DateTime:  "2025-06-01 10:00:00",
	}

	filename := fmt.Sprintf("Result_RollNo_%s_%d.txt", rollNo, f.writeAt)
	body := resultstore.Render(record)
	require.NoError(t, afero.WriteFile(f.fs, filepath.Join("data/results", filename), []byte(body), 0o644))
}

func rowFor(t *testing.T, report dto.ReportResponse, rollNo string) dto.PerformanceRow {
	t.Helper()
	for _, row := range report.Students {
		if row.RollNo == rollNo {
			return row
		}
	}
	t.Fatalf("no row for roll number %s", rollNo)
	return dto.PerformanceRow{}
}

func TestPerformanceGridAggregation(t *testing.T) {
	f := newReportFixture(t, nil)
	f.addStudent(t, "A123", "Asha", "1")
	f.addStudent(t, "B456", "Ravi", "2")

	f.addResult(t, "A123", "Asha", "1", "Practical No: 1", "5 / 20")
	f.addResult(t, "A123", "Asha", "1", "Practical No: 2", "10 / 20")
	f.addResult(t, "B456", "Ravi", "2", "Practical No: 1", "20 / 20")

	report, err := f.service.Performance(context.Background(), "", "")
	require.NoError(t, err)

	require.Equal(t, []string{"Practical No: 1", "Practical No: 2"}, report.Practicals)
	require.Equal(t, "all", report.SelectedBatch)
	require.Equal(t, []string{"1", "2"}, report.Batches)
	require.Len(t, report.Students, 2)

	asha := rowFor(t, report, "A123")
	require.Equal(t, "Asha", asha.Name)
	require.Equal(t, 15, asha.Total)
	require.InDelta(t, 7.5, asha.Average, 0.001)
	require.Equal(t, 2, asha.ExamsTaken)

	ravi := rowFor(t, report, "B456")
	require.Equal(t, 20, ravi.PracticalScores["Practical No: 1"])
	require.Equal(t, 1, ravi.ExamsTaken)

	require.Len(t, report.Submissions["Practical No: 1"], 2)
	require.Len(t, report.Submissions["Practical No: 2"], 1)
}

func TestPerformanceGridIncludesZeroSubmissionStudents(t *testing.T) {
	f := newReportFixture(t, nil)
	f.addStudent(t, "A123", "Asha", "1")
	f.addStudent(t, "C789", "Meera", "3")

	f.addResult(t, "A123", "Asha", "1", "Practical No: 1", "5 / 20")

	report, err := f.service.Performance(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, report.Students, 2)

	meera := rowFor(t, report, "C789")
	require.Empty(t, meera.PracticalScores)
	require.Zero(t, meera.ExamsTaken)
	require.Zero(t, meera.Average)

	// The batch selector covers the roster even when a batch has no records.
	require.Equal(t, []string{"1", "3"}, report.Batches)
}

func TestPerformanceGridUsesCurrentProfileFields(t *testing.T) {
	f := newReportFixture(t, nil)
	f.addStudent(t, "A123", "Asha Patil", "1")

	// The record header carries the name as it was at submission time.
	f.addResult(t, "A123", "Asha", "1", "Practical No: 1", "5 / 20")

	report, err := f.service.Performance(context.Background(), "", "")
	require.NoError(t, err)

	asha := rowFor(t, report, "A123")
	require.Equal(t, "Asha Patil", asha.Name)
	require.Len(t, report.Submissions["Practical No: 1"], 1)
	require.Equal(t, "Asha Patil", report.Submissions["Practical No: 1"][0].Name)
}

func TestPerformanceGridSkipsDeletedAccounts(t *testing.T) {
	f := newReportFixture(t, nil)
	f.addStudent(t, "A123", "Asha", "1")

	f.addResult(t, "A123", "Asha", "1", "Practical No: 1", "5 / 20")
	f.addResult(t, "Z999", "Ghost", "1", "Practical No: 1", "9 / 20")

	report, err := f.service.Performance(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, report.Students, 1)
	require.Len(t, report.Submissions["Practical No: 1"], 1)
}

func TestPerformanceGridBatchFilter(t *testing.T) {
	f := newReportFixture(t, nil)
	f.addStudent(t, "A123", "Asha", "1")
	f.addStudent(t, "B456", "Ravi", "2")

	f.addResult(t, "A123", "Asha", "1", "Practical No: 1", "5 / 20")
	f.addResult(t, "B456", "Ravi", "2", "Practical No: 1", "20 / 20")

	report, err := f.service.Performance(context.Background(), "2", "")
	require.NoError(t, err)

	require.Len(t, report.Students, 1)
	require.Equal(t, "B456", report.Students[0].RollNo)
	// The batch selector still lists every batch in the roster.
	require.Equal(t, []string{"1", "2"}, report.Batches)
}

func TestPerformanceGridLatestAttemptWins(t *testing.T) {
	f := newReportFixture(t, nil)
	f.addStudent(t, "A123", "Asha", "1")

	f.addResult(t, "A123", "Asha", "1", "Practical No: 1", "2 / 20")
	f.addResult(t, "A123", "Asha", "1", "Practical No: 1", "18 / 20")

	report, err := f.service.Performance(context.Background(), "", "")
	require.NoError(t, err)

	require.Len(t, report.Students, 1)
	require.Equal(t, 18, report.Students[0].PracticalScores["Practical No: 1"])
	require.Len(t, report.Submissions["Practical No: 1"], 1)
}

func TestPerformanceGridIgnoresUncataloguedPracticals(t *testing.T) {
	f := newReportFixture(t, nil)
	f.addStudent(t, "A123", "Asha", "1")

	f.addResult(t, "A123", "Asha", "1", "Practical No: 1", "5 / 20")
	f.addResult(t, "A123", "Asha", "1", "Deleted practical", "9 / 20")

	report, err := f.service.Performance(context.Background(), "", "")
	require.NoError(t, err)

	require.Len(t, report.Students, 1)
	require.Equal(t, 1, report.Students[0].ExamsTaken)
}

func TestPerformanceCachedUntilInvalidated(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	f := newReportFixture(t, cache)
	f.addStudent(t, "A123", "Asha", "1")
	f.addStudent(t, "B456", "Ravi", "1")

	f.addResult(t, "A123", "Asha", "1", "Practical No: 1", "5 / 20")

	first, err := f.service.Performance(context.Background(), "", "")
	require.NoError(t, err)
	require.Zero(t, rowFor(t, first, "B456").ExamsTaken)

	// A new submission without invalidation serves the cached grid.
	f.addResult(t, "B456", "Ravi", "1", "Practical No: 1", "20 / 20")

	cached, err := f.service.Performance(context.Background(), "", "")
	require.NoError(t, err)
	require.Zero(t, rowFor(t, cached, "B456").ExamsTaken)

	f.service.Invalidate(context.Background())

	fresh, err := f.service.Performance(context.Background(), "", "")
	require.NoError(t, err)
	require.Equal(t, 1, rowFor(t, fresh, "B456").ExamsTaken)
}

func TestPerformanceSubjectFilter(t *testing.T) {
	f := newReportFixture(t, nil)
	f.addStudent(t, "A123", "Asha", "1")

	f.addResult(t, "A123", "Asha", "1", "Practical No: 1", "5 / 20")

	report, err := f.service.Performance(context.Background(), "", "Networks")
	require.NoError(t, err)

	require.Empty(t, report.Practicals)
	require.Equal(t, "Networks", report.SelectedSubject)

	// The roster row survives, just with no practical columns to score.
	require.Len(t, report.Students, 1)
	require.Zero(t, report.Students[0].ExamsTaken)
}
