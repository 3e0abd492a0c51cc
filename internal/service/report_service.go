package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/vishalmisal215/SPAS/internal/dto"
	"github.com/vishalmisal215/SPAS/internal/models"
	"github.com/vishalmisal215/SPAS/internal/resultstore"
	"github.com/vishalmisal215/SPAS/internal/store"
)

const (
	reportVersionKey = "report:version"
	reportKeyPrefix  = "report:grid"
)

// ReportService builds the faculty performance grid. Grids are cached in
// redis under a version-counter key; every submission or account deletion
// bumps the counter, which orphans all cached variants at once.
type ReportService interface {
	Performance(ctx context.Context, batch, subjectName string) (dto.ReportResponse, error)
	Invalidate(ctx context.Context)
}

type reportService struct {
	users      *store.UserStore
	results    *resultstore.Store
	practicals *store.PracticalStore
	catalog    CatalogService
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     zerolog.Logger
}

// NewReportService constructs a ReportService instance. A nil cache client
// disables caching and every call aggregates from the result files directly.
func NewReportService(users *store.UserStore, results *resultstore.Store, practicals *store.PracticalStore, catalogSvc CatalogService, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) ReportService {
	return &reportService{
		users:      users,
		results:    results,
		practicals: practicals,
		catalog:    catalogSvc,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger.With().Str("component", "report_service").Logger(),
	}
}

func (s *reportService) Performance(ctx context.Context, batch, subjectName string) (dto.ReportResponse, error) {
	if batch == "" {
		batch = "all"
	}
	if subjectName == "" {
		subjectName = "all"
	}

	key := s.cacheKey(ctx, batch, subjectName)
	if key != "" {
		if cached, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var response dto.ReportResponse
			if err := json.Unmarshal(cached, &response); err == nil {
				return response, nil
			}
		}
	}

	response := s.build(batch, subjectName)

	if key != "" {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache report grid")
			}
		}
	}

	return response, nil
}

// Invalidate bumps the report version counter so previously cached grids
// stop being addressable. The stale entries age out via their TTL.
func (s *reportService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Incr(ctx, reportVersionKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to bump report version")
	}
}

func (s *reportService) cacheKey(ctx context.Context, batch, subjectName string) string {
	if s.cache == nil {
		return ""
	}
	version, err := s.cache.Get(ctx, reportVersionKey).Result()
	if err != nil {
		version = "0"
	}
	return reportKeyPrefix + ":" + version + ":" + batch + ":" + subjectName
}

// build aggregates the latest attempt per (student, practical) into the
// grid. Rows come from the user roster, so zero-submission students still get
// a row and profile columns read the current user record rather than the
// headers frozen into old result files. Practical names read from result
// files are normalized against the current catalog so renamed practicals
// still land in the right column.
func (s *reportService) build(batch, subjectName string) dto.ReportResponse {
	var scoped []models.Practical
	if subjectName == "all" {
		scoped = s.practicals.All()
	} else {
		scoped = s.catalog.PracticalsForSubjectName(subjectName)
	}

	practicalNames := make([]string, 0, len(scoped))
	canonical := map[string]string{}
	for _, practical := range scoped {
		practicalNames = append(practicalNames, practical.Name)
		canonical[strings.TrimSpace(practical.Name)] = practical.Name
	}

	batchSet := map[string]struct{}{}
	rowByRoll := map[string]*dto.PerformanceRow{}
	rollOrder := []string{}

	for rollNo, student := range s.users.All() {
		studentBatch := student.Batch
		if studentBatch == "" {
			studentBatch = "1"
		}
		batchSet[studentBatch] = struct{}{}

		if batch != "all" && studentBatch != batch {
			continue
		}

		rowByRoll[rollNo] = &dto.PerformanceRow{
			RollNo:          rollNo,
			Name:            student.FullName,
			Branch:          student.Branch,
			Year:            student.Year,
			Batch:           studentBatch,
			Email:           student.Email,
			PracticalScores: map[string]int{},
		}
		rollOrder = append(rollOrder, rollNo)
	}

	submissions := map[string][]dto.SubmissionEntry{}
	for _, record := range s.results.ListAll() {
		// Records without a live account (deleted students) or outside the
		// selected batch stay out of the grid.
		row, ok := rowByRoll[record.RollNo]
		if !ok {
			continue
		}

		name, ok := canonical[strings.TrimSpace(record.Practical)]
		if !ok {
			continue
		}

		row.PracticalScores[name] = record.ScoreValue()
		submissions[name] = append(submissions[name], dto.SubmissionEntry{
			RollNo: record.RollNo,
			Name:   row.Name,
			Batch:  row.Batch,
		})
	}

	sort.Strings(rollOrder)
	rows := make([]dto.PerformanceRow, 0, len(rollOrder))
	for _, rollNo := range rollOrder {
		row := rowByRoll[rollNo]
		for _, score := range row.PracticalScores {
			row.Total += score
			row.ExamsTaken++
		}
		if row.ExamsTaken > 0 {
			row.Average = math.Round(float64(row.Total)/float64(row.ExamsTaken)*100) / 100
		}
		rows = append(rows, *row)
	}

	batches := make([]string, 0, len(batchSet))
	for b := range batchSet {
		batches = append(batches, b)
	}
	sort.Strings(batches)

	for name := range submissions {
		entries := submissions[name]
		sort.Slice(entries, func(i, j int) bool { return entries[i].RollNo < entries[j].RollNo })
		submissions[name] = entries
	}

	return dto.ReportResponse{
		Practicals:      practicalNames,
		Students:        rows,
		Submissions:     submissions,
		Batches:         batches,
		SelectedBatch:   batch,
		SelectedSubject: subjectName,
	}
}
