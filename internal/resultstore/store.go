package resultstore

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/charmap"

	"github.com/vishalmisal215/SPAS/internal/models"
)

// Store is the append-only, file-per-attempt result record store. Every
// attempt becomes a new file named Result_RollNo_<roll>_<unixSeconds>.txt, so
// concurrent submissions never collide on a single file. The text body is the
// only persisted representation; Parse is load-bearing for every downstream
// consumer.
type Store struct {
	fs     afero.Fs
	dir    string
	logger zerolog.Logger
	now    func() time.Time
}

// NewStore opens the result directory.
func NewStore(fs afero.Fs, dir string, logger zerolog.Logger) *Store {
	return &Store{
		fs:     fs,
		dir:    dir,
		logger: logger.With().Str("component", "resultstore").Logger(),
		now:    time.Now,
	}
}

// Write persists one graded attempt and returns the generated filename.
func (s *Store) Write(record models.ResultRecord) (string, error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create results directory: %w", err)
	}

	filename := fmt.Sprintf("Result_RollNo_%s_%d.txt", record.RollNo, s.now().Unix())
	body := Render(record)
	if err := afero.WriteFile(s.fs, filepath.Join(s.dir, filename), []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write result file: %w", err)
	}

	return filename, nil
}

// Get reads and parses one record by filename.
func (s *Store) Get(filename string) (models.ResultRecord, error) {
	content, err := s.readFile(filename)
	if err != nil {
		return models.ResultRecord{}, err
	}
	return Parse(content), nil
}

// FindLatest returns the newest record for a roll number and practical name,
// judged by the timestamp embedded in the filename. Malformed timestamps sort
// as zero so they lose to any well-formed re-attempt without crashing a scan.
func (s *Store) FindLatest(rollNo, practicalName string) (models.ResultRecord, string, error) {
	filename, content, err := s.findLatestRaw(rollNo, practicalName)
	if err != nil {
		return models.ResultRecord{}, "", err
	}
	return Parse(content), filename, nil
}

// Raw returns the verbatim file text and filename of the newest record for a
// roll number and practical name.
func (s *Store) Raw(rollNo, practicalName string) (string, string, error) {
	filename, content, err := s.findLatestRaw(rollNo, practicalName)
	if err != nil {
		return "", "", err
	}
	return content, filename, nil
}

func (s *Store) findLatestRaw(rollNo, practicalName string) (string, string, error) {
	var (
		bestName    string
		bestContent string
		bestTS      int64 = -1
	)

	for _, filename := range s.listFiles(resultPrefix(rollNo)) {
		content, err := s.readFile(filename)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", filename).Msg("skipping unreadable result file")
			continue
		}
		// Exact header match, not a substring scan: "Practical No: 1" is a
		// prefix of "Practical No: 10".
		if parseHeader(content).Practical != practicalName {
			continue
		}
		if ts := timestampFromName(filename); ts > bestTS {
			bestTS = ts
			bestName = filename
			bestContent = content
		}
	}

	if bestName == "" {
		return "", "", ErrNotFound
	}
	return bestName, bestContent, nil
}

// ListForStudent returns the header fields of every record belonging to one
// roll number, without deduplication. Used for the submitted-practicals set.
func (s *Store) ListForStudent(rollNo string) []models.ResultRecord {
	records := []models.ResultRecord{}
	for _, filename := range s.listFiles(resultPrefix(rollNo)) {
		content, err := s.readFile(filename)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", filename).Msg("skipping unreadable result file")
			continue
		}
		records = append(records, parseHeader(content))
	}
	return records
}

// ListAll returns every record in the store deduplicated to the latest
// attempt per (roll number, practical name) pair. Malformed or undecodable
// files are skipped, never fatal to the scan.
func (s *Store) ListAll() []models.ResultRecord {
	type entry struct {
		ts     int64
		record models.ResultRecord
	}

	latest := map[[2]string]entry{}
	order := [][2]string{}

	for _, filename := range s.listFiles("") {
		content, err := s.readFile(filename)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", filename).Msg("skipping unreadable result file")
			continue
		}

		record := parseHeader(content)
		if record.RollNo == "" || record.Practical == "" {
			continue
		}

		key := [2]string{record.RollNo, record.Practical}
		ts := timestampFromName(filename)
		existing, seen := latest[key]
		if !seen {
			order = append(order, key)
		}
		if !seen || ts > existing.ts {
			latest[key] = entry{ts: ts, record: record}
		}
	}

	records := make([]models.ResultRecord, 0, len(order))
	for _, key := range order {
		records = append(records, latest[key].record)
	}
	return records
}

// DeleteAllFor removes every result file belonging to a roll number. Deletion
// is best effort: one undeletable file does not stop the rest.
func (s *Store) DeleteAllFor(rollNo string) {
	for _, filename := range s.listFiles(resultPrefix(rollNo)) {
		if err := s.fs.Remove(filepath.Join(s.dir, filename)); err != nil {
			s.logger.Warn().Err(err).Str("file", filename).Msg("failed to delete result file")
		}
	}
}

func (s *Store) listFiles(prefix string) []string {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil
	}

	names := []string{}
	for _, info := range infos {
		if info.IsDir() {
			continue
		}
		name := info.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		if prefix != "" && !strings.HasPrefix(name, prefix) {
			continue
		}
		names = append(names, name)
	}
	return names
}

func (s *Store) readFile(filename string) (string, error) {
	raw, err := afero.ReadFile(s.fs, filepath.Join(s.dir, filename))
	if err != nil {
		return "", err
	}
	return decodeText(raw)
}

// decodeText tries UTF-8 first and falls back to Latin-1, matching the
// encodings the historical file corpus was written with.
func decodeText(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("undecodable result file: %w", err)
	}
	return string(decoded), nil
}

func resultPrefix(rollNo string) string {
	return fmt.Sprintf("Result_RollNo_%s_", rollNo)
}

// timestampFromName extracts the unix timestamp embedded in a result
// filename. Unparseable names yield zero so they sort last instead of
// crashing.
func timestampFromName(filename string) int64 {
	trimmed := strings.TrimSuffix(filename, ".txt")
	idx := strings.LastIndex(trimmed, "_")
	if idx < 0 {
		return 0
	}
	ts, err := strconv.ParseInt(trimmed[idx+1:], 10, 64)
	if err != nil {
		return 0
	}
	return ts
}
