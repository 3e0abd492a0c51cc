package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/spf13/afero"
)

// Document is a whole-file JSON document store. Every read loads the full
// document and every write rewrites it; the mutex plus temp-file rename keeps
// the read-modify-write cycle a single guarded operation without introducing
// partial concurrency control the deployment does not need.
type Document[T any] struct {
	fs     afero.Fs
	path   string
	schema *jsonschema.Schema
	empty  func() T
	logger zerolog.Logger

	mu sync.Mutex
}

// NewDocument builds a document store for the file at path. The schema guards
// against structurally corrupt documents; anything missing, unreadable or
// invalid is surfaced as the empty collection, logged, and never fatal.
func NewDocument[T any](fs afero.Fs, path, schemaSource string, empty func() T, logger zerolog.Logger) (*Document[T], error) {
	schema, err := jsonschema.CompileString(filepath.Base(path), schemaSource)
	if err != nil {
		return nil, fmt.Errorf("compile schema for %s: %w", path, err)
	}

	return &Document[T]{
		fs:     fs,
		path:   path,
		schema: schema,
		empty:  empty,
		logger: logger.With().Str("component", "store").Str("document", filepath.Base(path)).Logger(),
	}, nil
}

// Load reads and decodes the full document.
func (d *Document[T]) Load() T {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.load()
}

func (d *Document[T]) load() T {
	raw, err := afero.ReadFile(d.fs, d.path)
	if err != nil {
		if !os.IsNotExist(err) {
			d.logger.Warn().Err(err).Msg("failed to read document")
		}
		return d.empty()
	}

	if len(raw) == 0 {
		return d.empty()
	}

	var generic interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		d.logger.Warn().Err(err).Msg("document is not valid JSON, treating as empty")
		return d.empty()
	}

	if err := d.schema.Validate(generic); err != nil {
		d.logger.Warn().Err(err).Msg("document failed schema validation, treating as empty")
		return d.empty()
	}

	value := d.empty()
	if err := json.Unmarshal(raw, &value); err != nil {
		d.logger.Warn().Err(err).Msg("document does not match expected shape, treating as empty")
		return d.empty()
	}

	return value
}

// Save rewrites the full document atomically (temp file + rename).
func (d *Document[T]) Save(value T) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.save(value)
}

func (d *Document[T]) save(value T) error {
	raw, err := json.MarshalIndent(value, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.path, err)
	}

	if dir := filepath.Dir(d.path); dir != "" {
		if err := d.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", d.path, err)
		}
	}

	tmp := d.path + ".tmp"
	if err := afero.WriteFile(d.fs, tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}

	if err := d.fs.Rename(tmp, d.path); err != nil {
		return fmt.Errorf("replace %s: %w", d.path, err)
	}

	return nil
}

// Update runs a guarded read-modify-write of the full document.
func (d *Document[T]) Update(fn func(T) (T, error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	value, err := fn(d.load())
	if err != nil {
		return err
	}

	return d.save(value)
}
