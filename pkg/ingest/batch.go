// Package ingest reads normalized session batches produced by a scraper and
// watches them for changes. It is the only path by which fresh session
// content reaches the store.
package ingest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/harun/agenda/pkg/agenda"
	"github.com/rs/zerolog"
)

const maxLineSize = 4 * 1024 * 1024

// Skipped describes a batch line that produced no session.
type Skipped struct {
	Line   int
	Reason string
}

// Batch is a decoded ingestion file.
type Batch struct {
	Sessions []agenda.Session
	Skipped  []Skipped
}

// Reader decodes ingestion batches.
type Reader struct {
	logger zerolog.Logger
}

// NewReader creates a batch reader.
func NewReader(logger zerolog.Logger) *Reader {
	return &Reader{
		logger: logger,
	}
}

// ReadFile decodes the batch at path.
func (r *Reader) ReadFile(path string) (*Batch, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open batch: %w", err)
	}
	defer file.Close()

	return r.Read(file, filepath.Base(path))
}

// Read decodes a JSONL batch. Missing IDs are derived from the path or title
// and made unique within the batch; records without a title are skipped.
// Annotation fields are dropped.
func (r *Reader) Read(src io.Reader, name string) (*Batch, error) {
	batch := &Batch{}
	// Explicit IDs are reserved first so a derived ID never takes one.
	used := make(map[string]bool)
	var derive []int
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var record agenda.Record
		if err := json.Unmarshal(line, &record); err != nil {
			batch.skip(r.logger, name, lineNum, fmt.Sprintf("invalid JSON: %v", err))
			continue
		}

		session := record.Session()
		session.Annotation = agenda.Annotation{}
		if session.Title == "" {
			batch.skip(r.logger, name, lineNum, "missing title")
			continue
		}

		if session.ID == "" {
			derive = append(derive, len(batch.Sessions))
		} else {
			used[session.ID] = true
		}

		batch.Sessions = append(batch.Sessions, session)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	for _, i := range derive {
		session := &batch.Sessions[i]
		id, err := agenda.DeriveID(session.Path, session.Title)
		if err != nil {
			return nil, err
		}
		session.ID = uniqueID(id, used)
		used[session.ID] = true

		if session.ID != id {
			r.logger.Debug().
				Str("derived", id).
				Str("id", session.ID).
				Msg("Derived id already used in batch")
		}
	}

	r.logger.Debug().
		Str("file", name).
		Int("sessions", len(batch.Sessions)).
		Int("skipped", len(batch.Skipped)).
		Msg("Batch read")

	return batch, nil
}

func (b *Batch) skip(logger zerolog.Logger, name string, line int, reason string) {
	b.Skipped = append(b.Skipped, Skipped{Line: line, Reason: reason})
	logger.Warn().
		Str("file", name).
		Int("line", line).
		Str("reason", reason).
		Msg("Skipping batch record")
}

// uniqueID returns id, or id with the first free "-N" suffix from 2 up.
func uniqueID(id string, used map[string]bool) string {
	if !used[id] {
		return id
	}
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d", id, n)
		if !used[candidate] {
			return candidate
		}
	}
}
