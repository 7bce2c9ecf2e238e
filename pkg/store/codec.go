package store

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/harun/agenda/pkg/agenda"
	"github.com/xeipuuv/gojsonschema"
)

const maxLineSize = 4 * 1024 * 1024

var recordSchema *gojsonschema.Schema

func init() {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(RecordSchema))
	if err != nil {
		panic(fmt.Sprintf("invalid record schema: %v", err))
	}
	recordSchema = schema
}

// Entry is a decoded record and the 1-based line it was read from.
type Entry struct {
	Line   int
	Record agenda.Record
}

// ReadRecords decodes a JSONL stream. Lines that fail to decode or validate
// are returned as corrupt entries; only read errors abort.
func ReadRecords(r io.Reader, name string) ([]Entry, []*agenda.StorageCorruptError, error) {
	var (
		entries []Entry
		corrupt []*agenda.StorageCorruptError
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		record, err := DecodeRecord(line)
		if err != nil {
			err.File = name
			err.Line = lineNum
			err.Raw = string(line)
			corrupt = append(corrupt, err)
			continue
		}
		entries = append(entries, Entry{Line: lineNum, Record: record})
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return entries, corrupt, nil
}

// DecodeRecord parses and validates one storage line. The returned error has
// no file position; ReadRecords fills it in.
func DecodeRecord(line []byte) (agenda.Record, *agenda.StorageCorruptError) {
	var head struct {
		ID any `json:"id"`
	}
	if err := json.Unmarshal(line, &head); err != nil {
		return agenda.Record{}, &agenda.StorageCorruptError{Reason: fmt.Sprintf("invalid JSON: %v", err)}
	}
	id, _ := head.ID.(string)
	if id == "" {
		return agenda.Record{}, &agenda.StorageCorruptError{Reason: "missing or non-string id"}
	}

	result, err := recordSchema.Validate(gojsonschema.NewBytesLoader(line))
	if err != nil {
		return agenda.Record{}, &agenda.StorageCorruptError{ID: id, Reason: fmt.Sprintf("schema validation error: %v", err)}
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return agenda.Record{}, &agenda.StorageCorruptError{ID: id, Reason: strings.Join(msgs, "; ")}
	}

	var record agenda.Record
	if err := json.Unmarshal(line, &record); err != nil {
		return agenda.Record{}, &agenda.StorageCorruptError{ID: id, Reason: fmt.Sprintf("failed to decode record: %v", err)}
	}
	return record, nil
}

// WriteRecords encodes records one per line.
func WriteRecords(w io.Writer, records []agenda.Record) error {
	bw := bufio.NewWriter(w)
	for _, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal record %s: %w", record.ID, err)
		}
		if _, err := bw.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write record %s: %w", record.ID, err)
		}
	}
	return bw.Flush()
}
