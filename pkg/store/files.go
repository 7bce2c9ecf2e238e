package store

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harun/agenda/pkg/agenda"
)

// writeRecordsAtomic replaces path with the encoded records via a synced
// temp file and rename.
func writeRecordsAtomic(path string, records []agenda.Record) error {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, records); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"
	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}

	return nil
}

// appendNewLines appends the lines not already present in path and returns
// how many it wrote.
func appendNewLines(path string, lines []string) (int, error) {
	existing, err := readLineSet(path)
	if err != nil {
		return 0, err
	}

	fresh := make([]string, 0, len(lines))
	for _, line := range lines {
		if _, ok := existing[line]; ok {
			continue
		}
		fresh = append(fresh, line)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	if err := appendLines(path, fresh); err != nil {
		return 0, err
	}
	return len(fresh), nil
}

// readLineSet returns the lines of path. A missing file is empty.
func readLineSet(path string) (map[string]struct{}, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	lines := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines[scanner.Text()] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return lines, nil
}

// appendLines appends raw lines to path, creating it if needed.
func appendLines(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	for _, line := range lines {
		if _, err := file.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
		}
	}

	return file.Sync()
}

func readRecordFile(path string) ([]Entry, []*agenda.StorageCorruptError, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	return ReadRecords(file, filepath.Base(path))
}
