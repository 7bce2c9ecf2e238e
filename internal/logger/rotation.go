package logger

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const rotatedTimeFormat = "20060102-150405"

// RotatingWriter appends to a log file and rolls it over once it passes
// maxSize. Rolled files are named <file>.<timestamp>[.gz].
type RotatingWriter struct {
	mu       sync.Mutex
	filename string
	maxSize  int64 // bytes
	maxAge   int   // days
	compress bool
	now      func() time.Time

	file *os.File
	size int64
}

// NewRotatingWriter opens filename for appending. Rolled files older than
// maxAge days are removed on open and after each rotation.
func NewRotatingWriter(filename string, maxSizeMB int, maxAge int, compress bool) (*RotatingWriter, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	w := &RotatingWriter{
		filename: filename,
		maxSize:  int64(maxSizeMB) * 1024 * 1024,
		maxAge:   maxAge,
		compress: compress,
		now:      time.Now,
	}
	if err := w.open(); err != nil {
		return nil, err
	}

	w.cleanup()

	return w, nil
}

// Write writes p to the current file, rotating first if p would exceed the size cap.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, os.ErrClosed
	}

	// Check if rotation is needed
	if w.maxSize > 0 && w.size > 0 && w.size+int64(len(p)) > w.maxSize {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// Close closes the current log file
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *RotatingWriter) open() error {
	// Open file
	file, err := os.OpenFile(w.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	// Get current size
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	w.file = file
	w.size = info.Size()
	return nil
}

func (w *RotatingWriter) rotate() error {
	// Close current file
	if err := w.file.Close(); err != nil {
		return err
	}
	w.file = nil

	// Rename current file
	rotated := fmt.Sprintf("%s.%s", w.filename, w.now().Format(rotatedTimeFormat))
	if err := os.Rename(w.filename, rotated); err != nil {
		return err
	}

	if w.compress {
		// A failed compression leaves the plain rolled file in place.
		_ = compressFile(rotated)
	}

	// Open new file
	if err := w.open(); err != nil {
		return err
	}

	w.cleanup()
	return nil
}

func compressFile(filename string) error {
	src, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filename + ".gz")
	if err != nil {
		return err
	}

	gzw := gzip.NewWriter(dst)
	if _, err := io.Copy(gzw, src); err != nil {
		gzw.Close()
		dst.Close()
		return err
	}
	if err := gzw.Close(); err != nil {
		dst.Close()
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}

	return os.Remove(filename)
}

// cleanup removes rolled files older than maxAge days.
func (w *RotatingWriter) cleanup() {
	if w.maxAge <= 0 {
		return
	}

	matches, err := filepath.Glob(w.filename + ".*")
	if err != nil {
		return
	}

	// Remove old files
	cutoff := w.now().AddDate(0, 0, -w.maxAge)
	for _, path := range matches {
		suffix := strings.TrimSuffix(strings.TrimPrefix(path, w.filename+"."), ".gz")
		if _, err := time.Parse(rotatedTimeFormat, suffix); err != nil {
			continue
		}

		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(path)
		}
	}
}
