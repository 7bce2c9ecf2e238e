package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRotatingWriter(t *testing.T) {
	t.Run("creates file and directory", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "subdir", "agenda.log")

		rw, err := NewRotatingWriter(logFile, 10, 7, false)
		require.NoError(t, err)
		defer rw.Close()

		_, err = os.Stat(logFile)
		assert.NoError(t, err)
	})

	t.Run("removes expired rolled files on open", func(t *testing.T) {
		tmpDir := t.TempDir()
		logFile := filepath.Join(tmpDir, "agenda.log")

		oldFile := logFile + ".20200101-120000.gz"
		require.NoError(t, os.WriteFile(oldFile, []byte("old log"), 0644))
		oldTime := time.Now().AddDate(0, 0, -10)
		require.NoError(t, os.Chtimes(oldFile, oldTime, oldTime))

		unrelated := logFile + ".bak"
		require.NoError(t, os.WriteFile(unrelated, []byte("keep"), 0644))
		require.NoError(t, os.Chtimes(unrelated, oldTime, oldTime))

		rw, err := NewRotatingWriter(logFile, 10, 7, false)
		require.NoError(t, err)
		defer rw.Close()

		_, err = os.Stat(oldFile)
		assert.True(t, os.IsNotExist(err))
		_, err = os.Stat(unrelated)
		assert.NoError(t, err)
	})
}

func TestRotatingWriterWrite(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "agenda.log")

	rw, err := NewRotatingWriter(logFile, 1, 7, false)
	require.NoError(t, err)
	defer rw.Close()

	data := []byte("test log message\n")
	n, err := rw.Write(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Equal(t, "test log message\n", string(content))
}

func TestRotatingWriterRotation(t *testing.T) {
	for _, compress := range []bool{false, true} {
		name := "plain"
		if compress {
			name = "compressed"
		}
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			logFile := filepath.Join(tmpDir, "agenda.log")

			rw, err := NewRotatingWriter(logFile, 1, 7, compress)
			require.NoError(t, err)
			defer rw.Close()
			fixed := time.Now()
			rw.now = func() time.Time { return fixed }

			chunk := []byte(strings.Repeat("a", 700*1024))
			_, err = rw.Write(chunk)
			require.NoError(t, err)
			_, err = rw.Write(chunk)
			require.NoError(t, err)

			rolled := logFile + "." + fixed.Format(rotatedTimeFormat)
			if compress {
				rolled += ".gz"
			}
			_, err = os.Stat(rolled)
			assert.NoError(t, err)

			info, err := os.Stat(logFile)
			require.NoError(t, err)
			assert.Equal(t, int64(len(chunk)), info.Size())
		})
	}
}

func TestRotatingWriterClose(t *testing.T) {
	rw, err := NewRotatingWriter(filepath.Join(t.TempDir(), "agenda.log"), 10, 7, false)
	require.NoError(t, err)

	assert.NoError(t, rw.Close())
	assert.NoError(t, rw.Close())

	_, err = rw.Write([]byte("late"))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestCompressFile(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "agenda.log.20260101-000000")
	require.NoError(t, os.WriteFile(testFile, []byte("test content"), 0644))

	require.NoError(t, compressFile(testFile))

	_, err := os.Stat(testFile + ".gz")
	assert.NoError(t, err)
	_, err = os.Stat(testFile)
	assert.True(t, os.IsNotExist(err))
}
