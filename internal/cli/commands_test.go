package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harun/agenda/pkg/agenda"
	"github.com/harun/agenda/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIngestCommand(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("ingest", env.writeBatch(sampleBatch...))
	assert.Contains(t, out, "Ingested 3 session(s)")
	assert.Contains(t, out, "3 added")

	_, err := os.Stat(filepath.Join(env.dataDir, store.SessionsFile))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(env.dataDir, store.TracksDir, "data-engineering.jsonl"))
	require.NoError(t, err)

	t.Run("re-ingesting is a no-op", func(t *testing.T) {
		out := env.mustRun("ingest", env.writeBatch(sampleBatch...))
		assert.Contains(t, out, "0 added, 0 updated, 3 unchanged")
	})

	t.Run("skipped records are reported", func(t *testing.T) {
		out := env.mustRun("ingest", env.writeBatch(append(sampleBatch, `{"id":"untitled"}`)...))
		assert.Contains(t, out, "Skipped 1 record(s)")
	})

	t.Run("empty batch is refused", func(t *testing.T) {
		_, _, err := env.run("ingest", env.writeBatch(`{"id":"untitled"}`))
		var vErr *agenda.ValidationError
		require.True(t, errors.As(err, &vErr))

		out := env.mustRun("list")
		assert.Contains(t, out, "delta-lake-101")
	})

	t.Run("missing batch file", func(t *testing.T) {
		_, _, err := env.run("ingest", filepath.Join(t.TempDir(), "missing.jsonl"))
		assert.Error(t, err)
	})
}

func TestListAndShowCommands(t *testing.T) {
	env := newTestEnv(t)

	t.Run("empty store", func(t *testing.T) {
		out := env.mustRun("list")
		assert.Contains(t, out, "No sessions match.")
	})

	env.seed()

	t.Run("all sessions", func(t *testing.T) {
		out := env.mustRun("list")
		assert.Contains(t, out, "delta-lake-101")
		assert.Contains(t, out, "delta-lake-102")
		assert.Contains(t, out, "spark-intro")
		assert.Contains(t, out, "3 session(s)")
	})

	t.Run("filters", func(t *testing.T) {
		out := env.mustRun("list", "--track", "Spark")
		assert.Contains(t, out, "spark-intro")
		assert.NotContains(t, out, "delta-lake-101")

		out = env.mustRun("list", "--level", "Advanced")
		assert.Contains(t, out, "delta-lake-102")
		assert.NotContains(t, out, "spark-intro")

		out = env.mustRun("list", "--speaker", "hopper")
		assert.Contains(t, out, "delta-lake-102")
		assert.NotContains(t, out, "delta-lake-101")

		out = env.mustRun("list", "--search", "transaction")
		assert.Contains(t, out, "delta-lake-102")
		assert.Contains(t, out, "1 session(s)")
	})

	t.Run("details", func(t *testing.T) {
		out := env.mustRun("list", "--track", "Spark", "--details")
		assert.Contains(t, out, "Spark Intro")
		assert.Contains(t, out, "Linus Torvalds")
	})

	t.Run("show by prefix", func(t *testing.T) {
		out := env.mustRun("show", "spark")
		assert.Contains(t, out, "Spark Intro")
		assert.Contains(t, out, "/session/spark-intro")
	})

	t.Run("show ambiguous prefix", func(t *testing.T) {
		_, _, err := env.run("show", "delta-lake-1")
		var ambiguous *agenda.AmbiguousIDError
		require.True(t, errors.As(err, &ambiguous))
		assert.Contains(t, err.Error(), "delta-lake-101, delta-lake-102")
	})

	t.Run("show unknown", func(t *testing.T) {
		_, _, err := env.run("show", "kafka")
		var notFound *agenda.NotFoundError
		assert.True(t, errors.As(err, &notFound))
	})
}

func TestAnnotationCommands(t *testing.T) {
	env := newTestEnv(t)
	env.seed()

	t.Run("rate", func(t *testing.T) {
		out := env.mustRun("rate", "delta-lake-101", "5", "--notes", "great intro")
		assert.Equal(t, "Rated delta-lake-101 5/5\n", out)

		out = env.mustRun("show", "delta-lake-101")
		assert.Contains(t, out, "5/5 (great intro)")
	})

	t.Run("rate keeps notes when not given", func(t *testing.T) {
		env.mustRun("rate", "delta-lake-101", "4")
		out := env.mustRun("show", "delta-lake-101")
		assert.Contains(t, out, "4/5 (great intro)")
	})

	t.Run("rate out of range", func(t *testing.T) {
		_, _, err := env.run("rate", "delta-lake-101", "6")
		var vErr *agenda.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "rating", vErr.Field)
	})

	t.Run("rate not a number", func(t *testing.T) {
		_, _, err := env.run("rate", "delta-lake-101", "five")
		var vErr *agenda.ValidationError
		assert.True(t, errors.As(err, &vErr))
	})

	t.Run("rate zero clears", func(t *testing.T) {
		env.mustRun("rate", "spark", "3")
		out := env.mustRun("rate", "spark", "0")
		assert.Equal(t, "Cleared rating for spark-intro\n", out)

		out = env.mustRun("show", "spark")
		assert.NotContains(t, out, "Rating:")
	})

	t.Run("interest", func(t *testing.T) {
		out := env.mustRun("interest", "delta-lake-102", "4", "--notes", "bring laptop")
		assert.Equal(t, "Interest in delta-lake-102 set to 4/5\n", out)
	})

	t.Run("tag", func(t *testing.T) {
		out := env.mustRun("tag", "delta-lake-101", "etl", "Delta", "spark")
		assert.Equal(t, "Tags for delta-lake-101: delta, etl, spark\n", out)

		out = env.mustRun("tag", "delta-lake-101", "^spark", "etl")
		assert.Equal(t, "Tags for delta-lake-101: delta, etl\n", out)
	})

	t.Run("invalid tag token changes nothing", func(t *testing.T) {
		_, _, err := env.run("tag", "delta-lake-101", "new", "^")
		var vErr *agenda.ValidationError
		require.True(t, errors.As(err, &vErr))

		out := env.mustRun("show", "delta-lake-101")
		assert.NotContains(t, out, "new")
	})

	t.Run("tags", func(t *testing.T) {
		out := env.mustRun("tags")
		assert.Contains(t, out, "delta")
		assert.Contains(t, out, "etl")
	})

	t.Run("tracks", func(t *testing.T) {
		out := env.mustRun("tracks")
		assert.Contains(t, out, "Data Engineering")
		assert.Contains(t, out, "Spark")
	})

	t.Run("annotations survive re-ingest", func(t *testing.T) {
		env.mustRun("ingest", env.writeBatch(sampleBatch...))
		out := env.mustRun("show", "delta-lake-101")
		assert.Contains(t, out, "4/5 (great intro)")
		assert.Contains(t, out, "delta, etl")
	})
}

func TestRecommendCommand(t *testing.T) {
	env := newTestEnv(t)
	env.seed()

	env.mustRun("rate", "delta-lake-101", "5")

	out := env.mustRun("recommend")
	assert.NotContains(t, out, "delta-lake-101")
	require.Contains(t, out, "delta-lake-102")
	require.Contains(t, out, "spark-intro")
	assert.Less(t, strings.Index(out, "delta-lake-102"), strings.Index(out, "spark-intro"))
	assert.Contains(t, out, "track avg 5.0")

	t.Run("show scores unrated sessions", func(t *testing.T) {
		out := env.mustRun("show", "delta-lake-102")
		assert.Contains(t, out, "Score:")
		assert.Contains(t, out, "5.00 (track avg 5.0)")

		out = env.mustRun("show", "delta-lake-101")
		assert.NotContains(t, out, "Score:")
	})

	t.Run("limit", func(t *testing.T) {
		out := env.mustRun("recommend", "--limit", "1")
		assert.Contains(t, out, "delta-lake-102")
		assert.NotContains(t, out, "spark-intro")
	})

	t.Run("everything rated", func(t *testing.T) {
		env.mustRun("rate", "delta-lake-102", "2")
		env.mustRun("rate", "spark", "1")
		out := env.mustRun("recommend")
		assert.Contains(t, out, "Nothing to recommend")
	})
}

func TestCorruptStoreIsReported(t *testing.T) {
	env := newTestEnv(t)
	env.seed()

	path := filepath.Join(env.dataDir, store.SessionsFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0600)
	require.NoError(t, err)
	_, err = f.WriteString("{broken\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	out, errOut, err := env.run("list")
	require.NoError(t, err)
	assert.Contains(t, out, "delta-lake-101")
	assert.Contains(t, errOut, "corrupt")

	env.mustRun("rate", "delta-lake-101", "3")
	_, err = os.Stat(filepath.Join(env.dataDir, store.QuarantineFile))
	assert.NoError(t, err)

	_, errOut, err = env.run("list")
	require.NoError(t, err)
	assert.NotContains(t, errOut, "corrupt")
}

func TestStatusCommand(t *testing.T) {
	env := newTestEnv(t)
	env.seed()
	env.mustRun("rate", "delta-lake-101", "5")
	env.mustRun("tag", "spark", "beginner")

	out := env.mustRun("status")
	assert.Contains(t, out, env.dataDir)
	assert.Contains(t, out, "3 sessions in 2 tracks")
	assert.Contains(t, out, "Rated:     1")
	assert.Contains(t, out, "Tagged:    1")
}

func TestConfigureCommand(t *testing.T) {
	env := newTestEnv(t)
	env.stdin = "\n3\ninfo\n"

	out := env.mustRun("configure")
	assert.Contains(t, out, "Configuration saved to: "+env.configPath)

	data, err := os.ReadFile(env.configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"min_rating": 3`)
	assert.Contains(t, string(data), `"level": "info"`)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"42s", "42s"},
		{"3m5s", "3m5s"},
		{"2h0m1s", "2h0m1s"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := time.ParseDuration(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, formatDuration(d))
		})
	}
}
