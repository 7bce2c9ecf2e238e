package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag to its default; the command tree is shared
// between test runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

type testEnv struct {
	t          *testing.T
	home       string
	dataDir    string
	configPath string
	stdin      string
}

func newTestEnv(t *testing.T) *testEnv {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	return &testEnv{
		t:          t,
		home:       tmpDir,
		dataDir:    filepath.Join(tmpDir, "data"),
		configPath: filepath.Join(tmpDir, "agenda.json"),
	}
}

func execute(stdin string, args ...string) (string, string, error) {
	root := GetRootCmd()
	resetFlags(root)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), errOut.String(), err
}

func (e *testEnv) run(args ...string) (string, string, error) {
	full := append([]string{"--config", e.configPath, "--data-dir", e.dataDir}, args...)
	return execute(e.stdin, full...)
}

func (e *testEnv) mustRun(args ...string) string {
	out, errOut, err := e.run(args...)
	require.NoError(e.t, err, "stderr: %s", errOut)
	return out
}

func (e *testEnv) writeBatch(lines ...string) string {
	path := filepath.Join(e.t.TempDir(), "batch.jsonl")
	require.NoError(e.t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

var sampleBatch = []string{
	`{"id":"delta-lake-101","title":"Delta Lake 101","description":"Intro to Delta tables","track":"Data Engineering","level":"Beginner","speakers":["Ada Lovelace"],"day":"Tuesday","start_time_local":"10:30 AM","end_time_local":"11:10 AM"}`,
	`{"id":"delta-lake-102","title":"Delta Lake Internals","description":"Transaction log deep dive","track":"Data Engineering","level":"Advanced","speakers":["Grace Hopper"]}`,
	`{"title":"Spark Intro","path":"/session/spark-intro","track":"Spark","level":"Beginner","speakers":["Linus Torvalds"]}`,
}

func (e *testEnv) seed() {
	e.mustRun("ingest", e.writeBatch(sampleBatch...))
}
