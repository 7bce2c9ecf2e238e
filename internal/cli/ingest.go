package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harun/agenda/pkg/agenda"
	"github.com/harun/agenda/pkg/ingest"
	"github.com/spf13/cobra"
)

var ingestWatch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest <batch.jsonl>",
	Short: "Merge a scraped session batch into the store",
	Long: `Merge a JSONL batch of sessions into the store. Existing annotations are
kept. Sessions missing from the batch are dropped; annotated ones are
archived and restored if they reappear in a later batch.

With --watch, the batch is merged again every time the file changes.`,
	Args: cobra.ExactArgs(1),
	RunE: withApp(runIngest),
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestWatch, "watch", false, "re-ingest whenever the batch file changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(a *app, cmd *cobra.Command, args []string) error {
	path := args[0]
	reader := ingest.NewReader(a.zlog("ingest"))

	ingestOnce := func() error {
		batch, err := reader.ReadFile(path)
		if err != nil {
			return err
		}
		// An empty batch would drop every stored session.
		if len(batch.Sessions) == 0 {
			return &agenda.ValidationError{
				Field:   "batch",
				Message: fmt.Sprintf("%s contains no sessions, refusing to merge", path),
			}
		}

		result, err := a.store.Merge(batch.Sessions)
		if err != nil {
			return err
		}
		if result.Changed() {
			if err := a.store.Save(); err != nil {
				return err
			}
		}

		renderMerge(a.out, path, len(batch.Sessions), len(batch.Skipped), result)
		return nil
	}

	if err := ingestOnce(); err != nil {
		return err
	}
	if !ingestWatch {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(a.out, "Watching %s for changes (Ctrl+C to stop)\n", path)
	debounce := time.Duration(a.cfg.Ingest.DebounceMS) * time.Millisecond

	return ingest.Watch(ctx, path, debounce, a.zlog("ingest-watcher"), ingestOnce)
}
