package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harun/agenda/pkg/store"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show store status",
	Long:  `Show where sessions are stored and how many of them are annotated.`,
	Args:  cobra.NoArgs,
	RunE:  withApp(runStatus),
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(a *app, cmd *cobra.Command, args []string) error {
	var rated, interested, tagged int
	for _, s := range a.store.All() {
		if s.Annotation.HasRating() {
			rated++
		}
		if s.Annotation.HasInterest() {
			interested++
		}
		if len(s.Annotation.Tags) > 0 {
			tagged++
		}
	}

	fmt.Fprintf(a.out, "Data dir:  %s\n", a.store.DataDir())
	fmt.Fprintf(a.out, "Sessions:  %s in %s\n", plural(a.store.Len(), "session"), plural(len(a.store.Tracks()), "track"))
	fmt.Fprintf(a.out, "Rated:     %d\n", rated)
	fmt.Fprintf(a.out, "Interest:  %d\n", interested)
	fmt.Fprintf(a.out, "Tagged:    %d\n", tagged)
	fmt.Fprintf(a.out, "Archived:  %d\n", len(a.store.Archived()))

	if info, err := os.Stat(a.store.SessionsPath()); err == nil {
		fmt.Fprintf(a.out, "Updated:   %s ago\n", formatDuration(time.Since(info.ModTime())))
	}
	if _, err := os.Stat(filepath.Join(a.store.DataDir(), store.QuarantineFile)); err == nil {
		fmt.Fprintf(a.out, "Quarantine: %s\n", filepath.Join(a.store.DataDir(), store.QuarantineFile))
	}

	return nil
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
