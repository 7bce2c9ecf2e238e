package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags in use with session counts",
	Args:  cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		tags := a.store.TagCounts()
		if len(tags) == 0 {
			fmt.Fprintln(a.out, "No tags yet.")
			return nil
		}
		renderTags(a.out, tags)
		return nil
	}),
}

var tracksCmd = &cobra.Command{
	Use:   "tracks",
	Short: "List tracks with session counts",
	Args:  cobra.NoArgs,
	RunE: withApp(func(a *app, cmd *cobra.Command, args []string) error {
		tracks := a.store.Tracks()
		if len(tracks) == 0 {
			fmt.Fprintln(a.out, "No sessions stored. Run `agenda ingest <batch.jsonl>` first.")
			return nil
		}
		renderTracks(a.out, tracks)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(tagsCmd)
	rootCmd.AddCommand(tracksCmd)
}
