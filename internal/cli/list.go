package cli

import (
	"fmt"

	"github.com/harun/agenda/pkg/recommend"
	"github.com/harun/agenda/pkg/store"
	"github.com/spf13/cobra"
)

var (
	listQuery   store.Query
	listDetails bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions",
	Long: `List stored sessions, optionally filtered. --track and --level match
exactly; --speaker and --search are case-insensitive substring matches.`,
	Args: cobra.NoArgs,
	RunE: withApp(runList),
}

var showCmd = &cobra.Command{
	Use:   "show <id-or-prefix>",
	Short: "Show one session in full",
	Args:  cobra.ExactArgs(1),
	RunE:  withApp(runShow),
}

func init() {
	listCmd.Flags().StringVar(&listQuery.Track, "track", "", "only sessions in this track")
	listCmd.Flags().StringVar(&listQuery.Level, "level", "", "only sessions at this level")
	listCmd.Flags().StringVar(&listQuery.Speaker, "speaker", "", "only sessions with a matching speaker")
	listCmd.Flags().StringVar(&listQuery.Search, "search", "", "search titles and descriptions")
	listCmd.Flags().BoolVar(&listDetails, "details", false, "print every field instead of a table")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
}

func runList(a *app, cmd *cobra.Command, args []string) error {
	sessions := a.store.Filter(listQuery)
	if len(sessions) == 0 {
		fmt.Fprintln(a.out, "No sessions match.")
		return nil
	}

	if !listDetails {
		renderSessions(a.out, sessions)
		return nil
	}

	for i, s := range sessions {
		if i > 0 {
			fmt.Fprintln(a.out)
		}
		renderSessionDetail(a.out, s, nil)
	}
	return nil
}

func runShow(a *app, cmd *cobra.Command, args []string) error {
	session, err := a.store.Resolve(args[0])
	if err != nil {
		return err
	}
	// Unrated sessions also show how they would rank
	var rec *recommend.Recommendation
	if !session.Annotation.HasRating() {
		r, err := a.recommender()
		if err != nil {
			return err
		}
		scored := r.Score(session)
		rec = &scored
	}

	renderSessionDetail(a.out, session, rec)
	return nil
}
