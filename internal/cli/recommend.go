package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var recommendLimit int

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Suggest unrated sessions",
	Long: `Rank unrated sessions by the average rating of their track, the tags
they share with highly rated sessions, and any interest you recorded.`,
	Args: cobra.NoArgs,
	RunE: withApp(runRecommend),
}

func init() {
	recommendCmd.Flags().IntVar(&recommendLimit, "limit", -1, "number of suggestions, 0 for all (default from config)")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(a *app, cmd *cobra.Command, args []string) error {
	r, err := a.recommender()
	if err != nil {
		return err
	}

	limit := recommendLimit
	if limit < 0 {
		limit = a.cfg.Recommend.DefaultLimit
	}

	recs := r.Recommend(limit)
	if len(recs) == 0 {
		fmt.Fprintln(a.out, "Nothing to recommend: every stored session is already rated.")
		return nil
	}

	renderRecommendations(a.out, recs)
	return nil
}
