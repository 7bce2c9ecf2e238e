package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/harun/agenda/pkg/agenda"
	"github.com/harun/agenda/pkg/annotate"
	"github.com/spf13/cobra"
)

var (
	rateNotes     string
	interestNotes string
)

var rateCmd = &cobra.Command{
	Use:   "rate <id-or-prefix> <0-5>",
	Short: "Rate a session (0 clears the rating)",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runRate),
}

var interestCmd = &cobra.Command{
	Use:   "interest <id-or-prefix> <0-5>",
	Short: "Record interest in a session (0 clears it)",
	Args:  cobra.ExactArgs(2),
	RunE:  withApp(runInterest),
}

var tagCmd = &cobra.Command{
	Use:   "tag <id-or-prefix> <tag|^tag>...",
	Short: "Add or remove tags",
	Long: `Add or remove tags on a session. A token prefixed with ^ removes that
tag; any other token adds it. Tokens apply in order, and nothing is
changed if any token is invalid.

  agenda tag delta etl streaming ^beginner`,
	Args: cobra.MinimumNArgs(2),
	RunE: withApp(runTag),
}

func init() {
	rateCmd.Flags().StringVar(&rateNotes, "notes", "", "notes to store with the rating")
	interestCmd.Flags().StringVar(&interestNotes, "notes", "", "notes to store with the interest")

	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(interestCmd)
	rootCmd.AddCommand(tagCmd)
}

func parseScore(field, raw string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &agenda.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("%q is not a whole number between %d and %d", raw, agenda.MinScore, agenda.MaxScore),
		}
	}
	return value, nil
}

func notesOption(cmd *cobra.Command, notes string) []annotate.ChangeOption {
	if !cmd.Flags().Changed("notes") {
		return nil
	}
	return []annotate.ChangeOption{annotate.WithNotes(notes)}
}

func runRate(a *app, cmd *cobra.Command, args []string) error {
	value, err := parseScore("rating", args[1])
	if err != nil {
		return err
	}

	session, err := a.annotator().Rate(args[0], value, notesOption(cmd, rateNotes)...)
	if session.ID == "" {
		return err
	}

	if value == 0 {
		fmt.Fprintf(a.out, "Cleared rating for %s\n", session.ID)
	} else {
		fmt.Fprintf(a.out, "Rated %s %d/5\n", session.ID, value)
	}
	return err
}

func runInterest(a *app, cmd *cobra.Command, args []string) error {
	value, err := parseScore("interest", args[1])
	if err != nil {
		return err
	}

	session, err := a.annotator().SetInterest(args[0], value, notesOption(cmd, interestNotes)...)
	if session.ID == "" {
		return err
	}

	if value == 0 {
		fmt.Fprintf(a.out, "Cleared interest for %s\n", session.ID)
	} else {
		fmt.Fprintf(a.out, "Interest in %s set to %d/5\n", session.ID, value)
	}
	return err
}

func runTag(a *app, cmd *cobra.Command, args []string) error {
	session, err := a.annotator().Tag(args[0], strings.Join(args[1:], " "))
	if session.ID == "" {
		return err
	}

	tags := "(none)"
	if len(session.Annotation.Tags) > 0 {
		tags = strings.Join(session.Annotation.Tags, ", ")
	}
	fmt.Fprintf(a.out, "Tags for %s: %s\n", session.ID, tags)
	return err
}
