package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/harun/agenda/pkg/agenda"
	"github.com/harun/agenda/pkg/recommend"
	"github.com/harun/agenda/pkg/store"
)

var (
	colorCyan   = lipgloss.Color("#00FFFF")
	colorYellow = lipgloss.Color("#FFFF00")
	colorGray   = lipgloss.Color("#666666")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	scoreStyle = lipgloss.NewStyle().
			Foreground(colorYellow).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorGray)
)

const maxTitleWidth = 48

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func renderSessions(w io.Writer, sessions []agenda.Session) {
	t := newTable("ID", "Title", "Track", "Day", "Time", "Rating", "Interest", "Tags")
	for _, s := range sessions {
		t.Row(
			s.ID,
			truncate(s.Title, maxTitleWidth),
			s.Track,
			s.Day,
			timeRange(s),
			score(s.Annotation.Rating),
			score(s.Annotation.Interest),
			strings.Join(s.Annotation.Tags, " "),
		)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("%d session(s)", len(sessions))))
}

// renderSessionDetail prints every field of s. rec, when set, adds the
// session's current recommendation score.
func renderSessionDetail(w io.Writer, s agenda.Session, rec *recommend.Recommendation) {
	fmt.Fprintln(w, titleStyle.Render(s.Title))
	fmt.Fprintln(w, dimStyle.Render(s.ID))

	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", label+":")), value)
	}

	field("Track", s.Track)
	field("Level", s.Level)
	field("Type", s.Type)
	field("Industry", s.Industry)
	field("Category", s.Category)
	field("Areas", strings.Join(s.AreasOfInterest, ", "))
	field("Speakers", strings.Join(s.Speakers, ", "))
	field("When", strings.TrimSpace(s.Day+" "+timeRange(s)))
	if s.StartTimeRefTZ != "" {
		field("Ref TZ", s.StartTimeRefTZ+" - "+s.EndTimeRefTZ)
	}
	field("Duration", s.Duration)
	field("Room", s.Room)
	field("Path", s.Path)

	a := s.Annotation
	if a.HasRating() {
		field("Rating", withNotes(fmt.Sprintf("%d/5", a.Rating), a.RatingNotes))
	}
	if a.HasInterest() {
		field("Interest", withNotes(fmt.Sprintf("%d/5", a.Interest), a.InterestNotes))
	}
	field("Tags", strings.Join(a.Tags, ", "))
	if rec != nil {
		field("Score", fmt.Sprintf("%s (%s)", strconv.FormatFloat(rec.Score, 'f', 2, 64), explain(rec.Breakdown)))
	}

	if s.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.Description)
	}
}

func renderTracks(w io.Writer, tracks []store.TrackCount) {
	t := newTable("Track", "Sessions")
	for _, tc := range tracks {
		name := tc.Track
		if name == "" {
			name = "(none)"
		}
		t.Row(name, strconv.Itoa(tc.Count))
	}
	fmt.Fprintln(w, t.Render())
}

func renderTags(w io.Writer, tags []store.TagCount) {
	t := newTable("Tag", "Sessions")
	for _, tc := range tags {
		t.Row(tc.Tag, strconv.Itoa(tc.Count))
	}
	fmt.Fprintln(w, t.Render())
}

func renderRecommendations(w io.Writer, recs []recommend.Recommendation) {
	t := newTable("#", "ID", "Title", "Track", "Score", "Why").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 4:
				return scoreStyle
			default:
				return cellStyle
			}
		})
	for i, rec := range recs {
		t.Row(
			strconv.Itoa(i+1),
			rec.Session.ID,
			truncate(rec.Session.Title, maxTitleWidth),
			rec.Session.Track,
			strconv.FormatFloat(rec.Score, 'f', 2, 64),
			explain(rec.Breakdown),
		)
	}
	fmt.Fprintln(w, t.Render())
}

func explain(b recommend.Breakdown) string {
	var parts []string
	if b.TrackAffinity > 0 {
		parts = append(parts, fmt.Sprintf("track avg %.1f", b.TrackAffinity))
	}
	if b.TagOverlap > 0 {
		parts = append(parts, fmt.Sprintf("%d shared tag(s)", b.TagOverlap))
	}
	if b.Interest > 0 {
		parts = append(parts, fmt.Sprintf("interest %d", b.Interest))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func renderMerge(w io.Writer, path string, total, skipped int, r *store.MergeResult) {
	fmt.Fprintf(w, "Ingested %d session(s) from %s: %d added, %d updated, %d unchanged",
		total, path, len(r.Added), len(r.Updated), len(r.Unchanged))
	if len(r.Restored) > 0 {
		fmt.Fprintf(w, ", %d restored", len(r.Restored))
	}
	if len(r.Archived) > 0 {
		fmt.Fprintf(w, ", %d archived", len(r.Archived))
	}
	if len(r.Removed) > 0 {
		fmt.Fprintf(w, ", %d removed", len(r.Removed))
	}
	fmt.Fprintln(w)
	if skipped > 0 {
		fmt.Fprintf(w, "Skipped %d record(s) without a title or with invalid JSON\n", skipped)
	}
}

func timeRange(s agenda.Session) string {
	switch {
	case s.StartTimeLocal == "":
		return ""
	case s.EndTimeLocal == "":
		return s.StartTimeLocal
	default:
		return s.StartTimeLocal + " - " + s.EndTimeLocal
	}
}

func score(v int) string {
	if v == 0 {
		return "-"
	}
	return strconv.Itoa(v)
}

func withNotes(value, notes string) string {
	if notes == "" {
		return value
	}
	return value + " (" + notes + ")"
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
