package store

import (
	"sort"
	"strings"

	"github.com/harun/agenda/pkg/agenda"
)

// Query filters sessions. Empty fields match everything; set fields are
// combined with AND.
type Query struct {
	Track   string // exact match
	Level   string // exact match
	Speaker string // case-insensitive substring of any speaker
	Search  string // case-insensitive substring of title or description
}

// Matches reports whether the session satisfies every set field.
func (q Query) Matches(s agenda.Session) bool {
	if q.Track != "" && s.Track != q.Track {
		return false
	}
	if q.Level != "" && s.Level != q.Level {
		return false
	}
	if q.Speaker != "" && !anyContains(s.Speakers, q.Speaker) {
		return false
	}
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(s.Title), needle) &&
			!strings.Contains(strings.ToLower(s.Description), needle) {
			return false
		}
	}
	return true
}

func anyContains(values []string, needle string) bool {
	needle = strings.ToLower(needle)
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

// Filter returns the sessions matching q, sorted by ID.
func (s *Store) Filter(q Query) []agenda.Session {
	var out []agenda.Session
	for _, session := range s.All() {
		if q.Matches(session) {
			out = append(out, session)
		}
	}
	return out
}

// TrackCount is the number of sessions in a track.
type TrackCount struct {
	Track string
	Count int
}

// Tracks returns each distinct track with its session count, sorted by
// track name.
func (s *Store) Tracks() []TrackCount {
	counts := make(map[string]int)
	for _, session := range s.sessions {
		counts[session.Track]++
	}

	out := make([]TrackCount, 0, len(counts))
	for track, count := range counts {
		out = append(out, TrackCount{Track: track, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Track < out[j].Track })
	return out
}

// TagCount is the number of sessions carrying a tag.
type TagCount struct {
	Tag   string
	Count int
}

// TagCounts returns tag usage across live sessions, most used first.
func (s *Store) TagCounts() []TagCount {
	counts := make(map[string]int)
	for _, session := range s.sessions {
		for _, tag := range session.Annotation.Tags {
			counts[tag]++
		}
	}

	out := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		out = append(out, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}
