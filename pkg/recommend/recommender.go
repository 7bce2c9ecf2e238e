// Package recommend ranks unrated sessions by predicted interest.
//
// The score of an unrated session is
//
//	Track*avg(rating of rated sessions in the same track)
//	  + Tag*|session tags ∩ tags of sessions rated >= MinRating|
//	  + Interest*recorded interest
//
// Weights are non-negative, so the score never decreases when a signal grows.
// Ties are broken by session ID ascending.
package recommend

import (
	"fmt"
	"sort"

	"github.com/harun/agenda/pkg/agenda"
)

const DefaultMinRating = 4

// Weights scale each signal.
type Weights struct {
	Track    float64
	Tag      float64
	Interest float64
}

// DefaultWeights returns equal weights.
func DefaultWeights() Weights {
	return Weights{Track: 1, Tag: 1, Interest: 1}
}

// Source provides the sessions to rank.
type Source interface {
	All() []agenda.Session
}

// Breakdown holds the raw signals behind a score.
type Breakdown struct {
	TrackAffinity float64 // average rating of the track, 0 without history
	TagOverlap    int
	Interest      int
}

// Recommendation is a scored session.
type Recommendation struct {
	Session   agenda.Session
	Score     float64
	Breakdown Breakdown
}

// Recommender scores sessions from the current rating history. It keeps no
// state between calls.
type Recommender struct {
	source    Source
	weights   Weights
	minRating int
}

// Option configures a Recommender.
type Option func(*Recommender)

// WithWeights sets the signal weights.
func WithWeights(w Weights) Option {
	return func(r *Recommender) {
		r.weights = w
	}
}

// WithMinRating sets the rating a session needs for its tags to count as
// favorites.
func WithMinRating(minRating int) Option {
	return func(r *Recommender) {
		r.minRating = minRating
	}
}

// New creates a recommender. Negative weights are rejected.
func New(source Source, opts ...Option) (*Recommender, error) {
	r := &Recommender{
		source:    source,
		weights:   DefaultWeights(),
		minRating: DefaultMinRating,
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.weights.Track < 0 || r.weights.Tag < 0 || r.weights.Interest < 0 {
		return nil, fmt.Errorf("recommendation weights must be non-negative: %+v", r.weights)
	}
	if r.minRating < 1 || r.minRating > agenda.MaxScore {
		return nil, fmt.Errorf("min rating must be between 1 and %d, got %d", agenda.MaxScore, r.minRating)
	}

	return r, nil
}

type history struct {
	trackSum   map[string]int
	trackCount map[string]int
	favorites  map[string]struct{}
}

func buildHistory(sessions []agenda.Session, minRating int) history {
	h := history{
		trackSum:   make(map[string]int),
		trackCount: make(map[string]int),
		favorites:  make(map[string]struct{}),
	}
	for _, s := range sessions {
		a := s.Annotation
		if !a.HasRating() {
			continue
		}
		if s.Track != "" {
			h.trackSum[s.Track] += a.Rating
			h.trackCount[s.Track]++
		}
		if a.Rating >= minRating {
			for _, tag := range a.Tags {
				h.favorites[tag] = struct{}{}
			}
		}
	}
	return h
}

func (h history) trackAffinity(track string) float64 {
	n := h.trackCount[track]
	if track == "" || n == 0 {
		return 0
	}
	return float64(h.trackSum[track]) / float64(n)
}

func (h history) tagOverlap(tags []string) int {
	overlap := 0
	for _, tag := range tags {
		if _, ok := h.favorites[tag]; ok {
			overlap++
		}
	}
	return overlap
}

// Score computes the recommendation for one session against the current
// history. Rated sessions are scored too, which Recommend filters out.
func (r *Recommender) Score(session agenda.Session) Recommendation {
	return r.score(buildHistory(r.source.All(), r.minRating), session)
}

func (r *Recommender) score(h history, session agenda.Session) Recommendation {
	b := Breakdown{
		TrackAffinity: h.trackAffinity(session.Track),
		TagOverlap:    h.tagOverlap(session.Annotation.Tags),
		Interest:      session.Annotation.Interest,
	}
	score := r.weights.Track*b.TrackAffinity +
		r.weights.Tag*float64(b.TagOverlap) +
		r.weights.Interest*float64(b.Interest)

	return Recommendation{Session: session, Score: score, Breakdown: b}
}

// Recommend returns unrated sessions ordered by score descending, then ID
// ascending. A limit <= 0 returns all of them.
func (r *Recommender) Recommend(limit int) []Recommendation {
	sessions := r.source.All()
	h := buildHistory(sessions, r.minRating)

	recs := make([]Recommendation, 0, len(sessions))
	for _, s := range sessions {
		if s.Annotation.HasRating() {
			continue
		}
		recs = append(recs, r.score(h, s))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Score != recs[j].Score {
			return recs[i].Score > recs[j].Score
		}
		return recs[i].Session.ID < recs[j].Session.ID
	})

	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}
