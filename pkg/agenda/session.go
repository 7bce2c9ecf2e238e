package agenda

import (
	"slices"
	"time"
)

// Session is one scheduled conference talk with its user annotation.
type Session struct {
	ID          string
	Title       string
	Description string
	Track       string
	Level       string
	Type        string
	Industry    string
	Category    string

	AreasOfInterest []string
	Speakers        []string

	Day            string
	Room           string
	StartTimeLocal string
	EndTimeLocal   string
	StartTimeRefTZ string
	EndTimeRefTZ   string
	Duration       string
	Path           string

	Annotation Annotation
}

// Annotation is the user-owned, mutable data layered on top of a session.
type Annotation struct {
	Rating      int
	RatingNotes string
	RatedAt     time.Time

	Interest      int
	InterestNotes string
	InterestAt    time.Time

	// Tags is kept sorted; use AddTag/RemoveTag to mutate it.
	Tags []string
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	s.AreasOfInterest = slices.Clone(s.AreasOfInterest)
	s.Speakers = slices.Clone(s.Speakers)
	s.Annotation.Tags = slices.Clone(s.Annotation.Tags)
	return s
}

// WithContent returns fresh with the receiver's annotation carried over.
// The ID of fresh wins.
func (s Session) WithContent(fresh Session) Session {
	out := fresh.Clone()
	out.Annotation = s.Clone().Annotation
	return out
}

// HasRating reports whether a rating is recorded.
func (a Annotation) HasRating() bool {
	return a.Rating > 0
}

// HasInterest reports whether an interest level is recorded.
func (a Annotation) HasInterest() bool {
	return a.Interest > 0
}

// IsEmpty reports whether the annotation carries no user data at all.
func (a Annotation) IsEmpty() bool {
	return !a.HasRating() && !a.HasInterest() && len(a.Tags) == 0 &&
		a.RatingNotes == "" && a.InterestNotes == ""
}

// SetRating sets or clears (value 0) the rating. Notes are replaced only
// when notes is non-nil; clearing always drops them.
func (a *Annotation) SetRating(value int, notes *string, now time.Time) {
	if value == 0 {
		a.Rating = 0
		a.RatingNotes = ""
		a.RatedAt = time.Time{}
		return
	}
	a.Rating = value
	a.RatedAt = now
	if notes != nil {
		a.RatingNotes = *notes
	}
}

// SetInterest mirrors SetRating for the interest level.
func (a *Annotation) SetInterest(value int, notes *string, now time.Time) {
	if value == 0 {
		a.Interest = 0
		a.InterestNotes = ""
		a.InterestAt = time.Time{}
		return
	}
	a.Interest = value
	a.InterestAt = now
	if notes != nil {
		a.InterestNotes = *notes
	}
}

// HasTag reports whether the (normalized) tag is present.
func (a Annotation) HasTag(tag string) bool {
	_, found := slices.BinarySearch(a.Tags, NormalizeTag(tag))
	return found
}

// AddTag inserts a tag. Adding an existing tag is a no-op.
func (a *Annotation) AddTag(tag string) {
	tag = NormalizeTag(tag)
	if tag == "" {
		return
	}
	i, found := slices.BinarySearch(a.Tags, tag)
	if found {
		return
	}
	a.Tags = slices.Insert(a.Tags, i, tag)
}

// RemoveTag deletes a tag, matching case-insensitively. Removing an absent
// tag is a no-op.
func (a *Annotation) RemoveTag(tag string) {
	i, found := slices.BinarySearch(a.Tags, NormalizeTag(tag))
	if !found {
		return
	}
	a.Tags = slices.Delete(a.Tags, i, i+1)
	if len(a.Tags) == 0 {
		a.Tags = nil
	}
}

// ApplyTagOps applies ops in order.
func (a *Annotation) ApplyTagOps(ops []TagOp) {
	for _, op := range ops {
		switch op.Kind {
		case TagAdd:
			a.AddTag(op.Tag)
		case TagRemove:
			a.RemoveTag(op.Tag)
		}
	}
}
