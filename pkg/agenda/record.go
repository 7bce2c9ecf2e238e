package agenda

import "time"

// Record is the line-delimited storage form of a Session.
type Record struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Track           string   `json:"track"`
	Level           string   `json:"level"`
	Type            string   `json:"type"`
	Industry        string   `json:"industry"`
	Category        string   `json:"category"`
	AreasOfInterest []string `json:"areas_of_interest"`
	Speakers        []string `json:"speakers"`
	Day             string   `json:"day"`
	Room            string   `json:"room"`
	StartTimeLocal  string   `json:"start_time_local"`
	EndTimeLocal    string   `json:"end_time_local"`
	StartTimeRefTZ  string   `json:"start_time_ref_tz"`
	EndTimeRefTZ    string   `json:"end_time_ref_tz"`
	Duration        string   `json:"duration"`
	Path            string   `json:"path"`

	Rating        *int       `json:"rating"`
	RatingNotes   string     `json:"rating_notes"`
	RatedAt       *time.Time `json:"rated_at,omitempty"`
	Interest      *int       `json:"interest"`
	InterestNotes string     `json:"interest_notes"`
	InterestAt    *time.Time `json:"interest_at,omitempty"`
	Tags          []string   `json:"tags"`
}

// ToRecord converts a session into its storage form. Empty lists are
// written as [] and unset scores as null.
func (s Session) ToRecord() Record {
	a := s.Annotation
	return Record{
		ID:              s.ID,
		Title:           s.Title,
		Description:     s.Description,
		Track:           s.Track,
		Level:           s.Level,
		Type:            s.Type,
		Industry:        s.Industry,
		Category:        s.Category,
		AreasOfInterest: nonNil(s.AreasOfInterest),
		Speakers:        nonNil(s.Speakers),
		Day:             s.Day,
		Room:            s.Room,
		StartTimeLocal:  s.StartTimeLocal,
		EndTimeLocal:    s.EndTimeLocal,
		StartTimeRefTZ:  s.StartTimeRefTZ,
		EndTimeRefTZ:    s.EndTimeRefTZ,
		Duration:        s.Duration,
		Path:            s.Path,
		Rating:          scorePtr(a.Rating),
		RatingNotes:     a.RatingNotes,
		RatedAt:         timePtr(a.RatedAt),
		Interest:        scorePtr(a.Interest),
		InterestNotes:   a.InterestNotes,
		InterestAt:      timePtr(a.InterestAt),
		Tags:            nonNil(NormalizeTags(a.Tags)),
	}
}

// Session converts a record back into the in-memory form.
func (r Record) Session() Session {
	s := Session{
		ID:              r.ID,
		Title:           r.Title,
		Description:     r.Description,
		Track:           r.Track,
		Level:           r.Level,
		Type:            r.Type,
		Industry:        r.Industry,
		Category:        r.Category,
		AreasOfInterest: nilIfEmpty(r.AreasOfInterest),
		Speakers:        nilIfEmpty(r.Speakers),
		Day:             r.Day,
		Room:            r.Room,
		StartTimeLocal:  r.StartTimeLocal,
		EndTimeLocal:    r.EndTimeLocal,
		StartTimeRefTZ:  r.StartTimeRefTZ,
		EndTimeRefTZ:    r.EndTimeRefTZ,
		Duration:        r.Duration,
		Path:            r.Path,
	}

	if r.Rating != nil && *r.Rating > 0 {
		s.Annotation.Rating = *r.Rating
		s.Annotation.RatingNotes = r.RatingNotes
		if r.RatedAt != nil {
			s.Annotation.RatedAt = r.RatedAt.UTC()
		}
	}
	if r.Interest != nil && *r.Interest > 0 {
		s.Annotation.Interest = *r.Interest
		s.Annotation.InterestNotes = r.InterestNotes
		if r.InterestAt != nil {
			s.Annotation.InterestAt = r.InterestAt.UTC()
		}
	}
	s.Annotation.Tags = NormalizeTags(r.Tags)

	return s
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func nilIfEmpty(v []string) []string {
	if len(v) == 0 {
		return nil
	}
	return v
}

func scorePtr(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}
