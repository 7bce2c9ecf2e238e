// Package annotate mutates user annotations on stored sessions and persists
// every change before reporting success.
package annotate

import (
	"errors"
	"time"

	"github.com/harun/agenda/pkg/agenda"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Store is the subset of the session store the manager needs.
type Store interface {
	Mutate(ref string, fn func(*agenda.Session)) (agenda.Session, error)
	Save() error
}

// Manager validates and applies rating, interest and tag changes.
type Manager struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a manager over store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:  store,
		logger: log.Logger.With().Str("component", "annotate").Logger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type changeOptions struct {
	notes *string
}

// ChangeOption adjusts a rate or interest change.
type ChangeOption func(*changeOptions)

// WithNotes sets the notes for the change. Without it, prior notes are kept.
func WithNotes(notes string) ChangeOption {
	return func(o *changeOptions) {
		o.notes = &notes
	}
}

// Rate sets the rating of the session matching ref. A value of 0 clears the
// rating and its notes.
func (m *Manager) Rate(ref string, value int, opts ...ChangeOption) (agenda.Session, error) {
	if err := agenda.ValidateScore("rating", value); err != nil {
		return agenda.Session{}, err
	}
	o := applyChangeOptions(opts)
	now := m.timestamp()

	return m.apply(ref, "rating", value, func(s *agenda.Session) {
		s.Annotation.SetRating(value, o.notes, now)
	})
}

// SetInterest sets the interest level of the session matching ref. A value of
// 0 clears it.
func (m *Manager) SetInterest(ref string, value int, opts ...ChangeOption) (agenda.Session, error) {
	if err := agenda.ValidateScore("interest", value); err != nil {
		return agenda.Session{}, err
	}
	o := applyChangeOptions(opts)
	now := m.timestamp()

	return m.apply(ref, "interest", value, func(s *agenda.Session) {
		s.Annotation.SetInterest(value, o.notes, now)
	})
}

// Tag applies a tag expression such as "spark +etl ^ml" to the session
// matching ref. The whole expression is validated before anything changes.
func (m *Manager) Tag(ref string, expr string) (agenda.Session, error) {
	ops, err := agenda.ParseTagExpression(expr)
	if err != nil {
		return agenda.Session{}, err
	}

	return m.apply(ref, "tags", len(ops), func(s *agenda.Session) {
		s.Annotation.ApplyTagOps(ops)
	})
}

func (m *Manager) apply(ref, field string, value int, fn func(*agenda.Session)) (agenda.Session, error) {
	session, err := m.store.Mutate(ref, fn)
	if err != nil {
		return agenda.Session{}, err
	}

	if err := m.store.Save(); err != nil {
		var pErr *agenda.PersistenceError
		if !errors.As(err, &pErr) {
			err = &agenda.PersistenceError{Err: err}
		}
		m.logger.Error().
			Err(err).
			Str("session_id", session.ID).
			Str("field", field).
			Msg("Annotation applied in memory but not persisted")
		return session, err
	}

	m.logger.Info().
		Str("session_id", session.ID).
		Str("field", field).
		Int("value", value).
		Msg("Annotation saved")

	return session, nil
}

func (m *Manager) timestamp() time.Time {
	return m.now().UTC().Truncate(time.Second)
}

func applyChangeOptions(opts []ChangeOption) changeOptions {
	var o changeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
