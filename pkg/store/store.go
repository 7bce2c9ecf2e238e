package store

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/harun/agenda/pkg/agenda"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	SessionsFile   = "sessions.jsonl"
	ArchiveFile    = "archive.jsonl"
	QuarantineFile = "quarantine.jsonl"
	TracksDir      = "tracks"

	otherTrack = "other"
)

// Store owns the in-memory session set and its flat-file persistence.
// It is not safe for concurrent use.
type Store struct {
	dataDir string
	logger  zerolog.Logger

	sessions map[string]*agenda.Session
	// archive holds annotated sessions dropped by a merge, keyed by ID.
	archive map[string]agenda.Session
	// quarantine holds raw corrupt lines not yet moved out of sessions.jsonl.
	quarantine []string
	dirty      bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// LoadReport summarizes a Load.
type LoadReport struct {
	Loaded   int
	Archived int
	Corrupt  []*agenda.StorageCorruptError
}

// HasCorruption reports whether any line was skipped.
func (r *LoadReport) HasCorruption() bool {
	return len(r.Corrupt) > 0
}

// New creates an empty store rooted at dataDir. Call Load to read from disk.
func New(dataDir string, opts ...Option) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}

	s := &Store{
		dataDir:  dataDir,
		logger:   log.Logger.With().Str("component", "store").Logger(),
		sessions: make(map[string]*agenda.Session),
		archive:  make(map[string]agenda.Session),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// DataDir returns the directory the store persists to.
func (s *Store) DataDir() string {
	return s.dataDir
}

// SessionsPath returns the path of the canonical sessions file.
func (s *Store) SessionsPath() string {
	return filepath.Join(s.dataDir, SessionsFile)
}

// TrackPath returns the path of the derived file for a track.
func (s *Store) TrackPath(track string) string {
	return filepath.Join(s.dataDir, TracksDir, trackSlug(track)+".jsonl")
}

// Dirty reports whether there are changes not yet saved.
func (s *Store) Dirty() bool {
	return s.dirty
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	return len(s.sessions)
}

// Load replaces the in-memory state with the contents of the data directory.
func (s *Store) Load() (*LoadReport, error) {
	entries, corrupt, err := readRecordFile(s.SessionsPath())
	if err != nil {
		return nil, err
	}

	sessions := make(map[string]*agenda.Session, len(entries))
	report := &LoadReport{Corrupt: corrupt}
	var quarantine []string
	for _, c := range corrupt {
		quarantine = append(quarantine, c.Raw)
	}

	for _, entry := range entries {
		record := entry.Record
		if _, exists := sessions[record.ID]; exists {
			dup := &agenda.StorageCorruptError{File: SessionsFile, Line: entry.Line, ID: record.ID, Reason: "duplicate id"}
			report.Corrupt = append(report.Corrupt, dup)
			if data, err := encodeLine(record); err == nil {
				quarantine = append(quarantine, data)
			}
			continue
		}
		session := record.Session()
		sessions[record.ID] = &session
	}
	report.Loaded = len(sessions)

	archived, archiveCorrupt, err := readRecordFile(filepath.Join(s.dataDir, ArchiveFile))
	if err != nil {
		return nil, err
	}
	archive := make(map[string]agenda.Session, len(archived))
	for _, entry := range archived {
		archive[entry.Record.ID] = entry.Record.Session()
	}
	report.Archived = len(archive)
	report.Corrupt = append(report.Corrupt, archiveCorrupt...)
	for _, c := range archiveCorrupt {
		quarantine = append(quarantine, c.Raw)
	}

	for _, c := range report.Corrupt {
		s.logger.Warn().
			Str("file", c.File).
			Int("line", c.Line).
			Str("id", c.ID).
			Str("reason", c.Reason).
			Msg("Skipping corrupt record")
	}

	s.sessions = sessions
	s.archive = archive
	s.quarantine = quarantine
	s.dirty = false

	s.logger.Debug().
		Int("sessions", report.Loaded).
		Int("archived", report.Archived).
		Int("corrupt", len(report.Corrupt)).
		Msg("Sessions loaded")

	return report, nil
}

// Save writes the full in-memory state: quarantined lines first, then the
// canonical file, the per-track view and the archive. Pending quarantine
// lines are kept until the canonical file is rewritten.
func (s *Store) Save() error {
	// Copy corrupt lines out before they leave sessions.jsonl
	if len(s.quarantine) > 0 {
		path := filepath.Join(s.dataDir, QuarantineFile)
		n, err := appendNewLines(path, s.quarantine)
		if err != nil {
			return &agenda.PersistenceError{Path: path, Err: err}
		}
		if n > 0 {
			s.logger.Warn().Int("lines", n).Str("file", path).Msg("Moved corrupt records to quarantine")
		}
	}

	// Rewrite canonical file
	records := s.records()
	if err := writeRecordsAtomic(s.SessionsPath(), records); err != nil {
		return &agenda.PersistenceError{Path: s.SessionsPath(), Err: err}
	}
	s.quarantine = nil

	if err := s.writeTrackViews(records); err != nil {
		return err
	}

	if err := s.writeArchive(); err != nil {
		return err
	}

	s.dirty = false
	s.logger.Debug().Int("sessions", len(records)).Msg("Sessions saved")

	return nil
}

// writeTrackViews regenerates tracks/ from memory and removes files for
// tracks that no longer exist.
func (s *Store) writeTrackViews(records []agenda.Record) error {
	dir := filepath.Join(s.dataDir, TracksDir)

	byTrack := make(map[string][]agenda.Record)
	for _, record := range records {
		slug := trackSlug(record.Track)
		byTrack[slug] = append(byTrack[slug], record)
	}

	for slug, trackRecords := range byTrack {
		path := filepath.Join(dir, slug+".jsonl")
		if err := writeRecordsAtomic(path, trackRecords); err != nil {
			return &agenda.PersistenceError{Path: path, Derived: true, Err: err}
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return &agenda.PersistenceError{Path: dir, Derived: true, Err: err}
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".jsonl") {
			continue
		}
		if _, keep := byTrack[strings.TrimSuffix(name, ".jsonl")]; keep {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return &agenda.PersistenceError{Path: path, Derived: true, Err: err}
		}
		s.logger.Debug().Str("file", name).Msg("Removed stale track file")
	}

	return nil
}

func (s *Store) writeArchive() error {
	path := filepath.Join(s.dataDir, ArchiveFile)
	if len(s.archive) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return &agenda.PersistenceError{Path: path, Derived: true, Err: err}
		}
		return nil
	}

	ids := make([]string, 0, len(s.archive))
	for id := range s.archive {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]agenda.Record, 0, len(ids))
	for _, id := range ids {
		records = append(records, s.archive[id].ToRecord())
	}
	if err := writeRecordsAtomic(path, records); err != nil {
		return &agenda.PersistenceError{Path: path, Derived: true, Err: err}
	}
	return nil
}

func (s *Store) records() []agenda.Record {
	ids := s.sortedIDs()
	records := make([]agenda.Record, 0, len(ids))
	for _, id := range ids {
		records = append(records, s.sessions[id].ToRecord())
	}
	return records
}

func (s *Store) sortedIDs() []string {
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Get returns a copy of the session with exactly this ID.
func (s *Store) Get(id string) (agenda.Session, bool) {
	session, ok := s.sessions[id]
	if !ok {
		return agenda.Session{}, false
	}
	return session.Clone(), true
}

// Resolve maps an exact ID or unique prefix to a session.
func (s *Store) Resolve(ref string) (agenda.Session, error) {
	session, err := s.resolve(ref)
	if err != nil {
		return agenda.Session{}, err
	}
	return session.Clone(), nil
}

func (s *Store) resolve(ref string) (*agenda.Session, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, &agenda.ValidationError{Field: "session id", Message: "must not be empty"}
	}

	if session, ok := s.sessions[ref]; ok {
		return session, nil
	}

	var candidates []string
	for id := range s.sessions {
		if strings.HasPrefix(id, ref) {
			candidates = append(candidates, id)
		}
	}

	switch len(candidates) {
	case 0:
		return nil, &agenda.NotFoundError{Ref: ref}
	case 1:
		return s.sessions[candidates[0]], nil
	default:
		slices.Sort(candidates)
		return nil, &agenda.AmbiguousIDError{Ref: ref, Candidates: candidates}
	}
}

// Mutate resolves ref, applies fn to the live session and marks the store
// dirty. It returns a copy of the updated session. Nothing is persisted.
func (s *Store) Mutate(ref string, fn func(*agenda.Session)) (agenda.Session, error) {
	session, err := s.resolve(ref)
	if err != nil {
		return agenda.Session{}, err
	}
	fn(session)
	s.dirty = true
	return session.Clone(), nil
}

// All returns copies of every live session sorted by ID.
func (s *Store) All() []agenda.Session {
	ids := s.sortedIDs()
	out := make([]agenda.Session, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.sessions[id].Clone())
	}
	return out
}

// Archived returns copies of archived sessions sorted by ID.
func (s *Store) Archived() []agenda.Session {
	out := make([]agenda.Session, 0, len(s.archive))
	for _, session := range s.archive {
		out = append(out, session.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func trackSlug(track string) string {
	if slug := agenda.Slugify(track); slug != "" {
		return slug
	}
	return otherTrack
}

func encodeLine(record agenda.Record) (string, error) {
	var b strings.Builder
	if err := WriteRecords(&b, []agenda.Record{record}); err != nil {
		return "", err
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}
