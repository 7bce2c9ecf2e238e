package store

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/harun/agenda/pkg/agenda"
)

// MergeResult lists the IDs touched by a Merge, each sorted.
type MergeResult struct {
	Added     []string
	Updated   []string
	Unchanged []string
	Restored  []string // re-appeared with annotations recovered from the archive
	Archived  []string // dropped but kept in the archive for their annotations
	Removed   []string // dropped without annotations
}

// Changed reports whether the merge modified the store.
func (r *MergeResult) Changed() bool {
	return len(r.Added)+len(r.Updated)+len(r.Restored)+len(r.Archived)+len(r.Removed) > 0
}

// Merge applies a fresh ingestion batch. Content fields come from the batch,
// annotations are kept by ID, and sessions absent from the batch are dropped
// from the live set (annotated ones are moved to the archive). Annotations
// carried by the batch itself are ignored. Nothing is persisted.
func (s *Store) Merge(batch []agenda.Session) (*MergeResult, error) {
	fresh := make(map[string]agenda.Session, len(batch))
	for i, session := range batch {
		if session.ID == "" {
			return nil, &agenda.ValidationError{
				Field:   "batch",
				Message: fmt.Sprintf("session %d (%q) has no id", i, session.Title),
			}
		}
		if _, dup := fresh[session.ID]; dup {
			s.logger.Warn().Str("id", session.ID).Msg("Duplicate id in batch, keeping last occurrence")
		}
		session = session.Clone()
		session.Annotation = agenda.Annotation{}
		fresh[session.ID] = session
	}

	result := &MergeResult{}

	for id, session := range fresh {
		existing, ok := s.sessions[id]
		switch {
		case ok:
			if sameContent(*existing, session) {
				result.Unchanged = append(result.Unchanged, id)
				continue
			}
			merged := existing.WithContent(session)
			s.sessions[id] = &merged
			result.Updated = append(result.Updated, id)
		default:
			if archived, inArchive := s.archive[id]; inArchive {
				restored := archived.WithContent(session)
				s.sessions[id] = &restored
				delete(s.archive, id)
				result.Restored = append(result.Restored, id)
				continue
			}
			added := session
			s.sessions[id] = &added
			result.Added = append(result.Added, id)
		}
	}

	for id, existing := range s.sessions {
		if _, ok := fresh[id]; ok {
			continue
		}
		if !existing.Annotation.IsEmpty() {
			s.archive[id] = existing.Clone()
			result.Archived = append(result.Archived, id)
		} else {
			result.Removed = append(result.Removed, id)
		}
		delete(s.sessions, id)
	}

	for _, ids := range [][]string{result.Added, result.Updated, result.Unchanged, result.Restored, result.Archived, result.Removed} {
		sort.Strings(ids)
	}

	if result.Changed() {
		s.dirty = true
	}

	s.logger.Info().
		Int("added", len(result.Added)).
		Int("updated", len(result.Updated)).
		Int("restored", len(result.Restored)).
		Int("archived", len(result.Archived)).
		Int("removed", len(result.Removed)).
		Msg("Merged ingestion batch")

	return result, nil
}

func sameContent(a, b agenda.Session) bool {
	a.Annotation = agenda.Annotation{}
	b.Annotation = agenda.Annotation{}
	return reflect.DeepEqual(a.ToRecord(), b.ToRecord())
}
