// Package store persists conference sessions and their annotations as JSONL.
//
// Layout under the data directory:
//
//	sessions.jsonl      canonical set, one record per line, sorted by id
//	tracks/<slug>.jsonl derived per-track view, regenerated on every Save
//	archive.jsonl       annotated sessions dropped by a merge
//	quarantine.jsonl    corrupt lines moved out of sessions.jsonl
//
// Invariants:
// - Session IDs are unique; Resolve returns exactly one session or fails.
// - Save is a full rewrite from memory, never an incremental patch.
// - Corrupt lines are reported by Load and never silently discarded.
//
// Usage:
//
//	st, _ := store.New("/tmp/agenda")
//	report, _ := st.Load()
//	_ = report
//	session, _ := st.Resolve("delta-lake")
//	_ = session
package store
