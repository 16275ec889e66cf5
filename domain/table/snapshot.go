package table

import (
	"time"

	"github.com/yapweijun1996/CSV-Data-Analysis-Agent-sub000/domain/core"
)

// Snapshot is one immutable version of a cleaned table together with
// the metadata and profiles derived from it. Any edit (cell edit,
// transform, row deletion) produces a new snapshot via Derive; nothing
// is patched in place.
type Snapshot struct {
	ID        core.SnapshotID `json:"id"`
	ParentID  core.SnapshotID `json:"parent_id,omitempty"`
	SourceRaw core.TableHash  `json:"source_raw"`
	Table     CanonicalTable  `json:"table"`
	Meta      Metadata        `json:"meta"`
	Profiles  []ColumnProfile `json:"profiles,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewSnapshot creates the first snapshot for an upload.
func NewSnapshot(sourceRaw core.TableHash, t CanonicalTable, meta Metadata) *Snapshot {
	return &Snapshot{
		ID:        core.SnapshotID(core.NewID()),
		SourceRaw: sourceRaw,
		Table:     t,
		Meta:      meta,
		CreatedAt: time.Now(),
	}
}

// Derive creates a child snapshot holding an edited table. Profiles are
// intentionally dropped: every edit triggers full re-profiling, never
// incremental patching.
func (s *Snapshot) Derive(t CanonicalTable, meta Metadata) *Snapshot {
	return &Snapshot{
		ID:        core.SnapshotID(core.NewID()),
		ParentID:  s.ID,
		SourceRaw: s.SourceRaw,
		Table:     t,
		Meta:      meta,
		CreatedAt: time.Now(),
	}
}

// WithProfiles returns a copy of the snapshot carrying profiles.
func (s *Snapshot) WithProfiles(profiles []ColumnProfile) *Snapshot {
	out := *s
	out.Profiles = append([]ColumnProfile(nil), profiles...)
	return &out
}
