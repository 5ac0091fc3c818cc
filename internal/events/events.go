package events

import "time"

// #region kinds

// Kind names a mutation event on a declaration. The set is closed:
// every producer emits one of these, every consumer switches over them.
type Kind string

const (
	KindEntryModified       Kind = "entry_modified"
	KindEntryDeleted        Kind = "entry_deleted"
	KindManualEntryAdded    Kind = "manual_entry_added"
	KindManualEntryRemoved  Kind = "manual_entry_removed"
	KindInteractionAssigned Kind = "interaction_assigned"
	KindReflectionUpdated   Kind = "reflection_updated"
	KindSnapshotCaptured    Kind = "snapshot_captured"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindEntryModified, KindEntryDeleted, KindManualEntryAdded,
		KindManualEntryRemoved, KindInteractionAssigned,
		KindReflectionUpdated, KindSnapshotCaptured:
		return true
	}
	return false
}

// #endregion kinds

// #region event

// Event carries a mutation notification. Only the fields relevant to
// the kind are set; the rest are zero.
type Event struct {
	Kind          Kind
	DeclarationID string
	EntryID       string // entry_modified, entry_deleted, manual_entry_*
	Origin        string // entry_deleted: origin of the removed entry

	// entry_modified edit details
	PreviousContent string
	NewContent      string
	DiffDelta       int

	LogID   string // interaction_assigned
	Trigger string // snapshot_captured

	At time.Time
}

// #endregion event
