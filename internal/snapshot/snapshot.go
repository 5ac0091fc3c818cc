package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/integrity"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/store"
)

// #region payload

// Payload is the full declaration state captured in one version
// history row: declaration, all entries with origin metadata, manual
// entries, and the reflection if started.
type Payload struct {
	Declaration   store.Declaration   `json:"declaration"`
	Entries       []store.Entry       `json:"entries"`
	ManualEntries []store.ManualEntry `json:"manual_entries"`
	Reflection    *store.Reflection   `json:"reflection"`
	Meta          Meta                `json:"meta"`
}

// Meta records why and when the snapshot was taken.
type Meta struct {
	Trigger    store.Trigger `json:"trigger"`
	CapturedAt time.Time     `json:"captured_at"`
}

// Version pairs a stored history row with its decoded payload.
type Version struct {
	Record   store.SnapshotRecord
	Payload  Payload
	Warnings []integrity.Warning
}

// #endregion payload

// #region recorder

// Recorder captures and reads append-only declaration snapshots.
// History rows are never updated or deleted.
type Recorder struct {
	st  *store.Store
	now func() time.Time
}

// NewRecorder creates a recorder backed by the given store.
func NewRecorder(st *store.Store) *Recorder {
	return &Recorder{st: st, now: time.Now}
}

// #endregion recorder

// #region capture

// build renders a snapshot record from the given declaration value and
// the rest of its current state, without appending it. Callers that
// commit the row atomically with another write pass a declaration
// already reflecting that write.
func (r *Recorder) build(d store.Declaration, trigger store.Trigger, warnings []integrity.Warning, capturedAt time.Time) (store.SnapshotRecord, int, error) {
	entries, err := r.st.EntriesForDeclaration(d.ID)
	if err != nil {
		return store.SnapshotRecord{}, 0, err
	}
	manual, err := r.st.ManualEntriesForDeclaration(d.ID)
	if err != nil {
		return store.SnapshotRecord{}, 0, err
	}

	var reflection *store.Reflection
	refl, err := r.st.GetReflection(d.ID)
	switch {
	case err == nil:
		reflection = &refl
	case errors.Is(err, store.ErrNotFound):
		// not started yet
	default:
		return store.SnapshotRecord{}, 0, err
	}

	payload := Payload{
		Declaration:   d,
		Entries:       entries,
		ManualEntries: manual,
		Reflection:    reflection,
		Meta:          Meta{Trigger: trigger, CapturedAt: capturedAt},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return store.SnapshotRecord{}, 0, fmt.Errorf("marshal snapshot: %w", err)
	}
	if warnings == nil {
		warnings = []integrity.Warning{}
	}
	warnJSON, err := json.Marshal(warnings)
	if err != nil {
		return store.SnapshotRecord{}, 0, fmt.Errorf("marshal warnings: %w", err)
	}

	return store.SnapshotRecord{
		DeclarationID:  d.ID,
		Trigger:        trigger,
		SnapshotData:   string(data),
		ActiveWarnings: string(warnJSON),
		CreatedAt:      capturedAt,
	}, len(entries), nil
}

// Capture reads the declaration's full current state and appends one
// version history row tagged with the trigger and the active warnings.
func (r *Recorder) Capture(declarationID string, trigger store.Trigger, warnings []integrity.Warning) (store.SnapshotRecord, error) {
	d, err := r.st.GetDeclaration(declarationID)
	if err != nil {
		return store.SnapshotRecord{}, err
	}

	sn, entries, err := r.build(d, trigger, warnings, r.now().UTC())
	if err != nil {
		return store.SnapshotRecord{}, err
	}
	rec, err := r.st.AppendSnapshot(sn)
	if err != nil {
		return store.SnapshotRecord{}, err
	}

	log.Printf("[SNAP] captured %s trigger=%s entries=%d warnings=%d",
		declarationID, trigger, entries, len(warnings))
	return rec, nil
}

// CaptureSubmission submits the declaration and records its submission
// snapshot in one store transaction. The snapshot payload shows the
// submitted state; the status change never lands without its history
// row and vice versa.
func (r *Recorder) CaptureSubmission(declarationID string, warnings []integrity.Warning) (store.Declaration, error) {
	d, err := r.st.GetDeclaration(declarationID)
	if err != nil {
		return store.Declaration{}, err
	}

	now := r.now().UTC()
	d.Status = store.StatusSubmitted
	d.SubmittedAt = now
	d.UpdatedAt = now

	sn, entries, err := r.build(d, store.TriggerSubmission, warnings, now)
	if err != nil {
		return store.Declaration{}, err
	}
	d, err = r.st.SubmitWithSnapshot(declarationID, now, sn)
	if err != nil {
		return store.Declaration{}, err
	}

	log.Printf("[SNAP] captured %s trigger=%s entries=%d warnings=%d",
		declarationID, store.TriggerSubmission, entries, len(warnings))
	return d, nil
}

// #endregion capture

// #region history

// History returns the declaration's decoded snapshots, oldest first.
func (r *Recorder) History(declarationID string) ([]Version, error) {
	records, err := r.st.SnapshotsForDeclaration(declarationID)
	if err != nil {
		return nil, err
	}
	out := make([]Version, 0, len(records))
	for _, rec := range records {
		v, err := decode(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Get returns a single decoded snapshot.
func (r *Recorder) Get(id string) (Version, error) {
	rec, err := r.st.GetSnapshot(id)
	if err != nil {
		return Version{}, err
	}
	return decode(rec)
}

func decode(rec store.SnapshotRecord) (Version, error) {
	v := Version{Record: rec}
	if err := json.Unmarshal([]byte(rec.SnapshotData), &v.Payload); err != nil {
		return Version{}, fmt.Errorf("decode snapshot %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(rec.ActiveWarnings), &v.Warnings); err != nil {
		return Version{}, fmt.Errorf("decode warnings %s: %w", rec.ID, err)
	}
	return v, nil
}

// #endregion history
