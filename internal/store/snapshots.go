package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// The version_history table is append-only. The store exposes insert
// and read operations only; there is deliberately no update or delete.

// #region append-snapshot

// execer is satisfied by both *sql.DB and *sql.Tx, so snapshot rows
// can be appended standalone or inside a larger transaction.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

func appendSnapshot(e execer, sn SnapshotRecord) (SnapshotRecord, error) {
	if !sn.Trigger.Valid() {
		return SnapshotRecord{}, fmt.Errorf("append snapshot: unknown trigger %q", sn.Trigger)
	}
	if sn.ID == "" {
		sn.ID = uuid.New().String()
	}
	if sn.CreatedAt.IsZero() {
		sn.CreatedAt = time.Now().UTC()
	}
	if sn.ActiveWarnings == "" {
		sn.ActiveWarnings = "[]"
	}

	_, err := e.Exec(
		`INSERT INTO version_history (id, declaration_id, trigger_event, snapshot_data, active_warnings, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sn.ID, sn.DeclarationID, string(sn.Trigger), sn.SnapshotData, sn.ActiveWarnings, fmtTime(sn.CreatedAt),
	)
	if err != nil {
		return SnapshotRecord{}, fmt.Errorf("append snapshot: %w", err)
	}
	return sn, nil
}

// AppendSnapshot inserts one version_history row.
func (s *Store) AppendSnapshot(sn SnapshotRecord) (SnapshotRecord, error) {
	return appendSnapshot(s.db, sn)
}

// #endregion append-snapshot

// #region snapshots-for-declaration
// SnapshotsForDeclaration returns a declaration's history oldest first.
func (s *Store) SnapshotsForDeclaration(declarationID string) ([]SnapshotRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, declaration_id, trigger_event, snapshot_data, active_warnings, created_at
		 FROM version_history WHERE declaration_id = ? ORDER BY created_at, id`, declarationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []SnapshotRecord
	for rows.Next() {
		sn, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		out = append(out, sn)
	}
	return out, rows.Err()
}

// #endregion snapshots-for-declaration

// #region get-snapshot
// GetSnapshot retrieves a single version_history row.
func (s *Store) GetSnapshot(id string) (SnapshotRecord, error) {
	row := s.db.QueryRow(
		`SELECT id, declaration_id, trigger_event, snapshot_data, active_warnings, created_at
		 FROM version_history WHERE id = ?`, id,
	)
	sn, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return SnapshotRecord{}, fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return SnapshotRecord{}, fmt.Errorf("get snapshot %s: %w", id, err)
	}
	return sn, nil
}

// #endregion get-snapshot

// #region scan

func scanSnapshot(r rowScanner) (SnapshotRecord, error) {
	var sn SnapshotRecord
	var trigger, created string
	if err := r.Scan(&sn.ID, &sn.DeclarationID, &trigger, &sn.SnapshotData, &sn.ActiveWarnings, &created); err != nil {
		return SnapshotRecord{}, err
	}
	sn.Trigger = Trigger(trigger)
	sn.CreatedAt = parseTime(created)
	return sn, nil
}

// #endregion scan
