package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// #region insert-manual-entry
// InsertManualEntry inserts a manual usage entry. Field validation is
// the caller's responsibility (ManualEntry.Validate); the declaration
// must exist.
func (s *Store) InsertManualEntry(m ManualEntry) (ManualEntry, error) {
	if _, err := s.GetDeclaration(m.DeclarationID); err != nil {
		return ManualEntry{}, err
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}

	var reasonOther interface{}
	if m.ReasonOther != "" {
		reasonOther = m.ReasonOther
	}

	_, err := s.db.Exec(
		`INSERT INTO manual_usage_entries (id, declaration_id, tool_name, date_range, description, reason, reason_other, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.DeclarationID, m.ToolName, m.DateRange, m.Description,
		string(m.Reason), reasonOther, fmtTime(m.CreatedAt),
	)
	if err != nil {
		return ManualEntry{}, fmt.Errorf("insert manual entry: %w", err)
	}
	return m, nil
}

// #endregion insert-manual-entry

// #region manual-entries-for-declaration
// ManualEntriesForDeclaration returns a declaration's manual entries,
// oldest first.
func (s *Store) ManualEntriesForDeclaration(declarationID string) ([]ManualEntry, error) {
	rows, err := s.db.Query(
		`SELECT id, declaration_id, tool_name, date_range, description, reason, reason_other, created_at
		 FROM manual_usage_entries WHERE declaration_id = ? ORDER BY created_at, id`, declarationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list manual entries: %w", err)
	}
	defer rows.Close()

	var out []ManualEntry
	for rows.Next() {
		m, err := scanManualEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan manual entry: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// #endregion manual-entries-for-declaration

// #region delete-manual-entry
// DeleteManualEntry removes a manual entry scoped to its declaration
// and returns the removed row.
func (s *Store) DeleteManualEntry(declarationID, entryID string) (ManualEntry, error) {
	row := s.db.QueryRow(
		`SELECT id, declaration_id, tool_name, date_range, description, reason, reason_other, created_at
		 FROM manual_usage_entries WHERE id = ? AND declaration_id = ?`, entryID, declarationID,
	)
	m, err := scanManualEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ManualEntry{}, fmt.Errorf("manual entry %s: %w", entryID, ErrNotFound)
	}
	if err != nil {
		return ManualEntry{}, fmt.Errorf("get manual entry %s: %w", entryID, err)
	}

	if _, err := s.db.Exec(`DELETE FROM manual_usage_entries WHERE id = ?`, entryID); err != nil {
		return ManualEntry{}, fmt.Errorf("delete manual entry %s: %w", entryID, err)
	}
	return m, nil
}

// #endregion delete-manual-entry

// #region declared-aggregates

// DeclaredCount is the number of declaration entries plus manual
// entries. Manual entries count toward coverage the same as
// auto-generated ones.
func (s *Store) DeclaredCount(declarationID string) (int, error) {
	var entries, manual int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM declaration_entries WHERE declaration_id = ?`, declarationID,
	).Scan(&entries)
	if err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM manual_usage_entries WHERE declaration_id = ?`, declarationID,
	).Scan(&manual)
	if err != nil {
		return 0, fmt.Errorf("count manual entries: %w", err)
	}
	return entries + manual, nil
}

// DeclaredContents returns the declaration's entry contents plus its
// manual entries' tool names and descriptions, for tool-mention
// scanning.
func (s *Store) DeclaredContents(declarationID string) ([]string, error) {
	entries, err := s.EntriesForDeclaration(declarationID)
	if err != nil {
		return nil, err
	}
	manual, err := s.ManualEntriesForDeclaration(declarationID)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(entries)+len(manual))
	for _, e := range entries {
		out = append(out, e.Content)
	}
	for _, m := range manual {
		out = append(out, m.ToolName+" "+m.Description)
	}
	return out, nil
}

// #endregion declared-aggregates

// #region scan

func scanManualEntry(r rowScanner) (ManualEntry, error) {
	var m ManualEntry
	var reason, created string
	var reasonOther sql.NullString
	if err := r.Scan(&m.ID, &m.DeclarationID, &m.ToolName, &m.DateRange, &m.Description, &reason, &reasonOther, &created); err != nil {
		return ManualEntry{}, err
	}
	m.Reason = Reason(reason)
	if reasonOther.Valid {
		m.ReasonOther = reasonOther.String
	}
	m.CreatedAt = parseTime(created)
	return m, nil
}

// #endregion scan
