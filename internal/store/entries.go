package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/origin"
)

// #region insert-entry
// InsertEntry inserts one declaration entry. A missing ID is generated.
func (s *Store) InsertEntry(e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	if e.UpdatedAt.IsZero() {
		e.UpdatedAt = now
	}
	tx, err := s.db.Begin()
	if err != nil {
		return Entry{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	if err := insertEntryTx(tx, e); err != nil {
		return Entry{}, err
	}
	if err := tx.Commit(); err != nil {
		return Entry{}, fmt.Errorf("commit: %w", err)
	}
	return e, nil
}

func insertEntryTx(tx *sql.Tx, e Entry) error {
	var logID interface{}
	if e.InteractionLogID != "" {
		logID = e.InteractionLogID
	}
	var prev interface{}
	if e.PreviousContent != "" {
		prev = e.PreviousContent
	}
	_, err := tx.Exec(
		`INSERT INTO declaration_entries
		   (id, declaration_id, interaction_log_id, field_name, content, origin, previous_content, diff_delta, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.DeclarationID, logID, e.FieldName, e.Content, string(e.Origin),
		prev, e.DiffDelta, fmtTime(e.CreatedAt), fmtTime(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

// InsertEntries inserts a batch of entries for one declaration and
// bumps the declaration's updated_at, all in one transaction. A
// mid-batch failure rolls back the whole batch; a draft merge never
// commits partially.
func (s *Store) InsertEntries(declarationID string, entries []Entry) ([]Entry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	now := time.Now().UTC()
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for i := range entries {
		e := &entries[i]
		e.DeclarationID = declarationID
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		e.CreatedAt = now
		e.UpdatedAt = now
		if err := insertEntryTx(tx, *e); err != nil {
			return nil, err
		}
	}

	res, err := tx.Exec(`UPDATE declarations SET updated_at = ? WHERE id = ?`, fmtTime(now), declarationID)
	if err != nil {
		return nil, fmt.Errorf("touch declaration %s: %w", declarationID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("declaration %s: %w", declarationID, ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return entries, nil
}

// #endregion insert-entry

// #region get-entry
// GetEntry retrieves an entry scoped to its declaration.
func (s *Store) GetEntry(declarationID, entryID string) (Entry, error) {
	row := s.db.QueryRow(
		`SELECT id, declaration_id, interaction_log_id, field_name, content, origin, previous_content, diff_delta, created_at, updated_at
		 FROM declaration_entries WHERE id = ? AND declaration_id = ?`, entryID, declarationID,
	)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("entry %s: %w", entryID, ErrNotFound)
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get entry %s: %w", entryID, err)
	}
	return e, nil
}

// #endregion get-entry

// #region entries-for-declaration
// EntriesForDeclaration returns all entries of a declaration, oldest
// first. Entries created in the same transaction share created_at, so
// rowid breaks the tie in insertion order.
func (s *Store) EntriesForDeclaration(declarationID string) ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, declaration_id, interaction_log_id, field_name, content, origin, previous_content, diff_delta, created_at, updated_at
		 FROM declaration_entries WHERE declaration_id = ? ORDER BY created_at, rowid`, declarationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// #endregion entries-for-declaration

// #region update-entry-content
// UpdateEntryContent applies an edit to an entry: the origin moves
// forward, previous_content is captured on the first edit only, and
// diff_delta records the character delta of this edit. Returns the
// updated entry and the content it replaced.
func (s *Store) UpdateEntryContent(declarationID, entryID, content string) (Entry, string, error) {
	e, err := s.GetEntry(declarationID, entryID)
	if err != nil {
		return Entry{}, "", err
	}

	replaced := e.Content
	newOrigin := origin.Transition(e.Origin)
	previous := e.PreviousContent
	if previous == "" {
		previous = e.Content
	}
	delta := len(content) - len(e.Content)
	now := time.Now().UTC()

	_, err = s.db.Exec(
		`UPDATE declaration_entries
		 SET content = ?, origin = ?, previous_content = ?, diff_delta = ?, updated_at = ?
		 WHERE id = ?`,
		content, string(newOrigin), previous, delta, fmtTime(now), entryID,
	)
	if err != nil {
		return Entry{}, "", fmt.Errorf("update entry %s: %w", entryID, err)
	}

	e.Content = content
	e.Origin = newOrigin
	e.PreviousContent = previous
	e.DiffDelta = delta
	e.UpdatedAt = now
	return e, replaced, nil
}

// #endregion update-entry-content

// #region delete-entry
// DeleteEntry removes an entry and returns it, so the caller can run
// the deletion check against its origin.
func (s *Store) DeleteEntry(declarationID, entryID string) (Entry, error) {
	e, err := s.GetEntry(declarationID, entryID)
	if err != nil {
		return Entry{}, err
	}
	if _, err := s.db.Exec(`DELETE FROM declaration_entries WHERE id = ?`, entryID); err != nil {
		return Entry{}, fmt.Errorf("delete entry %s: %w", entryID, err)
	}
	return e, nil
}

// #endregion delete-entry

// #region scan

func scanEntry(r rowScanner) (Entry, error) {
	var e Entry
	var logID, prev sql.NullString
	var delta sql.NullInt64
	var o, created, updated string
	if err := r.Scan(&e.ID, &e.DeclarationID, &logID, &e.FieldName, &e.Content, &o, &prev, &delta, &created, &updated); err != nil {
		return Entry{}, err
	}
	if logID.Valid {
		e.InteractionLogID = logID.String
	}
	e.Origin = origin.Origin(o)
	if prev.Valid {
		e.PreviousContent = prev.String
	}
	if delta.Valid {
		e.DiffDelta = int(delta.Int64)
	}
	e.CreatedAt = parseTime(created)
	e.UpdatedAt = parseTime(updated)
	return e, nil
}

// #endregion scan
