package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// #region upsert-reflection
// UpsertReflection writes the reflection for a declaration, creating
// the row on first save. Validity fields are computed by the caller
// with the reflection package; both write paths go through here.
func (s *Store) UpsertReflection(r Reflection) (Reflection, error) {
	if _, err := s.GetDeclaration(r.DeclarationID); err != nil {
		return Reflection{}, err
	}

	r.UpdatedAt = time.Now().UTC()
	valid := 0
	if r.IsValid {
		valid = 1
	}

	var existingID string
	err := s.db.QueryRow(`SELECT id FROM reflections WHERE declaration_id = ?`, r.DeclarationID).Scan(&existingID)
	switch {
	case err == nil:
		r.ID = existingID
		_, err = s.db.Exec(
			`UPDATE reflections
			 SET prompt1 = ?, prompt2 = ?, is_valid = ?, word_count_p1 = ?, word_count_p2 = ?, updated_at = ?
			 WHERE declaration_id = ?`,
			r.Prompt1, r.Prompt2, valid, r.WordCountP1, r.WordCountP2, fmtTime(r.UpdatedAt), r.DeclarationID,
		)
		if err != nil {
			return Reflection{}, fmt.Errorf("update reflection: %w", err)
		}
	case errors.Is(err, sql.ErrNoRows):
		if r.ID == "" {
			r.ID = uuid.New().String()
		}
		_, err = s.db.Exec(
			`INSERT INTO reflections (id, declaration_id, prompt1, prompt2, is_valid, word_count_p1, word_count_p2, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.DeclarationID, r.Prompt1, r.Prompt2, valid, r.WordCountP1, r.WordCountP2, fmtTime(r.UpdatedAt),
		)
		if err != nil {
			return Reflection{}, fmt.Errorf("insert reflection: %w", err)
		}
	default:
		return Reflection{}, fmt.Errorf("check reflection: %w", err)
	}
	return r, nil
}

// #endregion upsert-reflection

// #region get-reflection
// GetReflection retrieves a declaration's reflection. ErrNotFound
// means the student has not started it.
func (s *Store) GetReflection(declarationID string) (Reflection, error) {
	var r Reflection
	var valid int
	var updated string
	err := s.db.QueryRow(
		`SELECT id, declaration_id, prompt1, prompt2, is_valid, word_count_p1, word_count_p2, updated_at
		 FROM reflections WHERE declaration_id = ?`, declarationID,
	).Scan(&r.ID, &r.DeclarationID, &r.Prompt1, &r.Prompt2, &valid, &r.WordCountP1, &r.WordCountP2, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return Reflection{}, fmt.Errorf("reflection for %s: %w", declarationID, ErrNotFound)
	}
	if err != nil {
		return Reflection{}, fmt.Errorf("get reflection: %w", err)
	}
	r.IsValid = valid != 0
	r.UpdatedAt = parseTime(updated)
	return r, nil
}

// #endregion get-reflection
