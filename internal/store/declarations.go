package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// #region create-declaration
// CreateDeclaration creates a draft declaration for an assignment plus
// its initial entries, in one transaction. The assignment's time
// period is locked by stamping time_period_locked_at. At most one
// declaration may exist per assignment.
func (s *Store) CreateDeclaration(assignmentID, studentID string, entries []Entry) (Declaration, error) {
	if _, err := s.GetAssignment(assignmentID); err != nil {
		return Declaration{}, err
	}

	var existing string
	err := s.db.QueryRow(`SELECT id FROM declarations WHERE assignment_id = ?`, assignmentID).Scan(&existing)
	if err == nil {
		return Declaration{}, fmt.Errorf("declaration for assignment %s: %w", assignmentID, ErrAlreadyExists)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Declaration{}, fmt.Errorf("check declaration: %w", err)
	}

	now := time.Now().UTC()
	d := Declaration{
		ID:                 uuid.New().String(),
		AssignmentID:       assignmentID,
		StudentID:          studentID,
		Status:             StatusDraft,
		TimePeriodLockedAt: now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Declaration{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO declarations (id, assignment_id, student_id, status, time_period_locked_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.AssignmentID, d.StudentID, string(d.Status),
		fmtTime(d.TimePeriodLockedAt), fmtTime(d.CreatedAt), fmtTime(d.UpdatedAt),
	)
	if err != nil {
		return Declaration{}, fmt.Errorf("insert declaration: %w", err)
	}

	for i := range entries {
		e := &entries[i]
		e.DeclarationID = d.ID
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		e.CreatedAt = now
		e.UpdatedAt = now
		if err := insertEntryTx(tx, *e); err != nil {
			return Declaration{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Declaration{}, fmt.Errorf("commit: %w", err)
	}
	return d, nil
}

// #endregion create-declaration

// #region get-declaration
// GetDeclaration retrieves a declaration by ID.
func (s *Store) GetDeclaration(id string) (Declaration, error) {
	row := s.db.QueryRow(
		`SELECT id, assignment_id, student_id, status, time_period_locked_at, submitted_at, created_at, updated_at
		 FROM declarations WHERE id = ?`, id,
	)
	d, err := scanDeclaration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Declaration{}, fmt.Errorf("declaration %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Declaration{}, fmt.Errorf("get declaration %s: %w", id, err)
	}
	return d, nil
}

// GetDeclarationByAssignment retrieves the declaration for an assignment.
func (s *Store) GetDeclarationByAssignment(assignmentID string) (Declaration, error) {
	row := s.db.QueryRow(
		`SELECT id, assignment_id, student_id, status, time_period_locked_at, submitted_at, created_at, updated_at
		 FROM declarations WHERE assignment_id = ?`, assignmentID,
	)
	d, err := scanDeclaration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Declaration{}, fmt.Errorf("declaration for assignment %s: %w", assignmentID, ErrNotFound)
	}
	if err != nil {
		return Declaration{}, fmt.Errorf("get declaration by assignment %s: %w", assignmentID, err)
	}
	return d, nil
}

// #endregion get-declaration

// #region touch
// TouchDeclaration bumps updated_at.
func (s *Store) TouchDeclaration(id string) error {
	res, err := s.db.Exec(
		`UPDATE declarations SET updated_at = ? WHERE id = ?`,
		fmtTime(time.Now().UTC()), id,
	)
	if err != nil {
		return fmt.Errorf("touch declaration %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("declaration %s: %w", id, ErrNotFound)
	}
	return nil
}

// #endregion touch

// #region submit-with-snapshot
// SubmitWithSnapshot transitions a declaration to submitted and appends
// its submission snapshot in one transaction. Either both land or
// neither does; a submitted declaration without a submission row is not
// a valid end state. The reflection gate runs at the session layer
// before this is called.
func (s *Store) SubmitWithSnapshot(id string, submittedAt time.Time, sn SnapshotRecord) (Declaration, error) {
	d, err := s.GetDeclaration(id)
	if err != nil {
		return Declaration{}, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return Declaration{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE declarations SET status = ?, submitted_at = ?, updated_at = ? WHERE id = ?`,
		string(StatusSubmitted), fmtTime(submittedAt), fmtTime(submittedAt), id,
	)
	if err != nil {
		return Declaration{}, fmt.Errorf("mark submitted %s: %w", id, err)
	}

	sn.DeclarationID = id
	sn.Trigger = TriggerSubmission
	if _, err := appendSnapshot(tx, sn); err != nil {
		return Declaration{}, err
	}

	if err := tx.Commit(); err != nil {
		return Declaration{}, fmt.Errorf("commit: %w", err)
	}

	d.Status = StatusSubmitted
	d.SubmittedAt = submittedAt
	d.UpdatedAt = submittedAt
	return d, nil
}

// #endregion submit-with-snapshot

// #region scan

func scanDeclaration(r rowScanner) (Declaration, error) {
	var d Declaration
	var status string
	var locked, submitted sql.NullString
	var created, updated string
	if err := r.Scan(&d.ID, &d.AssignmentID, &d.StudentID, &status, &locked, &submitted, &created, &updated); err != nil {
		return Declaration{}, err
	}
	d.Status = Status(status)
	if locked.Valid {
		d.TimePeriodLockedAt = parseTime(locked.String)
	}
	if submitted.Valid {
		d.SubmittedAt = parseTime(submitted.String)
	}
	d.CreatedAt = parseTime(created)
	d.UpdatedAt = parseTime(updated)
	return d, nil
}

// #endregion scan
