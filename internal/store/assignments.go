package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// #region create-assignment
// CreateAssignment inserts an assignment. A missing ID is generated;
// CreatedAt defaults to now.
func (s *Store) CreateAssignment(a Assignment) (Assignment, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	var desc interface{}
	if a.Description != "" {
		desc = a.Description
	}

	_, err := s.db.Exec(
		`INSERT INTO assignments (id, course_id, course_name, title, description, period_start, period_end, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.CourseID, a.CourseName, a.Title, desc,
		fmtTime(a.PeriodStart), fmtTime(a.PeriodEnd), fmtTime(a.CreatedAt),
	)
	if err != nil {
		return Assignment{}, fmt.Errorf("insert assignment: %w", err)
	}
	return a, nil
}

// #endregion create-assignment

// #region get-assignment
// GetAssignment retrieves an assignment by ID.
func (s *Store) GetAssignment(id string) (Assignment, error) {
	row := s.db.QueryRow(
		`SELECT id, course_id, course_name, title, description, period_start, period_end, created_at
		 FROM assignments WHERE id = ?`, id,
	)
	a, err := scanAssignment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Assignment{}, fmt.Errorf("assignment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Assignment{}, fmt.Errorf("get assignment %s: %w", id, err)
	}
	return a, nil
}

// #endregion get-assignment

// #region list-assignments
// ListAssignments returns all assignments ordered by period start.
func (s *Store) ListAssignments() ([]Assignment, error) {
	rows, err := s.db.Query(
		`SELECT id, course_id, course_name, title, description, period_start, period_end, created_at
		 FROM assignments ORDER BY period_start`,
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// #endregion list-assignments

// #region update-period
// UpdateAssignmentPeriod changes an assignment's declaration window.
// Declarations already created keep their locked period; callers
// report how many are affected.
func (s *Store) UpdateAssignmentPeriod(id string, start, end time.Time) (Assignment, error) {
	a, err := s.GetAssignment(id)
	if err != nil {
		return Assignment{}, err
	}
	_, err = s.db.Exec(
		`UPDATE assignments SET period_start = ?, period_end = ? WHERE id = ?`,
		fmtTime(start), fmtTime(end), id,
	)
	if err != nil {
		return Assignment{}, fmt.Errorf("update assignment period %s: %w", id, err)
	}
	a.PeriodStart = start.UTC()
	a.PeriodEnd = end.UTC()
	return a, nil
}

// #endregion update-period

// #region scan

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAssignment(r rowScanner) (Assignment, error) {
	var a Assignment
	var desc sql.NullString
	var start, end, created string
	if err := r.Scan(&a.ID, &a.CourseID, &a.CourseName, &a.Title, &desc, &start, &end, &created); err != nil {
		return Assignment{}, err
	}
	if desc.Valid {
		a.Description = desc.String
	}
	a.PeriodStart = parseTime(start)
	a.PeriodEnd = parseTime(end)
	a.CreatedAt = parseTime(created)
	return a, nil
}

// #endregion scan
