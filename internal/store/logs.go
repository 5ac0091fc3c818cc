package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/origin"
)

// #region insert-log
// InsertLog inserts an interaction log. A missing ID is generated; a
// missing origin tag defaults to inferred (unassigned when there is no
// assignment).
func (s *Store) InsertLog(l InteractionLog) (InteractionLog, error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.OriginTag == "" {
		if l.AssignmentID == "" {
			l.OriginTag = origin.TagUnassigned
		} else {
			l.OriginTag = origin.TagInferred
		}
	}

	var assignment interface{}
	if l.AssignmentID != "" {
		assignment = l.AssignmentID
	}

	_, err := s.db.Exec(
		`INSERT INTO interaction_logs (id, assignment_id, tool_name, category, description, logged_at, origin_tag)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, assignment, l.ToolName, l.Category, l.Description,
		fmtTime(l.LoggedAt), string(l.OriginTag),
	)
	if err != nil {
		return InteractionLog{}, fmt.Errorf("insert log: %w", err)
	}
	return l, nil
}

// #endregion insert-log

// #region get-log
// GetLog retrieves an interaction log by ID.
func (s *Store) GetLog(id string) (InteractionLog, error) {
	row := s.db.QueryRow(
		`SELECT id, assignment_id, tool_name, category, description, logged_at, origin_tag
		 FROM interaction_logs WHERE id = ?`, id,
	)
	l, err := scanLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return InteractionLog{}, fmt.Errorf("interaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return InteractionLog{}, fmt.Errorf("get log %s: %w", id, err)
	}
	return l, nil
}

// #endregion get-log

// #region logs-for-assignment
// LogsForAssignment returns all logs attached to an assignment,
// regardless of the time period, ordered by logged_at.
func (s *Store) LogsForAssignment(assignmentID string) ([]InteractionLog, error) {
	return s.queryLogs(
		`SELECT id, assignment_id, tool_name, category, description, logged_at, origin_tag
		 FROM interaction_logs WHERE assignment_id = ? ORDER BY logged_at`, assignmentID,
	)
}

// #endregion logs-for-assignment

// #region scoped-logs
// ScopedLogs returns the assignment's logs whose logged_at falls inside
// the assignment's time period, inclusive on both ends.
func (s *Store) ScopedLogs(assignmentID string) ([]InteractionLog, error) {
	a, err := s.GetAssignment(assignmentID)
	if err != nil {
		return nil, err
	}
	return s.queryLogs(
		`SELECT id, assignment_id, tool_name, category, description, logged_at, origin_tag
		 FROM interaction_logs
		 WHERE assignment_id = ? AND logged_at >= ? AND logged_at <= ?
		 ORDER BY logged_at`,
		assignmentID, fmtTime(a.PeriodStart), fmtTime(a.PeriodEnd),
	)
}

// #endregion scoped-logs

// #region nearby-logs
// NearbyLogs returns unassigned logs within marginDays of the
// assignment's period on either side. Informational: these are
// candidates the student may want to assign.
func (s *Store) NearbyLogs(assignmentID string, marginDays int) ([]InteractionLog, error) {
	a, err := s.GetAssignment(assignmentID)
	if err != nil {
		return nil, err
	}
	margin := time.Duration(marginDays) * 24 * time.Hour
	return s.queryLogs(
		`SELECT id, assignment_id, tool_name, category, description, logged_at, origin_tag
		 FROM interaction_logs
		 WHERE assignment_id IS NULL AND logged_at >= ? AND logged_at <= ?
		 ORDER BY logged_at`,
		fmtTime(a.PeriodStart.Add(-margin)), fmtTime(a.PeriodEnd.Add(margin)),
	)
}

// #endregion nearby-logs

// #region unassigned-logs
// UnassignedLogs returns logs that still need student resolution.
func (s *Store) UnassignedLogs() ([]InteractionLog, error) {
	return s.queryLogs(
		`SELECT id, assignment_id, tool_name, category, description, logged_at, origin_tag
		 FROM interaction_logs
		 WHERE assignment_id IS NULL AND origin_tag = 'unassigned'
		 ORDER BY logged_at`,
	)
}

// #endregion unassigned-logs

// #region assign-log
// AssignLog resolves an unassigned log to an assignment, tagging it
// student_tagged. Assignment is one-way: a log that already belongs to
// an assignment cannot be moved.
func (s *Store) AssignLog(logID, assignmentID string) (InteractionLog, error) {
	l, err := s.GetLog(logID)
	if err != nil {
		return InteractionLog{}, err
	}
	if l.AssignmentID != "" {
		return InteractionLog{}, fmt.Errorf("interaction %s: %w", logID, ErrAlreadyAssigned)
	}
	if _, err := s.GetAssignment(assignmentID); err != nil {
		return InteractionLog{}, err
	}

	_, err = s.db.Exec(
		`UPDATE interaction_logs SET assignment_id = ?, origin_tag = ? WHERE id = ?`,
		assignmentID, string(origin.TagStudentTagged), logID,
	)
	if err != nil {
		return InteractionLog{}, fmt.Errorf("assign log %s: %w", logID, err)
	}

	l.AssignmentID = assignmentID
	l.OriginTag = origin.TagStudentTagged
	return l, nil
}

// #endregion assign-log

// #region scan

func (s *Store) queryLogs(query string, args ...interface{}) ([]InteractionLog, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query logs: %w", err)
	}
	defer rows.Close()

	var out []InteractionLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanLog(r rowScanner) (InteractionLog, error) {
	var l InteractionLog
	var assignment sql.NullString
	var loggedAt, tag string
	if err := r.Scan(&l.ID, &assignment, &l.ToolName, &l.Category, &l.Description, &loggedAt, &tag); err != nil {
		return InteractionLog{}, err
	}
	if assignment.Valid {
		l.AssignmentID = assignment.String
	}
	l.LoggedAt = parseTime(loggedAt)
	l.OriginTag = origin.LogTag(tag)
	return l, nil
}

// #endregion scan
