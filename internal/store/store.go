package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS assignments (
	id            TEXT PRIMARY KEY,
	course_id     TEXT NOT NULL,
	course_name   TEXT NOT NULL,
	title         TEXT NOT NULL,
	description   TEXT,
	period_start  TEXT NOT NULL,
	period_end    TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS interaction_logs (
	id              TEXT PRIMARY KEY,
	assignment_id   TEXT,
	tool_name       TEXT NOT NULL,
	category        TEXT NOT NULL,
	description     TEXT NOT NULL,
	logged_at       TEXT NOT NULL,
	origin_tag      TEXT NOT NULL DEFAULT 'inferred'
	                  CHECK(origin_tag IN ('student_tagged', 'inferred', 'unassigned')),
	FOREIGN KEY (assignment_id) REFERENCES assignments(id)
);

CREATE TABLE IF NOT EXISTS declarations (
	id                      TEXT PRIMARY KEY,
	assignment_id           TEXT NOT NULL UNIQUE,
	student_id              TEXT NOT NULL,
	status                  TEXT NOT NULL DEFAULT 'draft'
	                          CHECK(status IN ('draft', 'submitted')),
	time_period_locked_at   TEXT,
	submitted_at            TEXT,
	created_at              TEXT NOT NULL,
	updated_at              TEXT NOT NULL,
	FOREIGN KEY (assignment_id) REFERENCES assignments(id)
);

CREATE TABLE IF NOT EXISTS declaration_entries (
	id                    TEXT PRIMARY KEY,
	declaration_id        TEXT NOT NULL,
	interaction_log_id    TEXT,
	field_name            TEXT NOT NULL,
	content               TEXT NOT NULL,
	origin                TEXT NOT NULL
	                        CHECK(origin IN (
	                          'auto-generated',
	                          'auto-generated-modified',
	                          'manual'
	                        )),
	previous_content      TEXT,
	diff_delta            INTEGER,
	created_at            TEXT NOT NULL,
	updated_at            TEXT NOT NULL,
	FOREIGN KEY (declaration_id) REFERENCES declarations(id),
	FOREIGN KEY (interaction_log_id) REFERENCES interaction_logs(id)
);

CREATE TABLE IF NOT EXISTS version_history (
	id              TEXT PRIMARY KEY,
	declaration_id  TEXT NOT NULL,
	trigger_event   TEXT NOT NULL
	                  CHECK(trigger_event IN (
	                    'initial_open',
	                    'review_step',
	                    'submission',
	                    'manual_save',
	                    'pre_regeneration',
	                    'post_regeneration'
	                  )),
	snapshot_data   TEXT NOT NULL,
	active_warnings TEXT NOT NULL DEFAULT '[]',
	created_at      TEXT NOT NULL,
	FOREIGN KEY (declaration_id) REFERENCES declarations(id)
);

CREATE TABLE IF NOT EXISTS manual_usage_entries (
	id              TEXT PRIMARY KEY,
	declaration_id  TEXT NOT NULL,
	tool_name       TEXT NOT NULL,
	date_range      TEXT NOT NULL,
	description     TEXT NOT NULL,
	reason          TEXT NOT NULL
	                  CHECK(reason IN (
	                    'external_device',
	                    'unintegrated_tool',
	                    'before_logging',
	                    'other'
	                  )),
	reason_other    TEXT,
	created_at      TEXT NOT NULL,
	FOREIGN KEY (declaration_id) REFERENCES declarations(id)
);

CREATE TABLE IF NOT EXISTS reflections (
	id              TEXT PRIMARY KEY,
	declaration_id  TEXT NOT NULL UNIQUE,
	prompt1         TEXT NOT NULL DEFAULT '',
	prompt2         TEXT NOT NULL DEFAULT '',
	is_valid        INTEGER NOT NULL DEFAULT 0,
	word_count_p1   INTEGER NOT NULL DEFAULT 0,
	word_count_p2   INTEGER NOT NULL DEFAULT 0,
	updated_at      TEXT NOT NULL,
	FOREIGN KEY (declaration_id) REFERENCES declarations(id)
);

CREATE INDEX IF NOT EXISTS idx_interaction_logs_assignment
	ON interaction_logs(assignment_id);

CREATE INDEX IF NOT EXISTS idx_interaction_logs_logged_at
	ON interaction_logs(logged_at);

CREATE INDEX IF NOT EXISTS idx_declaration_entries_declaration
	ON declaration_entries(declaration_id);

CREATE INDEX IF NOT EXISTS idx_version_history_declaration
	ON version_history(declaration_id);

CREATE INDEX IF NOT EXISTS idx_manual_usage_declaration
	ON manual_usage_entries(declaration_id);
`

// #endregion schema

// #region errors

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned on unique-constraint conflicts the
	// store checks explicitly (one declaration per assignment).
	ErrAlreadyExists = errors.New("already exists")
	// ErrAlreadyAssigned is returned when assigning an interaction log
	// that has already been resolved. Assignment is one-way.
	ErrAlreadyAssigned = errors.New("interaction already assigned")
)

// #endregion errors

// #region store-struct
// Store manages declarations, interaction logs, and version history in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor
// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStoreWithDB wraps an already opened database. The caller owns the
// connection; migrations are assumed to have run.
func NewStoreWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// #endregion constructor

// #region close
// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion close

// #region db-accessor
// DB returns the underlying *sql.DB for use by other packages.
func (s *Store) DB() *sql.DB {
	return s.db
}

// #endregion db-accessor

// #region time-encoding

// timeFormat is RFC 3339 with fixed-width nanoseconds so that stored
// UTC timestamps order correctly under SQLite string comparison.
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func fmtTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// #endregion time-encoding
