package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/store"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: one
// assignment, its interaction logs, and a scripted student session.
type Fixture struct {
	Description string            `json:"description"`
	StudentID   string            `json:"student_id"`
	Assignment  FixtureAssignment `json:"assignment"`
	Logs        []FixtureLog      `json:"logs"`
	Actions     []Action          `json:"actions"`
}

// FixtureAssignment mirrors store.Assignment with JSON tags and
// RFC 3339 period bounds.
type FixtureAssignment struct {
	CourseID    string    `json:"course_id"`
	CourseName  string    `json:"course_name"`
	Title       string    `json:"title"`
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
}

// FixtureLog mirrors store.InteractionLog. Assigned controls whether
// the log starts attached to the assignment or in the resolution queue.
type FixtureLog struct {
	ToolName    string    `json:"tool_name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	LoggedAt    time.Time `json:"logged_at"`
	Assigned    bool      `json:"assigned"`
}

// ActionType names one scripted step.
type ActionType string

const (
	ActionCreateDeclaration ActionType = "create_declaration"
	ActionEditEntry         ActionType = "edit_entry"
	ActionDeleteEntry       ActionType = "delete_entry"
	ActionAddManual         ActionType = "add_manual"
	ActionRemoveManual      ActionType = "remove_manual"
	ActionAssignLog         ActionType = "assign_log"
	ActionRegenerate        ActionType = "regenerate"
	ActionUpdateReflection  ActionType = "update_reflection"
	ActionSaveDraft         ActionType = "save_draft"
	ActionSubmit            ActionType = "submit"
)

// Action is one scripted step. Entries and manual entries are addressed
// by their position in the declaration's current listing order, logs by
// their position in the fixture, so fixtures stay stable across runs
// with generated IDs.
type Action struct {
	Type       ActionType `json:"type"`
	EntryIndex int        `json:"entry_index,omitempty"`
	LogIndex   int        `json:"log_index,omitempty"`
	Content    string     `json:"content,omitempty"`
	Prompt1    string     `json:"prompt1,omitempty"`
	Prompt2    string     `json:"prompt2,omitempty"`

	Manual *FixtureManualEntry `json:"manual,omitempty"`

	// ExpectOutcome is the expected step outcome ("ok", "blocked",
	// "invalid"); ExpectWarnings the expected active warning conditions
	// after the step, order-insensitive. Either may be omitted.
	ExpectOutcome  string   `json:"expect_outcome,omitempty"`
	ExpectWarnings []string `json:"expect_warnings,omitempty"`
}

// FixtureManualEntry mirrors store.ManualEntry for add_manual steps.
type FixtureManualEntry struct {
	ToolName    string `json:"tool_name"`
	DateRange   string `json:"date_range"`
	Description string `json:"description"`
	Reason      string `json:"reason"`
	ReasonOther string `json:"reason_other,omitempty"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToAssignment converts the fixture assignment to the domain type.
func (a *FixtureAssignment) ToAssignment() store.Assignment {
	return store.Assignment{
		CourseID:    a.CourseID,
		CourseName:  a.CourseName,
		Title:       a.Title,
		PeriodStart: a.PeriodStart,
		PeriodEnd:   a.PeriodEnd,
	}
}

// ToManualEntry converts a fixture manual entry to the domain type.
func (m *FixtureManualEntry) ToManualEntry() store.ManualEntry {
	return store.ManualEntry{
		ToolName:    m.ToolName,
		DateRange:   m.DateRange,
		Description: m.Description,
		Reason:      store.Reason(m.Reason),
		ReasonOther: m.ReasonOther,
	}
}

// #endregion fixture-loader
