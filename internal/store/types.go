package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/origin"
)

// #region assignment
// Assignment is an instructor-defined unit of work with a declaration
// time period.
type Assignment struct {
	ID          string
	CourseID    string
	CourseName  string
	Title       string
	Description string
	PeriodStart time.Time
	PeriodEnd   time.Time
	CreatedAt   time.Time
}

// #endregion assignment

// #region interaction-log
// InteractionLog is one captured AI interaction. AssignmentID is empty
// while the log is unassigned.
type InteractionLog struct {
	ID           string
	AssignmentID string
	ToolName     string
	Category     string
	Description  string
	LoggedAt     time.Time
	OriginTag    origin.LogTag
}

// #endregion interaction-log

// #region declaration

// Status is the declaration lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
)

// Declaration is one student's usage declaration for one assignment.
// The assignment's time period is locked at creation; SubmittedAt is
// zero until submission.
type Declaration struct {
	ID                 string    `json:"id"`
	AssignmentID       string    `json:"assignment_id"`
	StudentID          string    `json:"student_id"`
	Status             Status    `json:"status"`
	TimePeriodLockedAt time.Time `json:"time_period_locked_at"`
	SubmittedAt        time.Time `json:"submitted_at,omitzero"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// #endregion declaration

// #region entry
// Entry is a single declaration field. InteractionLogID is set for
// auto-generated entries. PreviousContent is captured on the first
// edit and never overwritten; DiffDelta is the character delta of the
// most recent edit.
type Entry struct {
	ID               string        `json:"id"`
	DeclarationID    string        `json:"declaration_id"`
	InteractionLogID string        `json:"interaction_log_id,omitempty"`
	FieldName        string        `json:"field_name"`
	Content          string        `json:"content"`
	Origin           origin.Origin `json:"origin"`
	PreviousContent  string        `json:"previous_content,omitempty"`
	DiffDelta        int           `json:"diff_delta"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// #endregion entry

// #region manual-entry

// Reason is the predefined explanation for why a usage was not logged.
type Reason string

const (
	ReasonExternalDevice   Reason = "external_device"
	ReasonUnintegratedTool Reason = "unintegrated_tool"
	ReasonBeforeLogging    Reason = "before_logging"
	ReasonOther            Reason = "other"
)

// Valid reports whether r is one of the predefined reasons.
func (r Reason) Valid() bool {
	switch r {
	case ReasonExternalDevice, ReasonUnintegratedTool, ReasonBeforeLogging, ReasonOther:
		return true
	}
	return false
}

// ManualEntry is a usage entry the student declares by hand, for AI
// usage that produced no interaction log.
type ManualEntry struct {
	ID            string    `json:"id"`
	DeclarationID string    `json:"declaration_id"`
	ToolName      string    `json:"tool_name"`
	DateRange     string    `json:"date_range"`
	Description   string    `json:"description"`
	Reason        Reason    `json:"reason"`
	ReasonOther   string    `json:"reason_other,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// manualDescriptionMinWords is the minimum description length.
const manualDescriptionMinWords = 15

// Validate returns the field problems of a manual entry, empty when
// the entry is acceptable.
func (m ManualEntry) Validate() []string {
	var errs []string
	if strings.TrimSpace(m.ToolName) == "" {
		errs = append(errs, "tool_name is required")
	}
	if strings.TrimSpace(m.DateRange) == "" {
		errs = append(errs, "date_range is required")
	}
	if strings.TrimSpace(m.Description) == "" {
		errs = append(errs, "description is required")
	} else if len(strings.Fields(m.Description)) < manualDescriptionMinWords {
		errs = append(errs, fmt.Sprintf("description must be at least %d words", manualDescriptionMinWords))
	}
	if !m.Reason.Valid() {
		errs = append(errs, fmt.Sprintf("reason must be one of: %s, %s, %s, %s",
			ReasonExternalDevice, ReasonUnintegratedTool, ReasonBeforeLogging, ReasonOther))
	}
	if m.Reason == ReasonOther && strings.TrimSpace(m.ReasonOther) == "" {
		errs = append(errs, `reason_other is required when reason is "other"`)
	}
	return errs
}

// #endregion manual-entry

// #region reflection
// Reflection stores both prompt answers plus the validity verdict
// computed at the last update.
type Reflection struct {
	ID            string    `json:"id"`
	DeclarationID string    `json:"declaration_id"`
	Prompt1       string    `json:"prompt1"`
	Prompt2       string    `json:"prompt2"`
	IsValid       bool      `json:"is_valid"`
	WordCountP1   int       `json:"word_count_p1"`
	WordCountP2   int       `json:"word_count_p2"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// #endregion reflection

// #region snapshot-record

// Trigger names the lifecycle event that caused a snapshot.
type Trigger string

const (
	TriggerInitialOpen      Trigger = "initial_open"
	TriggerReviewStep       Trigger = "review_step"
	TriggerSubmission       Trigger = "submission"
	TriggerManualSave       Trigger = "manual_save"
	TriggerPreRegeneration  Trigger = "pre_regeneration"
	TriggerPostRegeneration Trigger = "post_regeneration"
)

// Valid reports whether t is a known trigger.
func (t Trigger) Valid() bool {
	switch t {
	case TriggerInitialOpen, TriggerReviewStep, TriggerSubmission,
		TriggerManualSave, TriggerPreRegeneration, TriggerPostRegeneration:
		return true
	}
	return false
}

// SnapshotRecord is one append-only version_history row. SnapshotData
// and ActiveWarnings hold JSON produced by the snapshot package.
type SnapshotRecord struct {
	ID             string
	DeclarationID  string
	Trigger        Trigger
	SnapshotData   string
	ActiveWarnings string
	CreatedAt      time.Time
}

// #endregion snapshot-record
