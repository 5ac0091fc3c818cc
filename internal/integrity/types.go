package integrity

import "time"

// #region condition

// Condition identifies the kind of advisory warning.
type Condition string

const (
	ConditionEntryDeleted Condition = "entry_deleted"
	ConditionScopeReduced Condition = "scope_reduced"
	ConditionCoverageLow  Condition = "coverage_low"
	ConditionToolMissing  Condition = "tool_missing"
)

// #endregion condition

// #region warning

// Warning is an advisory integrity warning. Warnings never block
// submission; they surface in the active set and in snapshots.
type Warning struct {
	ID             string    `json:"id"`
	Condition      Condition `json:"condition"`
	Message        string    `json:"message"`
	RelatedEntryID string    `json:"related_entry_id,omitempty"` // entry_deleted, scope_reduced
	RelatedTool    string    `json:"related_tool,omitempty"`     // tool_missing
	RaisedAt       time.Time `json:"raised_at"`
}

// #endregion warning

// #region config

// Config holds thresholds for the integrity checks.
type Config struct {
	CoverageThreshold  float64 // raise coverage_low below this ratio
	ScopeCharThreshold int     // character reduction that flags an edit
}

// DefaultConfig returns the advisory thresholds.
func DefaultConfig() Config {
	return Config{
		CoverageThreshold:  0.6,
		ScopeCharThreshold: 20,
	}
}

// #endregion config

// #region warning-ids

// Warning IDs are stable per subject so a re-raise is idempotent and a
// clear targets exactly one active warning.

func deletedWarningID(entryID string) string {
	return "warn-deleted-" + entryID
}

func scopeWarningID(entryID string) string {
	return "warn-scope-" + entryID
}

func coverageWarningID(declarationID string) string {
	return "warn-coverage-" + declarationID
}

func toolWarningID(declarationID, tool string) string {
	return "warn-tool-" + declarationID + "-" + tool
}

// #endregion warning-ids
