package gate

// #region veto-type
// VetoType enumerates hard veto categories for draft generation.
type VetoType string

const (
	VetoUnresolvedInteraction VetoType = "unresolved_interaction"
	VetoSubmitted             VetoType = "submitted_declaration"
)

// #endregion veto-type

// #region veto-signal
// VetoSignal represents a detected blocking condition.
type VetoSignal struct {
	Type   VetoType
	Reason string
	LogID  string // set for unresolved_interaction
}

// #endregion veto-signal

// #region gate-config
// Config holds the window settings for resolution checks.
type Config struct {
	// MarginDays widens the assignment period when deciding whether an
	// unassigned interaction is relevant enough to block generation.
	MarginDays int
}

// DefaultConfig blocks on unassigned interactions strictly inside the
// assignment period.
func DefaultConfig() Config {
	return Config{MarginDays: 0}
}

// #endregion gate-config

// #region decision
// Decision is the output of a gate evaluation.
type Decision struct {
	Action      string // "proceed" | "block"
	Reason      string
	Vetoed      bool
	VetoSignals []VetoSignal // non-empty if vetoed
}

// #endregion decision
