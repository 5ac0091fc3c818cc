package integrity

import (
	"strings"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/origin"
)

// Pure check predicates. The monitor turns these into raised or cleared
// warnings; keeping them side-effect free makes the heuristics directly
// testable and reusable by the stats read model.

// #region coverage

// CoverageRatio returns declared/logged. A declaration with nothing
// logged against it is trivially fully covered.
func CoverageRatio(declared, logged int) float64 {
	if logged == 0 {
		return 1
	}
	return float64(declared) / float64(logged)
}

// #endregion coverage

// #region deletion

// DeletionSuspect reports whether deleting an entry with the given
// origin warrants a warning. Only auto-derived entries count; removing
// a manual entry is an ordinary retraction.
func DeletionSuspect(o origin.Origin) bool {
	return o.IsAutoDerived()
}

// #endregion deletion

// #region scope

// ToolMentionRemoved reports whether any logged tool was named in the
// previous content but no longer appears in the new content.
// Matching is a case-insensitive substring test.
func ToolMentionRemoved(previous, next string, tools []string) bool {
	prevLower := strings.ToLower(previous)
	nextLower := strings.ToLower(next)
	for _, tool := range tools {
		t := strings.ToLower(tool)
		if strings.Contains(prevLower, t) && !strings.Contains(nextLower, t) {
			return true
		}
	}
	return false
}

// ScopeReduced reports whether an edit appears to shrink the described
// AI involvement: the content lost strictly more than charThreshold
// characters, or a logged tool's mention disappeared.
func ScopeReduced(previous, next string, diffDelta int, tools []string, charThreshold int) bool {
	if diffDelta < -charThreshold {
		return true
	}
	return ToolMentionRemoved(previous, next, tools)
}

// #endregion scope

// #region tool-mentions

// MissingTools returns the logged tools that are not mentioned in any
// of the given entry contents, in the order the tools were given.
func MissingTools(contents, tools []string) []string {
	all := strings.ToLower(strings.Join(contents, " "))
	var missing []string
	for _, tool := range tools {
		if !strings.Contains(all, strings.ToLower(tool)) {
			missing = append(missing, tool)
		}
	}
	return missing
}

// #endregion tool-mentions
