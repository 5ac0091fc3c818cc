// Package draft plans declaration entries from interaction logs.
// Planning is pure; persistence and snapshots happen in the session.
package draft

import (
	"fmt"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/origin"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/store"
)

// FieldUsageSummary is the field name of generated entries.
const FieldUsageSummary = "usage_summary"

// #region template

// BuildEntryContent renders the generated entry text for one log.
func BuildEntryContent(l store.InteractionLog) string {
	return fmt.Sprintf("%s was used for %s: %s", l.ToolName, l.Category, l.Description)
}

// #endregion template

// #region plan

// Plan returns new auto-generated entries for the logs not yet
// represented in the declaration. A log is represented when any
// existing entry references it, regardless of later edits, so planning
// is idempotent per source log. Logs whose entries were deleted are
// planned again; the deletion warning the removal raised stays active.
func Plan(logs []store.InteractionLog, existing []store.Entry) []store.Entry {
	represented := make(map[string]bool, len(existing))
	for _, e := range existing {
		if e.InteractionLogID != "" {
			represented[e.InteractionLogID] = true
		}
	}

	var planned []store.Entry
	for _, l := range logs {
		if represented[l.ID] {
			continue
		}
		planned = append(planned, store.Entry{
			InteractionLogID: l.ID,
			FieldName:        FieldUsageSummary,
			Content:          BuildEntryContent(l),
			Origin:           origin.AutoGenerated,
		})
	}
	return planned
}

// #endregion plan
