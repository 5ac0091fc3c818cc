package integrity

import (
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/origin"
)

// #region source

// Source supplies the declaration-level facts every check reads.
// Backed by the store in production, by a fake in tests.
type Source interface {
	// DeclaredCount is the number of entries plus manual entries.
	// Manual entries count the same as auto-generated ones.
	DeclaredCount() (int, error)

	// EntryContents returns the text of all entries and manual entry
	// descriptions for tool-mention scanning.
	EntryContents() ([]string, error)

	// LoggedTotal is the number of interaction logs in scope for the
	// declaration's time period.
	LoggedTotal() (int, error)

	// LoggedTools returns the distinct tool names across in-scope logs.
	LoggedTools() ([]string, error)
}

// #endregion source

// #region monitor

// Monitor evaluates integrity checks for one declaration and maintains
// its active warning set. Warnings are advisory only. The session owns
// one monitor per open declaration and routes mutation events to it.
//
// Re-raising an already active warning keeps the original RaisedAt.
// Deletion warnings, once raised, are never cleared by later activity;
// the other conditions clear as soon as their predicate stops holding.
type Monitor struct {
	declarationID string
	src           Source
	cfg           Config
	now           func() time.Time
	active        map[string]Warning
}

// NewMonitor creates a monitor for the given declaration.
func NewMonitor(declarationID string, src Source, cfg Config) *Monitor {
	return &Monitor{
		declarationID: declarationID,
		src:           src,
		cfg:           cfg,
		now:           time.Now,
		active:        make(map[string]Warning),
	}
}

// Activate runs the initial coverage and tool-mention checks. Called
// once when a declaration is opened or regenerated.
func (m *Monitor) Activate() error {
	if err := m.checkCoverage(); err != nil {
		return err
	}
	return m.checkToolMentions()
}

// Active returns the active warnings ordered by RaisedAt, then ID for
// a stable order within the same instant.
func (m *Monitor) Active() []Warning {
	out := make([]Warning, 0, len(m.active))
	for _, w := range m.active {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RaisedAt.Equal(out[j].RaisedAt) {
			return out[i].RaisedAt.Before(out[j].RaisedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// #endregion monitor

// #region handlers

// HandleEntryDeleted runs the deletion check for the removed entry,
// then rechecks coverage and tool mentions against the reduced state.
func (m *Monitor) HandleEntryDeleted(entryID string, o origin.Origin) error {
	if DeletionSuspect(o) {
		m.raise(Warning{
			ID:             deletedWarningID(entryID),
			Condition:      ConditionEntryDeleted,
			Message:        "An auto-generated entry was deleted. If this AI usage was real, add a manual entry to maintain an accurate declaration.",
			RelatedEntryID: entryID,
		})
	}
	if err := m.checkCoverage(); err != nil {
		return err
	}
	return m.checkToolMentions()
}

// HandleEntryModified runs the scope-reduction check for the edited
// entry and rechecks tool mentions.
func (m *Monitor) HandleEntryModified(entryID, previous, next string, diffDelta int) error {
	tools, err := m.src.LoggedTools()
	if err != nil {
		return fmt.Errorf("logged tools: %w", err)
	}
	if ScopeReduced(previous, next, diffDelta, tools, m.cfg.ScopeCharThreshold) {
		m.raise(Warning{
			ID:             scopeWarningID(entryID),
			Condition:      ConditionScopeReduced,
			Message:        "An edit appears to reduce the described scope of AI involvement. Ensure your declaration still accurately represents your usage.",
			RelatedEntryID: entryID,
		})
	} else {
		m.clear(scopeWarningID(entryID))
	}
	return m.checkToolMentions()
}

// HandleManualAdded rechecks coverage and tool mentions after a manual
// entry is added.
func (m *Monitor) HandleManualAdded() error {
	if err := m.checkCoverage(); err != nil {
		return err
	}
	return m.checkToolMentions()
}

// HandleManualRemoved rechecks coverage after a manual entry is
// removed. Tool mentions are left alone: removing a manual entry can
// only lose mentions, and a stale tool warning would re-raise on the
// next edit anyway.
func (m *Monitor) HandleManualRemoved() error {
	return m.checkCoverage()
}

// HandleInteractionAssigned rechecks coverage and tool mentions after
// an unassigned log lands in the declaration's scope, growing the
// logged total and possibly the tool set.
func (m *Monitor) HandleInteractionAssigned() error {
	if err := m.checkCoverage(); err != nil {
		return err
	}
	return m.checkToolMentions()
}

// #endregion handlers

// #region checks

func (m *Monitor) checkCoverage() error {
	logged, err := m.src.LoggedTotal()
	if err != nil {
		return fmt.Errorf("logged total: %w", err)
	}
	declared, err := m.src.DeclaredCount()
	if err != nil {
		return fmt.Errorf("declared count: %w", err)
	}

	coverage := CoverageRatio(declared, logged)
	if logged > 0 && coverage < m.cfg.CoverageThreshold {
		pct := int(math.Round(coverage * 100))
		m.raise(Warning{
			ID:        coverageWarningID(m.declarationID),
			Condition: ConditionCoverageLow,
			Message: fmt.Sprintf(
				"Your declaration covers only %d%% of your logged interactions (minimum recommended: %d%%). Consider adding manual entries for uncovered interactions.",
				pct, int(math.Round(m.cfg.CoverageThreshold*100))),
		})
		return nil
	}
	m.clear(coverageWarningID(m.declarationID))
	return nil
}

func (m *Monitor) checkToolMentions() error {
	tools, err := m.src.LoggedTools()
	if err != nil {
		return fmt.Errorf("logged tools: %w", err)
	}
	contents, err := m.src.EntryContents()
	if err != nil {
		return fmt.Errorf("entry contents: %w", err)
	}

	missing := make(map[string]bool, len(tools))
	for _, tool := range MissingTools(contents, tools) {
		missing[tool] = true
	}
	for _, tool := range tools {
		id := toolWarningID(m.declarationID, tool)
		if missing[tool] {
			m.raise(Warning{
				ID:          id,
				Condition:   ConditionToolMissing,
				Message:     fmt.Sprintf("%q appears in your interaction logs but is not mentioned in your declaration. Ensure all AI tools are accounted for.", tool),
				RelatedTool: tool,
			})
		} else {
			m.clear(id)
		}
	}
	return nil
}

// #endregion checks

// #region raise-clear

// raise adds a warning to the active set. Idempotent: if the same ID
// is already active, the original RaisedAt is kept.
func (m *Monitor) raise(w Warning) {
	if _, ok := m.active[w.ID]; ok {
		return
	}
	w.RaisedAt = m.now()
	m.active[w.ID] = w
	log.Printf("[INTEG] raise %s condition=%s declaration=%s", w.ID, w.Condition, m.declarationID)
}

// clear removes a warning from the active set if present.
func (m *Monitor) clear(id string) {
	if _, ok := m.active[id]; !ok {
		return
	}
	delete(m.active, id)
	log.Printf("[INTEG] clear %s declaration=%s", id, m.declarationID)
}

// #endregion raise-clear
