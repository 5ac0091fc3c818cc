package replay

import (
	"errors"
	"fmt"
	"sort"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/session"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/store"
)

// #region result-types

// StepResult captures the outcome of one scripted action.
type StepResult struct {
	Index   int
	Type    ActionType
	Outcome string // "ok" | "blocked" | "invalid" | "error"
	Err     string

	// Active warning conditions after the step, sorted.
	Warnings []string
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalSteps  int
	OK          int
	Blocked     int
	Invalid     int
	Errors      int
	Snapshots   int
	FinalStatus store.Status

	// Mismatches lists steps whose outcome or warning set differed from
	// the fixture's expectations.
	Mismatches []string
}

// #endregion result-types

// #region runner

// Runner replays a fixture through a fully wired session service.
type Runner struct {
	svc *session.Service

	assignmentID  string
	declarationID string
	logIDs        []string
}

// NewRunner wraps an existing service. The service's store should be
// empty; the fixture seeds everything it needs.
func NewRunner(svc *session.Service) *Runner {
	return &Runner{svc: svc}
}

// Run seeds the fixture's assignment and logs, then executes each
// action in order. Steps that fail keep the run going so the remaining
// script still exercises the warning pipeline.
func (r *Runner) Run(f *Fixture) ([]StepResult, error) {
	a, err := r.svc.CreateAssignment(f.Assignment.ToAssignment())
	if err != nil {
		return nil, fmt.Errorf("seed assignment: %w", err)
	}
	r.assignmentID = a.ID

	for i, fl := range f.Logs {
		l := store.InteractionLog{
			ToolName:    fl.ToolName,
			Category:    fl.Category,
			Description: fl.Description,
			LoggedAt:    fl.LoggedAt,
		}
		if fl.Assigned {
			l.AssignmentID = a.ID
		}
		inserted, err := r.svc.LogInteraction(l)
		if err != nil {
			return nil, fmt.Errorf("seed log %d: %w", i, err)
		}
		r.logIDs = append(r.logIDs, inserted.ID)
	}

	results := make([]StepResult, 0, len(f.Actions))
	for i, act := range f.Actions {
		res := StepResult{Index: i, Type: act.Type}
		err := r.step(f, act)
		res.Outcome = classify(err)
		if err != nil {
			res.Err = err.Error()
		}
		if r.declarationID != "" {
			warnings, werr := r.svc.ActiveWarnings(r.declarationID)
			if werr != nil {
				return nil, fmt.Errorf("step %d warnings: %w", i, werr)
			}
			for _, w := range warnings {
				res.Warnings = append(res.Warnings, string(w.Condition))
			}
			sort.Strings(res.Warnings)
		}
		results = append(results, res)
	}
	return results, nil
}

func (r *Runner) step(f *Fixture, act Action) error {
	switch act.Type {
	case ActionCreateDeclaration:
		view, err := r.svc.CreateDeclaration(r.assignmentID, f.StudentID)
		if err != nil {
			return err
		}
		r.declarationID = view.Declaration.ID
		return nil

	case ActionEditEntry:
		id, err := r.entryID(act.EntryIndex)
		if err != nil {
			return err
		}
		_, err = r.svc.EditEntry(r.declarationID, id, act.Content)
		return err

	case ActionDeleteEntry:
		id, err := r.entryID(act.EntryIndex)
		if err != nil {
			return err
		}
		return r.svc.DeleteEntry(r.declarationID, id)

	case ActionAddManual:
		if act.Manual == nil {
			return fmt.Errorf("add_manual step missing manual payload")
		}
		_, err := r.svc.AddManualEntry(r.declarationID, act.Manual.ToManualEntry())
		return err

	case ActionRemoveManual:
		manual, err := r.svc.Store().ManualEntriesForDeclaration(r.declarationID)
		if err != nil {
			return err
		}
		if act.EntryIndex >= len(manual) {
			return fmt.Errorf("manual entry index %d out of range (%d entries)", act.EntryIndex, len(manual))
		}
		return r.svc.RemoveManualEntry(r.declarationID, manual[act.EntryIndex].ID)

	case ActionAssignLog:
		if act.LogIndex >= len(r.logIDs) {
			return fmt.Errorf("log index %d out of range (%d logs)", act.LogIndex, len(r.logIDs))
		}
		_, err := r.svc.AssignInteraction(r.logIDs[act.LogIndex], r.assignmentID)
		return err

	case ActionRegenerate:
		_, err := r.svc.Regenerate(r.declarationID)
		return err

	case ActionUpdateReflection:
		_, _, err := r.svc.UpdateReflection(r.declarationID, act.Prompt1, act.Prompt2)
		return err

	case ActionSaveDraft:
		_, err := r.svc.SaveDraft(r.declarationID)
		return err

	case ActionSubmit:
		_, err := r.svc.Submit(r.declarationID)
		return err

	default:
		return fmt.Errorf("unknown action type %q", act.Type)
	}
}

// entryID resolves a positional reference against the declaration's
// current entry listing.
func (r *Runner) entryID(index int) (string, error) {
	entries, err := r.svc.Store().EntriesForDeclaration(r.declarationID)
	if err != nil {
		return "", err
	}
	if index >= len(entries) {
		return "", fmt.Errorf("entry index %d out of range (%d entries)", index, len(entries))
	}
	return entries[index].ID, nil
}

func classify(err error) string {
	var blocked *session.GenerationBlockedError
	var invalid *session.ValidationError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &blocked):
		return "blocked"
	case errors.As(err, &invalid), errors.Is(err, session.ErrReflectionInvalid):
		return "invalid"
	default:
		return "error"
	}
}

// #endregion runner

// #region summarize

// Summarize aggregates step results and checks them against the
// fixture's per-step expectations.
func (r *Runner) Summarize(f *Fixture, results []StepResult) (Summary, error) {
	s := Summary{TotalSteps: len(results)}
	for _, res := range results {
		switch res.Outcome {
		case "ok":
			s.OK++
		case "blocked":
			s.Blocked++
		case "invalid":
			s.Invalid++
		default:
			s.Errors++
		}
	}

	for i, res := range results {
		act := f.Actions[i]
		if act.ExpectOutcome != "" && act.ExpectOutcome != res.Outcome {
			s.Mismatches = append(s.Mismatches,
				fmt.Sprintf("step %d (%s): outcome %s, expected %s", i, act.Type, res.Outcome, act.ExpectOutcome))
		}
		if act.ExpectWarnings != nil && !sameSet(act.ExpectWarnings, res.Warnings) {
			s.Mismatches = append(s.Mismatches,
				fmt.Sprintf("step %d (%s): warnings %v, expected %v", i, act.Type, res.Warnings, act.ExpectWarnings))
		}
	}

	if r.declarationID != "" {
		d, err := r.svc.Store().GetDeclaration(r.declarationID)
		if err != nil {
			return Summary{}, err
		}
		s.FinalStatus = d.Status
		versions, err := r.svc.ListSnapshots(r.declarationID)
		if err != nil {
			return Summary{}, err
		}
		s.Snapshots = len(versions)
	}
	return s, nil
}

func sameSet(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	w := append([]string(nil), want...)
	g := append([]string(nil), got...)
	sort.Strings(w)
	sort.Strings(g)
	for i := range w {
		if w[i] != g[i] {
			return false
		}
	}
	return true
}

// #endregion summarize
