package session

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/draft"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/events"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/integrity"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/reflection"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/snapshot"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/store"
)

// #region assignments

// CreateAssignment registers an assignment with its declaration period.
func (s *Service) CreateAssignment(a store.Assignment) (store.Assignment, error) {
	var problems []string
	if a.Title == "" {
		problems = append(problems, "title is required")
	}
	if a.CourseID == "" {
		problems = append(problems, "course_id is required")
	}
	if !a.PeriodEnd.After(a.PeriodStart) {
		problems = append(problems, "period_end must be after period_start")
	}
	if len(problems) > 0 {
		return store.Assignment{}, &ValidationError{Problems: problems}
	}
	return s.st.CreateAssignment(a)
}

// GetAssignment returns one assignment.
func (s *Service) GetAssignment(id string) (store.Assignment, error) {
	return s.st.GetAssignment(id)
}

// ListAssignments returns all assignments ordered by period start.
func (s *Service) ListAssignments() ([]store.Assignment, error) {
	return s.st.ListAssignments()
}

// UpdateAssignmentPeriod changes the declaration window and reports
// how many in-progress declarations are affected. Declarations keep
// the period they locked at creation.
func (s *Service) UpdateAssignmentPeriod(id string, start, end time.Time) (store.Assignment, int, error) {
	if !end.After(start) {
		return store.Assignment{}, 0, &ValidationError{Problems: []string{"period_end must be after period_start"}}
	}
	a, err := s.st.UpdateAssignmentPeriod(id, start, end)
	if err != nil {
		return store.Assignment{}, 0, err
	}

	affected := 0
	d, err := s.st.GetDeclarationByAssignment(id)
	switch {
	case err == nil:
		if d.Status == store.StatusDraft {
			affected = 1
		}
	case errors.Is(err, store.ErrNotFound):
	default:
		return store.Assignment{}, 0, err
	}
	return a, affected, nil
}

// #endregion assignments

// #region interactions

// LogInteraction records one AI interaction.
func (s *Service) LogInteraction(l store.InteractionLog) (store.InteractionLog, error) {
	var problems []string
	if l.ToolName == "" {
		problems = append(problems, "tool_name is required")
	}
	if l.Category == "" {
		problems = append(problems, "category is required")
	}
	if l.LoggedAt.IsZero() {
		problems = append(problems, "logged_at is required")
	}
	if len(problems) > 0 {
		return store.InteractionLog{}, &ValidationError{Problems: problems}
	}
	return s.st.InsertLog(l)
}

// ScopedLogs returns the assignment's logs inside its time period.
func (s *Service) ScopedLogs(assignmentID string) ([]store.InteractionLog, error) {
	return s.st.ScopedLogs(assignmentID)
}

// NearbyLogs returns unassigned logs just outside the period window.
func (s *Service) NearbyLogs(assignmentID string) ([]store.InteractionLog, error) {
	return s.st.NearbyLogs(assignmentID, s.cfg.NearbyMarginDays)
}

// UnassignedLogs returns the resolution queue.
func (s *Service) UnassignedLogs() ([]store.InteractionLog, error) {
	return s.st.UnassignedLogs()
}

// AssignInteraction resolves an unassigned log to an assignment. If a
// declaration exists for the assignment, its monitor rechecks coverage
// and tool mentions.
func (s *Service) AssignInteraction(logID, assignmentID string) (store.InteractionLog, error) {
	l, err := s.st.AssignLog(logID, assignmentID)
	if err != nil {
		return store.InteractionLog{}, err
	}

	declarationID := ""
	d, err := s.st.GetDeclarationByAssignment(assignmentID)
	switch {
	case err == nil:
		declarationID = d.ID
	case errors.Is(err, store.ErrNotFound):
	default:
		return store.InteractionLog{}, err
	}

	if err := s.bus.Emit(events.Event{
		Kind:          events.KindInteractionAssigned,
		DeclarationID: declarationID,
		LogID:         logID,
		At:            time.Now().UTC(),
	}); err != nil {
		return store.InteractionLog{}, err
	}
	log.Printf("[SESSION] assigned interaction %s to assignment %s", logID, assignmentID)
	return l, nil
}

// #endregion interactions

// #region declaration-lifecycle

// CreateDeclaration opens a declaration for an assignment and generates
// the initial draft from the time-period-scoped logs, in one store
// transaction. The resolution gate runs first; an initial_open snapshot
// closes the operation.
func (s *Service) CreateDeclaration(assignmentID, studentID string) (DeclarationView, error) {
	if studentID == "" {
		return DeclarationView{}, &ValidationError{Problems: []string{"student_id is required"}}
	}
	a, err := s.st.GetAssignment(assignmentID)
	if err != nil {
		return DeclarationView{}, err
	}

	if err := s.checkGate(a, store.Declaration{Status: store.StatusDraft}); err != nil {
		return DeclarationView{}, err
	}

	scoped, err := s.st.ScopedLogs(assignmentID)
	if err != nil {
		return DeclarationView{}, err
	}
	planned := draft.Plan(scoped, nil)

	d, err := s.st.CreateDeclaration(assignmentID, studentID, planned)
	if err != nil {
		return DeclarationView{}, err
	}
	log.Printf("[SESSION] opened declaration %s with %d generated entries", d.ID, len(planned))

	if _, err := s.capture(d.ID, store.TriggerInitialOpen); err != nil {
		return DeclarationView{}, err
	}
	return s.GetDeclaration(d.ID)
}

// GetDeclaration returns the declaration with entries, manual entries,
// and reflection.
func (s *Service) GetDeclaration(id string) (DeclarationView, error) {
	d, err := s.st.GetDeclaration(id)
	if err != nil {
		return DeclarationView{}, err
	}
	entries, err := s.st.EntriesForDeclaration(id)
	if err != nil {
		return DeclarationView{}, err
	}
	manual, err := s.st.ManualEntriesForDeclaration(id)
	if err != nil {
		return DeclarationView{}, err
	}
	view := DeclarationView{Declaration: d, Entries: entries, ManualEntries: manual}

	refl, err := s.st.GetReflection(id)
	switch {
	case err == nil:
		view.Reflection = &refl
	case errors.Is(err, store.ErrNotFound):
	default:
		return DeclarationView{}, err
	}
	return view, nil
}

// GenerateDraft merges auto-generated entries for scoped logs not yet
// represented in the declaration. Gate-checked; returns the number of
// entries added.
func (s *Service) GenerateDraft(declarationID string) (int, error) {
	d, err := s.st.GetDeclaration(declarationID)
	if err != nil {
		return 0, err
	}
	a, err := s.st.GetAssignment(d.AssignmentID)
	if err != nil {
		return 0, err
	}
	if err := s.checkGate(a, d); err != nil {
		return 0, err
	}

	scoped, err := s.st.ScopedLogs(d.AssignmentID)
	if err != nil {
		return 0, err
	}
	existing, err := s.st.EntriesForDeclaration(declarationID)
	if err != nil {
		return 0, err
	}

	planned := draft.Plan(scoped, existing)
	if _, err := s.st.InsertEntries(declarationID, planned); err != nil {
		return 0, err
	}

	// The generated entries change declared count and contents.
	m, err := s.monitorFor(declarationID)
	if err != nil {
		return 0, err
	}
	if err := m.Activate(); err != nil {
		return 0, err
	}

	log.Printf("[SESSION] generated %d entries for declaration %s", len(planned), declarationID)
	return len(planned), nil
}

// Regenerate re-runs draft generation, bracketed by pre_regeneration
// and post_regeneration snapshots. Existing entries, edits, manual
// entries, and reflections are preserved; only logs without an entry
// gain one.
func (s *Service) Regenerate(declarationID string) (int, error) {
	d, err := s.st.GetDeclaration(declarationID)
	if err != nil {
		return 0, err
	}
	a, err := s.st.GetAssignment(d.AssignmentID)
	if err != nil {
		return 0, err
	}
	if err := s.checkGate(a, d); err != nil {
		return 0, err
	}

	if _, err := s.capture(declarationID, store.TriggerPreRegeneration); err != nil {
		return 0, err
	}
	added, err := s.GenerateDraft(declarationID)
	if err != nil {
		return 0, err
	}
	if _, err := s.capture(declarationID, store.TriggerPostRegeneration); err != nil {
		return 0, err
	}
	return added, nil
}

func (s *Service) checkGate(a store.Assignment, d store.Declaration) error {
	unassigned, err := s.st.UnassignedLogs()
	if err != nil {
		return err
	}
	dec := s.gate.EvaluateGeneration(a, d, unassigned)
	if dec.Vetoed {
		log.Printf("[SESSION] generation blocked for assignment %s: %s", a.ID, dec.Reason)
		return &GenerationBlockedError{Decision: dec}
	}
	return nil
}

// #endregion declaration-lifecycle

// #region entries

// AddEntry appends an entry to a draft declaration.
func (s *Service) AddEntry(declarationID string, e store.Entry) (store.Entry, error) {
	var problems []string
	if e.FieldName == "" {
		problems = append(problems, "field_name is required")
	}
	if e.Content == "" {
		problems = append(problems, "content is required")
	}
	if !e.Origin.Valid() {
		problems = append(problems, "origin must be a known value")
	}
	if len(problems) > 0 {
		return store.Entry{}, &ValidationError{Problems: problems}
	}
	if _, err := s.st.GetDeclaration(declarationID); err != nil {
		return store.Entry{}, err
	}

	e.DeclarationID = declarationID
	inserted, err := s.st.InsertEntry(e)
	if err != nil {
		return store.Entry{}, err
	}
	if err := s.st.TouchDeclaration(declarationID); err != nil {
		return store.Entry{}, err
	}
	return inserted, nil
}

// EditEntry applies a content edit. The origin moves forward, the
// first edit pins previous_content, and the monitor runs the scope
// check against the replaced text.
func (s *Service) EditEntry(declarationID, entryID, content string) (store.Entry, error) {
	if content == "" {
		return store.Entry{}, &ValidationError{Problems: []string{"content is required"}}
	}
	updated, replaced, err := s.st.UpdateEntryContent(declarationID, entryID, content)
	if err != nil {
		return store.Entry{}, err
	}
	if err := s.st.TouchDeclaration(declarationID); err != nil {
		return store.Entry{}, err
	}

	if err := s.bus.Emit(events.Event{
		Kind:            events.KindEntryModified,
		DeclarationID:   declarationID,
		EntryID:         entryID,
		PreviousContent: replaced,
		NewContent:      content,
		DiffDelta:       updated.DiffDelta,
		At:              time.Now().UTC(),
	}); err != nil {
		return store.Entry{}, err
	}
	return updated, nil
}

// DeleteEntry removes an entry. Deleting an auto-derived entry leaves
// a permanent warning unless the usage is redeclared manually.
func (s *Service) DeleteEntry(declarationID, entryID string) error {
	deleted, err := s.st.DeleteEntry(declarationID, entryID)
	if err != nil {
		return err
	}
	if err := s.st.TouchDeclaration(declarationID); err != nil {
		return err
	}
	return s.bus.Emit(events.Event{
		Kind:          events.KindEntryDeleted,
		DeclarationID: declarationID,
		EntryID:       entryID,
		Origin:        string(deleted.Origin),
		At:            time.Now().UTC(),
	})
}

// #endregion entries

// #region manual-entries

// AddManualEntry declares unlogged AI usage. All fields are validated
// before the write; the monitor then rechecks coverage and mentions.
func (s *Service) AddManualEntry(declarationID string, m store.ManualEntry) (store.ManualEntry, error) {
	if problems := m.Validate(); len(problems) > 0 {
		return store.ManualEntry{}, &ValidationError{Problems: problems}
	}
	m.DeclarationID = declarationID
	inserted, err := s.st.InsertManualEntry(m)
	if err != nil {
		return store.ManualEntry{}, err
	}
	if err := s.st.TouchDeclaration(declarationID); err != nil {
		return store.ManualEntry{}, err
	}

	if err := s.bus.Emit(events.Event{
		Kind:          events.KindManualEntryAdded,
		DeclarationID: declarationID,
		EntryID:       inserted.ID,
		At:            time.Now().UTC(),
	}); err != nil {
		return store.ManualEntry{}, err
	}
	return inserted, nil
}

// RemoveManualEntry retracts a manual entry.
func (s *Service) RemoveManualEntry(declarationID, entryID string) error {
	if _, err := s.st.DeleteManualEntry(declarationID, entryID); err != nil {
		return err
	}
	if err := s.st.TouchDeclaration(declarationID); err != nil {
		return err
	}
	return s.bus.Emit(events.Event{
		Kind:          events.KindManualEntryRemoved,
		DeclarationID: declarationID,
		EntryID:       entryID,
		At:            time.Now().UTC(),
	})
}

// #endregion manual-entries

// #region reflection

// UpdateReflection saves both prompts with a freshly computed verdict.
// The same validation runs here and at the submission gate.
func (s *Service) UpdateReflection(declarationID, prompt1, prompt2 string) (store.Reflection, reflection.Result, error) {
	res := reflection.Validate(prompt1, prompt2, s.cfg.AsReflection())
	saved, err := s.st.UpsertReflection(store.Reflection{
		DeclarationID: declarationID,
		Prompt1:       prompt1,
		Prompt2:       prompt2,
		IsValid:       res.Valid,
		WordCountP1:   res.Prompt1.WordCount,
		WordCountP2:   res.Prompt2.WordCount,
	})
	if err != nil {
		return store.Reflection{}, reflection.Result{}, err
	}
	if err := s.st.TouchDeclaration(declarationID); err != nil {
		return store.Reflection{}, reflection.Result{}, err
	}

	if err := s.bus.Emit(events.Event{
		Kind:          events.KindReflectionUpdated,
		DeclarationID: declarationID,
		At:            time.Now().UTC(),
	}); err != nil {
		return store.Reflection{}, reflection.Result{}, err
	}
	return saved, res, nil
}

// #endregion reflection

// #region submit

// Submit finalizes the declaration. The stored reflection must be
// valid; advisory warnings never block. A submission snapshot records
// the final state.
func (s *Service) Submit(declarationID string) (store.Declaration, error) {
	refl, err := s.st.GetReflection(declarationID)
	if errors.Is(err, store.ErrNotFound) {
		return store.Declaration{}, fmt.Errorf("declaration %s: %w", declarationID, ErrReflectionInvalid)
	}
	if err != nil {
		return store.Declaration{}, err
	}
	if !refl.IsValid {
		return store.Declaration{}, fmt.Errorf("declaration %s: %w", declarationID, ErrReflectionInvalid)
	}

	m, err := s.monitorFor(declarationID)
	if err != nil {
		return store.Declaration{}, err
	}
	// Status change and submission snapshot commit together; a failed
	// snapshot leaves the declaration a draft.
	d, err := s.recorder.CaptureSubmission(declarationID, m.Active())
	if err != nil {
		return store.Declaration{}, err
	}
	if err := s.bus.Emit(events.Event{
		Kind:          events.KindSnapshotCaptured,
		DeclarationID: declarationID,
		Trigger:       string(store.TriggerSubmission),
		At:            time.Now().UTC(),
	}); err != nil {
		return store.Declaration{}, err
	}
	log.Printf("[SESSION] submitted declaration %s", declarationID)
	return d, nil
}

// SaveDraft snapshots the current draft state explicitly.
func (s *Service) SaveDraft(declarationID string) (store.SnapshotRecord, error) {
	return s.capture(declarationID, store.TriggerManualSave)
}

// EnterReview snapshots the state at the start of the review step.
func (s *Service) EnterReview(declarationID string) (store.SnapshotRecord, error) {
	return s.capture(declarationID, store.TriggerReviewStep)
}

// #endregion submit

// #region reads

// ListSnapshots returns the declaration's decoded version history,
// oldest first.
func (s *Service) ListSnapshots(declarationID string) ([]snapshot.Version, error) {
	return s.recorder.History(declarationID)
}

// GetSnapshot returns one decoded snapshot.
func (s *Service) GetSnapshot(id string) (snapshot.Version, error) {
	return s.recorder.Get(id)
}

// Stats returns the coverage read model for a declaration.
func (s *Service) Stats(declarationID string) (Stats, error) {
	d, err := s.st.GetDeclaration(declarationID)
	if err != nil {
		return Stats{}, err
	}
	declared, err := s.st.DeclaredCount(declarationID)
	if err != nil {
		return Stats{}, err
	}
	scoped, err := s.st.ScopedLogs(d.AssignmentID)
	if err != nil {
		return Stats{}, err
	}

	logged := len(scoped)
	coverage := integrity.CoverageRatio(declared, logged)
	return Stats{
		DeclaredCount: declared,
		LoggedCount:   logged,
		Coverage:      coverage,
		CoverageLow:   logged > 0 && coverage < s.cfg.Integrity.CoverageThreshold,
	}, nil
}

// ActiveWarnings returns the declaration's current advisory warnings.
func (s *Service) ActiveWarnings(declarationID string) ([]integrity.Warning, error) {
	m, err := s.monitorFor(declarationID)
	if err != nil {
		return nil, err
	}
	return m.Active(), nil
}

// #endregion reads
