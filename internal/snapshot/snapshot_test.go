package snapshot

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/integrity"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/origin"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/store"
)

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedDeclaration(t *testing.T, s *store.Store) store.Declaration {
	t.Helper()
	a, err := s.CreateAssignment(store.Assignment{
		CourseID:   "INF3490",
		CourseName: "Advanced Software Engineering",
		Title:      "Exercise 1",
		PeriodStart: time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	d, err := s.CreateDeclaration(a.ID, "student-1", []store.Entry{{
		FieldName: "usage_summary",
		Content:   "ChatGPT was used for code generation: generated a parser skeleton",
		Origin:    origin.AutoGenerated,
	}})
	if err != nil {
		t.Fatalf("CreateDeclaration: %v", err)
	}
	return d
}

func TestCaptureAndHistoryRoundTrip(t *testing.T) {
	s := testStore(t)
	d := seedDeclaration(t, s)
	r := NewRecorder(s)

	rec, err := r.Capture(d.ID, store.TriggerInitialOpen, nil)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if rec.Trigger != store.TriggerInitialOpen {
		t.Fatalf("wrong trigger: %s", rec.Trigger)
	}

	history, err := r.History(d.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 version, got %d", len(history))
	}

	entries, _ := s.EntriesForDeclaration(d.ID)
	got := history[0].Payload
	if diff := cmp.Diff(entries, got.Entries); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	if got.Declaration.ID != d.ID {
		t.Fatalf("wrong declaration: %s", got.Declaration.ID)
	}
	if got.Reflection != nil {
		t.Fatal("reflection should be nil before the student starts it")
	}
	if len(history[0].Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", history[0].Warnings)
	}
}

func TestCapturePreservesWarnings(t *testing.T) {
	s := testStore(t)
	d := seedDeclaration(t, s)
	r := NewRecorder(s)

	warnings := []integrity.Warning{{
		ID:        "warn-coverage-" + d.ID,
		Condition: integrity.ConditionCoverageLow,
		Message:   "Your declaration covers only 40% of your logged interactions (minimum recommended: 60%). Consider adding manual entries for uncovered interactions.",
		RaisedAt:  time.Date(2025, 11, 2, 12, 0, 0, 0, time.UTC),
	}}

	rec, err := r.Capture(d.ID, store.TriggerManualSave, warnings)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	v, err := r.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(warnings, v.Warnings); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestCaptureIncludesReflection(t *testing.T) {
	s := testStore(t)
	d := seedDeclaration(t, s)
	r := NewRecorder(s)

	if _, err := s.UpsertReflection(store.Reflection{
		DeclarationID: d.ID,
		Prompt1:       "first answer",
		Prompt2:       "second answer",
		IsValid:       true,
		WordCountP1:   26,
		WordCountP2:   29,
	}); err != nil {
		t.Fatalf("UpsertReflection: %v", err)
	}

	rec, err := r.Capture(d.ID, store.TriggerReviewStep, nil)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	v, err := r.Get(rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.Payload.Reflection == nil || !v.Payload.Reflection.IsValid {
		t.Fatalf("reflection missing from payload: %+v", v.Payload.Reflection)
	}
}

func TestCaptureSubmissionRecordsSubmittedState(t *testing.T) {
	s := testStore(t)
	d := seedDeclaration(t, s)
	r := NewRecorder(s)

	got, err := r.CaptureSubmission(d.ID, nil)
	if err != nil {
		t.Fatalf("CaptureSubmission: %v", err)
	}
	if got.Status != store.StatusSubmitted || got.SubmittedAt.IsZero() {
		t.Fatalf("unexpected declaration: %+v", got)
	}

	history, err := r.History(d.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 || history[0].Record.Trigger != store.TriggerSubmission {
		t.Fatalf("expected one submission version, got %+v", history)
	}
	// The payload carries the state as submitted, not the pre-submit draft.
	if history[0].Payload.Declaration.Status != store.StatusSubmitted {
		t.Fatalf("payload status = %s, want submitted", history[0].Payload.Declaration.Status)
	}
}

func TestHistoryGrowsAppendOnly(t *testing.T) {
	s := testStore(t)
	d := seedDeclaration(t, s)
	r := NewRecorder(s)

	base := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
	step := 0
	r.now = func() time.Time {
		step++
		return base.Add(time.Duration(step) * time.Minute)
	}

	for _, trig := range []store.Trigger{store.TriggerInitialOpen, store.TriggerPreRegeneration, store.TriggerPostRegeneration} {
		if _, err := r.Capture(d.ID, trig, nil); err != nil {
			t.Fatalf("Capture %s: %v", trig, err)
		}
	}

	history, err := r.History(d.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 versions, got %d", len(history))
	}
	for i, trig := range []store.Trigger{store.TriggerInitialOpen, store.TriggerPreRegeneration, store.TriggerPostRegeneration} {
		if history[i].Record.Trigger != trig {
			t.Fatalf("version %d: expected %s, got %s", i, trig, history[i].Record.Trigger)
		}
	}
}

func TestCaptureMissingDeclaration(t *testing.T) {
	s := testStore(t)
	r := NewRecorder(s)

	_, err := r.Capture("missing", store.TriggerManualSave, nil)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
