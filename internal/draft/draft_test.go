package draft

import (
	"testing"
	"time"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/origin"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/store"
)

func testLog(id, tool, category, desc string) store.InteractionLog {
	return store.InteractionLog{
		ID:          id,
		ToolName:    tool,
		Category:    category,
		Description: desc,
		LoggedAt:    time.Date(2025, 11, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildEntryContent(t *testing.T) {
	l := testLog("log-1", "ChatGPT", "code generation", "generated a parser skeleton")
	want := "ChatGPT was used for code generation: generated a parser skeleton"
	if got := BuildEntryContent(l); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPlanFreshDeclaration(t *testing.T) {
	logs := []store.InteractionLog{
		testLog("log-1", "ChatGPT", "explanation", "clarified the rubric"),
		testLog("log-2", "Copilot", "code generation", "completed the test harness"),
	}

	planned := Plan(logs, nil)
	if len(planned) != 2 {
		t.Fatalf("expected 2 planned entries, got %d", len(planned))
	}
	for i, p := range planned {
		if p.Origin != origin.AutoGenerated {
			t.Fatalf("entry %d: expected auto-generated origin, got %s", i, p.Origin)
		}
		if p.FieldName != FieldUsageSummary {
			t.Fatalf("entry %d: wrong field name %q", i, p.FieldName)
		}
		if p.InteractionLogID != logs[i].ID {
			t.Fatalf("entry %d: wrong source log %q", i, p.InteractionLogID)
		}
	}
}

func TestPlanSkipsRepresentedLogs(t *testing.T) {
	logs := []store.InteractionLog{
		testLog("log-1", "ChatGPT", "explanation", "clarified the rubric"),
		testLog("log-2", "Copilot", "code generation", "completed the test harness"),
	}
	// log-1 is represented by an entry the student has since edited.
	existing := []store.Entry{{
		ID:               "entry-1",
		InteractionLogID: "log-1",
		Content:          "shortened by hand",
		Origin:           origin.AutoGeneratedModified,
	}}

	planned := Plan(logs, existing)
	if len(planned) != 1 || planned[0].InteractionLogID != "log-2" {
		t.Fatalf("expected only log-2 planned, got %+v", planned)
	}
}

func TestPlanIgnoresManualEntries(t *testing.T) {
	logs := []store.InteractionLog{testLog("log-1", "ChatGPT", "debugging", "traced a panic")}
	existing := []store.Entry{{ID: "entry-m", Content: "written by hand", Origin: origin.Manual}}

	planned := Plan(logs, existing)
	if len(planned) != 1 {
		t.Fatalf("manual entries without a source log must not mask logs, got %+v", planned)
	}
}

func TestPlanNothingNew(t *testing.T) {
	logs := []store.InteractionLog{testLog("log-1", "ChatGPT", "debugging", "traced a panic")}
	existing := []store.Entry{{ID: "e1", InteractionLogID: "log-1", Origin: origin.AutoGenerated}}

	if planned := Plan(logs, existing); planned != nil {
		t.Fatalf("expected no planned entries, got %+v", planned)
	}
}
