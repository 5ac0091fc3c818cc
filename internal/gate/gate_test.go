package gate

import (
	"testing"
	"time"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/store"
)

var (
	periodStart = time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2025, 11, 20, 0, 0, 0, 0, time.UTC)
)

func testAssignment() store.Assignment {
	return store.Assignment{ID: "assign-1", PeriodStart: periodStart, PeriodEnd: periodEnd}
}

func TestProceedWithEmptyQueue(t *testing.T) {
	g := NewGate(DefaultConfig())
	dec := g.EvaluateGeneration(testAssignment(), store.Declaration{Status: store.StatusDraft}, nil)
	if dec.Vetoed || dec.Action != "proceed" {
		t.Fatalf("expected proceed, got %+v", dec)
	}
}

func TestBlockOnUnresolvedInPeriod(t *testing.T) {
	g := NewGate(DefaultConfig())
	unassigned := []store.InteractionLog{
		{ID: "log-1", ToolName: "ChatGPT", LoggedAt: periodStart.AddDate(0, 0, 5)},
		{ID: "log-2", ToolName: "Claude", LoggedAt: periodEnd.AddDate(0, 0, 10)}, // outside
	}
	dec := g.EvaluateGeneration(testAssignment(), store.Declaration{Status: store.StatusDraft}, unassigned)
	if !dec.Vetoed || dec.Action != "block" {
		t.Fatalf("expected block, got %+v", dec)
	}
	if len(dec.VetoSignals) != 1 || dec.VetoSignals[0].LogID != "log-1" {
		t.Fatalf("expected only the in-period log to veto, got %+v", dec.VetoSignals)
	}
	if dec.VetoSignals[0].Type != VetoUnresolvedInteraction {
		t.Fatalf("wrong veto type: %s", dec.VetoSignals[0].Type)
	}
}

func TestMarginWidensWindow(t *testing.T) {
	g := NewGate(Config{MarginDays: 7})
	unassigned := []store.InteractionLog{
		{ID: "log-1", ToolName: "ChatGPT", LoggedAt: periodStart.AddDate(0, 0, -3)},
	}
	dec := g.EvaluateGeneration(testAssignment(), store.Declaration{Status: store.StatusDraft}, unassigned)
	if !dec.Vetoed {
		t.Fatal("log 3 days before the period should veto with a 7-day margin")
	}

	strict := NewGate(DefaultConfig())
	dec = strict.EvaluateGeneration(testAssignment(), store.Declaration{Status: store.StatusDraft}, unassigned)
	if dec.Vetoed {
		t.Fatal("log before the period should not veto without a margin")
	}
}

func TestBlockOnSubmittedDeclaration(t *testing.T) {
	g := NewGate(DefaultConfig())
	dec := g.EvaluateGeneration(testAssignment(), store.Declaration{Status: store.StatusSubmitted}, nil)
	if !dec.Vetoed {
		t.Fatal("submitted declarations must not be regenerated")
	}
	if dec.VetoSignals[0].Type != VetoSubmitted {
		t.Fatalf("wrong veto type: %s", dec.VetoSignals[0].Type)
	}
}

func TestPeriodBoundariesInclusive(t *testing.T) {
	g := NewGate(DefaultConfig())
	for _, at := range []time.Time{periodStart, periodEnd} {
		dec := g.EvaluateGeneration(testAssignment(), store.Declaration{Status: store.StatusDraft},
			[]store.InteractionLog{{ID: "log-b", ToolName: "Copilot", LoggedAt: at}})
		if !dec.Vetoed {
			t.Fatalf("boundary log at %v should veto", at)
		}
	}
}
