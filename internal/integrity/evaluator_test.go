package integrity

import (
	"testing"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/origin"
)

func TestCoverageRatio(t *testing.T) {
	cases := []struct {
		declared, logged int
		want             float64
	}{
		{0, 0, 1},
		{3, 0, 1},
		{5, 10, 0.5},
		{6, 10, 0.6},
		{10, 10, 1},
		{12, 10, 1.2},
	}
	for _, c := range cases {
		if got := CoverageRatio(c.declared, c.logged); got != c.want {
			t.Fatalf("CoverageRatio(%d, %d) = %v, want %v", c.declared, c.logged, got, c.want)
		}
	}
}

func TestDeletionSuspect(t *testing.T) {
	if !DeletionSuspect(origin.AutoGenerated) {
		t.Fatal("deleting an auto-generated entry should be suspect")
	}
	if !DeletionSuspect(origin.AutoGeneratedModified) {
		t.Fatal("deleting a modified auto-generated entry should be suspect")
	}
	if DeletionSuspect(origin.Manual) {
		t.Fatal("deleting a manual entry should not be suspect")
	}
}

func TestScopeReducedCharThreshold(t *testing.T) {
	tools := []string{"ChatGPT"}
	// Strictly more than 20 characters lost triggers; exactly 20 does not.
	if ScopeReduced("x", "y", -20, tools, 20) {
		t.Fatal("delta of -20 should not trigger at threshold 20")
	}
	if !ScopeReduced("x", "y", -21, tools, 20) {
		t.Fatal("delta of -21 should trigger at threshold 20")
	}
}

func TestScopeReducedToolRemoval(t *testing.T) {
	tools := []string{"ChatGPT", "Copilot"}
	prev := "Used ChatGPT to draft the outline"
	next := "Used an assistant to draft the outline and then expanded it further"
	// Content grew, but the tool mention disappeared.
	if !ScopeReduced(prev, next, len(next)-len(prev), tools, 20) {
		t.Fatal("removing a tool mention should trigger regardless of length delta")
	}
}

func TestToolMentionRemovedCaseInsensitive(t *testing.T) {
	tools := []string{"chatgpt"}
	if !ToolMentionRemoved("We asked ChatGPT for help", "We asked for help", tools) {
		t.Fatal("mention matching should be case-insensitive")
	}
	if ToolMentionRemoved("no tools here", "still no tools", tools) {
		t.Fatal("a tool never mentioned cannot be removed")
	}
}

func TestMissingTools(t *testing.T) {
	contents := []string{
		"ChatGPT was used for brainstorming: initial ideas",
		"Reviewed the final text manually",
	}
	tools := []string{"ChatGPT", "Copilot", "Claude"}
	got := MissingTools(contents, tools)
	if len(got) != 2 || got[0] != "Copilot" || got[1] != "Claude" {
		t.Fatalf("expected [Copilot Claude], got %v", got)
	}
	if missing := MissingTools(contents, []string{"chatgpt"}); missing != nil {
		t.Fatalf("case-insensitive match should find chatgpt, got %v", missing)
	}
}
