package seed

import (
	"path/filepath"
	"testing"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/store"
)

func tempStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.NewStore(filepath.Join(t.TempDir(), "seed.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestRunLoadsDataset(t *testing.T) {
	st := tempStore(t)
	if err := Run(st); err != nil {
		t.Fatalf("Run: %v", err)
	}

	as, err := st.ListAssignments()
	if err != nil {
		t.Fatalf("list assignments: %v", err)
	}
	if len(as) != 2 {
		t.Fatalf("assignments = %d, want 2", len(as))
	}

	queue, err := st.UnassignedLogs()
	if err != nil {
		t.Fatalf("unassigned logs: %v", err)
	}
	if len(queue) != 3 {
		t.Fatalf("unassigned = %d, want the 3 overlap-window logs", len(queue))
	}

	// Six of the fifteen logs fall inside assignment 1's period.
	scoped, err := st.ScopedLogs("assign-001")
	if err != nil {
		t.Fatalf("scoped logs: %v", err)
	}
	if len(scoped) != 6 {
		t.Fatalf("scoped = %d, want 6", len(scoped))
	}
}

func TestRunIsIdempotent(t *testing.T) {
	st := tempStore(t)
	if err := Run(st); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if err := Run(st); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	as, err := st.ListAssignments()
	if err != nil {
		t.Fatalf("list assignments: %v", err)
	}
	if len(as) != 2 {
		t.Fatalf("assignments = %d after reseed, want 2", len(as))
	}
}
