package origin

import "testing"

func TestTransitionAutoGenerated(t *testing.T) {
	if got := Transition(AutoGenerated); got != AutoGeneratedModified {
		t.Fatalf("expected auto-generated-modified, got %s", got)
	}
}

func TestTransitionAutoGeneratedModified(t *testing.T) {
	if got := Transition(AutoGeneratedModified); got != AutoGeneratedModified {
		t.Fatalf("expected auto-generated-modified, got %s", got)
	}
}

func TestTransitionManual(t *testing.T) {
	if got := Transition(Manual); got != Manual {
		t.Fatalf("expected manual, got %s", got)
	}
}

func TestTransitionMonotonic(t *testing.T) {
	// Once away from auto-generated, repeated edits never return to it.
	o := AutoGenerated
	for i := 0; i < 5; i++ {
		o = Transition(o)
		if o == AutoGenerated {
			t.Fatalf("edit %d reverted origin to auto-generated", i)
		}
	}
}

func TestIsAutoDerived(t *testing.T) {
	cases := []struct {
		o    Origin
		want bool
	}{
		{AutoGenerated, true},
		{AutoGeneratedModified, true},
		{Manual, false},
	}
	for _, c := range cases {
		if got := c.o.IsAutoDerived(); got != c.want {
			t.Fatalf("IsAutoDerived(%s) = %v, want %v", c.o, got, c.want)
		}
	}
}

func TestValid(t *testing.T) {
	if !AutoGenerated.Valid() || !AutoGeneratedModified.Valid() || !Manual.Valid() {
		t.Fatal("known origins should be valid")
	}
	if Origin("generated").Valid() {
		t.Fatal("unknown origin should be invalid")
	}
}
