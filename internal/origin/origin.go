package origin

// #region origin
// Origin is the provenance tag carried by every declaration entry.
// It records how the entry came to exist and is never hidden or removed
// once assigned; edits only move it forward through the lattice.
type Origin string

const (
	AutoGenerated         Origin = "auto-generated"
	AutoGeneratedModified Origin = "auto-generated-modified"
	Manual                Origin = "manual"
)

// Valid reports whether o is one of the three known origins.
func (o Origin) Valid() bool {
	switch o {
	case AutoGenerated, AutoGeneratedModified, Manual:
		return true
	}
	return false
}

// IsAutoDerived reports whether o descends from an auto-generated entry.
// Deletion and scope-reduction heuristics apply only to these origins.
func (o Origin) IsAutoDerived() bool {
	return o == AutoGenerated || o == AutoGeneratedModified
}

// #endregion origin

// #region transition
// Transition computes the origin after an edit. Total and pure: editing an
// auto-generated entry (modified or not) yields auto-generated-modified;
// a manual entry stays manual. The transition is one-directional, nothing
// ever returns to auto-generated.
func Transition(current Origin) Origin {
	if current.IsAutoDerived() {
		return AutoGeneratedModified
	}
	return Manual
}

// #endregion transition

// #region log-tag
// LogTag records how an interaction log came to be associated with an
// assignment.
type LogTag string

const (
	TagStudentTagged LogTag = "student_tagged"
	TagInferred      LogTag = "inferred"
	TagUnassigned    LogTag = "unassigned"
)

// #endregion log-tag
