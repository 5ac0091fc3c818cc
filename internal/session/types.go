package session

import (
	"errors"
	"strings"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/gate"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/store"
)

// #region errors

// ErrReflectionInvalid blocks submission while the stored reflection
// is missing or failed validation.
var ErrReflectionInvalid = errors.New("reflection is required before submission")

// ValidationError carries field-level problems for a rejected input.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Problems, "; ")
}

// GenerationBlockedError is returned when the resolution gate vetoes
// draft generation. The decision lists the blocking interactions.
type GenerationBlockedError struct {
	Decision gate.Decision
}

func (e *GenerationBlockedError) Error() string {
	return "generation blocked: " + e.Decision.Reason
}

// #endregion errors

// #region views

// DeclarationView is the full read model of one declaration.
type DeclarationView struct {
	Declaration   store.Declaration
	Entries       []store.Entry
	ManualEntries []store.ManualEntry
	Reflection    *store.Reflection
}

// Stats is the coverage read model. It is computed with the same
// ratio function the monitor uses, so the two never disagree.
type Stats struct {
	DeclaredCount int
	LoggedCount   int
	Coverage      float64
	CoverageLow   bool
}

// #endregion views
