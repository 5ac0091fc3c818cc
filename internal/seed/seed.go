// Package seed loads the demo dataset: one course, two assignments
// with an overlapping declaration period, and fifteen interaction logs
// of which three sit unassigned in the overlap window.
package seed

import (
	"fmt"
	"log"
	"time"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/origin"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/store"
)

// #region dataset

func assignments() []store.Assignment {
	return []store.Assignment{
		{
			ID:          "assign-001",
			CourseID:    "course-inf3490",
			CourseName:  "INF3490 Biologically Inspired Computing",
			Title:       "Mandatory Assignment 1: Evolutionary Algorithms",
			Description: "Implement and compare three evolutionary algorithm variants on a benchmark function.",
			PeriodStart: time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC),
			PeriodEnd:   time.Date(2025, 11, 20, 23, 59, 59, 0, time.UTC),
		},
		{
			ID:          "assign-002",
			CourseID:    "course-inf3490",
			CourseName:  "INF3490 Biologically Inspired Computing",
			Title:       "Mandatory Assignment 2: Neural Network Optimization",
			Description: "Train and evaluate a neural network using backpropagation and evolutionary search.",
			// Overlaps assign-001 from Nov 10 to Nov 20, so interactions
			// in that window land in the resolution queue.
			PeriodStart: time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC),
			PeriodEnd:   time.Date(2025, 12, 5, 23, 59, 59, 0, time.UTC),
		},
	}
}

func logs() []store.InteractionLog {
	at := func(day, month, hour, min int) time.Time {
		return time.Date(2025, time.Month(month), day, hour, min, 0, 0, time.UTC)
	}
	return []store.InteractionLog{
		// assign-001, before the overlap
		{ID: "log-001", AssignmentID: "assign-001", ToolName: "ChatGPT", Category: "explanation",
			Description: "Asked ChatGPT to explain crossover operators in genetic algorithms.",
			LoggedAt:    at(22, 10, 10, 15), OriginTag: origin.TagStudentTagged},
		{ID: "log-002", AssignmentID: "assign-001", ToolName: "ChatGPT", Category: "code generation",
			Description: "Generated a Python implementation of tournament selection.",
			LoggedAt:    at(25, 10, 14, 30), OriginTag: origin.TagStudentTagged},
		{ID: "log-003", AssignmentID: "assign-001", ToolName: "GitHub Copilot", Category: "code generation",
			Description: "Copilot autocompleted the fitness evaluation loop.",
			LoggedAt:    at(28, 10, 9, 0), OriginTag: origin.TagInferred},
		{ID: "log-004", AssignmentID: "assign-001", ToolName: "Claude", Category: "debugging",
			Description: "Debugged an off-by-one error in the mutation operator with Claude.",
			LoggedAt:    at(2, 11, 16, 45), OriginTag: origin.TagStudentTagged},
		{ID: "log-005", AssignmentID: "assign-001", ToolName: "ChatGPT", Category: "explanation",
			Description: "Asked ChatGPT to compare simulated annealing vs genetic algorithms.",
			LoggedAt:    at(5, 11, 11, 0), OriginTag: origin.TagStudentTagged},
		{ID: "log-006", AssignmentID: "assign-001", ToolName: "GitHub Copilot", Category: "code generation",
			Description: "Copilot assisted with writing the benchmark function evaluator.",
			LoggedAt:    at(8, 11, 13, 20), OriginTag: origin.TagInferred},

		// overlap window (Nov 10-20): both assignments active, needs
		// student resolution
		{ID: "log-007", ToolName: "ChatGPT", Category: "explanation",
			Description: "Used ChatGPT to understand the relationship between EA and gradient descent.",
			LoggedAt:    at(12, 11, 10, 0), OriginTag: origin.TagUnassigned},
		{ID: "log-008", ToolName: "Claude", Category: "writing assistance",
			Description: "Asked Claude to proofread the theoretical background section.",
			LoggedAt:    at(15, 11, 15, 30), OriginTag: origin.TagUnassigned},
		{ID: "log-009", ToolName: "GitHub Copilot", Category: "code generation",
			Description: "Copilot generated a skeleton for the neural network class.",
			LoggedAt:    at(18, 11, 9, 45), OriginTag: origin.TagUnassigned},

		// assign-002, after the overlap
		{ID: "log-010", AssignmentID: "assign-002", ToolName: "ChatGPT", Category: "explanation",
			Description: "ChatGPT explained backpropagation with a step-by-step example.",
			LoggedAt:    at(22, 11, 12, 0), OriginTag: origin.TagStudentTagged},
		{ID: "log-011", AssignmentID: "assign-002", ToolName: "GitHub Copilot", Category: "code generation",
			Description: "Copilot autocompleted the forward-pass implementation.",
			LoggedAt:    at(24, 11, 14, 0), OriginTag: origin.TagInferred},
		{ID: "log-012", AssignmentID: "assign-002", ToolName: "Claude", Category: "debugging",
			Description: "Claude helped identify a vanishing gradient issue in the hidden layers.",
			LoggedAt:    at(26, 11, 16, 0), OriginTag: origin.TagStudentTagged},
		{ID: "log-013", AssignmentID: "assign-002", ToolName: "ChatGPT", Category: "explanation",
			Description: "Used ChatGPT to understand adaptive learning rate methods (Adam, RMSProp).",
			LoggedAt:    at(28, 11, 10, 30), OriginTag: origin.TagStudentTagged},
		{ID: "log-014", AssignmentID: "assign-002", ToolName: "GitHub Copilot", Category: "code generation",
			Description: "Copilot wrote the training loop with early stopping.",
			LoggedAt:    at(1, 12, 11, 0), OriginTag: origin.TagInferred},
		{ID: "log-015", AssignmentID: "assign-002", ToolName: "Claude", Category: "writing assistance",
			Description: "Claude reviewed and improved the experimental results section.",
			LoggedAt:    at(3, 12, 9, 0), OriginTag: origin.TagStudentTagged},
	}
}

// #endregion dataset

// #region run

// Run loads the demo dataset into an empty database. A database that
// already has assignments is left untouched.
func Run(st *store.Store) error {
	existing, err := st.ListAssignments()
	if err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if len(existing) > 0 {
		log.Printf("[SEED] data already present, skipping")
		return nil
	}

	for _, a := range assignments() {
		if _, err := st.CreateAssignment(a); err != nil {
			return fmt.Errorf("seed assignment %s: %w", a.ID, err)
		}
	}
	seeded := logs()
	for _, l := range seeded {
		if _, err := st.InsertLog(l); err != nil {
			return fmt.Errorf("seed log %s: %w", l.ID, err)
		}
	}

	log.Printf("[SEED] loaded 2 assignments and %d interaction logs", len(seeded))
	return nil
}

// #endregion run
