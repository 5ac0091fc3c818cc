package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/config"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/session"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the declaration database")
	declaration := flag.String("declaration", "", "show single declaration detail")
	history := flag.Bool("history", false, "with --declaration, list its version history")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/guidebook.db [--declaration id [--history]] [--json]")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()
	svc := session.New(st, config.Default())

	switch {
	case *declaration != "" && *history:
		err = runHistoryMode(svc, *declaration, *jsonOut)
	case *declaration != "":
		err = runDetailMode(svc, *declaration, *jsonOut)
	default:
		err = runListMode(svc, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type assignmentRow struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	PeriodStart  string `json:"period_start"`
	PeriodEnd    string `json:"period_end"`
	ScopedLogs   int    `json:"scoped_logs"`
	Declaration  string `json:"declaration,omitempty"`
	DeclStatus   string `json:"declaration_status,omitempty"`
	DeclWarnings int    `json:"declaration_warnings"`
}

func runListMode(svc *session.Service, jsonOut bool) error {
	assignments, err := svc.ListAssignments()
	if err != nil {
		return err
	}
	if len(assignments) == 0 {
		fmt.Fprintln(os.Stderr, "no assignments found")
		return nil
	}

	rows := make([]assignmentRow, 0, len(assignments))
	for _, a := range assignments {
		scoped, err := svc.ScopedLogs(a.ID)
		if err != nil {
			return err
		}
		row := assignmentRow{
			ID:          a.ID,
			Title:       a.Title,
			PeriodStart: a.PeriodStart.Format("2006-01-02"),
			PeriodEnd:   a.PeriodEnd.Format("2006-01-02"),
			ScopedLogs:  len(scoped),
		}
		if d, err := svc.Store().GetDeclarationByAssignment(a.ID); err == nil {
			row.Declaration = d.ID
			row.DeclStatus = string(d.Status)
			warnings, err := svc.ActiveWarnings(d.ID)
			if err != nil {
				return err
			}
			row.DeclWarnings = len(warnings)
		}
		rows = append(rows, row)
	}

	queue, err := svc.UnassignedLogs()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(struct {
			Assignments []assignmentRow `json:"assignments"`
			Unassigned  int             `json:"unassigned_logs"`
		}{rows, len(queue)})
	}

	fmt.Printf("%-12s  %-48s  %-10s  %-10s  %4s  %-9s  %s\n",
		"Assignment", "Title", "Start", "End", "Logs", "Status", "Warnings")
	for _, r := range rows {
		status, warnings := "-", "-"
		if r.Declaration != "" {
			status = r.DeclStatus
			warnings = fmt.Sprintf("%d", r.DeclWarnings)
		}
		fmt.Printf("%-12s  %-48s  %-10s  %-10s  %4d  %-9s  %s\n",
			shortID(r.ID), trunc(r.Title, 48), r.PeriodStart, r.PeriodEnd, r.ScopedLogs, status, warnings)
	}
	fmt.Printf("\n%d interaction logs awaiting resolution\n", len(queue))
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(svc *session.Service, declarationID string, jsonOut bool) error {
	view, err := svc.GetDeclaration(declarationID)
	if err != nil {
		return err
	}
	warnings, err := svc.ActiveWarnings(declarationID)
	if err != nil {
		return err
	}
	stats, err := svc.Stats(declarationID)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(struct {
			session.DeclarationView
			Warnings interface{}   `json:"warnings"`
			Stats    session.Stats `json:"stats"`
		}{view, warnings, stats})
	}

	d := view.Declaration
	fmt.Printf("Declaration: %s\n", d.ID)
	fmt.Printf("Assignment:  %s\n", d.AssignmentID)
	fmt.Printf("Student:     %s\n", d.StudentID)
	fmt.Printf("Status:      %s\n", d.Status)
	fmt.Printf("Coverage:    %d declared / %d logged (%.0f%%)\n",
		stats.DeclaredCount, stats.LoggedCount, stats.Coverage*100)

	fmt.Printf("\nEntries:\n")
	for _, e := range view.Entries {
		fmt.Printf("  [%s] %s: %s\n", e.Origin, e.FieldName, trunc(e.Content, 72))
	}
	for _, m := range view.ManualEntries {
		fmt.Printf("  [manual/%s] %s (%s): %s\n", m.Reason, m.ToolName, m.DateRange, trunc(m.Description, 56))
	}

	if view.Reflection != nil {
		fmt.Printf("\nReflection: valid=%v (%d + %d words)\n",
			view.Reflection.IsValid, view.Reflection.WordCountP1, view.Reflection.WordCountP2)
	}

	if len(warnings) > 0 {
		fmt.Printf("\nActive warnings:\n")
		for _, w := range warnings {
			fmt.Printf("  %-14s %s\n", w.Condition, w.Message)
		}
	}
	return nil
}

// #endregion detail-mode

// #region history-mode

func runHistoryMode(svc *session.Service, declarationID string, jsonOut bool) error {
	versions, err := svc.ListSnapshots(declarationID)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(versions)
	}

	fmt.Printf("%-12s  %-18s  %-20s  %7s  %8s\n", "Snapshot", "Trigger", "Captured", "Entries", "Warnings")
	for _, v := range versions {
		fmt.Printf("%-12s  %-18s  %-20s  %7d  %8d\n",
			shortID(v.Record.ID), v.Record.Trigger,
			v.Record.CreatedAt.Format("2006-01-02T15:04:05Z"),
			len(v.Payload.Entries)+len(v.Payload.ManualEntries), len(v.Warnings))
	}
	return nil
}

// #endregion history-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func trunc(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

// #endregion output
