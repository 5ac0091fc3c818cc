package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/config"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/replay"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/session"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/store"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to fixture JSON")
	configPath := flag.String("config", "", "optional YAML config with warning thresholds")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--config config.yaml] [--json]")
		os.Exit(2)
	}
	os.Exit(run(*fixturePath, *configPath, *jsonOut))
}

func run(fixturePath, configPath string, jsonOut bool) int {
	f, err := replay.LoadFixture(fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
		return 2
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 2
	}

	// Each run replays against a throwaway database.
	dir, err := os.MkdirTemp("", "replay-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "temp dir: %v\n", err)
		return 2
	}
	defer os.RemoveAll(dir)

	st, err := store.NewStore(filepath.Join(dir, "replay.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		return 2
	}
	defer st.Close()

	runner := replay.NewRunner(session.New(st, cfg))
	results, err := runner.Run(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		return 1
	}
	summary, err := runner.Summarize(f, results)
	if err != nil {
		fmt.Fprintf(os.Stderr, "summarize: %v\n", err)
		return 1
	}

	if jsonOut {
		if err := printJSON(results, summary); err != nil {
			fmt.Fprintf(os.Stderr, "output: %v\n", err)
			return 1
		}
	} else {
		printTable(f, results, summary)
	}

	if len(summary.Mismatches) > 0 {
		return 1
	}
	return 0
}

// #endregion main

// #region output

func printJSON(results []replay.StepResult, summary replay.Summary) error {
	out := struct {
		Steps   []replay.StepResult `json:"steps"`
		Summary replay.Summary      `json:"summary"`
	}{results, summary}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printTable(f *replay.Fixture, results []replay.StepResult, summary replay.Summary) {
	if f.Description != "" {
		fmt.Println(f.Description)
		fmt.Println()
	}
	fmt.Printf("%-4s  %-20s  %-8s  %s\n", "Step", "Action", "Outcome", "Warnings")
	fmt.Printf("%-4s  %-20s  %-8s  %s\n", "----", "--------------------", "--------", "--------")
	for _, r := range results {
		warnings := "-"
		if len(r.Warnings) > 0 {
			warnings = strings.Join(r.Warnings, ", ")
		}
		fmt.Printf("%-4d  %-20s  %-8s  %s\n", r.Index, r.Type, r.Outcome, warnings)
		if r.Err != "" {
			fmt.Printf("      %s\n", r.Err)
		}
	}

	fmt.Printf("\n%d steps: %d ok, %d blocked, %d invalid, %d errors\n",
		summary.TotalSteps, summary.OK, summary.Blocked, summary.Invalid, summary.Errors)
	fmt.Printf("final status: %s, %d snapshots\n", summary.FinalStatus, summary.Snapshots)
	for _, m := range summary.Mismatches {
		fmt.Printf("MISMATCH: %s\n", m)
	}
}

// #endregion output
