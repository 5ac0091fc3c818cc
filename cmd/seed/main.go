package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/seed"
	"github.com/thiagovon/TDT4242-Advanced-Software-Engineering/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "guidebook.db", "path to the declaration database")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: seed --db path/to/guidebook.db")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := seed.Run(st); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main
