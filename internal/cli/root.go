package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexuskb/nexus/internal/config"
	"github.com/nexuskb/nexus/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Personal knowledge index with spaced-repetition study",
	Long:  "Nexus indexes your resources (files, pages, videos, notes), turns them into flashcards, and drills them under a spaced-repetition schedule.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(mutateCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}

// openDB resolves the database path from config and opens the store.
func openDB(cfg config.Config) (*store.DB, error) {
	dbPath := cfg.Database.Path
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve db path: %w", err)
		}
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}
