package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nexuskb/nexus/internal/agent"
	"github.com/nexuskb/nexus/internal/config"
	"github.com/nexuskb/nexus/internal/llm"
)

var generateCmd = &cobra.Command{
	Use:   "generate <record-id>",
	Short: "Generate AI flashcards from one indexed record",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	recordID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid record id %q", args[0])
	}

	cfg := config.Load()
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	record, err := db.GetRecord(recordID)
	if err != nil {
		return err
	}
	if record == nil {
		return fmt.Errorf("record %d not found", recordID)
	}

	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		// No API key is not fatal: the study agent degrades to a
		// placeholder card so the flow can be exercised offline.
		fmt.Fprintf(os.Stderr, "warning: LLM not configured (%v), generating placeholder card\n", err)
		client = nil
	}

	cards, err := agent.GenerateDeck(context.Background(), db, client, record)
	if err != nil {
		return fmt.Errorf("generate deck: %w", err)
	}

	fmt.Printf("generated %d cards for %q:\n", len(cards), record.Title)
	for _, c := range cards {
		fmt.Printf("  [%d] %-10s %s\n", c.ID, c.Type, firstLine(c.Question))
	}
	return nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	if len(s) > 80 {
		return s[:80] + "..."
	}
	return s
}
