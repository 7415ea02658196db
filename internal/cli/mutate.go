package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nexuskb/nexus/internal/config"
	"github.com/nexuskb/nexus/internal/llm"
	"github.com/nexuskb/nexus/internal/mutation"
)

var mutateCmd = &cobra.Command{
	Use:   "mutate",
	Short: "Run the rewrite pass over the pending mutation set now",
	Long:  "Sends every card in the pending mutation set through the AI rewrite pass, regardless of the threshold. The set is cleared only if the pass succeeds.",
	RunE:  runMutate,
}

func runMutate(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	throttle := mutation.New(db, cfg.Review.MutationThreshold)
	ids, err := throttle.Pending()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Println("pending mutation set is empty")
		return nil
	}

	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return fmt.Errorf("mutation needs an LLM: %w", err)
	}

	fmt.Printf("rewriting %d cards...\n", len(ids))
	rewritten, err := throttle.Trigger(context.Background(), client)
	if err != nil {
		return fmt.Errorf("mutation pass failed (pending set preserved): %w", err)
	}
	fmt.Printf("mutation complete: %d cards rewritten\n", rewritten)
	return nil
}
