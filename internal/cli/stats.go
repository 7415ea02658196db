package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexuskb/nexus/internal/config"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show review pressure and index counters",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	stats, err := db.CollectStats(time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("records: %d   cards: %d   due: %d   pending mutation: %d\n",
		stats.Records, stats.Cards, stats.Due, stats.Pending)

	if len(stats.ByTopic) == 0 {
		fmt.Println("no topics with due cards, all caught up")
		return nil
	}

	fmt.Println("\ntopics with due cards:")
	for _, t := range stats.ByTopic {
		fmt.Printf("  [%d] %-40s %d/%d due\n", t.TopicID, t.Title, t.Due, t.Total)
	}
	return nil
}
