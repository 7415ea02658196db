package cli

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nexuskb/nexus/internal/config"
	"github.com/nexuskb/nexus/internal/llm"
	"github.com/nexuskb/nexus/internal/mutation"
	"github.com/nexuskb/nexus/internal/review"
)

var reviewFlags struct {
	minutes     int
	pullForward bool
	topicID     int64
	shuffle     bool
	limit       int
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run a time-boxed spaced-repetition session",
	RunE:  runReview,
}

func init() {
	reviewCmd.Flags().IntVarP(&reviewFlags.minutes, "minutes", "m", 0, "session duration in minutes (default from config)")
	reviewCmd.Flags().BoolVar(&reviewFlags.pullForward, "pull-forward", false, "include cards that are not yet due")
	reviewCmd.Flags().Int64VarP(&reviewFlags.topicID, "topic", "t", 0, "restrict to cards of one record id")
	reviewCmd.Flags().BoolVarP(&reviewFlags.shuffle, "shuffle", "s", false, "randomize card order")
	reviewCmd.Flags().IntVarP(&reviewFlags.limit, "limit", "n", 0, "cap the number of cards")
}

func runReview(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	minutes := reviewFlags.minutes
	if !cmd.Flags().Changed("minutes") {
		minutes = cfg.Review.DefaultMinutes
	}

	opts := review.Options{
		PullForward: reviewFlags.pullForward,
		Shuffle:     reviewFlags.shuffle,
		Limit:       reviewFlags.limit,
	}
	if reviewFlags.topicID > 0 {
		opts.TopicID = &reviewFlags.topicID
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	queue, err := review.SelectDueSet(db, opts, time.Now(), rng)
	if err != nil {
		return fmt.Errorf("select due set: %w", err)
	}
	if len(queue) == 0 {
		fmt.Println("nothing due, your mind is up to date")
		return nil
	}

	fmt.Printf("starting session: %d cards, %d minute time box\n", len(queue), minutes)
	sess := review.NewSession(db, os.Stdin, os.Stdout)
	summary, err := sess.Run(queue, time.Duration(minutes)*time.Minute)
	if err != nil {
		return fmt.Errorf("review session: %w", err)
	}

	fmt.Printf("\nsession over (%s): %d graded, %d deleted\n",
		summary.Reason, len(summary.GradedIDs), summary.Deleted)

	// Feed the mutation throttle; every session reports, even an empty one.
	throttle := mutation.New(db, cfg.Review.MutationThreshold)
	pending, err := throttle.Accumulate(summary.GradedIDs)
	if err != nil {
		return fmt.Errorf("accumulate mutations: %w", err)
	}

	ready, err := throttle.Ready()
	if err != nil {
		return err
	}
	if !ready {
		fmt.Printf("%d cards pending mutation (threshold %d)\n", pending, cfg.Review.MutationThreshold)
		return nil
	}

	fmt.Printf("%d distinct cards reviewed: time for a rewrite pass to break habituation.\n", pending)
	fmt.Print("> run the mutation pass now? (y/N): ")
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	if !strings.EqualFold(strings.TrimSpace(line), "y") {
		fmt.Println("keeping the pending set for next time")
		return nil
	}

	client, err := llm.NewClient(cfg.LLM)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mutation skipped: %v\n", err)
		return nil
	}

	rewritten, err := throttle.Trigger(context.Background(), client)
	if err != nil {
		// The pending set survives a failed pass; the same cards are
		// retried after the next qualifying session.
		fmt.Fprintf(os.Stderr, "mutation pass failed: %v\n", err)
		return nil
	}
	fmt.Printf("mutation complete: %d cards rewritten\n", rewritten)
	return nil
}
