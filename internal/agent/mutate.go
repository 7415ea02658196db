package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nexuskb/nexus/internal/llm"
	"github.com/nexuskb/nexus/internal/store"
)

// RewrittenCard is one card rewrite returned by the mutation LLM.
type RewrittenCard struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	CardType string `json:"card_type"`
}

// MutateCards sends the given cards through the rewrite pass and applies
// the rewrites. Returns the number of cards actually rewritten. An error
// means the pass failed and nothing should be considered flushed.
func MutateCards(ctx context.Context, db *store.DB, client llm.Client, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	if client == nil {
		return 0, fmt.Errorf("mutation: no LLM client configured")
	}

	cards, err := db.GetCards(ids)
	if err != nil {
		return 0, fmt.Errorf("mutation: load cards: %w", err)
	}
	if len(cards) == 0 {
		return 0, nil
	}

	inputs := make([]llm.MutationInput, len(cards))
	for i, c := range cards {
		inputs[i] = llm.MutationInput{ID: c.ID, Question: c.Question, Answer: c.Answer}
	}

	resp, err := client.Complete(ctx, llm.MutationPrompt(inputs))
	if err != nil {
		return 0, fmt.Errorf("mutation: %w", err)
	}

	rewrites, err := parseRewrites(resp.Content)
	if err != nil {
		return 0, fmt.Errorf("mutation: %w", err)
	}

	// Only ids that were actually sent may be rewritten.
	sent := make(map[int64]bool, len(cards))
	for _, c := range cards {
		sent[c.ID] = true
	}

	applied := 0
	for _, rw := range rewrites {
		if !sent[rw.ID] || rw.Question == "" || rw.Answer == "" {
			continue
		}
		ctype := store.CardType(rw.CardType)
		if !ctype.Valid() {
			ctype = store.CardFactual
		}
		if err := db.UpdateCardContent(rw.ID, rw.Question, rw.Answer, ctype); err != nil {
			return applied, fmt.Errorf("mutation: apply rewrite %d: %w", rw.ID, err)
		}
		applied++
	}
	return applied, nil
}

// parseRewrites extracts the JSON array of rewrites from the LLM response.
func parseRewrites(content string) ([]RewrittenCard, error) {
	content = stripFences(content)

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var rewrites []RewrittenCard
	if err := json.Unmarshal([]byte(content[start:end+1]), &rewrites); err != nil {
		return nil, fmt.Errorf("unmarshal rewrites: %w", err)
	}
	return rewrites, nil
}
