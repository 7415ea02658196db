// Package agent holds the AI collaborators: deck generation from source
// records and the mutation rewrite pass. All LLM errors stop at this
// boundary; nothing here is allowed to break a review session.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nexuskb/nexus/internal/llm"
	"github.com/nexuskb/nexus/internal/store"
)

// generatedCard is the JSON structure returned by the generation LLM.
type generatedCard struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	CardType string `json:"card_type"`
}

// GenerateDeck distills a deck of flashcards from one source record and
// persists them. With a nil client it produces a single placeholder card
// so the flow stays usable without an API key.
func GenerateDeck(ctx context.Context, db *store.DB, client llm.Client, record *store.Record) ([]store.Card, error) {
	if record == nil {
		return nil, fmt.Errorf("generate deck: record is nil")
	}

	var candidates []generatedCard
	if client == nil {
		candidates = []generatedCard{{
			Question: "What is the title or main subject of this document?",
			Answer:   record.Title,
			CardType: string(store.CardConceptual),
		}}
	} else {
		prompt := llm.GenerationPrompt(record.ID, record.Title, record.ContentRaw, record.MetaInfo)
		resp, err := client.Complete(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("generate deck for record %d: %w", record.ID, err)
		}
		candidates, err = parseGeneratedCards(resp.Content)
		if err != nil {
			return nil, fmt.Errorf("generate deck for record %d: %w", record.ID, err)
		}
	}

	var cards []store.Card
	for _, gc := range candidates {
		if gc.Question == "" || gc.Answer == "" {
			continue
		}
		ctype := store.CardType(gc.CardType)
		if !ctype.Valid() {
			ctype = store.CardFactual
		}
		card := store.Card{
			ParentID: record.ID,
			Question: gc.Question,
			Answer:   gc.Answer,
			Type:     ctype,
		}
		if err := db.CreateCard(&card); err != nil {
			return cards, fmt.Errorf("store generated card: %w", err)
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// parseGeneratedCards extracts a JSON array of cards from the LLM
// response. The response might contain markdown code fences or other
// wrapper text.
func parseGeneratedCards(content string) ([]generatedCard, error) {
	content = stripFences(content)

	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var cards []generatedCard
	if err := json.Unmarshal([]byte(content[start:end+1]), &cards); err != nil {
		return nil, fmt.Errorf("unmarshal cards: %w", err)
	}
	return cards, nil
}

// stripFences removes surrounding markdown code fences if present.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		lines := strings.Split(content, "\n")
		if len(lines) > 2 {
			content = strings.Join(lines[1:len(lines)-1], "\n")
		}
	}
	return strings.TrimSpace(content)
}
