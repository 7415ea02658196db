package review

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"regexp"
	"sort"
	"strings"

	"github.com/nexuskb/nexus/internal/store"
)

// mcqPayload is the structured question format for MCQ and MAQ cards.
type mcqPayload struct {
	Prompt  string            `json:"prompt"`
	Options map[string]string `json:"options"`
}

// matchingPayload is the structured question format for Matching cards.
type matchingPayload struct {
	Pairs map[string]string `json:"pairs"`
}

// clozeRE matches {{cN::content}} blank markers.
var clozeRE = regexp.MustCompile(`\{\{c(\d+)::(.*?)\}\}`)

// renderQuestion writes the card's question in its type-specific shape.
// Malformed structured payloads degrade to plain text instead of
// failing the card.
func renderQuestion(w io.Writer, c *store.Card, rng *rand.Rand) {
	switch c.Type {
	case store.CardMCQ, store.CardMAQ:
		var p mcqPayload
		if err := json.Unmarshal([]byte(c.Question), &p); err != nil || p.Prompt == "" {
			fmt.Fprintln(w, c.Question)
			return
		}
		fmt.Fprintln(w, p.Prompt)
		for _, letter := range sortedKeys(p.Options) {
			fmt.Fprintf(w, "  [%s] %s\n", letter, p.Options[letter])
		}
		if c.Type == store.CardMAQ {
			fmt.Fprintln(w, "(several answers may apply; join letters with commas)")
		}
	case store.CardMatching:
		var p matchingPayload
		if err := json.Unmarshal([]byte(c.Question), &p); err != nil || len(p.Pairs) == 0 {
			fmt.Fprintln(w, c.Question)
			return
		}
		lefts := sortedKeys(p.Pairs)
		rights := make([]string, len(lefts))
		for i, l := range lefts {
			rights[i] = p.Pairs[l]
		}
		rng.Shuffle(len(rights), func(i, j int) {
			rights[i], rights[j] = rights[j], rights[i]
		})
		fmt.Fprintln(w, "Match each item on the left with one on the right:")
		for i, l := range lefts {
			fmt.Fprintf(w, "  %-30s | %s\n", l, rights[i])
		}
	case store.CardCloze:
		fmt.Fprintln(w, maskCloze(c.Question))
	case store.CardTF:
		fmt.Fprintln(w, c.Question)
		fmt.Fprintln(w, "True or false? (v/f)")
	default:
		fmt.Fprintln(w, c.Question)
	}
}

// maskCloze replaces each {{cN::content}} marker with a numbered blank.
// Text without markers passes through unchanged.
func maskCloze(text string) string {
	return clozeRE.ReplaceAllStringFunc(text, func(m string) string {
		sub := clozeRE.FindStringSubmatch(m)
		return fmt.Sprintf("[...%s...]", sub[1])
	})
}

// checkAnswer decides correctness for an auto-gradable card: trimmed,
// case-insensitive comparison against the stored answer.
func checkAnswer(c *store.Card, input string) bool {
	return strings.EqualFold(strings.TrimSpace(input), strings.TrimSpace(c.Answer))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
