package llm

import (
	"fmt"
	"strings"
)

// cardFormatRules describes the allowed card types and their payload
// formats. Shared by both prompts so generation and mutation emit the
// same wire format.
const cardFormatRules = `Allowed values for "card_type" and their payload formats:
- Factual / Conceptual / Relational: plain prose question and answer.
- MCQ: multiple choice. "question" is a JSON object: {"prompt": "...", "options": {"a": "...", "b": "..."}}. "answer" is the correct option letter.
- MAQ: multiple answer. Same "question" format as MCQ; "answer" is the correct letters comma-joined (e.g. "a,c").
- TF: true/false. "answer" is "v" (true) or "f" (false).
- Cloze: fill in the blanks using the marker syntax "The {{c1::word}} is {{c2::important}}". "answer" is the masked contents comma-joined in order.
- Matching: pairs. "question" is a JSON object: {"pairs": {"left": "right", ...}}. "answer" is a readable reconstruction of the correct pairs.`

// GenerationPrompt builds the deck-extraction prompt for one source
// record.
func GenerationPrompt(recordID int64, title, content, meta string) string {
	return fmt.Sprintf(`You are a university-level professor and an expert in pedagogy and active recall.
Read the following document and extract a deck of high-performance flashcards.

--- Record (ID: %d) ---
Title: %s
Raw content: %s
Extra metadata: %s

Mandatory generation rules:
1. COGNITIVE LEVEL: keep an upper-undergraduate level of complexity. No obvious questions; test deep comprehension and application.
2. PARAPHRASE: never copy-paste text from the document. Rephrase ideas so the student must process meaning, not recognize words.
3. FORMAT DIVERSITY: use a varied mix of card types.
4. QUANTITY: generate between 3 and 7 cards depending on information density.

%s

Return ONLY a JSON array, no other text:
[{"question": "...", "answer": "...", "card_type": "..."}]`,
		recordID, title, content, meta, cardFormatRules)
}

// MutationPrompt builds the rewrite prompt for a batch of over-exposed
// cards. Each card is listed with its id so rewrites can be applied
// back to the right rows.
func MutationPrompt(cards []MutationInput) string {
	var b strings.Builder
	for _, c := range cards {
		fmt.Fprintf(&b, "--- CARD ID %d ---\nOriginal question: %s\nOriginal answer: %s\n\n", c.ID, c.Question, c.Answer)
	}

	return fmt.Sprintf(`You are a cognitive mutation engine for a spaced-repetition system.
Your goal is to break memorization by habituation, where the student recognizes the shape of a question but not its substance.

Cards to reformulate:

%s
Your task:
1. RADICAL PARAPHRASE: rewrite each question and answer from scratch. Keep the meaning, change the wording and structure.
2. FORMAT TRANSFORMATION: change the card's type to a new one where possible.
3. INTEGRITY: invent nothing. Each answer must stay valid against the original knowledge.

%s

Return ONLY a JSON array, no other text:
[{"id": 123, "question": "...", "answer": "...", "card_type": "..."}]`,
		b.String(), cardFormatRules)
}

// MutationInput is one card handed to MutationPrompt.
type MutationInput struct {
	ID       int64
	Question string
	Answer   string
}
