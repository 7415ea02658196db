package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const geminiAPI = "https://generativelanguage.googleapis.com/v1beta/models"

// DefaultGeminiModels is the ordered fallback list: each model is tried
// in sequence until one answers.
var DefaultGeminiModels = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-1.5-flash",
}

// Gemini calls the Gemini generateContent API directly.
type Gemini struct {
	apiKey string
	models []string
	client *http.Client
}

// NewGemini creates a new Gemini API client with an ordered model
// fallback list.
func NewGemini(apiKey string, models []string) *Gemini {
	return &Gemini{
		apiKey: apiKey,
		models: models,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

// Complete sends a prompt to the Gemini API, trying each model in order
// until one succeeds. Returns the last error if all models fail.
func (g *Gemini) Complete(ctx context.Context, prompt string) (*Response, error) {
	var lastErr error
	for _, model := range g.models {
		resp, err := g.generate(ctx, model, prompt)
		if err != nil {
			lastErr = err
			continue
		}
		return resp, nil
	}
	return nil, fmt.Errorf("all gemini models failed: %w", lastErr)
}

func (g *Gemini) generate(ctx context.Context, model, prompt string) (*Response, error) {
	reqBody := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": prompt}}},
		},
		"generationConfig": map[string]any{
			"temperature":      0.3,
			"responseMimeType": "application/json",
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", geminiAPI, model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini api (%s): %w", model, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini api (%s) status %d: %s", model, resp.StatusCode, respBody)
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	text := ""
	if len(result.Candidates) > 0 {
		for _, part := range result.Candidates[0].Content.Parts {
			text += part.Text
		}
	}
	if text == "" {
		return nil, fmt.Errorf("gemini api (%s): empty response", model)
	}

	return &Response{
		Content:  text,
		Provider: "gemini",
		Model:    model,
	}, nil
}
