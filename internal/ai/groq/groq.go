package groq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.groq.com/openai"

type Client struct {
	APIKey  string
	Model   string
	BaseURL string
	http    *http.Client
}

func New(apiKey, model, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = "openai/gpt-oss-20b"
	}
	return &Client{
		APIKey:  apiKey,
		Model:   model,
		BaseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 20 * time.Second},
	}
}

type promptPair struct {
	Prompt          string `json:"prompt"`
	ExampleResponse string `json:"example_response"`
}

// GeneratePrompt asks the model for a party-game prompt plus an example
// response, constrained to a JSON object via the structured-output API.
func (c *Client) GeneratePrompt(ctx context.Context) (string, string, error) {
	if c.APIKey == "" {
		return "", "", errors.New("missing GROQ_API_KEY")
	}

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt":           map[string]any{"type": "string"},
			"example_response": map[string]any{"type": "string"},
		},
		"required":             []string{"prompt", "example_response"},
		"additionalProperties": false,
	}
	payload := map[string]any{
		"model":       c.Model,
		"temperature": 0.8,
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": "Return only JSON matching the provided schema. Generate a fun, non-trivia party-game prompt and a short example response.",
			},
			{
				"role":    "user",
				"content": "Generate a prompt for a party game where people need to write a short response. It should be funny or interesting and suitable for ~2 sentence responses. Provide fields prompt and example_response.",
			},
		},
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "prompt_pair",
				"schema": schema,
			},
		},
	}

	b, _ := json.Marshal(payload)
	req, _ := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/chat/completions", bytes.NewReader(b))
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", "", fmt.Errorf("groq status %d", resp.StatusCode)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", "", err
	}
	if len(out.Choices) == 0 {
		return "", "", errors.New("no choices")
	}

	var pair promptPair
	if err := json.Unmarshal([]byte(out.Choices[0].Message.Content), &pair); err != nil {
		return "", "", fmt.Errorf("parse prompt pair: %w", err)
	}
	if pair.Prompt == "" || pair.ExampleResponse == "" {
		return "", "", errors.New("incomplete prompt pair")
	}
	return strings.TrimSpace(pair.Prompt), strings.TrimSpace(pair.ExampleResponse), nil
}
