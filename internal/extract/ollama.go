package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rcliao/trip-planner/internal/config"
	"github.com/rcliao/trip-planner/internal/model"
)

// Ollama extracts preferences with a local Ollama instance.
type Ollama struct {
	baseURL    string
	model      string
	vocabulary []string
	now        func() time.Time
	client     *http.Client
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   string          `json:"format"`
	Options  map[string]any  `json:"options,omitempty"`
}

type ollamaResponse struct {
	Message ollamaMessage `json:"message"`
}

// NewOllama creates an extractor using Ollama's chat API.
// Default model: llama3.1.
func NewOllama(baseURL, model string, timeout time.Duration) *Ollama {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3.1"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Ollama{
		baseURL:    baseURL,
		model:      model,
		vocabulary: config.Default().InterestNames(),
		now:        time.Now,
		client:     &http.Client{Timeout: timeout},
	}
}

// WithVocabulary sets the interest names offered to the model.
func (e *Ollama) WithVocabulary(names []string) *Ollama {
	e.vocabulary = names
	return e
}

func (e *Ollama) Extract(ctx context.Context, text string, prior model.Preferences) (model.Preferences, error) {
	content, err := e.chat(ctx, text, prior)
	if err != nil {
		return model.Preferences{}, &Error{Provider: "ollama", Err: err}
	}
	p, err := Decode(content)
	if err != nil {
		return model.Preferences{}, &Error{Provider: "ollama", Err: err}
	}
	return p, nil
}

func (e *Ollama) chat(ctx context.Context, text string, prior model.Preferences) (string, error) {
	body, _ := json.Marshal(ollamaRequest{
		Model: e.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: Prompt(e.now(), e.vocabulary, prior)},
			{Role: "user", Content: text},
		},
		Format:  "json",
		Options: map[string]any{"temperature": 0},
	})
	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama error %d: %s", resp.StatusCode, string(b))
	}

	var result ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.Message.Content, nil
}
