// Package extract adapts natural language turns into proposed preference
// updates. Providers are untrusted: every response goes through Decode and
// anything that does not conform is reported as an extraction failure.
package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/trip-planner/internal/config"
	"github.com/rcliao/trip-planner/internal/model"
)

// ErrExtraction matches every extraction failure via errors.Is.
var ErrExtraction = errors.New("extraction failed")

// Error is an extraction failure from a named provider.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s extraction: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrExtraction) true for every *Error.
func (e *Error) Is(target error) bool { return target == ErrExtraction }

// Extractor maps a user turn plus the current preference snapshot to a
// proposal. The proposal holds only what the turn states; merging is the
// caller's job.
type Extractor interface {
	Extract(ctx context.Context, text string, prior model.Preferences) (model.Preferences, error)
}

// Func adapts a function to Extractor.
type Func func(ctx context.Context, text string, prior model.Preferences) (model.Preferences, error)

// Extract implements Extractor.
func (f Func) Extract(ctx context.Context, text string, prior model.Preferences) (model.Preferences, error) {
	return f(ctx, text, prior)
}

// NewFromConfig creates the configured extractor.
// Provider: "openai" | "ollama" | "fields" | "" (same as fields)
func NewFromConfig(cfg config.Extract) (Extractor, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai provider needs extract.api_key or OPENAI_API_KEY")
		}
		return NewOpenAI(cfg.BaseURL, cfg.APIKey, cfg.Model, cfg.Timeout), nil
	case "ollama":
		return NewOllama(cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case "fields", "":
		return Fields{}, nil
	default:
		return nil, fmt.Errorf("unknown extract provider %q", cfg.Provider)
	}
}

const systemPrompt = `You extract travel preferences from one message of a trip planning conversation.
Today is %s.

Return ONLY a JSON object with exactly these keys:
%s

Rules:
- Use null for anything the message does not state. Never guess.
- Dates are YYYY-MM-DD. Resolve relative dates against today.
- budget is the total trip amount, daily_budget a per-day amount. Numbers only.
- pace is one of relaxed, moderate, packed.
- group_type is one of solo, couple, family, friends.
- interests pick from: %s. Use the closest name.
- Lists are JSON arrays.

Preferences collected so far (for context, do not repeat them unless the message changes them):
%s`

// Prompt renders the system prompt for a turn.
func Prompt(now time.Time, vocabulary []string, prior model.Preferences) string {
	snapshot, _ := json.Marshal(prior)
	return fmt.Sprintf(systemPrompt,
		now.Format(model.DateLayout),
		strings.Join(model.AllFields, ", "),
		strings.Join(vocabulary, ", "),
		string(snapshot))
}
