package extract

import (
	"context"
	"errors"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/rcliao/trip-planner/internal/config"
	"github.com/rcliao/trip-planner/internal/model"
)

// OpenAI extracts preferences with any OpenAI-compatible chat completions API.
type OpenAI struct {
	client     openai.Client
	model      string
	vocabulary []string
	now        func() time.Time
}

// NewOpenAI creates an OpenAI extractor. An empty baseURL uses the public API.
func NewOpenAI(baseURL, apiKey, model string, timeout time.Duration) *OpenAI {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	if model == "" {
		model = string(openai.ChatModelGPT4oMini)
	}
	return &OpenAI{
		client:     openai.NewClient(opts...),
		model:      model,
		vocabulary: config.Default().InterestNames(),
		now:        time.Now,
	}
}

// WithVocabulary sets the interest names offered to the model.
func (e *OpenAI) WithVocabulary(names []string) *OpenAI {
	e.vocabulary = names
	return e
}

func (e *OpenAI) Extract(ctx context.Context, text string, prior model.Preferences) (model.Preferences, error) {
	resp, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(Prompt(e.now(), e.vocabulary, prior)),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return model.Preferences{}, &Error{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return model.Preferences{}, &Error{Provider: "openai", Err: errors.New("no choices returned")}
	}
	p, err := Decode(resp.Choices[0].Message.Content)
	if err != nil {
		return model.Preferences{}, &Error{Provider: "openai", Err: err}
	}
	return p, nil
}
