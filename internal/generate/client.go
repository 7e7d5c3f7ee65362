// Package generate produces alternative question phrasings for FAQ section
// headings via an OpenAI-compatible chat-completions endpoint.
package generate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"faqforge/internal/domain/services"
)

// Config configures the generator client. BaseURL points at any
// OpenAI-compatible server (LM Studio, OpenAI, a local proxy).
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int64
}

// Client implements services.QuestionGenerator.
type Client struct {
	api         openai.Client
	model       string
	timeout     time.Duration
	temperature float64
	maxTokens   int64
	prompts     *PromptSet
	logger      *slog.Logger
}

// NewClient builds a generator client with the embedded prompt templates.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	prompts, err := LoadPrompts()
	if err != nil {
		return nil, err
	}

	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 256
	}

	return &Client{
		api:         openai.NewClient(opts...),
		model:       cfg.Model,
		timeout:     cfg.Timeout,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		prompts:     prompts,
		logger:      logger,
	}, nil
}

// Generate requests alternative phrasings for one heading and enforces the
// request's constraints on the response. Every failure mode (timeout,
// non-2xx, malformed body, too few survivors) is returned to the caller,
// which treats it as non-fatal for that section.
func (c *Client) Generate(ctx context.Context, req services.GenerationRequest) ([]string, error) {
	system, user, err := c.prompts.Render(PromptData{
		Heading:  req.Heading,
		Context:  req.Context,
		Min:      req.Min,
		Max:      req.Max,
		MaxWords: req.MaxWords,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(c.maxTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug("completion received",
		"heading", req.Heading,
		"chars", len(content),
		"elapsed", time.Since(start),
	)

	return ParseAlternatives(content, Limits{Min: req.Min, Max: req.Max, MaxWords: req.MaxWords})
}
