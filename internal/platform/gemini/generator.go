package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"text/template"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/xelami/kouza-api/internal/config"
	"github.com/xelami/kouza-api/internal/domain"
	"github.com/xelami/kouza-api/internal/generation"
	"google.golang.org/genai"
)

// promptTemplateText is the prompt sent to the model, with the lesson content
// interpolated. The model is instructed to answer with JSON matching
// ResponseSchema so the response can be decoded directly.
const promptTemplateText = `You are an expert tutor creating spaced-repetition flashcards.

Read the lesson content below and produce a set of flashcards that cover its
key facts and concepts. Each card must have a clear, self-contained question
and a concise answer. Do not reference "the lesson" in the cards.

Respond with JSON only, in exactly this shape:
{"cards": [{"question": "...", "answer": "..."}]}

Lesson content:
{{.LessonContent}}
`

const baseRetryDelay = 2 * time.Second

// GeminiGenerator implements the generation.CardGenerator interface using
// Google's Gemini API to generate flashcards from lesson content.
type GeminiGenerator struct {
	logger *slog.Logger

	// config contains LLM-specific configuration
	config config.LLMConfig

	// promptTemplate is the parsed template for creating prompts
	promptTemplate *template.Template

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string
}

// Ensure GeminiGenerator implements the CardGenerator interface
var _ generation.CardGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a new GeminiGenerator with the provided
// dependencies. Returns generation.ErrInvalidConfig (wrapped) if the
// configuration is incomplete or the Gemini client cannot be created.
func NewGeminiGenerator(
	ctx context.Context,
	logger *slog.Logger,
	cfg config.LLMConfig,
) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("flashcard").Parse(promptTemplateText)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger:         logger.With("component", "gemini_generator"),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// GenerateCards creates flashcards from the lesson content in the request.
// It builds a prompt, calls the Gemini API with retries for transient
// failures, and maps the response to domain flashcards.
func (g *GeminiGenerator) GenerateCards(
	ctx context.Context,
	req generation.Request,
) ([]*domain.Flashcard, error) {
	prompt, err := g.createPrompt(req.Content)
	if err != nil {
		return nil, err
	}

	g.logger.InfoContext(ctx, "generating flashcards",
		"user_id", req.UserID,
		"module_id", req.ModuleID,
		"content_length", len(req.Content))

	schema, err := g.callGeminiWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	if len(schema.Cards) == 0 {
		return nil, fmt.Errorf("%w: response contained no cards", generation.ErrInvalidResponse)
	}

	cards := make([]*domain.Flashcard, 0, len(schema.Cards))
	for _, c := range schema.Cards {
		card, err := domain.NewFlashcard(
			req.UserID, req.CourseID, req.ModuleID, req.LessonID,
			c.Question, c.Answer,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: generated card failed validation: %v",
				generation.ErrInvalidResponse, err)
		}
		cards = append(cards, card)
	}

	g.logger.InfoContext(ctx, "flashcards generated",
		"user_id", req.UserID,
		"module_id", req.ModuleID,
		"card_count", len(cards))

	return cards, nil
}

func (g *GeminiGenerator) createPrompt(content string) (string, error) {
	if content == "" {
		return "", generation.ErrEmptyContent
	}

	var buf bytes.Buffer
	if err := g.promptTemplate.Execute(&buf, promptData{LessonContent: content}); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return buf.String(), nil
}

// callGeminiWithRetry calls the Gemini API with exponential backoff for
// transient errors. Permanent errors, such as content blocked by safety
// filters or an unparseable response, are returned immediately.
func (g *GeminiGenerator) callGeminiWithRetry(
	ctx context.Context,
	prompt string,
) (*ResponseSchema, error) {
	backoff := retry.WithMaxRetries(
		uint64(g.config.MaxRetries),
		retry.WithJitterPercent(10, retry.NewExponential(baseRetryDelay)),
	)

	genConfig := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	var schema *ResponseSchema
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), genConfig)
		if err != nil {
			g.logger.WarnContext(ctx, "gemini API call failed", "error", err)
			return retry.RetryableError(
				fmt.Errorf("%w: %v", generation.ErrTransientFailure, err))
		}

		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return fmt.Errorf("%w: prompt blocked (%s)",
				generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
		}

		if len(resp.Candidates) > 0 &&
			resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
			return fmt.Errorf("%w: response blocked by safety filters",
				generation.ErrContentBlocked)
		}

		parsed, err := parseResponse(resp.Text())
		if err != nil {
			return err
		}

		schema = parsed
		return nil
	})
	if err != nil {
		if errors.Is(err, generation.ErrContentBlocked) ||
			errors.Is(err, generation.ErrInvalidResponse) ||
			errors.Is(err, generation.ErrTransientFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	return schema, nil
}

// parseResponse decodes the model's JSON answer into a ResponseSchema.
func parseResponse(text string) (*ResponseSchema, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: empty response text", generation.ErrInvalidResponse)
	}

	var schema ResponseSchema
	if err := json.Unmarshal([]byte(text), &schema); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	return &schema, nil
}
