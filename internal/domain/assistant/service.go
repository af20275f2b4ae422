package assistant

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/linwei/smartliving/internal/infra/llm/deepseek"
	apperrors "github.com/linwei/smartliving/pkg/errors"
	"github.com/linwei/smartliving/pkg/i18n"
)

// Service bridges chat transcripts and one-shot prompts to the LLM provider.
type Service interface {
	Chat(ctx context.Context, transcript []Message, contextTag ContextTag, lang i18n.Language) (string, error)
	OutfitAdvice(ctx context.Context, temperature, humidity int, city string, lang i18n.Language) (string, error)
	PlantCareAdvice(ctx context.Context, plantName, question string, lang i18n.Language) (string, error)
	CareGuide(ctx context.Context, plantName string, lang i18n.Language) string
}

// ChatClient is implemented by the LLM provider client.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req deepseek.ChatCompletionRequest) (deepseek.ChatCompletionResponse, error)
}

type service struct {
	cfg    Config
	client ChatClient
	logger *slog.Logger

	encOnce sync.Once
	enc     *tiktoken.Tiktoken
}

// NewService wires up the assistant bridge.
func NewService(cfg Config, client ChatClient, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		client: client,
		logger: logger.With("component", "assistant.service"),
	}
}

// Chat prepends exactly one system prompt chosen by context tag and language,
// forwards the transcript, and returns the first completion verbatim. Zero
// choices yields a fixed placeholder instead of an error; transport failures
// propagate so the caller can substitute its own localized fallback.
func (s *service) Chat(ctx context.Context, transcript []Message, contextTag ContextTag, lang i18n.Language) (string, error) {
	if !contextTag.Valid() {
		return "", apperrors.Wrap("invalid_input", "unknown assistant context", nil)
	}
	if len(transcript) == 0 {
		return "", apperrors.Wrap("invalid_input", "transcript cannot be empty", nil)
	}

	messages := make([]deepseek.Message, 0, len(transcript)+1)
	messages = append(messages, deepseek.Message{Role: "system", Content: systemPromptFor(contextTag, lang)})
	for _, turn := range s.trimTranscript(transcript) {
		messages = append(messages, deepseek.Message{Role: turn.Role, Content: turn.Content})
	}

	return s.complete(ctx, messages, lang)
}

// OutfitAdvice asks for outfit suggestions for the current conditions.
func (s *service) OutfitAdvice(ctx context.Context, temperature, humidity int, city string, lang i18n.Language) (string, error) {
	system, user := outfitAdvicePrompts(temperature, humidity, city, lang)
	return s.complete(ctx, []deepseek.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, lang)
}

// PlantCareAdvice answers one question about one plant.
func (s *service) PlantCareAdvice(ctx context.Context, plantName, question string, lang i18n.Language) (string, error) {
	system, user := plantCareAdvicePrompts(plantName, question, lang)
	return s.complete(ctx, []deepseek.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, lang)
}

// CareGuide generates a structured care guide for a plant name. On any
// failure it substitutes the complete canned bilingual guide instead of
// propagating the error.
func (s *service) CareGuide(ctx context.Context, plantName string, lang i18n.Language) string {
	system, user := careGuidePrompts(plantName, lang)
	guide, err := s.complete(ctx, []deepseek.Message{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}, lang)
	if err != nil {
		s.logger.Warn("care guide generation failed, using canned guide", "plant", plantName, "error", err)
		return fallbackCareGuide(plantName, lang)
	}
	return guide
}

func (s *service) complete(ctx context.Context, messages []deepseek.Message, lang i18n.Language) (string, error) {
	completion, err := s.client.CreateChatCompletion(ctx, deepseek.ChatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    messages,
		Temperature: s.cfg.Temperature,
		MaxTokens:   s.cfg.MaxTokens,
	})
	if err != nil {
		return "", apperrors.Wrap("llm_error", "chat completion request failed", err)
	}
	if len(completion.Choices) == 0 {
		return emptyReplyPlaceholder(lang), nil
	}
	reply := completion.Choices[0].Message.Content
	if !completion.Usage.IsZero() {
		s.logger.Info("assistant reply", "promptTokens", completion.Usage.PromptTokens, "completionTokens", completion.Usage.CompletionTokens)
	}
	return reply, nil
}

// trimTranscript drops the oldest turns until the transcript fits the token
// budget. The newest turn always survives.
func (s *service) trimTranscript(transcript []Message) []Message {
	budget := s.cfg.PromptBudget
	if budget <= 0 || len(transcript) <= 1 {
		return transcript
	}

	enc := s.encoder()
	if enc == nil {
		return transcript
	}

	total := 0
	counts := make([]int, len(transcript))
	for i, turn := range transcript {
		counts[i] = len(enc.Encode(turn.Content, nil, nil))
		total += counts[i]
	}

	start := 0
	for total > budget && start < len(transcript)-1 {
		total -= counts[start]
		start++
	}
	if start > 0 {
		s.logger.Info("transcript trimmed to fit token budget", "dropped", start, "kept", len(transcript)-start)
	}
	return transcript[start:]
}

func (s *service) encoder() *tiktoken.Tiktoken {
	s.encOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			s.logger.Warn("tiktoken encoding unavailable, transcript trimming disabled", "error", err)
			return
		}
		s.enc = enc
	})
	return s.enc
}
