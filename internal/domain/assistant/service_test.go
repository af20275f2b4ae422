package assistant

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/linwei/smartliving/internal/infra/llm/deepseek"
	apperrors "github.com/linwei/smartliving/pkg/errors"
	"github.com/linwei/smartliving/pkg/i18n"
)

type stubChatClient struct {
	reply    string
	err      error
	empty    bool
	requests []deepseek.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, req deepseek.ChatCompletionRequest) (deepseek.ChatCompletionResponse, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return deepseek.ChatCompletionResponse{}, s.err
	}
	var resp deepseek.ChatCompletionResponse
	if !s.empty {
		resp.Choices = []struct {
			Message deepseek.Message `json:"message"`
		}{
			{Message: deepseek.Message{Role: "assistant", Content: s.reply}},
		}
	}
	return resp, nil
}

func newTestService(client ChatClient, budget int) *service {
	return &service{
		cfg: Config{
			Model:        "deepseek-chat",
			Temperature:  0.7,
			MaxTokens:    2000,
			PromptBudget: budget,
		},
		client: client,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestChatPrependsSystemPrompt(t *testing.T) {
	client := &stubChatClient{reply: "wear a coat"}
	svc := newTestService(client, 0)

	reply, err := svc.Chat(context.Background(), []Message{{Role: "user", Content: "what should I wear?"}}, ContextOutfit, i18n.English)
	require.NoError(t, err)
	require.Equal(t, "wear a coat", reply)

	require.Len(t, client.requests, 1)
	req := client.requests[0]
	require.Equal(t, "deepseek-chat", req.Model)
	require.Equal(t, float32(0.7), req.Temperature)
	require.Equal(t, 2000, req.MaxTokens)
	require.False(t, req.Stream)
	require.Len(t, req.Messages, 2)
	require.Equal(t, "system", req.Messages[0].Role)
	require.Equal(t, systemPromptFor(ContextOutfit, i18n.English), req.Messages[0].Content)
	require.Equal(t, "user", req.Messages[1].Role)
}

func TestChatSystemPromptVariants(t *testing.T) {
	prompts := map[string]string{}
	for _, tag := range []ContextTag{ContextOutfit, ContextPlant} {
		for _, lang := range []i18n.Language{i18n.Chinese, i18n.English} {
			prompt := systemPromptFor(tag, lang)
			require.NotEmpty(t, prompt)
			prompts[prompt] = string(tag)
		}
	}
	require.Len(t, prompts, 4, "each context/language pair has its own prompt")
}

func TestChatRejectsUnknownContext(t *testing.T) {
	svc := newTestService(&stubChatClient{}, 0)
	_, err := svc.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}, ContextTag("cooking"), i18n.English)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestChatEmptyChoicesReturnsPlaceholder(t *testing.T) {
	svc := newTestService(&stubChatClient{empty: true}, 0)

	reply, err := svc.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}, ContextPlant, i18n.Chinese)
	require.NoError(t, err)
	require.Equal(t, "抱歉，我现在无法回复。", reply)

	reply, err = svc.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}, ContextPlant, i18n.English)
	require.NoError(t, err)
	require.Equal(t, "Sorry, I cannot respond right now.", reply)
}

func TestChatTransportFailurePropagates(t *testing.T) {
	svc := newTestService(&stubChatClient{err: errors.New("timeout")}, 0)
	_, err := svc.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}}, ContextOutfit, i18n.English)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "llm_error"))
}

func TestChatTrimsOldestTurnsToBudget(t *testing.T) {
	client := &stubChatClient{reply: "ok"}
	// tiny budget: only the newest turn can fit
	svc := newTestService(client, 10)

	transcript := []Message{
		{Role: "user", Content: strings.Repeat("old words ", 50)},
		{Role: "assistant", Content: strings.Repeat("older reply ", 50)},
		{Role: "user", Content: "newest question"},
	}
	_, err := svc.Chat(context.Background(), transcript, ContextOutfit, i18n.English)
	require.NoError(t, err)

	req := client.requests[0]
	// system prompt + the surviving newest turn
	require.Len(t, req.Messages, 2)
	require.Equal(t, "newest question", req.Messages[1].Content)
}

func TestOutfitAdviceSendsConditions(t *testing.T) {
	client := &stubChatClient{reply: "light jacket"}
	svc := newTestService(client, 0)

	advice, err := svc.OutfitAdvice(context.Background(), 18, 65, "Beijing", i18n.English)
	require.NoError(t, err)
	require.Equal(t, "light jacket", advice)

	req := client.requests[0]
	require.Len(t, req.Messages, 2)
	require.Contains(t, req.Messages[1].Content, "18")
	require.Contains(t, req.Messages[1].Content, "65")
	require.Contains(t, req.Messages[1].Content, "Beijing")
}

func TestCareGuideFallsBackOnFailure(t *testing.T) {
	svc := newTestService(&stubChatClient{err: errors.New("unreachable")}, 0)

	guide := svc.CareGuide(context.Background(), "Monstera", i18n.English)
	require.Contains(t, guide, "Monstera")
	require.Equal(t, fallbackCareGuide("Monstera", i18n.English), guide)

	guideZH := svc.CareGuide(context.Background(), "龟背竹", i18n.Chinese)
	require.Contains(t, guideZH, "龟背竹")
	require.NotEqual(t, guide, guideZH)
}

func TestCareGuideReturnsGeneratedTextOnSuccess(t *testing.T) {
	svc := newTestService(&stubChatClient{reply: "## Watering\nweekly"}, 0)
	guide := svc.CareGuide(context.Background(), "Pothos", i18n.English)
	require.Equal(t, "## Watering\nweekly", guide)
}
