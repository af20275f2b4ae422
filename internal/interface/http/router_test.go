package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/linwei/smartliving/internal/domain/assistant"
	"github.com/linwei/smartliving/internal/domain/auth"
	"github.com/linwei/smartliving/internal/domain/devices"
	"github.com/linwei/smartliving/internal/domain/environment"
	"github.com/linwei/smartliving/internal/domain/feedback"
	"github.com/linwei/smartliving/internal/domain/forum"
	"github.com/linwei/smartliving/internal/domain/photos"
	"github.com/linwei/smartliving/internal/domain/plants"
	"github.com/linwei/smartliving/internal/domain/telemetry"
	"github.com/linwei/smartliving/internal/domain/uploads"
	"github.com/linwei/smartliving/internal/infra/config"
	apperrors "github.com/linwei/smartliving/pkg/errors"
	"github.com/linwei/smartliving/pkg/i18n"
	"github.com/linwei/smartliving/pkg/metrics"
)

func TestRouter_EnvironmentSuccess(t *testing.T) {
	deps := newTestDeps()
	deps.env.snapshotFn = func(ctx context.Context, city string, lang i18n.Language) (environment.Reading, error) {
		require.Equal(t, "北京", city)
		require.Equal(t, i18n.Chinese, lang)
		return environment.Reading{Temperature: 22, Humidity: 55, PM25: 42, Valid: true, CityName: "北京"}, nil
	}

	rec := performGet("/api/v1/environment?city=北京", newRouterUnderTest(t, deps))
	require.Equal(t, http.StatusOK, rec.Code)

	var got environmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, 22, got.Reading.Temperature)
	require.NotEmpty(t, got.Clothing.Commute)
	require.NotEmpty(t, got.Advice)
}

func TestRouter_EnvironmentInvalidReadingSkipsRecommendations(t *testing.T) {
	deps := newTestDeps()
	deps.env.snapshotFn = func(ctx context.Context, city string, lang i18n.Language) (environment.Reading, error) {
		return environment.Reading{Valid: false, CityName: "北京"}, nil
	}

	rec := performGet("/api/v1/environment?city=北京", newRouterUnderTest(t, deps))
	require.Equal(t, http.StatusOK, rec.Code)

	var got environmentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.False(t, got.Reading.Valid)
	require.Empty(t, got.Clothing)
	require.Empty(t, got.Advice)
}

func TestRouter_EnvironmentCityNotFound(t *testing.T) {
	deps := newTestDeps()
	deps.env.snapshotFn = func(ctx context.Context, city string, lang i18n.Language) (environment.Reading, error) {
		return environment.Reading{}, apperrors.Wrap("city_not_found", "no match", nil)
	}

	rec := performGet("/api/v1/environment?city=nowhere", newRouterUnderTest(t, deps))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "city_not_found", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_ChatSuccess(t *testing.T) {
	deps := newTestDeps()
	deps.assistant.chatFn = func(ctx context.Context, transcript []assistant.Message, tag assistant.ContextTag, lang i18n.Language) (string, error) {
		require.Len(t, transcript, 1)
		require.Equal(t, assistant.ContextOutfit, tag)
		return "你好！", nil
	}

	body := `{"messages":[{"role":"user","content":"你好"}],"context":"outfit"}`
	rec := performPost("/api/v1/assistant/chat", body, newRouterUnderTest(t, deps))
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "你好！", got["reply"])
}

func TestRouter_ChatUpstreamFailure(t *testing.T) {
	deps := newTestDeps()
	deps.assistant.chatFn = func(ctx context.Context, transcript []assistant.Message, tag assistant.ContextTag, lang i18n.Language) (string, error) {
		return "", apperrors.Wrap("llm_error", "provider timeout", nil)
	}

	body := `{"messages":[{"role":"user","content":"hi"}],"context":"outfit"}`
	rec := performPost("/api/v1/assistant/chat", body, newRouterUnderTest(t, deps))
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "llm_error", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_ChatInvalidJSON(t *testing.T) {
	rec := performPost("/api/v1/assistant/chat", `{"messages":"nope"}`, newRouterUnderTest(t, newTestDeps()))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_request", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_GardenRequiresAuth(t *testing.T) {
	server := newRouterUnderTest(t, newTestDeps())

	rec := performGet("/api/v1/garden", server)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "unauthorized", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_GardenRejectsInvalidToken(t *testing.T) {
	deps := newTestDeps()
	deps.auth.verifyFn = func(ctx context.Context, token string) (auth.Claims, error) {
		return auth.Claims{}, apperrors.Wrap("invalid_token", "signature mismatch", nil)
	}
	server := newRouterUnderTest(t, deps)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/garden", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "invalid_token", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_GardenWithValidToken(t *testing.T) {
	deps := newTestDeps()
	deps.auth.verifyFn = func(ctx context.Context, token string) (auth.Claims, error) {
		require.Equal(t, "good-token", token)
		return auth.Claims{UserID: "u1"}, nil
	}
	deps.plants.gardenFn = func(ctx context.Context, userID string) ([]plants.UserPlant, error) {
		require.Equal(t, "u1", userID)
		return []plants.UserPlant{{ID: "up1", PlantID: "pothos"}}, nil
	}
	server := newRouterUnderTest(t, deps)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/garden", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_LastReading(t *testing.T) {
	deps := newTestDeps()
	rec := performGet("/api/v1/environment/last?city=北京", newRouterUnderTest(t, deps))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_PublicRouteAllowsAnonymous(t *testing.T) {
	deps := newTestDeps()
	deps.auth.verifyFn = func(ctx context.Context, token string) (auth.Claims, error) {
		t.Fatal("verify must not run without an authorization header")
		return auth.Claims{}, nil
	}
	deps.forum.postsFn = func(ctx context.Context, category string) ([]forum.Post, error) {
		return nil, nil
	}

	rec := performGet("/api/v1/forum/posts", newRouterUnderTest(t, deps))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_PublicRouteRejectsBadToken(t *testing.T) {
	deps := newTestDeps()
	deps.auth.verifyFn = func(ctx context.Context, token string) (auth.Claims, error) {
		return auth.Claims{}, apperrors.Wrap("invalid_token", "signature mismatch", nil)
	}
	server := newRouterUnderTest(t, deps)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/forum/posts", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "invalid_token", decodeErrorBody(t, rec.Body.Bytes())["error"]["code"])
}

func TestRouter_ForumPostsPublic(t *testing.T) {
	deps := newTestDeps()
	deps.forum.postsFn = func(ctx context.Context, category string) ([]forum.Post, error) {
		require.Equal(t, forum.CategoryPlant, category)
		return []forum.Post{{ID: "p1", Category: forum.CategoryPlant}}, nil
	}

	rec := performGet("/api/v1/forum/posts?category=plant", newRouterUnderTest(t, deps))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_ForumSearch(t *testing.T) {
	deps := newTestDeps()
	deps.forum.searchFn = func(ctx context.Context, query string, limit int) ([]forum.SearchMatch, error) {
		require.Equal(t, "冬季穿搭", query)
		return []forum.SearchMatch{{Post: forum.Post{ID: "p1"}, Distance: 0.2}}, nil
	}

	rec := performGet("/api/v1/forum/search?q=冬季穿搭", newRouterUnderTest(t, deps))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_FeedbackSubmittedAnonymously(t *testing.T) {
	deps := newTestDeps()
	deps.feedback.submitFn = func(ctx context.Context, req feedback.SubmitRequest) (feedback.Entry, error) {
		require.Equal(t, "great app", req.Content)
		return feedback.Entry{ID: "f1", Content: req.Content}, nil
	}

	rec := performPost("/api/v1/feedback", `{"content":"great app"}`, newRouterUnderTest(t, deps))
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestRouter_Healthz(t *testing.T) {
	rec := performGet("/healthz", newRouterUnderTest(t, newTestDeps()))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_MetricsExposed(t *testing.T) {
	rec := performGet("/metrics", newRouterUnderTest(t, newTestDeps()))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_TelemetryLoadingBeforeFirstPoll(t *testing.T) {
	rec := performGet("/api/v1/telemetry", newRouterUnderTest(t, newTestDeps()))
	require.Equal(t, http.StatusOK, rec.Code)

	var got telemetry.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.True(t, got.Loading)
}

type testDeps struct {
	env       *stubEnvService
	assistant *stubAssistantService
	photos    *stubPhotosService
	plants    *stubPlantsService
	devices   *stubDevicesService
	forum     *stubForumService
	feedback  *stubFeedbackService
	uploads   *stubUploadsService
	auth      *stubAuthService
}

func newTestDeps() *testDeps {
	return &testDeps{
		env:       &stubEnvService{},
		assistant: &stubAssistantService{},
		photos:    &stubPhotosService{},
		plants:    &stubPlantsService{},
		devices:   &stubDevicesService{},
		forum:     &stubForumService{},
		feedback:  &stubFeedbackService{},
		uploads:   &stubUploadsService{},
		auth:      &stubAuthService{},
	}
}

func newRouterUnderTest(t *testing.T, deps *testDeps) *http.Server {
	t.Helper()
	logger := newTestLogger()
	reg := metrics.NewRegistry()
	poller := telemetry.NewPoller(fetcherFunc(func(ctx context.Context) (telemetry.Reading, error) {
		return telemetry.Reading{}, nil
	}), time.Hour, reg, logger)

	handler := NewHandler(deps.env, deps.assistant, deps.photos, poller, logger)
	gardenHandler := NewGardenHandler(deps.plants, deps.devices, logger)
	communityHandler := NewCommunityHandler(deps.forum, deps.feedback, deps.uploads, logger)
	wsHandler := NewTelemetryWSHandler(poller, logger)

	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler, gardenHandler, communityHandler, wsHandler, deps.auth, reg, logger)
}

func performGet(path string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func performPost(path, body string, server *http.Server) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

type fetcherFunc func(ctx context.Context) (telemetry.Reading, error)

func (f fetcherFunc) Fetch(ctx context.Context) (telemetry.Reading, error) { return f(ctx) }

type stubEnvService struct {
	snapshotFn func(ctx context.Context, city string, lang i18n.Language) (environment.Reading, error)
}

func (s *stubEnvService) Snapshot(ctx context.Context, city string, lang i18n.Language) (environment.Reading, error) {
	if s.snapshotFn != nil {
		return s.snapshotFn(ctx, city, lang)
	}
	return environment.Reading{}, nil
}

func (s *stubEnvService) LastKnown(context.Context, string) (environment.StoredReading, bool, error) {
	return environment.StoredReading{}, false, nil
}

func (s *stubEnvService) TrendingCities(context.Context, int) ([]environment.TrendingCity, error) {
	return nil, nil
}

type stubAssistantService struct {
	chatFn func(ctx context.Context, transcript []assistant.Message, tag assistant.ContextTag, lang i18n.Language) (string, error)
}

func (s *stubAssistantService) Chat(ctx context.Context, transcript []assistant.Message, tag assistant.ContextTag, lang i18n.Language) (string, error) {
	if s.chatFn != nil {
		return s.chatFn(ctx, transcript, tag, lang)
	}
	return "", nil
}

func (s *stubAssistantService) OutfitAdvice(context.Context, int, int, string, i18n.Language) (string, error) {
	return "", nil
}

func (s *stubAssistantService) PlantCareAdvice(context.Context, string, string, i18n.Language) (string, error) {
	return "", nil
}

func (s *stubAssistantService) CareGuide(context.Context, string, i18n.Language) string { return "" }

type stubPhotosService struct{}

func (s *stubPhotosService) CityBackground(context.Context, string) string { return "" }

type stubPlantsService struct {
	gardenFn func(ctx context.Context, userID string) ([]plants.UserPlant, error)
}

func (s *stubPlantsService) Catalog(context.Context) ([]plants.Plant, error) { return nil, nil }

func (s *stubPlantsService) DailyFeatured(context.Context) (plants.Plant, bool, error) {
	return plants.Plant{}, false, nil
}

func (s *stubPlantsService) EnsureCareGuide(context.Context, string, i18n.Language) (string, error) {
	return "", nil
}

func (s *stubPlantsService) AddToGarden(context.Context, string, plants.AddPlantRequest) (plants.UserPlant, error) {
	return plants.UserPlant{}, nil
}

func (s *stubPlantsService) Garden(ctx context.Context, userID string) ([]plants.UserPlant, error) {
	if s.gardenFn != nil {
		return s.gardenFn(ctx, userID)
	}
	return nil, nil
}

func (s *stubPlantsService) RemoveFromGarden(context.Context, string, string) error { return nil }

func (s *stubPlantsService) LogCare(context.Context, string, string, plants.CareRecordRequest) (plants.CareRecord, error) {
	return plants.CareRecord{}, nil
}

func (s *stubPlantsService) CareLog(context.Context, string, string) ([]plants.CareRecord, error) {
	return nil, nil
}

type stubDevicesService struct{}

func (s *stubDevicesService) Register(context.Context, string, devices.CreateRequest) (devices.Device, error) {
	return devices.Device{}, nil
}

func (s *stubDevicesService) List(context.Context, string) ([]devices.Device, error) {
	return nil, nil
}

func (s *stubDevicesService) Remove(context.Context, string, string) error { return nil }

type stubForumService struct {
	postsFn  func(ctx context.Context, category string) ([]forum.Post, error)
	searchFn func(ctx context.Context, query string, limit int) ([]forum.SearchMatch, error)
}

func (s *stubForumService) CreatePost(context.Context, string, forum.CreatePostRequest) (forum.Post, error) {
	return forum.Post{}, nil
}

func (s *stubForumService) Posts(ctx context.Context, category string) ([]forum.Post, error) {
	if s.postsFn != nil {
		return s.postsFn(ctx, category)
	}
	return nil, nil
}

func (s *stubForumService) ToggleLike(context.Context, string, string) (bool, error) {
	return false, nil
}

func (s *stubForumService) AddComment(context.Context, string, string, forum.CommentRequest) (forum.Comment, error) {
	return forum.Comment{}, nil
}

func (s *stubForumService) Comments(context.Context, string) ([]forum.Comment, error) {
	return nil, nil
}

func (s *stubForumService) Search(ctx context.Context, query string, limit int) ([]forum.SearchMatch, error) {
	if s.searchFn != nil {
		return s.searchFn(ctx, query, limit)
	}
	return nil, nil
}

type stubFeedbackService struct {
	submitFn func(ctx context.Context, req feedback.SubmitRequest) (feedback.Entry, error)
}

func (s *stubFeedbackService) Submit(ctx context.Context, req feedback.SubmitRequest) (feedback.Entry, error) {
	if s.submitFn != nil {
		return s.submitFn(ctx, req)
	}
	return feedback.Entry{}, nil
}

func (s *stubFeedbackService) Recent(context.Context, int) ([]feedback.Entry, error) {
	return nil, nil
}

type stubUploadsService struct{}

func (s *stubUploadsService) UploadImage(context.Context, string, string, []byte) (string, error) {
	return "", nil
}

type stubAuthService struct {
	verifyFn func(ctx context.Context, token string) (auth.Claims, error)
}

func (s *stubAuthService) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if s.verifyFn != nil {
		return s.verifyFn(ctx, token)
	}
	return auth.Claims{}, apperrors.Wrap("invalid_token", "token rejected", nil)
}

var (
	_ photos.Service  = (*stubPhotosService)(nil)
	_ uploads.Service = (*stubUploadsService)(nil)
)
