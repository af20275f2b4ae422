package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/linwei/smartliving/internal/domain/assistant"
	"github.com/linwei/smartliving/internal/domain/environment"
	"github.com/linwei/smartliving/internal/domain/photos"
	"github.com/linwei/smartliving/internal/domain/recommend"
	"github.com/linwei/smartliving/internal/domain/telemetry"
	apperrors "github.com/linwei/smartliving/pkg/errors"
	"github.com/linwei/smartliving/pkg/i18n"
)

// Handler wires the HTTP transport to the environment pipeline.
type Handler struct {
	envSvc       environment.Service
	assistantSvc assistant.Service
	photosSvc    photos.Service
	poller       *telemetry.Poller
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(envSvc environment.Service, assistantSvc assistant.Service, photosSvc photos.Service, poller *telemetry.Poller, logger *slog.Logger) *Handler {
	return &Handler{
		envSvc:       envSvc,
		assistantSvc: assistantSvc,
		photosSvc:    photosSvc,
		poller:       poller,
		logger:       logger.With("component", "http.handler"),
	}
}

func langFrom(c *gin.Context) i18n.Language {
	return i18n.Normalize(c.Query("lang"))
}

// environmentResponse bundles the reading with the derived recommendations
// so the home page renders from a single call.
type environmentResponse struct {
	Reading  environment.Reading `json:"reading"`
	Clothing recommend.Clothing  `json:"clothing"`
	Advice   []string            `json:"advice"`
}

// Environment resolves a city and returns its readings plus recommendations.
func (h *Handler) Environment(c *gin.Context) {
	city := c.Query("city")
	lang := langFrom(c)

	reading, err := h.envSvc.Snapshot(c.Request.Context(), city, lang)
	if err != nil {
		abortWithError(c, environmentHTTPError(err))
		return
	}

	resp := environmentResponse{Reading: reading}
	if reading.Valid {
		resp.Clothing = recommend.ClothingFor(float64(reading.Temperature), lang)
		resp.Advice = recommend.AdviceFor(float64(reading.Humidity), float64(reading.PM25), lang)
	}
	c.JSON(http.StatusOK, resp)
}

func environmentHTTPError(err error) *HTTPError {
	status := http.StatusInternalServerError
	code := "environment_failed"
	switch apperrors.CodeOf(err) {
	case "invalid_input":
		status = http.StatusBadRequest
		code = "invalid_request"
	case "city_not_found":
		status = http.StatusNotFound
		code = "city_not_found"
	case "geo_unavailable":
		status = http.StatusBadGateway
		code = "geo_unavailable"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

// LastReading returns the last good stored reading for a city, if any.
func (h *Handler) LastReading(c *gin.Context) {
	reading, ok, err := h.envSvc.LastKnown(c.Request.Context(), c.Query("city"))
	if err != nil {
		abortWithError(c, environmentHTTPError(err))
		return
	}
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "no stored reading for city", nil))
		return
	}
	c.JSON(http.StatusOK, reading)
}

// TrendingCities returns the most looked-up cities.
func (h *Handler) TrendingCities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	cities, err := h.envSvc.TrendingCities(c.Request.Context(), limit)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "trending_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"cities": cities})
}

// CityBackground returns a background image URL for the city.
func (h *Handler) CityBackground(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "city cannot be empty", nil))
		return
	}
	url := h.photosSvc.CityBackground(c.Request.Context(), city)
	c.JSON(http.StatusOK, gin.H{"url": url})
}

type chatRequest struct {
	Messages []assistant.Message `json:"messages" binding:"required"`
	Context  string              `json:"context" binding:"required"`
	Lang     string              `json:"lang"`
}

// Chat forwards a conversation to the assistant.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	reply, err := h.assistantSvc.Chat(c.Request.Context(), req.Messages, assistant.ContextTag(req.Context), i18n.Normalize(req.Lang))
	if err != nil {
		abortWithError(c, assistantHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

type outfitAdviceRequest struct {
	Temperature int    `json:"temperature"`
	Humidity    int    `json:"humidity"`
	City        string `json:"city" binding:"required"`
	Lang        string `json:"lang"`
}

// OutfitAdvice returns a one-shot clothing suggestion for the conditions.
func (h *Handler) OutfitAdvice(c *gin.Context) {
	var req outfitAdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	advice, err := h.assistantSvc.OutfitAdvice(c.Request.Context(), req.Temperature, req.Humidity, req.City, i18n.Normalize(req.Lang))
	if err != nil {
		abortWithError(c, assistantHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"advice": advice})
}

type plantCareAdviceRequest struct {
	PlantName string `json:"plantName" binding:"required"`
	Question  string `json:"question" binding:"required"`
	Lang      string `json:"lang"`
}

// PlantCareAdvice answers a single plant care question.
func (h *Handler) PlantCareAdvice(c *gin.Context) {
	var req plantCareAdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	advice, err := h.assistantSvc.PlantCareAdvice(c.Request.Context(), req.PlantName, req.Question, i18n.Normalize(req.Lang))
	if err != nil {
		abortWithError(c, assistantHTTPError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"advice": advice})
}

type careGuideRequest struct {
	PlantName string `json:"plantName" binding:"required"`
	Lang      string `json:"lang"`
}

// CareGuide generates a care guide for a plant name. It always answers; the
// assistant substitutes a canned guide when generation fails.
func (h *Handler) CareGuide(c *gin.Context) {
	var req careGuideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	guide := h.assistantSvc.CareGuide(c.Request.Context(), req.PlantName, i18n.Normalize(req.Lang))
	c.JSON(http.StatusOK, gin.H{"guide": guide})
}

func assistantHTTPError(err error) *HTTPError {
	status := http.StatusInternalServerError
	code := "assistant_failed"
	switch apperrors.CodeOf(err) {
	case "invalid_input":
		status = http.StatusBadRequest
		code = "invalid_request"
	case "llm_error":
		status = http.StatusBadGateway
		code = "llm_error"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

// Telemetry returns the latest polled device snapshot.
func (h *Handler) Telemetry(c *gin.Context) {
	c.JSON(http.StatusOK, h.poller.Snapshot())
}
