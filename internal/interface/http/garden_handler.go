package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linwei/smartliving/internal/domain/devices"
	"github.com/linwei/smartliving/internal/domain/plants"
	apperrors "github.com/linwei/smartliving/pkg/errors"
)

// GardenHandler serves the plant catalog, per-user gardens and IoT devices.
type GardenHandler struct {
	plantsSvc  plants.Service
	devicesSvc devices.Service
	logger     *slog.Logger
}

// NewGardenHandler constructs the handler.
func NewGardenHandler(plantsSvc plants.Service, devicesSvc devices.Service, logger *slog.Logger) *GardenHandler {
	return &GardenHandler{
		plantsSvc:  plantsSvc,
		devicesSvc: devicesSvc,
		logger:     logger.With("component", "http.garden"),
	}
}

// PlantCatalog lists every plant in the catalog.
func (h *GardenHandler) PlantCatalog(c *gin.Context) {
	rows, err := h.plantsSvc.Catalog(c.Request.Context())
	if err != nil {
		abortWithError(c, storageHTTPError(err, "plants_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"plants": rows})
}

// FeaturedPlant returns today's featured plant.
func (h *GardenHandler) FeaturedPlant(c *gin.Context) {
	plant, ok, err := h.plantsSvc.DailyFeatured(c.Request.Context())
	if err != nil {
		abortWithError(c, storageHTTPError(err, "plants_failed"))
		return
	}
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "no plants in catalog", nil))
		return
	}
	c.JSON(http.StatusOK, plant)
}

// PlantCareGuide returns the stored care guide for a plant, generating one
// on first access.
func (h *GardenHandler) PlantCareGuide(c *gin.Context) {
	guide, err := h.plantsSvc.EnsureCareGuide(c.Request.Context(), c.Param("id"), langFrom(c))
	if err != nil {
		abortWithError(c, storageHTTPError(err, "plants_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"guide": guide})
}

// AddToGarden adds a catalog plant to the caller's garden.
func (h *GardenHandler) AddToGarden(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "login required", nil))
		return
	}
	var req plants.AddPlantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	plant, err := h.plantsSvc.AddToGarden(c.Request.Context(), claims.UserID, req)
	if err != nil {
		abortWithError(c, storageHTTPError(err, "garden_failed"))
		return
	}
	c.JSON(http.StatusCreated, plant)
}

// Garden lists the caller's plants.
func (h *GardenHandler) Garden(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "login required", nil))
		return
	}
	rows, err := h.plantsSvc.Garden(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, storageHTTPError(err, "garden_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"plants": rows})
}

// RemoveFromGarden deletes one of the caller's plants.
func (h *GardenHandler) RemoveFromGarden(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "login required", nil))
		return
	}
	if err := h.plantsSvc.RemoveFromGarden(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		abortWithError(c, storageHTTPError(err, "garden_failed"))
		return
	}
	c.Status(http.StatusNoContent)
}

// LogCare appends a care record to one of the caller's garden plants.
func (h *GardenHandler) LogCare(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "login required", nil))
		return
	}
	var req plants.CareRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	record, err := h.plantsSvc.LogCare(c.Request.Context(), claims.UserID, c.Param("id"), req)
	if err != nil {
		abortWithError(c, storageHTTPError(err, "garden_failed"))
		return
	}
	c.JSON(http.StatusCreated, record)
}

// CareLog lists the care records of one of the caller's garden plants.
func (h *GardenHandler) CareLog(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "login required", nil))
		return
	}
	rows, err := h.plantsSvc.CareLog(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		abortWithError(c, storageHTTPError(err, "garden_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": rows})
}

// RegisterDevice adds an IoT device for the caller.
func (h *GardenHandler) RegisterDevice(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "login required", nil))
		return
	}
	var req devices.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	device, err := h.devicesSvc.Register(c.Request.Context(), claims.UserID, req)
	if err != nil {
		abortWithError(c, storageHTTPError(err, "devices_failed"))
		return
	}
	c.JSON(http.StatusCreated, device)
}

// ListDevices lists the caller's devices with live telemetry overlaid.
func (h *GardenHandler) ListDevices(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "login required", nil))
		return
	}
	rows, err := h.devicesSvc.List(c.Request.Context(), claims.UserID)
	if err != nil {
		abortWithError(c, storageHTTPError(err, "devices_failed"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"devices": rows})
}

// RemoveDevice deletes one of the caller's devices.
func (h *GardenHandler) RemoveDevice(c *gin.Context) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "login required", nil))
		return
	}
	if err := h.devicesSvc.Remove(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		abortWithError(c, storageHTTPError(err, "devices_failed"))
		return
	}
	c.Status(http.StatusNoContent)
}

func storageHTTPError(err error, fallbackCode string) *HTTPError {
	status := http.StatusInternalServerError
	code := fallbackCode
	switch apperrors.CodeOf(err) {
	case "invalid_input":
		status = http.StatusBadRequest
		code = "invalid_request"
	case "not_found":
		status = http.StatusNotFound
		code = "not_found"
	case "llm_error":
		status = http.StatusBadGateway
		code = "llm_error"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}
