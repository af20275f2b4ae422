package devices

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/linwei/smartliving/internal/domain/telemetry"
	apperrors "github.com/linwei/smartliving/pkg/errors"
)

// Repository abstracts device persistence.
type Repository interface {
	Insert(ctx context.Context, device Device) error
	ListByUser(ctx context.Context, userID string) ([]Device, error)
	Delete(ctx context.Context, userID, deviceID string) error
}

// LiveSource exposes the latest telemetry snapshot.
type LiveSource interface {
	Snapshot() telemetry.Snapshot
}

// Service manages the device registry and merges live telemetry into reads.
type Service interface {
	Register(ctx context.Context, userID string, req CreateRequest) (Device, error)
	List(ctx context.Context, userID string) ([]Device, error)
	Remove(ctx context.Context, userID, deviceID string) error
}

type service struct {
	repo   Repository
	live   LiveSource
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the device registry.
func NewService(repo Repository, live LiveSource, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		live:   live,
		logger: logger.With("component", "devices.service"),
		now:    time.Now,
	}
}

func (s *service) Register(ctx context.Context, userID string, req CreateRequest) (Device, error) {
	if strings.TrimSpace(req.Name) == "" {
		return Device{}, apperrors.Wrap("invalid_input", "device name cannot be empty", nil)
	}
	if strings.TrimSpace(req.Type) == "" {
		return Device{}, apperrors.Wrap("invalid_input", "device type cannot be empty", nil)
	}

	now := s.now().UTC()
	device := Device{
		ID:         uuid.NewString(),
		UserID:     userID,
		Name:       strings.TrimSpace(req.Name),
		Type:       strings.TrimSpace(req.Type),
		Location:   strings.TrimSpace(req.Location),
		IsOnline:   true,
		LastUpdate: now,
		CreatedAt:  now,
	}
	if err := s.repo.Insert(ctx, device); err != nil {
		return Device{}, apperrors.Wrap("storage_error", "failed to register device", err)
	}
	s.logger.Info("device registered", "device", device.Name, "type", device.Type)
	return device, nil
}

// List returns stored devices with the live telemetry overlay applied per
// the precedence table: sensors show live temperature and humidity,
// humidifiers live humidity only, everything else its stored values.
func (s *service) List(ctx context.Context, userID string) ([]Device, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list devices", err)
	}

	snapshot := s.live.Snapshot()
	for i := range rows {
		temp, hum := telemetry.Overlay(rows[i].Type, rows[i].Temperature, rows[i].Humidity, snapshot.Data)
		if temp != rows[i].Temperature || hum != rows[i].Humidity {
			rows[i].Temperature = temp
			rows[i].Humidity = hum
			rows[i].Live = true
		}
	}
	return rows, nil
}

func (s *service) Remove(ctx context.Context, userID, deviceID string) error {
	if err := s.repo.Delete(ctx, userID, deviceID); err != nil {
		return apperrors.Wrap("storage_error", "failed to remove device", err)
	}
	return nil
}
