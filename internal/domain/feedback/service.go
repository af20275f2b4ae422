package feedback

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/linwei/smartliving/pkg/errors"
)

const maxContentLength = 4000

// Entry is one anonymous feedback submission. Name and email are optional.
type Entry struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmitRequest is the feedback form payload.
type SubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Content string `json:"content" binding:"required"`
}

// Repository persists feedback entries.
type Repository interface {
	Insert(ctx context.Context, entry Entry) error
	List(ctx context.Context, limit int) ([]Entry, error)
}

// Service accepts user feedback submissions.
type Service interface {
	Submit(ctx context.Context, req SubmitRequest) (Entry, error)
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

type service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the feedback domain.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.With("component", "feedback.service"),
		now:    time.Now,
	}
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (Entry, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return Entry{}, apperrors.Wrap("invalid_input", "content cannot be empty", nil)
	}
	if len(content) > maxContentLength {
		return Entry{}, apperrors.Wrap("invalid_input", "content too long", nil)
	}

	entry := Entry{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		return Entry{}, apperrors.Wrap("storage_error", "failed to save feedback", err)
	}
	s.logger.Info("feedback received")
	return entry, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to list feedback", err)
	}
	return rows, nil
}
