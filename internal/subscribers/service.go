package subscribers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/torqlabs/torq-news/internal/apperr"
	"github.com/torqlabs/torq-news/internal/domain"
	"github.com/torqlabs/torq-news/internal/dto"
	"github.com/torqlabs/torq-news/pkg/pagination"
)

// Service is the subscription entry point. It validates input, writes
// through the primary store and falls back to the secondary when the
// primary is unavailable. Duplicate and validation errors always
// propagate; only infrastructure failures trigger the fallback.
type Service struct {
	primary  Storer
	fallback Storer
}

func NewService(primary, fallback Storer) *Service {
	return &Service{primary: primary, fallback: fallback}
}

func (s *Service) Subscribe(ctx context.Context, email, ipAddress string) (*domain.SubscribeResult, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	sub := domain.Subscriber{
		ID:           uuid.New(),
		Email:        normalized,
		Domain:       EmailDomain(normalized),
		Status:       domain.SubscriberActive,
		SubscribedAt: time.Now().UTC(),
		IPHash:       HashIP(ipAddress),
	}

	backend, err := s.store(ctx, sub)
	if err != nil {
		return nil, err
	}

	slog.Info("Subscriber stored", "backend", backend, "email_domain", sub.Domain)
	return &domain.SubscribeResult{
		Success: true,
		Backend: backend,
		Message: "Successfully subscribed!",
	}, nil
}

func (s *Service) store(ctx context.Context, sub domain.Subscriber) (domain.Backend, error) {
	err := s.primary.Subscribe(ctx, sub)
	if err == nil {
		return s.primary.Backend(), nil
	}

	var conflict *apperr.ConflictError
	if errors.As(err, &conflict) || s.fallback == nil {
		return s.primary.Backend(), err
	}

	slog.Warn("Primary subscriber store failed, using fallback",
		"primary", s.primary.Backend(),
		"fallback", s.fallback.Backend(),
		"error", err,
	)
	if err := s.fallback.Subscribe(ctx, sub); err != nil {
		return s.fallback.Backend(), err
	}
	return s.fallback.Backend(), nil
}

// Count returns the active subscriber total and the backend that answered.
func (s *Service) Count(ctx context.Context) (int64, domain.Backend, error) {
	count, err := s.primary.CountActive(ctx)
	if err == nil {
		return count, s.primary.Backend(), nil
	}
	if s.fallback == nil {
		return 0, s.primary.Backend(), err
	}

	slog.Warn("Primary subscriber count failed, using fallback",
		"primary", s.primary.Backend(),
		"error", err,
	)
	count, err = s.fallback.CountActive(ctx)
	if err != nil {
		return 0, s.fallback.Backend(), err
	}
	return count, s.fallback.Backend(), nil
}

// List pages through subscribers newest first with an opaque cursor.
func (s *Service) List(ctx context.Context, req pagination.CursorRequest) (*pagination.CursorResult[domain.Subscriber], error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var after *dto.Cursor
	if req.Cursor != nil {
		decoded, err := dto.DecodeCursor(*req.Cursor)
		if err != nil {
			return nil, apperr.NewValidationWrap("invalid cursor", err)
		}
		after = decoded
	}

	// Fetch one extra row to learn whether another page exists.
	items, err := s.primary.List(ctx, after, req.Size+1)
	if err != nil {
		if s.fallback == nil {
			return nil, err
		}
		slog.Warn("Primary subscriber list failed, using fallback", "error", err)
		items, err = s.fallback.List(ctx, after, req.Size+1)
		if err != nil {
			return nil, err
		}
	}

	return pagination.NewCursorResult(items, req.Size, func(sub domain.Subscriber) (string, error) {
		return dto.EncodeCursor(sub.SubscribedAt, sub.ID)
	})
}

// Healthy reports whether at least one store can take writes.
func (s *Service) Healthy(ctx context.Context) bool {
	if s.primary.Healthy(ctx) {
		return true
	}
	return s.fallback != nil && s.fallback.Healthy(ctx)
}

// Close releases both stores.
func (s *Service) Close() {
	s.primary.Close()
	if s.fallback != nil {
		s.fallback.Close()
	}
}
