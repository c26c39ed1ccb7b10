package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	domainerrors "github.com/agentdeck/agentdeck-server/internal/errors"
	"github.com/agentdeck/agentdeck-server/internal/newsletter"
	"github.com/agentdeck/agentdeck-server/internal/store"
	"github.com/agentdeck/agentdeck-server/internal/store/sqlite"
	"github.com/agentdeck/agentdeck-server/internal/validation"
)

// NewsletterService captures signups locally and relays them to the
// email-list provider. The local record is the source of truth; the relay
// is best-effort.
type NewsletterService struct {
	store     *sqlite.Store
	client    *newsletter.Client
	validator *validation.Validator
	logger    *slog.Logger
}

// NewNewsletterService creates a new newsletter service.
func NewNewsletterService(st *sqlite.Store, client *newsletter.Client, v *validation.Validator, logger *slog.Logger) *NewsletterService {
	return &NewsletterService{store: st, client: client, validator: v, logger: logger}
}

// Signup records a newsletter subscription. Duplicate emails are treated as
// success so the endpoint stays idempotent for repeat visitors.
func (s *NewsletterService) Signup(ctx context.Context, email, source string) (*domain.Subscriber, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domainerrors.Validation("MISSING_EMAIL", "email is required")
	}
	if err := s.validator.Var(email, "email"); err != nil {
		return nil, domainerrors.Validation("INVALID_EMAIL", "email is not valid")
	}
	if source == "" {
		source = domain.SourceAPI
	}
	if !domain.ValidSource(source) {
		return nil, domainerrors.Validation("INVALID_SOURCE", "source must be homepage, footer, modal, or api")
	}

	sub := &domain.Subscriber{
		Email:     domain.NormalizeEmail(email),
		Source:    source,
		CreatedAt: nowUTC(),
	}
	if err := s.store.CreateSubscriber(ctx, sub); err == store.ErrAlreadyExists {
		s.logger.Debug("duplicate newsletter signup", "email", sub.Email)
		return sub, nil
	} else if err != nil {
		return nil, fmt.Errorf("create subscriber: %w", err)
	}

	if s.client.Enabled() {
		if err := s.client.Subscribe(ctx, sub.Email); err != nil {
			s.logger.Warn("newsletter relay failed", "email", sub.Email, "error", err)
		}
	}

	s.logger.Info("newsletter signup", "subscriber_id", sub.ID, "source", source)
	return sub, nil
}
