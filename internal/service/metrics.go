package service

import (
	"context"
	"fmt"
	"log/slog"

	domainerrors "github.com/agentdeck/agentdeck-server/internal/errors"
	"github.com/agentdeck/agentdeck-server/internal/store"
	"github.com/agentdeck/agentdeck-server/internal/store/sqlite"
)

// MetricsService records per-day engagement counters. Each write upserts
// the (agent, UTC day) row, so a day's counter is a single row no matter
// how many events arrive.
type MetricsService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewMetricsService creates a new metrics service.
func NewMetricsService(st *sqlite.Store, logger *slog.Logger) *MetricsService {
	return &MetricsService{store: st, logger: logger}
}

// resolveAgent validates the target of a metric event.
func (s *MetricsService) resolveAgent(ctx context.Context, agentID int64) error {
	if agentID <= 0 {
		return domainerrors.Validation("INVALID_AGENT_ID", "agentId must be a positive integer")
	}
	if _, err := s.store.GetAgent(ctx, agentID); err == store.ErrNotFound {
		return domainerrors.NotFound("AGENT_NOT_FOUND", "agent not found")
	} else if err != nil {
		return fmt.Errorf("get agent: %w", err)
	}
	return nil
}

// RecordVisit bumps today's visit counter for an agent.
func (s *MetricsService) RecordVisit(ctx context.Context, agentID int64) error {
	if err := s.resolveAgent(ctx, agentID); err != nil {
		return err
	}
	if err := s.store.RecordVisit(ctx, agentID, metricDate(nowUTC())); err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// RecordShare bumps today's share counter for an agent.
func (s *MetricsService) RecordShare(ctx context.Context, agentID int64) error {
	if err := s.resolveAgent(ctx, agentID); err != nil {
		return err
	}
	if err := s.store.RecordShare(ctx, agentID, metricDate(nowUTC())); err != nil {
		return fmt.Errorf("record share: %w", err)
	}
	return nil
}
