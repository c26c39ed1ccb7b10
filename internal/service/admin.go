package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agentdeck/agentdeck-server/internal/auth"
	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/agentdeck/agentdeck-server/internal/store"
	"github.com/agentdeck/agentdeck-server/internal/store/sqlite"
)

// AdminService serves the moderation dashboard: the stats snapshot and the
// user listing.
type AdminService struct {
	store  *sqlite.Store
	policy *auth.AdminPolicy
	logger *slog.Logger
}

// NewAdminService creates a new admin service.
func NewAdminService(st *sqlite.Store, policy *auth.AdminPolicy, logger *slog.Logger) *AdminService {
	return &AdminService{store: st, policy: policy, logger: logger}
}

// GetStats returns the dashboard snapshot. Counts are computed live; the
// dashboard is low-traffic enough that no caching is needed.
func (s *AdminService) GetStats(ctx context.Context) (*domain.AdminStats, error) {
	stats, err := s.store.GetAdminStats(ctx, nowUTC())
	if err != nil {
		return nil, fmt.Errorf("get admin stats: %w", err)
	}
	return stats, nil
}

// UserPage is one page of users with activity counts plus the
// pre-pagination total.
type UserPage struct {
	Data     []*domain.UserWithActivity `json:"data"`
	Total    int64                      `json:"total"`
	Page     int                        `json:"page"`
	PageSize int                        `json:"pageSize"`
}

// ListUsers returns a page of registered users, newest first, optionally
// filtered by a case-insensitive substring match on name or email. Each
// row carries the user's engagement counts.
func (s *AdminService) ListUsers(ctx context.Context, search string, page, pageSize int) (*UserPage, error) {
	users, total, err := s.store.ListUsers(ctx, store.UserFilter{
		Search: search,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []*domain.UserWithActivity{}
	}
	return &UserPage{Data: users, Total: total, Page: page, PageSize: pageSize}, nil
}

// IsAdmin reports whether the given email is on the admin allow-list.
func (s *AdminService) IsAdmin(email string) bool {
	return s.policy.IsAdmin(email)
}
