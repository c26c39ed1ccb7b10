// Package service provides the business logic layer for the AgentDeck
// directory: listings, moderation, engagement, metrics, and identity.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	domainerrors "github.com/agentdeck/agentdeck-server/internal/errors"
	"github.com/agentdeck/agentdeck-server/internal/search"
	"github.com/agentdeck/agentdeck-server/internal/store"
	"github.com/agentdeck/agentdeck-server/internal/store/sqlite"
	"github.com/agentdeck/agentdeck-server/internal/util"
)

// DirectoryService orchestrates agent listing, detail, and catalog reads.
type DirectoryService struct {
	store  *sqlite.Store
	search *search.SearchIndex
	logger *slog.Logger
}

// NewDirectoryService creates a new directory service.
func NewDirectoryService(st *sqlite.Store, idx *search.SearchIndex, logger *slog.Logger) *DirectoryService {
	return &DirectoryService{store: st, search: idx, logger: logger}
}

// ListAgentsParams carries the listing query after the handler has clamped
// pagination and normalized the sort key.
type ListAgentsParams struct {
	Query      string
	Tag        string
	CategoryID *int64
	Featured   bool
	Verified   bool
	Sort       string
	Page       int
	PageSize   int
}

// AgentPage is one page of listing results plus the pre-pagination total.
type AgentPage struct {
	Data     []*domain.AgentWithRefs `json:"data"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"pageSize"`
}

// ListAgents resolves the free-text query and tag to candidate IDs, applies
// the SQL filters, and joins each hit with its category and tags.
//
// A query or tag that matches nothing short-circuits to an empty page
// without touching the agents table.
func (s *DirectoryService) ListAgents(ctx context.Context, p ListAgentsParams) (*AgentPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page := &AgentPage{
		Data:     []*domain.AgentWithRefs{},
		Page:     p.Page,
		PageSize: p.PageSize,
	}

	filter := store.AgentFilter{
		CategoryID: p.CategoryID,
		Featured:   p.Featured,
		Verified:   p.Verified,
		Sort:       p.Sort,
		Limit:      p.PageSize,
		Offset:     (p.Page - 1) * p.PageSize,
	}

	if p.Query != "" {
		ids, err := s.search.MatchAgents(ctx, p.Query)
		if err != nil {
			return nil, fmt.Errorf("search agents: %w", err)
		}
		if len(ids) == 0 {
			return page, nil
		}
		filter.IDs = ids
	}

	if p.Tag != "" {
		tagIDs, err := s.resolveTagFilter(ctx, p.Tag)
		if err != nil {
			return nil, fmt.Errorf("resolve tag: %w", err)
		}
		if len(tagIDs) == 0 {
			return page, nil
		}
		if filter.IDs == nil {
			filter.IDs = tagIDs
		} else {
			filter.IDs = intersect(filter.IDs, tagIDs)
			if len(filter.IDs) == 0 {
				return page, nil
			}
		}
	}

	agents, total, err := s.store.ListAgents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	page.Total = total

	for _, a := range agents {
		withRefs, err := s.attachRefs(ctx, a)
		if err != nil {
			return nil, err
		}
		page.Data = append(page.Data, withRefs)
	}
	return page, nil
}

// resolveTagFilter maps a tag filter value to the IDs of agents carrying
// that tag. The filter is a numeric tag ID; a non-numeric value is treated
// as a tag slug.
func (s *DirectoryService) resolveTagFilter(ctx context.Context, tag string) ([]int64, error) {
	if tagID, err := strconv.ParseInt(tag, 10, 64); err == nil && tagID > 0 {
		return s.store.ListAgentIDsByTagID(ctx, tagID)
	}
	return s.store.ListAgentIDsByTag(ctx, tag)
}

// intersect returns the elements of a that also occur in b, preserving a's
// order (search relevance).
func intersect(a, b []int64) []int64 {
	inB := make(map[int64]struct{}, len(b))
	for _, id := range b {
		inB[id] = struct{}{}
	}
	out := make([]int64, 0, len(a))
	for _, id := range a {
		if _, ok := inB[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// attachRefs joins an agent with its category and tag summaries.
func (s *DirectoryService) attachRefs(ctx context.Context, a *domain.Agent) (*domain.AgentWithRefs, error) {
	withRefs := &domain.AgentWithRefs{Agent: *a, Tags: []domain.TagSummary{}}

	category, err := s.store.GetCategory(ctx, a.CategoryID)
	if err == nil {
		summary := category.Summary()
		withRefs.Category = &summary
	} else if err != store.ErrNotFound {
		return nil, fmt.Errorf("get category: %w", err)
	}

	tags, err := s.store.ListAgentTags(ctx, a.ID)
	if err != nil {
		return nil, fmt.Errorf("list agent tags: %w", err)
	}
	for _, t := range tags {
		withRefs.Tags = append(withRefs.Tags, t.Summary())
	}
	return withRefs, nil
}

// GetAgentDetail returns the full detail-page shape for an agent.
func (s *DirectoryService) GetAgentDetail(ctx context.Context, agentID int64) (*domain.AgentDetail, error) {
	agent, err := s.store.GetAgent(ctx, agentID)
	if err == store.ErrNotFound {
		return nil, domainerrors.NotFound("AGENT_NOT_FOUND", "agent not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get agent: %w", err)
	}

	withRefs, err := s.attachRefs(ctx, agent)
	if err != nil {
		return nil, err
	}

	links, err := s.store.ListAgentLinks(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("list agent links: %w", err)
	}

	metrics, err := s.store.GetMetricsSummary(ctx, agentID)
	if err != nil {
		return nil, fmt.Errorf("metrics summary: %w", err)
	}

	return &domain.AgentDetail{
		AgentWithRefs: *withRefs,
		Links:         links,
		Metrics:       metrics,
	}, nil
}

// PatchAgent applies an administrator's partial update to a listing. The
// slug is intentionally left stable across renames so published links
// keep working. The search document is refreshed after the update.
func (s *DirectoryService) PatchAgent(ctx context.Context, agentID int64, patch *domain.AgentPatch) (*domain.AgentDetail, error) {
	if patch.Empty() {
		return nil, domainerrors.Validation("INVALID_PAYLOAD", "no fields to update")
	}

	agent, err := s.store.GetAgent(ctx, agentID)
	if err == store.ErrNotFound {
		return nil, domainerrors.NotFound("AGENT_NOT_FOUND", "agent not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get agent: %w", err)
	}

	if patch.CategoryID != nil {
		if _, err := s.store.GetCategory(ctx, *patch.CategoryID); err == store.ErrNotFound {
			return nil, domainerrors.Validation("INVALID_PAYLOAD_CATEGORY", "category does not exist")
		} else if err != nil {
			return nil, fmt.Errorf("get category: %w", err)
		}
		agent.CategoryID = *patch.CategoryID
	}
	if patch.Status != nil {
		if !domain.ValidAgentStatus(*patch.Status) {
			return nil, domainerrors.Validation("INVALID_PAYLOAD_STATUS", "status must be pending, approved, or rejected")
		}
		agent.Status = *patch.Status
	}
	if patch.Name != nil {
		agent.Name = *patch.Name
	}
	if patch.Description != nil {
		agent.Description = *patch.Description
	}
	if patch.LongDesc != nil {
		agent.LongDesc = *patch.LongDesc
	}
	if patch.Features != nil {
		agent.Features = *patch.Features
	}
	if patch.Website != nil {
		agent.Website = *patch.Website
	}
	if patch.Repository != nil {
		agent.Repository = *patch.Repository
	}
	if patch.Documentation != nil {
		agent.Documentation = *patch.Documentation
	}
	if patch.LogoURL != nil {
		agent.LogoURL = *patch.LogoURL
	}
	if patch.Pricing != nil {
		agent.Pricing = *patch.Pricing
	}
	if patch.Featured != nil {
		agent.Featured = *patch.Featured
	}
	if patch.Verified != nil {
		agent.Verified = *patch.Verified
	}
	if patch.Trending != nil {
		agent.Trending = *patch.Trending
	}
	agent.UpdatedAt = nowUTC()

	if err := s.store.UpdateAgent(ctx, agent); err != nil {
		return nil, fmt.Errorf("update agent: %w", err)
	}

	if patch.Tags != nil {
		if err := s.reconcileTags(ctx, agent.ID, *patch.Tags); err != nil {
			return nil, err
		}
	}

	if err := s.indexAgent(ctx, agent); err != nil {
		s.logger.Warn("failed to reindex patched agent", "agent_id", agent.ID, "error", err)
	}

	s.logger.Info("agent patched", "agent_id", agent.ID)
	return s.GetAgentDetail(ctx, agentID)
}

// reconcileTags replaces an agent's tag set with the named tags, creating
// tags that do not exist yet. An empty list clears all assignments.
func (s *DirectoryService) reconcileTags(ctx context.Context, agentID int64, names []string) error {
	now := nowUTC()
	tagIDs := make([]int64, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag := &domain.Tag{Name: name, Slug: util.Slugify(name), CreatedAt: now}
		if err := s.store.GetOrCreateTag(ctx, tag); err != nil {
			return fmt.Errorf("get or create tag: %w", err)
		}
		tagIDs = append(tagIDs, tag.ID)
	}
	if err := s.store.SetAgentTags(ctx, agentID, tagIDs); err != nil {
		return fmt.Errorf("set agent tags: %w", err)
	}
	return nil
}

// DeleteAgent removes a listing and its search document.
func (s *DirectoryService) DeleteAgent(ctx context.Context, agentID int64) error {
	if err := s.store.DeleteAgent(ctx, agentID); err == store.ErrNotFound {
		return domainerrors.NotFound("AGENT_NOT_FOUND", "agent not found")
	} else if err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}
	if err := s.search.DeleteAgent(agentID); err != nil {
		s.logger.Warn("failed to remove agent from search index", "agent_id", agentID, "error", err)
	}
	s.logger.Info("agent deleted", "agent_id", agentID)
	return nil
}

// indexAgent refreshes an agent's search document.
func (s *DirectoryService) indexAgent(ctx context.Context, agent *domain.Agent) error {
	tags, err := s.store.ListAgentTags(ctx, agent.ID)
	if err != nil {
		return fmt.Errorf("list agent tags: %w", err)
	}
	return s.search.IndexAgent(search.NewAgentDocument(agent, tags))
}

// Reindex rebuilds the search index from the store. Used on startup after
// a mapping change and by the admin reindex endpoint.
func (s *DirectoryService) Reindex(ctx context.Context) (int, error) {
	// LIMIT -1 walks every row.
	agents, _, err := s.store.ListAgents(ctx, store.AgentFilter{Limit: -1})
	if err != nil {
		return 0, fmt.Errorf("list agents: %w", err)
	}

	docs := make([]*search.AgentDocument, 0, len(agents))
	for _, a := range agents {
		tags, err := s.store.ListAgentTags(ctx, a.ID)
		if err != nil {
			return 0, fmt.Errorf("list agent tags: %w", err)
		}
		docs = append(docs, search.NewAgentDocument(a, tags))
	}

	if err := s.search.Rebuild(); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}
	if err := s.search.IndexAgents(docs); err != nil {
		return 0, fmt.Errorf("index agents: %w", err)
	}

	s.logger.Info("search index rebuilt", "documents", len(docs))
	return len(docs), nil
}

// ListCategories returns the category catalog with agent counts.
func (s *DirectoryService) ListCategories(ctx context.Context) ([]*domain.CategoryWithCount, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []*domain.CategoryWithCount{}
	}
	return categories, nil
}

// ListTags returns the tag catalog ordered by usage.
func (s *DirectoryService) ListTags(ctx context.Context) ([]*domain.TagWithUsage, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	if tags == nil {
		tags = []*domain.TagWithUsage{}
	}
	return tags, nil
}
