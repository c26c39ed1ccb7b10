package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	domainerrors "github.com/agentdeck/agentdeck-server/internal/errors"
	"github.com/agentdeck/agentdeck-server/internal/store"
	"github.com/agentdeck/agentdeck-server/internal/store/sqlite"
)

// EngagementService handles reviews, comments, votes, and bookmarks.
type EngagementService struct {
	store  *sqlite.Store
	logger *slog.Logger
}

// NewEngagementService creates a new engagement service.
func NewEngagementService(st *sqlite.Store, logger *slog.Logger) *EngagementService {
	return &EngagementService{store: st, logger: logger}
}

// requireAgent resolves an agent or returns the listing-specific not-found.
func (s *EngagementService) requireAgent(ctx context.Context, agentID int64) error {
	_, err := s.store.GetAgent(ctx, agentID)
	if err == store.ErrNotFound {
		return domainerrors.NotFound("AGENT_NOT_FOUND", "agent not found")
	}
	if err != nil {
		return fmt.Errorf("get agent: %w", err)
	}
	return nil
}

// AddReview records a rated write-up. A signed-in user re-reviewing an
// agent overwrites their previous review; guest reviews always append.
// The agent's denormalized rating aggregate is refreshed either way.
func (s *EngagementService) AddReview(ctx context.Context, agentID int64, userID string, rating int, title, body string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, domainerrors.Validation("INVALID_RATING", "rating must be between 1 and 5")
	}
	if err := s.requireAgent(ctx, agentID); err != nil {
		return nil, err
	}
	if userID == "" {
		userID = domain.GuestUserID
	}

	now := nowUTC()
	var review *domain.Review

	if userID != domain.GuestUserID {
		existing, err := s.store.GetReviewByAgentUser(ctx, agentID, userID)
		if err != nil && err != store.ErrNotFound {
			return nil, fmt.Errorf("get review: %w", err)
		}
		if err == nil {
			existing.Rating = rating
			existing.Title = title
			existing.Body = body
			existing.UpdatedAt = now
			if err := s.store.UpdateReview(ctx, existing); err != nil {
				return nil, fmt.Errorf("update review: %w", err)
			}
			review = existing
		}
	}

	if review == nil {
		review = &domain.Review{
			AgentID:   agentID,
			UserID:    userID,
			Rating:    rating,
			Title:     title,
			Body:      body,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.CreateReview(ctx, review); err != nil {
			return nil, fmt.Errorf("create review: %w", err)
		}
	}

	if err := s.store.RecomputeRatingAggregate(ctx, agentID); err != nil {
		return nil, fmt.Errorf("recompute rating: %w", err)
	}

	s.logger.Info("review recorded", "agent_id", agentID, "user_id", userID, "rating", rating)
	return review, nil
}

// ReviewPage is one page of reviews plus the pre-pagination total.
type ReviewPage struct {
	Data     []*domain.Review `json:"data"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
}

// ListReviews returns a page of an agent's reviews.
func (s *EngagementService) ListReviews(ctx context.Context, agentID int64, sort string, page, pageSize int) (*ReviewPage, error) {
	if err := s.requireAgent(ctx, agentID); err != nil {
		return nil, err
	}

	reviews, total, err := s.store.ListReviews(ctx, agentID, sort, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []*domain.Review{}
	}
	return &ReviewPage{Data: reviews, Total: total, Page: page, PageSize: pageSize}, nil
}

// AddComment records a discussion entry on an agent.
func (s *EngagementService) AddComment(ctx context.Context, agentID int64, userID, body string, parentID *int64) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, domainerrors.Validation("INVALID_PAYLOAD", "comment body is required")
	}
	if err := s.requireAgent(ctx, agentID); err != nil {
		return nil, err
	}
	if userID == "" {
		userID = domain.GuestUserID
	}

	// A reply must answer a comment on the same agent.
	if parentID != nil {
		parent, err := s.store.GetComment(ctx, *parentID)
		if err == store.ErrNotFound {
			return nil, domainerrors.Validation("INVALID_PARENT_COMMENT", "parent comment does not exist")
		}
		if err != nil {
			return nil, fmt.Errorf("get parent comment: %w", err)
		}
		if parent.AgentID != agentID {
			return nil, domainerrors.Validation("INVALID_PARENT_COMMENT", "parent comment belongs to a different agent")
		}
	}

	comment := &domain.Comment{
		AgentID:   agentID,
		UserID:    userID,
		ParentID:  parentID,
		Body:      body,
		CreatedAt: nowUTC(),
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// CommentPage is one page of comments plus the pre-pagination total.
type CommentPage struct {
	Data     []*domain.Comment `json:"data"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
}

// ListComments returns a page of an agent's comments, oldest first.
func (s *EngagementService) ListComments(ctx context.Context, agentID int64, page, pageSize int) (*CommentPage, error) {
	if err := s.requireAgent(ctx, agentID); err != nil {
		return nil, err
	}

	comments, total, err := s.store.ListComments(ctx, agentID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	return &CommentPage{Data: comments, Total: total, Page: page, PageSize: pageSize}, nil
}

// Upvote records a user's upvote on an agent. One vote per user per agent.
func (s *EngagementService) Upvote(ctx context.Context, agentID int64, userID string) (*domain.Vote, error) {
	if err := s.requireAgent(ctx, agentID); err != nil {
		return nil, err
	}
	if userID == "" {
		userID = domain.GuestUserID
	}

	vote := &domain.Vote{AgentID: agentID, UserID: userID, CreatedAt: nowUTC()}
	err := s.store.CreateVote(ctx, vote)
	if err == store.ErrAlreadyExists {
		return nil, domainerrors.Conflict("DUPLICATE_VOTE", "already upvoted")
	}
	if err != nil {
		return nil, fmt.Errorf("create vote: %w", err)
	}
	return vote, nil
}

// RemoveUpvote withdraws a user's upvote.
func (s *EngagementService) RemoveUpvote(ctx context.Context, agentID int64, userID string) error {
	if err := s.requireAgent(ctx, agentID); err != nil {
		return err
	}
	if userID == "" {
		userID = domain.GuestUserID
	}

	err := s.store.DeleteVote(ctx, agentID, userID)
	if err == store.ErrNotFound {
		return domainerrors.NotFound("VOTE_NOT_FOUND", "no upvote to remove")
	}
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	return nil
}

// UpvoteStatus reports an agent's vote count and whether the given user
// has voted.
func (s *EngagementService) UpvoteStatus(ctx context.Context, agentID int64, userID string) (int64, bool, error) {
	if err := s.requireAgent(ctx, agentID); err != nil {
		return 0, false, err
	}

	count, err := s.store.CountVotes(ctx, agentID)
	if err != nil {
		return 0, false, fmt.Errorf("count votes: %w", err)
	}

	voted := false
	if userID != "" && userID != domain.GuestUserID {
		voted, err = s.store.HasVote(ctx, agentID, userID)
		if err != nil {
			return 0, false, fmt.Errorf("check vote: %w", err)
		}
	}
	return count, voted, nil
}

// AddBookmark saves an agent for a signed-in user.
func (s *EngagementService) AddBookmark(ctx context.Context, userID string, agentID int64) (*domain.Bookmark, error) {
	if err := s.requireAgent(ctx, agentID); err != nil {
		return nil, err
	}

	bookmark := &domain.Bookmark{UserID: userID, AgentID: agentID, CreatedAt: nowUTC()}
	err := s.store.CreateBookmark(ctx, bookmark)
	if err == store.ErrAlreadyExists {
		return nil, domainerrors.Conflict("DUPLICATE_BOOKMARK", "agent already bookmarked")
	}
	if err != nil {
		return nil, fmt.Errorf("create bookmark: %w", err)
	}
	return bookmark, nil
}

// ListBookmarks returns a user's saved agents, newest first.
func (s *EngagementService) ListBookmarks(ctx context.Context, userID string) ([]*domain.BookmarkWithAgent, error) {
	bookmarks, err := s.store.ListBookmarks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	if bookmarks == nil {
		bookmarks = []*domain.BookmarkWithAgent{}
	}
	return bookmarks, nil
}

// RemoveBookmark deletes one of the user's bookmarks by bookmark ID.
func (s *EngagementService) RemoveBookmark(ctx context.Context, bookmarkID int64, userID string) error {
	err := s.store.DeleteBookmark(ctx, bookmarkID, userID)
	if err == store.ErrNotFound {
		return domainerrors.NotFound("BOOKMARK_NOT_FOUND", "bookmark not found")
	}
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}
