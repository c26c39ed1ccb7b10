package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	domainerrors "github.com/agentdeck/agentdeck-server/internal/errors"
	"github.com/agentdeck/agentdeck-server/internal/store"
	"github.com/agentdeck/agentdeck-server/internal/store/sqlite"
	"github.com/agentdeck/agentdeck-server/internal/util"
	"github.com/agentdeck/agentdeck-server/internal/validation"
)

// ModerationService handles the anonymous intake queue and its review
// state machine. Approving a submission publishes a listing.
type ModerationService struct {
	store     *sqlite.Store
	directory *DirectoryService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewModerationService creates a new moderation service.
func NewModerationService(st *sqlite.Store, directory *DirectoryService, v *validation.Validator, logger *slog.Logger) *ModerationService {
	return &ModerationService{store: st, directory: directory, validator: v, logger: logger}
}

// Submit validates a listing proposal and queues it as pending. Anonymous
// submitters are recorded under the guest sentinel. Field checks that have
// dedicated wire codes are applied before the full struct validation so
// clients get the specific code.
func (s *ModerationService) Submit(ctx context.Context, userID string, payload *domain.SubmissionPayload) (*domain.Submission, error) {
	if payload == nil {
		return nil, domainerrors.Validation("MISSING_PAYLOAD", "submission payload is required")
	}

	payload.Name = strings.TrimSpace(payload.Name)
	payload.Description = strings.TrimSpace(payload.Description)
	payload.Email = strings.TrimSpace(payload.Email)

	if payload.Name == "" {
		return nil, domainerrors.Validation("INVALID_PAYLOAD_NAME", "name is required")
	}
	if payload.Description == "" {
		return nil, domainerrors.Validation("INVALID_PAYLOAD_DESCRIPTION", "description is required")
	}
	if payload.CategoryID <= 0 {
		return nil, domainerrors.Validation("INVALID_PAYLOAD_CATEGORY", "categoryId is required")
	}
	if payload.Email == "" {
		return nil, domainerrors.Validation("MISSING_EMAIL", "email is required")
	}
	if err := s.validator.Var(payload.Email, "email"); err != nil {
		return nil, domainerrors.Validation("INVALID_EMAIL", "email is not valid")
	}
	if err := s.validator.Validate(payload); err != nil {
		return nil, err
	}

	if _, err := s.store.GetCategory(ctx, payload.CategoryID); err == store.ErrNotFound {
		return nil, domainerrors.Validation("INVALID_PAYLOAD_CATEGORY", "category does not exist")
	} else if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	if userID == "" {
		userID = domain.GuestUserID
	}

	now := nowUTC()
	sub := &domain.Submission{
		UserID:    userID,
		Payload:   *payload,
		Status:    domain.SubmissionPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	s.logger.Info("submission received", "submission_id", sub.ID, "name", payload.Name)
	return sub, nil
}

// SubmissionPage is one page of submissions plus the pre-pagination total.
type SubmissionPage struct {
	Data     []*domain.SubmissionWithRefs `json:"data"`
	Total    int64                        `json:"total"`
	Page     int                          `json:"page"`
	PageSize int                          `json:"pageSize"`
}

// List returns a page of submissions, newest first, optionally filtered
// by status. Each row is joined with its submitter account and, once
// approved, the linked agent.
func (s *ModerationService) List(ctx context.Context, status string, page, pageSize int) (*SubmissionPage, error) {
	if status != "" && !domain.SubmissionStatus(status).Valid() {
		return nil, domainerrors.Validation("INVALID_STATUS_FILTER", "status must be pending, approved, or rejected")
	}

	subs, total, err := s.store.ListSubmissions(ctx, store.SubmissionFilter{
		Status: status,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	data := make([]*domain.SubmissionWithRefs, 0, len(subs))
	for _, sub := range subs {
		withRefs, err := s.attachRefs(ctx, sub)
		if err != nil {
			return nil, err
		}
		data = append(data, withRefs)
	}
	return &SubmissionPage{Data: data, Total: total, Page: page, PageSize: pageSize}, nil
}

// attachRefs joins a submission with its submitter and linked agent
// summaries. Guests have no submitter; a linked agent deleted after
// approval is simply omitted.
func (s *ModerationService) attachRefs(ctx context.Context, sub *domain.Submission) (*domain.SubmissionWithRefs, error) {
	withRefs := &domain.SubmissionWithRefs{Submission: *sub}

	if sub.UserID != "" && sub.UserID != domain.GuestUserID {
		user, err := s.store.GetUser(ctx, sub.UserID)
		if err != nil && err != store.ErrNotFound {
			return nil, fmt.Errorf("get submitter %s: %w", sub.UserID, err)
		}
		if err == nil {
			summary := user.Summary()
			withRefs.Submitter = &summary
		}
	}

	if sub.AgentID != nil {
		agent, err := s.store.GetAgent(ctx, *sub.AgentID)
		if err != nil && err != store.ErrNotFound {
			return nil, fmt.Errorf("get linked agent %d: %w", *sub.AgentID, err)
		}
		if err == nil {
			summary := agent.Summary()
			withRefs.Agent = &summary
		}
	}

	return withRefs, nil
}

// Get returns a single submission.
func (s *ModerationService) Get(ctx context.Context, id int64) (*domain.Submission, error) {
	sub, err := s.store.GetSubmission(ctx, id)
	if err == store.ErrNotFound {
		return nil, domainerrors.NotFound("SUBMISSION_NOT_FOUND", "submission not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}
	return sub, nil
}

// Review moves a submission through the moderation state machine. Only
// pending submissions can move, and only to approved or rejected. On
// approval the reviewer may link an existing agent via agentID; otherwise
// the payload is published as a new listing. A supplied agentID is ignored
// on rejection.
func (s *ModerationService) Review(ctx context.Context, id int64, target domain.SubmissionStatus, agentID *int64, notes, reviewerEmail string) (*domain.Submission, error) {
	if target != domain.SubmissionApproved && target != domain.SubmissionRejected {
		return nil, domainerrors.Validation("INVALID_STATUS", "status must be approved or rejected")
	}

	sub, err := s.store.GetSubmission(ctx, id)
	if err == store.ErrNotFound {
		return nil, domainerrors.NotFound("SUBMISSION_NOT_FOUND", "submission not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get submission: %w", err)
	}

	if !domain.CanTransition(sub.Status, target) {
		return nil, domainerrors.Conflict("INVALID_STATUS",
			fmt.Sprintf("cannot move submission from %s to %s", sub.Status, target))
	}

	now := nowUTC()
	if target == domain.SubmissionApproved {
		if agentID != nil {
			if _, err := s.store.GetAgent(ctx, *agentID); err == store.ErrNotFound {
				return nil, domainerrors.NotFound("AGENT_NOT_FOUND", "agent not found")
			} else if err != nil {
				return nil, fmt.Errorf("get agent: %w", err)
			}
			sub.AgentID = agentID
		} else {
			agent, err := s.publish(ctx, &sub.Payload, now)
			if err != nil {
				return nil, err
			}
			sub.AgentID = &agent.ID
		}
	}

	reviewerID, err := s.resolveReviewer(ctx, reviewerEmail)
	if err != nil {
		return nil, err
	}

	sub.Status = target
	sub.Notes = notes
	sub.ReviewedBy = reviewerID
	sub.ReviewedAt = &now
	sub.UpdatedAt = now
	if err := s.store.UpdateSubmission(ctx, sub); err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}

	s.logger.Info("submission reviewed",
		"submission_id", sub.ID,
		"status", sub.Status,
		"reviewed_by", reviewerEmail,
	)
	return sub, nil
}

// resolveReviewer maps the acting admin's email to their account ID. The
// admin allow-list is configured by email, so an admin without a
// registered account is recorded by email instead.
func (s *ModerationService) resolveReviewer(ctx context.Context, email string) (string, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err == store.ErrNotFound {
		return email, nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve reviewer: %w", err)
	}
	return user.ID, nil
}

// publish creates a live listing from an approved payload: a unique slug,
// the tag assignments, and the search document.
func (s *ModerationService) publish(ctx context.Context, payload *domain.SubmissionPayload, now time.Time) (*domain.Agent, error) {
	agent := &domain.Agent{
		Name:          payload.Name,
		Description:   payload.Description,
		LongDesc:      payload.LongDesc,
		Features:      payload.Features,
		CategoryID:    payload.CategoryID,
		Status:        domain.AgentStatusApproved,
		AuthorName:    payload.AuthorName,
		AuthorEmail:   payload.Email,
		Website:       payload.Website,
		Repository:    payload.Repository,
		Documentation: payload.Documentation,
		LogoURL:       payload.LogoURL,
		Pricing:       payload.Pricing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Suffix the slug until it's free.
	base := util.Slugify(payload.Name)
	agent.Slug = base
	for attempt := 2; ; attempt++ {
		err := s.store.CreateAgent(ctx, agent)
		if err == nil {
			break
		}
		if err != store.ErrAlreadyExists {
			return nil, fmt.Errorf("create agent: %w", err)
		}
		if attempt > 20 {
			return nil, fmt.Errorf("create agent: could not find free slug for %q", base)
		}
		agent.Slug = fmt.Sprintf("%s-%d", base, attempt)
	}

	tagIDs := make([]int64, 0, len(payload.Tags))
	for _, name := range payload.Tags {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		tag := &domain.Tag{Name: name, Slug: util.Slugify(name), CreatedAt: now}
		if err := s.store.GetOrCreateTag(ctx, tag); err != nil {
			return nil, fmt.Errorf("get or create tag: %w", err)
		}
		tagIDs = append(tagIDs, tag.ID)
	}
	if len(tagIDs) > 0 {
		if err := s.store.SetAgentTags(ctx, agent.ID, tagIDs); err != nil {
			return nil, fmt.Errorf("set agent tags: %w", err)
		}
	}

	if err := s.directory.indexAgent(ctx, agent); err != nil {
		s.logger.Warn("failed to index published agent", "agent_id", agent.ID, "error", err)
	}

	s.logger.Info("agent published", "agent_id", agent.ID, "slug", agent.Slug)
	return agent, nil
}
