package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	domainerrors "github.com/agentdeck/agentdeck-server/internal/errors"
)

func validPayload(categoryID int64) *domain.SubmissionPayload {
	return &domain.SubmissionPayload{
		Name:        "CodePilot",
		Description: "Pair programming agent",
		CategoryID:  categoryID,
		Email:       "author@example.com",
		Tags:        []string{"Go", "Coding"},
	}
}

func assertWireCode(t *testing.T, err error, code string) {
	t.Helper()
	var derr *domainerrors.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, code, derr.WireCode())
}

func TestModerationService_Submit(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "coding")

	sub, err := env.moderation.Submit(context.Background(), "", validPayload(cat.ID))
	require.NoError(t, err)
	assert.NotZero(t, sub.ID)
	assert.Equal(t, domain.SubmissionPending, sub.Status)
	assert.Equal(t, domain.GuestUserID, sub.UserID)
	assert.Nil(t, sub.AgentID)

	signed, err := env.moderation.Submit(context.Background(), "usr_1", validPayload(cat.ID))
	require.NoError(t, err)
	assert.Equal(t, "usr_1", signed.UserID)
}

func TestModerationService_Submit_Validation(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "coding")
	ctx := context.Background()

	_, err := env.moderation.Submit(ctx, "", nil)
	assertWireCode(t, err, "MISSING_PAYLOAD")

	p := validPayload(cat.ID)
	p.Name = "  "
	_, err = env.moderation.Submit(ctx, "", p)
	assertWireCode(t, err, "INVALID_PAYLOAD_NAME")

	p = validPayload(cat.ID)
	p.Description = ""
	_, err = env.moderation.Submit(ctx, "", p)
	assertWireCode(t, err, "INVALID_PAYLOAD_DESCRIPTION")

	p = validPayload(cat.ID)
	p.CategoryID = 0
	_, err = env.moderation.Submit(ctx, "", p)
	assertWireCode(t, err, "INVALID_PAYLOAD_CATEGORY")

	p = validPayload(9999)
	_, err = env.moderation.Submit(ctx, "", p)
	assertWireCode(t, err, "INVALID_PAYLOAD_CATEGORY")

	p = validPayload(cat.ID)
	p.Email = ""
	_, err = env.moderation.Submit(ctx, "", p)
	assertWireCode(t, err, "MISSING_EMAIL")

	p = validPayload(cat.ID)
	p.Email = "not-an-email"
	_, err = env.moderation.Submit(ctx, "", p)
	assertWireCode(t, err, "INVALID_EMAIL")

	p = validPayload(cat.ID)
	p.Website = "not a url"
	_, err = env.moderation.Submit(ctx, "", p)
	require.Error(t, err)
}

func TestModerationService_List(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "coding")
	ctx := context.Background()

	for _, name := range []string{"One", "Two", "Three"} {
		p := validPayload(cat.ID)
		p.Name = name
		_, err := env.moderation.Submit(ctx, "", p)
		require.NoError(t, err)
	}

	page, err := env.moderation.List(ctx, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Data, 3)

	page, err = env.moderation.List(ctx, "approved", 1, 20)
	require.NoError(t, err)
	assert.Empty(t, page.Data)

	_, err = env.moderation.List(ctx, "bogus", 1, 20)
	assertWireCode(t, err, "INVALID_STATUS_FILTER")
}

func TestModerationService_List_JoinsRefs(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "coding")
	ctx := context.Background()

	account, err := env.auth.Register(ctx, "author@example.com", "password123", "Author")
	require.NoError(t, err)

	sub, err := env.moderation.Submit(ctx, account.User.ID, validPayload(cat.ID))
	require.NoError(t, err)
	_, err = env.moderation.Review(ctx, sub.ID, domain.SubmissionApproved, nil, "", "admin@agentdeck.dev")
	require.NoError(t, err)

	// A guest submission has no submitter to join.
	_, err = env.moderation.Submit(ctx, "", validPayload(cat.ID))
	require.NoError(t, err)

	page, err := env.moderation.List(ctx, "", 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)

	// Newest first: the guest submission leads.
	assert.Nil(t, page.Data[0].Submitter)
	assert.Nil(t, page.Data[0].Agent)

	approved := page.Data[1]
	require.NotNil(t, approved.Submitter)
	assert.Equal(t, "author@example.com", approved.Submitter.Email)
	require.NotNil(t, approved.Agent)
	assert.Equal(t, "codepilot", approved.Agent.Slug)
}

func TestModerationService_Review_Approve(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "coding")
	ctx := context.Background()

	sub, err := env.moderation.Submit(ctx, "", validPayload(cat.ID))
	require.NoError(t, err)

	reviewed, err := env.moderation.Review(ctx, sub.ID, domain.SubmissionApproved, nil, "looks good", "admin@agentdeck.dev")
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionApproved, reviewed.Status)
	// No registered account for the admin email, so it is recorded as-is.
	assert.Equal(t, "admin@agentdeck.dev", reviewed.ReviewedBy)
	require.NotNil(t, reviewed.ReviewedAt)
	require.NotNil(t, reviewed.AgentID)

	// The published agent is live, slugged, tagged, and searchable.
	detail, err := env.directory.GetAgentDetail(ctx, *reviewed.AgentID)
	require.NoError(t, err)
	assert.Equal(t, "CodePilot", detail.Name)
	assert.Equal(t, "codepilot", detail.Slug)
	assert.Len(t, detail.Tags, 2)

	page, err := env.directory.ListAgents(ctx, ListAgentsParams{Query: "codepilot", Page: 1, PageSize: 12})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
}

func TestModerationService_Review_RecordsReviewerAccountID(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "coding")
	ctx := context.Background()

	account, err := env.auth.Register(ctx, "admin@agentdeck.dev", "password123", "Admin")
	require.NoError(t, err)

	sub, err := env.moderation.Submit(ctx, "", validPayload(cat.ID))
	require.NoError(t, err)

	// The reviewer's email resolves to their account ID, case-insensitively.
	reviewed, err := env.moderation.Review(ctx, sub.ID, domain.SubmissionRejected, nil, "", "Admin@AgentDeck.dev")
	require.NoError(t, err)
	assert.Equal(t, account.User.ID, reviewed.ReviewedBy)
}

func TestModerationService_Review_ApproveDuplicateSlug(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "coding")
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		sub, err := env.moderation.Submit(ctx, "", validPayload(cat.ID))
		require.NoError(t, err)
		reviewed, err := env.moderation.Review(ctx, sub.ID, domain.SubmissionApproved, nil, "", "admin@agentdeck.dev")
		require.NoError(t, err)
		require.NotNil(t, reviewed.AgentID)
	}

	page, err := env.directory.ListAgents(ctx, ListAgentsParams{Page: 1, PageSize: 12})
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	slugs := map[string]bool{}
	for _, a := range page.Data {
		slugs[a.Slug] = true
	}
	assert.True(t, slugs["codepilot"])
	assert.True(t, slugs["codepilot-2"])
}

func TestModerationService_Review_ApproveLinksExistingAgent(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "coding")
	existing := env.seedAgent(t, cat.ID, "CodePilot", "codepilot")
	ctx := context.Background()

	sub, err := env.moderation.Submit(ctx, "", validPayload(cat.ID))
	require.NoError(t, err)

	reviewed, err := env.moderation.Review(ctx, sub.ID, domain.SubmissionApproved, &existing.ID, "duplicate of live listing", "admin@agentdeck.dev")
	require.NoError(t, err)
	require.NotNil(t, reviewed.AgentID)
	assert.Equal(t, existing.ID, *reviewed.AgentID)

	// No second agent was published.
	page, err := env.directory.ListAgents(ctx, ListAgentsParams{Page: 1, PageSize: 12})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	// Linking a missing agent fails before any state change.
	sub2, err := env.moderation.Submit(ctx, "", validPayload(cat.ID))
	require.NoError(t, err)
	bogus := int64(9999)
	_, err = env.moderation.Review(ctx, sub2.ID, domain.SubmissionApproved, &bogus, "", "admin@agentdeck.dev")
	assertWireCode(t, err, "AGENT_NOT_FOUND")
	fresh, err := env.moderation.Get(ctx, sub2.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionPending, fresh.Status)
}

func TestModerationService_Review_Reject(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "coding")
	ctx := context.Background()

	sub, err := env.moderation.Submit(ctx, "", validPayload(cat.ID))
	require.NoError(t, err)

	// An agentId supplied on rejection is ignored.
	bogus := int64(9999)
	reviewed, err := env.moderation.Review(ctx, sub.ID, domain.SubmissionRejected, &bogus, "spam", "admin@agentdeck.dev")
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionRejected, reviewed.Status)
	assert.Equal(t, "spam", reviewed.Notes)
	assert.Nil(t, reviewed.AgentID)

	// Nothing was published.
	page, err := env.directory.ListAgents(ctx, ListAgentsParams{Page: 1, PageSize: 12})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}

func TestModerationService_Review_InvalidTransitions(t *testing.T) {
	env := newTestEnv(t)
	cat := env.seedCategory(t, "coding")
	ctx := context.Background()

	sub, err := env.moderation.Submit(ctx, "", validPayload(cat.ID))
	require.NoError(t, err)

	_, err = env.moderation.Review(ctx, sub.ID, domain.SubmissionPending, nil, "", "admin@agentdeck.dev")
	assertWireCode(t, err, "INVALID_STATUS")

	_, err = env.moderation.Review(ctx, 9999, domain.SubmissionApproved, nil, "", "admin@agentdeck.dev")
	assertWireCode(t, err, "SUBMISSION_NOT_FOUND")

	// A decided submission is final.
	_, err = env.moderation.Review(ctx, sub.ID, domain.SubmissionRejected, nil, "", "admin@agentdeck.dev")
	require.NoError(t, err)
	_, err = env.moderation.Review(ctx, sub.ID, domain.SubmissionApproved, nil, "", "admin@agentdeck.dev")
	assertWireCode(t, err, "INVALID_STATUS")
}
