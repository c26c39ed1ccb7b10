package service

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agentdeck/agentdeck-server/internal/auth"
	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/agentdeck/agentdeck-server/internal/search"
	"github.com/agentdeck/agentdeck-server/internal/store/sqlite"
	"github.com/agentdeck/agentdeck-server/internal/validation"
)

const testTokenKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

// testEnv bundles the services under test with their shared storage.
type testEnv struct {
	store      *sqlite.Store
	search     *search.SearchIndex
	directory  *DirectoryService
	moderation *ModerationService
	engagement *EngagementService
	metrics    *MetricsService
	admin      *AdminService
	auth       *AuthService
}

// newTestEnv creates the full service stack backed by temporary storage.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	dir := t.TempDir()

	st, err := sqlite.Open(dir+"/test.db", logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	idx, err := search.NewSearchIndex(search.Options{DataPath: dir, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })

	v := validation.New()
	tokens, err := auth.NewTokenService(testTokenKey, 15*time.Minute, 30*24*time.Hour)
	require.NoError(t, err)

	directory := NewDirectoryService(st, idx, logger)
	return &testEnv{
		store:      st,
		search:     idx,
		directory:  directory,
		moderation: NewModerationService(st, directory, v, logger),
		engagement: NewEngagementService(st, logger),
		metrics:    NewMetricsService(st, logger),
		admin:      NewAdminService(st, auth.NewAdminPolicy([]string{"admin@agentdeck.dev"}), logger),
		auth:       NewAuthService(st, tokens, v, logger),
	}
}

// seedCategory inserts a category for tests that need a valid FK target.
func (e *testEnv) seedCategory(t *testing.T, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name, Slug: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, e.store.CreateCategory(context.Background(), c))
	return c
}

// seedAgent inserts and indexes a published agent.
func (e *testEnv) seedAgent(t *testing.T, categoryID int64, name, slug string) *domain.Agent {
	t.Helper()
	now := time.Now().UTC()
	a := &domain.Agent{
		Name:        name,
		Slug:        slug,
		Description: "test agent " + name,
		CategoryID:  categoryID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, e.store.CreateAgent(context.Background(), a))
	require.NoError(t, e.directory.indexAgent(context.Background(), a))
	return a
}

// seedTag creates a tag and assigns it to the given agent.
func (e *testEnv) seedTag(t *testing.T, agentID int64, name, slug string) *domain.Tag {
	t.Helper()
	tag := &domain.Tag{Name: name, Slug: slug, CreatedAt: time.Now().UTC()}
	require.NoError(t, e.store.GetOrCreateTag(context.Background(), tag))
	require.NoError(t, e.store.SetAgentTags(context.Background(), agentID, []int64{tag.ID}))
	return tag
}

// freezeClock pins the service clock for the duration of the test.
func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	prev := nowUTC
	nowUTC = func() time.Time { return at }
	t.Cleanup(func() { nowUTC = prev })
}
