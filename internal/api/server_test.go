package api

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentdeck/agentdeck-server/internal/auth"
	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/agentdeck/agentdeck-server/internal/http/response"
	"github.com/agentdeck/agentdeck-server/internal/newsletter"
	"github.com/agentdeck/agentdeck-server/internal/search"
	"github.com/agentdeck/agentdeck-server/internal/service"
	"github.com/agentdeck/agentdeck-server/internal/store/sqlite"
	"github.com/agentdeck/agentdeck-server/internal/validation"
)

const (
	testTokenKey   = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	testAdminEmail = "admin@agentdeck.dev"
)

// testServer bundles the HTTP server with direct access to storage and
// services for seeding.
type testServer struct {
	*Server
	store    *sqlite.Store
	authSvc  *service.AuthService
	dirSvc   *service.DirectoryService
	modSvc   *service.ModerationService
	engSvc   *service.EngagementService
	metSvc   *service.MetricsService
	adminSvc *service.AdminService
}

// setupTestServer creates a server with the full service stack backed by
// temporary storage. No rate limiter is installed so tests can hammer
// public endpoints.
func setupTestServer(t *testing.T) *testServer {
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

	directory := service.NewDirectoryService(st, idx, logger)
	moderation := service.NewModerationService(st, directory, v, logger)
	engagement := service.NewEngagementService(st, logger)
	metrics := service.NewMetricsService(st, logger)
	relay := newsletter.NewClient(newsletter.Config{Logger: logger})
	newsletterSvc := service.NewNewsletterService(st, relay, v, logger)
	admin := service.NewAdminService(st, auth.NewAdminPolicy([]string{testAdminEmail}), logger)
	authSvc := service.NewAuthService(st, tokens, v, logger)

	server := NewServer(Options{
		Directory:      directory,
		Moderation:     moderation,
		Engagement:     engagement,
		Metrics:        metrics,
		Newsletter:     newsletterSvc,
		Admin:          admin,
		Auth:           authSvc,
		AllowedOrigins: []string{"*"},
		Logger:         logger,
	})

	return &testServer{
		Server:   server,
		store:    st,
		authSvc:  authSvc,
		dirSvc:   directory,
		modSvc:   moderation,
		engSvc:   engagement,
		metSvc:   metrics,
		adminSvc: admin,
	}
}

// seedCategory inserts a category for tests that need a valid FK target.
func (ts *testServer) seedCategory(t *testing.T, name string) *domain.Category {
	t.Helper()
	c := &domain.Category{Name: name, Slug: name, CreatedAt: time.Now().UTC()}
	require.NoError(t, ts.store.CreateCategory(context.Background(), c))
	return c
}

// seedAgent publishes an agent directly through the store and search index.
func (ts *testServer) seedAgent(t *testing.T, categoryID int64, name, slug string) *domain.Agent {
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
	require.NoError(t, ts.store.CreateAgent(context.Background(), a))
	// List queries only consult the index for free-text search, so a store
	// insert is enough for most handler tests; reindex keeps both in step.
	_, err := ts.dirSvc.Reindex(context.Background())
	require.NoError(t, err)
	return a
}

// registerUser creates an account via the auth service and returns its
// access token.
func (ts *testServer) registerUser(t *testing.T, email, password string) (token, userID string) {
	t.Helper()
	result, err := ts.authSvc.Register(context.Background(), email, password, "Test User")
	require.NoError(t, err)
	return result.Tokens.AccessToken, result.User.ID
}

// doJSON performs a request with an optional JSON body and bearer token.
func (ts *testServer) doJSON(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)
	return w
}

// decodeEnvelope parses a standard enveloped response body.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// decodeRaw parses a fixed-shape (non-envelope) response body.
func decodeRaw(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.doJSON(t, http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
}
