package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminStats(t *testing.T) {
	ts := setupTestServer(t)
	cat := ts.seedCategory(t, "coding")
	ts.seedAgent(t, cat.ID, "CodePilot", "codepilot")
	token, _ := ts.registerUser(t, testAdminEmail, "password123")

	w := ts.doJSON(t, http.MethodGet, "/api/v1/admin/stats", nil, token)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	require.True(t, env.Success)
	stats, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1), stats["totalAgents"])
	assert.Equal(t, float64(1), stats["totalUsers"])
}

func TestAdminStats_Forbidden(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.registerUser(t, "user@example.com", "password123")

	w := ts.doJSON(t, http.MethodGet, "/api/v1/admin/stats", nil, token)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminListUsers(t *testing.T) {
	ts := setupTestServer(t)
	ts.registerUser(t, "alice@example.com", "password123")
	ts.registerUser(t, "bob@example.com", "password123")
	token, _ := ts.registerUser(t, testAdminEmail, "password123")

	w := ts.doJSON(t, http.MethodGet, "/api/v1/admin/users?search=alice", nil, token)

	assert.Equal(t, http.StatusOK, w.Code)
	page := decodeRaw(t, w)
	assert.Equal(t, float64(1), page["total"])
	data, ok := page["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 1)
	user := data[0].(map[string]any)
	assert.Equal(t, "alice@example.com", user["email"])
}

func TestAdminCheck(t *testing.T) {
	ts := setupTestServer(t)
	adminToken, _ := ts.registerUser(t, testAdminEmail, "password123")
	userToken, _ := ts.registerUser(t, "user@example.com", "password123")

	// Guests are simply not admins.
	w := ts.doJSON(t, http.MethodGet, "/api/v1/admin/check", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, map[string]any{"isAdmin": false}, env.Data)

	w = ts.doJSON(t, http.MethodGet, "/api/v1/admin/check", nil, userToken)
	require.Equal(t, http.StatusOK, w.Code)
	env = decodeEnvelope(t, w)
	assert.Equal(t, map[string]any{"isAdmin": false}, env.Data)

	w = ts.doJSON(t, http.MethodGet, "/api/v1/admin/check", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	env = decodeEnvelope(t, w)
	assert.Equal(t, map[string]any{"isAdmin": true}, env.Data)
}
