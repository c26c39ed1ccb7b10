package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddReview_Guest(t *testing.T) {
	ts := setupTestServer(t)
	cat := ts.seedCategory(t, "coding")
	agent := ts.seedAgent(t, cat.ID, "CodePilot", "codepilot")

	path := fmt.Sprintf("/api/v1/agents/%d/reviews", agent.ID)
	w := ts.doJSON(t, http.MethodPost, path, map[string]any{
		"rating": 4,
		"title":  "Solid",
		"body":   "Does what it says.",
	}, "")

	assert.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(4), data["rating"])

	w = ts.doJSON(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeRaw(t, w)
	assert.Equal(t, float64(1), page["total"])
}

func TestAddReview_InvalidRating(t *testing.T) {
	ts := setupTestServer(t)
	cat := ts.seedCategory(t, "coding")
	agent := ts.seedAgent(t, cat.ID, "CodePilot", "codepilot")

	w := ts.doJSON(t, http.MethodPost, fmt.Sprintf("/api/v1/agents/%d/reviews", agent.ID), map[string]any{
		"rating": 6,
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "INVALID_RATING", env.Code)
}

func TestAddComment_WithReply(t *testing.T) {
	ts := setupTestServer(t)
	cat := ts.seedCategory(t, "coding")
	agent := ts.seedAgent(t, cat.ID, "CodePilot", "codepilot")
	path := fmt.Sprintf("/api/v1/agents/%d/comments", agent.ID)

	w := ts.doJSON(t, http.MethodPost, path, map[string]any{"body": "Anyone tried this?"}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	parent := env.Data.(map[string]any)
	parentID := parent["id"].(float64)

	w = ts.doJSON(t, http.MethodPost, path, map[string]any{
		"body":     "Works well for me.",
		"parentId": parentID,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	env = decodeEnvelope(t, w)
	reply := env.Data.(map[string]any)
	assert.Equal(t, parentID, reply["parentId"])

	w = ts.doJSON(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeRaw(t, w)
	assert.Equal(t, float64(2), page["total"])
}

func TestUpvote_Lifecycle(t *testing.T) {
	ts := setupTestServer(t)
	cat := ts.seedCategory(t, "coding")
	agent := ts.seedAgent(t, cat.ID, "CodePilot", "codepilot")
	token, _ := ts.registerUser(t, "alice@example.com", "password123")
	path := fmt.Sprintf("/api/v1/agents/%d/upvote", agent.ID)

	// Guests cannot vote.
	w := ts.doJSON(t, http.MethodPost, path, nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.doJSON(t, http.MethodPost, path, nil, token)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Voting twice is rejected.
	w = ts.doJSON(t, http.MethodPost, path, nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "DUPLICATE_VOTE", env.Code)

	w = ts.doJSON(t, http.MethodGet, path, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	env = decodeEnvelope(t, w)
	status := env.Data.(map[string]any)
	assert.Equal(t, float64(1), status["count"])
	assert.Equal(t, true, status["voted"])

	w = ts.doJSON(t, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = ts.doJSON(t, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	env = decodeEnvelope(t, w)
	status = env.Data.(map[string]any)
	assert.Equal(t, float64(0), status["count"])
	assert.Equal(t, false, status["voted"])
}

func TestBookmarks_Lifecycle(t *testing.T) {
	ts := setupTestServer(t)
	cat := ts.seedCategory(t, "coding")
	agent := ts.seedAgent(t, cat.ID, "CodePilot", "codepilot")
	token, _ := ts.registerUser(t, "alice@example.com", "password123")

	w := ts.doJSON(t, http.MethodGet, "/api/v1/bookmarks", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ts.doJSON(t, http.MethodPost, "/api/v1/bookmarks", map[string]any{"agentId": agent.ID}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	env := decodeEnvelope(t, w)
	bookmark := env.Data.(map[string]any)
	bookmarkID := bookmark["id"].(float64)

	w = ts.doJSON(t, http.MethodGet, "/api/v1/bookmarks", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	env = decodeEnvelope(t, w)
	list, ok := env.Data.([]any)
	require.True(t, ok)
	assert.Len(t, list, 1)

	w = ts.doJSON(t, http.MethodDelete, fmt.Sprintf("/api/v1/bookmarks/%d", int64(bookmarkID)), nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
