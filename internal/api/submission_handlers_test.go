package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// submissionBody builds a valid intake request: the proposal fields travel
// inside a payload wrapper.
func submissionBody(categoryID int64) map[string]any {
	return map[string]any{
		"payload": map[string]any{
			"name":        "CodePilot",
			"description": "Pair programming agent",
			"categoryId":  categoryID,
			"email":       "author@example.com",
			"tags":        []string{"Go", "Coding"},
		},
	}
}

func TestCreateSubmission_Receipt(t *testing.T) {
	ts := setupTestServer(t)
	cat := ts.seedCategory(t, "coding")

	w := ts.doJSON(t, http.MethodPost, "/api/v1/submissions", submissionBody(cat.ID), "")

	assert.Equal(t, http.StatusCreated, w.Code)
	body := decodeRaw(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, float64(1), body["submissionId"])
}

func TestCreateSubmission_InvalidPayload(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedCategory(t, "coding")

	body := submissionBody(1)
	body["payload"].(map[string]any)["email"] = "not-an-email"
	w := ts.doJSON(t, http.MethodPost, "/api/v1/submissions", body, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "INVALID_EMAIL", env.Code)
}

func TestCreateSubmission_MissingPayload(t *testing.T) {
	ts := setupTestServer(t)

	// A body without the payload wrapper carries no proposal at all.
	w := ts.doJSON(t, http.MethodPost, "/api/v1/submissions", map[string]any{
		"name":        "CodePilot",
		"description": "Pair programming agent",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "MISSING_PAYLOAD", env.Code)
}

func TestCreateSubmission_RecordsUser(t *testing.T) {
	ts := setupTestServer(t)
	cat := ts.seedCategory(t, "coding")
	token, userID := ts.registerUser(t, "author@example.com", "password123")

	w := ts.doJSON(t, http.MethodPost, "/api/v1/submissions", submissionBody(cat.ID), token)
	require.Equal(t, http.StatusCreated, w.Code)

	adminToken, _ := ts.registerUser(t, testAdminEmail, "password123")
	w = ts.doJSON(t, http.MethodGet, "/api/v1/admin/submissions/1", nil, adminToken)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, userID, data["userId"])
}

func TestListPublicSubmissions(t *testing.T) {
	ts := setupTestServer(t)
	cat := ts.seedCategory(t, "coding")
	w := ts.doJSON(t, http.MethodPost, "/api/v1/submissions", submissionBody(cat.ID), "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.doJSON(t, http.MethodGet, "/api/v1/submissions", nil, "")

	assert.Equal(t, http.StatusOK, w.Code)
	page := decodeRaw(t, w)
	assert.Equal(t, float64(1), page["total"])
}

func TestListSubmissions_RequiresAdmin(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.doJSON(t, http.MethodGet, "/api/v1/admin/submissions", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, _ := ts.registerUser(t, "user@example.com", "password123")
	w = ts.doJSON(t, http.MethodGet, "/api/v1/admin/submissions", nil, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReviewSubmission_ApprovePublishes(t *testing.T) {
	ts := setupTestServer(t)
	cat := ts.seedCategory(t, "coding")
	w := ts.doJSON(t, http.MethodPost, "/api/v1/submissions", submissionBody(cat.ID), "")
	require.Equal(t, http.StatusCreated, w.Code)

	adminToken, adminID := ts.registerUser(t, testAdminEmail, "password123")
	w = ts.doJSON(t, http.MethodPut, "/api/v1/admin/submissions/1", map[string]any{
		"status": "approved",
		"notes":  "looks good",
	}, adminToken)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "approved", data["status"])
	// The reviewer is recorded by account ID, not email.
	assert.Equal(t, adminID, data["reviewedBy"])
	assert.NotNil(t, data["agentId"])

	// The published listing is now browsable.
	w = ts.doJSON(t, http.MethodGet, "/api/v1/agents?q=codepilot", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decodeRaw(t, w)
	assert.Equal(t, float64(1), page["total"])
}

func TestReviewSubmission_InvalidStatus(t *testing.T) {
	ts := setupTestServer(t)
	cat := ts.seedCategory(t, "coding")
	w := ts.doJSON(t, http.MethodPost, "/api/v1/submissions", submissionBody(cat.ID), "")
	require.Equal(t, http.StatusCreated, w.Code)

	adminToken, _ := ts.registerUser(t, testAdminEmail, "password123")
	w = ts.doJSON(t, http.MethodPut, "/api/v1/admin/submissions/1", map[string]any{
		"status": "escalated",
	}, adminToken)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "INVALID_STATUS", env.Code)
}
