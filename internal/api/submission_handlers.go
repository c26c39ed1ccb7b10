package api

import (
	"net/http"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/agentdeck/agentdeck-server/internal/http/response"
)

// handleCreateSubmission accepts a listing proposal from anyone. The
// proposal fields arrive wrapped in a payload object; the caller gets back
// a receipt with the submission's queue ID.
func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Payload *domain.SubmissionPayload `json:"payload"`
	}
	if !decodeBody(w, r, &req, s) {
		return
	}

	sub, err := s.moderation.Submit(r.Context(), getUserID(r.Context()), req.Payload)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Raw(w, http.StatusCreated, map[string]any{
		"ok":           true,
		"submissionId": sub.ID,
	}, s.logger)
}

// handleListPublicSubmissions exposes the intake queue read-only, newest
// first, so submitters can watch their proposal move through review.
func (s *Server) handleListPublicSubmissions(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r, submissionPaging)

	result, err := s.moderation.List(r.Context(), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Raw(w, http.StatusOK, result, s.logger)
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r, submissionPaging)

	result, err := s.moderation.List(r.Context(), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Raw(w, http.StatusOK, result, s.logger)
}

func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, s)
	if !ok {
		return
	}

	sub, err := s.moderation.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, sub, s.logger)
}

// handleReviewSubmission decides a pending submission. Approvals may link an
// existing agent via agentId; otherwise the submission payload is published
// as a new one.
func (s *Server) handleReviewSubmission(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, s)
	if !ok {
		return
	}

	var req struct {
		Status  string `json:"status"`
		AgentID *int64 `json:"agentId"`
		Notes   string `json:"notes"`
	}
	if !decodeBody(w, r, &req, s) {
		return
	}

	sub, err := s.moderation.Review(r.Context(), id, domain.SubmissionStatus(req.Status), req.AgentID, req.Notes, getEmail(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, sub, s.logger)
}
