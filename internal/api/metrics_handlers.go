package api

import (
	"context"
	"net/http"

	"github.com/agentdeck/agentdeck-server/internal/http/response"
)

// metricRequest is the body for visit and share counters.
type metricRequest struct {
	AgentID int64 `json:"agentId"`
}

func (s *Server) handleRecordVisit(w http.ResponseWriter, r *http.Request) {
	s.handleMetric(w, r, s.metrics.RecordVisit)
}

func (s *Server) handleRecordShare(w http.ResponseWriter, r *http.Request) {
	s.handleMetric(w, r, s.metrics.RecordShare)
}

func (s *Server) handleMetric(w http.ResponseWriter, r *http.Request, record func(ctx context.Context, agentID int64) error) {
	var req metricRequest
	if !decodeBody(w, r, &req, s) {
		return
	}
	if req.AgentID == 0 {
		response.BadRequest(w, "MISSING_AGENT_ID", "agentId is required", s.logger)
		return
	}

	if err := record(r.Context(), req.AgentID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Raw(w, http.StatusOK, ack{OK: true}, s.logger)
}

// handleSubscribe records a newsletter signup. Duplicate emails succeed
// quietly so the form never leaks who is already subscribed.
func (s *Server) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email  string `json:"email"`
		Source string `json:"source"`
	}
	if !decodeBody(w, r, &req, s) {
		return
	}

	if _, err := s.newsletter.Signup(r.Context(), req.Email, req.Source); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Raw(w, http.StatusOK, ack{OK: true}, s.logger)
}
