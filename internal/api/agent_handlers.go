package api

import (
	"net/http"
	"strconv"

	"github.com/agentdeck/agentdeck-server/internal/domain"
	"github.com/agentdeck/agentdeck-server/internal/http/response"
	"github.com/agentdeck/agentdeck-server/internal/service"
)

// handleListAgents returns a page of published agents matching the query
// parameters.
func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, pageSize := pageParams(r, agentPaging)

	params := service.ListAgentsParams{
		Query:    q.Get("q"),
		Tag:      q.Get("tag"),
		Featured: q.Get("featured") == "true",
		Verified: q.Get("verified") == "true",
		Sort:     q.Get("sort"),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := q.Get("category"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.BadRequest(w, "INVALID_CATEGORY", "category must be a positive integer", s.logger)
			return
		}
		params.CategoryID = &id
	}

	result, err := s.directory.ListAgents(r.Context(), params)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Raw(w, http.StatusOK, result, s.logger)
}

func (s *Server) handleGetAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, s)
	if !ok {
		return
	}

	detail, err := s.directory.GetAgentDetail(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, detail, s.logger)
}

func (s *Server) handlePatchAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, s)
	if !ok {
		return
	}

	var patch domain.AgentPatch
	if !decodeBody(w, r, &patch, s) {
		return
	}

	detail, err := s.directory.PatchAgent(r.Context(), id, &patch)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, detail, s.logger)
}

func (s *Server) handleDeleteAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, s)
	if !ok {
		return
	}

	if err := s.directory.DeleteAgent(r.Context(), id); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.directory.ListCategories(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, categories, s.logger)
}

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.directory.ListTags(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, tags, s.logger)
}
