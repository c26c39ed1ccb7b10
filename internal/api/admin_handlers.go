package api

import (
	"net/http"

	"github.com/agentdeck/agentdeck-server/internal/http/response"
)

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.admin.GetStats(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, stats, s.logger)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pageParams(r, userPaging)

	result, err := s.admin.ListUsers(r.Context(), r.URL.Query().Get("search"), page, pageSize)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Raw(w, http.StatusOK, result, s.logger)
}

// handleAdminCheck reports whether the caller is an admin. Guests get a
// plain false rather than an error so the client can gate its UI.
func (s *Server) handleAdminCheck(w http.ResponseWriter, r *http.Request) {
	email := getEmail(r.Context())
	response.Success(w, map[string]bool{
		"isAdmin": email != "" && s.admin.IsAdmin(email),
	}, s.logger)
}
