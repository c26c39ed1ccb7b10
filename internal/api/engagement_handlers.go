package api

import (
	"net/http"

	"github.com/agentdeck/agentdeck-server/internal/http/response"
)

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, s)
	if !ok {
		return
	}
	page, pageSize := pageParams(r, reviewPaging)

	result, err := s.engagement.ListReviews(r.Context(), id, r.URL.Query().Get("sort"), page, pageSize)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Raw(w, http.StatusOK, result, s.logger)
}

func (s *Server) handleAddReview(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, s)
	if !ok {
		return
	}

	var req struct {
		Rating int    `json:"rating"`
		Title  string `json:"title"`
		Body   string `json:"body"`
	}
	if !decodeBody(w, r, &req, s) {
		return
	}

	review, err := s.engagement.AddReview(r.Context(), id, getUserID(r.Context()), req.Rating, req.Title, req.Body)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, review, s.logger)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, s)
	if !ok {
		return
	}
	page, pageSize := pageParams(r, commentPaging)

	result, err := s.engagement.ListComments(r.Context(), id, page, pageSize)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Raw(w, http.StatusOK, result, s.logger)
}

func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, s)
	if !ok {
		return
	}

	var req struct {
		Body     string `json:"body"`
		ParentID *int64 `json:"parentId"`
	}
	if !decodeBody(w, r, &req, s) {
		return
	}

	comment, err := s.engagement.AddComment(r.Context(), id, getUserID(r.Context()), req.Body, req.ParentID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, comment, s.logger)
}

// handleUpvoteStatus reports an agent's vote count and, for authenticated
// callers, whether they have voted.
func (s *Server) handleUpvoteStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, s)
	if !ok {
		return
	}

	count, voted, err := s.engagement.UpvoteStatus(r.Context(), id, getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, map[string]any{
		"count": count,
		"voted": voted,
	}, s.logger)
}

func (s *Server) handleUpvote(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, s)
	if !ok {
		return
	}

	vote, err := s.engagement.Upvote(r.Context(), id, getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, vote, s.logger)
}

func (s *Server) handleRemoveUpvote(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, s)
	if !ok {
		return
	}

	if err := s.engagement.RemoveUpvote(r.Context(), id, getUserID(r.Context())); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

func (s *Server) handleListBookmarks(w http.ResponseWriter, r *http.Request) {
	bookmarks, err := s.engagement.ListBookmarks(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, bookmarks, s.logger)
}

func (s *Server) handleAddBookmark(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AgentID int64 `json:"agentId"`
	}
	if !decodeBody(w, r, &req, s) {
		return
	}
	if req.AgentID <= 0 {
		response.BadRequest(w, "INVALID_AGENT_ID", "agentId must be a positive integer", s.logger)
		return
	}

	bookmark, err := s.engagement.AddBookmark(r.Context(), getUserID(r.Context()), req.AgentID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, bookmark, s.logger)
}

func (s *Server) handleRemoveBookmark(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r, s)
	if !ok {
		return
	}

	if err := s.engagement.RemoveBookmark(r.Context(), id, getUserID(r.Context())); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
