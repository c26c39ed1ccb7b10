package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agentdeck/agentdeck-server/internal/http/response"
)

// pageDefaults bundles the clamping rules for a paginated listing.
type pageDefaults struct {
	size    int
	maxSize int
}

var (
	agentPaging      = pageDefaults{size: 12, maxSize: 50}
	reviewPaging     = pageDefaults{size: 10, maxSize: 50}
	commentPaging    = pageDefaults{size: 50, maxSize: 100}
	submissionPaging = pageDefaults{size: 20, maxSize: 100}
	userPaging       = pageDefaults{size: 50, maxSize: 100}
)

// pageParams reads page and pageSize query parameters, clamping them to the
// listing's bounds. Out-of-range or unparsable values fall back to defaults.
func pageParams(r *http.Request, d pageDefaults) (page, pageSize int) {
	page = 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	pageSize = d.size
	if v, err := strconv.Atoi(r.URL.Query().Get("pageSize")); err == nil && v > 0 {
		pageSize = min(v, d.maxSize)
	}
	return page, pageSize
}

// urlID parses the {id} path parameter as a positive integer.
func urlID(w http.ResponseWriter, r *http.Request, s *Server) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "INVALID_ID", "id must be a positive integer", s.logger)
		return 0, false
	}
	return id, true
}

// decodeBody parses the request body into dst, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, s *Server) bool {
	if err := json.UnmarshalRead(r.Body, dst); err != nil {
		response.BadRequest(w, "INVALID_JSON", "request body must be valid JSON", s.logger)
		return false
	}
	return true
}

// ack is the fixed wire shape for fire-and-forget acknowledgements.
type ack struct {
	OK bool `json:"ok"`
}
