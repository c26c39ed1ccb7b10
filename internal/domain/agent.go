// Package domain contains the core business entities for the AgentDeck directory.
package domain

import "time"

// Agent listing states. Published listings default to approved; pending
// and rejected exist for listings created outside the moderation queue.
const (
	AgentStatusPending  = "pending"
	AgentStatusApproved = "approved"
	AgentStatusRejected = "rejected"
)

// ValidAgentStatus reports whether s is a known listing state.
func ValidAgentStatus(s string) bool {
	return s == AgentStatusPending || s == AgentStatusApproved || s == AgentStatusRejected
}

// Agent represents a directory listing for a third-party agent.
type Agent struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	LongDesc       string    `json:"longDescription,omitempty"`
	Features       []string  `json:"features"`
	CategoryID     int64     `json:"categoryId"`
	AuthorName     string    `json:"authorName,omitempty"`
	AuthorEmail    string    `json:"authorEmail,omitempty"`
	Website        string    `json:"website,omitempty"`
	Repository     string    `json:"repository,omitempty"`
	Documentation  string    `json:"documentation,omitempty"`
	LogoURL        string    `json:"logoUrl,omitempty"`
	Pricing        string    `json:"pricing,omitempty"`
	Status         string    `json:"status"`
	Featured       bool      `json:"featured"`
	Verified       bool      `json:"verified"`
	AverageRating  float64   `json:"averageRating"`
	RatingsCount   int64     `json:"ratingsCount"`
	UpvotesCount   int64     `json:"upvotesCount"`
	CommentsCount  int64     `json:"commentsCount"`
	VisitsCount    int64     `json:"visitsCount"`
	DownloadsCount int64     `json:"downloadsCount"`
	SharesCount    int64     `json:"sharesCount"`
	Trending       float64   `json:"trending"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// AgentSummary is the compact listing shape embedded in bookmarks and
// other per-user views.
type AgentSummary struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	Description   string  `json:"description"`
	LogoURL       string  `json:"logoUrl,omitempty"`
	AverageRating float64 `json:"averageRating"`
	UpvotesCount  int64   `json:"upvotesCount"`
}

// Summary returns the compact listing shape for an agent.
func (a *Agent) Summary() AgentSummary {
	return AgentSummary{
		ID:            a.ID,
		Name:          a.Name,
		Slug:          a.Slug,
		Description:   a.Description,
		LogoURL:       a.LogoURL,
		AverageRating: a.AverageRating,
		UpvotesCount:  a.UpvotesCount,
	}
}

// AgentWithRefs is an agent joined with its category and tags, the shape
// returned by listing endpoints.
type AgentWithRefs struct {
	Agent
	Category *CategorySummary `json:"category,omitempty"`
	Tags     []TagSummary     `json:"tags"`
}

// AgentLink is a labelled external link attached to an agent.
type AgentLink struct {
	ID      int64  `json:"id"`
	AgentID int64  `json:"agentId"`
	Label   string `json:"label"`
	URL     string `json:"url"`
}

// AgentDetail is the full detail-page shape: the agent with its category,
// tags, extra links, and an aggregate of its daily metrics.
type AgentDetail struct {
	AgentWithRefs
	Links   []AgentLink    `json:"links"`
	Metrics MetricsSummary `json:"metrics"`
}

// AgentPatch carries the optional field updates an administrator may apply
// to a listing. Nil fields are left unchanged; a non-nil Tags slice
// replaces the full tag set (an empty slice clears it).
type AgentPatch struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	LongDesc      *string   `json:"longDescription"`
	Features      *[]string `json:"features"`
	CategoryID    *int64    `json:"categoryId"`
	Website       *string   `json:"website"`
	Repository    *string   `json:"repository"`
	Documentation *string   `json:"documentation"`
	LogoURL       *string   `json:"logoUrl"`
	Pricing       *string   `json:"pricing"`
	Status        *string   `json:"status"`
	Featured      *bool     `json:"featured"`
	Verified      *bool     `json:"verified"`
	Trending      *float64  `json:"trending"`
	Tags          *[]string `json:"tags"`
}

// Empty reports whether the patch contains no updates.
func (p *AgentPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.LongDesc == nil &&
		p.Features == nil && p.CategoryID == nil && p.Website == nil &&
		p.Repository == nil && p.Documentation == nil && p.LogoURL == nil &&
		p.Pricing == nil && p.Status == nil && p.Featured == nil &&
		p.Verified == nil && p.Trending == nil && p.Tags == nil
}
