package domain

import "time"

// GuestUserID is the sentinel identity attached to anonymous engagement
// writes when no session is present.
const GuestUserID = "guest"

// Review is a rated write-up on an agent.
type Review struct {
	ID        int64     `json:"id"`
	AgentID   int64     `json:"agentId"`
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Title     string    `json:"title,omitempty"`
	Body      string    `json:"body,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Comment is a free-form discussion entry on an agent. A reply carries the
// id of the comment it answers; top-level comments have no parent.
type Comment struct {
	ID        int64     `json:"id"`
	AgentID   int64     `json:"agentId"`
	UserID    string    `json:"userId"`
	ParentID  *int64    `json:"parentId,omitempty"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

// Vote is an upvote on an agent. At most one per (agent, user).
type Vote struct {
	ID        int64     `json:"id"`
	AgentID   int64     `json:"agentId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Bookmark marks an agent saved by a user.
type Bookmark struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	AgentID   int64     `json:"agentId"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookmarkWithAgent is a bookmark joined with its agent's listing summary.
type BookmarkWithAgent struct {
	Bookmark
	Agent AgentSummary `json:"agent"`
}
