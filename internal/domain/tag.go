package domain

import "time"

// Tag is a free-form label applied to agents.
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

// TagSummary is the compact shape embedded in agent listings.
type TagSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Summary returns the compact embed shape for a tag.
func (t *Tag) Summary() TagSummary {
	return TagSummary{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

// TagWithUsage is a tag annotated with how many agents carry it.
type TagWithUsage struct {
	Tag
	UsageCount int64 `json:"usageCount"`
}
