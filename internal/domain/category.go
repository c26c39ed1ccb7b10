package domain

import "time"

// Category groups agents into a browsable section of the directory.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CategorySummary is the compact shape embedded in agent listings.
type CategorySummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Summary returns the compact embed shape for a category.
func (c *Category) Summary() CategorySummary {
	return CategorySummary{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

// CategoryWithCount is a category annotated with its approved-agent count.
type CategoryWithCount struct {
	Category
	AgentCount int64 `json:"agentCount"`
}
