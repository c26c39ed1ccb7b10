// Package search provides full-text search over the agent directory using
// Bleve. Queries resolve to agent IDs, which the listing layer combines
// with its SQL filters.
package search

import (
	"strconv"

	"github.com/agentdeck/agentdeck-server/internal/domain"
)

// AgentDocument is the document structure for the Bleve index. Tag names
// and the author are denormalized so one query covers everything a user
// might type into the search box.
type AgentDocument struct {
	ID          string   `json:"id"` // Agent ID in decimal
	Name        string   `json:"name"`
	Description string   `json:"description"`
	LongDesc    string   `json:"long_description,omitempty"`
	Author      string   `json:"author,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// DocumentID returns the index key for an agent.
func DocumentID(agentID int64) string {
	return strconv.FormatInt(agentID, 10)
}

// NewAgentDocument builds the index document for an agent and its tags.
func NewAgentDocument(a *domain.Agent, tags []*domain.Tag) *AgentDocument {
	doc := &AgentDocument{
		ID:          DocumentID(a.ID),
		Name:        a.Name,
		Description: a.Description,
		LongDesc:    a.LongDesc,
		Author:      a.AuthorName,
	}
	for _, t := range tags {
		doc.Tags = append(doc.Tags, t.Name)
	}
	return doc
}

// ToMap converts the document to a map with lowercase field names.
// This ensures field names match the Bleve index mapping.
func (d *AgentDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":          d.ID,
		"name":        d.Name,
		"description": d.Description,
	}
	if d.LongDesc != "" {
		m["long_description"] = d.LongDesc
	}
	if d.Author != "" {
		m["author"] = d.Author
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	return m
}

// AgentID parses the numeric agent ID back out of an index hit.
func AgentID(docID string) (int64, error) {
	return strconv.ParseInt(docID, 10, 64)
}
