package domain

// AgentMetric is one agent's engagement counters for a single UTC day.
type AgentMetric struct {
	ID        int64  `json:"id"`
	AgentID   int64  `json:"agentId"`
	Date      string `json:"date"` // YYYY-MM-DD, UTC
	Visits    int64  `json:"visits"`
	Downloads int64  `json:"downloads"`
	Shares    int64  `json:"shares"`
}

// MetricsSummary aggregates an agent's daily counters across all days.
type MetricsSummary struct {
	TotalVisits    int64 `json:"totalVisits"`
	TotalDownloads int64 `json:"totalDownloads"`
	TotalShares    int64 `json:"totalShares"`
}
