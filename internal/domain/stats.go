package domain

// AdminStats is the aggregate dashboard snapshot for administrators.
type AdminStats struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalAgents      int64 `json:"totalAgents"`
	ApprovedAgents   int64 `json:"approvedAgents"`
	TotalBookmarks   int64 `json:"totalBookmarks"`
	TotalReviews     int64 `json:"totalReviews"`
	TotalComments    int64 `json:"totalComments"`
	TotalVotes       int64 `json:"totalVotes"`
	TotalSubmissions int64 `json:"totalSubmissions"`

	PendingSubmissions  int64 `json:"pendingSubmissions"`
	ApprovedSubmissions int64 `json:"approvedSubmissions"`
	RejectedSubmissions int64 `json:"rejectedSubmissions"`

	TotalVisits    int64 `json:"totalVisits"`
	TotalDownloads int64 `json:"totalDownloads"`
	TotalShares    int64 `json:"totalShares"`

	NewUsersLast7Days       int64 `json:"newUsersLast7Days"`
	NewAgentsLast7Days      int64 `json:"newAgentsLast7Days"`
	NewSubmissionsLast7Days int64 `json:"newSubmissionsLast7Days"`
	NewReviewsLast7Days     int64 `json:"newReviewsLast7Days"`
	NewUsersLast30Days      int64 `json:"newUsersLast30Days"`
	NewAgentsLast30Days     int64 `json:"newAgentsLast30Days"`
}
