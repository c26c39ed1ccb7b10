package store

// Sort keys accepted by the agent listing.
const (
	SortNewest   = "newest"
	SortRating   = "rating"
	SortTrending = "trending"
	SortPopular  = "popular"
)

// AgentFilter describes the filter/sort/pagination set applied to an agent
// listing. The same filter is used for the page query and the total count so
// the total always reflects the filtered set.
type AgentFilter struct {
	// IDs restricts the result to the given agent IDs. nil means no
	// restriction; an empty slice should never reach the store (callers
	// short-circuit to an empty page instead).
	IDs []int64

	CategoryID *int64
	Featured   bool // filter to featured agents when true
	Verified   bool // filter to verified agents when true

	Sort   string // one of the Sort* constants; empty means SortNewest
	Limit  int
	Offset int
}

// SubmissionFilter describes filtering for the moderation queue listing.
type SubmissionFilter struct {
	Status string // empty means all statuses
	Limit  int
	Offset int
}

// ReviewSort keys accepted by the per-agent review listing.
const (
	ReviewSortNewest = "newest"
	ReviewSortRating = "rating"
)

// UserFilter describes filtering for the admin user listing.
type UserFilter struct {
	Search string // case-insensitive substring match on name or email
	Limit  int
	Offset int
}
