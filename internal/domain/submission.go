package domain

import "time"

// SubmissionStatus is the moderation state of an intake submission.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// Valid reports whether s is a known submission status.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionPending, SubmissionApproved, SubmissionRejected:
		return true
	}
	return false
}

// submissionTransitions is the moderation state machine. Only pending
// submissions can move; approved and rejected are terminal.
var submissionTransitions = map[SubmissionStatus][]SubmissionStatus{
	SubmissionPending: {SubmissionApproved, SubmissionRejected},
}

// CanTransition reports whether a submission in state from may move to state to.
func CanTransition(from, to SubmissionStatus) bool {
	for _, allowed := range submissionTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// SubmissionPayload is the structured listing proposal carried by a
// submission. Validation tags mirror the intake contract: name,
// description, category, and a contact email are mandatory.
type SubmissionPayload struct {
	Name          string   `json:"name" validate:"required,max=120"`
	Description   string   `json:"description" validate:"required,max=500"`
	LongDesc      string   `json:"longDescription,omitempty" validate:"max=5000"`
	Features      []string `json:"features,omitempty" validate:"max=20,dive,min=1,max=200"`
	CategoryID    int64    `json:"categoryId" validate:"required,gt=0"`
	AuthorName    string   `json:"authorName,omitempty" validate:"max=120"`
	Email         string   `json:"email" validate:"required,email"`
	Website       string   `json:"website,omitempty" validate:"omitempty,url"`
	Repository    string   `json:"repository,omitempty" validate:"omitempty,url"`
	Documentation string   `json:"documentation,omitempty" validate:"omitempty,url"`
	LogoURL       string   `json:"logoUrl,omitempty" validate:"omitempty,url"`
	Pricing       string   `json:"pricing,omitempty" validate:"max=60"`
	Tags          []string `json:"tags,omitempty" validate:"max=10,dive,min=1,max=40"`
}

// Submission is an anonymous listing proposal moving through moderation.
type Submission struct {
	ID         int64             `json:"id"`
	UserID     string            `json:"userId"`
	Payload    SubmissionPayload `json:"payload"`
	Status     SubmissionStatus  `json:"status"`
	Notes      string            `json:"notes,omitempty"`
	AgentID    *int64            `json:"agentId,omitempty"`
	ReviewedBy string            `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time        `json:"reviewedAt,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// SubmissionWithRefs is a submission joined with its submitter account (nil
// for guests) and the linked agent (nil until approved), for the moderation
// queue listing.
type SubmissionWithRefs struct {
	Submission
	Submitter *UserSummary  `json:"submitter,omitempty"`
	Agent     *AgentSummary `json:"agent,omitempty"`
}
