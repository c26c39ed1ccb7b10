package domain

import "time"

// Subscriber is a newsletter signup captured before relay to the
// email-list provider.
type Subscriber struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

// Subscription sources accepted by the signup endpoint.
const (
	SourceHomepage = "homepage"
	SourceFooter   = "footer"
	SourceModal    = "modal"
	SourceAPI      = "api"
)

// ValidSource reports whether s is an accepted signup source.
func ValidSource(s string) bool {
	switch s {
	case SourceHomepage, SourceFooter, SourceModal, SourceAPI:
		return true
	}
	return false
}
