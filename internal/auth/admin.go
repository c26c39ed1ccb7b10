package auth

import (
	"github.com/agentdeck/agentdeck-server/internal/domain"
)

// AdminPolicy decides which users may access the moderation surface.
// Constructed once from configuration and injected; there is no global
// admin state.
type AdminPolicy struct {
	emails map[string]struct{}
}

// NewAdminPolicy builds a policy from an allow-list of administrator
// emails. Matching is case-insensitive.
func NewAdminPolicy(emails []string) *AdminPolicy {
	p := &AdminPolicy{emails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		normalized := domain.NormalizeEmail(e)
		if normalized != "" {
			p.emails[normalized] = struct{}{}
		}
	}
	return p
}

// IsAdmin reports whether the email belongs to an administrator.
func (p *AdminPolicy) IsAdmin(email string) bool {
	if email == "" {
		return false
	}
	_, ok := p.emails[domain.NormalizeEmail(email)]
	return ok
}

// Empty reports whether no administrators are configured.
func (p *AdminPolicy) Empty() bool {
	return len(p.emails) == 0
}
