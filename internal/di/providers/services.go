package providers

import (
	"github.com/samber/do/v2"

	"github.com/agentdeck/agentdeck-server/internal/auth"
	"github.com/agentdeck/agentdeck-server/internal/config"
	"github.com/agentdeck/agentdeck-server/internal/logger"
	"github.com/agentdeck/agentdeck-server/internal/newsletter"
	"github.com/agentdeck/agentdeck-server/internal/service"
	"github.com/agentdeck/agentdeck-server/internal/validation"
)

// ProvideValidator provides the request payload validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideDirectoryService provides the agent directory service.
func ProvideDirectoryService(i do.Injector) (*service.DirectoryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDirectoryService(storeHandle.Store, searchHandle.SearchIndex, log.Logger), nil
}

// ProvideModerationService provides the submission moderation service.
func ProvideModerationService(i do.Injector) (*service.ModerationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	directory := do.MustInvoke[*service.DirectoryService](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewModerationService(storeHandle.Store, directory, v, log.Logger), nil
}

// ProvideEngagementService provides reviews, comments, votes, and bookmarks.
func ProvideEngagementService(i do.Injector) (*service.EngagementService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewEngagementService(storeHandle.Store, log.Logger), nil
}

// ProvideMetricsService provides the visit and share counters.
func ProvideMetricsService(i do.Injector) (*service.MetricsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMetricsService(storeHandle.Store, log.Logger), nil
}

// ProvideNewsletterClient provides the outbound newsletter relay.
func ProvideNewsletterClient(i do.Injector) (*newsletter.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := newsletter.NewClient(newsletter.Config{
		APIKey:  cfg.Newsletter.APIKey,
		FormID:  cfg.Newsletter.FormID,
		BaseURL: cfg.Newsletter.BaseURL,
		Logger:  log.Logger,
	})
	if !client.Enabled() {
		log.Info("Newsletter relay disabled - signups stored locally only")
	}
	return client, nil
}

// ProvideNewsletterService provides newsletter signups.
func ProvideNewsletterService(i do.Injector) (*service.NewsletterService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	client := do.MustInvoke[*newsletter.Client](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNewsletterService(storeHandle.Store, client, v, log.Logger), nil
}

// ProvideAdminService provides the dashboard and user listing service.
func ProvideAdminService(i do.Injector) (*service.AdminService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	policy := do.MustInvoke[*auth.AdminPolicy](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAdminService(storeHandle.Store, policy, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokens, v, log.Logger), nil
}
