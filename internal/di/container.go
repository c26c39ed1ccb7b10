// Package di provides dependency injection configuration for the AgentDeck server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/agentdeck/agentdeck-server/internal/auth"
	"github.com/agentdeck/agentdeck-server/internal/config"
	"github.com/agentdeck/agentdeck-server/internal/di/providers"
	"github.com/agentdeck/agentdeck-server/internal/logger"
	"github.com/agentdeck/agentdeck-server/internal/newsletter"
	"github.com/agentdeck/agentdeck-server/internal/service"
	"github.com/agentdeck/agentdeck-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideAdminPolicy)

	// Outbound clients
	do.Provide(injector, providers.ProvideNewsletterClient)

	// Business services
	do.Provide(injector, providers.ProvideDirectoryService)
	do.Provide(injector, providers.ProvideModerationService)
	do.Provide(injector, providers.ProvideEngagementService)
	do.Provide(injector, providers.ProvideMetricsService)
	do.Provide(injector, providers.ProvideNewsletterService)
	do.Provide(injector, providers.ProvideAdminService)
	do.Provide(injector, providers.ProvideAuthService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns once the server is
// running. This triggers lazy initialization of everything in dependency
// order.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*auth.AdminPolicy](injector)
	_ = do.MustInvoke[*newsletter.Client](injector)

	_ = do.MustInvoke[*service.DirectoryService](injector)
	_ = do.MustInvoke[*service.ModerationService](injector)
	_ = do.MustInvoke[*service.EngagementService](injector)
	_ = do.MustInvoke[*service.MetricsService](injector)
	_ = do.MustInvoke[*service.NewsletterService](injector)
	_ = do.MustInvoke[*service.AdminService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)

	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Rebuild the search index from SQLite if it came up empty.
	providers.TriggerReindexIfNeeded(injector)

	return nil
}
