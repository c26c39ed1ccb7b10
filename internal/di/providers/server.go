package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/agentdeck/agentdeck-server/internal/api"
	"github.com/agentdeck/agentdeck-server/internal/config"
	"github.com/agentdeck/agentdeck-server/internal/logger"
	"github.com/agentdeck/agentdeck-server/internal/ratelimit"
	"github.com/agentdeck/agentdeck-server/internal/service"
)

// RateLimiterHandle wraps the keyed rate limiter with Shutdownable.
type RateLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *RateLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideRateLimiter provides the per-IP limiter for anonymous writes.
func ProvideRateLimiter(i do.Injector) (*RateLimiterHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return &RateLimiterHandle{
		KeyedRateLimiter: ratelimit.New(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
	}, nil
}

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	limiter := do.MustInvoke[*RateLimiterHandle](i)

	handler := api.NewServer(api.Options{
		Directory:      do.MustInvoke[*service.DirectoryService](i),
		Moderation:     do.MustInvoke[*service.ModerationService](i),
		Engagement:     do.MustInvoke[*service.EngagementService](i),
		Metrics:        do.MustInvoke[*service.MetricsService](i),
		Newsletter:     do.MustInvoke[*service.NewsletterService](i),
		Admin:          do.MustInvoke[*service.AdminService](i),
		Auth:           do.MustInvoke[*service.AuthService](i),
		Limiter:        limiter.KeyedRateLimiter,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         log.Logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: srv}, nil
}

// TriggerReindexIfNeeded rebuilds the search index from SQLite when the
// index is empty but listings exist, e.g. after the index directory was
// deleted or the schema changed.
func TriggerReindexIfNeeded(i do.Injector) {
	log := do.MustInvoke[*logger.Logger](i)
	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	directory := do.MustInvoke[*service.DirectoryService](i)

	count, err := searchHandle.DocumentCount()
	if err != nil {
		log.Warn("Could not read search index document count", "error", err)
		return
	}
	if count > 0 {
		return
	}

	go func() {
		n, err := directory.Reindex(context.Background())
		if err != nil {
			log.Error("Startup reindex failed", "error", err)
			return
		}
		if n > 0 {
			log.Info("Startup reindex complete", "agents", n)
		}
	}()
}
