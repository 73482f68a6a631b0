package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/eldorado-p2p/influencer-api/internal/api/handler"
	mw "github.com/eldorado-p2p/influencer-api/internal/api/middleware"
)

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(
	healthHandler *handler.HealthHandler,
	ownerHandler *handler.OwnerHandler,
	influencerHandler *handler.InfluencerHandler,
	videoHandler *handler.VideoHandler,
	analyticsHandler *handler.AnalyticsHandler,
	assistantHandler *handler.AssistantHandler,
	adminHandler *handler.AdminHandler,
	apiKey string,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.CleanPath)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	// Transcription downloads and re-encodes media, so the ceiling is high.
	r.Use(middleware.Timeout(5 * time.Minute))
	r.Use(mw.CORS)

	// Unauthenticated probes
	r.Get("/", healthHandler.Root)
	r.Get("/health", healthHandler.Live)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(apiKey))

		r.Route("/owners", func(r chi.Router) {
			r.Get("/", ownerHandler.List)
			r.Post("/", ownerHandler.Create)
			r.Get("/{name}", ownerHandler.Get)
			r.Patch("/{name}", ownerHandler.Update)
			r.Delete("/{name}", ownerHandler.Delete)
		})

		r.Route("/influencers", func(r chi.Router) {
			r.Get("/", influencerHandler.List)
			r.Post("/", influencerHandler.Create)
			r.Get("/{handle}", influencerHandler.Get)
			r.Patch("/{handle}", influencerHandler.Update)
			r.Delete("/{handle}", influencerHandler.Delete)
			r.Get("/{handle}/social-accounts", influencerHandler.SocialAccounts)
			r.Post("/{handle}/resolve-tiktok-id", influencerHandler.ResolveTikTokID)
		})

		r.Route("/videos", func(r chi.Router) {
			r.Get("/", videoHandler.List)
			// "sync/all" must register before the handle route.
			r.Post("/sync/all", videoHandler.SyncAll)
			r.Post("/sync/{handle}", videoHandler.Sync)
			r.Post("/transcribe", videoHandler.Transcribe)
			r.Get("/{videoID}", videoHandler.Get)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/dashboard", analyticsHandler.Dashboard)
			r.Get("/top-videos/{metric}", analyticsHandler.TopVideos)
			r.Get("/influencer/{handle}", analyticsHandler.InfluencerStats)
			r.Get("/period", analyticsHandler.PeriodStats)
			r.Get("/monthly-summary", analyticsHandler.MonthlySummary)
		})

		r.Route("/assistant", func(r chi.Router) {
			r.Post("/chat", assistantHandler.Chat)
			r.Get("/suggestions", assistantHandler.Suggestions)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/export", adminHandler.Export)
			r.Delete("/videos", adminHandler.DeleteAllVideos)
			r.Delete("/influencers/invalid-owner", adminHandler.PurgeInvalidOwners)
		})
	})

	return r
}
