package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/eldorado-p2p/influencer-api/internal/api"
	"github.com/eldorado-p2p/influencer-api/internal/api/handler"
	"github.com/eldorado-p2p/influencer-api/internal/config"
	appcron "github.com/eldorado-p2p/influencer-api/internal/cron"
	"github.com/eldorado-p2p/influencer-api/internal/downloader"
	"github.com/eldorado-p2p/influencer-api/internal/repository"
	"github.com/eldorado-p2p/influencer-api/internal/service"
	"github.com/eldorado-p2p/influencer-api/internal/transcriber"
	"github.com/eldorado-p2p/influencer-api/internal/worker"
	"github.com/eldorado-p2p/influencer-api/pkg/chat"
	"github.com/eldorado-p2p/influencer-api/pkg/ffmpeg"
	"github.com/eldorado-p2p/influencer-api/pkg/scraptik"
	"github.com/eldorado-p2p/influencer-api/pkg/tiktok"
	"github.com/eldorado-p2p/influencer-api/pkg/whisper"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("influencer-api %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	// Local development convenience; absence of .env is not an error.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting influencer-api",
		"version", Version,
		"build_time", BuildTime,
	)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Transcribe.TempPath, 0755); err != nil {
		logger.Error("failed to create temp directory", "error", err)
		os.Exit(1)
	}

	db, err := repository.Open(cfg.Database)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	// Repositories
	ownerRepo := repository.NewOwnerRepository(db)
	influencerRepo := repository.NewInfluencerRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// External clients
	scrapClient := scraptik.NewClient(cfg.ScrapTik, cfg.Sync, logger)
	resolver := tiktok.NewResolver()
	dl := downloader.NewMediaDownloader(cfg.Transcribe, logger)
	whisperClient := whisper.NewClient(whisper.Config{
		APIKey:   cfg.OpenAI.APIKey,
		BaseURL:  cfg.OpenAI.BaseURL,
		Model:    cfg.OpenAI.WhisperModel,
		Language: cfg.OpenAI.Language,
		Timeout:  cfg.OpenAI.Timeout,
	})
	chatClient := chat.NewClient(chat.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.ChatModel,
		Timeout: cfg.OpenAI.Timeout,
	})

	// ffmpeg is optional: without it oversized videos fail instead of
	// being reduced.
	processor, err := ffmpeg.NewProcessor()
	if err != nil {
		logger.Warn("ffmpeg unavailable, oversized videos will not be reduced", "error", err)
		processor = nil
	}

	mediaTranscriber := transcriber.New(dl, processor, whisperClient, cfg.Transcribe.MaxFileSize, logger)

	// Services
	ownerSvc := service.NewOwnerService(ownerRepo, logger)
	influencerSvc := service.NewInfluencerService(influencerRepo, ownerRepo, logger)
	syncSvc := service.NewSyncService(scrapClient, influencerRepo, videoRepo, cfg.Sync, logger)
	transcribeSvc := service.NewTranscriptionService(resolver, mediaTranscriber, syncSvc, videoRepo, logger)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, influencerRepo)
	assistantSvc := service.NewAssistantService(chatClient, influencerRepo, ownerRepo, videoRepo, analyticsRepo, logger)
	exportSvc := service.NewExportService(influencerRepo, videoRepo, analyticsRepo, logger)

	// Handlers
	healthHandler := handler.NewHealthHandler(db, Version)
	ownerHandler := handler.NewOwnerHandler(ownerSvc, logger)
	influencerHandler := handler.NewInfluencerHandler(influencerSvc, syncSvc, logger)
	videoHandler := handler.NewVideoHandler(syncSvc, transcribeSvc, videoRepo, logger)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, logger)
	assistantHandler := handler.NewAssistantHandler(assistantSvc, logger)
	adminHandler := handler.NewAdminHandler(influencerSvc, exportSvc, videoRepo, logger)

	router := api.NewRouter(
		healthHandler,
		ownerHandler,
		influencerHandler,
		videoHandler,
		analyticsHandler,
		assistantHandler,
		adminHandler,
		cfg.Server.APIKey,
	)

	scheduler, err := appcron.NewScheduler(syncSvc, cfg.Sync.CronSpec, logger)
	if err != nil {
		logger.Error("failed to create scheduler", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	var pool *worker.Pool
	if cfg.Backfill.Enabled {
		pool = worker.NewPool(worker.Config{
			Workers:      cfg.Backfill.Workers,
			PollInterval: cfg.Backfill.PollInterval,
		}, videoRepo, transcribeSvc, logger)
		pool.Start()
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	scheduler.Stop()
	if pool != nil {
		if err := pool.Stop(10 * time.Second); err != nil {
			logger.Error("worker pool shutdown error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
