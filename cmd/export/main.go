package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/eldorado-p2p/influencer-api/internal/config"
	"github.com/eldorado-p2p/influencer-api/internal/repository"
	"github.com/eldorado-p2p/influencer-api/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	dest := flag.String("dest", "", "Destination path for the export zip (required)")
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("influencer-export %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	if *dest == "" {
		fmt.Fprintln(os.Stderr, "Error: --dest flag is required")
		fmt.Fprintln(os.Stderr, "Usage: influencer-export --dest /path/to/export.zip")
		flag.PrintDefaults()
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("campaign data export", "version", Version, "dest", *dest)

	_ = godotenv.Load()
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := repository.Open(cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	exportSvc := service.NewExportService(
		repository.NewInfluencerRepository(db),
		repository.NewVideoRepository(db),
		repository.NewAnalyticsRepository(db),
		logger,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nExport cancelled")
		cancel()
	}()

	out, err := os.Create(*dest)
	if err != nil {
		logger.Error("failed to create destination file", "error", err)
		os.Exit(1)
	}

	summary, err := exportSvc.Export(ctx, out)
	closeErr := out.Close()
	if err != nil {
		os.Remove(*dest)
		if ctx.Err() != nil {
			logger.Info("export was cancelled")
			os.Exit(130)
		}
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
	if closeErr != nil {
		logger.Error("failed to finalize destination file", "error", closeErr)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("Export Complete!")
	fmt.Println("----------------")
	fmt.Printf("Destination: %s\n", *dest)
	fmt.Printf("Influencers: %d\n", summary.Influencers)
	fmt.Printf("Videos: %d\n", summary.Videos)
	fmt.Printf("Total views: %d\n", summary.TotalViews)
	fmt.Println()
}
