package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/AdwaithAnandSR/MediaCloudSync/api"
	"github.com/AdwaithAnandSR/MediaCloudSync/assets"
	"github.com/AdwaithAnandSR/MediaCloudSync/catalog"
	"github.com/AdwaithAnandSR/MediaCloudSync/config"
	"github.com/AdwaithAnandSR/MediaCloudSync/extractor"
	"github.com/AdwaithAnandSR/MediaCloudSync/ingest"
	"github.com/AdwaithAnandSR/MediaCloudSync/logger"
	"github.com/AdwaithAnandSR/MediaCloudSync/policy"
	"github.com/AdwaithAnandSR/MediaCloudSync/taskman"
	"github.com/AdwaithAnandSR/MediaCloudSync/uploader"
	"github.com/AdwaithAnandSR/MediaCloudSync/util"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(err)
	}

	lg := logger.New(cfg.App.LogLevel)
	tm := taskman.New(lg)

	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = util.WithLogger(ctx, lg)

	// Create the asset store
	store, err := uploader.NewUploader(cfg.Uploaders[0])
	if err != nil {
		lg.Fatal("Failed to create uploader:", err)
	}
	if len(cfg.Uploaders) > 1 {
		lg.Warnf("only the first configured uploader (%s) is used\n", cfg.Uploaders[0].Name)
	}

	// Wire the pipeline capabilities
	cat := catalog.NewCached(
		catalog.NewHTTPClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout.D()),
		cfg.Catalog.ExistsCacheTTL.D(),
	)
	ext := extractor.NewYTDLP(cfg.Extractor)
	pol := policy.New(cfg.Filter, cat)
	pipe := assets.NewPipeline(ext, cfg.Extractor.TempDir)

	svc := ingest.NewService(ctx, ext, pol, cat, pipe, store, tm, cfg.Extractor.Pacing.D())
	srv := api.New(svc, lg)

	// Print the table of tasks when records change
	if cfg.App.StatusTable {
		go func() {
			db := util.NewDebounce(cfg.App.StatusTableInterval.D())
			util.LoopUntilCancelled(ctx, func() {
				if tm.ConsumeDirty() && db.Check() {
					tm.RenderTable(os.Stdout)
				}
				util.SleepContext(ctx, time.Second)
			})
		}()
	}

	// Retention sweep for old terminal records
	go util.LoopUntilCancelled(ctx, func() {
		tm.ClearOldTasks(cfg.App.TaskRetention.D())
		util.SleepContext(ctx, time.Hour)
	})

	go func() {
		lg.Info("Listening on", cfg.App.ListenAddr)
		if err := srv.Start(cfg.App.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("HTTP server failed:", err)
		}
	}()

	// Handle interrupt
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c

	lg.Info("Shutting down...")
	lg.Info("Press Ctrl+C again to force exit")
	go func() {
		<-c
		os.Exit(1)
	}()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("Error shutting down HTTP server:", err)
	}
	cancel()
}
