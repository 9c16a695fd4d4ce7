package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/aleister1102/futwatch/internal/config"
	"github.com/aleister1102/futwatch/internal/datastore"
	"github.com/aleister1102/futwatch/internal/feed"
	"github.com/aleister1102/futwatch/internal/fetcher"
	"github.com/aleister1102/futwatch/internal/logger"
	"github.com/aleister1102/futwatch/internal/monitor"
	"github.com/aleister1102/futwatch/internal/notifier"
	"github.com/aleister1102/futwatch/internal/scheduler"
	"github.com/aleister1102/futwatch/internal/server"
)

func main() {
	configFile := flag.String("config", "", "Path to the YAML/JSON configuration file. If not set, searches default locations.")
	configFileAlias := flag.String("c", "", "Alias for -config")
	oneShot := flag.Bool("once", false, "Run a single detection cycle and exit instead of polling.")
	flag.Parse()

	if *configFile == "" && *configFileAlias != "" {
		*configFile = *configFileAlias
	}

	gCfg, err := config.LoadGlobalConfig(*configFile)
	if err != nil {
		log.Fatalf("[FATAL] Could not load config using path '%s': %v", *configFile, err)
	}
	if err := config.ValidateConfig(gCfg); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	zLogger, err := logger.New(gCfg.LogConfig)
	if err != nil {
		log.Fatalf("[FATAL] Could not initialize logger: %v", err)
	}
	zLogger.Info().Int("targets", len(gCfg.Targets)).Msg("Configuration loaded")

	// Storage collaborators share the data directory.
	targetFetcher, err := fetcher.NewFetcher(gCfg.MonitorConfig, filepath.Join(gCfg.StorageConfig.DataDir, "meta"), zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize fetcher")
	}
	snapshots, err := datastore.NewSnapshotStore(filepath.Join(gCfg.StorageConfig.DataDir, "snapshots"), gCfg.MonitorConfig.SnapshotRetention, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize snapshot store")
	}
	eventStore, err := datastore.NewEventStore(gCfg.StorageConfig.DatabasePath, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize event store")
	}
	defer func() {
		if err := eventStore.Close(); err != nil {
			zLogger.Warn().Err(err).Msg("Failed to close event store")
		}
	}()

	eventFeed := feed.NewFeed(gCfg.MonitorConfig.FeedCapacity)

	service, err := monitor.NewServiceBuilder(zLogger).
		WithTargets(gCfg.Targets).
		WithFetcher(targetFetcher).
		WithSnapshotStore(snapshots).
		WithEventStore(eventStore).
		WithFeed(eventFeed).
		WithProcessor(monitor.NewProcessor(gCfg.MonitorConfig, zLogger)).
		WithNotifier(notifier.NewDiscordNotifier(gCfg.NotificationConfig, zLogger)).
		Build()
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to build monitor service")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		zLogger.Info().Str("signal", sig.String()).Msg("Received interrupt signal, shutting down")
		cancel()
	}()

	if *oneShot {
		service.RunCycle(ctx)
		zLogger.Info().Msg("Single cycle complete")
		return
	}

	pollScheduler, err := scheduler.NewScheduler(gCfg.MonitorConfig, service, zLogger)
	if err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	if err := pollScheduler.Start(ctx); err != nil {
		zLogger.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	apiServer := server.NewServer(gCfg.ServerConfig.ListenAddress, eventFeed, pollScheduler, zLogger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := apiServer.Start(ctx); err != nil {
			zLogger.Error().Err(err).Msg("API server failed")
			cancel()
		}
	}()

	pollScheduler.Wait()
	wg.Wait()
	zLogger.Info().Msg("Shutdown complete")
}
