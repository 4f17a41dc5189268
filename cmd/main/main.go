package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"sp500-dashboard/src/config"
	"sp500-dashboard/src/grpc_control"
	"sp500-dashboard/src/logger"
	"sp500-dashboard/src/metrics"
	"sp500-dashboard/src/models"
	"sp500-dashboard/src/server"
)

func main() {
	// 1. Parse command line flags
	configPath := flag.String("config", "../../config/default.yaml", "path to config file")
	flag.Parse()

	// 2. Load config
	conf, err := config.NewConfig(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// 3. Setup Logger
	if err := logger.Configure(conf.Log); err != nil {
		fmt.Printf("Error configuring logger: %v\n", err)
		os.Exit(1)
	}
	appLogger := logger.NewLogger(conf.Name)
	setupMemoryLimit(appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 4. Setup Components
	m := metrics.NewMetrics()

	db, err := setupDatabase(conf.MConfig, appLogger)
	if err != nil {
		appLogger.Critical("Failed to init archive: %v", err)
	}

	networkManager := setupNetwork(conf.MConfig)
	store, catalog, err := setupCatalog(ctx, conf.MConfig, networkManager, m)
	if err != nil {
		appLogger.Critical("Failed to init catalog cache: %v", err)
	}

	svc := setupService(conf.MConfig, catalog, networkManager, db, m)

	srv := server.NewDashboardServer(conf.MConfig, svc, m, logger.NewLogger("DashboardServer"))
	control := grpc_control.NewControlService(svc, logger.NewLogger("ControlService"))

	// 5. Catalog loads feed health, open sessions and the archive
	catalog.OnLoad(func(ctx context.Context, c *models.MCatalog) {
		control.MarkServing(true)
		srv.PublishCatalog(c)
		if db != nil {
			if err := db.SaveCatalog(ctx, c); err != nil {
				appLogger.Warning("Archive catalog snapshot: %v", err)
			}
		}
	})

	// 6. Bootstrap (Initial Load)
	if loaded, err := catalog.Get(ctx); err != nil {
		appLogger.Warning("Initial catalog load failed, will retry on first request: %v", err)
	} else {
		control.MarkServing(true)
		appLogger.Info("Catalog ready: %d symbols", len(loaded.Symbols()))
	}

	// 7. Start Servers
	grpcServer := startServers(srv, control, conf, appLogger)
	scheduler := startRefresh(conf.MConfig, catalog, appLogger)

	// 8. Wait for shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down...")
	if scheduler != nil {
		scheduler.Stop()
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	if err := srv.Stop(); err != nil {
		appLogger.Error("Server shutdown: %v", err)
	}
	if err := store.Close(); err != nil {
		appLogger.Error("Cache shutdown: %v", err)
	}
	if db != nil {
		if err := db.Close(); err != nil {
			appLogger.Error("Archive shutdown: %v", err)
		}
	}
	appLogger.Info("Shutdown complete.")
}
