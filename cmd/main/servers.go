package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"sp500-dashboard/src/cache"
	"sp500-dashboard/src/config"
	"sp500-dashboard/src/grpc_control"
	"sp500-dashboard/src/interfaces"
	"sp500-dashboard/src/logger"
	"sp500-dashboard/src/models"
	"sp500-dashboard/src/utils"

	"google.golang.org/grpc"
)

// -----------------------------------------------------------------------------

// startServers orchestrates the startup of all server components
func startServers(
	srv interfaces.IDataExchanger,
	control *grpc_control.ControlService,
	config *config.Config,
	appLogger *logger.Logger,
) *grpc.Server {

	// 1. Dashboard HTTP + WebSocket server
	go func() {
		if err := srv.Start(); err != nil {
			appLogger.Critical("Server failed: %v", err)
		}
	}()

	// 2. gRPC Control Server
	if config.GrpcPort == 0 {
		appLogger.Info("gRPC control server disabled")
		return nil
	}

	lis, err := net.Listen("tcp", fmt.Sprintf("%s:%d", config.Host, config.GrpcPort))
	if err != nil {
		appLogger.Critical("failed to listen for gRPC: %v", err)
		return nil
	}
	grpcServer := grpc_control.NewServer(control)

	go func() {
		appLogger.Info("Starting gRPC Control Server on %s", lis.Addr())
		if err := grpcServer.Serve(lis); err != nil {
			appLogger.Error("gRPC server stopped: %v", err)
		}
	}()
	return grpcServer
}

// -----------------------------------------------------------------------------

// startRefresh schedules the periodic catalog reload
func startRefresh(config *models.MConfig, catalog *cache.CatalogCache, appLogger *logger.Logger) *utils.RefreshScheduler {
	if config.Catalog.RefreshCron == "" {
		return nil
	}

	timeout := time.Duration(config.Network.RequestTimeout*(config.Network.MaxRetries+1)) * time.Second * 2
	scheduler, err := utils.NewRefreshScheduler(config.Catalog.RefreshCron, timeout, func(ctx context.Context) error {
		_, err := catalog.Refresh(ctx)
		return err
	})
	if err != nil {
		appLogger.Error("Catalog refresh not scheduled: %v", err)
		return nil
	}

	scheduler.Start()
	appLogger.Info("Next catalog refresh at %s", scheduler.Next().Format(time.RFC3339))
	return scheduler
}
