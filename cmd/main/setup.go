package main

import (
	"context"
	"runtime/debug"
	"time"

	"sp500-dashboard/src/analysis"
	"sp500-dashboard/src/cache"
	"sp500-dashboard/src/dashboard"
	"sp500-dashboard/src/data_source/wikipedia"
	"sp500-dashboard/src/data_source/yahoo"
	"sp500-dashboard/src/helpers"
	"sp500-dashboard/src/interfaces"
	"sp500-dashboard/src/logger"
	"sp500-dashboard/src/metrics"
	"sp500-dashboard/src/models"
	"sp500-dashboard/src/network"
	"sp500-dashboard/src/storage"
	"sp500-dashboard/src/utils"
)

// -----------------------------------------------------------------------------

// setupMemoryLimit applies a soft GC limit sized to the host
func setupMemoryLimit(appLogger *logger.Logger) {
	limitMB, probed := helpers.GetRecommendedMemoryLimit()
	if !probed {
		appLogger.Warning("Could not determine system memory. Defaulting to %d MB.", limitMB)
	}
	debug.SetMemoryLimit(int64(limitMB) << 20)
	appLogger.Info("Memory Limit set to: %d MB", limitMB)
}

// -----------------------------------------------------------------------------

// setupDatabase opens the selection archive when storage is enabled
func setupDatabase(config *models.MConfig, appLogger *logger.Logger) (interfaces.IDatabase, error) {
	if !config.Storage.Enabled {
		appLogger.Info("Selection archive disabled")
		return nil, nil
	}

	db, err := storage.Open(config)
	if err != nil {
		return nil, err
	}
	appLogger.Info("Selection archive ready (%s)", config.Storage.DBType)
	return db, nil
}

// -----------------------------------------------------------------------------

// setupNetwork initializes the network manager
func setupNetwork(config *models.MConfig) interfaces.INetworkManager {
	return network.NewAsyncNetworkManager(config, logger.NewLogger("NetworkManager"))
}

// -----------------------------------------------------------------------------

// setupCatalog wires the Wikipedia source behind the configured cache store
func setupCatalog(ctx context.Context, config *models.MConfig, nm interfaces.INetworkManager, m *metrics.Metrics) (interfaces.ICacheStore, *cache.CatalogCache, error) {
	store, err := cache.NewStore(ctx, config.Catalog.Cache)
	if err != nil {
		return nil, nil, err
	}

	source := wikipedia.NewWikipediaSource(config.Catalog.URL, nm, m)
	ttl := time.Duration(config.Catalog.TTLMinutes) * time.Minute
	return store, cache.NewCatalogCache(store, source, ttl, m), nil
}

// -----------------------------------------------------------------------------

// setupService assembles the shared dashboard service
func setupService(config *models.MConfig, catalog *cache.CatalogCache, nm interfaces.INetworkManager, db interfaces.IDatabase, m *metrics.Metrics) *dashboard.Service {
	window, err := models.ParseWindow(config.DefaultWindow)
	if err != nil {
		window = models.DefaultWindow()
	}

	svc := dashboard.NewService(catalog, yahoo.NewYahooFinanceSource(config, nm, m), window)
	svc.Analyzer = analysis.NewAnalysisFacade(logger.NewLogger("Analysis"))
	svc.Archive = db
	svc.Market = utils.NewMarketScheduler(logger.NewLogger("MarketScheduler"))
	return svc
}
