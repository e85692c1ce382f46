package main

import (
	"fmt"
	"time"

	"market-analyzer/src/analysis"
	"market-analyzer/src/auth"
	"market-analyzer/src/chart"
	"market-analyzer/src/config"
	datasource "market-analyzer/src/data_source"
	"market-analyzer/src/helpers"
	"market-analyzer/src/interfaces"
	"market-analyzer/src/logger"
	"market-analyzer/src/models"
	"market-analyzer/src/network"
	"market-analyzer/src/storage"
	"market-analyzer/src/utils"
)

// App holds the wired components shared by the commands.
type App struct {
	Config    *config.Config
	Logger    *logger.Logger
	Users     interfaces.IUserStore
	Auth      *auth.Service
	Sessions  *auth.SessionStore
	Network   *network.NetworkManager
	Sources   *datasource.MultiSourceManager
	Cache     *datasource.CachedSource
	Scheduler *utils.MarketScheduler
	Analysis  *analysis.AnalysisFacade
}

// -----------------------------------------------------------------------------

// setupDatabase initializes the user store based on config
func setupDatabase(config *models.MConfig, appLogger *logger.Logger) (interfaces.IUserStore, error) {
	db, err := storage.NewUserStore(config, appLogger)
	if err != nil {
		return nil, err
	}
	if err := db.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}
	return db, nil
}

// -----------------------------------------------------------------------------

// setupNetwork initializes the network manager
func setupNetwork(config *models.MConfig, appLogger *logger.Logger) *network.NetworkManager {
	return network.NewNetworkManager(config.Network, appLogger.Named("NetworkManager"))
}

// -----------------------------------------------------------------------------

// setupDataSources builds the provider chain and wraps it in the TTL cache
func setupDataSources(config *models.MConfig, appLogger *logger.Logger, netMgr interfaces.INetworkManager) (*datasource.MultiSourceManager, *datasource.CachedSource, error) {
	appLogger.Info("Initializing %d data sources...", len(config.DataSource.Sources))

	chain, err := datasource.NewSourceChain(config.DataSource.Sources, netMgr, appLogger)
	if err != nil {
		return nil, nil, err
	}

	ttl := time.Duration(config.DataSource.CacheTTLSeconds) * time.Second
	cache := datasource.NewCachedSource(chain, ttl, appLogger.Named("DataCache"))
	cache.MaxEntries = config.DataSource.CacheMaxEntries
	if cache.MaxEntries == 0 {
		cache.MaxEntries = helpers.RecommendedCacheEntries(helpers.GetTotalSystemMemoryMB())
	}
	appLogger.Info("Data cache: ttl %v, capacity %d entries", ttl, cache.MaxEntries)
	return chain, cache, nil
}

// -----------------------------------------------------------------------------

// setupApp wires every component the commands need. withUsers controls
// whether the user store is opened.
func setupApp(configPath string, withUsers bool) (*App, error) {
	conf, err := config.NewConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	appLogger := logger.NewLogger(conf.LogLevel, conf.Name)
	app := &App{Config: conf, Logger: appLogger}

	if withUsers {
		if app.Users, err = setupDatabase(conf.MConfig, appLogger); err != nil {
			return nil, err
		}
		app.Auth = auth.NewService(app.Users, conf.Auth.BcryptCost, appLogger.Named("Auth"))
		app.Sessions = auth.NewSessionStore(time.Duration(conf.Auth.SessionTTLMinutes)*time.Minute, conf.Auth.SessionSecret)
	}

	app.Network = setupNetwork(conf.MConfig, appLogger)
	if app.Sources, app.Cache, err = setupDataSources(conf.MConfig, appLogger, app.Network); err != nil {
		return nil, err
	}

	app.Scheduler = utils.NewMarketScheduler(appLogger.Named("MarketScheduler"))
	app.Analysis = analysis.NewAnalysisFacade(conf.MConfig, app.Cache, chart.NewComposer(), app.Scheduler, appLogger.Named("Analysis"))
	return app, nil
}

// -----------------------------------------------------------------------------

func (a *App) Close() {
	if a.Users != nil {
		if err := a.Users.Close(); err != nil {
			a.Logger.Error("Failed to close user store: %v", err)
		}
	}
}
