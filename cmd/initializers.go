package main

import (
	"fmt"
	"net/http"
	"time"

	"fitops/app/handler"
	"fitops/app/router"
	"fitops/internal/service"
	"fitops/pkg/config"
	"fitops/pkg/fleet"
	"fitops/pkg/logger"
	"fitops/pkg/serviceclient"
	mysqlstore "fitops/pkg/store/mysql"
	redisstore "fitops/pkg/store/redis"

	"github.com/gin-gonic/gin"
)

const (
	peerClientTimeout = 30 * time.Second
	authClientTimeout = 10 * time.Second
)

// initConfig initializes configuration
func (app *Application) initConfig() error {
	if err := config.Init(); err != nil {
		return err
	}
	app.config = config.GlobalConfig
	return nil
}

// initLogger initializes logging
func (app *Application) initLogger() error {
	if err := logger.Init(); err != nil {
		return err
	}
	app.registerCleanup(func() {
		logger.Sync()
	})
	return nil
}

// initMySQL initializes MySQL
func (app *Application) initMySQL() error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		app.config.MySQL.User,
		app.config.MySQL.Password,
		app.config.MySQL.Host,
		app.config.MySQL.Port,
		app.config.MySQL.Database,
	)

	repo, err := mysqlstore.NewRepository(dsn)
	if err != nil {
		return err
	}
	if err := repo.Migrate(); err != nil {
		return err
	}

	app.mysqlRepo = repo
	app.registerCleanup(func() {
		repo.Close()
		logger.InfoCtx(app.ctx, "MySQL connection has been closed")
	})

	return nil
}

// initRedis initializes Redis
func (app *Application) initRedis() error {
	client, err := redisstore.NewRedisClient(app.config)
	if err != nil {
		return err
	}

	app.redisClient = client
	app.registerCleanup(func() {
		client.Close()
		logger.InfoCtx(app.ctx, "Redis connection has been closed")
	})

	return nil
}

// initPeerClients builds one HTTP capability per registry entry. Every
// outbound exchange is recorded through the API log service.
func (app *Application) initPeerClients() error {
	app.apilogService = service.NewAPILogService(app.mysqlRepo.APILog)

	app.peerClients = make(map[string]*serviceclient.Client, len(app.config.Registry))
	for _, entry := range app.config.Registry {
		app.peerClients[entry.Name] = serviceclient.New(entry.Name, entry.URL, peerClientTimeout, app.apilogService)
		if entry.URL == "" {
			logger.Warnf("service %s has no configured URL", entry.Name)
		}
	}

	return nil
}

// initServices initializes service layer
func (app *Application) initServices() error {
	app.auditService = service.NewAuditService(app.mysqlRepo.AuditLog)
	app.metricsService = service.NewMetricsService(app.mysqlRepo.APILog)

	prober := fleet.NewProber(time.Duration(app.config.Fleet.ProbeTimeoutSec) * time.Second)
	monitor := fleet.NewMonitor(prober)
	healthCache := redisstore.NewHealthCache(
		app.redisClient.GetClient(),
		time.Duration(app.config.Fleet.SnapshotCacheSec)*time.Second,
	)
	app.healthService = service.NewHealthService(
		monitor,
		prober,
		healthCache,
		app.config.Registry,
		time.Duration(app.config.Fleet.ModelProbeTimeout)*time.Second,
	)

	app.reportService = service.NewReportService(
		app.metricsService,
		app.healthService,
		app.mysqlRepo.APILog,
		app.mysqlRepo.Report,
		app.config.Fleet.ReportExpiryDays,
	)
	app.settingsService = service.NewSettingsService(app.mysqlRepo.Setting, app.auditService)

	app.analyticsService = service.NewAnalyticsService(
		service.Peers{
			Auth:       app.peerClients["fitneaseauth"],
			Tracking:   app.peerClients["fitneasetracking"],
			Engagement: app.peerClients["fitneaseengagement"],
			ML:         app.peerClients["fitneaseml"],
		},
		app.metricsService,
		app.mysqlRepo.APILog,
		app.reportService,
		service.NewRecommendationEngine(),
	)

	return nil
}

// initHandlers initializes handler layer
func (app *Application) initHandlers() error {
	app.auditlogHandler = handler.NewAuditLogHandler(app.auditService)
	app.apilogHandler = handler.NewAPILogHandler(app.apilogService, app.metricsService)
	app.healthHandler = handler.NewHealthHandler(app.healthService, app.metricsService, app.apilogService)
	app.reportHandler = handler.NewReportHandler(app.reportService)
	app.analyticsHandler = handler.NewAnalyticsHandler(app.analyticsService)
	app.settingsHandler = handler.NewSettingsHandler(app.settingsService)
	return nil
}

// initHTTPServer initializes HTTP server
func (app *Application) initHTTPServer() error {
	if app.config.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	app.ginEngine = gin.New()

	// Token validation runs against the auth service with its own timeout
	authURL, _ := app.config.ServiceURL("fitneaseauth")
	authClient := serviceclient.New("fitneaseauth", authURL, authClientTimeout, app.apilogService)

	r := router.NewRouter(
		app.auditlogHandler,
		app.apilogHandler,
		app.healthHandler,
		app.reportHandler,
		app.analyticsHandler,
		app.settingsHandler,
		authClient,
	)
	r.Setup(app.ginEngine)

	app.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.config.Server.Port),
		Handler: app.ginEngine,
	}

	return nil
}
