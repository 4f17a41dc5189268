package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"sp500-dashboard/src/dashboard"
	"sp500-dashboard/src/helpers"
	"sp500-dashboard/src/logger"
	"sp500-dashboard/src/metrics"
	"sp500-dashboard/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// DashboardServer
// -----------------------------------------------------------------------------

type DashboardServer struct {
	Config  *models.MConfig
	Logger  *logger.Logger
	Service *dashboard.Service
	Metrics *metrics.Metrics

	engine     *gin.Engine
	httpServer *http.Server
	page       *template.Template
	errors     *helpers.ErrorHandler

	// WebSocket clients, owned by the hub goroutine
	clients     map[*Client]struct{}
	connections atomic.Int32
	broadcast   chan interface{}
	register    chan *Client
	unregister  chan *Client
	quit        chan struct{}
	stopOnce    sync.Once
	lastUpdate  atomic.Int64

	// Connection timings, overridable before the first client connects
	pongWait       time.Duration
	pingPeriod     time.Duration
	commandTimeout time.Duration

	stateMutex sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewDashboardServer(cfg *models.MConfig, svc *dashboard.Service, m *metrics.Metrics, log *logger.Logger) *DashboardServer {
	// Set Gin mode
	if !strings.EqualFold(cfg.Log.Level, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	if log == nil {
		log = logger.NewLogger("DashboardServer")
	}

	s := &DashboardServer{
		Config:  cfg,
		Logger:  log,
		Service: svc,
		Metrics: m,
		engine:  gin.New(),
		page:    template.Must(template.New("dashboard").Funcs(pageFuncs).Parse(dashboardPage)),
		errors:  helpers.NewErrorHandler(),
		clients: make(map[*Client]struct{}),
		// Buffered so a refresh never waits on the hub
		broadcast:  make(chan interface{}, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),

		pongWait:       pongWait,
		pingPeriod:     pingPeriod,
		commandTimeout: commandTimeout,
	}

	s.engine.Use(gin.Recovery(), m.Middleware())

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *DashboardServer) setupRoutes() {
	s.engine.GET("/", s.getIndex)

	api := s.engine.Group("/api")
	api.GET("/health", s.getHealth)
	api.GET("/config", s.getConfig)
	api.GET("/symbols", s.getSymbols)
	api.GET("/windows", s.getWindows)
	api.GET("/company/:symbol", s.getCompany)
	api.GET("/summary/:symbol", s.getSummary)
	api.GET("/chart/:symbol", s.getChart)
	api.GET("/view/:symbol", s.getView)
	api.GET("/download/:symbol", s.getDownload)
	api.POST("/catalog/refresh", s.postCatalogRefresh)

	s.engine.GET("/metrics", gin.WrapH(s.Metrics.Handler()))

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------

// Handler exposes the router, mainly for httptest.
func (s *DashboardServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *DashboardServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.handleWebsockets()

	s.stateMutex.Lock()
	s.httpServer = &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	srv := s.httpServer
	s.stateMutex.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) Stop() error {
	s.stopOnce.Do(func() { close(s.quit) })

	s.stateMutex.RLock()
	srv := s.httpServer
	s.stateMutex.RUnlock()
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// -----------------------------------------------------------------------------
// Error responses
// -----------------------------------------------------------------------------

func errorMessage(err error) models.MErrorMessage {
	return models.MErrorMessage{
		Type:  "ERROR",
		Error: models.MErrorDetail{Kind: helpers.Kind(err), Message: err.Error()},
	}
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) respondError(c *gin.Context, err error) {
	s.errors.Handle(err, c.Request.Method+" "+c.Request.URL.Path)
	c.JSON(helpers.StatusFor(err), errorMessage(err))
}
