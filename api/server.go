package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/moyoez/trng-go/api/controllers"
	"github.com/moyoez/trng-go/api/middlewares"
	"github.com/moyoez/trng-go/api/models"
	"github.com/moyoez/trng-go/api/notifyhub"
	"github.com/moyoez/trng-go/notify"
	"github.com/moyoez/trng-go/tool"
	"github.com/moyoez/trng-go/types"
)

// Server is the local HTTP API a presentation layer drives the device through.
type Server struct {
	port   int
	cfg    types.AppConfig
	hub    *notifyhub.Hub
	engine *gin.Engine
	server *http.Server
	mu     sync.RWMutex
}

// NewServer wires client into the handlers. A websocket hub is attached when the config asks for one.
func NewServer(cfg types.AppConfig, client models.DeviceClient) *Server {
	s := &Server{
		port: cfg.ListenPort,
		cfg:  cfg,
	}
	models.SetDeviceClient(client, cfg)
	models.SetResultTTL(time.Duration(cfg.ResultTTLSec) * time.Second)
	if cfg.NotifyUsingWebsocket {
		s.hub = notifyhub.New()
		notify.SetHub(s.hub)
	}
	return s
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()

	v1 := engine.Group("/api/trng/v1", middlewares.OnlyAllowLocal)
	{
		v1.POST("/generate", middlewares.RateLimit(s.cfg.GenerateRatePerMinute), controllers.HandleGenerate) // fetch, decrypt and derive a password
		v1.DELETE("/result/:id", controllers.HandleForgetResult)                                                // drop a cached result early
		v1.POST("/command/:name", controllers.HandleCommand)                                                    // up | down | select, best-effort
		v1.GET("/qrcode/:id", controllers.HandleQRCode)                                                         // QR PNG of a cached result
		v1.GET("/status", controllers.HandleStatus)
		v1.GET("/ping", controllers.HandlePing)
		if s.hub != nil {
			v1.GET("/notify-ws", notifyhub.HandleNotifyWS(s.hub))
		}
	}
	return engine
}

// Handler builds the routes without starting a listener.
func (s *Server) Handler() http.Handler {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		s.engine = s.setupRoutes()
	}
	return s.engine
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	handler := s.Handler()

	s.mu.Lock()
	s.server = &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	srv := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting API server on http://%s (device %s)", srv.Addr, s.cfg.DeviceAddress)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
