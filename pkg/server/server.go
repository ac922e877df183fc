package server

import (
	"context"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"peak/pkg/studio"
)

type Server struct {
	Echo    *echo.Echo
	Studio  *studio.Studio
	Metrics *Metrics
	Ctx     context.Context

	// seed picks the seed handed out with exports.
	seed func() int64
}

func NewServer(ctx context.Context, st *studio.Studio, m *Metrics) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	if m == nil {
		m = NewMetrics()
	}
	m.TrackHistory(st)

	s := &Server{
		Echo:    e,
		Studio:  st,
		Metrics: m,
		Ctx:     ctx,
		seed:    func() int64 { return rand.Int64N(1 << 32) },
	}

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)
	s.Echo.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))

	api := s.Echo.Group("/api")
	api.GET("/state", s.handleGetState)

	api.POST("/generate", s.handlePostGenerate)
	api.POST("/generate/stream", s.handlePostGenerateStream)

	api.GET("/scripts", s.handleGetScripts)
	api.GET("/scripts/:id", s.handleGetScript)
	api.POST("/scripts/:id/select", s.handlePostSelect)
	api.GET("/scripts/:id/export", s.handleGetExport)
	api.GET("/scripts/:id/continuity", s.handleGetContinuity)
	api.GET("/scripts/:id/scenes/:number/:field", s.handleGetSceneField)
	api.DELETE("/current", s.handleDeleteCurrent)

	api.GET("/config", s.handleGetConfig)
	api.PUT("/config", s.handlePutConfig)
	api.POST("/config/save", s.handlePostSaveConfig)
}

func (s *Server) Start(addr string) error {
	log.Info("server listening", "addr", addr)
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("shutting down server")
	return s.Echo.Shutdown(ctx)
}
