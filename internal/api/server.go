// Package api exposes the aggregated media views, session management
// and sync triggers over HTTP.
package api

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/showdeck/showdeck/internal/aggregator"
	"github.com/showdeck/showdeck/internal/auth"
	"github.com/showdeck/showdeck/internal/config"
	"github.com/showdeck/showdeck/internal/ratingsync"
)

// Server handles HTTP requests for the Showdeck API.
type Server struct {
	echo   *echo.Echo
	logger zerolog.Logger
	cfg    *config.Config

	aggregator *aggregator.Service
	auth       *auth.Service
	sync       *ratingsync.Service
}

// NewServer creates a new API server instance.
func NewServer(agg *aggregator.Service, authSvc *auth.Service, syncSvc *ratingsync.Service, cfg *config.Config, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:       e,
		logger:     logger.With().Str("component", "api").Logger(),
		cfg:        cfg,
		aggregator: agg,
		auth:       authSvc,
		sync:       syncSvc,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Echo exposes the underlying router for additional registrations.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogMethod:   true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				s.logger.Error().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Err(v.Error).
					Msg("request error")
			} else {
				s.logger.Info().
					Str("method", v.Method).
					Str("uri", v.URI).
					Int("status", v.Status).
					Dur("latency", v.Latency).
					Msg("request")
			}
			return nil
		},
	}))

	s.echo.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)

	api := s.echo.Group("/api/v1")

	shows := api.Group("/shows")
	shows.GET("/:id/card", s.getShowCard)
	shows.GET("/:id", s.getShowDetails)
	shows.GET("/:id/seasons/:season", s.getSeasonDetails)
	shows.GET("/:id/seasons/:season/episodes/:episode/card", s.getEpisodeCard)
	shows.GET("/:id/seasons/:season/episodes/:episode", s.getEpisodeDetails)

	movies := api.Group("/movies")
	movies.GET("/:id/card", s.getMovieCard)
	movies.GET("/:id", s.getMovieDetails)
	movies.GET("/:id/collection", s.getMovieCollection)

	authGroup := api.Group("/auth")
	authGroup.GET("/login", s.authLogin)
	authGroup.POST("/exchange", s.authExchange)
	authGroup.POST("/logout", s.authLogout)
	authGroup.GET("/status", s.authStatus)

	api.GET("/search", s.search)
	api.GET("/genres", s.getGenres)
	api.GET("/background", s.getAppBackground)

	api.POST("/sync/:section", s.triggerSync)
	api.DELETE("/cache", s.clearCache)
}

// RegisterStatic serves the embedded frontend assets under /static.
func (s *Server) RegisterStatic(staticFS fs.FS) {
	s.echo.StaticFS("/static", staticFS)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
