// Package server is the composition root: it opens the database, builds the
// services and handlers, mounts the routes, and runs the HTTP server with
// graceful shutdown.
//
// DEPENDENCY FLOW:
//
//	config.Config
//	  → sqlite.DB (implements every repository interface)
//	  → auth.TokenService, auth.PasswordService
//	  → music.Catalog (proxy or Spotify)
//	  → services → handlers → chi routes
//
// Handlers never touch the database and services never touch HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/songbook/internal/auth"
	"github.com/sakif/songbook/internal/config"
	"github.com/sakif/songbook/internal/handler"
	"github.com/sakif/songbook/internal/middleware"
	"github.com/sakif/songbook/internal/music"
	sqliteRepo "github.com/sakif/songbook/internal/repository/sqlite"
	"github.com/sakif/songbook/internal/service"
)

// Server owns the router and the database connection. The connection is
// closed when Start returns.
type Server struct {
	router  *chi.Mux
	config  *config.Config
	logger  *slog.Logger
	db      *sqliteRepo.DB
	metrics *middleware.Metrics
	version string
}

// New wires every dependency from cfg. The caller is expected to have run
// cfg.Validate.
func New(cfg *config.Config, logger *slog.Logger, version string) (*Server, error) {
	db, err := sqliteRepo.New(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		db:      db,
		metrics: middleware.NewMetrics("songbook"),
		version: version,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// newCatalog picks the music backend named by MUSIC_PROVIDER.
func newCatalog(cfg config.Music, logger *slog.Logger) (music.Catalog, error) {
	transport := music.DefaultTransportConfig("music-" + cfg.Provider)
	transport.RatePerSecond = cfg.RatePerSecond

	switch cfg.Provider {
	case config.ProviderSpotify:
		return music.NewSpotifyClient(context.Background(), music.SpotifyConfig{
			ClientID:      cfg.Spotify.ClientID,
			ClientSecret:  cfg.Spotify.ClientSecret,
			TopPlaylistID: cfg.Spotify.TopPlaylistID,
			Market:        cfg.Spotify.Market,
			Timeout:       cfg.Timeout,
			Transport:     transport,
		}, logger)
	case config.ProviderProxy:
		httpClient := &http.Client{
			Timeout:   cfg.Timeout,
			Transport: music.NewTransport(nil, transport, logger),
		}
		return music.NewProxyClient(cfg.ProxyURL, httpClient, logger)
	default:
		return nil, fmt.Errorf("unknown music provider %q", cfg.Provider)
	}
}

// setupRoutes mounts every route.
//
// ROUTES:
//
//	GET    /healthz
//	GET    /metrics
//	POST   /auth/register | /auth/login | /auth/logout
//	GET    /api/music/top-tracks | /api/music/new-releases
//	GET    /api/categories/defaults
//
//	(authenticated)
//	GET    /api/me
//	GET    /api/me/info              PUT /api/me/info
//	GET    /api/categories           POST /api/categories
//	POST   /api/categories/defaults
//	PUT    /api/categories/{id}      DELETE /api/categories/{id}
//	GET    /api/categories/{id}/songs
//	GET    /api/songs                POST /api/songs
//	PATCH  /api/songs/{id}           DELETE /api/songs/{id}
//	GET    /api/songs/{id}/details   PUT /api/songs/{id}/details
//	GET    /api/playlists            POST /api/playlists
//	PUT    /api/playlists/{id}       DELETE /api/playlists/{id}
//	GET    /api/playlists/{id}/songs
//
// MIDDLEWARE ORDER:
// RequestID first so the logger can print it, Recoverer inside the logger
// so a panic is still logged as a 500.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(s.metrics.Middleware)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: !allowsAnyOrigin(s.config.CORSAllowedOrigins),
		MaxAge:           300,
	}))

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService(s.config.BcryptCost)

	catalog, err := newCatalog(s.config.Music, s.logger)
	if err != nil {
		return fmt.Errorf("creating music catalog: %w", err)
	}

	// s.db implements every repository interface.
	userService := service.NewUserService(s.db, tokens, passwords, s.logger)
	categoryService := service.NewCategoryService(s.db, s.db, s.logger)
	songService := service.NewSongService(s.db, s.db, s.db, s.db, s.logger)
	playlistService := service.NewPlaylistService(s.db, s.logger)
	userInfoService := service.NewUserInfoService(s.db, s.logger)
	musicService := service.NewMusicService(catalog, s.logger)

	authHandler := handler.NewAuthHandler(userService, s.config.SecureCookies, s.logger)
	categoryHandler := handler.NewCategoryHandler(categoryService, s.logger)
	songHandler := handler.NewSongHandler(songService, categoryService, s.logger)
	playlistHandler := handler.NewPlaylistHandler(playlistService, songService, s.logger)
	userInfoHandler := handler.NewUserInfoHandler(userInfoService, s.logger)
	musicHandler := handler.NewMusicHandler(musicService, s.logger)
	healthHandler := handler.NewHealthHandler(s.db, s.version, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)
	s.router.Handle("/metrics", s.metrics.Handler())

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/music/top-tracks", musicHandler.HandleTopTracks)
		r.Get("/music/new-releases", musicHandler.HandleNewReleases)
		r.Get("/categories/defaults", categoryHandler.HandleDefaults)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", authHandler.HandleMe)
			r.Get("/me/info", userInfoHandler.HandleGet)
			r.Put("/me/info", userInfoHandler.HandlePut)

			r.Get("/categories", categoryHandler.HandleList)
			r.Post("/categories", categoryHandler.HandleCreate)
			r.Post("/categories/defaults", categoryHandler.HandleSeedDefaults)
			r.Put("/categories/{id}", categoryHandler.HandleUpdate)
			r.Delete("/categories/{id}", categoryHandler.HandleDelete)
			r.Get("/categories/{id}/songs", categoryHandler.HandleListSongs)

			r.Get("/songs", songHandler.HandleList)
			r.Post("/songs", songHandler.HandleCreate)
			r.Patch("/songs/{id}", songHandler.HandlePatch)
			r.Delete("/songs/{id}", songHandler.HandleDelete)
			r.Get("/songs/{id}/details", songHandler.HandleGetDetails)
			r.Put("/songs/{id}/details", songHandler.HandlePutDetails)

			r.Get("/playlists", playlistHandler.HandleList)
			r.Post("/playlists", playlistHandler.HandleCreate)
			r.Put("/playlists/{id}", playlistHandler.HandleUpdate)
			r.Delete("/playlists/{id}", playlistHandler.HandleDelete)
			r.Get("/playlists/{id}/songs", playlistHandler.HandleListSongs)
		})
	})

	return nil
}

// allowsAnyOrigin reports a "*" entry. Browsers refuse credentials with a
// wildcard origin, so cookies are only allowed for explicit origins.
func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

// ServeHTTP lets tests drive the full router without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases the database. Start calls it on return.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests for up
// to ShutdownTimeout and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.Database.Path),
			slog.String("musicProvider", s.config.Music.Provider),
			slog.String("version", s.version),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
