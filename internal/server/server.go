// Package server
//
// @title Academia API
// @version 1.0
// @description Course enrollment platform API and web frontend
// @host localhost:8000
// @BasePath /
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/academia-dev/academia/internal/apiclient"
	"github.com/academia-dev/academia/internal/auth"
	"github.com/academia-dev/academia/internal/config"
	"github.com/academia-dev/academia/internal/models"
	"github.com/academia-dev/academia/internal/seed"
	"github.com/academia-dev/academia/internal/web"
)

// Server represents the HTTP server hosting the REST API and the
// server-rendered web frontend
type Server struct {
	router      *gin.Engine
	db          *gorm.DB
	config      *config.Config
	logger      zerolog.Logger
	validator   *validator.Validate
	asynqClient *asynq.Client
	tokenTTL    time.Duration
	version     string
}

// New creates a new server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	db, err := initDatabase(cfg, zlog)
	if err != nil {
		return nil, err
	}

	// Run database migrations
	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}

	// Seed roles (wire-contract IDs) and the starter catalog
	if err := seed.Apply(db, zlog); err != nil {
		return nil, err
	}

	// Load or create the singleton config row: the JWT secret is
	// auto-generated on first boot and persisted so tokens survive restarts
	appConfig, err := ensureAppConfig(db)
	if err != nil {
		return nil, err
	}
	auth.InitializeJWT(appConfig.JWTSecret)

	// Initialize Asynq client for enqueueing confirmation emails
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr: cfg.Redis.Address,
	})

	server := &Server{
		db:          db,
		config:      cfg,
		logger:      zlog,
		validator:   validator.New(),
		asynqClient: asynqClient,
		tokenTTL:    time.Duration(appConfig.TokenTTLMinutes) * time.Minute,
		version:     version,
	}

	server.setupRouter()

	return server, nil
}

// ensureAppConfig loads the config singleton, creating it with a fresh
// JWT secret when the database is new
func ensureAppConfig(db *gorm.DB) (*models.Config, error) {
	var appConfig models.Config
	err := db.First(&appConfig).Error
	if err == nil {
		return &appConfig, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	secretBytes := make([]byte, 32)
	if _, err := rand.Read(secretBytes); err != nil {
		return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
	}

	appConfig = models.Config{
		JWTSecret:       hex.EncodeToString(secretBytes),
		TokenTTLMinutes: 60,
	}
	if err := db.Create(&appConfig).Error; err != nil {
		return nil, fmt.Errorf("failed to create config: %w", err)
	}

	return &appConfig, nil
}

// initDatabase initializes the database connection with production settings
func initDatabase(cfg *config.Config, zlog zerolog.Logger) (*gorm.DB, error) {
	const (
		maxOpenConns    = 8
		maxIdleConns    = 4
		connMaxLifetime = 300 * time.Second
		busyTimeout     = 5000
		cacheSize       = 10000 // KB
	)

	db, err := gorm.Open(sqlite.Open(cfg.Database.URL), &gorm.Config{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			logger.Config{
				LogLevel:                  logger.Error,
				IgnoreRecordNotFoundError: true,
				SlowThreshold:             200 * time.Millisecond,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// WAL mode must be set first for optimal concurrency
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout=%d", busyTimeout),
		fmt.Sprintf("PRAGMA cache_size=-%d", cacheSize),
		"PRAGMA foreign_keys=1",
		"PRAGMA temp_store=2",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			zlog.Warn().Str("pragma", pragma).Err(err).Msg("Failed to apply pragma")
		}
	}

	return db, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// The browser client and the CLI may be served from anywhere
	s.router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	s.router.GET("/health", s.healthCheck)

	// Public auth endpoints
	authRoutes := s.router.Group("/auth")
	{
		authRoutes.POST("/login", s.login)
		authRoutes.POST("/register", s.register)
	}

	// Courses: reads are public (anonymous browsing of the catalog),
	// writes are restricted to supervisors and administrators
	cursos := s.router.Group("/cursos")
	{
		cursos.GET("", s.listCursos)
		cursos.GET("/:id", s.getCurso)
		cursos.GET("/:id/participantes", s.listParticipantes)

		manage := cursos.Group("")
		manage.Use(AuthRequired(s.db, s.logger), RoleRequired(s.logger, models.RoleSupervisor, models.RoleAdmin))
		{
			manage.POST("", s.createCurso)
			manage.PUT("/:id", s.updateCurso)
			manage.DELETE("/:id", s.deleteCurso)
			manage.PUT("/:id/estado", s.setCursoEstado)
		}
	}

	usuarios := s.router.Group("/usuarios")
	{
		usuarios.POST("", s.registrarUsuario)
		usuarios.POST("/admin", s.registrarAdmin)

		authed := usuarios.Group("")
		authed.Use(AuthRequired(s.db, s.logger))
		{
			authed.GET("/me", s.getMe)
			authed.PUT("/me", s.updateMe)
			authed.GET("/solo-usuarios", s.listUsuariosNormales)
			authed.GET("/mis-cursos", s.misCursos)
			authed.GET("/mis-inscripciones", s.misInscripciones)
			authed.POST("/inscribirse/:cursoId", s.inscribirse)
			authed.PUT("/cursos/:cursoId/completar", s.completarCurso)
			authed.DELETE("/cursos/:cursoId/inscripcion", s.cancelarInscripcion)

			super := authed.Group("")
			super.Use(RoleRequired(s.logger, models.RoleSupervisor))
			{
				super.GET("", s.listUsuarios)
				super.PUT("/:id", s.updateUsuario)
				super.PUT("/:id/rol", s.updateUsuarioRol)
			}
		}
	}

	// Server-rendered web frontend: talks to the API above over HTTP
	// with the visitor's bearer token, like the browser client it replaces
	webHandlers := web.New(apiclient.New(s.config.HTTP.APIBaseURL), s.logger)
	webHandlers.Register(s.router)
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

// @Router /health [get]
// @Success 200 {object} map[string]interface{}
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "academia-api",
	})
}

// GetDB returns the database connection for use by workers
func (s *Server) GetDB() *gorm.DB {
	return s.db
}

// Start starts the HTTP server
func (s *Server) Start() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              s.config.HTTP.ListenAddr,
		Handler:           s.router,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       300 * time.Second,
	}

	go func() {
		s.logger.Info().Str("addr", s.config.HTTP.ListenAddr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	<-sigChan
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	if err := s.asynqClient.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("Error closing Asynq client")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	// Close database connection to flush WAL writes
	if sqlDB, err := s.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Error closing database")
		}
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
