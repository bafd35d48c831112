package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tessera/internal/auth"
	"tessera/internal/canvas"
	"tessera/internal/config"
	"tessera/internal/elementtypes"
	"tessera/internal/handler"
	"tessera/internal/middleware"
	"tessera/internal/realtime"
	"tessera/internal/repository/postgres"
	postgresCanvas "tessera/internal/repository/postgres/canvas"
	serviceCanvas "tessera/internal/service/canvas"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		f, err := config.SetupLogFile(cfg.LogDir, config.MaxLogFiles)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logOut = io.MultiWriter(os.Stdout, f)
	}
	logger := config.NewLogger(logOut, cfg.Debug)
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	settings, err := canvas.LoadSettings(cfg.CanvasSettingsPath)
	if err != nil {
		log.Fatalf("Failed to load canvas settings: %v", err)
	}

	// Without a JWKS every request runs as the dev user
	var verifier auth.JWTVerifier
	if cfg.JWKSURL != "" {
		verifier, err = auth.NewJWTVerifier(cfg.JWKSURL, logger)
		if err != nil {
			log.Fatalf("Failed to create JWT verifier: %v", err)
		}
		defer verifier.Close()
	} else if cfg.Environment == "prod" {
		log.Fatal("AUTH_JWKS_URL is required in prod")
	} else {
		logger.Warn("authentication disabled, all requests use the dev user", "user_id", cfg.DevUserID)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: postgres.NewTableNames(cfg.TablePrefix),
		Logger: logger,
	}
	workspaceRepo := postgresCanvas.NewWorkspaceRepository(repoConfig)
	elementRepo := postgresCanvas.NewElementRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	registry, err := elementtypes.NewRegistry()
	if err != nil {
		log.Fatalf("Failed to load element types: %v", err)
	}

	hubConfig := realtime.DefaultConfig()
	hubConfig.AllowedOrigins = cfg.AllowedOrigins()
	hub := realtime.NewHub(hubConfig, logger)
	defer hub.Close()

	workspaceService := serviceCanvas.NewWorkspaceService(workspaceRepo, logger)
	elementService := serviceCanvas.NewElementService(elementRepo, workspaceRepo, txManager, registry, settings, hub, logger)
	postViewService := serviceCanvas.NewPostViewService(elementRepo, workspaceRepo, logger)

	logger.Info("services initialized")

	api := http.NewServeMux()
	handler.RegisterRoutes(api, handler.Handlers{
		Workspaces: handler.NewWorkspaceHandler(workspaceService, logger),
		Elements:   handler.NewElementHandler(elementService, logger),
		PostView:   handler.NewPostViewHandler(postViewService, logger),
		Collab:     handler.NewCollabHandler(workspaceService, hub, logger),
	})

	// Order: CORS → Recovery → RequestLogger → (health | Auth → ClientID → API)
	var apiHandler http.Handler = middleware.ClientID(api)
	apiHandler = middleware.Auth(verifier, cfg.DevUserID, logger)(apiHandler)

	root := http.NewServeMux()
	root.Handle("GET /health", handler.Health(pool))
	root.Handle("/", apiHandler)

	var h http.Handler = root
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	// CORS - must be outermost to answer OPTIONS pre-flight requests
	h = cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins(),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.ClientIDHeader},
		AllowCredentials: true,
	}).Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		// Hijacked websocket connections are not tracked by Shutdown
		hub.Close()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
}
