// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"sn-inventory-api/config"
	"sn-inventory-api/db"
	"sn-inventory-api/handler"
	"sn-inventory-api/logger"
	"sn-inventory-api/repository"
	"sn-inventory-api/router"
	"sn-inventory-api/service"
	"sn-inventory-api/token"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

func newSigner() (*token.Signer, error) {
	jwtCfg := config.AppConfig.JWT
	return token.NewSigner(jwtCfg.AccessSecret, jwtCfg.RefreshSecret, jwtCfg.AccessTTL, jwtCfg.RefreshTTL)
}

func buildRouter(database *sql.DB, redisClient *redis.Client, signer *token.Signer) http.Handler {
	// --- Wiring All Layers Together ---
	// Repositories, services and handlers are constructed here and injected
	// downward; nothing below this point reaches for globals.
	refreshStore := repository.NewRedisRefreshStore(redisClient)

	userRepo := repository.NewUserRepository(database)
	authService := service.NewAuthService(userRepo, refreshStore, signer)
	authHandler := handler.NewAuthHandler(authService)

	serverRepo := repository.NewServerRepository(database)
	serverService := service.NewServerService(serverRepo, redisClient)
	serverHandler := handler.NewServerHandler(serverService)

	userHandler := handler.NewUserHandler(userRepo)

	return router.NewRouter(authHandler, serverHandler, userHandler, signer)
}

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations("file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	signer, err := newSigner()
	if err != nil {
		logger.Log.Fatalf("Error configuring token signer: %v", err)
	}

	r := buildRouter(database, redisClient, signer)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// TestApp exposes the wired application for integration tests.
type TestApp struct {
	DB     *sql.DB
	Router http.Handler
	Signer *token.Signer
}

// NewTestApp wires the full stack against the given connections. Config and
// logger must already be initialized by the caller.
func NewTestApp(database *sql.DB, redisClient *redis.Client) *TestApp {
	signer, err := newSigner()
	if err != nil {
		logger.Log.Fatalf("Error configuring token signer: %v", err)
	}
	return &TestApp{
		DB:     database,
		Router: buildRouter(database, redisClient, signer),
		Signer: signer,
	}
}
