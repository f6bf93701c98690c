package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/taskmanager/internal/auth"
	"github.com/mrlokans/taskmanager/internal/config"
	"github.com/mrlokans/taskmanager/internal/database"
	"github.com/mrlokans/taskmanager/internal/database/tasks"
	"github.com/mrlokans/taskmanager/internal/database/users"
	http_controllers "github.com/mrlokans/taskmanager/internal/http"
	"github.com/mrlokans/taskmanager/internal/jobs"
	"github.com/mrlokans/taskmanager/internal/scheduler"
)

// hstsMaxAge is one year; the header is only sent over HTTPS.
const hstsMaxAge = 31536000

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		// service connections
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the job queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// tokenSecret returns the configured signing secret or generates a random one.
func tokenSecret(cfg config.Auth) ([]byte, error) {
	if cfg.TokenSecret != "" {
		return []byte(cfg.TokenSecret), nil
	}

	secret, err := auth.GenerateSecret()
	if err != nil {
		return nil, err
	}
	log.Printf("WARNING: AUTH_TOKEN_SECRET is not set. Generated a random secret; tokens will not survive a restart.")
	return []byte(secret), nil
}

// newDenylist picks the revocation store. The returned checker is non-nil
// only for the Redis store, which is the one worth health-checking.
func newDenylist(cfg config.Revocation) (auth.Denylist, *auth.RedisDenylist, error) {
	if cfg.RedisURL == "" {
		log.Printf("Token revocation: in-memory denylist")
		return auth.NewMemoryDenylist(), nil, nil
	}

	redisDenylist, err := auth.NewRedisDenylist(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisDenylist.Ping(ctx); err != nil {
		log.Printf("WARNING: Redis denylist is unreachable: %v", err)
	} else {
		log.Printf("Token revocation: Redis denylist")
	}
	return redisDenylist, redisDenylist, nil
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Task Manager v%s", version)

	if cfg.HTTP.GinMode != "" {
		gin.SetMode(cfg.HTTP.GinMode)
	}

	// Initialize database
	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	usersRepo := users.NewRepository(db.DB)
	tasksRepo := tasks.NewRepository(db.DB)

	// Initialize authentication
	secret, err := tokenSecret(cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to generate token secret: %v", err)
	}
	tokenManager, err := auth.NewTokenManager(secret, cfg.Auth.TokenIssuer)
	if err != nil {
		log.Fatalf("Failed to initialize token manager: %v", err)
	}

	denylist, redisDenylist, err := newDenylist(cfg.Revocation)
	if err != nil {
		log.Fatalf("Failed to initialize token denylist: %v", err)
	}
	if redisDenylist != nil {
		defer redisDenylist.Close()
	}

	hasher := auth.NewHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency, cfg.Auth.HashTimeout)
	authService := auth.NewService(usersRepo, hasher, tokenManager, denylist, cfg.Auth)
	authMiddleware := auth.NewMiddleware(tokenManager, denylist)

	// Initialize job queue and purge scheduler if enabled
	var jobClient *jobs.Client
	var purgeScheduler *scheduler.PurgeScheduler
	var jobCtxCancel context.CancelFunc
	if cfg.Jobs.Enabled {
		jobClient, err = jobs.NewClient(cfg.Jobs.DatabasePath, jobs.ConfigFrom(cfg.Jobs))
		if err != nil {
			log.Fatalf("Failed to initialize job queue: %v", err)
		}
		defer func() {
			if err := jobClient.Close(); err != nil {
				log.Printf("Error closing job client: %v", err)
			}
		}()

		jobClient.Register(jobs.NewPurgeDeletedTasksQueue(tasksRepo))

		var jobCtx context.Context
		jobCtx, jobCtxCancel = context.WithCancel(context.Background())
		go jobClient.Start(jobCtx)

		purgeScheduler = scheduler.NewPurgeScheduler(jobClient, cfg.Purge.Schedule, cfg.Purge.Retention)
		if err := purgeScheduler.Start(jobCtx); err != nil {
			log.Printf("WARNING: Failed to start purge scheduler: %v", err)
		}
	} else {
		log.Printf("Job queue disabled; soft-deleted tasks will not be purged")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:       db,
		TaskStore:      tasksRepo,
		AuthService:    authService,
		AuthMiddleware: authMiddleware,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		HSTSMaxAge:     hstsMaxAge,
		Version:        version,
	}
	if redisDenylist != nil {
		routerCfg.Revocation = redisDenylist
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if purgeScheduler != nil {
			purgeScheduler.Stop()
		}
		if jobClient != nil && jobCtxCancel != nil {
			jobClient.Stop(ctx)
			jobCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
