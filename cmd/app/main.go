package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/db"
	httpServer "taskboard/internal/http"
	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"
	"taskboard/internal/logger"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

type storage struct {
	users service.UserStore
	tasks service.TaskStore
	ping  handlers.Pinger
	close func()
}

func openStorage(cfg *config.Config) storage {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pool := db.ConnectPostgres(cfg.DatabaseURL)
		return storage{
			users: repository.NewPgUserRepository(pool),
			tasks: repository.NewPgTaskRepository(pool),
			ping:  pool,
			close: pool.Close,
		}

	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		mem := repository.NewMemoryStore()
		return storage{users: mem, tasks: mem, ping: mem, close: func() {}}

	default:
		mdb := db.ConnectMongo(cfg.MongoURI, cfg.MongoDB)
		users := repository.NewUserRepository(mdb)
		tasks := repository.NewTaskRepository(mdb)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := users.EnsureIndexes(ctx); err != nil {
			logger.Fatal("failed to create user indexes", "error", err)
		}
		if err := tasks.EnsureIndexes(ctx); err != nil {
			logger.Fatal("failed to create task indexes", "error", err)
		}

		return storage{
			users: users,
			tasks: tasks,
			ping:  db.MongoPinger{DB: mdb},
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = mdb.Client().Disconnect(ctx)
			},
		}
	}
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	store := openStorage(cfg)
	defer store.close()

	rdb := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	var cache handlers.Pinger
	if rdb != nil {
		defer rdb.Close()
		cache = db.RedisPinger{Client: rdb}
	}

	sessions := service.NewSessionManager(cfg.JWTSecret)
	h := handlers.NewHandler(
		service.NewUserService(store.users, sessions),
		service.NewTaskService(store.tasks),
		handlers.CookieConfigFor(cfg.Production(), int(sessions.TTL().Seconds())),
	)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	httpServer.RegisterRoutes(r, cfg, httpServer.Deps{
		Handler:  h,
		Health:   handlers.NewHealthHandler(store.ping, cache, version),
		Sessions: sessions,
		Limiter:  middleware.NewRateLimiter(rdb),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "storage", cfg.StorageDriver, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
