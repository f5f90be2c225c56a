package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "zapcrm/cmd/api/router/v1"
	"zapcrm/internal/config"
	cacheAdapter "zapcrm/internal/infrastructure/cache/adapter"
	cacheport "zapcrm/internal/infrastructure/cache/port"
	"zapcrm/internal/infrastructure/database"
	queueAdapter "zapcrm/internal/infrastructure/queue/adapter"
	qport "zapcrm/internal/infrastructure/queue/port"
	"zapcrm/internal/infrastructure/realtime"
	"zapcrm/internal/pkg/conversation/application/task"
	"zapcrm/internal/pkg/operator"
	"zapcrm/pkg/logger"
	"zapcrm/pkg/respond"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Environment, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := database.NewPoolFromEnv(connectCtx)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// cache and queue are optional: without Redis the service still runs, it
	// just loses webhook dedupe, product caching and async audit appends
	var cache cacheport.Cache
	if c, err := cacheAdapter.NewRedisAdapter(); err != nil {
		log.Warn("cache disabled", "error", err)
	} else {
		cache = c
		defer c.Close()
	}

	hub := realtime.NewHub()
	defer hub.Close()
	feed := operator.NewFeed(hub, log.Logger)

	var queue qport.Client
	if qc, err := queueAdapter.NewAsynqClientFromEnv(); err != nil {
		log.Warn("queue client disabled", "error", err)
	} else {
		queue = qc
		defer qc.Close()
	}

	if qsrv, err := queueAdapter.NewAsynqServer(); err != nil {
		log.Warn("queue workers disabled", "error", err)
	} else {
		task.RegisterAppendTimelineTask(qsrv, pool, cfg.FallbackCompanyID, feed)
		go func() {
			if err := qsrv.Run(ctx); err != nil {
				log.Error("queue workers stopped", "error", err)
			}
		}()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = qsrv.Stop(stopCtx)
		}()
	}

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization", "X-API-Token"},
		MaxAge:       12 * time.Hour,
	}))

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		respond.Fail(c, http.StatusMethodNotAllowed, "method not allowed")
	})
	r.NoRoute(func(c *gin.Context) {
		respond.Fail(c, http.StatusNotFound, "route not found")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	v1.RegisterRoutes(r, v1.Deps{
		Cfg:   cfg,
		Pool:  pool,
		Cache: cache,
		Queue: queue,
		Feed:  feed,
		Log:   log.Logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown incomplete", "error", err)
	}
}
