package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/davrot/scribe/handlers"
	"github.com/davrot/scribe/internal/config"
	"github.com/davrot/scribe/internal/credstore"
	"github.com/davrot/scribe/internal/docstore"
	"github.com/davrot/scribe/internal/sessions"
	"github.com/davrot/scribe/pkg/logger"
	"github.com/davrot/scribe/pkg/metrics"
	"github.com/davrot/scribe/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// logging is controlled with LOG_LEVEL env: debug|info|warn|error|fatal
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: env=%s data_dir=%s redis=%v", cfg.Server.Environment, cfg.Store.DataDir, cfg.Redis.Host != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Connect to Redis early so sessions and the rate limiter can use it
	// when configured; everything degrades to in-process state without it.
	var rdb *redis.Client
	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			rdb = nil
		} else {
			logger.Infof("connected to Redis at %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	var sessionRepo sessions.Repository
	if rdb != nil {
		sessionRepo = sessions.NewRedisRepository(rdb, "session:")
		logger.Infof("using Redis for session storage")
	} else {
		sessionRepo = sessions.NewMemoryRepository()
		logger.Infof("using in-memory session storage")
	}
	sessionsSvc := sessions.NewService(sessionRepo, cfg.Session.TTL)

	// Session resolution runs ahead of the rate limiter so signed-in
	// traffic is limited per user rather than per client IP.
	r.Use(middleware.Session(sessionsSvc, cfg.Session.Secret, cfg.Session.TTL))

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimit(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	docs, err := docstore.New(cfg.Store.DataDir)
	if err != nil {
		logger.Fatalf("failed to open document store: %v", err)
	}
	creds := credstore.New(cfg.Store.CredentialsFile)

	handlers.LoadTemplates(r)
	gate := middleware.RequireSignedIn(sessionsSvc)
	handlers.NewDocumentsHandler(docs, sessionsSvc).Register(r, gate)
	handlers.NewUsersHandler(creds, sessionsSvc).Register(r)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		deps := gin.H{"redis": rdb != nil || cfg.Redis.Host == ""}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting CMS service on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
