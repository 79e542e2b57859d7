package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/devconnect/config"
	"github.com/yoockh/devconnect/internal/api/handlers"
	"github.com/yoockh/devconnect/internal/api/middleware"
	"github.com/yoockh/devconnect/internal/api/routes"
	"github.com/yoockh/devconnect/internal/auth"
	"github.com/yoockh/devconnect/internal/cache"
	"github.com/yoockh/devconnect/internal/events"
	"github.com/yoockh/devconnect/internal/logger"
	mongorepo "github.com/yoockh/devconnect/internal/repositories/mongo"
	pgrepo "github.com/yoockh/devconnect/internal/repositories/postgres"
	"github.com/yoockh/devconnect/internal/services"
	"github.com/yoockh/devconnect/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	lg := logger.New(cfg.Log.Level)

	if err := config.InitMongo(cfg); err != nil {
		lg.WithError(err).Fatal("MongoDB init error")
	}
	defer func() { _ = config.MongoClient.Disconnect(context.Background()) }()
	db, err := config.MongoDatabase(cfg)
	if err != nil {
		lg.WithError(err).Fatal("MongoDB database error")
	}
	if err := config.EnsureMongoIndexes(db); err != nil {
		lg.WithError(err).Fatal("MongoDB index error")
	}
	lg.Info("MongoDB connected")

	if err := config.InitPostgres(cfg); err != nil {
		lg.WithError(err).Fatal("PostgreSQL init error")
	}
	if err := config.MigratePostgres(config.PostgresDB); err != nil {
		lg.WithError(err).Fatal("PostgreSQL migrate error")
	}
	lg.Info("PostgreSQL connected")

	if err := config.InitRedis(cfg); err != nil {
		lg.WithError(err).Fatal("Redis init error")
	}

	// Repositories
	profileRepo := mongorepo.NewProfileRepo(db)
	userRepo := pgrepo.NewUserRepo(config.PostgresDB)

	// Services
	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTL)
	profileOpts := []services.ProfileOption{services.WithLogger(lg)}
	var bus *events.RedisBus
	if config.RedisClient != nil {
		defer config.RedisClient.Close()
		bus = events.NewRedisBus(config.RedisClient)
		profileOpts = append(profileOpts,
			services.WithCache(cache.NewRedisCache(config.RedisClient, cfg.Cache.Prefix), cfg.Cache.TTL),
			services.WithEvents(bus),
		)
		lg.Info("Redis connected")
	} else {
		lg.Warn("REDIS_ADDR not set: cache and live feed disabled")
	}
	profileSvc := services.NewProfileService(profileRepo, userRepo, profileOpts...)
	userSvc := services.NewUserService(userRepo, tokens)

	var uploader storage.Uploader
	if cfg.GCS.Bucket != "" {
		gcsUploader, err := storage.NewGCSUploader(context.Background(), cfg.GCS.Bucket)
		if err != nil {
			lg.WithError(err).Fatal("GCS init error")
		}
		defer gcsUploader.Close()
		uploader = gcsUploader
	}
	avatarSvc := services.NewAvatarService(userRepo, uploader, profileSvc)

	// HTTP
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(lg))

	deps := routes.Deps{
		Profile: handlers.NewProfileHandler(profileSvc),
		User:    handlers.NewUserHandler(userSvc, avatarSvc),
		Tokens:  tokens,
	}
	if bus != nil {
		deps.WS = handlers.NewWSHandler(profileSvc, bus, cfg.App.AllowedOrigins)
	}
	routes.RegisterRoutes(r, deps)

	serve(lg, r, ":"+cfg.App.Port)
}

func serve(lg *logrus.Logger, h http.Handler, addr string) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		lg.WithField("addr", addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	lg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.WithError(err).Error("graceful shutdown failed")
	}
}
