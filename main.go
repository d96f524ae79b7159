package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"report2resolve-be/config"
	"report2resolve-be/repository"
	"report2resolve-be/routes"
	"report2resolve-be/services"
)

func main() {
	cfg, err := config.Load(".env", ".env.local")
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	config.ConfigureLogger(cfg)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	if err := repository.EnsureUserIndex(db); err != nil {
		logrus.WithError(err).Warn("Failed to create users index")
	}

	redisClient, err := config.ConnectRedis(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to Redis")
	}
	var kv repository.KV = repository.NewMemoryKV()
	if redisClient != nil {
		kv = repository.NewRedisKV(redisClient)
	}

	stores := repository.Stores{
		Issues:   repository.NewMongoIssues(db),
		Statuses: repository.NewCachedStatuses(repository.NewMongoStatuses(db), kv, cfg.RedisPrefix, cfg.StatusCacheTTL),
		Users:    repository.NewMongoUsers(db),
		Requests: repository.NewMongoRequests(db),
		Lookups:  repository.NewMongoLookups(db),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := services.Seed(ctx, stores); err != nil {
		logrus.WithError(err).Fatal("Failed to seed reference data")
	}
	if err := services.EnsureAdmin(ctx, stores, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logrus.WithError(err).Fatal("Failed to create admin account")
	}

	r := routes.NewEngine(cfg, stores, kv)

	logrus.WithField("port", cfg.Port).Info("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("Failed to start server")
	}
}
