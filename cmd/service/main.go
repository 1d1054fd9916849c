package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"grabber-service/internal/grabber"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := loadConfigFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	setupLogging(cfg)

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = newRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable, analyze cache will miss until it recovers")
		}
		cancel()
	}

	b := buildBackends(cfg, rdb)
	srv := grabber.NewServer(b.analyzer, b.resolver, b.extractor)

	r := grabber.NewRouter(srv, grabber.RouterOptions{
		AllowedOrigin:  cfg.AllowedOrigin,
		RequestTimeout: cfg.RequestTimeout,
		MaxBodyBytes:   cfg.MaxBodyBytes,
	})

	log.WithFields(log.Fields{
		"port":      cfg.Port,
		"analyze":   cfg.AnalyzeBackend,
		"download":  cfg.DownloadBackend,
		"extractor": cfg.Extractor,
		"cache":     rdb != nil,
	}).Info("grabber-service listening")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("grabber-service: %v", err)
	}
}

func setupLogging(cfg Config) {
	log.SetOutput(os.Stdout)
	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithField("level", cfg.LogLevel).Warn("unknown LOG_LEVEL, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
