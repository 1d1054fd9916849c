package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	analyzeFormats = "formats"
	analyzeLadder  = "ladder"
	analyzeSimple  = "simple"

	downloadFormat   = "format"
	downloadUnlock   = "unlock"
	downloadSelector = "selector"

	extractorYtDlp   = "ytdlp"
	extractorYouTube = "youtube"
)

type Config struct {
	Port string

	AnalyzeBackend  string
	DownloadBackend string
	Extractor       string

	YtDlpPath    string
	YtDlpCookies string
	YtDlpTimeout time.Duration

	CobaltURL     string
	CobaltTimeout time.Duration
	OEmbedURL     string

	RedisURL string
	CacheTTL time.Duration

	AllowedOrigin  string
	RequestTimeout time.Duration
	MaxBodyBytes   int64

	LogLevel  string
	LogFormat string
}

func loadConfigFromEnv() (Config, error) {
	cfg := Config{
		Port:            getenv("PORT", "3008"),
		AnalyzeBackend:  strings.ToLower(getenv("ANALYZE_BACKEND", analyzeFormats)),
		DownloadBackend: strings.ToLower(getenv("DOWNLOAD_BACKEND", downloadFormat)),
		Extractor:       strings.ToLower(getenv("EXTRACTOR", extractorYtDlp)),
		YtDlpPath:       getenv("YTDLP_PATH", "yt-dlp"),
		YtDlpCookies:    getenv("YTDLP_COOKIES", ""),
		YtDlpTimeout:    getenvDuration("YTDLP_TIMEOUT", 60*time.Second),
		CobaltURL:       getenv("COBALT_API_URL", ""),
		CobaltTimeout:   getenvDuration("COBALT_TIMEOUT", 30*time.Second),
		OEmbedURL:       getenv("OEMBED_URL", ""),
		RedisURL:        getenv("REDIS_URL", ""),
		CacheTTL:        getenvDuration("ANALYZE_CACHE_TTL", 10*time.Minute),
		AllowedOrigin:   getenv("CORS_ALLOWED_ORIGIN", "*"),
		RequestTimeout:  getenvDuration("REQUEST_TIMEOUT", 90*time.Second),
		MaxBodyBytes:    int64(getenvInt("MAX_BODY_BYTES", 64*1024)),
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFormat:       getenv("LOG_FORMAT", "text"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.AnalyzeBackend {
	case analyzeFormats, analyzeLadder, analyzeSimple:
	default:
		return fmt.Errorf("grabber-service: unknown ANALYZE_BACKEND %q", c.AnalyzeBackend)
	}
	switch c.DownloadBackend {
	case downloadFormat, downloadUnlock, downloadSelector:
	default:
		return fmt.Errorf("grabber-service: unknown DOWNLOAD_BACKEND %q", c.DownloadBackend)
	}
	switch c.Extractor {
	case extractorYtDlp, extractorYouTube:
	default:
		return fmt.Errorf("grabber-service: unknown EXTRACTOR %q", c.Extractor)
	}
	if c.DownloadBackend == downloadSelector && c.Extractor != extractorYtDlp {
		return errors.New("grabber-service: DOWNLOAD_BACKEND=selector needs EXTRACTOR=ytdlp")
	}
	return nil
}

// mismatched reports whether the analyze backend hands out ids the download
// backend does not understand.
func (c Config) mismatched() bool {
	want := map[string]string{
		analyzeFormats: downloadFormat,
		analyzeLadder:  downloadUnlock,
		analyzeSimple:  downloadSelector,
	}
	return want[c.AnalyzeBackend] != c.DownloadBackend
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	raw := getenv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// getenvDuration accepts Go durations ("45s") or plain seconds ("45").
func getenvDuration(key string, def time.Duration) time.Duration {
	raw := getenv(key, "")
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}
