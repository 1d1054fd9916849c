package main

import (
	"net/http"
	"time"

	"grabber-service/internal/cobalt"
	"grabber-service/internal/extract/oembed"
	"grabber-service/internal/extract/youtube"
	"grabber-service/internal/extract/ytdlp"
	"grabber-service/internal/grabber"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type backends struct {
	analyzer  grabber.Analyzer
	resolver  grabber.Resolver
	extractor grabber.Extractor
}

// buildBackends wires the configured analyze and download backends. rdb may
// be nil, in which case analysis results are not cached.
func buildBackends(cfg Config, rdb *redis.Client) backends {
	var (
		extractor grabber.Extractor
		selector  grabber.Selector
	)
	switch cfg.Extractor {
	case extractorYouTube:
		extractor = youtube.New(&http.Client{Timeout: cfg.YtDlpTimeout})
	default:
		yt := ytdlp.New(ytdlp.Options{
			Binary:      cfg.YtDlpPath,
			CookiesFile: cfg.YtDlpCookies,
			Timeout:     cfg.YtDlpTimeout,
		})
		extractor, selector = yt, yt
	}

	var b backends
	b.extractor = extractor

	switch cfg.AnalyzeBackend {
	case analyzeLadder:
		b.analyzer = &grabber.LadderAnalyzer{Lookup: oembed.NewClient(cfg.OEmbedURL)}
	case analyzeSimple:
		b.analyzer = &grabber.SimpleAnalyzer{Extractor: extractor}
	default:
		b.analyzer = &grabber.FormatsAnalyzer{Extractor: extractor}
	}
	if rdb != nil {
		b.analyzer = grabber.NewCachedAnalyzer(b.analyzer, rdb, cfg.CacheTTL)
	}

	switch cfg.DownloadBackend {
	case downloadUnlock:
		b.resolver = cobalt.NewClient(cfg.CobaltURL, cfg.CobaltTimeout)
	case downloadSelector:
		b.resolver = &grabber.SelectorResolver{Selector: selector}
	default:
		b.resolver = &grabber.FormatResolver{Extractor: extractor}
	}

	if cfg.mismatched() {
		log.WithFields(log.Fields{
			"analyze":  cfg.AnalyzeBackend,
			"download": cfg.DownloadBackend,
		}).Warn("analyze and download backends use different format ids")
	}
	return b
}

func newRedis(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	opt.DialTimeout = 2 * time.Second
	return redis.NewClient(opt), nil
}
