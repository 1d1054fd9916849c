package grabber

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterOptions struct {
	AllowedOrigin  string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

func NewRouter(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(corsMiddleware(opts.AllowedOrigin))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogMiddleware)
	r.Use(middleware.Recoverer)
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	r.Get("/health", s.HandleHealth)
	r.Get("/video/info", s.HandleVideoInfo)

	r.Group(func(r chi.Router) {
		r.Use(bodySizeLimitMiddleware(opts.MaxBodyBytes))
		r.Post("/analyze", s.HandleAnalyze)
		r.Post("/download", s.HandleDownload)
		r.Post("/rename", s.HandleRename)
	})

	return r
}
