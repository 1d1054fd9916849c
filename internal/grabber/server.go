package grabber

import (
	"context"
	"net/http"

	"grabber-service/internal/media"
)

const serviceName = "grabber-service"

// Analyzer turns a video URL into metadata plus the quality options a client
// may later pass to a Resolver.
type Analyzer interface {
	Analyze(ctx context.Context, url string) (*media.Analysis, error)
}

// Resolver turns a video URL plus a previously advertised format id into
// direct media URLs.
type Resolver interface {
	Resolve(ctx context.Context, url, formatID string) (*media.Link, error)
}

// Extractor lists every format of a video. Implemented by the yt-dlp and
// native YouTube adapters.
type Extractor interface {
	Extract(ctx context.Context, url string) (*media.Info, error)
}

// Lookup fetches public metadata only; it never knows the real formats.
type Lookup interface {
	Lookup(ctx context.Context, url string) (*media.Info, error)
}

// Selector lets the extractor pick streams from a selector expression.
type Selector interface {
	Select(ctx context.Context, url, selector string) (*media.Selection, error)
}

type Server struct {
	analyzer  Analyzer
	resolver  Resolver
	extractor Extractor
}

func NewServer(a Analyzer, r Resolver, e Extractor) *Server {
	return &Server{
		analyzer:  a,
		resolver:  r,
		extractor: e,
	}
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": serviceName,
	})
}
