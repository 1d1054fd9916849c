package grabber

import (
	"net/http"
	"strings"

	"grabber-service/internal/media"
)

// VideoInfo is the camelCase summary served by GET /video/info.
type VideoInfo struct {
	Title      string  `json:"title"`
	Duration   float64 `json:"duration"`
	Thumbnail  string  `json:"thumbnail"`
	Channel    string  `json:"channel"`
	ViewCount  int64   `json:"viewCount"`
	UploadDate string  `json:"uploadDate"`
}

func (s *Server) HandleVideoInfo(w http.ResponseWriter, r *http.Request) {
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}
	if s.extractor == nil {
		writeError(w, http.StatusNotImplemented, "video info is not available with this backend")
		return
	}

	info, err := s.extractor.Extract(r.Context(), url)
	if err != nil {
		writeBackendError(w, r, err, "Failed to get video info")
		return
	}

	writeJSON(w, http.StatusOK, VideoInfo{
		Title:      info.Metadata().Title,
		Duration:   info.Duration,
		Thumbnail:  info.Thumbnail,
		Channel:    info.Uploader,
		ViewCount:  info.ViewCount,
		UploadDate: info.UploadDate,
	})
}

type renameRequest struct {
	Title string `json:"title"`
}

func (s *Server) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"filename": media.SafeFilename(req.Title),
	})
}
