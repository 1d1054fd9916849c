package grabber

import (
	"net/http"
	"strings"
)

type downloadRequest struct {
	URL      string `json:"url"`
	FormatID string `json:"format_id"`
}

func (s *Server) HandleDownload(w http.ResponseWriter, r *http.Request) {
	var req downloadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	url := strings.TrimSpace(req.URL)
	formatID := strings.TrimSpace(req.FormatID)
	if url == "" || formatID == "" {
		writeError(w, http.StatusBadRequest, "URL and format_id are required")
		return
	}

	link, err := s.resolver.Resolve(r.Context(), url, formatID)
	if err != nil {
		writeBackendError(w, r, err, "Failed to resolve download URL")
		return
	}

	writeJSON(w, http.StatusOK, link)
}
