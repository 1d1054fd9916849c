package grabber

import (
	"net/http"
	"strings"
)

type analyzeRequest struct {
	URL string `json:"url"`
}

func (s *Server) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		writeError(w, http.StatusBadRequest, "URL is required")
		return
	}

	res, err := s.analyzer.Analyze(r.Context(), url)
	if err != nil {
		writeBackendError(w, r, err, "Failed to analyze video")
		return
	}

	writeJSON(w, http.StatusOK, res)
}
