package grabber

import (
	"encoding/json"
	"net/http"

	"grabber-service/internal/media"

	log "github.com/sirupsen/logrus"
)

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{
		"error": msg,
	})
}

// writeBackendError reports a collaborator failure. The raw error text goes
// back to the caller; fallback is used only when the error has no text.
func writeBackendError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := media.StatusCode(err)
	msg := err.Error()
	if msg == "" {
		msg = fallback
	}

	entry := log.WithFields(log.Fields{
		"path":   r.URL.Path,
		"status": status,
		"err":    err,
	})
	if media.IsBlocked(err) {
		entry.WithField("blocked", true).Warn("extractor refused by site")
	} else if status >= http.StatusInternalServerError {
		entry.Error("backend failure")
	} else {
		entry.Info("backend rejected request")
	}

	writeError(w, status, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
