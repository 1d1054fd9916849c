package cobalt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"grabber-service/internal/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, status int, body string, gotReq *request) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if gotReq != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(gotReq))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func upstreamErr(t *testing.T, err error) *media.UpstreamError {
	t.Helper()
	var ue *media.UpstreamError
	require.True(t, errors.As(err, &ue), "expected UpstreamError, got %v", err)
	return ue
}

func TestResolve(t *testing.T) {
	t.Run("redirect", func(t *testing.T) {
		var got request
		srv := newTestServer(t, http.StatusOK, `{"status": "redirect", "url": "https://cdn/v.mp4"}`, &got)
		defer srv.Close()

		link, err := NewClient(srv.URL, 0).Resolve(context.Background(), "https://youtu.be/abc", "1080")
		require.NoError(t, err)

		assert.Equal(t, request{URL: "https://youtu.be/abc", VQuality: "1080", FilenamePattern: "basic"}, got)
		assert.Equal(t, "https://cdn/v.mp4", link.VideoURL)
		assert.Nil(t, link.AudioURL)
		assert.Equal(t, "video", link.Title)
		assert.Equal(t, "mp4", link.Ext)
		assert.False(t, link.NeedsMerge)
	})

	t.Run("unknown quality falls back to 720", func(t *testing.T) {
		var got request
		srv := newTestServer(t, http.StatusOK, `{"status": "stream", "url": "https://cdn/s", "filename": "Clip.mp4"}`, &got)
		defer srv.Close()

		link, err := NewClient(srv.URL, 0).Resolve(context.Background(), "u", "137")
		require.NoError(t, err)
		assert.Equal(t, "720", got.VQuality)
		assert.Equal(t, "Clip", link.Title)
	})

	t.Run("picker takes first entry", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, `{"status": "picker", "picker": [{"url": "https://p/1"}, {"url": "https://p/2"}]}`, nil)
		defer srv.Close()

		link, err := NewClient(srv.URL, 0).Resolve(context.Background(), "u", "720")
		require.NoError(t, err)
		assert.Equal(t, "https://p/1", link.VideoURL)
	})

	t.Run("empty picker", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, `{"status": "picker", "picker": []}`, nil)
		defer srv.Close()

		_, err := NewClient(srv.URL, 0).Resolve(context.Background(), "u", "720")
		ue := upstreamErr(t, err)
		assert.Equal(t, http.StatusBadRequest, ue.Status)
		assert.Equal(t, "No download URL found", ue.Message)
	})

	t.Run("error status", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, `{"status": "error", "text": "i couldn't process your request"}`, nil)
		defer srv.Close()

		_, err := NewClient(srv.URL, 0).Resolve(context.Background(), "u", "720")
		ue := upstreamErr(t, err)
		assert.Equal(t, http.StatusBadRequest, ue.Status)
		assert.Equal(t, "i couldn't process your request", ue.Error())
	})

	t.Run("error status without text", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, `{"status": "error"}`, nil)
		defer srv.Close()

		_, err := NewClient(srv.URL, 0).Resolve(context.Background(), "u", "720")
		assert.Equal(t, "Cobalt API error", upstreamErr(t, err).Message)
	})

	t.Run("missing url", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, `{"status": "redirect"}`, nil)
		defer srv.Close()

		_, err := NewClient(srv.URL, 0).Resolve(context.Background(), "u", "720")
		assert.Equal(t, "No download URL returned from Cobalt", upstreamErr(t, err).Message)
	})

	t.Run("upstream http error keeps status", func(t *testing.T) {
		srv := newTestServer(t, http.StatusTooManyRequests, `rate limited`, nil)
		defer srv.Close()

		_, err := NewClient(srv.URL, 0).Resolve(context.Background(), "u", "720")
		ue := upstreamErr(t, err)
		assert.Equal(t, http.StatusTooManyRequests, ue.Status)
		assert.Equal(t, "Cobalt API error: rate limited", ue.Message)
	})

	t.Run("network error", func(t *testing.T) {
		srv := newTestServer(t, http.StatusOK, `{}`, nil)
		srv.Close()

		_, err := NewClient(srv.URL, 0).Resolve(context.Background(), "u", "720")
		ue := upstreamErr(t, err)
		assert.Equal(t, http.StatusInternalServerError, ue.Status)
		assert.Contains(t, ue.Message, "Network error:")
	})
}
