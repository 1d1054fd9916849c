package cobalt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"grabber-service/internal/media"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultAPIURL  = "https://api.cobalt.tools/api/json"
	DefaultTimeout = 30 * time.Second

	defaultQuality = "720"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

var qualityMap = map[string]string{
	"1080": "1080",
	"720":  "720",
	"480":  "480",
	"360":  "360",
}

// Client resolves a watch page URL to a direct media URL through a cobalt
// instance. Unknown qualities fall back to 720p instead of failing.
type Client struct {
	apiURL string
	http   *http.Client
}

func NewClient(apiURL string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		apiURL: apiURL,
		http:   &http.Client{Timeout: timeout},
	}
}

type request struct {
	URL             string `json:"url"`
	VQuality        string `json:"vQuality"`
	FilenamePattern string `json:"filenamePattern"`
	IsAudioOnly     bool   `json:"isAudioOnly"`
}

type response struct {
	Status   string `json:"status"`
	Text     string `json:"text"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Picker   []struct {
		URL string `json:"url"`
	} `json:"picker"`
}

func (c *Client) Resolve(ctx context.Context, videoURL, formatID string) (*media.Link, error) {
	quality, ok := qualityMap[formatID]
	if !ok {
		quality = defaultQuality
	}

	b, err := json.Marshal(request{
		URL:             videoURL,
		VQuality:        quality,
		FilenamePattern: "basic",
		IsAudioOnly:     false,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &media.UpstreamError{
			Service: "cobalt",
			Status:  http.StatusInternalServerError,
			Message: fmt.Sprintf("Network error: %v", err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, &media.UpstreamError{
			Service: "cobalt",
			Status:  resp.StatusCode,
			Message: "Cobalt API error: " + strings.TrimSpace(string(body)),
		}
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode cobalt response: %w", err)
	}

	downloadURL, err := pickURL(body)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"status": body.Status, "quality": quality}).Debug("cobalt resolved url")

	return &media.Link{
		VideoURL:   downloadURL,
		AudioURL:   nil,
		Title:      titleFromFilename(body.Filename),
		Ext:        "mp4",
		NeedsMerge: false,
	}, nil
}

func pickURL(body response) (string, error) {
	var u string
	switch body.Status {
	case "error":
		msg := body.Text
		if msg == "" {
			msg = "Cobalt API error"
		}
		return "", badRequest(msg)
	case "picker":
		if len(body.Picker) == 0 {
			return "", badRequest("No download URL found")
		}
		u = body.Picker[0].URL
	default:
		// "redirect", "stream" and anything newer carry the url at the top level.
		u = body.URL
	}
	if u == "" {
		return "", badRequest("No download URL returned from Cobalt")
	}
	return u, nil
}

func badRequest(msg string) error {
	return &media.UpstreamError{Service: "cobalt", Status: http.StatusBadRequest, Message: msg}
}

func titleFromFilename(name string) string {
	stem := strings.TrimSuffix(name, path.Ext(name))
	if stem == "" {
		return "video"
	}
	return stem
}
