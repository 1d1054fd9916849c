package oembed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"grabber-service/internal/media"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

const DefaultEndpoint = "https://www.youtube.com/oembed"

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Client looks up public metadata without a local extractor. oEmbed carries
// no duration and no formats, so callers only get title and thumbnail from
// it; the OpenGraph fallback sometimes adds a duration.
type Client struct {
	endpoint string
	http     *http.Client
}

func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: endpoint,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (c *Client) Lookup(ctx context.Context, videoURL string) (*media.Info, error) {
	info, status, err := c.oembed(ctx, videoURL)
	if err != nil {
		return nil, err
	}
	if info != nil {
		return info, nil
	}

	log.WithFields(log.Fields{"url": videoURL, "status": status}).Info("oembed unavailable, reading page tags")
	return c.openGraph(ctx, videoURL)
}

// oembed returns a nil Info with the status code when the provider refused
// the lookup, so the caller can fall back to the page itself.
func (c *Client) oembed(ctx context.Context, videoURL string) (*media.Info, int, error) {
	val := url.Values{}
	val.Set("url", videoURL)
	val.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+val.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("oembed lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}

	var body oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, resp.StatusCode, err
	}
	return &media.Info{
		Title:     body.Title,
		Thumbnail: body.ThumbnailURL,
		Uploader:  body.AuthorName,
	}, resp.StatusCode, nil
}

func (c *Client) openGraph(ctx context.Context, pageURL string) (*media.Info, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	html, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}
	return parseOpenGraph(html)
}

func parseOpenGraph(html []byte) (*media.Info, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}

	meta := func(selectors ...string) string {
		for _, sel := range selectors {
			if v, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}

	info := &media.Info{
		Title:     meta(`meta[property="og:title"]`, `meta[name="title"]`),
		Thumbnail: meta(`meta[property="og:image"]`),
	}
	if info.Title == "" {
		info.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if secs, err := strconv.ParseFloat(meta(`meta[property="og:video:duration"]`, `meta[property="video:duration"]`), 64); err == nil {
		info.Duration = secs
	} else if d := meta(`meta[itemprop="duration"]`); d != "" {
		info.Duration = float64(parseISO8601Duration(d))
	}
	return info, nil
}

var isoDurationRe = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// parseISO8601Duration returns whole seconds for PT#H#M#S values.
func parseISO8601Duration(duration string) int {
	matches := isoDurationRe.FindStringSubmatch(duration)
	if len(matches) < 4 {
		return 0
	}

	var h, m, s int
	fmt.Sscanf(matches[1], "%d", &h)
	fmt.Sscanf(matches[2], "%d", &m)
	fmt.Sscanf(matches[3], "%d", &s)

	return h*3600 + m*60 + s
}
