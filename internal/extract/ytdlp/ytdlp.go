package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"grabber-service/internal/media"

	log "github.com/sirupsen/logrus"
)

// Runner executes the yt-dlp binary. It exists so tests can swap the process out.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("yt-dlp timed out: %w", ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("yt-dlp: %w", err)
		}
		return nil, errors.New(msg)
	}
	return stdout.Bytes(), nil
}

type Options struct {
	Binary      string
	CookiesFile string
	Timeout     time.Duration
	Runner      Runner
}

type Extractor struct {
	binary  string
	cookies string
	timeout time.Duration
	runner  Runner
}

func New(opts Options) *Extractor {
	e := &Extractor{
		binary:  opts.Binary,
		cookies: opts.CookiesFile,
		timeout: opts.Timeout,
		runner:  opts.Runner,
	}
	if e.binary == "" {
		e.binary = "yt-dlp"
	}
	if e.runner == nil {
		e.runner = execRunner{}
	}
	return e
}

// Matches the parts of yt-dlp's -J output we read.
type ytDlpFormat struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	FPS            float64 `json:"fps"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	Filesize       int64   `json:"filesize"`
	FilesizeApprox int64   `json:"filesize_approx"`
	ABR            float64 `json:"abr"`
	TBR            float64 `json:"tbr"`
	URL            string  `json:"url"`
}

type ytDlpJSON struct {
	ID               string        `json:"id"`
	Title            string        `json:"title"`
	Uploader         string        `json:"uploader"`
	Channel          string        `json:"channel"`
	Duration         float64       `json:"duration"`
	Thumbnail        string        `json:"thumbnail"`
	WebpageURL       string        `json:"webpage_url"`
	ViewCount        int64         `json:"view_count"`
	UploadDate       string        `json:"upload_date"`
	Ext              string        `json:"ext"`
	URL              string        `json:"url"`
	Formats          []ytDlpFormat `json:"formats"`
	RequestedFormats []ytDlpFormat `json:"requested_formats"`
}

func (e *Extractor) baseArgs() []string {
	args := []string{"-J", "--no-playlist", "--no-warnings"}
	if e.cookies != "" {
		if _, err := os.Stat(e.cookies); err == nil {
			args = append(args, "--cookies", e.cookies)
		} else {
			log.WithFields(log.Fields{"cookies": e.cookies, "err": err}).Warn("yt-dlp cookies file unavailable")
		}
	}
	return args
}

func (e *Extractor) dump(ctx context.Context, args ...string) (*ytDlpJSON, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	output, err := e.runner.Run(ctx, e.binary, args...)
	if err != nil {
		return nil, err
	}

	var data ytDlpJSON
	if err := json.Unmarshal(output, &data); err != nil {
		return nil, fmt.Errorf("decode yt-dlp output: %w", err)
	}
	return &data, nil
}

// Extract lists every format yt-dlp knows for url.
func (e *Extractor) Extract(ctx context.Context, url string) (*media.Info, error) {
	args := append(e.baseArgs(), url)
	data, err := e.dump(ctx, args...)
	if err != nil {
		return nil, err
	}

	info := &media.Info{
		ID:         data.ID,
		Title:      data.Title,
		Thumbnail:  data.Thumbnail,
		Duration:   data.Duration,
		Uploader:   firstNonEmpty(data.Uploader, data.Channel),
		ViewCount:  data.ViewCount,
		UploadDate: data.UploadDate,
		WebpageURL: data.WebpageURL,
		Formats:    make([]media.Format, 0, len(data.Formats)),
	}
	for _, f := range data.Formats {
		info.Formats = append(info.Formats, toFormat(f))
	}
	return info, nil
}

// Select lets yt-dlp resolve selector itself. A merged selection yields one
// URL per requested format, in video, audio order.
func (e *Extractor) Select(ctx context.Context, url, selector string) (*media.Selection, error) {
	args := append(e.baseArgs(), "-f", selector, url)
	data, err := e.dump(ctx, args...)
	if err != nil {
		return nil, err
	}

	sel := &media.Selection{Title: data.Title, Ext: data.Ext}
	if len(data.RequestedFormats) > 0 {
		for _, f := range data.RequestedFormats {
			if strings.HasPrefix(f.URL, "http") {
				sel.URLs = append(sel.URLs, f.URL)
			}
		}
		return sel, nil
	}
	if strings.HasPrefix(data.URL, "http") {
		sel.URLs = append(sel.URLs, data.URL)
	}
	return sel, nil
}

func toFormat(f ytDlpFormat) media.Format {
	size := f.Filesize
	if size == 0 {
		size = f.FilesizeApprox
	}
	bitrate := f.ABR
	if bitrate == 0 {
		bitrate = f.TBR
	}
	return media.Format{
		ID:      f.FormatID,
		Ext:     f.Ext,
		Width:   f.Width,
		Height:  f.Height,
		FPS:     f.FPS,
		VCodec:  f.VCodec,
		ACodec:  f.ACodec,
		Size:    size,
		Bitrate: bitrate,
		URL:     f.URL,
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
