package youtube

import (
	"context"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"grabber-service/internal/media"

	"github.com/kkdai/youtube/v2"
	log "github.com/sirupsen/logrus"
)

type client interface {
	GetVideoContext(ctx context.Context, url string) (*youtube.Video, error)
	GetStreamURLContext(ctx context.Context, video *youtube.Video, format *youtube.Format) (string, error)
}

// Extractor reads YouTube formats in-process, without the yt-dlp binary.
type Extractor struct {
	client client
}

func New(httpClient *http.Client) *Extractor {
	return &Extractor{
		client: &youtube.Client{HTTPClient: httpClient},
	}
}

func (e *Extractor) Extract(ctx context.Context, url string) (*media.Info, error) {
	video, err := e.client.GetVideoContext(ctx, url)
	if err != nil {
		return nil, err
	}

	info := toInfo(video)
	for i := range video.Formats {
		if info.Formats[i].URL != "" {
			continue
		}
		// Ciphered formats need the player script to produce a usable URL.
		u, err := e.client.GetStreamURLContext(ctx, video, &video.Formats[i])
		if err != nil {
			log.WithFields(log.Fields{"video": video.ID, "itag": video.Formats[i].ItagNo, "err": err}).Debug("stream url unavailable")
			continue
		}
		info.Formats[i].URL = u
	}
	return info, nil
}

func toInfo(video *youtube.Video) *media.Info {
	info := &media.Info{
		ID:         video.ID,
		Title:      video.Title,
		Duration:   video.Duration.Seconds(),
		Uploader:   video.Author,
		ViewCount:  int64(video.Views),
		WebpageURL: "https://www.youtube.com/watch?v=" + video.ID,
		Formats:    make([]media.Format, 0, len(video.Formats)),
	}
	if n := len(video.Thumbnails); n > 0 {
		info.Thumbnail = video.Thumbnails[n-1].URL
	}
	if !video.PublishDate.IsZero() {
		info.UploadDate = video.PublishDate.Format("20060102")
	}
	for _, f := range video.Formats {
		info.Formats = append(info.Formats, toFormat(f))
	}
	return info
}

func toFormat(f youtube.Format) media.Format {
	kind, ext, codecs := parseMimeType(f.MimeType)

	vcodec, acodec := "none", "none"
	switch kind {
	case "audio":
		if len(codecs) > 0 {
			acodec = codecs[0]
		}
	case "video":
		if len(codecs) > 0 {
			vcodec = codecs[0]
		}
		if len(codecs) > 1 {
			acodec = codecs[1]
		}
	}
	if acodec == "none" && f.AudioChannels > 0 && kind == "audio" {
		acodec = "unknown"
	}

	return media.Format{
		ID:      strconv.Itoa(f.ItagNo),
		Ext:     ext,
		Width:   f.Width,
		Height:  f.Height,
		FPS:     float64(f.FPS),
		VCodec:  vcodec,
		ACodec:  acodec,
		Size:    f.ContentLength,
		Bitrate: float64(f.Bitrate) / 1000,
		URL:     f.URL,
	}
}

// parseMimeType splits `video/mp4; codecs="avc1.42001E, mp4a.40.2"`.
func parseMimeType(raw string) (kind, ext string, codecs []string) {
	mt, params, err := mime.ParseMediaType(raw)
	if err != nil {
		return "", "", nil
	}
	kind, ext, _ = strings.Cut(mt, "/")
	if kind == "audio" && ext == "mp4" {
		ext = "m4a"
	}
	for _, c := range strings.Split(params["codecs"], ",") {
		if c = strings.TrimSpace(c); c != "" {
			codecs = append(codecs, c)
		}
	}
	return kind, ext, codecs
}
