package media

import "strings"

type Metadata struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
	Duration  string `json:"duration"` // "H:MM:SS", "M:SS" or "Unknown"
}

type Quality struct {
	ID         string `json:"id"`
	Resolution string `json:"resolution"` // e.g. "1080p"
	FPS        int    `json:"fps"`
	Ext        string `json:"ext"`
	Size       string `json:"size"`
	Note       string `json:"note,omitempty"` // "video only", "Audio only", ...
}

type Analysis struct {
	Metadata  Metadata  `json:"metadata"`
	Qualities []Quality `json:"qualities"`
}

// Link is what a client needs to fetch a chosen quality. AudioURL is set only
// when the audio lives in a separate stream.
type Link struct {
	VideoURL   string  `json:"video_url"`
	AudioURL   *string `json:"audio_url"`
	Title      string  `json:"title"`
	Ext        string  `json:"ext"`
	NeedsMerge bool    `json:"needs_merge"`
}

// Info is the normalized output of an extractor.
type Info struct {
	ID         string
	Title      string
	Thumbnail  string
	Duration   float64 // seconds
	Uploader   string
	ViewCount  int64
	UploadDate string
	WebpageURL string
	Formats    []Format
}

// Selection is what an extractor picked for a format selector string. A
// merged pick yields one URL per stream, video first.
type Selection struct {
	Title string
	Ext   string
	URLs  []string
}

type Format struct {
	ID      string
	Ext     string
	Width   int
	Height  int
	FPS     float64
	VCodec  string
	ACodec  string
	Size    int64   // bytes, exact or approximate
	Bitrate float64 // kbit/s
	URL     string
}

func codecPresent(c string) bool {
	c = strings.TrimSpace(c)
	return c != "" && c != "none"
}

func (f Format) HasAudio() bool { return codecPresent(f.ACodec) }

func (f Format) HasVideo() bool { return codecPresent(f.VCodec) || f.Height > 0 }

func (f Format) IsAudioOnly() bool { return f.HasAudio() && !f.HasVideo() }

// FindFormat returns the format with the given id.
func (i *Info) FindFormat(id string) (Format, bool) {
	for _, f := range i.Formats {
		if f.ID == id {
			return f, true
		}
	}
	return Format{}, false
}

// BestAudio picks the audio-only format with the highest bitrate, then size.
func (i *Info) BestAudio() (Format, bool) {
	var best Format
	found := false
	for _, f := range i.Formats {
		if !f.IsAudioOnly() || f.URL == "" {
			continue
		}
		if !found || f.Bitrate > best.Bitrate || (f.Bitrate == best.Bitrate && f.Size > best.Size) {
			best = f
			found = true
		}
	}
	return best, found
}

func (i *Info) Metadata() Metadata {
	title := i.Title
	if title == "" {
		title = "Unknown Title"
	}
	return Metadata{
		Title:     title,
		Thumbnail: i.Thumbnail,
		Duration:  FormatDuration(i.Duration),
	}
}
