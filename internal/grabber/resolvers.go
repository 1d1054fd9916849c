package grabber

import (
	"context"

	"grabber-service/internal/media"
)

// FormatResolver hands out the URL of an exact format id returned by
// FormatsAnalyzer, pairing video-only formats with the best audio stream.
type FormatResolver struct {
	Extractor Extractor
}

func (r *FormatResolver) Resolve(ctx context.Context, url, formatID string) (*media.Link, error) {
	info, err := r.Extractor.Extract(ctx, url)
	if err != nil {
		return nil, err
	}

	f, ok := info.FindFormat(formatID)
	if !ok || f.URL == "" {
		return nil, media.NotFound("Format not found")
	}

	link := &media.Link{
		VideoURL: f.URL,
		Title:    info.Metadata().Title,
		Ext:      f.Ext,
	}
	if link.Ext == "" {
		link.Ext = "mp4"
	}
	if f.HasAudio() {
		return link, nil
	}

	if audio, ok := info.BestAudio(); ok {
		u := audio.URL
		link.AudioURL = &u
		link.NeedsMerge = true
	}
	return link, nil
}

const (
	videoSelector = "bestvideo[fps>=60][ext=mp4]+bestaudio[ext=m4a]/bestvideo[ext=mp4]+bestaudio[ext=m4a]/bestvideo+bestaudio/best"
	audioSelector = "bestaudio/best"
)

// SelectorResolver serves the two options of SimpleAnalyzer by letting the
// extractor apply a format selector.
type SelectorResolver struct {
	Selector Selector
}

func (r *SelectorResolver) Resolve(ctx context.Context, url, formatID string) (*media.Link, error) {
	var selector, ext string
	switch formatID {
	case VideoOptionID:
		selector, ext = videoSelector, "mp4"
	case AudioOptionID:
		selector, ext = audioSelector, "m4a"
	default:
		return nil, media.InvalidFormat("Invalid format_id")
	}

	sel, err := r.Selector.Select(ctx, url, selector)
	if err != nil {
		return nil, err
	}
	if len(sel.URLs) == 0 {
		return nil, media.NotFound("No download URL found")
	}

	title := sel.Title
	if title == "" {
		title = "video"
	}
	if sel.Ext != "" {
		ext = sel.Ext
	}

	link := &media.Link{
		VideoURL: sel.URLs[0],
		Title:    title,
		Ext:      ext,
	}
	if len(sel.URLs) > 1 {
		audio := sel.URLs[1]
		link.AudioURL = &audio
		link.NeedsMerge = true
	}
	return link, nil
}
