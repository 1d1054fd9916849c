package grabber

import (
	"context"
	"fmt"
	"sort"

	"grabber-service/internal/media"
)

const (
	minHeight  = 360
	defaultFPS = 30
)

// FormatsAnalyzer advertises the extractor's real formats, one per
// (resolution, fps) pair.
type FormatsAnalyzer struct {
	Extractor Extractor
}

func (a *FormatsAnalyzer) Analyze(ctx context.Context, url string) (*media.Analysis, error) {
	info, err := a.Extractor.Extract(ctx, url)
	if err != nil {
		return nil, err
	}
	return &media.Analysis{
		Metadata:  info.Metadata(),
		Qualities: FilterQualities(info.Formats),
	}, nil
}

type qualityKey struct {
	height int
	fps    int
}

// FilterQualities drops formats below 360p, keeps the first format seen for
// each (resolution, fps) pair and sorts by resolution, highest first. Formats
// of equal resolution keep the extractor's order.
func FilterQualities(formats []media.Format) []media.Quality {
	seen := make(map[qualityKey]bool)
	heights := make([]int, 0, len(formats))
	out := make([]media.Quality, 0, len(formats))

	for _, f := range formats {
		if f.Height < minHeight {
			continue
		}
		fps := int(f.FPS)
		if fps == 0 {
			fps = defaultFPS
		}
		key := qualityKey{height: f.Height, fps: fps}
		if seen[key] {
			continue
		}
		seen[key] = true

		ext := f.Ext
		if ext == "" {
			ext = "mp4"
		}
		q := media.Quality{
			ID:         f.ID,
			Resolution: fmt.Sprintf("%dp", f.Height),
			FPS:        fps,
			Ext:        ext,
			Size:       media.FormatSize(f.Size),
		}
		if !f.HasAudio() {
			q.Note = "video only"
		}
		out = append(out, q)
		heights = append(heights, f.Height)
	}

	sort.Stable(byHeightDesc{qualities: out, heights: heights})
	return out
}

type byHeightDesc struct {
	qualities []media.Quality
	heights   []int
}

func (b byHeightDesc) Len() int           { return len(b.qualities) }
func (b byHeightDesc) Less(i, j int) bool { return b.heights[i] > b.heights[j] }
func (b byHeightDesc) Swap(i, j int) {
	b.qualities[i], b.qualities[j] = b.qualities[j], b.qualities[i]
	b.heights[i], b.heights[j] = b.heights[j], b.heights[i]
}

var ladder = []int{1080, 720, 480, 360}

// LadderAnalyzer pairs a metadata-only lookup with a fixed quality ladder.
// The ids it hands out are the heights the unlock API understands.
type LadderAnalyzer struct {
	Lookup Lookup
}

func (a *LadderAnalyzer) Analyze(ctx context.Context, url string) (*media.Analysis, error) {
	info, err := a.Lookup.Lookup(ctx, url)
	if err != nil {
		return nil, err
	}

	qualities := make([]media.Quality, 0, len(ladder))
	for _, h := range ladder {
		qualities = append(qualities, media.Quality{
			ID:         fmt.Sprint(h),
			Resolution: fmt.Sprintf("%dp", h),
			FPS:        defaultFPS,
			Ext:        "mp4",
			Size:       "Unknown",
		})
	}
	return &media.Analysis{
		Metadata:  info.Metadata(),
		Qualities: qualities,
	}, nil
}

const (
	VideoOptionID = "video"
	AudioOptionID = "audio"
)

// SimpleAnalyzer collapses every format into "Video" and "Audio".
type SimpleAnalyzer struct {
	Extractor Extractor
}

func (a *SimpleAnalyzer) Analyze(ctx context.Context, url string) (*media.Analysis, error) {
	info, err := a.Extractor.Extract(ctx, url)
	if err != nil {
		return nil, err
	}
	return &media.Analysis{
		Metadata: info.Metadata(),
		Qualities: []media.Quality{
			{ID: VideoOptionID, Resolution: "Video", Ext: "mp4", Size: "Best quality", Note: "Video + Audio"},
			{ID: AudioOptionID, Resolution: "Audio", Ext: "mp3", Size: "Best quality", Note: "Audio only"},
		},
	}, nil
}
