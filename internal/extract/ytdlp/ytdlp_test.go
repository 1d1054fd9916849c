package ytdlp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	out  []byte
	err  error
	name string
	args []string
}

func (f *fakeRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	f.name = name
	f.args = args
	return f.out, f.err
}

const videoJSON = `{
	"id": "abc",
	"title": "Clip",
	"uploader": "Someone",
	"duration": 3725,
	"thumbnail": "https://i.ytimg.com/vi/abc/hq.jpg",
	"view_count": 42,
	"upload_date": "20240101",
	"formats": [
		{"format_id": "140", "ext": "m4a", "vcodec": "none", "acodec": "mp4a.40.2", "abr": 129.5, "filesize": 1000, "url": "https://a/140"},
		{"format_id": "137", "ext": "mp4", "height": 1080, "width": 1920, "fps": 30, "vcodec": "avc1", "acodec": "none", "filesize_approx": 5000, "tbr": 4000, "url": "https://v/137"},
		{"format_id": "sb0", "ext": "mhtml", "vcodec": "none", "acodec": "none", "height": null}
	]
}`

func TestExtract(t *testing.T) {
	r := &fakeRunner{out: []byte(videoJSON)}
	e := New(Options{Binary: "/usr/bin/yt-dlp", Runner: r})

	info, err := e.Extract(context.Background(), "https://youtu.be/abc")
	require.NoError(t, err)

	assert.Equal(t, "/usr/bin/yt-dlp", r.name)
	assert.Equal(t, []string{"-J", "--no-playlist", "--no-warnings", "https://youtu.be/abc"}, r.args)

	assert.Equal(t, "Clip", info.Title)
	assert.Equal(t, "Someone", info.Uploader)
	assert.Equal(t, float64(3725), info.Duration)
	require.Len(t, info.Formats, 3)

	audio := info.Formats[0]
	assert.True(t, audio.IsAudioOnly())
	assert.Equal(t, 129.5, audio.Bitrate)
	assert.Equal(t, int64(1000), audio.Size)

	video := info.Formats[1]
	assert.Equal(t, 1080, video.Height)
	assert.Equal(t, int64(5000), video.Size)
	assert.Equal(t, float64(4000), video.Bitrate)
	assert.False(t, video.HasAudio())
}

func TestExtractRunnerError(t *testing.T) {
	r := &fakeRunner{err: errors.New("ERROR: Unsupported URL")}
	e := New(Options{Runner: r})

	_, err := e.Extract(context.Background(), "https://example.com")
	assert.EqualError(t, err, "ERROR: Unsupported URL")
	assert.Equal(t, "yt-dlp", r.name)
}

func TestExtractBadJSON(t *testing.T) {
	e := New(Options{Runner: &fakeRunner{out: []byte("not json")}})
	_, err := e.Extract(context.Background(), "https://example.com")
	assert.ErrorContains(t, err, "decode yt-dlp output")
}

func TestCookiesFlag(t *testing.T) {
	dir := t.TempDir()
	cookies := filepath.Join(dir, "cookies.txt")
	require.NoError(t, os.WriteFile(cookies, []byte("# Netscape HTTP Cookie File\n"), 0o644))

	r := &fakeRunner{out: []byte(videoJSON)}
	e := New(Options{CookiesFile: cookies, Runner: r})
	_, err := e.Extract(context.Background(), "u")
	require.NoError(t, err)
	assert.Contains(t, r.args, "--cookies")
	assert.Contains(t, r.args, cookies)

	r = &fakeRunner{out: []byte(videoJSON)}
	e = New(Options{CookiesFile: filepath.Join(dir, "missing.txt"), Runner: r})
	_, err = e.Extract(context.Background(), "u")
	require.NoError(t, err)
	assert.NotContains(t, r.args, "--cookies")
}

func TestSelect(t *testing.T) {
	t.Run("merged selection", func(t *testing.T) {
		r := &fakeRunner{out: []byte(`{
			"title": "Clip", "ext": "mp4",
			"requested_formats": [{"url": "https://v/1"}, {"url": "https://a/2"}]
		}`)}
		e := New(Options{Runner: r})

		sel, err := e.Select(context.Background(), "u", "bestvideo+bestaudio/best")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://v/1", "https://a/2"}, sel.URLs)
		assert.Equal(t, "mp4", sel.Ext)
		assert.Equal(t, []string{"-J", "--no-playlist", "--no-warnings", "-f", "bestvideo+bestaudio/best", "u"}, r.args)
	})

	t.Run("single format", func(t *testing.T) {
		e := New(Options{Runner: &fakeRunner{out: []byte(`{"title": "Clip", "ext": "webm", "url": "https://a/251"}`)}})
		sel, err := e.Select(context.Background(), "u", "bestaudio/best")
		require.NoError(t, err)
		assert.Equal(t, []string{"https://a/251"}, sel.URLs)
	})

	t.Run("no url", func(t *testing.T) {
		e := New(Options{Runner: &fakeRunner{out: []byte(`{"title": "Clip"}`)}})
		sel, err := e.Select(context.Background(), "u", "best")
		require.NoError(t, err)
		assert.Empty(t, sel.URLs)
	})
}
