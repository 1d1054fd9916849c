package media

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	kib = 1024
	mib = 1024 * kib
	gib = 1024 * mib
)

// FormatDuration renders seconds as "H:MM:SS" or "M:SS". Zero or negative
// durations are "Unknown".
func FormatDuration(seconds float64) string {
	if seconds <= 0 {
		return "Unknown"
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func FormatSize(bytes int64) string {
	switch {
	case bytes <= 0:
		return "Unknown"
	case bytes > gib:
		return fmt.Sprintf("%.1f GiB", float64(bytes)/gib)
	case bytes > mib:
		return fmt.Sprintf("%.1f MiB", float64(bytes)/mib)
	default:
		return fmt.Sprintf("%.1f KiB", float64(bytes)/kib)
	}
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

const maxFilenameLen = 50

// SafeFilename turns a video title into a file-system friendly stem.
func SafeFilename(title string) string {
	out := unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(title), "_")
	if len(out) > maxFilenameLen {
		out = out[:maxFilenameLen]
	}
	return out
}
