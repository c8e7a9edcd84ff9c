// Package sanitize guards the filesystem and child processes against values
// scraped from a page: header text becomes directory and file names, and the
// stream URL becomes an argument to yt-dlp, ffmpeg and media players.
package sanitize

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// StreamURL checks that a stream URL is well-formed http(s) with a host.
func StreamURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("only HTTP(S) URLs are allowed, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}
	return nil
}

var filenameReplacer = strings.NewReplacer(
	"..", "_",
	"/", "_",
	"\\", "_",
	"\x00", "",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// Filename makes a single path element out of page text. Unlike
// filepath.Base it keeps the whole string: slashes in a show name are
// replaced, not treated as directories.
func Filename(name string) string {
	name = strings.TrimSpace(filenameReplacer.Replace(name))

	// Leading dots would hide the file or reach the parent directory.
	name = strings.TrimLeft(name, ".")

	if name == "" {
		return "untitled"
	}
	return name
}

// Join resolves name inside dir and verifies the result stays within dir.
func Join(dir, name string) (string, error) {
	sanitized := Filename(name)

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	resolved, err := filepath.Abs(filepath.Join(absDir, sanitized))
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	if !strings.HasPrefix(resolved, absDir+string(filepath.Separator)) {
		return "", fmt.Errorf("path traversal detected: %q escapes %q", resolved, absDir)
	}

	return resolved, nil
}
