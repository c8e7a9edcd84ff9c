package sanitize

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestStreamURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid HTTPS", "https://cdn.example.com/x/playlist.m3u8", false},
		{"valid HTTP", "http://cdn.example.com/x/playlist.m3u8", false},
		{"javascript scheme rejected", "javascript:alert(1)", true},
		{"file scheme rejected", "file:///etc/passwd", true},
		{"option injection", "-o/tmp/x", true},
		{"empty string", "", true},
		{"no host", "https://", true},
		{"valid with query", "https://cdn.example.com/playlist.m3u8?token=a&b=c", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := StreamURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("StreamURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"normal", "Show Name", "Show Name"},
		{"slash kept as one element", "AC/DC Live", "AC_DC Live"},
		{"path traversal", "../../etc/passwd", "____etc_passwd"},
		{"null bytes", "Show\x00 Name", "Show Name"},
		{"Windows special chars", `Show<>:"|?*`, "Show_______"},
		{"leading dots", ".hidden", "hidden"},
		{"surrounding spaces", "  2024  ", "2024"},
		{"empty string", "", "untitled"},
		{"just dots", "..", "_"},
		{"just dot", ".", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filename(tt.input)
			if got != tt.expected {
				t.Errorf("Filename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		file string
		want string
	}{
		{"normal", "Show Name", "Show Name"},
		{"path traversal attempt", "../../etc/passwd", "____etc_passwd"},
		{"shell injection", "$(whoami).mkv", "$(whoami).mkv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := Join(dir, tt.file)
			if err != nil {
				t.Fatalf("Join(%q, %q) error: %v", dir, tt.file, err)
			}
			if filepath.Dir(path) != dir {
				t.Errorf("Join() = %q, not directly inside %q", path, dir)
			}
			if !strings.HasSuffix(path, tt.want) {
				t.Errorf("Join() = %q, want suffix %q", path, tt.want)
			}
		})
	}
}
