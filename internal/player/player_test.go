package player

import (
	"context"
	"testing"

	"pokeflix/internal/media"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"mpv", "mpv"},
		{"vlc", "vlc"},
		{"iina", "iina"},
		{"celluloid", "celluloid"},
		{"unknown", "mpv"},
	}
	for _, tt := range tests {
		if got := New(tt.name).Name(); got != tt.want {
			t.Errorf("New(%q).Name() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestMPVArgs(t *testing.T) {
	ep := media.Episode{StreamURL: "https://cdn.example.com/x/playlist.m3u8", Series: "Show Name", Title: "2024"}
	args := mpvArgs(ep)

	if args[0] != "--force-media-title=Show Name - 2024" {
		t.Errorf("title arg = %q", args[0])
	}
	if args[len(args)-2] != "--" || args[len(args)-1] != ep.StreamURL {
		t.Errorf("stream must follow --, got %q", args)
	}
}

func TestVLCArgs(t *testing.T) {
	ep := media.Episode{StreamURL: "https://cdn.example.com/x/playlist.m3u8", Series: "Show Name"}
	args := vlcArgs(ep)

	if args[0] != "--meta-title" || args[1] != "Show Name" {
		t.Errorf("title args = %q", args[:2])
	}
	if args[len(args)-1] != ep.StreamURL {
		t.Errorf("last arg = %q, want stream URL", args[len(args)-1])
	}
}

func TestPlayRejectsBadURL(t *testing.T) {
	ep := media.Episode{StreamURL: "--script=evil.lua"}
	for _, name := range []string{"mpv", "vlc", "iina"} {
		if err := New(name).Play(context.Background(), ep); err == nil {
			t.Errorf("%s: Play() accepted an option-like stream URL", name)
		}
	}
}
