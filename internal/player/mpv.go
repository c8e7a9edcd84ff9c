package player

import (
	"context"
	"os/exec"

	"pokeflix/internal/media"
)

// MPV implements the Player interface for mpv.
type MPV struct{}

func (m *MPV) Name() string { return "mpv" }

func (m *MPV) Available() bool {
	_, err := exec.LookPath("mpv")
	return err == nil
}

func (m *MPV) Play(ctx context.Context, ep media.Episode) error {
	return run(ctx, "mpv", ep, mpvArgs(ep))
}

func mpvArgs(ep media.Episode) []string {
	return []string{
		"--force-media-title=" + ep.DisplayTitle(),
		"--really-quiet",
		"--", ep.StreamURL,
	}
}
