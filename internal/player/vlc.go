package player

import (
	"context"
	"os/exec"

	"pokeflix/internal/media"
)

// VLC implements the Player interface for VLC media player.
type VLC struct{}

func (v *VLC) Name() string { return "vlc" }

func (v *VLC) Available() bool {
	_, err := exec.LookPath("vlc")
	return err == nil
}

func (v *VLC) Play(ctx context.Context, ep media.Episode) error {
	return run(ctx, "vlc", ep, vlcArgs(ep))
}

func vlcArgs(ep media.Episode) []string {
	return []string{
		"--meta-title", ep.DisplayTitle(),
		"--play-and-exit",
		ep.StreamURL,
	}
}
