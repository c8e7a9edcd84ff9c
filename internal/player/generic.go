package player

import (
	"context"
	"os/exec"

	"pokeflix/internal/media"
)

// Generic implements the Player interface for players like iina and celluloid
// that accept mpv-compatible arguments.
type Generic struct {
	name string
}

func (g *Generic) Name() string { return g.name }

func (g *Generic) Available() bool {
	_, err := exec.LookPath(g.name)
	return err == nil
}

func (g *Generic) Play(ctx context.Context, ep media.Episode) error {
	// Both iina and celluloid accept mpv-style flags
	return run(ctx, g.name, ep, []string{
		"--force-media-title=" + ep.DisplayTitle(),
		ep.StreamURL,
	})
}
