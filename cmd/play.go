package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pokeflix/internal/extract"
	"pokeflix/internal/player"
	"pokeflix/internal/source"
)

var playCmd = &cobra.Command{
	Use:   "play [page.html | - | browser]",
	Short: "Play the page's stream in a media player",
	Args:  cobra.MaximumNArgs(1),
	RunE:  playRun,
}

func playRun(cmd *cobra.Command, args []string) error {
	src := source.FromArg(sourceArg(args), cfg.BrowserURL)
	doc, err := src.Load(cmd.Context())
	if err != nil {
		return err
	}

	result := extract.Extract(doc)
	if result.StreamURL == "" {
		return fmt.Errorf("%s: %w", src.Name(), extract.ErrNoStream)
	}

	p := player.New(cfg.Player)
	if !p.Available() {
		return fmt.Errorf("player %q not found in PATH", cfg.Player)
	}

	ep := result.Episode()
	log.Info().Str("player", p.Name()).Str("title", ep.DisplayTitle()).Msg("playing")
	if err := p.Play(cmd.Context(), ep); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}
