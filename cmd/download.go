package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pokeflix/internal/clipboard"
	"pokeflix/internal/download"
	"pokeflix/internal/extract"
	"pokeflix/internal/media"
	"pokeflix/internal/source"
)

var (
	flagPaste bool
	flagFrom  string
)

var downloadCmd = &cobra.Command{
	Use:   `download ["<url>" "<series>" "<title>" | '<copied string>']`,
	Short: "Download an episode with extra audio tracks",
	Long: `Download fetches the stream with yt-dlp, adds every configured extra
audio language, and muxes them into <download-dir>/<series>/<title>.mkv with ffmpeg.

The episode can be given as three arguments, as the string copied by pokeflix,
from the clipboard (--paste), or straight from a page (--from).`,
	Example: `  pokeflix download "https://example.com/playlist.m3u8" "My Series" "Episode 1"
  pokeflix download --paste
  pokeflix download --from browser -l audio_fr`,
	Args: cobra.MaximumNArgs(3),
	RunE: downloadRun,
}

func init() {
	downloadCmd.Flags().BoolVar(&flagPaste, "paste", false, "Read the copied string from the clipboard")
	downloadCmd.Flags().StringVar(&flagFrom, "from", "", "Extract the episode from a page (file, - or browser)")
}

func downloadRun(cmd *cobra.Command, args []string) error {
	ep, err := resolveEpisode(cmd, args)
	if err != nil {
		return err
	}
	log.Debug().Str("url", ep.StreamURL).Str("series", ep.Series).Str("title", ep.Title).Msg("episode")

	dir, err := cfg.ExpandDownloadDir()
	if err != nil {
		return fmt.Errorf("resolving download dir: %w", err)
	}

	d, err := download.New(dir, cfg.Languages)
	if err != nil {
		return err
	}

	out, err := d.Download(cmd.Context(), ep)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "\nSuccessfully created '%s' with %d audio tracks.\n", out, len(d.Languages)+1)
	return nil
}

// resolveEpisode picks the episode from --from, --paste or the arguments.
func resolveEpisode(cmd *cobra.Command, args []string) (media.Episode, error) {
	switch {
	case flagFrom != "":
		src := source.FromArg(flagFrom, cfg.BrowserURL)
		doc, err := src.Load(cmd.Context())
		if err != nil {
			return media.Episode{}, err
		}
		result := extract.Extract(doc)
		if result.StreamURL == "" {
			return media.Episode{}, fmt.Errorf("%s: %w", src.Name(), extract.ErrNoStream)
		}
		return result.Episode(), nil

	case flagPaste:
		text, err := clipboard.Read()
		if err != nil {
			return media.Episode{}, err
		}
		return extract.Parse(text)
	}

	return episodeFromArgs(args)
}

// episodeFromArgs accepts either the three positional values or a single
// copied string.
func episodeFromArgs(args []string) (media.Episode, error) {
	switch len(args) {
	case 1:
		return extract.Parse(args[0])
	case 3:
		return media.Episode{StreamURL: args[0], Series: args[1], Title: args[2]}, nil
	default:
		return media.Episode{}, fmt.Errorf(`expected "<url>" "<series>" "<title>" or one copied string, got %d arguments`, len(args))
	}
}
