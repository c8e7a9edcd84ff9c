// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pokeflix/internal/clipboard"
	"pokeflix/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagClipboard   string
	flagBrowser     string
	flagPlayer      string
	flagDownloadDir string
	flagLanguages   []string
	flagDebug       bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "pokeflix [page.html | - | browser]",
	Short: "Copy an episode's stream URL and title as a download command",
	Long: `Pokeflix reads the episode page open in your browser (or a saved copy),
finds the HLS playlist URL and the show's title, and copies them as

  script.py "<playlist.m3u8 URL>" "<series>" "<title>"

Run without arguments for the one-button popup. Start Chromium with
--remote-debugging-port=9222 so pokeflix can read the focused tab.`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              popupRun,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagClipboard, "clipboard", "c", "", "Clipboard backend: "+strings.Join(clipboard.Backends, " | "))
	rootCmd.PersistentFlags().StringVarP(&flagBrowser, "browser", "b", "", "DevTools address of the running browser (port, host:port or ws:// URL)")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Media player: mpv | vlc | iina | celluloid")
	rootCmd.PersistentFlags().StringVarP(&flagDownloadDir, "download-dir", "d", "", "Directory series folders are created in")
	rootCmd.PersistentFlags().StringSliceVarP(&flagLanguages, "lang", "l", nil, "Extra audio tracks to download, e.g. audio_pl,audio_de")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagClipboard != "" {
		cfg.Clipboard = flagClipboard
	}
	if flagBrowser != "" {
		cfg.BrowserURL = flagBrowser
	}
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flagDownloadDir != "" {
		cfg.DownloadDir = flagDownloadDir
	}
	if cmd.Flags().Changed("lang") {
		cfg.Languages = flagLanguages
	}
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	setupLogging(cfg.Debug)
	return nil
}

func setupLogging(debug bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func newClipboard() (clipboard.Writer, error) {
	return clipboard.New(cfg.Clipboard, os.Stderr, os.Stdout)
}

func sourceArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("pokeflix " + Version)
	},
}
