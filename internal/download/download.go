// Package download fetches an episode with yt-dlp, adds the configured extra
// audio tracks, and muxes everything into one MKV with ffmpeg. Every tool is
// run with an explicit argument slice, never through a shell.
package download

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"pokeflix/internal/media"
	"pokeflix/internal/sanitize"
)

// ErrToolMissing means yt-dlp or ffmpeg is not in PATH.
var ErrToolMissing = errors.New("required tool not found in PATH")

// Runner executes one external command to completion. title labels the step.
type Runner func(ctx context.Context, title, name string, args ...string) error

// Downloader turns an episode into <Dir>/<series>/<title>.mkv.
type Downloader struct {
	Dir       string
	Languages []media.Language

	Run      Runner
	LookPath func(file string) (string, error)
}

// New creates a Downloader writing below dir with the given extra audio
// languages (playlist stems such as "audio_pl").
func New(dir string, languages []string) (*Downloader, error) {
	d := &Downloader{
		Dir:      dir,
		Run:      ExecRunner(os.Stderr),
		LookPath: exec.LookPath,
	}
	for _, id := range languages {
		l, ok := media.LookupLanguage(id)
		if !ok {
			return nil, fmt.Errorf("unknown audio language %q", id)
		}
		d.Languages = append(d.Languages, l)
	}
	return d, nil
}

// Download fetches ep and returns the path of the finished file.
func (d *Downloader) Download(ctx context.Context, ep media.Episode) (string, error) {
	if err := sanitize.StreamURL(ep.StreamURL); err != nil {
		return "", fmt.Errorf("invalid stream URL: %w", err)
	}

	ytdlp, err := d.LookPath("yt-dlp")
	if err != nil {
		return "", fmt.Errorf("%w: yt-dlp", ErrToolMissing)
	}
	ffmpeg, err := d.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("%w: ffmpeg", ErrToolMissing)
	}

	series := ep.Series
	if series == "" {
		series = ep.Title
	}
	title := ep.Title
	if title == "" {
		title = series
	}

	seriesDir, err := sanitize.Join(d.Dir, series)
	if err != nil {
		return "", fmt.Errorf("invalid series directory: %w", err)
	}
	outputPath, err := sanitize.Join(seriesDir, title+".mkv")
	if err != nil {
		return "", fmt.Errorf("invalid output path: %w", err)
	}
	tempDir := filepath.Join(seriesDir, "."+sanitize.Filename(title)+"_temp")

	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return "", fmt.Errorf("creating temp directory: %w", err)
	}
	defer func() {
		log.Debug().Str("dir", tempDir).Msg("cleaning up temporary files")
		os.RemoveAll(tempDir)
	}()

	logger := log.With().Str("component", "download").Str("series", series).Str("title", title).Logger()

	logger.Info().Msg("downloading main video")
	mainPath := filepath.Join(tempDir, "video_en.mkv")
	if err := d.Run(ctx, "Download Main Video + English Audio", ytdlp, mainArgs(ep.StreamURL, mainPath)...); err != nil {
		return "", fmt.Errorf("downloading main video: %w", err)
	}

	var audioPaths []string
	for _, lang := range d.Languages {
		audioURL, err := AudioURL(ep.StreamURL, lang.ID)
		if err != nil {
			return "", err
		}
		logger.Info().Str("language", lang.Name).Msg("downloading audio")
		audioPath := filepath.Join(tempDir, lang.ID+".m4a")
		if err := d.Run(ctx, fmt.Sprintf("Download %s Audio", lang.Name), ytdlp, audioArgs(audioURL, audioPath)...); err != nil {
			return "", fmt.Errorf("downloading %s audio: %w", lang.Name, err)
		}
		audioPaths = append(audioPaths, audioPath)
	}

	logger.Info().Int("audio_tracks", len(audioPaths)+1).Msg("muxing video and audio tracks")
	args := muxArgs(mainPath, audioPaths, d.Languages, ep.DisplayTitle(), outputPath)
	if err := d.Run(ctx, "Muxing final video file", ffmpeg, args...); err != nil {
		os.Remove(outputPath)
		return "", fmt.Errorf("muxing: %w", err)
	}

	logger.Info().Str("path", outputPath).Msg("download complete")
	return outputPath, nil
}

// AudioURL derives the playlist of an extra audio track: the stream URL with
// its last path element replaced by <id>.m3u8.
func AudioURL(streamURL, id string) (string, error) {
	u, err := url.Parse(streamURL)
	if err != nil {
		return "", fmt.Errorf("parsing stream URL: %w", err)
	}
	u.Path = path.Join(path.Dir(u.Path), id+".m3u8")
	u.RawPath = ""
	return u.String(), nil
}

func mainArgs(streamURL, output string) []string {
	return []string{
		"-f", "bestvideo+bestaudio/best",
		"--merge-output-format", "mkv",
		"--output", output,
		"--", streamURL,
	}
}

func audioArgs(audioURL, output string) []string {
	return []string{
		"--output", output,
		"--", audioURL,
	}
}

// muxArgs maps video and English audio from the main file, then the first
// audio stream of each extra file, labelling every track.
func muxArgs(mainPath string, audioPaths []string, langs []media.Language, title, output string) []string {
	args := []string{"-y", "-i", mainPath}
	for _, p := range audioPaths {
		args = append(args, "-i", p)
	}

	args = append(args, "-map", "0:v:0", "-map", "0:a:0")
	for i := range audioPaths {
		args = append(args, "-map", fmt.Sprintf("%d:a:0", i+1))
	}

	args = append(args,
		"-metadata:s:a:0", "language=eng",
		"-metadata:s:a:0", "title=English",
	)
	for i := range audioPaths {
		lang := langs[i]
		stream := fmt.Sprintf("-metadata:s:a:%d", i+1)
		args = append(args,
			stream, "language="+lang.ISO,
			stream, "title="+lang.Name,
		)
	}

	args = append(args,
		"-metadata", "title="+title,
		"-c", "copy",
		output,
	)
	return args
}
