package download

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pokeflix/internal/media"
)

type call struct {
	title string
	name  string
	args  []string
}

type recorder struct {
	calls  []call
	failOn string
}

func (r *recorder) run(ctx context.Context, title, name string, args ...string) error {
	r.calls = append(r.calls, call{title: title, name: name, args: args})
	if r.failOn != "" && strings.Contains(title, r.failOn) {
		return errors.New("exit status 1")
	}
	return nil
}

func fakeLookPath(file string) (string, error) {
	return "/usr/bin/" + file, nil
}

func newTestDownloader(t *testing.T, rec *recorder, langs ...string) *Downloader {
	t.Helper()
	d, err := New(t.TempDir(), langs)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	d.Run = rec.run
	d.LookPath = fakeLookPath
	return d
}

var testEpisode = media.Episode{
	StreamURL: "https://cdn.example.com/x/playlist.m3u8?token=abc",
	Series:    "Show Name",
	Title:     "2024",
}

func TestNewUnknownLanguage(t *testing.T) {
	if _, err := New(t.TempDir(), []string{"audio_xx"}); err == nil {
		t.Error("New() should reject an unknown language")
	}
}

func TestAudioURL(t *testing.T) {
	tests := []struct {
		stream string
		id     string
		want   string
	}{
		{"https://cdn.example.com/x/playlist.m3u8", "audio_pl", "https://cdn.example.com/x/audio_pl.m3u8"},
		{"https://cdn.example.com/a/b/playlist.m3u8?token=abc", "audio_de", "https://cdn.example.com/a/b/audio_de.m3u8?token=abc"},
		{"https://cdn.example.com/playlist.m3u8", "audio_fr", "https://cdn.example.com/audio_fr.m3u8"},
	}
	for _, tt := range tests {
		got, err := AudioURL(tt.stream, tt.id)
		if err != nil {
			t.Fatalf("AudioURL(%q) error: %v", tt.stream, err)
		}
		if got != tt.want {
			t.Errorf("AudioURL(%q, %q) = %q, want %q", tt.stream, tt.id, got, tt.want)
		}
	}
}

func TestDownloadCommands(t *testing.T) {
	rec := &recorder{}
	d := newTestDownloader(t, rec, "audio_pl", "audio_de")

	out, err := d.Download(context.Background(), testEpisode)
	if err != nil {
		t.Fatalf("Download() error: %v", err)
	}

	want := filepath.Join(d.Dir, "Show Name", "2024.mkv")
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	if len(rec.calls) != 4 {
		t.Fatalf("expected 4 commands (video, 2 audio, mux), got %d", len(rec.calls))
	}
	if rec.calls[0].name != "/usr/bin/yt-dlp" {
		t.Errorf("first command = %q, want yt-dlp", rec.calls[0].name)
	}
	if last := rec.calls[0].args[len(rec.calls[0].args)-1]; last != testEpisode.StreamURL {
		t.Errorf("main download URL = %q", last)
	}
	if last := rec.calls[1].args[len(rec.calls[1].args)-1]; last != "https://cdn.example.com/x/audio_pl.m3u8?token=abc" {
		t.Errorf("polish audio URL = %q", last)
	}
	if rec.calls[2].title != "Download German Audio" {
		t.Errorf("third step = %q", rec.calls[2].title)
	}

	mux := rec.calls[3]
	if mux.name != "/usr/bin/ffmpeg" {
		t.Errorf("mux command = %q, want ffmpeg", mux.name)
	}
	joined := strings.Join(mux.args, " ")
	for _, part := range []string{
		"-map 0:v:0 -map 0:a:0 -map 1:a:0 -map 2:a:0",
		"-metadata:s:a:0 language=eng -metadata:s:a:0 title=English",
		"-metadata:s:a:1 language=pol -metadata:s:a:1 title=Polish",
		"-metadata:s:a:2 language=ger -metadata:s:a:2 title=German",
		"-c copy " + want,
	} {
		if !strings.Contains(joined, part) {
			t.Errorf("mux args missing %q:\n%s", part, joined)
		}
	}

	tempDir := filepath.Join(d.Dir, "Show Name", ".2024_temp")
	if _, err := os.Stat(tempDir); !os.IsNotExist(err) {
		t.Errorf("temp dir %s still exists after download", tempDir)
	}
}

func TestDownloadFailureCleansUp(t *testing.T) {
	rec := &recorder{failOn: "Polish"}
	d := newTestDownloader(t, rec, "audio_pl", "audio_de")

	_, err := d.Download(context.Background(), testEpisode)
	if err == nil {
		t.Fatal("Download() should fail when a step fails")
	}
	if len(rec.calls) != 2 {
		t.Errorf("expected to stop after the failing step, ran %d commands", len(rec.calls))
	}

	tempDir := filepath.Join(d.Dir, "Show Name", ".2024_temp")
	if _, err := os.Stat(tempDir); !os.IsNotExist(err) {
		t.Errorf("temp dir %s left behind after failure", tempDir)
	}
}

func TestDownloadToolMissing(t *testing.T) {
	rec := &recorder{}
	d := newTestDownloader(t, rec)
	d.LookPath = func(file string) (string, error) {
		if file == "ffmpeg" {
			return "", errors.New("not found")
		}
		return fakeLookPath(file)
	}

	_, err := d.Download(context.Background(), testEpisode)
	if !errors.Is(err, ErrToolMissing) {
		t.Errorf("Download() error = %v, want ErrToolMissing", err)
	}
	if len(rec.calls) != 0 {
		t.Error("commands ran without ffmpeg")
	}
}

func TestDownloadRejectsBadURL(t *testing.T) {
	rec := &recorder{}
	d := newTestDownloader(t, rec)

	ep := testEpisode
	ep.StreamURL = "-o/etc/passwd"
	if _, err := d.Download(context.Background(), ep); err == nil {
		t.Error("Download() accepted an option-like URL")
	}
}

func TestDownloadSanitizesNames(t *testing.T) {
	rec := &recorder{}
	d := newTestDownloader(t, rec)

	ep := testEpisode
	ep.Series = "../../etc"
	ep.Title = "a/b"
	out, err := d.Download(context.Background(), ep)
	if err != nil {
		t.Fatalf("Download() error: %v", err)
	}
	if !strings.HasPrefix(out, d.Dir+string(filepath.Separator)) {
		t.Errorf("output %q escaped %q", out, d.Dir)
	}
	if filepath.Base(out) != "a_b.mkv" {
		t.Errorf("output name = %q, want a_b.mkv", filepath.Base(out))
	}
}

func TestCopyProgress(t *testing.T) {
	in := "[youtube] Extracting\n[download]  10.0%\r[download]  55.0%\r[download] 100%\nMerging formats\nframe=  10 fps\rframe=  20 fps\r"
	var out bytes.Buffer
	copyProgress(&out, strings.NewReader(in))

	want := "[youtube] Extracting\n\r[download]  10.0%\r[download]  55.0%\r[download] 100%\nMerging formats\n\rframe=  10 fps\rframe=  20 fps\n"
	if got := out.String(); got != want {
		t.Errorf("copyProgress output:\n%q\nwant:\n%q", got, want)
	}
}

func TestCommandLine(t *testing.T) {
	got := commandLine("ffmpeg", []string{"-i", "/tmp/Show Name/video.mkv", "-metadata", `title=Say "hi"`})
	want := `ffmpeg -i "/tmp/Show Name/video.mkv" -metadata "title=Say \"hi\""`
	if got != want {
		t.Errorf("commandLine() = %q, want %q", got, want)
	}
}
