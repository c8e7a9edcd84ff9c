package download

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// ExecRunner runs commands with their combined output streamed to out.
// Progress lines from yt-dlp and ffmpeg overwrite each other in place.
func ExecRunner(out io.Writer) Runner {
	return func(ctx context.Context, title, name string, args ...string) error {
		fmt.Fprintf(out, "\n----- Running: %s -----\n", title)
		fmt.Fprintln(out, commandLine(name, args))
		fmt.Fprintln(out, strings.Repeat("-", 30))

		cmd := exec.CommandContext(ctx, name, args...)

		// One pipe for both streams; ffmpeg can stall if stderr is left unread.
		pr, pw := io.Pipe()
		cmd.Stdout = pw
		cmd.Stderr = pw

		if err := cmd.Start(); err != nil {
			pw.Close()
			return fmt.Errorf("starting %s: %w", name, err)
		}

		done := make(chan struct{})
		go func() {
			copyProgress(out, pr)
			close(done)
		}()

		err := cmd.Wait()
		pw.Close()
		<-done
		fmt.Fprintln(out, "----- End Live Output -----")

		if err != nil {
			return fmt.Errorf("%s failed: %w", name, err)
		}
		return nil
	}
}

// commandLine renders a command for display, quoting arguments with spaces.
func commandLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, a := range append([]string{name}, args...) {
		if a == "" || strings.ContainsAny(a, " \t\"") {
			a = `"` + strings.ReplaceAll(a, `"`, `\"`) + `"`
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}

var progressPrefixes = []string{"[download]", "[ffmpeg]", "frame=", "size="}

func isProgress(line string) bool {
	line = strings.TrimLeft(line, " \t")
	for _, p := range progressPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// copyProgress copies r to w line by line, treating both \n and \r as line
// ends and redrawing progress lines on a single terminal row.
func copyProgress(w io.Writer, r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	scanner.Split(scanLinesOrCR)

	inProgress := false
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if isProgress(line) {
			fmt.Fprintf(w, "\r%s", strings.TrimSpace(line))
			inProgress = true
			continue
		}
		if inProgress {
			fmt.Fprintln(w)
			inProgress = false
		}
		fmt.Fprintln(w, line)
	}
	if inProgress {
		fmt.Fprintln(w)
	}
	// Drain anything left after a scanner error so the child never blocks.
	io.Copy(io.Discard, r)
}

func scanLinesOrCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
