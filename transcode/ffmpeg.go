package transcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	DefaultBinary = "ffmpeg"
	// DefaultQuality is the VBR quality scale passed to the encoder (lower is better).
	DefaultQuality = 2

	stderrTailLines = 5
)

// Transcoder converts the audio file at src into dst.
type Transcoder interface {
	Transcode(ctx context.Context, src, dst string) error
}

var codecs = map[string]string{
	".mp3":  "libmp3lame",
	".ogg":  "libvorbis",
	".oga":  "libvorbis",
	".opus": "libopus",
	".m4a":  "aac",
	".aac":  "aac",
	".flac": "flac",
}

// Codec returns the ffmpeg audio codec used for the extension of path.
func Codec(path string) string {
	if c, ok := codecs[strings.ToLower(filepath.Ext(path))]; ok {
		return c
	}
	return codecs[".mp3"]
}

// ExitError is returned when the encoder ran but did not exit cleanly.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("encoder exited with status %d", e.Code)
	}
	return fmt.Sprintf("encoder exited with status %d: %s", e.Code, e.Stderr)
}

type FFmpeg struct {
	Binary  string
	Quality int
}

func NewFFmpeg(binary string, quality int) *FFmpeg {
	if binary == "" {
		binary = DefaultBinary
	}
	// 0 is the best VBR setting, only negative values mean unset
	if quality < 0 {
		quality = DefaultQuality
	}
	return &FFmpeg{Binary: binary, Quality: quality}
}

func (f *FFmpeg) Args(src, dst string) []string {
	return []string{
		"-y",
		"-i", src,
		"-codec:a", Codec(dst),
		"-qscale:a", strconv.Itoa(f.Quality),
		dst,
	}
}

func (f *FFmpeg) Transcode(ctx context.Context, src, dst string) error {
	args := f.Args(src, dst)
	log.Debug().Str("binary", f.Binary).Strs("args", args).Msg("Running encoder")

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.Binary, args...)
	cmd.Stderr = &stderr
	err := cmd.Run()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Code: exitErr.ExitCode(), Stderr: tail(stderr.String(), stderrTailLines)}
	}
	if err != nil {
		return fmt.Errorf("running %s: %w", f.Binary, err)
	}
	return nil
}

func tail(s string, n int) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
