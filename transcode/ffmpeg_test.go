package transcode

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"narration.mp3", "libmp3lame"},
		{"narration.MP3", "libmp3lame"},
		{"narration.ogg", "libvorbis"},
		{"narration.opus", "libopus"},
		{"narration.m4a", "aac"},
		{"narration.flac", "flac"},
		{"narration", "libmp3lame"},
		{"narration.xyz", "libmp3lame"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Codec(tt.path))
		})
	}
}

func TestFFmpegArgs(t *testing.T) {
	f := NewFFmpeg("", -1)

	assert.Equal(t, DefaultBinary, f.Binary)
	assert.Equal(t, []string{
		"-y", "-i", "out.wav", "-codec:a", "libmp3lame", "-qscale:a", "2", "out.mp3",
	}, f.Args("out.wav", "out.mp3"))
}

func TestFFmpegQuality(t *testing.T) {
	tests := []struct {
		quality int
		want    int
	}{
		{-1, DefaultQuality},
		{0, 0},
		{DefaultQuality, DefaultQuality},
		{9, 9},
	}
	for _, tt := range tests {
		f := NewFFmpeg("", tt.quality)
		assert.Equal(t, tt.want, f.Quality, "quality %d", tt.quality)
	}
	assert.Contains(t, strings.Join(NewFFmpeg("", 0).Args("in.wav", "out.mp3"), " "), "-qscale:a 0 ")
}

func TestFFmpegMissingBinary(t *testing.T) {
	f := NewFFmpeg(filepath.Join(t.TempDir(), "no-such-ffmpeg"), DefaultQuality)

	err := f.Transcode(context.Background(), "in.wav", "out.mp3")
	require.Error(t, err)
	var exitErr *ExitError
	assert.False(t, errors.As(err, &exitErr), "launch failures are not exit errors")
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	require.NoError(t, os.WriteFile(bin, []byte("#!/bin/sh\n"+body), 0o755))
	return bin
}

func TestFFmpegTranscode(t *testing.T) {
	// last argument is the output, third is the input
	bin := writeScript(t, `eval out=\${$#}
cp "$3" "$out"
`)
	dir := t.TempDir()
	src := filepath.Join(dir, "in.wav")
	dst := filepath.Join(dir, "out.mp3")
	require.NoError(t, os.WriteFile(src, []byte("RIFF"), 0o644))

	require.NoError(t, NewFFmpeg(bin, DefaultQuality).Transcode(context.Background(), src, dst))
	assert.FileExists(t, dst)
}

func TestFFmpegExitError(t *testing.T) {
	bin := writeScript(t, `echo "Unknown encoder 'libmp3lame'" >&2
exit 8
`)

	err := NewFFmpeg(bin, DefaultQuality).Transcode(context.Background(), "in.wav", "out.mp3")

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 8, exitErr.Code)
	assert.Equal(t, "Unknown encoder 'libmp3lame'", exitErr.Stderr)
	assert.EqualError(t, err, "encoder exited with status 8: Unknown encoder 'libmp3lame'")
}

func TestTail(t *testing.T) {
	assert.Equal(t, "c\nd", tail("a\nb\nc\nd\n", 2))
	assert.Equal(t, "a", tail("a", 5))
}
