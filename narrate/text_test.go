package narrate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadText(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content []byte
		want    string
		err     error
	}{
		{"plain", "a.txt", []byte("Hello world.\nSecond line."), "Hello world.\nSecond line.", nil},
		{"bom stripped", "b.txt", []byte("\xEF\xBB\xBFHallo Welt."), "Hallo Welt.", nil},
		{"multibyte", "c.txt", []byte("Žuta kuća."), "Žuta kuća.", nil},
		{"invalid utf-8", "d.txt", []byte{'H', 0xff, 0xfe, 'i'}, "", ErrDecode},
		{"empty", "e.txt", []byte{}, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, tt.content, 0o644))

			got, err := LoadText(path)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadTextMissing(t *testing.T) {
	_, err := LoadText(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadTextSubtitles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "episode.srt")
	srt := "1\n00:00:01,000 --> 00:00:02,500\nHello there.\n\n2\n00:00:03,000 --> 00:00:05,000\nGeneral Kenobi.\nYou are a bold one.\n"
	require.NoError(t, os.WriteFile(path, []byte(srt), 0o644))

	got, err := LoadText(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello there.\nGeneral Kenobi.\nYou are a bold one.", got)
}
