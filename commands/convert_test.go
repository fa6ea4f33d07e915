package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/dkarlovi/narrate/narrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/symfony-cli/console"
)

func TestCheckArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"one argument", []string{"in.txt"}},
		{"three arguments", []string{"in.txt", "out.mp3", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkArgs(tt.args)

			var exitErr console.ExitCoder
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 1, exitErr.ExitCode())
			assert.Contains(t, err.Error(), "Usage: narrate convert")
		})
	}

	assert.NoError(t, checkArgs([]string{"in.txt", "out.mp3"}))
}

const fakeEspeakScript = `#!/bin/sh
if [ "$1" = "--voices" ]; then
  echo "Pty Language Age/Gender VoiceName File Other Languages"
  echo " 5  en-us --/M English_(America) gmw/en-US"
  echo " 5  en-gb --/F English_(Great_Britain) gmw/en"
  exit 0
fi
while [ $# -gt 0 ]; do
  case "$1" in
    -w) out="$2"; shift ;;
  esac
  shift
done
printf 'RIFF' > "$out"
cat >> "$out"
`

const fakeFFmpegScript = `#!/bin/sh
eval out=\${$#}
printf 'MP3:' > "$out"
cat "$3" >> "$out"
`

const failingFFmpegScript = `#!/bin/sh
echo "Unknown encoder 'libmp3lame'" >&2
exit 1
`

func installScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func TestConvertWithConfiguredTools(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}

	for _, tt := range []struct {
		name     string
		ffmpeg   string
		fallback bool
		message  string
	}{
		{"encoder succeeds", fakeFFmpegScript, false, "Speech generated successfully: "},
		{"encoder fails", failingFFmpegScript, true, "Using WAV file instead: "},
	} {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			input := filepath.Join(dir, "input.txt")
			output := filepath.Join(dir, "out.mp3")
			require.NoError(t, os.WriteFile(input, []byte("Hello world."), 0o644))

			config := defaultConfig()
			config.Espeak.Binary = installScript(t, dir, "espeak-ng", fakeEspeakScript)
			config.Encoder.Binary = installScript(t, dir, "ffmpeg", tt.ffmpeg)

			var out bytes.Buffer
			ctx := context.Background()
			res, err := narrate.NewConverter(config.engineFactory(ctx), config.transcoder(), config.options(), &out).
				Convert(ctx, narrate.Request{Input: input, Output: output})
			require.NoError(t, err)

			assert.Equal(t, tt.fallback, res.Fallback)
			require.NotNil(t, res.Voice)
			assert.Equal(t, "en-gb", res.Voice.ID)
			assert.NoFileExists(t, filepath.Join(dir, "out.wav"))
			assert.Contains(t, out.String(), tt.message+output)

			data, err := os.ReadFile(output)
			require.NoError(t, err)
			if tt.fallback {
				assert.Equal(t, "RIFFHello world.", string(data))
			} else {
				assert.Equal(t, "MP3:RIFFHello world.", string(data))
			}
		})
	}
}
