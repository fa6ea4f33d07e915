package narrate

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/asticode/go-astisub"
)

var ErrDecode = errors.New("input is not valid UTF-8 text")

var subtitleExts = map[string]bool{
	".srt":  true,
	".vtt":  true,
	".ssa":  true,
	".ass":  true,
	".stl":  true,
	".ttml": true,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// LoadText reads the whole file at path as UTF-8 text. Subtitle files are
// reduced to their spoken lines, one per line.
func LoadText(path string) (string, error) {
	if subtitleExts[strings.ToLower(filepath.Ext(path))] {
		return loadSubtitles(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", path, ErrDecode)
	}
	return string(data), nil
}

func loadSubtitles(path string) (string, error) {
	subs, err := astisub.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("error parsing subtitle file %s: %w", path, err)
	}

	lines := make([]string, 0, len(subs.Items))
	for _, item := range subs.Items {
		for _, line := range item.Lines {
			if text := strings.TrimSpace(line.String()); text != "" {
				lines = append(lines, text)
			}
		}
	}
	text := strings.Join(lines, "\n")
	if !utf8.ValidString(text) {
		return "", fmt.Errorf("%s: %w", path, ErrDecode)
	}
	return text, nil
}
