package narrate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dkarlovi/narrate/speech"
	"github.com/dkarlovi/narrate/transcode"
	"github.com/rs/zerolog/log"
)

const wavExt = ".wav"

// Request names the text to read and where the narration goes.
type Request struct {
	Input  string
	Output string
}

// Result describes the artifact left at Output.
type Result struct {
	Output       string
	Intermediate string
	// Fallback is set when transcoding failed and Output holds the WAV file.
	Fallback  bool
	EncodeErr error
	// Voice is nil when the engine's default voice was kept.
	Voice *speech.Voice
}

type Options struct {
	Rate      int
	Volume    float64
	VoiceHint string
}

func DefaultOptions() Options {
	return Options{
		Rate:      speech.DefaultRate,
		Volume:    speech.DefaultVolume,
		VoiceHint: speech.DefaultVoiceHint,
	}
}

// Converter turns text files into narrated audio files.
type Converter struct {
	newEngine  speech.Factory
	transcoder transcode.Transcoder
	opts       Options
	out        io.Writer
	escape     func(string) string
}

// NewConverter builds a converter printing status lines to out.
func NewConverter(newEngine speech.Factory, transcoder transcode.Transcoder, opts Options, out io.Writer) *Converter {
	if out == nil {
		out = io.Discard
	}
	return &Converter{
		newEngine:  newEngine,
		transcoder: transcoder,
		opts:       opts,
		out:        out,
		escape:     func(s string) string { return s },
	}
}

// WithEscaper sets the function applied to paths and error text before they
// are written to the status output, e.g. to protect them from markup.
func (c *Converter) WithEscaper(escape func(string) string) *Converter {
	if escape != nil {
		c.escape = escape
	}
	return c
}

// IntermediatePath swaps the extension of output for .wav.
func IntermediatePath(output string) string {
	return strings.TrimSuffix(output, filepath.Ext(output)) + wavExt
}

// Convert narrates req.Input into req.Output. Only a failed transcode is
// recovered from: the WAV file is then moved to req.Output instead.
func (c *Converter) Convert(ctx context.Context, req Request) (*Result, error) {
	fmt.Fprintf(c.out, "Generating speech from %s to %s\n", c.escape(req.Input), c.escape(req.Output))

	text, err := LoadText(req.Input)
	if err != nil {
		return nil, err
	}

	eng, err := c.newEngine()
	if err != nil {
		return nil, fmt.Errorf("initializing speech engine: %w", err)
	}
	defer eng.Close()

	if err := eng.SetRate(c.opts.Rate); err != nil {
		return nil, err
	}
	if err := eng.SetVolume(c.opts.Volume); err != nil {
		return nil, err
	}

	res := &Result{Output: req.Output}
	res.Voice, err = c.selectVoice(eng)
	if err != nil {
		return nil, err
	}

	// a .wav output is already in its final format
	direct := strings.EqualFold(filepath.Ext(req.Output), wavExt)
	res.Intermediate = IntermediatePath(req.Output)
	if direct {
		res.Intermediate = req.Output
	}

	if err := eng.SaveToFile(text, res.Intermediate); err != nil {
		return nil, fmt.Errorf("synthesizing speech: %w", err)
	}
	if err := eng.RunAndWait(); err != nil {
		return nil, fmt.Errorf("synthesizing speech: %w", err)
	}
	if d, err := speech.WAVDuration(res.Intermediate); err == nil {
		log.Debug().Str("path", res.Intermediate).Dur("duration", d).Msg("Speech synthesized")
	}

	if direct {
		fmt.Fprintf(c.out, "Speech generated successfully: %s\n", c.escape(req.Output))
		return res, nil
	}

	if err := c.transcoder.Transcode(ctx, res.Intermediate, req.Output); err != nil {
		fmt.Fprintf(c.out, "Error converting to %s: %s\n", format(req.Output), c.escape(err.Error()))
		if err := os.Rename(res.Intermediate, req.Output); err != nil {
			return nil, fmt.Errorf("moving %s to %s: %w", res.Intermediate, req.Output, err)
		}
		fmt.Fprintf(c.out, "Using WAV file instead: %s\n", c.escape(req.Output))
		res.Fallback = true
		res.EncodeErr = err
		return res, nil
	}

	if err := os.Remove(res.Intermediate); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("path", res.Intermediate).Msg("Could not remove intermediate file")
	}
	if strings.EqualFold(filepath.Ext(req.Output), ".mp3") {
		if d, err := speech.MP3Duration(req.Output); err == nil {
			log.Debug().Str("path", req.Output).Dur("duration", d).Msg("Speech encoded")
		}
	}
	fmt.Fprintf(c.out, "Speech generated successfully: %s\n", c.escape(req.Output))
	return res, nil
}

// selectVoice activates the first voice matching the hint. Listing failures
// and misses keep the engine's default voice.
func (c *Converter) selectVoice(eng speech.Engine) (*speech.Voice, error) {
	if c.opts.VoiceHint == "" {
		return nil, nil
	}
	voices, err := eng.Voices()
	if err != nil {
		log.Debug().Err(err).Msg("Could not list voices, keeping default")
		return nil, nil
	}
	v, err := speech.SelectVoice(voices, c.opts.VoiceHint)
	if err != nil {
		return nil, nil
	}
	if err := eng.SetVoice(v.ID); err != nil {
		return nil, fmt.Errorf("selecting voice %s: %w", v, err)
	}
	log.Debug().Str("voice", v.Name).Str("id", v.ID).Msg("Selected voice")
	return &v, nil
}

func format(path string) string {
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		return strings.ToUpper(ext)
	}
	return "MP3"
}
