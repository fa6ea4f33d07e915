package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dkarlovi/narrate/narrate"
	"github.com/dkarlovi/narrate/speech"
	"github.com/dkarlovi/narrate/transcode"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Engine    string  `yaml:"engine"`
	Rate      int     `yaml:"rate"`
	Volume    float64 `yaml:"volume"`
	VoiceHint string  `yaml:"voice_hint"`
	Espeak    struct {
		Binary string `yaml:"binary"`
	} `yaml:"espeak"`
	ElevenLabs struct {
		AuthKey         string  `yaml:"auth_key"`
		Model           string  `yaml:"model"`
		VoiceID         string  `yaml:"voice_id"`
		Stability       float32 `yaml:"stability"`
		SimilarityBoost float32 `yaml:"similarity_boost"`
	} `yaml:"elevenlabs"`
	Encoder struct {
		Binary  string `yaml:"binary"`
		Quality int    `yaml:"quality"`
	} `yaml:"encoder"`
}

func defaultConfig() *Config {
	config := &Config{
		Engine:    "espeak",
		Rate:      speech.DefaultRate,
		Volume:    speech.DefaultVolume,
		VoiceHint: speech.DefaultVoiceHint,
	}
	config.ElevenLabs.Model = speech.DefaultElevenLabsModel
	config.ElevenLabs.VoiceID = speech.DefaultElevenLabsVoice
	config.ElevenLabs.Stability = speech.DefaultElevenLabsStability
	config.ElevenLabs.SimilarityBoost = speech.DefaultElevenLabsSimilarityBoost
	config.Encoder.Binary = transcode.DefaultBinary
	config.Encoder.Quality = transcode.DefaultQuality
	return config
}

// readConfig overlays the YAML file on the defaults. No filename means defaults only.
func readConfig(filename string) (*Config, error) {
	config := defaultConfig()
	if filename == "" {
		return config, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	decoder := yaml.NewDecoder(strings.NewReader(string(data)))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil {
		var typeError *yaml.TypeError
		if errors.As(err, &typeError) {
			msg := ""
			for _, field := range typeError.Errors {
				msg += fmt.Sprintf("  - <fg=red>%s</>\n", field)
			}
			return nil, fmt.Errorf("error parsing config file <info>%s</>:\n%s", filename, msg)
		}
		// an empty file decodes to EOF and keeps the defaults
		if errors.Is(err, io.EOF) {
			return config, nil
		}
		return nil, err
	}
	return config, nil
}

func (c *Config) options() narrate.Options {
	return narrate.Options{
		Rate:      c.Rate,
		Volume:    c.Volume,
		VoiceHint: c.VoiceHint,
	}
}

func (c *Config) transcoder() transcode.Transcoder {
	return transcode.NewFFmpeg(c.Encoder.Binary, c.Encoder.Quality)
}

func (c *Config) engineFactory(ctx context.Context) speech.Factory {
	return func() (speech.Engine, error) {
		switch c.Engine {
		case "", "espeak":
			eng, err := speech.NewEspeak(c.Espeak.Binary)
			if err != nil {
				return nil, err
			}
			return eng, nil
		case "elevenlabs":
			eng, err := speech.NewElevenLabs(ctx, speech.ElevenLabsOptions{
				AuthKey:         c.ElevenLabs.AuthKey,
				Model:           c.ElevenLabs.Model,
				VoiceID:         c.ElevenLabs.VoiceID,
				Stability:       c.ElevenLabs.Stability,
				SimilarityBoost: c.ElevenLabs.SimilarityBoost,
			})
			if err != nil {
				return nil, err
			}
			return eng, nil
		default:
			return nil, fmt.Errorf("unknown engine %q (supported: espeak, elevenlabs)", c.Engine)
		}
	}
}
