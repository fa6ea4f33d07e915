package speech

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultRate is the speaking rate in words per minute.
	DefaultRate = 150
	// DefaultVolume is the output volume on a 0.0-1.0 scale.
	DefaultVolume = 0.9
	// DefaultVoiceHint is matched against voice names when picking a voice.
	DefaultVoiceHint = "female"
)

var ErrNoVoice = errors.New("no matching voice")

type Voice struct {
	ID   string
	Name string
}

func (v Voice) String() string {
	return fmt.Sprintf("%s (%s)", v.Name, v.ID)
}

// Engine is a text to speech engine that renders text into WAV files.
// SaveToFile only queues work, RunAndWait blocks until every queued file
// has been written.
type Engine interface {
	SetRate(rate int) error
	SetVolume(volume float64) error
	Voices() ([]Voice, error)
	SetVoice(id string) error
	SaveToFile(text, path string) error
	RunAndWait() error
	Close() error
}

// Factory initializes an engine.
type Factory func() (Engine, error)

// SelectVoice returns the first voice whose name contains hint, ignoring case.
func SelectVoice(voices []Voice, hint string) (Voice, error) {
	hint = strings.ToLower(hint)
	for _, v := range voices {
		if strings.Contains(strings.ToLower(v.Name), hint) {
			return v, nil
		}
	}
	return Voice{}, ErrNoVoice
}

func validateRate(rate int) error {
	if rate <= 0 {
		return fmt.Errorf("invalid rate %d: must be positive", rate)
	}
	return nil
}

func validateVolume(volume float64) error {
	if volume < 0 || volume > 1 {
		return fmt.Errorf("invalid volume %.2f: must be between 0.0 and 1.0", volume)
	}
	return nil
}

type job struct {
	text string
	path string
}
