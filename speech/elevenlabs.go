package speech

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/haguro/elevenlabs-go"
	"github.com/rs/zerolog/log"
)

const (
	DefaultElevenLabsModel           = "eleven_multilingual_v2"
	DefaultElevenLabsVoice           = "21m00Tcm4TlvDq8ikWAM"
	DefaultElevenLabsStability       = 0.5
	DefaultElevenLabsSimilarityBoost = 0.5

	// speed 1.0 corresponds to roughly 200 words per minute
	elevenLabsBaseRate = 200.0
	elevenLabsMinSpeed = 0.7
	elevenLabsMaxSpeed = 1.2
)

type ElevenLabsOptions struct {
	AuthKey         string
	Model           string
	VoiceID         string
	Stability       float32
	SimilarityBoost float32
	Timeout         time.Duration
}

type elevenLabsAPI interface {
	GetVoices() ([]elevenlabs.Voice, error)
	TextToSpeech(voiceID string, ttsReq elevenlabs.TextToSpeechRequest, queries ...elevenlabs.QueryFunc) ([]byte, error)
}

// ElevenLabs synthesizes speech with the ElevenLabs API and stores it as WAV.
type ElevenLabs struct {
	client elevenLabsAPI
	opts   ElevenLabsOptions
	rate   int
	volume float64
	voice  string
	queue  []job
}

func NewElevenLabs(ctx context.Context, opts ElevenLabsOptions) (*ElevenLabs, error) {
	if opts.AuthKey == "" {
		opts.AuthKey = os.Getenv("ELEVENLABS_API_KEY")
	}
	if opts.AuthKey == "" {
		return nil, fmt.Errorf("elevenlabs auth key is required (set elevenlabs.auth_key or ELEVENLABS_API_KEY)")
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	return newElevenLabs(elevenlabs.NewClient(ctx, opts.AuthKey, opts.Timeout), opts), nil
}

func newElevenLabs(client elevenLabsAPI, opts ElevenLabsOptions) *ElevenLabs {
	if opts.Model == "" {
		opts.Model = DefaultElevenLabsModel
	}
	if opts.VoiceID == "" {
		opts.VoiceID = DefaultElevenLabsVoice
	}
	if opts.Stability == 0 {
		opts.Stability = DefaultElevenLabsStability
	}
	if opts.SimilarityBoost == 0 {
		opts.SimilarityBoost = DefaultElevenLabsSimilarityBoost
	}
	return &ElevenLabs{
		client: client,
		opts:   opts,
		rate:   DefaultRate,
		volume: DefaultVolume,
		voice:  opts.VoiceID,
	}
}

func (e *ElevenLabs) SetRate(rate int) error {
	if err := validateRate(rate); err != nil {
		return err
	}
	e.rate = rate
	return nil
}

func (e *ElevenLabs) SetVolume(volume float64) error {
	if err := validateVolume(volume); err != nil {
		return err
	}
	e.volume = volume
	return nil
}

func (e *ElevenLabs) Voices() ([]Voice, error) {
	list, err := e.client.GetVoices()
	if err != nil {
		return nil, fmt.Errorf("listing voices: %w", err)
	}
	voices := make([]Voice, 0, len(list))
	for _, v := range list {
		name := v.Name
		if gender := v.Labels["gender"]; gender != "" {
			name = fmt.Sprintf("%s (%s)", name, gender)
		}
		voices = append(voices, Voice{ID: v.VoiceId, Name: name})
	}
	return voices, nil
}

func (e *ElevenLabs) SetVoice(id string) error {
	e.voice = id
	return nil
}

func (e *ElevenLabs) SaveToFile(text, path string) error {
	e.queue = append(e.queue, job{text: text, path: path})
	return nil
}

func (e *ElevenLabs) RunAndWait() error {
	for len(e.queue) > 0 {
		j := e.queue[0]
		e.queue = e.queue[1:]
		if err := e.render(j); err != nil {
			e.queue = nil
			return err
		}
	}
	return nil
}

func (e *ElevenLabs) Close() error {
	e.queue = nil
	return nil
}

func (e *ElevenLabs) speed() float32 {
	return float32(max(elevenLabsMinSpeed, min(elevenLabsMaxSpeed, float64(e.rate)/elevenLabsBaseRate)))
}

func (e *ElevenLabs) render(j job) error {
	log.Info().Str("voice", e.voice).Int("chars", len(j.text)).Msg("Requesting speech from ElevenLabs")
	ttsReq := elevenlabs.TextToSpeechRequest{
		Text:    j.text,
		ModelID: e.opts.Model,
		VoiceSettings: &elevenlabs.VoiceSettings{
			Stability:       e.opts.Stability,
			SimilarityBoost: e.opts.SimilarityBoost,
			SpeakerBoost:    true,
			Speed:           e.speed(),
		},
	}

	speech, err := e.client.TextToSpeech(e.voice, ttsReq)
	if err != nil {
		return fmt.Errorf("elevenlabs text to speech: %w", err)
	}

	samples, sampleRate, err := decodeMP3(speech, e.volume)
	if err != nil {
		return err
	}
	return WriteWAV(j.path, samples, sampleRate, mp3Channels)
}
