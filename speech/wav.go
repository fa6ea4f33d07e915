package speech

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
)

const (
	bitDepth = 16
	// go-mp3 always decodes to 16-bit little endian stereo
	mp3Channels   = 2
	mp3FrameBytes = 4
)

// WriteWAV writes interleaved 16-bit PCM samples as a WAVE file.
func WriteWAV(path string, samples []int, sampleRate, channels int) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           samples,
		SourceBitDepth: bitDepth,
	}

	enc := wav.NewEncoder(out, sampleRate, bitDepth, channels, 1)
	if err := enc.Write(buf); err != nil {
		out.Close()
		return fmt.Errorf("failed to write audio data: %w", err)
	}
	if err := enc.Close(); err != nil {
		out.Close()
		return fmt.Errorf("failed to finalize wav header: %w", err)
	}
	return out.Close()
}

// WAVDuration reads the duration from a WAVE file header.
func WAVDuration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("%s is not a valid wav file", path)
	}
	if err := dec.FwdToPCM(); err != nil {
		return 0, err
	}
	bytesPerSec := int(dec.SampleRate) * int(dec.NumChans) * int(dec.BitDepth) / 8
	if bytesPerSec == 0 {
		return 0, fmt.Errorf("%s has an empty format chunk", path)
	}
	return time.Duration(float64(dec.PCMSize) / float64(bytesPerSec) * float64(time.Second)), nil
}

// MP3Duration decodes the stream length of an MP3 file.
func MP3Duration(path string) (time.Duration, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return 0, err
	}

	duration := float64(decoder.Length()) / (mp3FrameBytes * float64(decoder.SampleRate()))
	return time.Duration(duration * float64(time.Second)), nil
}

// decodeMP3 converts MP3 data to interleaved stereo samples scaled by volume.
func decodeMP3(data []byte, volume float64) ([]int, int, error) {
	decoder, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	pcm, err := io.ReadAll(decoder)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read audio data: %w", err)
	}

	samples := make([]int, 0, len(pcm)/2)
	for i := 0; i+1 < len(pcm); i += 2 {
		samples = append(samples, scaleSample(int16(pcm[i])|int16(pcm[i+1])<<8, volume))
	}
	return samples, decoder.SampleRate(), nil
}

func scaleSample(s int16, volume float64) int {
	v := math.Round(float64(s) * volume)
	return int(max(math.MinInt16, min(math.MaxInt16, v)))
}
