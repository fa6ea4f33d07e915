package speech

import (
	"bufio"
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var espeakBinaries = []string{"espeak-ng", "espeak"}

// Espeak drives the espeak-ng (or legacy espeak) command line synthesizer.
type Espeak struct {
	binary string
	rate   int
	volume float64
	voice  string
	queue  []job
}

// NewEspeak locates the synthesizer binary. An empty binary means
// espeak-ng, then espeak, looked up on PATH.
func NewEspeak(binary string) (*Espeak, error) {
	candidates := espeakBinaries
	if binary != "" {
		candidates = []string{binary}
	}
	for _, bin := range candidates {
		if path, err := exec.LookPath(bin); err == nil {
			log.Debug().Str("binary", path).Msg("Using espeak synthesizer")
			return &Espeak{binary: path, rate: DefaultRate, volume: DefaultVolume}, nil
		}
	}
	return nil, fmt.Errorf("speech not available: install %s", strings.Join(candidates, " or "))
}

func (e *Espeak) SetRate(rate int) error {
	if err := validateRate(rate); err != nil {
		return err
	}
	e.rate = rate
	return nil
}

func (e *Espeak) SetVolume(volume float64) error {
	if err := validateVolume(volume); err != nil {
		return err
	}
	e.volume = volume
	return nil
}

func (e *Espeak) Voices() ([]Voice, error) {
	out, err := exec.Command(e.binary, "--voices").Output()
	if err != nil {
		return nil, fmt.Errorf("listing voices: %w", err)
	}
	return parseEspeakVoices(out), nil
}

func (e *Espeak) SetVoice(id string) error {
	e.voice = id
	return nil
}

func (e *Espeak) SaveToFile(text, path string) error {
	e.queue = append(e.queue, job{text: text, path: path})
	return nil
}

func (e *Espeak) RunAndWait() error {
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

func (e *Espeak) Close() error {
	e.queue = nil
	return nil
}

func (e *Espeak) args(path string) []string {
	// espeak amplitude is 0-200 with 100 as the default level
	args := []string{
		"-s", strconv.Itoa(e.rate),
		"-a", strconv.Itoa(int(e.volume*100 + 0.5)),
	}
	if e.voice != "" {
		args = append(args, "-v", e.voice)
	}
	return append(args, "-w", path, "--stdin")
}

func (e *Espeak) render(j job) error {
	cmd := exec.Command(e.binary, e.args(j.path)...)
	cmd.Stdin = strings.NewReader(j.text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("speech to file failed: %w\n%s", err, out)
	}
	log.Debug().Str("path", j.path).Int("chars", len(j.text)).Msg("Rendered speech")
	return nil
}

// parseEspeakVoices reads the table printed by --voices:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  en-us           --/F      English_(America)  gmw/en-US            (en 10)
func parseEspeakVoices(out []byte) []Voice {
	voices := make([]Voice, 0)
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		name := strings.ReplaceAll(fields[3], "_", " ")
		if _, gender, ok := strings.Cut(fields[2], "/"); ok {
			switch gender {
			case "F":
				name += " (female)"
			case "M":
				name += " (male)"
			}
		}
		voices = append(voices, Voice{ID: fields[1], Name: name})
	}
	return voices
}
