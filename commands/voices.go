package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/dkarlovi/narrate/speech"
	"github.com/symfony-cli/console"
)

func RunVoices(c *console.Context) error {
	setupLogging()

	config, err := readConfig(c.String("config"))
	if err != nil {
		return console.Exit(fmt.Sprintf("Error reading config: %s", escape(err.Error())), 1)
	}

	eng, err := config.engineFactory(context.Background())()
	if err != nil {
		return console.Exit(fmt.Sprintf("Error initializing speech engine: %s", escape(err.Error())), 1)
	}
	defer eng.Close()

	voices, err := eng.Voices()
	if err != nil {
		return console.Exit(fmt.Sprintf("Error listing voices: %s", escape(err.Error())), 1)
	}

	writeVoices(c.App.Writer, voices, config.VoiceHint)
	return nil
}

// writeVoices lists voices, marking the one the hint selects.
func writeVoices(w io.Writer, voices []speech.Voice, hint string) {
	selected, err := speech.SelectVoice(voices, hint)
	matched := err == nil
	if !matched {
		fmt.Fprintf(w, "No voice matches <comment>%s</>, the engine default will be used\n", escape(hint))
	}
	for _, v := range voices {
		marker := " "
		if matched && v.ID == selected.ID {
			marker = "<info>*</>"
		}
		fmt.Fprintf(w, "%s %-40s <fg=gray>%s</>\n", marker, escape(v.Name), escape(v.ID))
	}
}
