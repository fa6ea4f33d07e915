package commands

import (
	"github.com/rs/zerolog"
	"github.com/symfony-cli/console"
	"github.com/symfony-cli/terminal"
)

// GlobalFlags are the application level flags shared by every command.
func GlobalFlags() []console.Flag {
	return []console.Flag{
		&console.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to an optional config YAML file",
		},
	}
}

func All() []*console.Command {
	return []*console.Command{
		{
			Name:        "convert",
			Usage:       "Narrate a text file into an audio file",
			Description: "Synthesizes INPUT_TEXT_FILE to a WAV file next to OUTPUT_AUDIO_FILE and encodes it with ffmpeg. When encoding fails the WAV file is moved to OUTPUT_AUDIO_FILE instead.",
			// all optional so checkArgs reports a wrong count with our usage line
			Args: console.ArgDefinition{
				{Name: "input", Optional: true, Description: "Text or subtitle file to narrate"},
				{Name: "output", Optional: true, Description: "Audio file to write, its extension selects the format"},
				{Name: "extra", Optional: true, Slice: true},
			},
			Flags: []console.Flag{
				&console.BoolFlag{
					Name:  "strict",
					Usage: "Exit with status 2 when the WAV fallback was used",
				},
			},
			Action: RunConvert,
		},
		{
			Name:   "voices",
			Usage:  "List the voices of the configured speech engine",
			Action: RunVoices,
		},
	}
}

// setupLogging follows the console verbosity (-v, -vv, -vvv, --log-level).
func setupLogging() {
	level, ok := terminal.LogLevels[terminal.GetLogLevel()]
	if !ok {
		level = zerolog.ErrorLevel
	}
	zerolog.SetGlobalLevel(level)
}

// escape protects user supplied text from console markup.
func escape(s string) string {
	if s == "" {
		return s
	}
	return string(terminal.Escape([]byte(s)))
}
