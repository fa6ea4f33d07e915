package main

import (
	"os"

	"github.com/dkarlovi/narrate/commands"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/symfony-cli/console"
)

var (
	// version is overridden at linking time
	version = "dev"
	// buildDate is overridden at linking time
	buildDate string
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})

	app := &console.Application{
		Name:        "narrate",
		Usage:       "Convert text files to narrated audio",
		Description: "Reads a text (or subtitle) file, synthesizes it with a text-to-speech engine and encodes the result with ffmpeg, falling back to the uncompressed WAV file when encoding fails.",
		Version:     version,
		BuildDate:   buildDate,
		Channel:     "stable",
		Flags:       commands.GlobalFlags(),
		Commands:    commands.All(),
	}

	app.Run(os.Args)
}
