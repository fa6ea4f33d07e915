package commands

import (
	"context"
	"fmt"

	"github.com/dkarlovi/narrate/narrate"
	"github.com/rs/zerolog/log"
	"github.com/symfony-cli/console"
)

const (
	usage = "Usage: narrate convert INPUT_TEXT_FILE OUTPUT_AUDIO_FILE"

	exitFallback = 2
)

func checkArgs(args []string) error {
	if len(args) != 2 {
		return console.Exit(usage, 1)
	}
	return nil
}

func RunConvert(c *console.Context) error {
	args := c.Args().Slice()
	if err := checkArgs(args); err != nil {
		return err
	}
	setupLogging()

	config, err := readConfig(c.String("config"))
	if err != nil {
		return console.Exit(fmt.Sprintf("Error reading config: %s", escape(err.Error())), 1)
	}
	log.Info().Str("engine", config.Engine).Int("rate", config.Rate).Float64("volume", config.Volume).Msg("Starting conversion")

	ctx := context.Background()
	converter := narrate.NewConverter(config.engineFactory(ctx), config.transcoder(), config.options(), c.App.Writer).WithEscaper(escape)
	res, err := converter.Convert(ctx, narrate.Request{Input: args[0], Output: args[1]})
	if err != nil {
		return console.Exit(fmt.Sprintf("Error: %s", escape(err.Error())), 1)
	}

	if res.Voice != nil {
		fmt.Fprintf(c.App.Writer, "Voice:  <comment>%s</>\n", escape(res.Voice.Name))
	}
	if res.Fallback {
		fmt.Fprintf(c.App.Writer, "Output: <fg=yellow>%s</> (uncompressed WAV)\n", escape(res.Output))
		if c.Bool("strict") {
			return console.Exit("Encoding failed, WAV fallback written", exitFallback)
		}
		return nil
	}
	fmt.Fprintf(c.App.Writer, "Output: <info>%s</>\n", escape(res.Output))
	return nil
}
