// Command mc is the moneyclip bookkeeping CLI.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/alphavelocity/moneyclip/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// A .env next to the binary may set MONEYCLIP_DB and friends.
	_ = godotenv.Load()

	name := path.Base(os.Args[0])
	commander := subcommands.NewCommander(flag.CommandLine, name)
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	completion := &complete.Command{
		Flags: map[string]complete.Predictor{
			"db": predict.Files("*.sqlite"),
			"v":  predict.Nothing,
		},
		Sub: make(map[string]*complete.Command),
	}
	for _, c := range cmd.Commands {
		commander.Register(c, "")
		completion.Sub[c.Name()] = &complete.Command{}
	}
	// Handles shell completion requests and exits when one is detected.
	completion.Complete(name)

	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *cmd.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	os.Exit(int(commander.Execute(context.Background())))
}
