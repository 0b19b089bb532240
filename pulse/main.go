// Command pulse is a terminal client for the PortfolioPulse backend.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/etnz/pulse/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, "pulse")
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	completion().Complete("pulse")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion
// (COMP_LINE, or COMP_INSTALL=1 to install it).
func completion() *complete.Command {
	duration := predict.Set{"1s", "30s", "1m", "5m"}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.yaml"),
			"url":    predict.Something,
			"v":      predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"summary": {Flags: map[string]complete.Predictor{"style": predict.Set{"plain", "pt-BR"}}},
			"update": {Flags: map[string]complete.Predictor{
				"simulate": predict.Nothing,
				"quick":    predict.Nothing,
				"delay":    duration,
			}},
			"positions": {},
			"watch": {Flags: map[string]complete.Predictor{
				"status-every": duration,
				"reload-every": duration,
			}},
			"status":        {},
			"test":          {Args: predict.Set{"nord", "levante", "excel"}},
			"remote-config": {},
			"mock": {Flags: map[string]complete.Predictor{
				"addr": predict.Something,
				"step": duration,
			}},
			"assist": {},
			"help":   {},
		},
	}
}
