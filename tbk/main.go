package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/Lucas-Abner/tradebook/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	complete.Complete("tbk", completion())

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")
	commander.Register(commander.CommandsCommand(), "help")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion.
func completion() *complete.Command {
	timeFlags := map[string]complete.Predictor{
		"at": predict.Something,
		"m":  predict.Nothing,
	}
	amountFlags := map[string]complete.Predictor{
		"a":  predict.Something,
		"at": timeFlags["at"],
		"m":  timeFlags["m"],
	}
	tradeFlags := map[string]complete.Predictor{
		"s":  predict.Something,
		"q":  predict.Something,
		"at": timeFlags["at"],
		"m":  timeFlags["m"],
	}
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"create": {Flags: map[string]complete.Predictor{
				"a": predict.Something,
				"c": predict.Something,
			}},
			"deposit":  {Flags: amountFlags},
			"withdraw": {Flags: amountFlags},
			"buy":      {Flags: tradeFlags},
			"sell":     {Flags: tradeFlags},
			"statement": {Flags: map[string]complete.Predictor{
				"at": predict.Something,
			}},
			"history": {Flags: map[string]complete.Predictor{
				"s":    predict.Something,
				"u":    predict.Something,
				"sym":  predict.Something,
				"head": predict.Something,
				"tail": predict.Something,
			}},
		},
		Flags: map[string]complete.Predictor{
			"account-file": predict.Files("*.jsonl"),
			"prices-file":  predict.Files("*.yaml"),
		},
	}
}
