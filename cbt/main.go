package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/costbasis/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	completion().Complete("cbt")

	flag.Parse()

	// Unknown subcommands are looked up as cbt-<name> extensions.
	if name := flag.Arg(0); name != "" && !registered(name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

func registered(name string) bool {
	if name == "help" || name == "flags" {
		return true
	}
	for _, c := range cmd.Commands {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// completion describes the command line for shell completion.
func completion() *complete.Command {
	jsonl := predict.Files("*.jsonl")
	window := map[string]complete.Predictor{
		"from": predict.Something,
		"to":   predict.Something,
		"p":    predict.Set{"day", "week", "month", "quarter", "year"},
		"d":    predict.Something,
	}
	with := func(flags map[string]complete.Predictor, more map[string]complete.Predictor) map[string]complete.Predictor {
		all := make(map[string]complete.Predictor, len(flags)+len(more))
		for k, v := range flags {
			all[k] = v
		}
		for k, v := range more {
			all[k] = v
		}
		return all
	}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"transactions": jsonl,
			"transfers":    jsonl,
			"marks":        jsonl,
			"currency":     predict.Something,
			"plain":        predict.Nothing,
			"v":            predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"events": {Flags: with(window, map[string]complete.Predictor{"json": predict.Nothing}), Args: predict.Something},
			"basis": {Flags: with(window, map[string]complete.Predictor{
				"json":    predict.Nothing,
				"price":   predict.Something,
				"balance": predict.Something,
			}), Args: predict.Something},
			"report": {Flags: with(window, map[string]complete.Predictor{"json": predict.Nothing})},
			"import": {Flags: map[string]complete.Predictor{
				"mapping": predict.Files("*.yaml"),
				"append":  predict.Nothing,
			}, Args: predict.Files("*.json")},
			"topic":  {Args: predict.Set{"readme", "ledger", "basis", "import", "report", "*"}},
			"assist": {Flags: window, Args: predict.Something},
		},
	}
}
