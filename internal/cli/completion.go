package cli

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"pocket/internal/core"
	"pocket/internal/currency"
)

// Completion describes pocketctl's subcommands and flags for shell
// completion. Calling Complete on it is a no-op unless the shell set
// COMP_LINE.
func Completion() *complete.Command {
	codes := make(predict.Set, 0, len(currency.Codes()))
	for _, c := range currency.Codes() {
		codes = append(codes, string(c))
	}

	noArgs := func(flags map[string]complete.Predictor) *complete.Command {
		return &complete.Command{Flags: flags, Args: predict.Nothing}
	}

	cmds := map[string]*complete.Command{
		"accounts":    noArgs(nil),
		"add-account": noArgs(map[string]complete.Predictor{"name": predict.Set(core.Institutions), "balance": predict.Something}),
		"edit-account": noArgs(map[string]complete.Predictor{
			"id": predict.Something, "name": predict.Something, "balance": predict.Something,
		}),
		"delete-account": noArgs(map[string]complete.Predictor{"id": predict.Something}),
		"expenses":       noArgs(nil),
		"add-expense": noArgs(map[string]complete.Predictor{
			"amount":   predict.Something,
			"category": predict.Set(core.Categories),
			"note":     predict.Something,
			"account":  predict.Something,
		}),
		"delete-expense": noArgs(map[string]complete.Predictor{"id": predict.Something}),
		"reset":          noArgs(nil),
		"history":        noArgs(map[string]complete.Predictor{"id": predict.Something}),
		"summary":        noArgs(nil),
		"currency":       {Args: codes},
		"export": noArgs(map[string]complete.Predictor{
			"format": predict.Set{"expenses", "history", "xlsx"},
			"o":      predict.Files("*"),
		}),
		"flags":    noArgs(nil),
		"commands": noArgs(nil),
	}

	names := make(predict.Set, 0, len(cmds)+1)
	for name := range cmds {
		names = append(names, name)
	}
	cmds["help"] = &complete.Command{Args: names}

	return &complete.Command{Sub: cmds}
}
