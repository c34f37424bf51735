package cli

import (
	"fmt"

	"github.com/idilsaglam/pocket/internal/calc"
	"github.com/idilsaglam/pocket/internal/tui"
	"github.com/idilsaglam/pocket/internal/ui"
)

// doCalcEval presses every character of args in order and prints the
// display. "12*3=" and "1 2 * 3 =" are the same input.
func (r *Runner) doCalcEval(args []string) int {
	var symbols []string
	for _, a := range args {
		for _, c := range a {
			symbols = append(symbols, string(c))
		}
	}
	s := calc.Eval(symbols...)
	if s.Fault != "" {
		ui.Fail(r.Err, s.Fault)
		return 1
	}
	fmt.Fprintln(r.Out, s.Display())
	return 0
}

func (r *Runner) doCalcTUI() int {
	ctx, closeLog := r.commandContext(true)
	defer closeLog()
	if err := tui.RunCalc(ctx, r.Config.Calc.ErrorDelay); err != nil {
		ui.Fail(r.Err, "tui: "+err.Error())
		return 1
	}
	return 0
}
