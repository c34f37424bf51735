package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/idilsaglam/pocket/internal/cli"
)

func main() {
	// Root flags (apply to every subcommand)
	groupPending := flag.Bool("group", false, "group output by pending/done")
	configPath := flag.String("config", "", "config file (default $POCKET_CONFIG or ~/.config/pocket/config.toml)")
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	code := cli.Run(flag.Args(), cli.Options{
		Group:      *groupPending,
		ConfigPath: *configPath,
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
