package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/google/subcommands"

	"github.com/devpurge/devpurge/cmd/clean"
	historycmd "github.com/devpurge/devpurge/cmd/history"
	"github.com/devpurge/devpurge/cmd/targets"
	"github.com/devpurge/devpurge/cmd/version"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&clean.Command{}, "")
	subcommands.Register(&targets.Command{}, "")
	subcommands.Register(&historycmd.Command{}, "")
	subcommands.Register(&version.Command{}, "")

	flag.Parse()

	// Running with no arguments opens the interactive clean view on the
	// current directory.
	if flag.NArg() == 0 {
		os.Args = append(os.Args, "clean")
		flag.CommandLine.Parse(os.Args[1:])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(int(subcommands.Execute(ctx)))
}
