// Package targets implements the target listing command.
package targets

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/devpurge/devpurge/scanner"
)

type Command struct {
	include string
	exclude string
}

func (*Command) Name() string     { return "targets" }
func (*Command) Synopsis() string { return "List the directory names a scan looks for" }
func (*Command) Usage() string {
	return `targets [-include names] [-exclude names]:
  Print the effective target list with category and kind for each entry.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.include, "include", "", "comma-separated additional target directory names")
	f.StringVar(&c.exclude, "exclude", "", "comma-separated target directory names to skip")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	targets := scanner.BuildTargetMap(
		scanner.ParseTargetList(c.include),
		scanner.ParseTargetList(c.exclude),
	)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tKIND")
	for _, name := range scanner.SortedTargetNames(targets) {
		def := targets[name]
		category := def.Category
		if info, ok := scanner.CategoryFor(def.Category); ok {
			category = info.DisplayName
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", def.Name, category, def.Kind)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, "Error writing output:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
