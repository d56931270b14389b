// Package history implements the purge history listing command.
package history

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/devpurge/devpurge/config"
	"github.com/devpurge/devpurge/history"
	"github.com/devpurge/devpurge/purge"
)

type Command struct {
	dbPath string
	limit  int
}

func (*Command) Name() string     { return "history" }
func (*Command) Synopsis() string { return "Show past purge runs" }
func (*Command) Usage() string {
	return `history [-db path] [-limit n]:
  Print recent purge records, newest first.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dbPath, "db", "", "history database path (default: the standard data dir)")
	f.IntVar(&c.limit, "limit", 20, "maximum number of records to show")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	path := c.dbPath
	if path == "" {
		path = config.DefaultHistoryPath()
	}

	store, err := history.Open(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error opening history:", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	recs, err := store.Recent(c.limit)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading history:", err)
		return subcommands.ExitFailure
	}
	if len(recs) == 0 {
		fmt.Println("No purge records yet.")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tARTIFACTS\tCACHES\tTOTAL")
	for _, rec := range recs {
		total := "-"
		if combined, ok := rec.CombinedSize(); ok {
			total = purge.FormatBytes(combined)
		}
		fmt.Fprintf(w, "%s\t%s (%d)\t%s (%d)\t%s\n",
			rec.Date.Local().Format("2006-01-02 15:04"),
			purge.FormatBytes(rec.Artifacts.Size), rec.Artifacts.Count,
			purge.FormatBytes(rec.Caches.Size), rec.Caches.Count,
			total,
		)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, "Error writing output:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
