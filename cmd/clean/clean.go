// Package clean implements the interactive scan-and-purge command.
package clean

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/subcommands"

	"github.com/devpurge/devpurge/config"
	"github.com/devpurge/devpurge/history"
	"github.com/devpurge/devpurge/logging"
	"github.com/devpurge/devpurge/purge"
	"github.com/devpurge/devpurge/scanner"
	"github.com/devpurge/devpurge/tui"
)

type Command struct {
	include    string
	exclude    string
	depth      int
	configPath string
	noConfirm  bool
	practice   bool

	includeSet bool
	excludeSet bool
	depthSet   bool
}

func (*Command) Name() string     { return "clean" }
func (*Command) Synopsis() string { return "Scan a directory tree and purge selected items" }
func (*Command) Usage() string {
	return `clean [-include names] [-exclude names] [-depth n] [-config path] [-no-confirm] [-practice] [root]:
  Scan root (default ".") for reclaimable dev directories and open the
  interactive purge view. In practice mode nothing is removed.
`
}

func (c *Command) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.include, "include", "", "comma-separated additional target directory names")
	f.StringVar(&c.exclude, "exclude", "", "comma-separated target directory names to skip")
	f.IntVar(&c.depth, "depth", 0, "maximum directory depth to scan (0 = unlimited)")
	f.StringVar(&c.configPath, "config", "", "path to a config file")
	f.BoolVar(&c.noConfirm, "no-confirm", false, "purge without confirmation prompts")
	f.BoolVar(&c.practice, "practice", false, "report what would be purged without removing anything")
}

func (c *Command) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "include":
			c.includeSet = true
		case "exclude":
			c.excludeSet = true
		case "depth":
			c.depthSet = true
		}
	})

	root := "."
	if f.NArg() > 0 {
		root = f.Arg(0)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error resolving path:", err)
		return subcommands.ExitFailure
	}

	rootHandle, err := os.OpenRoot(absRoot)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error opening root:", err)
		return subcommands.ExitFailure
	}
	defer rootHandle.Close()

	cfg := config.Default()
	if path, ok, err := config.Resolve(absRoot, c.configPath); err != nil {
		fmt.Fprintln(os.Stderr, "Error resolving config:", err)
		return subcommands.ExitFailure
	} else if ok {
		cfg, err = config.Load(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error loading config:", err)
			return subcommands.ExitFailure
		}
	}

	includes := cfg.Include
	excludes := cfg.Exclude
	depth := cfg.Depth
	if c.includeSet {
		includes = scanner.ParseTargetList(c.include)
	}
	if c.excludeSet {
		excludes = scanner.ParseTargetList(c.exclude)
	}
	if c.depthSet {
		depth = c.depth
	}
	confirm := cfg.Confirm && !c.noConfirm
	live := cfg.Live && !c.practice

	log, closeLog, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error opening log:", err)
		return subcommands.ExitFailure
	}
	defer closeLog()

	var onRecord func(purge.Record)
	if cfg.HistoryDB != "" {
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			// History is best effort; a broken db should not block a purge.
			log.Warn().Err(err).Str("path", cfg.HistoryDB).Msg("history unavailable")
		} else {
			defer store.Close()
			onRecord = func(rec purge.Record) {
				if err := store.Save(rec); err != nil {
					log.Error().Err(err).Str("record", rec.ID).Msg("save purge record")
				}
			}
		}
	}

	m := tui.New(ctx, tui.Options{
		Root:       absRoot,
		RootHandle: rootHandle,
		Targets:    scanner.BuildTargetMap(includes, excludes),
		MaxDepth:   depth,
		SkipDirs:   scanner.MergeSkipDirs(scanner.DefaultSkipDirs(), cfg.Skip),
		Confirm:    confirm,
		Live:       live,
		Log:        log,
		OnRecord:   onRecord,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
