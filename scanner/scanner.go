package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/devpurge/devpurge/purge"
)

// Options configures a scan. RootHandle confines every filesystem access to
// the chosen root.
type Options struct {
	Root       string
	RootHandle *os.Root
	Targets    map[string]TargetDef
	MaxDepth   int
	SkipDirs   map[string]struct{}
}

func DefaultSkipDirs() map[string]struct{} {
	return map[string]struct{}{
		".git": {},
		".hg":  {},
		".svn": {},
	}
}

func MergeSkipDirs(base map[string]struct{}, extra []string) map[string]struct{} {
	if len(extra) == 0 {
		return base
	}
	if base == nil {
		base = map[string]struct{}{}
	}
	for _, item := range extra {
		if item == "" {
			continue
		}
		base[item] = struct{}{}
	}
	return base
}

// FoundItem is one reclaimable directory discovered by a scan. Its id is
// the path relative to the scan root.
type FoundItem struct {
	RelPath    string
	TargetName string
	Category   string
	Kind       TargetKind
	Bytes      int64
	Modified   time.Time
}

func (i FoundItem) ID() string   { return i.RelPath }
func (i FoundItem) Name() string { return i.RelPath }
func (i FoundItem) Size() int64  { return i.Bytes }

// Scanner walks a directory tree for target directories. It is the run
// delegate of the scan workflow: items stream through the callback,
// progress through the reporter, and the summary is the terminal payload.
type Scanner struct {
	opts   Options
	log    zerolog.Logger
	onItem func(FoundItem)
}

func New(opts Options, log zerolog.Logger, onItem func(FoundItem)) *Scanner {
	return &Scanner{opts: opts, log: log, onItem: onItem}
}

// Run walks the tree. Target directories are not descended into; their
// sizes are computed in full. Permission problems are collected as warnings
// rather than aborting the scan.
func (s *Scanner) Run(ctx context.Context, rep purge.Reporter) (*purge.ScanSummary, error) {
	if s.opts.RootHandle == nil {
		return nil, errors.New("scan: root handle is nil")
	}

	start := time.Now()
	warnings := []string{}
	visited := 0
	found := 0
	lastReport := time.Now()

	report := func(category string, force bool) {
		if rep == nil {
			return
		}
		if force || time.Since(lastReport) > 200*time.Millisecond {
			// Total 0: the walk has no known end, so progress stays
			// indeterminate.
			rep.Report(purge.Progress{Details: category, Current: found, Total: 0})
			lastReport = time.Now()
		}
	}

	maxDepth := s.opts.MaxDepth
	rootFS := s.opts.RootHandle.FS()

	err := fs.WalkDir(rootFS, ".", func(path string, entry fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				warnings = append(warnings, fmt.Sprintf("permission denied: %s", filepath.FromSlash(path)))
				return fs.SkipDir
			}
			return err
		}

		if !entry.IsDir() {
			return nil
		}

		visited++
		report("", false)
		name := entry.Name()
		if _, ok := s.opts.SkipDirs[name]; ok {
			return filepath.SkipDir
		}
		if entry.Type()&os.ModeSymlink != 0 {
			return fs.SkipDir
		}
		if maxDepth > 0 && relativeDepth(path) > maxDepth {
			return fs.SkipDir
		}

		def, ok := s.opts.Targets[name]
		if !ok {
			return nil
		}

		size, sizeErr := DirSize(ctx, s.opts.RootHandle, path)
		if sizeErr != nil {
			if errors.Is(sizeErr, fs.ErrPermission) {
				warnings = append(warnings, fmt.Sprintf("permission denied: %s", filepath.FromSlash(path)))
				return fs.SkipDir
			}
			return sizeErr
		}

		var modified time.Time
		if info, infoErr := entry.Info(); infoErr == nil {
			modified = info.ModTime()
		}

		found++
		item := FoundItem{
			RelPath:    filepath.FromSlash(path),
			TargetName: def.Name,
			Category:   def.Category,
			Kind:       def.Kind,
			Bytes:      size,
			Modified:   modified,
		}
		s.log.Debug().Str("path", item.RelPath).Int64("bytes", size).Msg("target found")
		if s.onItem != nil {
			s.onItem(item)
		}

		category := def.Category
		if c, ok := CategoryFor(def.Category); ok {
			category = c.Name()
		}
		report(category, true)
		return fs.SkipDir
	})

	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		s.log.Error().Err(err).Str("root", s.opts.Root).Msg("scan aborted")
		return nil, err
	}

	summary := &purge.ScanSummary{
		Visited:  visited,
		Found:    found,
		Warnings: warnings,
		Elapsed:  time.Since(start),
	}
	s.log.Info().
		Int("visited", summary.Visited).
		Int("found", summary.Found).
		Dur("elapsed", summary.Elapsed).
		Msg("scan complete")
	return summary, nil
}

// DirSize walks a directory below the root handle and sums file sizes.
func DirSize(ctx context.Context, root *os.Root, relPath string) (int64, error) {
	if root == nil {
		return 0, errors.New("dirsize: root handle is nil")
	}

	var size int64
	relSlash := filepath.ToSlash(relPath)
	rootFS := root.FS()

	err := fs.WalkDir(rootFS, relSlash, func(path string, entry fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if entry.Type()&os.ModeSymlink != 0 {
				return fs.SkipDir
			}
			return nil
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			return infoErr
		}
		size += info.Size()
		return nil
	})

	if err != nil {
		return 0, err
	}
	return size, nil
}

func relativeDepth(relPath string) int {
	trimmed := strings.TrimPrefix(relPath, "./")
	if trimmed == "." || trimmed == "" {
		return 0
	}
	return strings.Count(trimmed, "/")
}
