package purger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/devpurge/devpurge/purge"
	"github.com/devpurge/devpurge/scanner"
)

// Purger deletes a snapshot of selected items. It is the run delegate of
// the purge workflow: one Run per instance, reporting per-item progress and
// producing the terminal record. In practice mode (live == false) nothing
// is removed; the run only tallies what would have been purged.
type Purger struct {
	root  *os.Root
	items []scanner.FoundItem
	live  bool
	log   zerolog.Logger

	mu      sync.Mutex
	outcome *purge.PurgeOutcome
}

func New(root *os.Root, items []scanner.FoundItem, live bool, log zerolog.Logger) *Purger {
	return &Purger{
		root:  root,
		items: append([]scanner.FoundItem(nil), items...),
		live:  live,
		log:   log,
	}
}

// Run purges every item in the snapshot. A failing item is logged and
// recorded in the outcome's failed ids; it never aborts the rest. The
// delegate stops reporting before it returns.
func (p *Purger) Run(ctx context.Context, rep purge.Reporter) (*purge.Record, error) {
	if p.root == nil {
		return nil, errors.New("purge: root handle is nil")
	}

	var artifacts, caches purge.ResultInfo
	var failed []string
	total := len(p.items)

	for i, item := range p.items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := p.purgeOne(item); err != nil {
			p.log.Error().Err(err).Str("path", item.RelPath).Msg("purge failed")
			failed = append(failed, item.ID())
		} else {
			switch item.Kind {
			case scanner.KindCache:
				caches.Size += item.Bytes
				caches.Count++
			default:
				artifacts.Size += item.Bytes
				artifacts.Count++
			}
			p.log.Info().
				Str("path", item.RelPath).
				Int64("bytes", item.Bytes).
				Bool("live", p.live).
				Msg("purged")
		}

		if rep != nil {
			rep.Report(purge.Progress{
				Details: item.Name(),
				Current: i + 1,
				Total:   total,
			})
		}
	}

	record := purge.NewRecord(artifacts, caches)
	p.mu.Lock()
	p.outcome = &purge.PurgeOutcome{Record: record, FailedIDs: failed}
	p.mu.Unlock()
	return &record, nil
}

// Outcome returns the result of a completed run, nil before the run ends.
func (p *Purger) Outcome() *purge.PurgeOutcome {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outcome
}

func (p *Purger) purgeOne(item scanner.FoundItem) error {
	cleaned, err := validatePath(item.RelPath)
	if err != nil {
		return err
	}
	if !p.live {
		return nil
	}
	return p.root.RemoveAll(cleaned)
}

func validatePath(relPath string) (string, error) {
	if relPath == "" {
		return "", errors.New("purge: empty path")
	}
	cleaned := filepath.Clean(relPath)
	if cleaned == "." || cleaned == string(os.PathSeparator) {
		return "", errors.New("purge: refusing to delete root")
	}
	if filepath.IsAbs(cleaned) {
		return "", errors.New("purge: absolute paths are not allowed")
	}
	return cleaned, nil
}
