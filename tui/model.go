// Package tui is the interactive front end: a table of scan results bound
// to the selection store, with scan and purge workflows driving the
// progress surfaces.
package tui

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/devpurge/devpurge/purge"
	"github.com/devpurge/devpurge/purger"
	"github.com/devpurge/devpurge/scanner"
)

// Options configures the program. OnRecord, when set, receives every purge
// record that produced one; the caller decides where it goes.
type Options struct {
	Root       string
	RootHandle *os.Root
	Targets    map[string]scanner.TargetDef
	MaxDepth   int
	SkipDirs   map[string]struct{}
	Confirm    bool
	Live       bool
	Log        zerolog.Logger
	OnRecord   func(purge.Record)
}

type sortMode int

const (
	sortBySizeDesc sortMode = iota
	sortBySizeAsc
	sortByNameAsc
)

func (m sortMode) String() string {
	switch m {
	case sortBySizeAsc:
		return "size ↑"
	case sortByNameAsc:
		return "name"
	default:
		return "size ↓"
	}
}

type confirmState struct {
	active bool
	info   purge.ConfirmInfo
}

// Model is the bubbletea model. All engine state lives in the store and
// the two workflows; the model keeps only view state plus snapshots it
// refreshes whenever the engine wakes it.
type Model struct {
	opts Options
	log  zerolog.Logger

	store *purge.Store[scanner.FoundItem]
	agg   *purge.Aggregator[scanner.FoundItem]
	wake  chan struct{}

	scan      *purge.ScanFlow
	scanStart time.Time
	scanDone  bool

	purgeFlow *purge.PurgeFlow
	purger    *purger.Purger
	purgeDone bool

	table    table.Model
	spinner  spinner.Model
	help     help.Model
	keys     keyMap
	scanBar  progress.Model
	purgeBar progress.Model

	rows      []scanner.FoundItem
	sortMode  sortMode
	confirm   confirmState
	askFirst  bool
	lastEvent string
	width     int
	height    int

	pulse    float64
	pulseDir float64

	baseCtx    context.Context
	baseCancel context.CancelFunc
}

func New(ctx context.Context, opts Options) *Model {
	baseCtx, baseCancel := context.WithCancel(ctx)

	t := table.New(
		table.WithColumns(defaultColumns()),
		table.WithFocused(true),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("238")).
		BorderBottom(true).
		Bold(true)
	ts.Selected = ts.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(true)
	t.SetStyles(ts)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))

	scanBar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithoutPercentage(),
	)
	purgeBar := progress.New(progress.WithDefaultGradient())

	store := purge.NewStore[scanner.FoundItem](nil, nil)
	m := &Model{
		opts:       opts,
		log:        opts.Log,
		store:      store,
		agg:        purge.NewAggregator(store),
		wake:       make(chan struct{}, 1),
		table:      t,
		spinner:    sp,
		help:       help.New(),
		keys:       newKeyMap(),
		scanBar:    scanBar,
		purgeBar:   purgeBar,
		sortMode:   sortBySizeDesc,
		askFirst:   opts.Confirm,
		pulseDir:   1,
		baseCtx:    baseCtx,
		baseCancel: baseCancel,
	}
	m.store.Subscribe(func(purge.Totals) { m.poke() })
	m.scan = m.newScanFlow()
	return m
}

// poke wakes the update loop. Non-blocking: a full wake slot already means
// a refresh is pending, and one refresh covers any number of mutations.
func (m *Model) poke() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *Model) newScanFlow() *purge.ScanFlow {
	sc := scanner.New(scanner.Options{
		Root:       m.opts.Root,
		RootHandle: m.opts.RootHandle,
		Targets:    m.opts.Targets,
		MaxDepth:   m.opts.MaxDepth,
		SkipDirs:   m.opts.SkipDirs,
	}, m.log, func(item scanner.FoundItem) {
		m.store.Append(item)
	})
	flow := purge.NewScanFlow(sc.Run, nil)
	flow.Subscribe(func(purge.State[purge.ScanSummary]) { m.poke() })
	return flow
}

func defaultColumns() []table.Column {
	return []table.Column{
		{Title: "Path", Width: 60},
		{Title: "Size", Width: 10},
		{Title: "Target", Width: 14},
		{Title: "Category", Width: 12},
		{Title: "Status", Width: 10},
	}
}

func (m *Model) Init() tea.Cmd {
	m.scanStart = time.Now()
	m.scan.Start(m.baseCtx)
	return tea.Batch(m.spinner.Tick, waitEngine(m.wake), pulseCmd())
}

func (m *Model) startRescan() {
	if st := m.scan.State(); st.Phase == purge.PhaseFailed {
		m.scan.StartOver()
	} else {
		m.scan.Finish()
		m.scan = m.newScanFlow()
	}
	m.store.Reset()
	m.rows = nil
	m.scanDone = false
	m.scanStart = time.Now()
	m.pulse = 0
	m.pulseDir = 1
	m.lastEvent = "Scanning…"
	m.setTableRows()
	m.scan.Start(m.baseCtx)
}

// requestPurge snapshots the selection into a confirmation payload and
// builds the purge workflow around it. The flow starts immediately unless
// confirmation prompts are on.
func (m *Model) requestPurge() tea.Cmd {
	if m.purging() {
		return nil
	}
	selected := m.store.SelectedItems()
	if len(selected) == 0 {
		m.lastEvent = "Nothing selected"
		return nil
	}

	totals := m.agg.Totals()
	details := make([]string, 0, len(selected))
	for _, item := range selected {
		details = append(details, item.RelPath)
	}
	title := "Purge selected items"
	if !m.opts.Live {
		title = "Practice purge (nothing is removed)"
	}
	info := purge.ConfirmInfo{
		Title:          title,
		ItemType:       "directories",
		ItemCount:      len(selected),
		PurgeableBytes: totals.SelectedSize,
		Details:        details,
		ButtonText:     "Purge",
	}

	p := purger.New(m.opts.RootHandle, selected, m.opts.Live, m.log)
	flow := purge.NewPurgeFlow(info, p.Run, func() {
		m.purgeFlow = nil
		m.purger = nil
	})
	flow.Subscribe(func(purge.State[purge.Record]) { m.poke() })
	m.purger = p
	m.purgeFlow = flow
	m.purgeDone = false

	if m.askFirst {
		m.confirm = confirmState{active: true, info: flow.Confirm()}
		return nil
	}
	return m.beginPurge()
}

func (m *Model) beginPurge() tea.Cmd {
	if m.purgeFlow == nil {
		return nil
	}
	m.lastEvent = fmt.Sprintf("Purging %d item(s)…", m.purgeFlow.Confirm().ItemCount)
	m.purgeFlow.Start(m.baseCtx)
	return m.purgeBar.SetPercent(0)
}

func (m *Model) purging() bool {
	if m.purgeFlow == nil {
		return false
	}
	return m.purgeFlow.State().Phase == purge.PhaseRunning || m.confirm.active
}

func (m *Model) scanning() bool {
	phase := m.scan.State().Phase
	return phase == purge.PhaseNotStarted || phase == purge.PhaseRunning
}

// refreshRows re-snapshots the store list and reapplies the sort.
func (m *Model) refreshRows() {
	m.rows = m.store.Items()
	m.sortRows()
	m.setTableRows()
}

func (m *Model) sortRows() {
	sort.SliceStable(m.rows, func(i, j int) bool {
		left := m.rows[i]
		right := m.rows[j]
		switch m.sortMode {
		case sortBySizeAsc:
			if left.Bytes == right.Bytes {
				return strings.ToLower(left.RelPath) < strings.ToLower(right.RelPath)
			}
			return left.Bytes < right.Bytes
		case sortByNameAsc:
			return strings.ToLower(left.RelPath) < strings.ToLower(right.RelPath)
		default:
			if left.Bytes == right.Bytes {
				return strings.ToLower(left.RelPath) < strings.ToLower(right.RelPath)
			}
			return left.Bytes > right.Bytes
		}
	})
}

func nextSortMode(current sortMode) sortMode {
	switch current {
	case sortBySizeDesc:
		return sortBySizeAsc
	case sortBySizeAsc:
		return sortByNameAsc
	default:
		return sortBySizeDesc
	}
}

func (m *Model) setTableRows() {
	rows := make([]table.Row, 0, len(m.rows))
	for _, item := range m.rows {
		status := ui.muted.Render("ready")
		if m.agg.IsSelected(item) {
			status = ui.accent.Render("selected")
		}
		rows = append(rows, table.Row{
			item.RelPath,
			purge.FormatBytes(item.Bytes),
			item.TargetName,
			item.Category,
			status,
		})
	}
	m.table.SetRows(rows)
}

func (m *Model) cursorItem() (scanner.FoundItem, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return scanner.FoundItem{}, false
	}
	return m.rows[idx], true
}

func boolLabel(value bool) string {
	if value {
		return "on"
	}
	return "off"
}
