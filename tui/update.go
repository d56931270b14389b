package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/devpurge/devpurge/purge"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.updateLayout(msg.Width, msg.Height)
	case spinner.TickMsg:
		if m.scanning() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	case progress.FrameMsg:
		updated, cmd := m.purgeBar.Update(msg)
		if next, ok := updated.(progress.Model); ok {
			m.purgeBar = next
		}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	case engineMsg:
		cmds = append(cmds, m.onEngineWake()...)
		cmds = append(cmds, waitEngine(m.wake))
	case pulseMsg:
		if m.scanning() {
			m.pulse += 0.06 * m.pulseDir
			if m.pulse >= 1 {
				m.pulse = 1
				m.pulseDir = -1
			} else if m.pulse <= 0 {
				m.pulse = 0
				m.pulseDir = 1
			}
			cmds = append(cmds, pulseCmd())
		}
	case tea.KeyMsg:
		if m.confirm.active {
			switch msg.String() {
			case "y", "Y":
				m.confirm = confirmState{}
				if cmd := m.beginPurge(); cmd != nil {
					cmds = append(cmds, cmd)
				}
			case "n", "N", "esc":
				m.confirm = confirmState{}
				if m.purgeFlow != nil {
					m.purgeFlow.Finish()
				}
				m.lastEvent = "Purge cancelled"
			}
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.baseCancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Rescan):
			if !m.purging() {
				m.startRescan()
				cmds = append(cmds, m.spinner.Tick, pulseCmd())
			}
		case key.Matches(msg, m.keys.Sort):
			m.sortMode = nextSortMode(m.sortMode)
			m.sortRows()
			m.setTableRows()
			m.lastEvent = fmt.Sprintf("Sorted by %s", m.sortMode.String())
		case key.Matches(msg, m.keys.Toggle):
			if item, ok := m.cursorItem(); ok && !m.purging() {
				m.agg.Toggle(item)
			}
		case key.Matches(msg, m.keys.ToggleAll):
			if len(m.rows) > 0 && !m.purging() {
				m.agg.ToggleAll(m.rows)
			}
		case key.Matches(msg, m.keys.Purge):
			if cmd := m.requestPurge(); cmd != nil {
				cmds = append(cmds, cmd)
			}
		case key.Matches(msg, m.keys.ToggleConfirm):
			m.askFirst = !m.askFirst
			if m.askFirst {
				m.lastEvent = "Confirm prompts enabled"
			} else {
				m.lastEvent = "Confirm prompts disabled"
			}
		}
	}

	if !m.confirm.active {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// onEngineWake re-reads everything the engine owns: the store snapshot and
// both workflow states. Terminal transitions are applied once each.
func (m *Model) onEngineWake() []tea.Cmd {
	var cmds []tea.Cmd

	m.refreshRows()

	if st := m.scan.State(); !m.scanDone {
		switch st.Phase {
		case purge.PhaseFinished:
			m.scanDone = true
			if st.Result != nil {
				m.lastEvent = fmt.Sprintf("Scan complete: %d items in %s",
					st.Result.Found, st.Result.Elapsed.Truncate(10*time.Millisecond))
			} else {
				m.lastEvent = "Scan complete"
			}
		case purge.PhaseFailed:
			m.scanDone = true
			m.lastEvent = fmt.Sprintf("Scan failed: %s", st.Message)
		}
	}

	if flow := m.purgeFlow; flow != nil {
		st := flow.State()
		switch st.Phase {
		case purge.PhaseRunning:
			if !st.Progress.Indeterminate() {
				cmds = append(cmds, m.purgeBar.SetPercent(
					float64(st.Progress.Current)/float64(st.Progress.Total)))
			}
		case purge.PhaseFinished:
			if !m.purgeDone {
				m.purgeDone = true
				cmds = append(cmds, m.finishPurge(st.Result))
			}
		}
	}

	return cmds
}

// finishPurge removes the successfully purged items from the store, hands
// the record to the sink and retires the flow.
func (m *Model) finishPurge(rec *purge.Record) tea.Cmd {
	flow := m.purgeFlow
	outcome := m.purger.Outcome()

	failed := []string{}
	if outcome != nil {
		failed = outcome.FailedIDs
	}
	// No record means nothing was purged; the selection must survive.
	var purged []string
	if rec != nil {
		purged = m.store.SelectedIDsExcluding(failed)
		m.store.RemoveItems(purged)
	}

	switch {
	case rec == nil:
		m.lastEvent = "Purge did not complete; see the log for details"
	case len(failed) > 0:
		m.lastEvent = fmt.Sprintf("Purged %d item(s), %d failed", len(purged), len(failed))
	default:
		if combined, ok := rec.CombinedSize(); ok {
			m.lastEvent = fmt.Sprintf("Purged %d item(s), reclaimed %s",
				len(purged), purge.FormatBytes(combined))
		} else {
			size := rec.Artifacts.Size + rec.Caches.Size
			m.lastEvent = fmt.Sprintf("Purged %d item(s), reclaimed %s",
				len(purged), purge.FormatBytes(size))
		}
	}
	if !m.opts.Live {
		m.lastEvent += " (practice)"
	}

	if rec != nil && m.opts.OnRecord != nil {
		m.opts.OnRecord(*rec)
	}

	flow.Finish()
	cmd := m.purgeBar.SetPercent(1)
	m.refreshRows()
	return cmd
}

func (m *Model) updateLayout(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	if width < 60 {
		width = 60
	}
	if height < 12 {
		height = 12
	}
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height

	sizeWidth := 10
	targetWidth := 16
	categoryWidth := 12
	statusWidth := 10
	pathWidth := max(width-sizeWidth-targetWidth-categoryWidth-statusWidth-12, 20)

	m.table.SetColumns([]table.Column{
		{Title: "Path", Width: pathWidth},
		{Title: "Size", Width: sizeWidth},
		{Title: "Target", Width: targetWidth},
		{Title: "Category", Width: categoryWidth},
		{Title: "Status", Width: statusWidth},
	})

	headerHeight := lipgloss.Height(m.headerView())
	statusHeight := lipgloss.Height(m.statusView())
	footerHeight := lipgloss.Height(m.footerView())
	available := max(height-headerHeight-statusHeight-footerHeight-4, 5)
	m.table.SetHeight(available)
	m.table.SetWidth(width - 4)
	barWidth := max(width-28, 20)
	m.scanBar.Width = barWidth
	m.purgeBar.Width = barWidth
}
