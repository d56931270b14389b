package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/devpurge/devpurge/purge"
)

func (m *Model) View() string {
	if m.width == 0 {
		return "Loading…"
	}

	content := ui.base.Render(m.table.View())
	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		content,
		m.statusView(),
		m.footerView(),
	)
	return ui.container.Render(view)
}

func (m *Model) headerView() string {
	title := ui.title.Render("devpurge")
	subtitle := ui.subtitle.Render("Reclaim disk space from dev artifacts and caches")
	root := ui.muted.Render(fmt.Sprintf("Root: %s", m.opts.Root))
	mode := ui.chip.Render("live")
	if !m.opts.Live {
		mode = ui.chip.Render("practice")
	}
	line := lipgloss.JoinHorizontal(lipgloss.Left,
		title, " ", mode, " ",
		ui.chip.Render(fmt.Sprintf("targets: %d", len(m.opts.Targets))))
	return ui.header.Render(lipgloss.JoinVertical(lipgloss.Left,
		line, lipgloss.JoinHorizontal(lipgloss.Left, subtitle, " · ", root)))
}

func (m *Model) statusView() string {
	totals := m.agg.Totals()

	if m.scanning() {
		st := m.scan.State()
		details := m.scan.Details(st)
		elapsed := time.Since(m.scanStart).Truncate(100 * time.Millisecond)
		line := fmt.Sprintf("%s Scanning… found %d · total %s · %s",
			m.spinner.View(), totals.ItemCount, purge.FormatBytes(totals.TotalSize), elapsed)
		if details.Category != "" {
			line += fmt.Sprintf(" · %s", details.Category)
		}
		bar := m.scanBar.ViewAs(m.pulse)
		return lipgloss.JoinVertical(lipgloss.Left, ui.status.Render(line), ui.muted.Render(bar))
	}

	parts := []string{
		fmt.Sprintf("Items: %d", totals.ItemCount),
		fmt.Sprintf("Total: %s", purge.FormatBytes(totals.TotalSize)),
		fmt.Sprintf("Selected: %d (%s)", totals.SelectedCount, purge.FormatBytes(totals.SelectedSize)),
		fmt.Sprintf("Sort: %s", m.sortMode.String()),
		fmt.Sprintf("Confirm: %s", boolLabel(m.askFirst)),
	}
	if scanSt := m.scan.State(); scanSt.Phase == purge.PhaseFinished && scanSt.Result != nil {
		if n := len(scanSt.Result.Warnings); n > 0 {
			parts = append(parts, ui.warning.Render(fmt.Sprintf("Warnings: %d", n)))
		}
	}
	status := strings.Join(parts, " · ")
	if scanSt := m.scan.State(); scanSt.Phase == purge.PhaseFailed {
		status = ui.danger.Render(fmt.Sprintf("Error: %s", scanSt.Message))
	}

	lines := []string{ui.status.Render(status)}
	if flow := m.purgeFlow; flow != nil {
		if st := flow.State(); st.Phase == purge.PhaseRunning {
			p := st.Progress
			progressLine := fmt.Sprintf("Purging %d/%d", p.Current, p.Total)
			if p.Details != "" {
				progressLine += fmt.Sprintf(" · %s", p.Details)
			}
			lines = append(lines, ui.muted.Render(progressLine), ui.muted.Render(m.purgeBar.View()))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) footerView() string {
	if m.confirm.active {
		info := m.confirm.info
		label := fmt.Sprintf("%s: %d %s, %s (y/n)",
			info.Title, info.ItemCount, info.ItemType, purge.FormatBytes(info.PurgeableBytes))
		return ui.confirm.Render(label)
	}
	if m.lastEvent != "" {
		return lipgloss.JoinVertical(lipgloss.Left, ui.muted.Render(m.lastEvent), m.help.View(m.keys))
	}
	return m.help.View(m.keys)
}
