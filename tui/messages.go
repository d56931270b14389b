package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// engineMsg wakes the update loop after the engine mutated something. The
// model re-reads store totals and workflow states; the message itself
// carries nothing.
type engineMsg struct{}

type pulseMsg struct{}

// waitEngine blocks on the model's wake channel. Store and workflow
// observers poke the channel with a non-blocking send, so any number of
// engine mutations collapse into a single wake.
func waitEngine(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return engineMsg{}
	}
}

func pulseCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return pulseMsg{}
	})
}
