package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"typechat/internal/components/message"
	"typechat/internal/messages"
)

// Reserved rows: header (1), input box (3), status bar (1)
const chromeHeight = 5

// Update handles all application messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		chatHeight := msg.Height - chromeHeight
		if chatHeight < 3 {
			chatHeight = 3
		}
		m.viewport.Width = msg.Width
		m.viewport.Height = chatHeight
		m.input.Width = msg.Width - 6
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.conv.Stop()
			return m, tea.Quit

		case "esc":
			if m.conv.Generating() {
				m.conv.Stop()
				return m, nil
			}
			return m, tea.Quit

		case "enter":
			// the send button turns into a stop button while generating
			if m.conv.Generating() {
				m.conv.Stop()
				return m, nil
			}
			return m.send()

		case "ctrl+l":
			if m.conv.Len() == 0 {
				return m, nil
			}
			m.conv.Clear()
			cmd := m.syncRenderers()
			focus := m.input.Focus()
			return m, tea.Batch(cmd, focus)

		case "pgup", "pgdown", "up", "down":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case messages.SettledMsg:
		m.conv.Settle(msg)
		cmd := m.syncRenderers()
		focus := m.input.Focus()
		return m, tea.Batch(cmd, focus)

	case messages.RevealTickMsg:
		cmd := m.route(msg.ID, msg)
		return m, cmd

	case messages.DotsTickMsg:
		cmd := m.route(msg.ID, msg)
		return m, cmd

	case messages.AnimationCompleteMsg:
		if m.conv.MarkAnimated(msg.ID) {
			cmd := m.syncRenderers()
			return m, cmd
		}
		return m, nil
	}

	// the input is disabled while a request is in flight
	if !m.conv.Generating() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// send hands the input to the controller and clears it when accepted.
func (m Model) send() (tea.Model, tea.Cmd) {
	request := m.conv.Send(m.input.Value())
	if request == nil {
		return m, nil
	}

	m.input.Reset()
	m.input.Blur()
	cmd := m.syncRenderers()
	return m, tea.Batch(cmd, request)
}

// route delivers a timer message to the renderer it belongs to. Timers for
// entries that no longer exist are dropped.
func (m *Model) route(id string, msg tea.Msg) tea.Cmd {
	for i := range m.renderers {
		if m.renderers[i].ID() != id {
			continue
		}
		var cmd tea.Cmd
		m.renderers[i], cmd = m.renderers[i].Update(msg)
		m.refresh()
		return cmd
	}
	return nil
}

// syncRenderers lines renderers up with the conversation, creating, updating
// and dropping them as needed, and returns any timers that need starting.
func (m *Model) syncRenderers() tea.Cmd {
	existing := make(map[string]int, len(m.renderers))
	for i := range m.renderers {
		existing[m.renderers[i].ID()] = i
	}

	var cmds []tea.Cmd
	entries := m.conv.Entries()
	next := make([]message.Model, 0, len(entries))
	for _, e := range entries {
		if i, ok := existing[e.ID]; ok {
			r := m.renderers[i]
			cmds = append(cmds, r.Sync(e))
			next = append(next, r)
			continue
		}
		r, cmd := message.New(e, m.renderOpt)
		cmds = append(cmds, cmd)
		next = append(next, r)
	}
	m.renderers = next
	m.refresh()
	return tea.Batch(cmds...)
}

// refresh rebuilds the viewport content and scrolls to the latest entry.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderConversation())
	m.viewport.GotoBottom()
}
