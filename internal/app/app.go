package app

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"typechat/internal/components/message"
	"typechat/internal/conversation"
	"typechat/internal/logging"
)

const (
	Title       = "AI Chat Bot"
	EmptyText   = "Chat is empty"
	Placeholder = "Type your message..."
)

// Model is the main application model
type Model struct {
	conv      *conversation.Controller
	input     textinput.Model
	viewport  viewport.Model
	renderers []message.Model
	renderOpt message.Options
	logger    *logging.Logger
	initCmd   tea.Cmd
	width     int
	height    int
	ready     bool
}

// New creates the application model around a loaded conversation.
func New(conv *conversation.Controller, opts message.Options, logger *logging.Logger) Model {
	ti := textinput.New()
	ti.Placeholder = Placeholder
	ti.CharLimit = 4096
	ti.Focus()

	if logger == nil {
		logger = logging.Nop()
	}

	m := Model{
		conv:      conv,
		input:     ti,
		viewport:  viewport.New(80, 20),
		renderOpt: opts,
		logger:    logger,
		width:     80,
		height:    24,
	}
	m.initCmd = m.syncRenderers()
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initCmd)
}

// Conversation exposes the controller, mainly for shutdown.
func (m Model) Conversation() *conversation.Controller {
	return m.conv
}
