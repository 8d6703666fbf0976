package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	Primary   = lipgloss.Color("#7C3AED")
	Secondary = lipgloss.Color("#10B981")
	Error     = lipgloss.Color("#EF4444")
	Muted     = lipgloss.Color("#6B7280")
	White     = lipgloss.Color("#FFFFFF")
	LightGray = lipgloss.Color("#E5E7EB")

	// Header
	Header = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		Padding(0, 1)

	ClearControl = lipgloss.NewStyle().
			Foreground(Error).
			Padding(0, 1)

	// Message Styles
	UserLabel = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	UserMessage = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(White)

	BotLabel = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	BotMessage = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(LightGray)

	Emphasis = lipgloss.NewStyle().Bold(true)

	Generating = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true)

	EmptyState = lipgloss.NewStyle().
			Foreground(Muted).
			Italic(true).
			Align(lipgloss.Center).
			Padding(2, 0)

	// Input Styles
	InputBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	InputDisabled = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Muted).
			Foreground(Muted).
			Italic(true).
			Padding(0, 1)

	// Status Bar Styles
	StatusBar = lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1)

	SendButton = lipgloss.NewStyle().
			Foreground(White).
			Background(Primary).
			Bold(true).
			Padding(0, 1)

	StopButton = lipgloss.NewStyle().
			Foreground(White).
			Background(Error).
			Bold(true).
			Padding(0, 1)
)
