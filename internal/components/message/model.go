// Package message renders one prompt/response pair and runs its one-time
// typewriter reveal.
//
// The renderer is a small state machine:
//
//	Idle        full response shown (history, finished reveals, error text)
//	Generating  "Generating" with 1-3 cycling dots
//	Revealing   one rune of the response appended per reveal tick
//
// Timers are tea commands built by an injectable Ticker. Every tick carries
// the entry id and a sequence number; changing state bumps the sequence, so
// ticks from the old timer are dropped.
package message

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"typechat/internal/conversation"
	"typechat/internal/messages"
	"typechat/internal/styles"
)

// Phase is the renderer state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseGenerating
	PhaseRevealing
)

func (p Phase) String() string {
	switch p {
	case PhaseGenerating:
		return "generating"
	case PhaseRevealing:
		return "revealing"
	default:
		return "idle"
	}
}

// Ticker schedules fn after d. tea.Tick satisfies it.
type Ticker func(d time.Duration, fn func(time.Time) tea.Msg) tea.Cmd

// Default intervals
const (
	DefaultRevealInterval = 10 * time.Millisecond
	DefaultDotsInterval   = 500 * time.Millisecond
)

const maxDots = 3

// Options controls animation timing.
type Options struct {
	RevealInterval time.Duration
	DotsInterval   time.Duration
	Ticker         Ticker
}

func (o Options) withDefaults() Options {
	if o.RevealInterval <= 0 {
		o.RevealInterval = DefaultRevealInterval
	}
	if o.DotsInterval <= 0 {
		o.DotsInterval = DefaultDotsInterval
	}
	if o.Ticker == nil {
		o.Ticker = tea.Tick
	}
	return o
}

// Model renders a single conversation entry.
type Model struct {
	id       string
	prompt   string
	response string

	phase    Phase
	runes    []rune
	revealed int
	done     bool
	dots     int
	seq      int

	opts Options
}

// New creates a renderer for e. The returned command starts whatever timer
// the entry's state calls for.
func New(e conversation.Entry, opts Options) (Model, tea.Cmd) {
	m := Model{
		id:    e.ID,
		phase: PhaseIdle,
		dots:  1,
		opts:  opts.withDefaults(),
	}
	cmd := m.Sync(e)
	return m, cmd
}

// Sync applies the entry's current state. It restarts timers only when the
// state actually changes.
func (m *Model) Sync(e conversation.Entry) tea.Cmd {
	m.prompt = e.Prompt

	switch {
	case e.IsGenerating:
		m.response = e.Response
		if m.phase == PhaseGenerating {
			return nil
		}
		m.enter(PhaseGenerating)
		m.dots = 1
		return m.dotsTick()

	case e.HasAnimated || e.Response == conversation.ErrorText:
		m.response = e.Response
		if m.phase != PhaseIdle {
			m.enter(PhaseIdle)
		}
		return nil

	default:
		if m.phase == PhaseRevealing && m.response == e.Response {
			return nil
		}
		m.response = e.Response
		m.enter(PhaseRevealing)
		m.runes = []rune(e.Response)
		m.revealed = 0
		m.done = false
		return m.revealTick()
	}
}

// enter switches phase and invalidates outstanding timers.
func (m *Model) enter(p Phase) {
	m.phase = p
	m.seq++
}

// Update advances the timers.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.RevealTickMsg:
		if msg.ID != m.id || msg.Seq != m.seq || m.phase != PhaseRevealing || m.done {
			return m, nil
		}
		if m.revealed < len(m.runes) {
			m.revealed++
		}
		if m.revealed >= len(m.runes) {
			m.done = true
			id := m.id
			return m, func() tea.Msg {
				return messages.AnimationCompleteMsg{ID: id}
			}
		}
		return m, m.revealTick()

	case messages.DotsTickMsg:
		if msg.ID != m.id || msg.Seq != m.seq || m.phase != PhaseGenerating {
			return m, nil
		}
		if m.dots < maxDots {
			m.dots++
		} else {
			m.dots = 1
		}
		return m, m.dotsTick()
	}
	return m, nil
}

func (m Model) revealTick() tea.Cmd {
	id, seq := m.id, m.seq
	return m.opts.Ticker(m.opts.RevealInterval, func(time.Time) tea.Msg {
		return messages.RevealTickMsg{ID: id, Seq: seq}
	})
}

func (m Model) dotsTick() tea.Cmd {
	id, seq := m.id, m.seq
	return m.opts.Ticker(m.opts.DotsInterval, func(time.Time) tea.Msg {
		return messages.DotsTickMsg{ID: id, Seq: seq}
	})
}

func (m Model) ID() string    { return m.id }
func (m Model) Phase() Phase  { return m.phase }
func (m Model) Revealed() int { return m.revealed }

// Done reports whether the reveal has shown the whole response.
func (m Model) Done() bool { return m.done }

// Displayed returns the response text currently visible, before formatting.
func (m Model) Displayed() string {
	switch m.phase {
	case PhaseGenerating:
		return "Generating" + strings.Repeat(".", m.dots)
	case PhaseRevealing:
		return string(m.runes[:m.revealed])
	default:
		return m.response
	}
}

// View renders the prompt and response for the given width.
func (m Model) View(width int) string {
	if width < 10 {
		width = 10
	}

	var sb strings.Builder
	sb.WriteString(styles.UserLabel.Render("You"))
	sb.WriteString("\n")
	sb.WriteString(styles.UserMessage.Width(width - 2).Render(m.prompt))
	sb.WriteString("\n")
	sb.WriteString(styles.BotLabel.Render("Bot"))
	sb.WriteString("\n")

	var body string
	if m.phase == PhaseGenerating {
		body = styles.Generating.Render(m.Displayed())
	} else {
		body = RenderMarkup(Format(m.Displayed()), styles.Emphasis)
	}
	sb.WriteString(styles.BotMessage.Width(width - 2).Render(body))
	return sb.String()
}
