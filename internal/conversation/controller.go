// Package conversation owns the chat history, its persistence and the single
// in-flight generation request.
//
// All methods are meant to be called from the bubbletea update loop; the only
// work done elsewhere is the generation call inside the command returned by
// Send, which reports back with a messages.SettledMsg.
package conversation

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"typechat/internal/client"
	"typechat/internal/logging"
	"typechat/internal/messages"
	"typechat/internal/storage"
)

// Controller holds the ordered conversation. At most one entry is generating
// and it is always the last one.
type Controller struct {
	entries []Entry
	store   storage.Store
	gen     client.Generator
	logger  *logging.Logger

	// in-flight request, empty when idle
	inflight string
	cancel   context.CancelFunc

	newID func() string
	now   func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithIDFunc replaces the entry id generator.
func WithIDFunc(fn func() string) Option {
	return func(c *Controller) {
		c.newID = fn
	}
}

// WithClock replaces the creation timestamp source.
func WithClock(fn func() time.Time) Option {
	return func(c *Controller) {
		c.now = fn
	}
}

// New creates a controller and loads any stored conversation. Loaded entries
// never animate again.
func New(store storage.Store, gen client.Generator, opts ...Option) *Controller {
	c := &Controller{
		store:  store,
		gen:    gen,
		logger: logging.Nop(),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.load()
	return c
}

func (c *Controller) load() {
	data, ok, err := c.store.Load()
	if err != nil {
		c.logger.Warn("load conversation failed", "error", err)
		return
	}
	if !ok {
		return
	}
	entries, err := Decode(data)
	if err != nil {
		c.logger.Warn("stored conversation unreadable", "error", err)
		return
	}

	for i := range entries {
		e := &entries[i]
		e.HasAnimated = true
		if e.ID == "" {
			e.ID = c.newID()
		}
		// the process exited while this request was in flight
		if e.IsGenerating {
			e.IsGenerating = false
			if e.Response == "" {
				e.Response = StoppedText
			}
		}
	}
	c.entries = entries
	c.logger.Debug("conversation loaded", "entries", len(entries))
}

// Entries returns a copy of the conversation.
func (c *Controller) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Controller) Len() int {
	return len(c.entries)
}

// Generating reports whether a request is in flight.
func (c *Controller) Generating() bool {
	n := len(c.entries)
	return n > 0 && c.entries[n-1].IsGenerating
}

// Send appends a pending entry for text and returns the command that performs
// the request. It returns nil, leaving the conversation untouched, when text
// is blank or a request is already in flight.
func (c *Controller) Send(text string) tea.Cmd {
	if strings.TrimSpace(text) == "" || c.Generating() {
		return nil
	}

	entry := Entry{
		ID:           c.newID(),
		Prompt:       text,
		IsGenerating: true,
		CreatedAt:    c.now(),
	}
	c.entries = append(c.entries, entry)
	c.persist()

	ctx, cancel := context.WithCancel(context.Background())
	c.inflight = entry.ID
	c.cancel = cancel

	c.logger.Info("request sent", "id", entry.ID, "prompt_chars", len(text))

	gen := c.gen
	return func() tea.Msg {
		out, err := gen.Generate(ctx, text)
		return messages.SettledMsg{ID: entry.ID, Text: out, Err: err}
	}
}

// Settle records the outcome of a request on its entry.
func (c *Controller) Settle(msg messages.SettledMsg) {
	if msg.ID == c.inflight {
		c.release()
	}

	i := c.index(msg.ID)
	if i < 0 {
		// cleared while in flight
		c.logger.Debug("settle for unknown entry ignored", "id", msg.ID)
		return
	}
	e := &c.entries[i]
	if !e.IsGenerating {
		return
	}

	switch {
	case msg.Err == nil:
		e.Response = strings.TrimSpace(msg.Text)
	case errors.Is(msg.Err, context.Canceled):
		e.Response = StoppedText
		c.logger.Info("request stopped", "id", msg.ID)
	default:
		e.Response = ErrorText
		c.logger.Warn("request failed", "id", msg.ID, "error", msg.Err)
	}
	e.IsGenerating = false
	c.persist()
}

// Stop cancels the in-flight request. The entry is updated when the request
// settles.
func (c *Controller) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Clear empties the conversation and erases the stored copy. A request still
// in flight is cancelled and its result discarded.
func (c *Controller) Clear() {
	c.release()
	c.entries = nil
	if err := c.store.Clear(); err != nil {
		c.logger.Warn("clear stored conversation failed", "error", err)
	}
	c.logger.Info("conversation cleared")
}

// MarkAnimated records that an entry's reveal has finished. It reports whether
// anything changed.
func (c *Controller) MarkAnimated(id string) bool {
	i := c.index(id)
	if i < 0 || c.entries[i].HasAnimated {
		return false
	}
	c.entries[i].HasAnimated = true
	c.persist()
	return true
}

func (c *Controller) release() {
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = nil
	c.inflight = ""
}

func (c *Controller) index(id string) int {
	for i := range c.entries {
		if c.entries[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Controller) persist() {
	data, err := Encode(c.entries)
	if err == nil {
		err = c.store.Save(data)
	}
	if err != nil {
		c.logger.Warn("persist conversation failed", "error", err)
	}
}
