package conversation

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typechat/internal/client"
	"typechat/internal/messages"
	"typechat/internal/mock"
	"typechat/internal/storage"
)

// generatorFunc adapts a function to client.Generator.
type generatorFunc func(ctx context.Context, prompt string) (string, error)

func (f generatorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

func reply(text string) generatorFunc {
	return func(context.Context, string) (string, error) { return text, nil }
}

// blockUntilCancelled behaves like a slow API that only returns on cancellation.
func blockUntilCancelled(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", fmt.Errorf("do request: %w", ctx.Err())
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("e%d", n)
	}
}

func newController(t *testing.T, store storage.Store, gen client.Generator) *Controller {
	t.Helper()
	return New(store, gen, WithIDFunc(sequentialIDs()), WithClock(func() time.Time {
		return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	}))
}

// run executes the command returned by Send and settles its result.
func run(t *testing.T, c *Controller, cmd func() any) messages.SettledMsg {
	t.Helper()
	msg, ok := cmd().(messages.SettledMsg)
	require.True(t, ok, "command must yield a SettledMsg")
	c.Settle(msg)
	return msg
}

func TestSendAppendsPendingEntry(t *testing.T) {
	c := newController(t, storage.NewMemory(), reply(" Hi there! "))

	cmd := c.Send("hello")
	require.NotNil(t, cmd)
	require.Equal(t, 1, c.Len())

	e := c.Entries()[0]
	assert.Equal(t, "e1", e.ID)
	assert.Equal(t, "hello", e.Prompt)
	assert.Empty(t, e.Response)
	assert.True(t, e.IsGenerating)
	assert.False(t, e.HasAnimated)
	assert.True(t, c.Generating())

	run(t, c, func() any { return cmd() })

	e = c.Entries()[0]
	assert.Equal(t, "Hi there!", e.Response)
	assert.False(t, e.IsGenerating)
	assert.False(t, e.HasAnimated, "reveal has not run yet")
	assert.False(t, c.Generating())
}

func TestSendIgnoresBlankInput(t *testing.T) {
	store := storage.NewMemory()
	c := newController(t, store, reply("x"))

	for _, in := range []string{"", " ", "\t\n  "} {
		assert.Nil(t, c.Send(in), "input %q", in)
	}
	assert.Equal(t, 0, c.Len())

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok, "nothing persisted for ignored input")
}

func TestSendRejectedWhileGenerating(t *testing.T) {
	c := newController(t, storage.NewMemory(), reply("first"))

	cmd := c.Send("one")
	require.NotNil(t, cmd)
	assert.Nil(t, c.Send("two"))
	assert.Equal(t, 1, c.Len())

	run(t, c, func() any { return cmd() })

	require.NotNil(t, c.Send("two"))
	assert.Equal(t, 2, c.Len())
	entries := c.Entries()
	assert.False(t, entries[0].IsGenerating)
	assert.True(t, entries[1].IsGenerating)
}

func TestStopYieldsStoppedText(t *testing.T) {
	c := newController(t, storage.NewMemory(), generatorFunc(blockUntilCancelled))

	cmd := c.Send("hello")
	require.NotNil(t, cmd)
	c.Stop()
	run(t, c, func() any { return cmd() })

	e := c.Entries()[0]
	assert.Equal(t, StoppedText, e.Response)
	assert.False(t, e.IsGenerating)
	assert.False(t, c.Generating())
}

func TestStopWhenIdleIsNoop(t *testing.T) {
	c := newController(t, storage.NewMemory(), reply("x"))
	c.Stop()
	assert.Equal(t, 0, c.Len())
}

func TestFailureYieldsErrorText(t *testing.T) {
	c := newController(t, storage.NewMemory(), generatorFunc(func(context.Context, string) (string, error) {
		return "", errors.New("dial tcp: connection refused")
	}))

	cmd := c.Send("hello")
	run(t, c, func() any { return cmd() })

	e := c.Entries()[0]
	assert.Equal(t, ErrorText, e.Response)
	assert.False(t, e.IsGenerating)
}

func TestAgainstMockEndpoint(t *testing.T) {
	srv := httptest.NewServer(mock.NewServer(0, 0, nil).Handler())
	defer srv.Close()

	c := newController(t, storage.NewMemory(), client.NewCohere(srv.URL+mock.GeneratePath, "k"))

	cmd := c.Send("hello")
	run(t, c, func() any { return cmd() })
	assert.Equal(t, mock.Reply("hello"), c.Entries()[0].Response)

	cmd = c.Send("please fail")
	run(t, c, func() any { return cmd() })
	assert.Equal(t, ErrorText, c.Entries()[1].Response)
}

func TestStopAgainstSlowEndpoint(t *testing.T) {
	srv := httptest.NewServer(mock.NewServer(0, time.Minute, nil).Handler())
	defer srv.Close()

	c := newController(t, storage.NewMemory(), client.NewCohere(srv.URL+mock.GeneratePath, "k"))

	cmd := c.Send("hello")
	c.Stop()
	run(t, c, func() any { return cmd() })
	assert.Equal(t, StoppedText, c.Entries()[0].Response)
}

func TestMarkAnimatedOnce(t *testing.T) {
	c := newController(t, storage.NewMemory(), reply("done"))
	cmd := c.Send("hello")
	run(t, c, func() any { return cmd() })

	assert.True(t, c.MarkAnimated("e1"))
	assert.False(t, c.MarkAnimated("e1"), "second call changes nothing")
	assert.False(t, c.MarkAnimated("missing"))
	assert.True(t, c.Entries()[0].HasAnimated)
}

func TestPersistsEveryChange(t *testing.T) {
	store := storage.NewMemory()
	c := newController(t, store, reply("answer"))

	stored := func() []Entry {
		data, ok, err := store.Load()
		require.NoError(t, err)
		require.True(t, ok)
		entries, err := Decode(data)
		require.NoError(t, err)
		return entries
	}

	cmd := c.Send("q")
	require.Len(t, stored(), 1)
	assert.True(t, stored()[0].IsGenerating)

	run(t, c, func() any { return cmd() })
	assert.Equal(t, "answer", stored()[0].Response)

	c.MarkAnimated("e1")
	assert.True(t, stored()[0].HasAnimated)
}

func TestLoadForcesHasAnimated(t *testing.T) {
	store := storage.NewMemory()
	require.NoError(t, store.Save([]byte(`[
		{"prompt":"old","response":"reply","isGenerating":false,"hasAnimated":false},
		{"id":"x","prompt":"cut off","response":"","isGenerating":true,"hasAnimated":false}
	]`)))

	c := newController(t, store, reply("x"))
	entries := c.Entries()
	require.Len(t, entries, 2)

	for _, e := range entries {
		assert.True(t, e.HasAnimated)
		assert.False(t, e.IsGenerating)
		assert.NotEmpty(t, e.ID)
	}
	assert.Equal(t, "reply", entries[0].Response)
	assert.Equal(t, StoppedText, entries[1].Response)
	assert.False(t, c.Generating())
	assert.NotNil(t, c.Send("new"), "loaded generating entry must not block sending")
}

func TestLoadIgnoresCorruptStore(t *testing.T) {
	store := storage.NewMemory()
	require.NoError(t, store.Save([]byte(`{not json`)))

	c := newController(t, store, reply("x"))
	assert.Equal(t, 0, c.Len())
}

func TestClearEmptiesAndErases(t *testing.T) {
	store := storage.NewMemory()
	c := newController(t, store, reply("a"))
	cmd := c.Send("q")
	run(t, c, func() any { return cmd() })

	c.Clear()
	assert.Equal(t, 0, c.Len())

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	reloaded := newController(t, store, reply("a"))
	assert.Equal(t, 0, reloaded.Len())
}

func TestClearWhileGeneratingDiscardsLateResult(t *testing.T) {
	c := newController(t, storage.NewMemory(), generatorFunc(blockUntilCancelled))

	stale := c.Send("first")
	c.Clear()
	assert.False(t, c.Generating())

	fresh := c.Send("second")
	require.NotNil(t, fresh)

	// the cleared request resolves late; it must not touch the new one
	run(t, c, func() any { return stale() })
	require.Equal(t, 1, c.Len())
	assert.True(t, c.Entries()[0].IsGenerating)
	assert.True(t, c.Generating())

	c.Stop()
	run(t, c, func() any { return fresh() })
	assert.Equal(t, StoppedText, c.Entries()[0].Response)
}

func TestSaveFailureIsNotFatal(t *testing.T) {
	store := storage.NewMemory()
	store.FailSave = true
	c := newController(t, store, reply("ok"))

	cmd := c.Send("q")
	require.NotNil(t, cmd)
	run(t, c, func() any { return cmd() })
	assert.Equal(t, "ok", c.Entries()[0].Response)
}

func TestEntriesReturnsCopy(t *testing.T) {
	c := newController(t, storage.NewMemory(), reply("x"))
	c.Send("q")

	entries := c.Entries()
	entries[0].Prompt = "mutated"
	assert.Equal(t, "q", c.Entries()[0].Prompt)
}
