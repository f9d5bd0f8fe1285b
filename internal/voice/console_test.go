package voice

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/flipbook-studio/internal/domain"
)

func nextEvent(t *testing.T, ch <-chan AdapterEvent) AdapterEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for adapter event")
		return AdapterEvent{}
	}
}

func TestConsoleAdapterOneLinePerSession(t *testing.T) {
	src := NewLineSource(strings.NewReader("go home\n!network\n"))
	events := make(chan AdapterEvent, 4)

	a := NewConsoleAdapter(src)
	require.NoError(t, a.Start(CaptureConfig{}, events))

	ev := nextEvent(t, events)
	assert.Equal(t, EventResult, ev.Kind)
	assert.Equal(t, "go home", ev.Transcript)
	assert.Equal(t, EventEnd, nextEvent(t, events).Kind)
	assert.False(t, a.Running())

	b := NewConsoleAdapter(src)
	require.NoError(t, b.Start(CaptureConfig{}, events))
	ev = nextEvent(t, events)
	assert.Equal(t, EventError, ev.Kind)
	assert.True(t, domain.IsType(ev.Err, domain.ErrorTypeAdapterTransient))
	assert.Equal(t, EventEnd, nextEvent(t, events).Kind)

	require.Eventually(t, src.Closed, time.Second, 2*time.Millisecond)
	assert.ErrorIs(t, NewConsoleAdapter(src).Start(CaptureConfig{}, events), ErrInputClosed)
}

func TestConsoleAdapterStop(t *testing.T) {
	events := make(chan AdapterEvent)

	// a source that never produces a line
	a := NewConsoleAdapter(newLineSource())
	require.NoError(t, a.Start(CaptureConfig{}, events))
	assert.True(t, a.Running())
	require.NoError(t, a.Stop())
	assert.False(t, a.Running())
}

func TestConsoleAdapterStopKeepsPendingLine(t *testing.T) {
	for i := 0; i < 50; i++ {
		src := newLineSource()
		events := make(chan AdapterEvent, 4)

		a := NewConsoleAdapter(src)
		require.NoError(t, a.Start(CaptureConfig{}, events))
		require.NoError(t, a.Stop())

		go func() { src.lines <- "go home" }()

		b := NewConsoleAdapter(src)
		require.NoError(t, b.Start(CaptureConfig{}, events))
		ev := nextEvent(t, events)
		require.Equal(t, EventResult, ev.Kind, "iteration %d", i)
		assert.Equal(t, "go home", ev.Transcript)
		assert.Equal(t, EventEnd, nextEvent(t, events).Kind)
	}
}

func TestLineSourceUnread(t *testing.T) {
	src := newLineSource()
	src.unread("about")

	line, ok := src.next(nil)
	require.True(t, ok)
	assert.Equal(t, "about", line)

	src.unread("contact")
	close(src.done)
	assert.False(t, src.Closed(), "a handed-back line is still readable")
	line, ok = src.next(nil)
	require.True(t, ok)
	assert.Equal(t, "contact", line)
	assert.True(t, src.Closed())

	_, ok = src.next(nil)
	assert.False(t, ok)
}

func TestParseConsoleLine(t *testing.T) {
	_, ok := parseConsoleLine("  ")
	assert.False(t, ok)
	_, ok = parseConsoleLine("!end")
	assert.False(t, ok)

	ev, ok := parseConsoleLine("!denied")
	require.True(t, ok)
	assert.True(t, domain.IsType(ev.Err, domain.ErrorTypeAdapterPermissionDenied))
}
