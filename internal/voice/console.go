package voice

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"sync"
)

// ErrInputClosed is returned when the console has no more input.
var ErrInputClosed = errors.New("console input closed")

// LineSource reads lines from r on one goroutine so successive adapters can
// share it.
type LineSource struct {
	lines   chan string
	pending chan string // a line handed back by a stopped adapter
	done    chan struct{}
	err     error
}

func newLineSource() *LineSource {
	return &LineSource{
		lines:   make(chan string),
		pending: make(chan string, 1),
		done:    make(chan struct{}),
	}
}

// NewLineSource starts reading r.
func NewLineSource(r io.Reader) *LineSource {
	ls := newLineSource()
	go func() {
		defer close(ls.done)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			ls.lines <- scanner.Text()
		}
		ls.err = scanner.Err()
	}()
	return ls
}

// Closed reports whether the underlying reader is exhausted and no line
// is waiting to be re-read.
func (ls *LineSource) Closed() bool {
	select {
	case <-ls.done:
		return len(ls.pending) == 0
	default:
		return false
	}
}

// next blocks for the next line. It reports false when the source ends or
// stop is closed first.
func (ls *LineSource) next(stop <-chan struct{}) (string, bool) {
	select {
	case line := <-ls.pending:
		return line, true
	default:
	}

	select {
	case line := <-ls.pending:
		return line, true
	case line := <-ls.lines:
		return line, true
	case <-ls.done:
		return "", false
	case <-stop:
		return "", false
	}
}

// unread hands line back so the next adapter reads it first.
func (ls *LineSource) unread(line string) {
	select {
	case ls.pending <- line:
	default:
	}
}

// Err returns the read error that ended the source, if any.
func (ls *LineSource) Err() error {
	if !ls.Closed() {
		return nil
	}
	return ls.err
}

// ConsoleAdapter treats one line of text as one utterance. Lines starting
// with '!' simulate engine conditions: !denied, !network, !error and !end.
type ConsoleAdapter struct {
	src *LineSource

	mu      sync.Mutex
	running bool
	stop    chan struct{}
}

// NewConsoleAdapter creates an adapter reading from src.
func NewConsoleAdapter(src *LineSource) *ConsoleAdapter {
	return &ConsoleAdapter{src: src}
}

// ConsoleFactory returns an AdapterFactory producing console adapters.
func ConsoleFactory(src *LineSource) AdapterFactory {
	return func() (Adapter, error) {
		return NewConsoleAdapter(src), nil
	}
}

func (c *ConsoleAdapter) Start(_ CaptureConfig, events chan<- AdapterEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return errors.New("console adapter already started")
	}
	if c.src.Closed() {
		return ErrInputClosed
	}

	c.running = true
	c.stop = make(chan struct{})
	go c.capture(events, c.stop)
	return nil
}

func (c *ConsoleAdapter) capture(events chan<- AdapterEvent, stop <-chan struct{}) {
	send := func(ev AdapterEvent) bool {
		if stopped(stop) {
			return false
		}
		select {
		case events <- ev:
			return true
		case <-stop:
			return false
		}
	}

	line, ok := c.src.next(stop)
	if stopped(stop) {
		if ok {
			c.src.unread(line)
		}
		return
	}
	if ok {
		if ev, parsed := parseConsoleLine(line); parsed && !send(ev) {
			c.src.unread(line)
			return
		}
	}

	c.mu.Lock()
	c.running = false
	c.mu.Unlock()
	send(AdapterEvent{Kind: EventEnd})
}

func stopped(stop <-chan struct{}) bool {
	select {
	case <-stop:
		return true
	default:
		return false
	}
}

func parseConsoleLine(line string) (AdapterEvent, bool) {
	line = strings.TrimSpace(line)
	switch line {
	case "", "!end":
		return AdapterEvent{}, false
	case "!denied":
		return AdapterEvent{Kind: EventError, Err: ErrPermissionDenied(errors.New("not-allowed"))}, true
	case "!network":
		return AdapterEvent{Kind: EventError, Err: ErrNetwork(errors.New("network"))}, true
	case "!error":
		return AdapterEvent{Kind: EventError, Err: errors.New("audio-capture")}, true
	}
	return AdapterEvent{Kind: EventResult, Transcript: line}, true
}

func (c *ConsoleAdapter) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
	c.running = false
	return nil
}

func (c *ConsoleAdapter) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
