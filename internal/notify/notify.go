// Package notify delivers severity-tagged status messages to the user.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/spherical/flipbook-studio/internal/domain"
	"github.com/spherical/flipbook-studio/internal/observability"
)

// Console prints notifications with a coloured severity marker.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole writes to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

var (
	successMark = color.New(color.FgGreen, color.Bold).SprintFunc()
	warningMark = color.New(color.FgYellow, color.Bold).SprintFunc()
	infoMark    = color.New(color.FgCyan).SprintFunc()
	errorMark   = color.New(color.FgRed, color.Bold).SprintFunc()
)

// Marker returns the coloured prefix for a severity.
func Marker(sev domain.Severity) string {
	switch sev {
	case domain.SeveritySuccess:
		return successMark("✓")
	case domain.SeverityWarning:
		return warningMark("⚠")
	case domain.SeverityError:
		return errorMark("✗")
	default:
		return infoMark("ℹ")
	}
}

func (c *Console) Notify(n domain.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s\n", Marker(n.Severity), n.Message)
}

// Log records notifications in the structured log.
type Log struct {
	logger *observability.Logger
}

// NewLog writes notifications to logger.
func NewLog(logger *observability.Logger) *Log {
	return &Log{logger: logger.WithComponent("notify")}
}

func (l *Log) Notify(n domain.Notification) {
	var evt *observability.LogEvent
	switch n.Severity {
	case domain.SeverityError:
		evt = l.logger.Error()
	case domain.SeverityWarning:
		evt = l.logger.Warn()
	default:
		evt = l.logger.Info()
	}
	evt.Str("severity", string(n.Severity)).Msg(n.Message)
}

// Multi fans a notification out to several notifiers.
type Multi []domain.Notifier

func (m Multi) Notify(n domain.Notification) {
	for _, target := range m {
		if target != nil {
			target.Notify(n)
		}
	}
}

// Recorder keeps every notification; it is meant for tests.
type Recorder struct {
	mu   sync.Mutex
	seen []domain.Notification
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(n domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, n)
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.seen...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (domain.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.seen) == 0 {
		return domain.Notification{}, false
	}
	return r.seen[len(r.seen)-1], true
}

// Count returns how many notifications had the given severity.
func (r *Recorder) Count(sev domain.Severity) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.seen {
		if s.Severity == sev {
			n++
		}
	}
	return n
}

// Contains reports whether a notification with message was recorded.
func (r *Recorder) Contains(message string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.seen {
		if s.Message == message {
			return true
		}
	}
	return false
}
