package notify

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/spherical/flipbook-studio/internal/domain"
	"github.com/spherical/flipbook-studio/internal/observability"
)

func TestConsoleMarkers(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	c := NewConsole(&buf)
	c.Notify(domain.Notification{Severity: domain.SeveritySuccess, Message: "Navigating to About page"})
	c.Notify(domain.Notification{Severity: domain.SeverityWarning, Message: "Command not recognized"})
	c.Notify(domain.Notification{Severity: domain.SeverityError, Message: "Microphone access denied"})
	c.Notify(domain.Notification{Severity: domain.SeverityInfo, Message: "Listening stopped"})

	assert.Equal(t,
		"✓ Navigating to About page\n⚠ Command not recognized\n✗ Microphone access denied\nℹ Listening stopped\n",
		buf.String())
}

func TestMultiAndRecorder(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	m := Multi{a, nil, b, NewLog(observability.Nop())}

	m.Notify(domain.Notification{Severity: domain.SeverityWarning, Message: "one"})
	m.Notify(domain.Notification{Severity: domain.SeveritySuccess, Message: "two"})

	assert.Len(t, a.All(), 2)
	assert.Equal(t, a.All(), b.All())
	assert.Equal(t, 1, a.Count(domain.SeverityWarning))
	assert.True(t, b.Contains("two"))

	last, ok := a.Last()
	assert.True(t, ok)
	assert.Equal(t, "two", last.Message)

	_, ok = NewRecorder().Last()
	assert.False(t, ok)
}
