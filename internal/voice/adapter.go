package voice

import "github.com/spherical/flipbook-studio/internal/domain"

// EventKind tags adapter events.
type EventKind int

const (
	EventResult EventKind = iota
	EventError
	EventEnd
)

// AdapterEvent is emitted by a speech capture adapter.
type AdapterEvent struct {
	Kind       EventKind
	Transcript string // final transcript for EventResult
	Err        error  // for EventError
}

// CaptureConfig configures one capture session.
type CaptureConfig struct {
	Language        string
	Continuous      bool
	InterimResults  bool
	MaxAlternatives int
}

// Adapter captures speech. After a successful Start it sends zero or more
// results and errors followed by one EventEnd. Sends must not block once
// Stop has been called.
type Adapter interface {
	Start(cfg CaptureConfig, events chan<- AdapterEvent) error
	Stop() error
	Running() bool
}

// AdapterFactory creates a fresh adapter. The supervisor calls it for every
// start and restart, discarding the previous instance.
type AdapterFactory func() (Adapter, error)

// ErrPermissionDenied builds the error adapters report when capture is refused.
func ErrPermissionDenied(err error) error {
	return domain.PermissionDeniedError("microphone access denied", err)
}

// ErrNetwork builds the error adapters report for transient network failures.
func ErrNetwork(err error) error {
	return domain.AdapterTransientError("network error", err)
}
