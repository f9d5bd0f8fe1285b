package voice

import (
	"errors"
	"sync"
)

// FakeAdapter is a scriptable adapter for tests and demos.
type FakeAdapter struct {
	mu       sync.Mutex
	startErr error
	running  bool
	starts   int
	stops    int
	cfg      CaptureConfig
	events   chan<- AdapterEvent
	done     chan struct{}
}

// NewFakeAdapter returns an idle fake.
func NewFakeAdapter() *FakeAdapter {
	return &FakeAdapter{}
}

// FailStart makes subsequent Start calls return err.
func (f *FakeAdapter) FailStart(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startErr = err
}

func (f *FakeAdapter) Start(cfg CaptureConfig, events chan<- AdapterEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.startErr != nil {
		return f.startErr
	}
	if f.running {
		return errors.New("already started")
	}
	f.cfg = cfg
	f.events = events
	f.done = make(chan struct{})
	f.running = true
	return nil
}

func (f *FakeAdapter) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	if f.running {
		f.running = false
		close(f.done)
	}
	return nil
}

func (f *FakeAdapter) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

// Starts returns how many times Start was called.
func (f *FakeAdapter) Starts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.starts
}

// Stops returns how many times Stop was called.
func (f *FakeAdapter) Stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

// Config returns the configuration of the last successful Start.
func (f *FakeAdapter) Config() CaptureConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cfg
}

// SimResult emits a final transcript.
func (f *FakeAdapter) SimResult(text string) {
	f.send(AdapterEvent{Kind: EventResult, Transcript: text})
}

// SimError emits a recognition error.
func (f *FakeAdapter) SimError(err error) {
	f.send(AdapterEvent{Kind: EventError, Err: err})
}

// SimEnd ends the session as the engine would after silence.
func (f *FakeAdapter) SimEnd() {
	f.mu.Lock()
	wasRunning := f.running
	f.running = false
	f.mu.Unlock()
	if wasRunning {
		f.send(AdapterEvent{Kind: EventEnd})
	}
}

// SimDrop marks the adapter as no longer running without any event.
func (f *FakeAdapter) SimDrop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
}

func (f *FakeAdapter) send(ev AdapterEvent) {
	f.mu.Lock()
	events, done := f.events, f.done
	f.mu.Unlock()
	if events == nil {
		return
	}
	select {
	case events <- ev:
	case <-done:
	}
}

// FakeFactory hands out FakeAdapters and remembers them.
type FakeFactory struct {
	mu       sync.Mutex
	adapters []*FakeAdapter
	startErr error
}

// NewFakeFactory returns an empty factory.
func NewFakeFactory() *FakeFactory {
	return &FakeFactory{}
}

// New implements AdapterFactory.
func (ff *FakeFactory) New() (Adapter, error) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	a := NewFakeAdapter()
	if ff.startErr != nil {
		a.FailStart(ff.startErr)
	}
	ff.adapters = append(ff.adapters, a)
	return a, nil
}

// FailStarts makes every adapter created from now on fail to start.
func (ff *FakeFactory) FailStarts(err error) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	ff.startErr = err
}

// Count returns how many adapters were created.
func (ff *FakeFactory) Count() int {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	return len(ff.adapters)
}

// Last returns the most recently created adapter, or nil.
func (ff *FakeFactory) Last() *FakeAdapter {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	if len(ff.adapters) == 0 {
		return nil
	}
	return ff.adapters[len(ff.adapters)-1]
}

// At returns the i-th created adapter.
func (ff *FakeFactory) At(i int) *FakeAdapter {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	return ff.adapters[i]
}
