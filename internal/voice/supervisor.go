package voice

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spherical/flipbook-studio/internal/domain"
	"github.com/spherical/flipbook-studio/internal/observability"
)

// ErrClosed is returned by requests made after Close.
var ErrClosed = errors.New("voice supervisor closed")

// SupervisorConfig wires a Supervisor.
type SupervisorConfig struct {
	Factory  AdapterFactory
	Capture  CaptureConfig
	Timing   Timing
	Dispatch Dispatcher
	Notifier domain.Notifier
	Logger   *observability.Logger
}

// envelope carries an input into the supervisor loop. Adapter events carry
// the generation of the adapter that sent them; timer firings carry their id.
type envelope struct {
	in      Input
	gen     uint64
	timerID uint64
}

// Supervisor owns the listening session and its single live adapter. All
// state changes happen on one goroutine; public methods only post inputs.
type Supervisor struct {
	factory  AdapterFactory
	capture  CaptureConfig
	dispatch Dispatcher
	notifier domain.Notifier
	logger   *observability.Logger
	machine  *Machine

	inbox    chan envelope
	done     chan struct{}
	loopDone chan struct{}
	closed   atomic.Bool
	ctx      context.Context
	cancel   context.CancelFunc
	workers  sync.WaitGroup

	// owned by the loop goroutine
	adapter     Adapter
	gen         uint64
	sessionQuit chan struct{}
	timers      map[uint64]*time.Timer
	nextTimer   uint64

	mu       sync.RWMutex
	snapshot Session
	changes  chan Session
}

// NewSupervisor starts the supervisor loop.
func NewSupervisor(cfg SupervisorConfig) *Supervisor {
	logger := cfg.Logger
	if logger == nil {
		logger = observability.Nop()
	}
	if cfg.Timing == (Timing{}) {
		cfg.Timing = DefaultTiming()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Supervisor{
		factory:  cfg.Factory,
		capture:  cfg.Capture,
		dispatch: cfg.Dispatch,
		notifier: cfg.Notifier,
		logger:   logger.WithComponent("voice-supervisor"),
		machine:  NewMachine(cfg.Timing),
		inbox:    make(chan envelope, 32),
		done:     make(chan struct{}),
		loopDone: make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
		timers:   make(map[uint64]*time.Timer),
		changes:  make(chan Session, 16),
	}

	go s.loop()
	return s
}

// StartSingle listens for one utterance.
func (s *Supervisor) StartSingle() error {
	return s.post(envelope{in: Input{Kind: InputStartSingle}})
}

// StartContinuous listens until stopped, restarting after each session ends.
func (s *Supervisor) StartContinuous() error {
	return s.post(envelope{in: Input{Kind: InputStartContinuous}})
}

// Stop ends listening and cancels pending restarts.
func (s *Supervisor) Stop() error {
	return s.post(envelope{in: Input{Kind: InputStop}})
}

// RouteChanged implements RouteListener.
func (s *Supervisor) RouteChanged(Route) {
	_ = s.post(envelope{in: Input{Kind: InputRouteChanged}})
}

// Session returns the latest session snapshot.
func (s *Supervisor) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Changes delivers a snapshot after every state change. Snapshots are
// dropped when the reader falls behind.
func (s *Supervisor) Changes() <-chan Session {
	return s.changes
}

// Drain waits for dispatched transcripts to finish. Call it once the session
// is idle; dispatches started while draining may not be waited for.
func (s *Supervisor) Drain() {
	s.workers.Wait()
}

// Close tears the supervisor down: pending timers are cancelled, the adapter
// is stopped and late callbacks are ignored. It is safe to call twice.
func (s *Supervisor) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	close(s.done)
	<-s.loopDone
	s.cancel()
	s.workers.Wait()
	return nil
}

func (s *Supervisor) post(env envelope) error {
	if s.closed.Load() {
		return ErrClosed
	}
	select {
	case s.inbox <- env:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

func (s *Supervisor) loop() {
	defer close(s.loopDone)
	for {
		select {
		case env := <-s.inbox:
			s.handle(env)
		case <-s.done:
			s.teardown()
			return
		}
	}
}

func (s *Supervisor) handle(env envelope) {
	if env.gen != 0 && env.gen != s.gen {
		s.logger.Debug().Int64("gen", int64(env.gen)).Msg("dropping event from discarded adapter")
		return
	}
	if env.timerID != 0 {
		if _, ok := s.timers[env.timerID]; !ok {
			return
		}
		delete(s.timers, env.timerID)
	}

	// follow-up inputs produced by effects are handled before the next message
	queue := []Input{env.in}
	for len(queue) > 0 {
		in := queue[0]
		queue = queue[1:]

		before := s.machine.Session()
		for _, eff := range s.machine.Handle(in) {
			if next, ok := s.apply(eff); ok {
				queue = append(queue, next)
			}
		}
		after := s.machine.Session()
		if after != before {
			s.publish(after)
		}
	}
}

// apply executes one effect and returns the input it produced, if any.
func (s *Supervisor) apply(eff Effect) (Input, bool) {
	switch eff.Kind {
	case EffectStartAdapter:
		if err := s.startAdapter(eff.Mode); err != nil {
			return Input{Kind: InputStartFailed, Err: err}, true
		}
		return Input{Kind: InputStarted}, true

	case EffectRestartAdapter:
		s.logger.Info().Int("attempt", eff.Attempt).Msg("restarting speech capture")
		if err := s.startAdapter(ModeContinuous); err != nil {
			s.logger.Warn().Err(err).Int("attempt", eff.Attempt).Msg("restart failed")
			return Input{Kind: InputRestartFailed, Attempt: eff.Attempt, Err: err}, true
		}
		return Input{Kind: InputRestarted, Attempt: eff.Attempt}, true

	case EffectStopAdapter:
		s.discardAdapter()

	case EffectSchedule:
		s.schedule(eff.Delay, eff.Input)

	case EffectCancelTimers:
		s.cancelTimers()

	case EffectCheckAdapter:
		running := s.adapter != nil && s.adapter.Running()
		return Input{Kind: InputAdapterChecked, Running: running}, true

	case EffectDispatch:
		if s.dispatch != nil {
			s.workers.Add(1)
			go func(text string) {
				defer s.workers.Done()
				s.dispatch(s.ctx, text)
			}(eff.Transcript)
		}

	case EffectNotify:
		s.notify(eff.Notice)
	}
	return Input{}, false
}

// startAdapter discards any live adapter, then creates and starts a fresh one.
func (s *Supervisor) startAdapter(mode Mode) error {
	s.discardAdapter()

	if s.factory == nil {
		return errors.New("no speech adapter configured")
	}
	adapter, err := s.factory()
	if err != nil {
		return err
	}

	s.gen++
	gen := s.gen
	events := make(chan AdapterEvent, 16)
	quit := make(chan struct{})

	cfg := s.capture
	// engines are always run per utterance; continuity comes from restarts
	cfg.Continuous = false
	cfg.InterimResults = false
	if cfg.MaxAlternatives == 0 {
		cfg.MaxAlternatives = 1
	}

	if err := adapter.Start(cfg, events); err != nil {
		_ = adapter.Stop()
		return err
	}

	s.adapter = adapter
	s.sessionQuit = quit
	go s.forward(gen, events, quit)

	s.logger.Debug().Str("mode", mode.String()).Int64("gen", int64(gen)).Msg("speech capture started")
	return nil
}

func (s *Supervisor) discardAdapter() {
	if s.adapter == nil {
		return
	}
	if err := s.adapter.Stop(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to stop speech adapter")
	}
	close(s.sessionQuit)
	s.adapter = nil
	s.sessionQuit = nil
	s.gen++
}

func (s *Supervisor) forward(gen uint64, events <-chan AdapterEvent, quit <-chan struct{}) {
	for {
		select {
		case ev := <-events:
			var in Input
			switch ev.Kind {
			case EventResult:
				in = Input{Kind: InputResult, Transcript: ev.Transcript}
			case EventError:
				in = Input{Kind: InputError, Err: ev.Err}
			case EventEnd:
				in = Input{Kind: InputEnd}
			default:
				continue
			}
			if s.post(envelope{in: in, gen: gen}) != nil {
				return
			}
		case <-quit:
			return
		case <-s.done:
			return
		}
	}
}

func (s *Supervisor) schedule(delay time.Duration, in Input) {
	s.nextTimer++
	id := s.nextTimer
	s.timers[id] = time.AfterFunc(delay, func() {
		_ = s.post(envelope{in: in, timerID: id})
	})
}

func (s *Supervisor) cancelTimers() {
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}

func (s *Supervisor) teardown() {
	s.cancelTimers()
	s.discardAdapter()
	s.logger.Debug().Msg("voice supervisor closed")
}

func (s *Supervisor) notify(n domain.Notification) {
	if s.closed.Load() || s.notifier == nil {
		return
	}
	s.notifier.Notify(n)
}

func (s *Supervisor) publish(snap Session) {
	s.mu.Lock()
	s.snapshot = snap
	s.mu.Unlock()

	s.logger.Debug().Str("state", snap.State.String()).Bool("active", snap.Active).Msg("session changed")

	select {
	case s.changes <- snap:
	default:
	}
}
