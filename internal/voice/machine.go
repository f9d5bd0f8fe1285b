package voice

import (
	"fmt"
	"time"

	"github.com/spherical/flipbook-studio/internal/domain"
)

// State is the supervisor's listening state.
type State int

const (
	StateIdle State = iota
	StateListeningSingle
	StateListeningContinuous
	StateRestarting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListeningSingle:
		return "listening-single"
	case StateListeningContinuous:
		return "listening-continuous"
	case StateRestarting:
		return "restarting"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Mode selects single-utterance or continuous listening.
type Mode int

const (
	ModeSingle Mode = iota
	ModeContinuous
)

func (m Mode) String() string {
	if m == ModeContinuous {
		return "continuous"
	}
	return "single"
}

// Session is a snapshot of the listening session.
type Session struct {
	State           State
	Mode            Mode
	Active          bool
	LastTranscript  string
	RestartAttempts int
}

// InputKind tags machine inputs.
type InputKind int

const (
	InputStartSingle InputKind = iota
	InputStartContinuous
	InputStop
	InputStarted
	InputStartFailed
	InputResult
	InputError
	InputEnd
	InputRestartDue
	InputRestarted
	InputRestartFailed
	InputRouteChanged
	InputSettleDue
	InputAdapterChecked
)

// Input is a user request, adapter event, timer firing or effect outcome.
type Input struct {
	Kind       InputKind
	Transcript string
	Err        error
	Attempt    int
	Running    bool
}

// EffectKind tags machine effects.
type EffectKind int

const (
	EffectStartAdapter EffectKind = iota
	EffectStopAdapter
	EffectRestartAdapter
	EffectSchedule
	EffectCancelTimers
	EffectCheckAdapter
	EffectDispatch
	EffectNotify
)

// Effect is work the runtime performs on behalf of the machine.
type Effect struct {
	Kind       EffectKind
	Mode       Mode          // EffectStartAdapter
	Attempt    int           // EffectRestartAdapter
	Delay      time.Duration // EffectSchedule
	Input      Input         // EffectSchedule: fed back when the delay elapses
	Transcript string        // EffectDispatch
	Notice     domain.Notification
}

// Timing holds the supervisor delays and the restart bound.
type Timing struct {
	RestartDelay       time.Duration
	RetryDelay         time.Duration
	RouteSettleDelay   time.Duration
	MaxRestartAttempts int
}

// DefaultTiming returns the stock delays.
func DefaultTiming() Timing {
	return Timing{
		RestartDelay:       300 * time.Millisecond,
		RetryDelay:         1000 * time.Millisecond,
		RouteSettleDelay:   500 * time.Millisecond,
		MaxRestartAttempts: 2,
	}
}

// Notification texts.
const (
	msgContinuousOn     = "Continuous listening activated"
	msgListening        = "Listening..."
	msgStopped          = "Listening stopped"
	msgPermissionDenied = "Microphone access denied. Please check permissions."
	msgNetworkRetry     = "Network error. Will retry continuous listening shortly."
	msgNetworkSingle    = "Network error. Please try again."
	msgRestartFailed    = "Could not restart voice recognition. Please try again."
)

// Machine is the pure transition function of the listening supervisor.
// It performs no I/O; Handle returns the effects to execute in order.
type Machine struct {
	timing  Timing
	session Session
}

// NewMachine creates an idle machine.
func NewMachine(t Timing) *Machine {
	if t.MaxRestartAttempts < 1 {
		t.MaxRestartAttempts = 1
	}
	return &Machine{timing: t}
}

// Session returns the current snapshot.
func (m *Machine) Session() Session {
	return m.session
}

// Handle applies one input.
func (m *Machine) Handle(in Input) []Effect {
	switch in.Kind {
	case InputStartSingle:
		return m.start(ModeSingle)
	case InputStartContinuous:
		return m.start(ModeContinuous)
	case InputStop:
		return m.stop()
	case InputStarted:
		return m.started()
	case InputStartFailed:
		return m.startFailed(in.Err)
	case InputResult:
		return m.result(in.Transcript)
	case InputError:
		return m.adapterError(in.Err)
	case InputEnd:
		return m.end()
	case InputRestartDue:
		return m.restartDue(in.Attempt)
	case InputRestarted:
		return m.restarted()
	case InputRestartFailed:
		return m.restartFailed(in.Attempt)
	case InputRouteChanged:
		return m.routeChanged()
	case InputSettleDue:
		return m.settleDue()
	case InputAdapterChecked:
		return m.adapterChecked(in.Running)
	}
	return nil
}

func (m *Machine) start(mode Mode) []Effect {
	if m.session.Active && m.session.Mode == mode {
		return nil
	}

	effects := []Effect{{Kind: EffectCancelTimers}}
	if m.session.Active {
		effects = append(effects, Effect{Kind: EffectStopAdapter})
	}

	m.session.Mode = mode
	m.session.Active = true
	m.session.RestartAttempts = 0
	m.session.State = StateListeningSingle
	if mode == ModeContinuous {
		m.session.State = StateListeningContinuous
	}

	return append(effects, Effect{Kind: EffectStartAdapter, Mode: mode})
}

func (m *Machine) started() []Effect {
	switch m.session.State {
	case StateListeningContinuous:
		return []Effect{notice(domain.SeveritySuccess, msgContinuousOn)}
	case StateListeningSingle:
		return []Effect{notice(domain.SeverityInfo, msgListening)}
	}
	return nil
}

func (m *Machine) startFailed(err error) []Effect {
	if m.session.State != StateListeningSingle && m.session.State != StateListeningContinuous {
		return nil
	}
	m.goIdle()
	if domain.IsType(err, domain.ErrorTypeAdapterPermissionDenied) {
		return []Effect{notice(domain.SeverityError, msgPermissionDenied)}
	}
	return []Effect{notice(domain.SeverityError, fmt.Sprintf("Failed to start listening: %v", err))}
}

func (m *Machine) stop() []Effect {
	m.goIdle()
	return []Effect{
		{Kind: EffectCancelTimers},
		{Kind: EffectStopAdapter},
		notice(domain.SeverityInfo, msgStopped),
	}
}

func (m *Machine) result(text string) []Effect {
	if !m.session.Active || text == "" {
		return nil
	}
	m.session.LastTranscript = text
	return []Effect{{Kind: EffectDispatch, Transcript: text}}
}

func (m *Machine) adapterError(err error) []Effect {
	if !m.session.Active {
		return nil
	}

	switch domain.TypeOf(err) {
	case domain.ErrorTypeAdapterPermissionDenied:
		m.goIdle()
		return []Effect{
			{Kind: EffectCancelTimers},
			{Kind: EffectStopAdapter},
			notice(domain.SeverityError, msgPermissionDenied),
		}
	case domain.ErrorTypeAdapterTransient:
		// the engine ends the session on its own; End drives the retry
		if m.session.Mode == ModeContinuous {
			return []Effect{notice(domain.SeverityWarning, msgNetworkRetry)}
		}
		return []Effect{notice(domain.SeverityWarning, msgNetworkSingle)}
	default:
		return []Effect{notice(domain.SeverityError, fmt.Sprintf("Recognition error: %v", err))}
	}
}

func (m *Machine) end() []Effect {
	switch m.session.State {
	case StateListeningSingle:
		m.goIdle()
		return nil
	case StateListeningContinuous:
		m.session.State = StateRestarting
		m.session.RestartAttempts = 0
		return []Effect{{
			Kind:  EffectSchedule,
			Delay: m.timing.RestartDelay,
			Input: Input{Kind: InputRestartDue, Attempt: 1},
		}}
	}
	return nil
}

func (m *Machine) restartDue(attempt int) []Effect {
	if m.session.State != StateRestarting {
		return nil
	}
	m.session.RestartAttempts = attempt
	return []Effect{{Kind: EffectRestartAdapter, Attempt: attempt}}
}

func (m *Machine) restarted() []Effect {
	if m.session.State != StateRestarting {
		return nil
	}
	m.session.State = StateListeningContinuous
	m.session.RestartAttempts = 0
	return nil
}

func (m *Machine) restartFailed(attempt int) []Effect {
	if m.session.State != StateRestarting {
		return nil
	}
	if attempt < m.timing.MaxRestartAttempts {
		return []Effect{{
			Kind:  EffectSchedule,
			Delay: m.timing.RetryDelay,
			Input: Input{Kind: InputRestartDue, Attempt: attempt + 1},
		}}
	}
	m.goIdle()
	return []Effect{
		{Kind: EffectStopAdapter},
		notice(domain.SeverityError, msgRestartFailed),
	}
}

func (m *Machine) routeChanged() []Effect {
	if m.session.State != StateListeningContinuous {
		return nil
	}
	return []Effect{{
		Kind:  EffectSchedule,
		Delay: m.timing.RouteSettleDelay,
		Input: Input{Kind: InputSettleDue},
	}}
}

func (m *Machine) settleDue() []Effect {
	if m.session.State != StateListeningContinuous {
		return nil
	}
	return []Effect{{Kind: EffectCheckAdapter}}
}

func (m *Machine) adapterChecked(running bool) []Effect {
	if m.session.State != StateListeningContinuous || running {
		return nil
	}
	m.session.State = StateRestarting
	m.session.RestartAttempts = 1
	return []Effect{{Kind: EffectRestartAdapter, Attempt: 1}}
}

// goIdle ends the session and disables continuous mode.
func (m *Machine) goIdle() {
	m.session.State = StateIdle
	m.session.Active = false
	m.session.Mode = ModeSingle
	m.session.RestartAttempts = 0
}

func notice(sev domain.Severity, msg string) Effect {
	return Effect{Kind: EffectNotify, Notice: domain.Notification{Severity: sev, Message: msg}}
}
