package voice

import (
	"context"
	"fmt"
	"strings"

	"github.com/spherical/flipbook-studio/internal/domain"
	"github.com/spherical/flipbook-studio/internal/observability"
)

// IntentKind distinguishes navigation from unrecognised commands.
type IntentKind int

const (
	IntentUnrecognized IntentKind = iota
	IntentNavigate
)

func (k IntentKind) String() string {
	if k == IntentNavigate {
		return "navigate"
	}
	return "unrecognized"
}

// IntentSource records which path produced an intent.
type IntentSource string

const (
	SourceResolver IntentSource = "resolver"
	SourceKeywords IntentSource = "keywords"
)

// Intent is the interpretation of one transcript.
type Intent struct {
	Kind    IntentKind
	Route   Route
	Message string
	Source  IntentSource
}

// Interpreter maps transcripts to intents, asking the remote resolver first
// and falling back to the local keyword table.
type Interpreter struct {
	resolver domain.CommandResolver
	notifier domain.Notifier
	logger   *observability.Logger
}

// NewInterpreter creates an interpreter. resolver may be nil for keyword-only
// matching; notifier may be nil to suppress notifications.
func NewInterpreter(resolver domain.CommandResolver, notifier domain.Notifier, logger *observability.Logger) *Interpreter {
	if logger == nil {
		logger = observability.Nop()
	}
	return &Interpreter{
		resolver: resolver,
		notifier: notifier,
		logger:   logger.WithComponent("interpreter"),
	}
}

// Interpret resolves transcript. Every call surfaces exactly one
// navigation or unrecognised notification; a resolver failure adds an
// informational one before falling back.
func (i *Interpreter) Interpret(ctx context.Context, transcript string) Intent {
	command := strings.TrimSpace(transcript)
	if command == "" {
		return i.unrecognized(ctx, Intent{Source: SourceKeywords, Message: "No command heard"})
	}

	if i.resolver != nil {
		if intent, ok := i.resolve(ctx, command); ok {
			return intent
		}
	}

	if route, ok := MatchKeyword(command); ok {
		return i.navigate(ctx, Intent{Kind: IntentNavigate, Route: route, Source: SourceKeywords})
	}

	return i.unrecognized(ctx, Intent{
		Source:  SourceKeywords,
		Message: fmt.Sprintf("Command not recognized: %q", command),
	})
}

// resolve asks the remote resolver. ok is false when the fallback should run.
func (i *Interpreter) resolve(ctx context.Context, command string) (Intent, bool) {
	res, err := i.resolver.Resolve(ctx, command)
	if err != nil {
		i.logger.Warn().Err(err).Str("command", command).Msg("command resolution failed, using keywords")
		i.notify(ctx, domain.SeverityInfo, "Command service unavailable, using local matching")
		return Intent{}, false
	}
	if res == nil {
		return Intent{}, false
	}

	switch strings.ToLower(res.Action) {
	case domain.ActionNavigate:
		route, ok := ParseRoute(res.Page)
		if !ok {
			i.logger.Debug().Str("page", res.Page).Msg("resolver named an unknown page")
			return Intent{}, false
		}
		return i.navigate(ctx, Intent{Kind: IntentNavigate, Route: route, Message: res.Message, Source: SourceResolver}), true
	case domain.ActionUnknown:
		msg := res.Message
		if msg == "" {
			msg = fmt.Sprintf("Command not recognized: %q", command)
		}
		return i.unrecognized(ctx, Intent{Message: msg, Source: SourceResolver}), true
	default:
		return Intent{}, false
	}
}

func (i *Interpreter) navigate(ctx context.Context, intent Intent) Intent {
	i.logger.Info().Str("route", string(intent.Route)).Str("source", string(intent.Source)).Msg("navigating")
	i.notify(ctx, domain.SeveritySuccess, fmt.Sprintf("Navigating to %s page", intent.Route.Title()))
	return intent
}

func (i *Interpreter) unrecognized(ctx context.Context, intent Intent) Intent {
	intent.Kind = IntentUnrecognized
	i.logger.Info().Str("source", string(intent.Source)).Msg("command not recognized")
	i.notify(ctx, domain.SeverityWarning, intent.Message)
	return intent
}

// notify drops notifications once ctx is done; the listener that asked is gone.
func (i *Interpreter) notify(ctx context.Context, sev domain.Severity, msg string) {
	if i.notifier != nil && ctx.Err() == nil {
		i.notifier.Notify(domain.Notification{Severity: sev, Message: msg})
	}
}

// Dispatcher consumes a final transcript.
type Dispatcher func(ctx context.Context, transcript string)

// NavigateDispatcher interprets each transcript and navigates on success.
func NavigateDispatcher(interp *Interpreter, nav *Navigator) Dispatcher {
	return func(ctx context.Context, transcript string) {
		intent := interp.Interpret(ctx, transcript)
		if intent.Kind == IntentNavigate && ctx.Err() == nil {
			nav.Navigate(intent.Route)
		}
	}
}
