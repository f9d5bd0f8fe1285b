package voice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/flipbook-studio/internal/domain"
	"github.com/spherical/flipbook-studio/internal/notify"
	"github.com/spherical/flipbook-studio/internal/observability"
)

type stubResolver struct {
	res   *domain.CommandResolution
	err   error
	calls []string
}

func (s *stubResolver) Resolve(_ context.Context, command string) (*domain.CommandResolution, error) {
	s.calls = append(s.calls, command)
	return s.res, s.err
}

func TestInterpretKeywordsWithoutResolver(t *testing.T) {
	tests := []struct {
		transcript string
		kind       IntentKind
		route      Route
	}{
		{"go home", IntentNavigate, RouteHome},
		{"Take me to the HOMEPAGE", IntentNavigate, RouteHome},
		{"tell me about yourselves", IntentNavigate, RouteAbout},
		{"what services do you have", IntentNavigate, RouteServices},
		{"contact us", IntentNavigate, RouteContact},
		{"home or contact", IntentNavigate, RouteHome},
		{"play some music", IntentUnrecognized, ""},
		{"   ", IntentUnrecognized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.transcript, func(t *testing.T) {
			rec := notify.NewRecorder()
			interp := NewInterpreter(nil, rec, observability.Nop())

			intent := interp.Interpret(context.Background(), tt.transcript)
			assert.Equal(t, tt.kind, intent.Kind)
			assert.Equal(t, tt.route, intent.Route)

			last, ok := rec.Last()
			require.True(t, ok, "every command surfaces a notification")
			if tt.kind == IntentNavigate {
				assert.Equal(t, domain.SeveritySuccess, last.Severity)
				assert.Equal(t, SourceKeywords, intent.Source)
			} else {
				assert.Equal(t, domain.SeverityWarning, last.Severity)
			}
		})
	}
}

func TestInterpretUsesResolverFirst(t *testing.T) {
	resolver := &stubResolver{res: &domain.CommandResolution{Action: "navigate", Page: "contact", Message: "ok"}}
	rec := notify.NewRecorder()
	interp := NewInterpreter(resolver, rec, observability.Nop())

	intent := interp.Interpret(context.Background(), "I'd like to go home")
	assert.Equal(t, IntentNavigate, intent.Kind)
	assert.Equal(t, RouteContact, intent.Route, "resolver overrides keyword table")
	assert.Equal(t, SourceResolver, intent.Source)
	assert.Equal(t, []string{"I'd like to go home"}, resolver.calls)
	assert.True(t, rec.Contains("Navigating to Contact page"))
}

func TestInterpretResolverUnknownIsFinal(t *testing.T) {
	resolver := &stubResolver{res: &domain.CommandResolution{Action: "unknown", Message: "Sorry, I can't do that"}}
	rec := notify.NewRecorder()
	interp := NewInterpreter(resolver, rec, observability.Nop())

	intent := interp.Interpret(context.Background(), "home")
	assert.Equal(t, IntentUnrecognized, intent.Kind)
	assert.Equal(t, "Sorry, I can't do that", intent.Message)

	last, _ := rec.Last()
	assert.Equal(t, domain.SeverityWarning, last.Severity)
	assert.Equal(t, "Sorry, I can't do that", last.Message)
}

func TestInterpretFallsBack(t *testing.T) {
	tests := []struct {
		name     string
		resolver *stubResolver
		wantInfo bool
	}{
		{"transport failure", &stubResolver{err: domain.ResolutionUnavailableError("down", errors.New("dial tcp"))}, true},
		{"empty response", &stubResolver{res: &domain.CommandResolution{}}, false},
		{"unknown page", &stubResolver{res: &domain.CommandResolution{Action: "navigate", Page: "blog"}}, false},
		{"nil response", &stubResolver{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := notify.NewRecorder()
			interp := NewInterpreter(tt.resolver, rec, observability.Nop())

			intent := interp.Interpret(context.Background(), "show me your services")
			assert.Equal(t, IntentNavigate, intent.Kind)
			assert.Equal(t, RouteServices, intent.Route)
			assert.Equal(t, SourceKeywords, intent.Source)

			if tt.wantInfo {
				assert.Equal(t, 1, rec.Count(domain.SeverityInfo))
			} else {
				assert.Zero(t, rec.Count(domain.SeverityInfo))
			}
			assert.Equal(t, 1, rec.Count(domain.SeveritySuccess))
		})
	}
}

func TestInterpretSilentAfterCancel(t *testing.T) {
	rec := notify.NewRecorder()
	interp := NewInterpreter(nil, rec, observability.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	intent := interp.Interpret(ctx, "home")
	assert.Equal(t, IntentNavigate, intent.Kind)
	assert.Empty(t, rec.All())
}

func TestNavigateDispatcher(t *testing.T) {
	nav := NewNavigator()
	dispatch := NavigateDispatcher(NewInterpreter(nil, nil, nil), nav)

	dispatch(context.Background(), "contact page please")
	assert.Equal(t, RouteContact, nav.Current())

	dispatch(context.Background(), "sing a song")
	assert.Equal(t, RouteContact, nav.Current())
	assert.Equal(t, []Route{RouteContact}, nav.History())
}

func TestClassifier(t *testing.T) {
	c := NewClassifier()

	tests := map[string]Route{
		"take me to the main page":       RouteHome,
		"who are you":                    RouteAbout,
		"what do you offer":              RouteServices,
		"how can I get in touch":         RouteContact,
		"I need your phone number":       RouteContact,
	}
	for phrase, want := range tests {
		got, ok := c.Classify(phrase)
		assert.True(t, ok, phrase)
		assert.Equal(t, want, got, phrase)
	}

	_, ok := c.Classify("order a pizza")
	assert.False(t, ok)
	_, ok = c.Classify("")
	assert.False(t, ok)
}

func TestRoutes(t *testing.T) {
	assert.Equal(t, "/", RouteHome.Path())
	assert.Equal(t, "/services", RouteServices.Path())
	assert.Equal(t, "About", RouteAbout.Title())

	r, ok := ParseRoute(" Contact ")
	assert.True(t, ok)
	assert.Equal(t, RouteContact, r)

	_, ok = ParseRoute("blog")
	assert.False(t, ok)
}
