// Package voice turns spoken phrases into page navigation and keeps speech
// capture running across route changes and transient failures.
package voice

import (
	"strings"
	"sync"
)

// Route is a navigable page key.
type Route string

const (
	RouteHome     Route = "home"
	RouteAbout    Route = "about"
	RouteServices Route = "services"
	RouteContact  Route = "contact"
)

// Routes lists every known route in menu order.
var Routes = []Route{RouteHome, RouteAbout, RouteServices, RouteContact}

// ParseRoute returns the route for key, matching case-insensitively.
func ParseRoute(key string) (Route, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, r := range Routes {
		if string(r) == key {
			return r, true
		}
	}
	return "", false
}

// Path returns the URL path served for r.
func (r Route) Path() string {
	if r == RouteHome {
		return "/"
	}
	return "/" + string(r)
}

// Title returns the display name used in notifications.
func (r Route) Title() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// RouteListener is told about every route change.
type RouteListener interface {
	RouteChanged(route Route)
}

// Navigator owns the current route.
type Navigator struct {
	mu        sync.Mutex
	current   Route
	listeners []RouteListener
	history   []Route
}

// NewNavigator starts at home.
func NewNavigator(listeners ...RouteListener) *Navigator {
	return &Navigator{current: RouteHome, listeners: listeners}
}

// Subscribe registers l for future route changes.
func (n *Navigator) Subscribe(l RouteListener) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, l)
}

// Navigate switches to r and informs listeners. Navigating to the current
// route still counts as a change.
func (n *Navigator) Navigate(r Route) {
	n.mu.Lock()
	n.current = r
	n.history = append(n.history, r)
	listeners := append([]RouteListener(nil), n.listeners...)
	n.mu.Unlock()

	for _, l := range listeners {
		l.RouteChanged(r)
	}
}

// Current returns the active route.
func (n *Navigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// History returns every route navigated to, oldest first.
func (n *Navigator) History() []Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Route(nil), n.history...)
}
