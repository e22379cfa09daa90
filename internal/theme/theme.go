// Package theme owns the dark/light presentation mode for a single client.
package theme

import (
	"context"
	"errors"
	"net/http"

	"prognocore.com/web/internal/prefs"
)

// Theme is the presentation mode stamped on the document root.
type Theme string

const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// Default applies when no valid preference is stored.
const Default = Dark

// ErrNoController is raised when a handler asks for the theme outside Provide.
var ErrNoController = errors.New("theme: controller not installed in request context")

// Parse maps a stored value to a Theme; anything unrecognised is rejected.
func Parse(v string) (Theme, bool) {
	switch Theme(v) {
	case Dark:
		return Dark, true
	case Light:
		return Light, true
	}
	return "", false
}

// Opposite returns the other mode.
func (t Theme) Opposite() Theme {
	if t == Light {
		return Dark
	}
	return Light
}

func (t Theme) String() string { return string(t) }

// Logo paths, picked for contrast with the page background.
const (
	LogoOnLight = "/assets/img/logo-dark.svg"
	LogoOnDark  = "/assets/img/logo-white.svg"
)

// Logo returns the logo drawn for a page in mode t.
func (t Theme) Logo() string {
	if t == Light {
		return LogoOnLight
	}
	return LogoOnDark
}

// Controller holds the current theme for one client and persists changes.
type Controller struct {
	store   prefs.Store
	current Theme
}

// New returns a controller bound to store. It starts at Default until Initialize runs.
func New(store prefs.Store) *Controller {
	return &Controller{store: prefs.Safe(store), current: Default}
}

// Initialize loads the stored preference, falling back to Default.
func (c *Controller) Initialize() Theme {
	c.current = Default
	if v, ok := c.store.Get(prefs.KeyTheme); ok {
		if t, ok := Parse(v); ok {
			c.current = t
		}
	}
	return c.current
}

// Current reports the active theme.
func (c *Controller) Current() Theme { return c.current }

// Toggle flips the theme and persists the new value.
func (c *Controller) Toggle() Theme {
	c.current = c.current.Opposite()
	c.store.Set(prefs.KeyTheme, string(c.current))
	return c.current
}

// Attribute is the data-theme value for the <html> element.
func (c *Controller) Attribute() string { return string(c.current) }

// Logo returns the logo that contrasts with the active theme.
func (c *Controller) Logo() string { return c.current.Logo() }

type ctxKey struct{}

// WithController stores c in ctx.
func WithController(ctx context.Context, c *Controller) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the request controller. It panics with ErrNoController
// when Provide was not installed.
func FromContext(ctx context.Context) *Controller {
	if c, ok := ctx.Value(ctxKey{}).(*Controller); ok && c != nil {
		return c
	}
	panic(ErrNoController)
}

// Provide binds a cookie-backed controller to every request.
func Provide(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := New(prefs.NewCookieStore(w, r, secure))
			c.Initialize()
			next.ServeHTTP(w, r.WithContext(WithController(r.Context(), c)))
		})
	}
}
