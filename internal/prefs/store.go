// Package prefs holds the per-client preference flags (theme, cookie consent).
// Values live in cookies on the client so they survive reloads and restarts.
package prefs

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// Keys understood by the site.
const (
	KeyTheme   = "theme"
	KeyConsent = "cookie-consent"
)

// cookieMaxAge keeps preferences for a year.
const cookieMaxAge = 365 * 24 * time.Hour

// Store is a flat string key-value store.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// Safe returns s, or a store that reads absent and ignores writes when s is nil.
func Safe(s Store) Store {
	if s == nil {
		return nopStore{}
	}
	return s
}

type nopStore struct{}

func (nopStore) Get(string) (string, bool) { return "", false }
func (nopStore) Set(string, string)        {}

// CookieStore reads preferences from request cookies and writes them back as
// Set-Cookie headers. Values written during the request are visible to later reads.
type CookieStore struct {
	r      *http.Request
	w      http.ResponseWriter
	secure bool

	mu      sync.Mutex
	written map[string]string
}

// NewCookieStore binds a store to one request/response pair. Either may be nil,
// in which case reads or writes degrade to no-ops.
func NewCookieStore(w http.ResponseWriter, r *http.Request, secure bool) *CookieStore {
	return &CookieStore{r: r, w: w, secure: secure, written: map[string]string{}}
}

// Get returns the value for key, preferring values written during this request.
func (s *CookieStore) Get(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.Lock()
	v, ok := s.written[key]
	s.mu.Unlock()
	if ok {
		return v, true
	}
	if s.r == nil {
		return "", false
	}
	c, err := s.r.Cookie(key)
	if err != nil || strings.TrimSpace(c.Value) == "" {
		return "", false
	}
	return c.Value, true
}

// Set persists value under key.
func (s *CookieStore) Set(key, value string) {
	if s == nil || s.w == nil || strings.TrimSpace(key) == "" {
		return
	}
	s.mu.Lock()
	s.written[key] = value
	s.mu.Unlock()
	// not HttpOnly: the head script reads the theme before first paint
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		Expires:  time.Now().Add(cookieMaxAge),
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// MemoryStore is a map-backed Store.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns a store seeded with the given values.
func NewMemoryStore(seed map[string]string) *MemoryStore {
	m := &MemoryStore{values: map[string]string{}}
	for k, v := range seed {
		m.values[k] = v
	}
	return m
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
}
