// Package consent tracks the cookie-consent answer for a client.
package consent

import (
	"prognocore.com/web/internal/prefs"
)

// State is the recorded consent answer.
type State string

const (
	Unset    State = ""
	Accepted State = "accepted"
	Declined State = "declined"
)

// ParseAnswer accepts only the two explicit answers.
func ParseAnswer(v string) (State, bool) {
	switch State(v) {
	case Accepted:
		return Accepted, true
	case Declined:
		return Declined, true
	}
	return Unset, false
}

// Read returns the stored state. Unknown values count as unset.
func Read(store prefs.Store) State {
	v, ok := prefs.Safe(store).Get(prefs.KeyConsent)
	if !ok {
		return Unset
	}
	s, ok := ParseAnswer(v)
	if !ok {
		return Unset
	}
	return s
}

// Record persists an explicit answer. Unset is ignored.
func Record(store prefs.Store, s State) {
	if s != Accepted && s != Declined {
		return
	}
	prefs.Safe(store).Set(prefs.KeyConsent, string(s))
}

// ShouldPrompt reports whether the banner is still owed to this client.
func ShouldPrompt(store prefs.Store) bool {
	return Read(store) == Unset
}
