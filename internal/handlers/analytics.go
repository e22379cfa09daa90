package handlers

import "prognocore.com/web/internal/consent"

// Analytics holds client instrumentation configuration surfaced to templates.
type Analytics struct {
	GA4MeasurementID string // e.g. G-XXXXXXXXXX
}

// ForConsent drops the tag unless the visitor accepted cookies.
func (a Analytics) ForConsent(s consent.State) Analytics {
	if s != consent.Accepted {
		return Analytics{}
	}
	return a
}

// Enabled reports whether the tag should render.
func (a Analytics) Enabled() bool { return a.GA4MeasurementID != "" }
