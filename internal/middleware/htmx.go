package middleware

import (
	"encoding/json"
	"net/http"
)

// HTMX marks requests coming from htmx so handlers can answer with fragments.
// Responses vary on HX-Request since the same URL serves both shapes.
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is := r.Header.Get("HX-Request") == "true"
		w.Header().Add("Vary", "HX-Request")
		next.ServeHTTP(w, r.WithContext(WithHTMX(r.Context(), is)))
	})
}

// TriggerEvent sets HX-Trigger with a single event and its detail.
func TriggerEvent(w http.ResponseWriter, name string, detail any) {
	b, err := json.Marshal(map[string]any{name: detail})
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(b))
}
