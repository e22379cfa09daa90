package httpserver

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/a-h/templ"

	"prognocore.com/web/internal/consent"
	"prognocore.com/web/internal/fragments"
	mw "prognocore.com/web/internal/middleware"
	"prognocore.com/web/internal/prefs"
	"prognocore.com/web/internal/theme"
)

// toggleTheme flips the stored theme. htmx callers get the new toggle plus an
// out-of-band logo and a themeChanged event; form posts are sent back.
func (s *server) toggleTheme(w http.ResponseWriter, r *http.Request) {
	ctl := theme.FromContext(r.Context())
	next := ctl.Toggle()
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, backTo(r), http.StatusSeeOther)
		return
	}
	t := s.translator(r)
	mw.TriggerEvent(w, "themeChanged", map[string]string{"theme": next.String()})
	s.writeFragment(w, r, http.StatusOK,
		fragments.ThemeToggle(next, mw.CSRFToken(r), t),
		fragments.Logo(next, t, true),
	)
}

// recordConsent stores an explicit accept or decline from the banner.
func (s *server) recordConsent(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	state, ok := consent.ParseAnswer(r.PostFormValue("answer"))
	if !ok {
		mw.WriteError(w, r, http.StatusBadRequest, "answer must be accepted or declined")
		return
	}
	store := prefs.NewCookieStore(w, r, s.secure)
	consent.Record(store, state)
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, backTo(r), http.StatusSeeOther)
		return
	}
	s.writeFragment(w, r, http.StatusOK, fragments.ConsentBanner(consent.Read(store), "", s.translator(r)))
}

func (s *server) writeFragment(w http.ResponseWriter, r *http.Request, status int, components ...templ.Component) {
	var buf bytes.Buffer
	for _, c := range components {
		if err := c.Render(r.Context(), &buf); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// backTo returns the Referer path when it points at this host, else "/".
func backTo(r *http.Request) string {
	ref := r.Header.Get("Referer")
	if ref == "" {
		return "/"
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Host != "" && u.Host != r.Host) || u.Path == "" || u.Path[0] != '/' {
		return "/"
	}
	if len(u.Path) > 1 && u.Path[1] == '/' {
		return "/"
	}
	return u.RequestURI()
}
