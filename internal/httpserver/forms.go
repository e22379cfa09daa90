package httpserver

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"prognocore.com/web/internal/backend"
	"prognocore.com/web/internal/forms"
	"prognocore.com/web/internal/fragments"
	mw "prognocore.com/web/internal/middleware"
	"prognocore.com/web/internal/observability"
)

func (s *server) contactPage(w http.ResponseWriter, r *http.Request) {
	s.renderContact(w, r, http.StatusOK, fragments.ContactFormData{})
}

func (s *server) renderContact(w http.ResponseWriter, r *http.Request, status int, form fragments.ContactFormData) {
	t := s.translator(r)
	p := s.basePage(w, r, t("contact.title"), t("contact.lead"), "")
	form.CSRFToken = p.CSRFToken
	p.Contact = s.fragment(r.Context(), fragments.ContactForm(form, t))
	s.render(w, r, "contact", status, p)
}

// submitContact validates the post and forwards it. Invalid input never
// reaches the submitter. htmx callers get only the form back.
func (s *server) submitContact(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	c := forms.ContactFromValues(r.PostForm)
	form := fragments.ContactFormData{Values: c, Errors: c.Validate()}
	status := http.StatusOK
	if form.Errors.Empty() {
		form.Status = s.submitter.Submit(r.Context(), backend.EndpointContact, c)
	} else {
		status = http.StatusUnprocessableEntity
		observability.FromContext(r.Context()).Info("contact form rejected", zap.Strings("fields", form.Errors.Fields()))
	}

	if mw.IsHTMX(r.Context()) {
		form.CSRFToken = mw.CSRFToken(r)
		s.writeFragment(w, r, status, fragments.ContactForm(form, s.translator(r)))
		return
	}
	s.renderContact(w, r, status, form)
}

func (s *server) submitNewsletter(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	n := forms.NewsletterFromValues(r.PostForm)
	form := fragments.NewsletterFormData{Values: n, Errors: n.Validate()}
	status := http.StatusOK
	if form.Errors.Empty() {
		form.Status = s.submitter.Submit(r.Context(), backend.EndpointNewsletter, n)
	} else {
		status = http.StatusUnprocessableEntity
	}

	if mw.IsHTMX(r.Context()) {
		form.CSRFToken = mw.CSRFToken(r)
		s.writeFragment(w, r, status, fragments.NewsletterForm(form, s.translator(r)))
		return
	}
	s.renderHome(w, r, status, form)
}

// parseForm reads the posted body and answers the error itself when it fails.
func (s *server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			mw.WriteError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		mw.WriteError(w, r, http.StatusBadRequest, "malformed form body")
		return false
	}
	return true
}
